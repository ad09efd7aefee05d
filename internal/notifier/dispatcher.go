package notifier

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/domain"
	"github.com/helderalustau/kiagenda-beauty-hub-sub000/pkg/metrics"
)

// Dispatcher раздает уведомления о pending записях сессиям персонала салона.
// Каждая подписка совмещает push-события из канала событий и периодический
// reconciliation poll по хранилищу: пропущенное push-событие будет
// восстановлено ближайшим поллом.
type Dispatcher struct {
	source       EventSource
	store        PendingFetcher
	pollInterval time.Duration
	dedupSize    int
	metrics      *metrics.Metrics
	logger       Logger
}

func New(source EventSource, store PendingFetcher, pollInterval time.Duration, dedupSize int, m *metrics.Metrics, logger Logger) *Dispatcher {
	if pollInterval <= 0 {
		pollInterval = time.Duration(domain.DefaultNotificationPollSeconds) * time.Second
	}
	if dedupSize <= 0 {
		dedupSize = domain.DefaultNotificationDedupEntries
	}
	return &Dispatcher{
		source:       source,
		store:        store,
		pollInterval: pollInterval,
		dedupSize:    dedupSize,
		metrics:      m,
		logger:       logger,
	}
}

// Subscription активная сессия уведомлений одного салона
type Subscription struct {
	salonID int64
	handler Handler
	logger  Logger
	m       *metrics.Metrics

	cancel context.CancelFunc
	wg     sync.WaitGroup

	// deliveryMu сериализует вызовы handler между горутиной событий и поллером,
	// выполняя обещание контракта Handler. Берется только после отпускания mu
	deliveryMu sync.Mutex

	mu      sync.Mutex
	alerted *dedupSet
	pending map[int64]Item
	pollGen uint64
	closed  bool
}

// Subscribe запускает сессию уведомлений для салона.
// Ошибка подписки на канал событий не фатальна: сессия продолжит
// работать только на поллинге
func (d *Dispatcher) Subscribe(ctx context.Context, salonID int64, handler Handler) *Subscription {
	sessCtx, cancel := context.WithCancel(ctx)

	sub := &Subscription{
		salonID: salonID,
		handler: handler,
		logger:  d.logger,
		m:       d.metrics,
		cancel:  cancel,
		alerted: newDedupSet(d.dedupSize),
		pending: make(map[int64]Item),
	}

	events, err := d.source.Subscribe(sessCtx, salonID)
	if err != nil {
		d.logger.Error("notifier: Subscribe - event channel unavailable for salon %d, falling back to polling only: %v", salonID, err)
	} else {
		sub.wg.Add(1)
		go sub.consumeEvents(sessCtx, events)
	}

	sub.wg.Add(1)
	go sub.pollLoop(sessCtx, d.store, d.pollInterval)

	// Стартовый полл, чтобы сессия сразу увидела уже накопившиеся pending записи
	sub.poll(sessCtx, d.store)

	return sub
}

// Unsubscribe останавливает сессию и дожидается завершения её горутин
func (s *Subscription) Unsubscribe() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()
	s.wg.Wait()
}

// Pending возвращает снимок неподтвержденных уведомлений сессии,
// упорядоченный по идентификатору записи
func (s *Subscription) Pending() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]Item, 0, len(s.pending))
	for _, item := range s.pending {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].AppointmentID < items[j].AppointmentID
	})
	return items
}

// Clear подтверждает (убирает) одно уведомление.
// Повторное уведомление по этой записи не придет: она остается в dedup-множестве
func (s *Subscription) Clear(appointmentID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, appointmentID)
}

// ClearAll подтверждает все уведомления сессии
func (s *Subscription) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = make(map[int64]Item)
}

func (s *Subscription) consumeEvents(ctx context.Context, events <-chan domain.AppointmentEvent) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				s.logger.Warn("notifier: consumeEvents - event channel closed for salon %d, polling remains active", s.salonID)
				return
			}
			s.handleEvent(e)
		}
	}
}

func (s *Subscription) handleEvent(e domain.AppointmentEvent) {
	if e.Status == domain.StatusPending {
		s.admit(itemFromEvent(e))
		return
	}

	// Запись покинула pending: убираем из списка и шлем информационное уведомление
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	_, wasPending := s.pending[e.AppointmentID]
	delete(s.pending, e.AppointmentID)
	s.mu.Unlock()

	if wasPending {
		s.deliveryMu.Lock()
		s.handler.OnResolved(e.AppointmentID, e.Status)
		s.deliveryMu.Unlock()
	}
}

// admit добавляет pending запись в сессию; dedup-множество гарантирует,
// что OnPending по одной записи вызовется не более одного раза
func (s *Subscription) admit(item Item) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	isNew := s.alerted.Add(item.AppointmentID)
	if isNew {
		s.pending[item.AppointmentID] = item
	}
	s.mu.Unlock()

	if isNew {
		s.deliveryMu.Lock()
		s.handler.OnPending(item)
		s.deliveryMu.Unlock()
		if s.m != nil {
			s.m.NotificationsSent.WithLabelValues("pending").Inc()
		}
	}
}

func (s *Subscription) pollLoop(ctx context.Context, store PendingFetcher, interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.poll(ctx, store)
		}
	}
}

// poll сверяет локальное состояние с хранилищем: добавляет pending записи,
// пропущенные каналом событий, и убирает записи, которые уже не pending.
// Результат полла, начатого до более свежего, отбрасывается
func (s *Subscription) poll(ctx context.Context, store PendingFetcher) {
	s.mu.Lock()
	s.pollGen++
	gen := s.pollGen
	s.mu.Unlock()

	appointments, err := store.GetPendingForSalon(ctx, s.salonID)
	if err != nil {
		s.logger.Error("notifier: poll - failed to fetch pending appointments for salon %d: %v", s.salonID, err)
		return
	}
	if ctx.Err() != nil {
		return
	}

	s.mu.Lock()
	if s.closed || gen != s.pollGen {
		s.mu.Unlock()
		return
	}

	actual := make(map[int64]struct{}, len(appointments))
	var fresh []Item
	for _, a := range appointments {
		actual[a.ID] = struct{}{}
		if s.alerted.Add(a.ID) {
			item := itemFromAppointment(a)
			s.pending[a.ID] = item
			fresh = append(fresh, item)
		}
	}

	// Записи, покинувшие pending пока push-событие терялось
	for id := range s.pending {
		if _, ok := actual[id]; !ok {
			delete(s.pending, id)
		}
	}
	s.mu.Unlock()

	s.deliveryMu.Lock()
	for _, item := range fresh {
		s.handler.OnPending(item)
		if s.m != nil {
			s.m.NotificationsSent.WithLabelValues("pending").Inc()
		}
	}
	s.deliveryMu.Unlock()
}
