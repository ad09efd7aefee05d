package stream_notifications

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/api/handlers"
	"github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/domain"
	"github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/notifier"
)

const (
	msgInvalidSalonID       = "некорректный ID салона"
	msgStreamingUnsupported = "потоковая передача не поддерживается"

	eventPending  = "pending"
	eventResolved = "resolved"

	// Буфер на случай медленного клиента: при переполнении события
	// отбрасываются, ближайший reconciliation poll дашборда их восстановит
	eventBufferSize = 32

	heartbeatInterval = 30 * time.Second
)

type Handler struct {
	dispatcher NotificationDispatcher
	logger     Logger
}

func NewHandler(dispatcher NotificationDispatcher, logger Logger) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

type sseEvent struct {
	name string
	data interface{}
}

// resolvedPayload тело события resolved
type resolvedPayload struct {
	AppointmentID int64  `json:"appointmentId"`
	Status        string `json:"status"`
}

// streamHandler переправляет уведомления диспетчера в канал SSE сессии
type streamHandler struct {
	events  chan sseEvent
	salonID int64
	logger  Logger
}

func (s *streamHandler) OnPending(item notifier.Item) {
	s.send(sseEvent{name: eventPending, data: item})
}

func (s *streamHandler) OnResolved(appointmentID int64, status domain.AppointmentStatus) {
	s.send(sseEvent{name: eventResolved, data: resolvedPayload{
		AppointmentID: appointmentID,
		Status:        string(status),
	}})
}

func (s *streamHandler) send(e sseEvent) {
	select {
	case s.events <- e:
	default:
		s.logger.Warn("SSE stream - Event dropped, slow client: salon_id=%d, event=%s", s.salonID, e.name)
	}
}

// Handle GET /api/v1/salons/{salonId}/notifications/stream
// Server-Sent Events: event "pending" для новых pending записей,
// event "resolved" когда запись покидает pending
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	salonID, err := strconv.ParseInt(vars["salonId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /salons/{id}/notifications/stream - Invalid salon ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSalonID)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		h.logger.Error("GET /salons/{id}/notifications/stream - Streaming unsupported: salon_id=%d", salonID)
		handlers.RespondError(w, http.StatusInternalServerError, msgStreamingUnsupported)
		return
	}

	// Поток живет дольше серверного WriteTimeout - снимаем дедлайн записи
	// для этого соединения, иначе сервер оборвет его на первом heartbeat
	// после истечения таймаута
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		h.logger.Warn("GET /salons/{id}/notifications/stream - Failed to clear write deadline: salon_id=%d, error=%v",
			salonID, err)
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	stream := &streamHandler{
		events:  make(chan sseEvent, eventBufferSize),
		salonID: salonID,
		logger:  h.logger,
	}

	sub := h.dispatcher.Subscribe(r.Context(), salonID, stream)
	defer sub.Unsubscribe()

	h.logger.Info("GET /salons/{id}/notifications/stream - Stream opened: salon_id=%d", salonID)

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			h.logger.Info("GET /salons/{id}/notifications/stream - Stream closed: salon_id=%d", salonID)
			return

		case <-heartbeat.C:
			// Комментарий SSE держит соединение живым через прокси
			fmt.Fprint(w, ": heartbeat\n\n")
			flusher.Flush()

		case e := <-stream.events:
			payload, err := json.Marshal(e.data)
			if err != nil {
				h.logger.Error("GET /salons/{id}/notifications/stream - Failed to marshal event: salon_id=%d, error=%v",
					salonID, err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.name, payload)
			flusher.Flush()
		}
	}
}
