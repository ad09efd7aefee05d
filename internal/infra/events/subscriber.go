package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/domain"
)

// Subscriber подписка на события записей салона через redis pub/sub
type Subscriber struct {
	rdb *redis.Client
	log Logger
}

// NewSubscriber создает новый subscriber событий
func NewSubscriber(rdb *redis.Client, log Logger) *Subscriber {
	return &Subscriber{rdb: rdb, log: log}
}

// Subscribe подписывается на события салона и возвращает канал событий
// Канал закрывается при отмене контекста. Некорректные сообщения логируются
// и пропускаются - подписчики полагаются на reconciliation poll
func (s *Subscriber) Subscribe(ctx context.Context, salonID int64) (<-chan domain.AppointmentEvent, error) {
	channel := channelName(salonID)
	pubsub := s.rdb.Subscribe(ctx, channel)

	// Дожидаемся подтверждения подписки, чтобы отличить ошибку соединения
	// от пустого канала
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, ErrSubscribe
	}

	out := make(chan domain.AppointmentEvent)

	go func() {
		defer close(out)
		defer pubsub.Close()

		msgCh := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgCh:
				if !ok {
					s.log.Warn("events: pubsub channel %s closed", channel)
					return
				}

				var event domain.AppointmentEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					s.log.Error("events: failed to unmarshal event from %s: %v", channel, err)
					continue
				}

				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
