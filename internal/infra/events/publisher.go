package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/domain"
)

// Publisher публикует события записей в redis pub/sub канал салона
// Публикация best-effort: вызывающая сторона логирует ошибку и продолжает,
// подписчики восстанавливают пропущенные события через reconciliation poll
type Publisher struct {
	rdb *redis.Client
	log Logger
}

// NewPublisher создает новый publisher событий
func NewPublisher(rdb *redis.Client, log Logger) *Publisher {
	return &Publisher{rdb: rdb, log: log}
}

// PublishCreated публикует событие создания записи
func (p *Publisher) PublishCreated(ctx context.Context, appt *domain.Appointment) error {
	return p.publish(ctx, domain.NewAppointmentEvent(domain.EventAppointmentCreated, appt))
}

// PublishUpdated публикует событие изменения записи
func (p *Publisher) PublishUpdated(ctx context.Context, appt *domain.Appointment) error {
	return p.publish(ctx, domain.NewAppointmentEvent(domain.EventAppointmentUpdated, appt))
}

func (p *Publisher) publish(ctx context.Context, event domain.AppointmentEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMarshal, err)
	}

	channel := channelName(event.SalonID)
	if err := p.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("%w: channel=%s: %v", ErrPublish, channel, err)
	}

	p.log.Info("events: published %s for appointment id=%d to %s", event.Kind, event.AppointmentID, channel)
	return nil
}
