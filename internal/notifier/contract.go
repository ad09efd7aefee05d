package notifier

import (
	"context"

	"github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/domain"
)

// EventSource источник push-событий записей (канал событий)
type EventSource interface {
	Subscribe(ctx context.Context, salonID int64) (<-chan domain.AppointmentEvent, error)
}

// PendingFetcher источник истины для reconciliation poll:
// полный список pending записей салона из хранилища
type PendingFetcher interface {
	GetPendingForSalon(ctx context.Context, salonID int64) ([]*domain.Appointment, error)
}

// Handler обработчик уведомлений сессии персонала
// Вызовы сериализованы диспетчером, обработчику не нужна своя синхронизация
type Handler interface {
	// OnPending вызывается ровно один раз для каждой новой pending записи
	// (звуковой и визуальный сигнал на дашборде)
	OnPending(item Item)

	// OnResolved вызывается, когда запись покидает статус pending
	// (менее срочное информационное уведомление)
	OnResolved(appointmentID int64, status domain.AppointmentStatus)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Item уведомление о pending записи
type Item struct {
	AppointmentID int64                    `json:"appointmentId"`
	SalonID       int64                    `json:"salonId"`
	ClientID      int64                    `json:"clientId"`
	ServiceName   string                   `json:"serviceName"`
	Date          string                   `json:"date"`
	StartTime     string                   `json:"startTime"`
	Status        domain.AppointmentStatus `json:"status"`
}

// itemFromEvent строит уведомление из push-события
func itemFromEvent(e domain.AppointmentEvent) Item {
	return Item{
		AppointmentID: e.AppointmentID,
		SalonID:       e.SalonID,
		ClientID:      e.ClientID,
		ServiceName:   e.ServiceName,
		Date:          e.Date,
		StartTime:     e.StartTime.String(),
		Status:        e.Status,
	}
}

// itemFromAppointment строит уведомление из записи, полученной поллингом
func itemFromAppointment(a *domain.Appointment) Item {
	return Item{
		AppointmentID: a.ID,
		SalonID:       a.SalonID,
		ClientID:      a.ClientID,
		ServiceName:   a.ServiceName,
		Date:          a.Date.Format(domain.DateFormat),
		StartTime:     a.StartTime.String(),
		Status:        a.Status,
	}
}
