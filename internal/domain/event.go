package domain

import (
	"time"

	"github.com/helderalustau/kiagenda-beauty-hub-sub000/pkg/types"
)

// EventKind вид события жизненного цикла записи
type EventKind string

const (
	EventAppointmentCreated EventKind = "appointment.created"
	EventAppointmentUpdated EventKind = "appointment.updated"
)

// AppointmentEvent событие, публикуемое в канал событий салона
// Несёт полную запись, чтобы подписчикам не требовался дополнительный запрос
type AppointmentEvent struct {
	Kind          EventKind         `json:"kind"`
	AppointmentID int64             `json:"appointmentId"`
	SalonID       int64             `json:"salonId"`
	ServiceID     int64             `json:"serviceId"`
	ClientID      int64             `json:"clientId"`
	Date          string            `json:"date"`
	StartTime     types.TimeString  `json:"startTime"`
	Status        AppointmentStatus `json:"status"`
	ServiceName   string            `json:"serviceName"`
	OccurredAt    time.Time         `json:"occurredAt"`
}

// NewAppointmentEvent создает событие из записи
func NewAppointmentEvent(kind EventKind, a *Appointment) AppointmentEvent {
	return AppointmentEvent{
		Kind:          kind,
		AppointmentID: a.ID,
		SalonID:       a.SalonID,
		ServiceID:     a.ServiceID,
		ClientID:      a.ClientID,
		Date:          a.Date.Format(DateFormat),
		StartTime:     a.StartTime,
		Status:        a.Status,
		ServiceName:   a.ServiceName,
		OccurredAt:    time.Now().UTC(),
	}
}
