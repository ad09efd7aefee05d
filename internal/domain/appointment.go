package domain

import (
	"time"

	"github.com/helderalustau/kiagenda-beauty-hub-sub000/pkg/types"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Appointment represents a client appointment in a salon
type Appointment struct {
	ID              int64
	SalonID         int64
	ServiceID       int64
	ClientID        int64
	Date            time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Status          AppointmentStatus

	// Denormalized data for the dashboard
	ServiceName  string
	ServicePrice float64
	Notes        *string

	CancellationReason *string
	CancelledAt        *time.Time

	// Soft delete marker; deleted appointments are excluded from
	// availability checks and quota counts until restored
	DeletedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// transitions допустимые переходы статусов
// Из completed и cancelled переходов нет - это терминальные статусы
var transitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// CanTransitionTo returns true if the status change follows an allowed edge
func (s AppointmentStatus) CanTransitionTo(target AppointmentStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no transition originates from the status
func (s AppointmentStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// IsValid returns true if the status belongs to the closed status set
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsDeleted returns true if the appointment is soft-deleted
func (a *Appointment) IsDeleted() bool {
	return a.DeletedAt != nil
}

// BlocksSlot returns true if the appointment occupies its time cell.
// Only non-deleted pending and confirmed appointments block a slot;
// completed and cancelled ones free the cell.
func (a *Appointment) BlocksSlot() bool {
	if a.IsDeleted() {
		return false
	}
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// CanBeCancelled returns true if the appointment can still be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status.CanTransitionTo(StatusCancelled)
}

// EndTime returns the appointment end time
func (a *Appointment) EndTime() (types.TimeString, error) {
	return a.StartTime.AddMinutes(a.DurationMinutes)
}

// SalonAppointmentsFilter фильтр для получения записей салона
type SalonAppointmentsFilter struct {
	SalonID        int64              // Обязательный параметр
	Date           *time.Time         // Фильтр по конкретной дате (опционально)
	StartDate      *time.Time         // Начало периода (опционально)
	EndDate        *time.Time         // Конец периода (опционально)
	Status         *AppointmentStatus // Фильтр по статусу (опционально)
	OnlyBlocking   bool               // Только записи, занимающие ячейку (pending/confirmed)
	IncludeDeleted bool               // Включать ли мягко удалённые записи
}
