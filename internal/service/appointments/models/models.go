package models

import (
	"time"

	"github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/domain"
)

// AppointmentResponse модель записи для внешних потребителей сервиса
type AppointmentResponse struct {
	ID              int64     `json:"id"`
	SalonID         int64     `json:"salonId"`
	ServiceID       int64     `json:"serviceId"`
	ClientID        int64     `json:"clientId"`
	Date            time.Time `json:"date"`
	StartTime       string    `json:"startTime"`
	DurationMinutes int       `json:"durationMinutes"`
	Status          string    `json:"status"`

	ServiceName  string  `json:"serviceName"`
	ServicePrice float64 `json:"servicePrice"`
	Notes        *string `json:"notes,omitempty"`

	CancellationReason *string    `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
	Deleted            bool       `json:"deleted"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse список записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

// GetSalonAppointmentsRequest запрос списка записей салона
type GetSalonAppointmentsRequest struct {
	SalonID        int64
	Date           *time.Time
	StartDate      *time.Time
	EndDate        *time.Time
	Status         *string
	IncludeDeleted bool
}

// ToDomainFilter конвертирует запрос в domain-фильтр
func (r *GetSalonAppointmentsRequest) ToDomainFilter() (domain.SalonAppointmentsFilter, error) {
	filter := domain.SalonAppointmentsFilter{
		SalonID:        r.SalonID,
		Date:           r.Date,
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
		IncludeDeleted: r.IncludeDeleted,
	}

	if r.Status != nil {
		status, err := ToDomainStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// ToDomainStatus конвертирует строку в статус записи
func ToDomainStatus(s string) (domain.AppointmentStatus, error) {
	status := domain.AppointmentStatus(s)
	if !status.IsValid() {
		return "", domain.ErrUnknownStatus
	}
	return status, nil
}

// FromDomainAppointment конвертирует domain-запись в response
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	return &AppointmentResponse{
		ID:                 a.ID,
		SalonID:            a.SalonID,
		ServiceID:          a.ServiceID,
		ClientID:           a.ClientID,
		Date:               a.Date,
		StartTime:          a.StartTime.String(),
		DurationMinutes:    a.DurationMinutes,
		Status:             string(a.Status),
		ServiceName:        a.ServiceName,
		ServicePrice:       a.ServicePrice,
		Notes:              a.Notes,
		CancellationReason: a.CancellationReason,
		CancelledAt:        a.CancelledAt,
		Deleted:            a.IsDeleted(),
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

// FromDomainAppointmentList конвертирует список domain-записей в response
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	result := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, len(appointments)),
		Total:        len(appointments),
	}
	for i, a := range appointments {
		result.Appointments[i] = *FromDomainAppointment(a)
	}
	return result
}
