package create_appointment

import (
	"time"

	"github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/domain"
	createAppointment "github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/usecase/create_appointment"
	"github.com/helderalustau/kiagenda-beauty-hub-sub000/pkg/types"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	SalonID    int64   `json:"salonId"`
	ServiceIDs []int64 `json:"serviceIds"`
	Date       string  `json:"date"`      // "2026-09-15"
	StartTime  string  `json:"startTime"` // "10:00"
	Notes      *string `json:"notes,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID              int64      `json:"id"`
	SalonID         int64      `json:"salonId"`
	ServiceID       int64      `json:"serviceId"`
	ClientID        int64      `json:"clientId"`
	Date            string     `json:"date"`
	StartTime       string     `json:"startTime"`
	DurationMinutes int        `json:"durationMinutes"`
	Status          string     `json:"status"`
	ServiceName     string     `json:"serviceName"`
	ServicePrice    float64    `json:"servicePrice"`
	Notes           *string    `json:"notes,omitempty"`
	Quota           *QuotaInfo `json:"quota,omitempty"`
	CreatedAt       string     `json:"createdAt"`
	UpdatedAt       string     `json:"updatedAt"`
}

// QuotaInfo состояние месячной квоты салона после создания записи
type QuotaInfo struct {
	CurrentCount int  `json:"currentCount"`
	MaxCount     int  `json:"maxCount"`
	LimitReached bool `json:"limitReached"`
	SalonClosed  bool `json:"salonClosed"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(clientID int64) (*createAppointment.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createAppointment.Request{
		SalonID:    r.SalonID,
		ServiceIDs: r.ServiceIDs,
		ClientID:   clientID,
		Date:       date,
		StartTime:  startTime,
		Notes:      r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	out := &AppointmentResponse{
		ID:              resp.ID,
		SalonID:         resp.SalonID,
		ServiceID:       resp.ServiceID,
		ClientID:        resp.ClientID,
		Date:            resp.Date.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		ServiceName:     resp.ServiceName,
		ServicePrice:    resp.ServicePrice,
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}

	if resp.Quota != nil {
		out.Quota = &QuotaInfo{
			CurrentCount: resp.Quota.CurrentCount,
			MaxCount:     resp.Quota.MaxCount,
			LimitReached: resp.Quota.LimitReached,
			SalonClosed:  resp.Quota.SalonClosed,
		}
	}

	return out
}
