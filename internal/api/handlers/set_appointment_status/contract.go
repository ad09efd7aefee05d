package set_appointment_status

import (
	"context"

	"github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/service/appointments/models"
)

type AppointmentService interface {
	SetStatus(ctx context.Context, id int64, targetStatus string, reason *string) (*models.AppointmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
