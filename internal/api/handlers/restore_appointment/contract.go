package restore_appointment

import (
	"context"

	"github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/service/appointments/models"
)

type AppointmentService interface {
	Restore(ctx context.Context, id int64) (*models.AppointmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
