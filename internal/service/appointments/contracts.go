package appointments

import (
	"context"

	"github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetBySalonWithFilter(ctx context.Context, filter domain.SalonAppointmentsFilter) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.AppointmentStatus) error
	Cancel(ctx context.Context, id int64, from domain.AppointmentStatus, reason *string) error
	SoftDelete(ctx context.Context, id int64) error
	Restore(ctx context.Context, id int64) error
}

// EventPublisher интерфейс публикации событий записей
// Публикация best-effort: ошибка канала логируется и не влияет на результат операции
type EventPublisher interface {
	PublishUpdated(ctx context.Context, appt *domain.Appointment) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
