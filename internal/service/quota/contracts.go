package quota

import (
	"context"
	"time"

	"github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// CountInRange подсчитывает не удалённые записи салона с датой в [start, end]
	CountInRange(ctx context.Context, salonID int64, start, end time.Time) (int, error)
}

// SalonRepository интерфейс репозитория салонов
type SalonRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Salon, error)
	SetOpen(ctx context.Context, id int64, open bool, version int64) error
	GetPlanLimits(ctx context.Context, plan domain.PlanTier) (*domain.PlanLimits, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
