package get_quota_status

import (
	"context"

	"github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/domain"
)

type QuotaService interface {
	CheckAndEnforce(ctx context.Context, salonID int64) (*domain.QuotaStatus, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
