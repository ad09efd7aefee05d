package stream_notifications

import (
	"context"

	"github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/notifier"
)

type NotificationDispatcher interface {
	Subscribe(ctx context.Context, salonID int64, handler notifier.Handler) *notifier.Subscription
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
