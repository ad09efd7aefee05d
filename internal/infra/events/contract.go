package events

import "fmt"

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// channelName имя pub/sub канала событий для салона
func channelName(salonID int64) string {
	return fmt.Sprintf("salon:%d:appointments", salonID)
}
