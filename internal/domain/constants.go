package domain

// Default configuration values
const (
	DefaultSlotStepMinutes          = 30 // шаг дискретизации начала слотов
	DefaultNotificationPollSeconds  = 60 // интервал reconciliation poll
	DefaultNotificationDedupEntries = 50 // размер дедупликационного кэша сессии
)

// Business validation constants
const (
	MinSlotStepMinutes          = 5
	MaxSlotStepMinutes          = 120
	MinServiceDurationMinutes   = 1
	MaxServiceDurationMinutes   = 480 // 8 hours
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// BlockingStatuses список статусов, занимающих временную ячейку
// Используется при подсчёте доступных слотов: completed и cancelled ячейку не блокируют
var BlockingStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
}

// AllStatuses полный закрытый набор статусов записи
var AllStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
	StatusCancelled,
}
