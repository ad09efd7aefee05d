package appointments

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrInvalidTransition возвращается при недопустимом переходе статуса
	// Допустимые рёбра: pending -> confirmed/cancelled, confirmed -> completed/cancelled
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidStatus возвращается при неизвестном целевом статусе
	ErrInvalidStatus = errors.New("invalid appointment status")

	// ErrStatusConflict возвращается, когда статус записи изменился конкурентно
	ErrStatusConflict = errors.New("appointment status changed concurrently")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
