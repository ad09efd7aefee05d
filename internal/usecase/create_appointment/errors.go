package create_appointment

import "errors"

var (
	// ErrSalonNotFound возвращается, когда салон не найден
	ErrSalonNotFound = errors.New("create_appointment: salon not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_appointment: service not found")

	// ErrSalonQuotaClosed возвращается, когда салон закрыт для новых записей
	// по исчерпанию месячной квоты тарифа. Отличается от ErrSlotNotAvailable:
	// клиенту нужно объяснить, что занят не слот, а весь расчётный период
	ErrSalonQuotaClosed = errors.New("create_appointment: salon is closed for new appointments")

	// ErrSalonClosedOnDate возвращается, когда салон не работает в указанную дату
	ErrSalonClosedOnDate = errors.New("create_appointment: salon is closed on this date")

	// ErrSlotNotAvailable возвращается, когда слот уже занят на момент фиксации
	ErrSlotNotAvailable = errors.New("create_appointment: slot is not available")

	// ErrInvalidTimeSlot возвращается, когда время начала не попадает в сетку слотов
	// или выходит за рабочие часы
	ErrInvalidTimeSlot = errors.New("create_appointment: invalid time slot")

	// ErrInvalidDate возвращается при некорректной дате записи
	ErrInvalidDate = errors.New("create_appointment: invalid appointment date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
