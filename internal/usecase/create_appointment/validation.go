package create_appointment

import (
	"fmt"

	"github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/domain"
	"github.com/helderalustau/kiagenda-beauty-hub-sub000/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.SalonID <= 0 {
		return fmt.Errorf("%w: salonID must be positive", ErrInvalidInput)
	}

	if len(req.ServiceIDs) == 0 {
		return fmt.Errorf("%w: at least one serviceID is required", ErrInvalidInput)
	}

	for _, id := range req.ServiceIDs {
		if id <= 0 {
			return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
		}
	}

	if req.ClientID <= 0 {
		return fmt.Errorf("%w: clientID must be positive", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	// Проверяем, что время начала указано
	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	// Валидируем формат времени
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateSlotFitsSchedule проверяет, что запрошенный слот попадает в сетку
// дискретизации одного из открытых под-интервалов дня и целиком помещается в него
func validateSlotFitsSchedule(
	day domain.DaySchedule,
	startTime types.TimeString,
	durationMinutes int,
	stepMinutes int,
) error {
	intervals, err := domain.BuildOpenIntervals(day)
	if err != nil {
		return fmt.Errorf("%w: failed to build open intervals: %v", ErrInternal, err)
	}
	if len(intervals) == 0 {
		return ErrSalonClosedOnDate
	}

	start, err := startTime.Minutes()
	if err != nil {
		return fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}

	for _, iv := range intervals {
		if start < iv.Start || start+durationMinutes > iv.End {
			continue
		}
		// Начало должно лежать на сетке шага дискретизации
		if (start-iv.Start)%stepMinutes != 0 {
			return ErrInvalidTimeSlot
		}
		return nil
	}

	return ErrInvalidTimeSlot
}

// totalPrice суммирует цены услуг
func totalPrice(services []*domain.Service) float64 {
	total := 0.0
	for _, s := range services {
		total += s.Price
	}
	return total
}

// serviceNames объединяет названия услуг для денормализации
func serviceNames(services []*domain.Service) string {
	names := ""
	for i, s := range services {
		if i > 0 {
			names += " + "
		}
		names += s.Name
	}
	return names
}
