package domain

import (
	"time"

	"github.com/helderalustau/kiagenda-beauty-hub-sub000/pkg/types"
)

// TimeSlot represents a candidate start time at which a service of the
// given duration could begin. Derived value, never persisted.
type TimeSlot struct {
	Date            time.Time
	StartTime       types.TimeString
	DurationMinutes int
}

// End returns the slot end time
func (s TimeSlot) End() (types.TimeString, error) {
	return s.StartTime.AddMinutes(s.DurationMinutes)
}

// Overlaps проверяет реальное пересечение слота с интервалом [start, end)
// Граничные случаи (конец одного совпадает с началом другого) пересечением не считаются
func (s TimeSlot) Overlaps(start types.TimeString, durationMinutes int) bool {
	slotEnd, err := s.End()
	if err != nil {
		return false
	}
	otherEnd, err := start.AddMinutes(durationMinutes)
	if err != nil {
		return false
	}
	return start.IsBefore(slotEnd) && otherEnd.IsAfter(s.StartTime)
}

// OpenInterval открытый рабочий под-интервал дня в минутах с начала суток [Start, End)
type OpenInterval struct {
	Start int
	End   int
}

// BuildOpenIntervals строит открытые под-интервалы дня из расписания.
// Обеденный перерыв, если он включен, вычитается из рабочего окна,
// давая ноль, один или два под-интервала
func BuildOpenIntervals(day DaySchedule) ([]OpenInterval, error) {
	if !day.IsOpen || day.OpenTime == nil || day.CloseTime == nil {
		return nil, nil
	}

	open, err := day.OpenTime.Minutes()
	if err != nil {
		return nil, err
	}
	close, err := day.CloseTime.Minutes()
	if err != nil {
		return nil, err
	}
	if open >= close {
		return nil, nil
	}

	full := OpenInterval{Start: open, End: close}

	if !day.HasLunchBreak || day.LunchStart == nil || day.LunchEnd == nil {
		return []OpenInterval{full}, nil
	}

	lunchStart, err := day.LunchStart.Minutes()
	if err != nil {
		return nil, err
	}
	lunchEnd, err := day.LunchEnd.Minutes()
	if err != nil {
		return nil, err
	}

	// Перерыв вне рабочего окна или пустой - игнорируем
	if lunchStart >= lunchEnd || lunchEnd <= full.Start || lunchStart >= full.End {
		return []OpenInterval{full}, nil
	}

	result := make([]OpenInterval, 0, 2)
	if full.Start < lunchStart {
		result = append(result, OpenInterval{Start: full.Start, End: lunchStart})
	}
	if lunchEnd < full.End {
		result = append(result, OpenInterval{Start: lunchEnd, End: full.End})
	}
	return result, nil
}

// CountOverlapping подсчитывает записи, реально пересекающиеся со слотом.
// Ячейку занимают только pending/confirmed без мягкого удаления; граничащие
// интервалы пересечением не считаются (строгие неравенства в Overlaps)
func CountOverlapping(slot TimeSlot, appointments []*Appointment) int {
	count := 0
	for _, appt := range appointments {
		if !appt.BlocksSlot() {
			continue
		}
		if slot.Overlaps(appt.StartTime, appt.DurationMinutes) {
			count++
		}
	}
	return count
}

// IsDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func IsDateInPast(date, now time.Time) bool {
	// Обнуляем время, чтобы сравнивать только даты
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
