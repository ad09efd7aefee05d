package get_available_slots

import (
	"time"

	"github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/domain"
	"github.com/helderalustau/kiagenda-beauty-hub-sub000/pkg/types"
)

// generateCandidates дискретизирует открытые под-интервалы с фиксированным шагом
// Кандидат t допустим, только если t + durationMinutes не выходит за конец под-интервала
func generateCandidates(intervals []domain.OpenInterval, durationMinutes, stepMinutes int) ([]types.TimeString, error) {
	candidates := make([]types.TimeString, 0)

	for _, iv := range intervals {
		for t := iv.Start; t+durationMinutes <= iv.End; t += stepMinutes {
			ts, err := types.NewTimeStringFromMinutes(t)
			if err != nil {
				return nil, err
			}
			candidates = append(candidates, ts)
		}
	}

	return candidates, nil
}

// filterOccupied убирает кандидатов, пересекающихся с существующими записями
// Пересечением считается любое наложение интервалов [t, t+duration), а не только
// совпадение начала: длинная существующая услуга блокирует и более поздние старты
func filterOccupied(
	date time.Time,
	candidates []types.TimeString,
	durationMinutes int,
	appointments []*domain.Appointment,
) []types.TimeString {
	free := make([]types.TimeString, 0, len(candidates))

	for _, start := range candidates {
		slot := domain.TimeSlot{
			Date:            date,
			StartTime:       start,
			DurationMinutes: durationMinutes,
		}
		if domain.CountOverlapping(slot, appointments) == 0 {
			free = append(free, start)
		}
	}

	return free
}
