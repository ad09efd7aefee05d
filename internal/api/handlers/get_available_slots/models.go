package get_available_slots

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/domain"
	getAvailableSlots "github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/usecase/get_available_slots"
)

// SlotResponse HTTP модель временного слота
type SlotResponse struct {
	StartTime       string `json:"startTime"`
	DurationMinutes int    `json:"durationMinutes"`
}

// AvailableSlotsResponse HTTP модель ответа со слотами
type AvailableSlotsResponse struct {
	SalonID         int64          `json:"salonId"`
	Date            string         `json:"date"`
	DurationMinutes int            `json:"durationMinutes"`
	Slots           []SlotResponse `json:"slots"`
}

// ToUseCaseRequest строит запрос use case из параметров URL
func ToUseCaseRequest(salonID int64, dateStr, serviceIDsStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}

	serviceIDs, err := parseServiceIDs(serviceIDsStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		SalonID:    salonID,
		ServiceIDs: serviceIDs,
		Date:       date,
	}, nil
}

// parseServiceIDs разбирает список ID услуг из query параметра "1,2,3"
func parseServiceIDs(s string) ([]int64, error) {
	if s == "" {
		return nil, fmt.Errorf("serviceIds is required")
	}

	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid service id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]SlotResponse, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = SlotResponse{
			StartTime:       slot.StartTime.String(),
			DurationMinutes: slot.DurationMinutes,
		}
	}

	return &AvailableSlotsResponse{
		SalonID:         resp.SalonID,
		Date:            resp.Date.Format(domain.DateFormat),
		DurationMinutes: resp.DurationMinutes,
		Slots:           slots,
	}
}
