package get_salon_appointments

import (
	"fmt"
	"strconv"
	"time"

	"github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/domain"
	"github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/service/appointments/models"
)

// ToServiceRequest строит запрос сервиса из query параметров
// Параметры date и startDate/endDate взаимоисключающие
func ToServiceRequest(salonID int64, dateStr, startDateStr, endDateStr, statusStr, includeDeletedStr string) (*models.GetSalonAppointmentsRequest, error) {
	req := &models.GetSalonAppointmentsRequest{
		SalonID: salonID,
	}

	if dateStr != "" && (startDateStr != "" || endDateStr != "") {
		return nil, fmt.Errorf("date and startDate/endDate are mutually exclusive")
	}

	if dateStr != "" {
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid date: %w", err)
		}
		req.Date = &date
	}

	if startDateStr != "" {
		startDate, err := time.Parse(domain.DateFormat, startDateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid startDate: %w", err)
		}
		req.StartDate = &startDate
	}

	if endDateStr != "" {
		endDate, err := time.Parse(domain.DateFormat, endDateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid endDate: %w", err)
		}
		req.EndDate = &endDate
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	if includeDeletedStr != "" {
		includeDeleted, err := strconv.ParseBool(includeDeletedStr)
		if err != nil {
			return nil, fmt.Errorf("invalid includeDeleted: %w", err)
		}
		req.IncludeDeleted = includeDeleted
	}

	return req, nil
}
