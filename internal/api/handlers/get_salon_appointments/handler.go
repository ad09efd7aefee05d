package get_salon_appointments

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/api/handlers"
	"github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/service/appointments"
)

const (
	msgInvalidSalonID = "некорректный ID салона"
	msgInvalidParams  = "некорректные параметры запроса"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/salons/{salonId}/appointments
// Query params: date, startDate, endDate, status, includeDeleted (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	salonID, err := strconv.ParseInt(vars["salonId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /salons/{id}/appointments - Invalid salon ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSalonID)
		return
	}

	query := r.URL.Query()
	serviceReq, err := ToServiceRequest(
		salonID,
		query.Get("date"),
		query.Get("startDate"),
		query.Get("endDate"),
		query.Get("status"),
		query.Get("includeDeleted"),
	)
	if err != nil {
		h.logger.Warn("GET /salons/{id}/appointments - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.GetSalonAppointments(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /salons/{id}/appointments - Invalid status filter: salon_id=%d", salonID)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /salons/{id}/appointments - Failed to get appointments: salon_id=%d, error=%v",
				salonID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /salons/{id}/appointments - Appointments retrieved: salon_id=%d, count=%d",
		salonID, result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}
