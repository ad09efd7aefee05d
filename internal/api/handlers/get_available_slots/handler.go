package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/api/handlers"
	getAvailableSlots "github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/usecase/get_available_slots"
)

const (
	msgInvalidSalonID  = "некорректный ID салона"
	msgInvalidParams   = "некорректные параметры запроса, ожидается date=YYYY-MM-DD и serviceIds=1,2"
	msgSalonNotFound   = "салон не найден"
	msgServiceNotFound = "услуга не найдена"
	msgInvalidDuration = "некорректная длительность услуг"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/salons/{salonId}/available-slots?date=YYYY-MM-DD&serviceIds=1,2
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	salonID, err := strconv.ParseInt(vars["salonId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /salons/{id}/available-slots - Invalid salon ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSalonID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	serviceIDsStr := r.URL.Query().Get("serviceIds")

	useCaseReq, err := ToUseCaseRequest(salonID, dateStr, serviceIDsStr)
	if err != nil {
		h.logger.Warn("GET /salons/{id}/available-slots - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrSalonNotFound):
			h.logger.Warn("GET /salons/{id}/available-slots - Salon not found: salon_id=%d", salonID)
			handlers.RespondNotFound(w, msgSalonNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /salons/{id}/available-slots - Service not found: salon_id=%d", salonID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidDuration):
			h.logger.Warn("GET /salons/{id}/available-slots - Invalid duration: salon_id=%d", salonID)
			handlers.RespondBadRequest(w, msgInvalidDuration)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /salons/{id}/available-slots - Invalid input: salon_id=%d", salonID)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /salons/{id}/available-slots - Failed to get slots: salon_id=%d, error=%v",
				salonID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /salons/{id}/available-slots - Slots retrieved: salon_id=%d, date=%s, count=%d",
		salonID, dateStr, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
