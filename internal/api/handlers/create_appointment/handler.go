package create_appointment

import (
	"errors"
	"net/http"

	"github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/api/handlers"
	"github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/api/middleware"
	createAppointment "github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody     = "некорректное тело запроса"
	msgInvalidDate            = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingUserID          = "отсутствует ID пользователя"
	msgSalonNotFound          = "салон не найден"
	msgServiceNotFound        = "услуга не найдена"
	msgSalonQuotaClosed       = "салон закрыт для новых записей"
	msgSalonClosedOnDate      = "салон не работает в выбранную дату"
	msgSlotNotAvailable       = "выбранный временной слот недоступен"
	msgInvalidTimeSlot        = "некорректный временной слот"
	msgInvalidAppointmentDate = "некорректная дата записи"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(clientID)
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createAppointment.ErrSlotNotAvailable):
			h.logger.Warn("POST /appointments - Slot not available: client_id=%d, salon_id=%d", clientID, req.SalonID)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createAppointment.ErrSalonQuotaClosed):
			h.logger.Warn("POST /appointments - Salon closed for new appointments: salon_id=%d", req.SalonID)
			handlers.RespondForbidden(w, msgSalonQuotaClosed)

		case errors.Is(err, createAppointment.ErrSalonNotFound):
			h.logger.Warn("POST /appointments - Salon not found: salon_id=%d", req.SalonID)
			handlers.RespondNotFound(w, msgSalonNotFound)

		case errors.Is(err, createAppointment.ErrServiceNotFound):
			h.logger.Warn("POST /appointments - Service not found: salon_id=%d", req.SalonID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createAppointment.ErrSalonClosedOnDate):
			h.logger.Warn("POST /appointments - Salon closed on date: salon_id=%d, date=%s", req.SalonID, req.Date)
			handlers.RespondBadRequest(w, msgSalonClosedOnDate)

		case errors.Is(err, createAppointment.ErrInvalidDate):
			h.logger.Warn("POST /appointments - Invalid date: client_id=%d, date=%s", clientID, req.Date)
			handlers.RespondBadRequest(w, msgInvalidAppointmentDate)

		case errors.Is(err, createAppointment.ErrInvalidTimeSlot):
			h.logger.Warn("POST /appointments - Invalid time slot: client_id=%d, salon_id=%d", clientID, req.SalonID)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: client_id=%d, salon_id=%d", clientID, req.SalonID)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: client_id=%d, salon_id=%d, error=%v",
				clientID, req.SalonID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created: appointment_id=%d, client_id=%d, salon_id=%d",
		result.ID, clientID, req.SalonID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
