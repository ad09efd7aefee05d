package get_quota_status

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/api/handlers"
	"github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/service/quota"
)

const (
	msgInvalidSalonID = "некорректный ID салона"
	msgSalonNotFound  = "салон не найден"
)

type Handler struct {
	service QuotaService
	logger  Logger
}

func NewHandler(service QuotaService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// QuotaStatusResponse HTTP модель состояния квоты салона
type QuotaStatusResponse struct {
	SalonID      int64 `json:"salonId"`
	CurrentCount int   `json:"currentCount"`
	MaxCount     int   `json:"maxCount"`
	LimitReached bool  `json:"limitReached"`
	SalonClosed  bool  `json:"salonClosed"`
}

// Handle GET /api/v1/salons/{salonId}/quota
// Загрузка дашборда - одна из точек опортунистической проверки квоты:
// запрос не только читает состояние, но и закрывает салон при исчерпании
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	salonID, err := strconv.ParseInt(vars["salonId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /salons/{id}/quota - Invalid salon ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSalonID)
		return
	}

	status, err := h.service.CheckAndEnforce(r.Context(), salonID)
	if err != nil {
		switch {
		case errors.Is(err, quota.ErrSalonNotFound):
			h.logger.Warn("GET /salons/{id}/quota - Salon not found: salon_id=%d", salonID)
			handlers.RespondNotFound(w, msgSalonNotFound)

		default:
			h.logger.Error("GET /salons/{id}/quota - Failed to check quota: salon_id=%d, error=%v", salonID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /salons/{id}/quota - Quota checked: salon_id=%d, count=%d/%d",
		salonID, status.CurrentCount, status.MaxCount)
	handlers.RespondJSON(w, http.StatusOK, QuotaStatusResponse{
		SalonID:      status.SalonID,
		CurrentCount: status.CurrentCount,
		MaxCount:     status.MaxCount,
		LimitReached: status.LimitReached,
		SalonClosed:  status.SalonClosed,
	})
}
