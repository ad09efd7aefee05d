package quota

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/domain"
	salonRepo "github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/infra/storage/salon"
)

// Service (Quota Enforcer) следит за месячной квотой записей салона
//
// Это страж, а не cron: вызывается опортунистически после каждого создания
// записи и при каждой загрузке дашборда. Закрывает салон (is_open=false) при
// достижении лимита тарифа; обратно салон открывает только персонал вручную
type Service struct {
	appointmentRepo AppointmentRepository
	salonRepo       SalonRepository
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса квоты
func NewService(
	appointmentRepo AppointmentRepository,
	salonRepo SalonRepository,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		salonRepo:       salonRepo,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// CheckAndEnforce проверяет месячную квоту салона и при необходимости закрывает его
//
// Подсчёт: не удалённые записи салона с датой в текущем календарном месяце
// (с первого по последнее число включительно) независимо от статуса -
// отменённые считаются, пока не удалены мягко. Если лимит достигнут и салон
// открыт - ровно один атомарный перевод is_open в false. Если салон уже закрыт
// или квота не исчерпана - только отчёт, без побочных эффектов (идемпотентно)
func (s *Service) CheckAndEnforce(ctx context.Context, salonID int64) (*domain.QuotaStatus, error) {
	salon, err := s.salonRepo.GetByID(ctx, salonID)
	if err != nil {
		if errors.Is(err, salonRepo.ErrSalonNotFound) {
			s.logger.Warn("CheckAndEnforce: salon id=%d not found", salonID)
			return nil, ErrSalonNotFound
		}
		s.logger.Error("CheckAndEnforce: failed to get salon id=%d: %v", salonID, err)
		return nil, fmt.Errorf("%w: failed to get salon: %v", ErrInternal, err)
	}

	limits, err := s.salonRepo.GetPlanLimits(ctx, salon.Plan)
	if err != nil {
		if errors.Is(err, salonRepo.ErrPlanNotFound) {
			s.logger.Error("CheckAndEnforce: plan %q not found for salon id=%d", salon.Plan, salonID)
			return nil, ErrPlanNotFound
		}
		s.logger.Error("CheckAndEnforce: failed to get plan limits: %v", err)
		return nil, fmt.Errorf("%w: failed to get plan limits: %v", ErrInternal, err)
	}

	monthStart, monthEnd := currentMonthRange(s.timeProvider.Now())

	count, err := s.appointmentRepo.CountInRange(ctx, salonID, monthStart, monthEnd)
	if err != nil {
		s.logger.Error("CheckAndEnforce: failed to count appointments for salon id=%d: %v", salonID, err)
		return nil, fmt.Errorf("%w: failed to count appointments: %v", ErrInternal, err)
	}

	status := &domain.QuotaStatus{
		SalonID:      salonID,
		CurrentCount: count,
		MaxCount:     limits.MaxMonthlyAppointments,
		LimitReached: count >= limits.MaxMonthlyAppointments,
	}

	if !status.LimitReached || !salon.IsOpen {
		// Квота не исчерпана либо салон уже закрыт - только отчёт
		return status, nil
	}

	if err := s.salonRepo.SetOpen(ctx, salonID, false, salon.Version); err != nil {
		if errors.Is(err, salonRepo.ErrVersionConflict) {
			// Салон изменён конкурентно (настройки персонала или параллельная
			// проверка квоты) - перечитываем и закрываем, если всё ещё открыт
			return s.retryClose(ctx, salonID, status)
		}
		s.logger.Error("CheckAndEnforce: failed to close salon id=%d: %v", salonID, err)
		return nil, fmt.Errorf("%w: failed to close salon: %v", ErrInternal, err)
	}

	status.SalonClosed = true
	s.logger.Warn("CheckAndEnforce: salon id=%d reached monthly quota (%d/%d), closed for new appointments",
		salonID, count, limits.MaxMonthlyAppointments)

	return status, nil
}

// retryClose повторяет закрытие после конфликта версий
func (s *Service) retryClose(ctx context.Context, salonID int64, status *domain.QuotaStatus) (*domain.QuotaStatus, error) {
	salon, err := s.salonRepo.GetByID(ctx, salonID)
	if err != nil {
		s.logger.Error("CheckAndEnforce: failed to re-read salon id=%d after version conflict: %v", salonID, err)
		return nil, fmt.Errorf("%w: failed to re-read salon: %v", ErrInternal, err)
	}

	if !salon.IsOpen {
		// Кто-то уже закрыл - наша цель достигнута, но не этим вызовом
		return status, nil
	}

	if err := s.salonRepo.SetOpen(ctx, salonID, false, salon.Version); err != nil {
		s.logger.Error("CheckAndEnforce: retry close failed for salon id=%d: %v", salonID, err)
		return nil, fmt.Errorf("%w: failed to close salon: %v", ErrInternal, err)
	}

	status.SalonClosed = true
	s.logger.Warn("CheckAndEnforce: salon id=%d closed after version conflict retry", salonID)
	return status, nil
}

// currentMonthRange возвращает первый и последний день текущего календарного месяца
func currentMonthRange(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, -1)
	return start, end
}
