package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/domain"
	apptRepo "github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/infra/storage/appointment"
	"github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/service/appointments/models"
)

// Service сервис жизненного цикла записей
// Владеет машиной статусов: pending -> confirmed/cancelled, confirmed -> completed/cancelled;
// completed и cancelled терминальны
type Service struct {
	appointmentRepo AppointmentRepository
	publisher       EventPublisher
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	publisher EventPublisher,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		publisher:       publisher,
		logger:          logger,
	}
}

// GetByID получает запись по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d", id)

	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAppointment(appt), nil
}

// SetStatus переводит запись в целевой статус
// Допускает только рёбра графа переходов; недопустимое ребро - ErrInvalidTransition.
// Обновление оптимистичное: если статус изменился конкурентно между чтением
// и записью, возвращается ErrStatusConflict
func (s *Service) SetStatus(ctx context.Context, id int64, targetStatus string, reason *string) (*models.AppointmentResponse, error) {
	s.logger.Info("SetStatus: appointment id=%d -> %s", id, targetStatus)

	target, err := models.ToDomainStatus(targetStatus)
	if err != nil {
		s.logger.Warn("SetStatus: unknown status %q for appointment id=%d", targetStatus, id)
		return nil, ErrInvalidStatus
	}

	if reason != nil && len(*reason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("SetStatus: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("SetStatus: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: SetStatus - repository error: %v", ErrInternal, err)
	}

	if !appt.Status.CanTransitionTo(target) {
		s.logger.Warn("SetStatus: transition %s -> %s not allowed for appointment id=%d",
			appt.Status, target, id)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appt.Status, target)
	}

	if target == domain.StatusCancelled {
		err = s.appointmentRepo.Cancel(ctx, id, appt.Status, reason)
	} else {
		err = s.appointmentRepo.UpdateStatus(ctx, id, appt.Status, target)
	}
	if err != nil {
		if errors.Is(err, apptRepo.ErrStatusConflict) {
			s.logger.Warn("SetStatus: concurrent status change for appointment id=%d", id)
			return nil, ErrStatusConflict
		}
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("SetStatus: failed to update appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: SetStatus - repository error: %v", ErrInternal, err)
	}

	updated, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("SetStatus: failed to re-fetch appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: SetStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("SetStatus: appointment id=%d is now %s", id, updated.Status)

	// Оповещаем подписчиков о смене статуса - best-effort,
	// пропущенное событие доберёт reconciliation poll
	if err := s.publisher.PublishUpdated(ctx, updated); err != nil {
		s.logger.Error("SetStatus: failed to publish updated event for id=%d: %v", id, err)
	}

	return models.FromDomainAppointment(updated), nil
}

// Restore снимает отметку мягкого удаления, не меняя статус
// Слот восстановленной записи мог быть занят другой pending/confirmed записью -
// вызывающая сторона перепроверяет доступность через резолвер, если слот нужно удержать
func (s *Service) Restore(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("Restore: appointment id=%d", id)

	if err := s.appointmentRepo.Restore(ctx, id); err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Restore: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("Restore: failed to restore appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Restore - repository error: %v", ErrInternal, err)
	}

	restored, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Restore: failed to re-fetch appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Restore - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAppointment(restored), nil
}

// SoftDelete помечает запись удалённой, исключая её из проверок доступности
// и подсчёта квоты до восстановления
func (s *Service) SoftDelete(ctx context.Context, id int64) error {
	s.logger.Info("SoftDelete: appointment id=%d", id)

	if err := s.appointmentRepo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("SoftDelete: appointment id=%d not found", id)
			return ErrAppointmentNotFound
		}
		s.logger.Error("SoftDelete: failed to delete appointment id=%d: %v", id, err)
		return fmt.Errorf("%w: SoftDelete - repository error: %v", ErrInternal, err)
	}

	return nil
}

// GetSalonAppointments получает записи салона с гибкой фильтрацией
// Используется дашбордом персонала и reconciliation poll диспетчера уведомлений
func (s *Service) GetSalonAppointments(ctx context.Context, req *models.GetSalonAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetSalonAppointments: salon=%d, status=%v", req.SalonID, req.Status)

	if req.SalonID <= 0 {
		return nil, fmt.Errorf("%w: salonID must be positive", ErrInvalidInput)
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetSalonAppointments: invalid status filter: %v", err)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	appointments, err := s.appointmentRepo.GetBySalonWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetSalonAppointments: repository error for salon=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: GetSalonAppointments - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAppointmentList(appointments), nil
}

// GetPendingForSalon получает все pending записи салона
// Это источник истины для reconciliation poll диспетчера уведомлений
func (s *Service) GetPendingForSalon(ctx context.Context, salonID int64) ([]*domain.Appointment, error) {
	status := domain.StatusPending
	filter := domain.SalonAppointmentsFilter{
		SalonID: salonID,
		Status:  &status,
	}

	appointments, err := s.appointmentRepo.GetBySalonWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetPendingForSalon: repository error for salon=%d: %v", salonID, err)
		return nil, fmt.Errorf("%w: GetPendingForSalon - repository error: %v", ErrInternal, err)
	}

	return appointments, nil
}
