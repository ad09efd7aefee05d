package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/domain"
	salonRepo "github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/infra/storage/salon"
	serviceRepo "github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/infra/storage/service"
)

// UseCase use case получения доступных слотов для записи (Availability Resolver)
type UseCase struct {
	appointmentRepo AppointmentRepository
	salonRepo       SalonRepository
	serviceRepo     ServiceRepository
	slotStepMinutes int
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	salonRepo SalonRepository,
	serviceRepo ServiceRepository,
	slotStepMinutes int,
	logger Logger,
) *UseCase {
	if slotStepMinutes <= 0 {
		slotStepMinutes = domain.DefaultSlotStepMinutes
	}
	return &UseCase{
		appointmentRepo: appointmentRepo,
		salonRepo:       salonRepo,
		serviceRepo:     serviceRepo,
		slotStepMinutes: slotStepMinutes,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения доступных слотов
//
// Закрытый день, особая закрытая дата и дата в прошлом дают пустой список,
// а не ошибку - от "салон не найден" это отличается наличием ошибки
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: salon=%d, services=%v, date=%s",
		req.SalonID, req.ServiceIDs, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем салон (включая расписание и особые даты)
	salon, err := uc.salonRepo.GetByID(ctx, req.SalonID)
	if err != nil {
		if errors.Is(err, salonRepo.ErrSalonNotFound) {
			uc.logger.Warn("GetAvailableSlots: salon id=%d not found", req.SalonID)
			return nil, ErrSalonNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get salon id=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: failed to get salon: %v", ErrInternal, err)
	}

	// 3. Получаем услуги и суммируем длительность
	services, err := uc.serviceRepo.GetByIDs(ctx, req.SalonID, req.ServiceIDs)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: some of services %v not found for salon id=%d", req.ServiceIDs, req.SalonID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get services: %v", err)
		return nil, fmt.Errorf("%w: failed to get services: %v", ErrInternal, err)
	}

	duration := domain.TotalDuration(services)
	if duration <= 0 {
		uc.logger.Warn("GetAvailableSlots: non-positive total duration %d for services %v", duration, req.ServiceIDs)
		return nil, ErrInvalidDuration
	}

	emptyResponse := &Response{
		SalonID:         req.SalonID,
		Date:            req.Date,
		DurationMinutes: duration,
		Slots:           []Slot{},
	}

	// 4. Дата в прошлом - пустой результат
	now := uc.timeProvider.Now()
	if domain.IsDateInPast(req.Date, now) {
		uc.logger.Info("GetAvailableSlots: date %s is in the past", req.Date.Format(domain.DateFormat))
		return emptyResponse, nil
	}

	// 5. Определяем рабочее окно дня: особая дата полностью заменяет
	// расписание дня недели (закрытие или свои часы)
	schedule := salon.ScheduleForDate(req.Date)

	// 6. Вычитаем обеденный перерыв, получая до двух открытых под-интервалов
	intervals, err := domain.BuildOpenIntervals(schedule)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to build open intervals: %v", err)
		return nil, fmt.Errorf("%w: failed to build open intervals: %v", ErrInternal, err)
	}
	if len(intervals) == 0 {
		uc.logger.Info("GetAvailableSlots: salon id=%d is closed on %s", req.SalonID, req.Date.Format(domain.DateFormat))
		return emptyResponse, nil
	}

	// 7. Дискретизируем под-интервалы с фиксированным шагом
	candidates, err := generateCandidates(intervals, duration, uc.slotStepMinutes)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate candidates: %v", err)
		return nil, fmt.Errorf("%w: failed to generate candidates: %v", ErrInternal, err)
	}

	// 8. Получаем занимающие ячейки записи на эту дату
	filter := domain.SalonAppointmentsFilter{
		SalonID:      req.SalonID,
		Date:         &req.Date,
		OnlyBlocking: true,
	}

	appointments, err := uc.appointmentRepo.GetBySalonWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	// 9. Убираем пересекающиеся с существующими записями кандидаты
	free := filterOccupied(req.Date, candidates, duration, appointments)

	slots := make([]Slot, len(free))
	for i, start := range free {
		slots[i] = Slot{
			StartTime:       start,
			DurationMinutes: duration,
		}
	}

	uc.logger.Info("GetAvailableSlots: %d of %d candidate slots free for salon=%d, date=%s",
		len(slots), len(candidates), req.SalonID, req.Date.Format(domain.DateFormat))

	return &Response{
		SalonID:         req.SalonID,
		Date:            req.Date,
		DurationMinutes: duration,
		Slots:           slots,
	}, nil
}
