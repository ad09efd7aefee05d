package create_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/domain"
	salonRepo "github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/infra/storage/salon"
	serviceRepo "github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/infra/storage/service"
)

// UseCase use case создания записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	salonRepo       SalonRepository
	serviceRepo     ServiceRepository
	txManager       TransactionManager
	publisher       EventPublisher
	quota           QuotaEnforcer
	slotStepMinutes int
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	salonRepo SalonRepository,
	serviceRepo ServiceRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	quota QuotaEnforcer,
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
		txManager:       txManager,
		publisher:       publisher,
		quota:           quota,
		slotStepMinutes: slotStepMinutes,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи
//
// Повторная проверка доступности слота и вставка выполняются в одной
// сериализуемой транзакции с блокировкой записей дня (FOR UPDATE) -
// из двух конкурентных запросов на один слот ровно один получает
// ErrSlotNotAvailable. Создание всё-или-ничего: прерванный запрос
// не оставляет частично созданной записи
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: salon=%d, services=%v, client=%d, date=%s, time=%s",
		req.SalonID, req.ServiceIDs, req.ClientID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Дата в прошлом - ошибка (в отличие от резолвера, который отдаёт пустой список)
	if domain.IsDateInPast(req.Date, now) {
		uc.logger.Warn("CreateAppointment: date %s is in the past", req.Date.Format(domain.DateFormat))
		return nil, ErrInvalidDate
	}

	// 4. Получаем салон
	salon, err := uc.salonRepo.GetByID(ctx, req.SalonID)
	if err != nil {
		if errors.Is(err, salonRepo.ErrSalonNotFound) {
			uc.logger.Warn("CreateAppointment: salon id=%d not found", req.SalonID)
			return nil, ErrSalonNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get salon id=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: failed to get salon: %v", ErrInternal, err)
	}

	// 5. Салон закрыт по квоте тарифа - отдельная ошибка: занят не слот,
	// а весь расчётный период
	if !salon.IsOpen {
		uc.logger.Warn("CreateAppointment: salon id=%d is closed for new appointments", req.SalonID)
		return nil, ErrSalonQuotaClosed
	}

	// 6. Получаем услуги и суммируем длительность и цену
	services, err := uc.serviceRepo.GetByIDs(ctx, req.SalonID, req.ServiceIDs)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: some of services %v not found for salon id=%d", req.ServiceIDs, req.SalonID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get services: %v", err)
		return nil, fmt.Errorf("%w: failed to get services: %v", ErrInternal, err)
	}

	duration := domain.TotalDuration(services)
	if duration <= 0 {
		uc.logger.Warn("CreateAppointment: non-positive total duration %d", duration)
		return nil, fmt.Errorf("%w: total service duration must be positive", ErrInvalidInput)
	}

	// 7. Проверяем, что слот попадает в рабочие часы дня
	// (особая дата полностью заменяет расписание дня недели)
	schedule := salon.ScheduleForDate(req.Date)
	if err := validateSlotFitsSchedule(schedule, req.StartTime, duration, uc.slotStepMinutes); err != nil {
		uc.logger.Warn("CreateAppointment: slot validation failed: %v", err)
		return nil, err
	}

	// Переменная для хранения результата
	var result *domain.Appointment

	// 8. Повторная проверка доступности + вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 8.1. Получаем занимающие ячейки записи дня с блокировкой (FOR UPDATE)
		filter := domain.SalonAppointmentsFilter{
			SalonID:      req.SalonID,
			Date:         &req.Date,
			OnlyBlocking: true,
		}

		appointments, err := uc.appointmentRepo.GetBySalonWithFilter(txCtx, filter)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		// 8.2. Слот свободен, только если с ним не пересекается ни одна
		// pending/confirmed запись
		slot := domain.TimeSlot{
			Date:            req.Date,
			StartTime:       req.StartTime,
			DurationMinutes: duration,
		}
		if overlapping := domain.CountOverlapping(slot, appointments); overlapping > 0 {
			uc.logger.Warn("CreateAppointment: slot %s occupied by %d appointment(s)", req.StartTime, overlapping)
			return ErrSlotNotAvailable
		}

		// 8.3. Создаем запись в статусе pending с денормализацией данных услуг
		appt := &domain.Appointment{
			SalonID:         req.SalonID,
			ServiceID:       req.ServiceIDs[0],
			ClientID:        req.ClientID,
			Date:            req.Date,
			StartTime:       req.StartTime,
			DurationMinutes: duration,
			Status:          domain.StatusPending,
			ServiceName:     serviceNames(services),
			ServicePrice:    totalPrice(services),
			Notes:           req.Notes,
		}

		created, err := uc.appointmentRepo.Create(txCtx, appt)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", result.ID)

	// 9. Оповещаем персонал о новой pending записи - best-effort,
	// ошибка канала не откатывает создание (подписчики доберут через poll)
	if err := uc.publisher.PublishCreated(ctx, result); err != nil {
		uc.logger.Error("CreateAppointment: failed to publish created event for id=%d: %v", result.ID, err)
	}

	// 10. Опортунистическая проверка квоты: созданная запись могла исчерпать
	// месячный лимит тарифа, тогда салон закрывается для новых записей
	var quotaInfo *QuotaInfo
	if status, err := uc.quota.CheckAndEnforce(ctx, req.SalonID); err != nil {
		uc.logger.Error("CreateAppointment: quota check failed for salon id=%d: %v", req.SalonID, err)
	} else {
		quotaInfo = &QuotaInfo{
			CurrentCount: status.CurrentCount,
			MaxCount:     status.MaxCount,
			LimitReached: status.LimitReached,
			SalonClosed:  status.SalonClosed,
		}
		if status.SalonClosed {
			uc.logger.Warn("CreateAppointment: salon id=%d reached monthly quota (%d/%d) and was closed",
				req.SalonID, status.CurrentCount, status.MaxCount)
		}
	}

	// Конвертируем в response
	return &Response{
		ID:              result.ID,
		SalonID:         result.SalonID,
		ServiceID:       result.ServiceID,
		ClientID:        result.ClientID,
		Date:            result.Date,
		StartTime:       result.StartTime,
		DurationMinutes: result.DurationMinutes,
		Status:          string(result.Status),
		ServiceName:     result.ServiceName,
		ServicePrice:    result.ServicePrice,
		Notes:           result.Notes,
		Quota:           quotaInfo,
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.UpdatedAt,
	}, nil
}
