package create_appointment

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/domain"
	salonRepo "github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/infra/storage/salon"
	"github.com/helderalustau/kiagenda-beauty-hub-sub000/pkg/ptr"
	"github.com/helderalustau/kiagenda-beauty-hub-sub000/pkg/types"
)

type fakeAppointmentRepo struct {
	existing  []*domain.Appointment
	createErr error
	created   *domain.Appointment
	nextID    int64
}

func (f *fakeAppointmentRepo) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	appt.ID = f.nextID
	appt.CreatedAt = time.Now()
	appt.UpdatedAt = appt.CreatedAt
	f.created = appt
	return appt, nil
}

func (f *fakeAppointmentRepo) GetBySalonWithFilter(_ context.Context, _ domain.SalonAppointmentsFilter) ([]*domain.Appointment, error) {
	return f.existing, nil
}

type fakeSalonRepo struct {
	salon *domain.Salon
	err   error
}

func (f *fakeSalonRepo) GetByID(_ context.Context, _ int64) (*domain.Salon, error) {
	return f.salon, f.err
}

type fakeServiceRepo struct {
	services []*domain.Service
	err      error
}

func (f *fakeServiceRepo) GetByIDs(_ context.Context, _ int64, _ []int64) ([]*domain.Service, error) {
	return f.services, f.err
}

// fakeTxManager выполняет функцию без реальной транзакции
type fakeTxManager struct {
	calls int
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakePublisher struct {
	published []*domain.Appointment
	err       error
}

func (f *fakePublisher) PublishCreated(_ context.Context, appt *domain.Appointment) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, appt)
	return nil
}

type fakeQuota struct {
	status *domain.QuotaStatus
	err    error
	calls  int
}

func (f *fakeQuota) CheckAndEnforce(_ context.Context, salonID int64) (*domain.QuotaStatus, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.status != nil {
		return f.status, nil
	}
	return &domain.QuotaStatus{SalonID: salonID, CurrentCount: 1, MaxCount: 50}, nil
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func mustTime(t *testing.T, s string) types.TimeString {
	t.Helper()
	ts, err := types.NewTimeStringFromString(s)
	require.NoError(t, err)
	return ts
}

func timePtr(t *testing.T, s string) *types.TimeString {
	t.Helper()
	return ptr.Ptr(mustTime(t, s))
}

func openSalon(t *testing.T) *domain.Salon {
	t.Helper()
	day := domain.DaySchedule{
		IsOpen:    true,
		OpenTime:  timePtr(t, "08:00"),
		CloseTime: timePtr(t, "18:00"),
	}
	return &domain.Salon{
		ID:     1,
		Plan:   domain.PlanBasic,
		IsOpen: true,
		Hours: domain.OpeningHours{
			Monday:    day,
			Tuesday:   day,
			Wednesday: day,
			Thursday:  day,
			Friday:    day,
		},
	}
}

type fixture struct {
	apptRepo  *fakeAppointmentRepo
	salonRepo *fakeSalonRepo
	svcRepo   *fakeServiceRepo
	txMgr     *fakeTxManager
	publisher *fakePublisher
	quota     *fakeQuota
	uc        *UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		apptRepo: &fakeAppointmentRepo{},
		salonRepo: &fakeSalonRepo{
			salon: openSalon(t),
		},
		svcRepo: &fakeServiceRepo{services: []*domain.Service{
			{ID: 10, SalonID: 1, Name: "Haircut", Price: 50, DurationMinutes: 60, Active: true},
		}},
		txMgr:     &fakeTxManager{},
		publisher: &fakePublisher{},
		quota:     &fakeQuota{},
	}
	f.uc = NewUseCase(f.apptRepo, f.salonRepo, f.svcRepo, f.txMgr, f.publisher, f.quota, 30, nopLogger{})
	f.uc.timeProvider = &fixedTimeProvider{now: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)}
	return f
}

// Понедельник 2026-09-14
var testDate = time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

func validRequest(t *testing.T) *Request {
	t.Helper()
	return &Request{
		SalonID:    1,
		ServiceIDs: []int64{10},
		ClientID:   7,
		Date:       testDate,
		StartTime:  mustTime(t, "10:00"),
	}
}

func TestCreateAppointment_Success(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), validRequest(t))

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, 60, resp.DurationMinutes)
	assert.Equal(t, "Haircut", resp.ServiceName)
	assert.Equal(t, 50.0, resp.ServicePrice)
	assert.Equal(t, 1, f.txMgr.calls)

	// Событие опубликовано, квота проверена
	require.Len(t, f.publisher.published, 1)
	assert.Equal(t, resp.ID, f.publisher.published[0].ID)
	assert.Equal(t, 1, f.quota.calls)
	require.NotNil(t, resp.Quota)
	assert.False(t, resp.Quota.LimitReached)
}

func TestCreateAppointment_MultipleServicesDenormalized(t *testing.T) {
	f := newFixture(t)
	f.svcRepo.services = []*domain.Service{
		{ID: 10, Name: "Haircut", Price: 50, DurationMinutes: 60, Active: true},
		{ID: 11, Name: "Beard Trim", Price: 20, DurationMinutes: 30, Active: true},
	}

	req := validRequest(t)
	req.ServiceIDs = []int64{10, 11}

	resp, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 90, resp.DurationMinutes)
	assert.Equal(t, "Haircut + Beard Trim", resp.ServiceName)
	assert.Equal(t, 70.0, resp.ServicePrice)
	// Основной услугой считается первая
	assert.Equal(t, int64(10), resp.ServiceID)
}

func TestCreateAppointment_SlotOccupied(t *testing.T) {
	f := newFixture(t)
	f.apptRepo.existing = []*domain.Appointment{
		{
			ID:              100,
			SalonID:         1,
			StartTime:       mustTime(t, "10:30"),
			DurationMinutes: 60,
			Status:          domain.StatusPending,
		},
	}

	_, err := f.uc.Execute(context.Background(), validRequest(t))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Nil(t, f.apptRepo.created)
	assert.Empty(t, f.publisher.published)
}

func TestCreateAppointment_AdjacentAppointmentDoesNotBlock(t *testing.T) {
	f := newFixture(t)
	// Запись 09:00-10:00 граничит с запрошенным слотом 10:00-11:00
	f.apptRepo.existing = []*domain.Appointment{
		{
			ID:              100,
			StartTime:       mustTime(t, "09:00"),
			DurationMinutes: 60,
			Status:          domain.StatusConfirmed,
		},
	}

	_, err := f.uc.Execute(context.Background(), validRequest(t))

	require.NoError(t, err)
}

func TestCreateAppointment_SalonQuotaClosed(t *testing.T) {
	f := newFixture(t)
	f.salonRepo.salon.IsOpen = false

	_, err := f.uc.Execute(context.Background(), validRequest(t))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSalonQuotaClosed)
	assert.Equal(t, 0, f.txMgr.calls)
}

func TestCreateAppointment_SalonNotFound(t *testing.T) {
	f := newFixture(t)
	f.salonRepo.salon = nil
	f.salonRepo.err = salonRepo.ErrSalonNotFound

	_, err := f.uc.Execute(context.Background(), validRequest(t))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSalonNotFound)
}

func TestCreateAppointment_PastDate(t *testing.T) {
	f := newFixture(t)
	f.uc.timeProvider = &fixedTimeProvider{now: time.Date(2026, 9, 20, 9, 0, 0, 0, time.UTC)}

	_, err := f.uc.Execute(context.Background(), validRequest(t))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestCreateAppointment_ClosedDay(t *testing.T) {
	f := newFixture(t)

	req := validRequest(t)
	// Воскресенье 2026-09-13 закрыто
	req.Date = time.Date(2026, 9, 13, 0, 0, 0, 0, time.UTC)

	_, err := f.uc.Execute(context.Background(), req)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSalonClosedOnDate)
}

func TestCreateAppointment_OffGridStartTime(t *testing.T) {
	f := newFixture(t)

	req := validRequest(t)
	req.StartTime = mustTime(t, "10:15")

	_, err := f.uc.Execute(context.Background(), req)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)
}

func TestCreateAppointment_SlotOutsideWorkingHours(t *testing.T) {
	f := newFixture(t)

	req := validRequest(t)
	// 17:30 + 60 минут выходит за 18:00
	req.StartTime = mustTime(t, "17:30")

	_, err := f.uc.Execute(context.Background(), req)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)
}

func TestCreateAppointment_SlotInsideLunchBreak(t *testing.T) {
	f := newFixture(t)
	day := f.salonRepo.salon.Hours.Monday
	day.HasLunchBreak = true
	day.LunchStart = timePtr(t, "12:00")
	day.LunchEnd = timePtr(t, "13:00")
	f.salonRepo.salon.Hours.Monday = day

	req := validRequest(t)
	req.StartTime = mustTime(t, "12:00")

	_, err := f.uc.Execute(context.Background(), req)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)
}

func TestCreateAppointment_NotesTooLong(t *testing.T) {
	f := newFixture(t)

	req := validRequest(t)
	req.Notes = ptr.Ptr(strings.Repeat("x", domain.MaxNotesLength+1))

	_, err := f.uc.Execute(context.Background(), req)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateAppointment_PublishFailureDoesNotFailCreation(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = errors.New("redis down")

	resp, err := f.uc.Execute(context.Background(), validRequest(t))

	require.NoError(t, err)
	assert.NotZero(t, resp.ID)
}

func TestCreateAppointment_QuotaFailureDoesNotFailCreation(t *testing.T) {
	f := newFixture(t)
	f.quota.err = errors.New("db timeout")

	resp, err := f.uc.Execute(context.Background(), validRequest(t))

	require.NoError(t, err)
	assert.Nil(t, resp.Quota)
}

func TestCreateAppointment_QuotaReachedReportedInResponse(t *testing.T) {
	f := newFixture(t)
	f.quota.status = &domain.QuotaStatus{
		SalonID:      1,
		CurrentCount: 50,
		MaxCount:     50,
		LimitReached: true,
		SalonClosed:  true,
	}

	resp, err := f.uc.Execute(context.Background(), validRequest(t))

	require.NoError(t, err)
	require.NotNil(t, resp.Quota)
	assert.True(t, resp.Quota.LimitReached)
	assert.True(t, resp.Quota.SalonClosed)
}

// retryingTxManager имитирует проигрыш сериализуемой гонки: первый запуск fn
// проходит, но commit падает с serialization failure, вставка откатывается,
// в хранилище появляется запись победителя, и менеджер повторяет fn целиком
type retryingTxManager struct {
	repo   *fakeAppointmentRepo
	winner *domain.Appointment
	runs   int
}

func (m *retryingTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	for {
		m.runs++
		err := fn(ctx)
		if err == nil && m.runs == 1 {
			m.repo.created = nil
			m.repo.existing = append(m.repo.existing, m.winner)
			continue
		}
		return err
	}
}

func TestCreateAppointment_ConcurrentLoserGetsSlotConflict(t *testing.T) {
	f := newFixture(t)

	winner := &domain.Appointment{
		ID:              100,
		SalonID:         1,
		ClientID:        8,
		Date:            testDate,
		StartTime:       mustTime(t, "10:00"),
		DurationMinutes: 60,
		Status:          domain.StatusPending,
	}
	txMgr := &retryingTxManager{repo: f.apptRepo, winner: winner}
	f.uc.txManager = txMgr

	resp, err := f.uc.Execute(context.Background(), validRequest(t))

	// Повторная проверка видит запись победителя: проигравший получает
	// конфликт слота, а не внутреннюю ошибку
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Nil(t, resp)
	assert.Equal(t, 2, txMgr.runs)
	assert.Nil(t, f.apptRepo.created)
	assert.Empty(t, f.publisher.published)
}
