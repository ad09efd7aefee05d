package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/domain"
	apptRepo "github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/infra/storage/appointment"
	"github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/service/appointments/models"
	"github.com/helderalustau/kiagenda-beauty-hub-sub000/pkg/ptr"
)

// fakeRepo хранит записи в памяти и имитирует оптимистичные обновления репозитория
type fakeRepo struct {
	byID map[int64]*domain.Appointment

	updateStatusErr error
	cancelErr       error
	gotFilter       domain.SalonAppointmentsFilter
	listResult      []*domain.Appointment
}

func newFakeRepo(appointments ...*domain.Appointment) *fakeRepo {
	r := &fakeRepo{byID: make(map[int64]*domain.Appointment)}
	for _, a := range appointments {
		r.byID[a.ID] = a
	}
	return r
}

func (r *fakeRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, apptRepo.ErrAppointmentNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *fakeRepo) GetBySalonWithFilter(_ context.Context, filter domain.SalonAppointmentsFilter) ([]*domain.Appointment, error) {
	r.gotFilter = filter
	return r.listResult, nil
}

func (r *fakeRepo) UpdateStatus(_ context.Context, id int64, from, to domain.AppointmentStatus) error {
	if r.updateStatusErr != nil {
		return r.updateStatusErr
	}
	a, ok := r.byID[id]
	if !ok {
		return apptRepo.ErrAppointmentNotFound
	}
	if a.Status != from {
		return apptRepo.ErrStatusConflict
	}
	a.Status = to
	return nil
}

func (r *fakeRepo) Cancel(_ context.Context, id int64, from domain.AppointmentStatus, reason *string) error {
	if r.cancelErr != nil {
		return r.cancelErr
	}
	a, ok := r.byID[id]
	if !ok {
		return apptRepo.ErrAppointmentNotFound
	}
	if a.Status != from {
		return apptRepo.ErrStatusConflict
	}
	now := time.Now()
	a.Status = domain.StatusCancelled
	a.CancellationReason = reason
	a.CancelledAt = &now
	return nil
}

func (r *fakeRepo) SoftDelete(_ context.Context, id int64) error {
	a, ok := r.byID[id]
	if !ok {
		return apptRepo.ErrAppointmentNotFound
	}
	now := time.Now()
	a.DeletedAt = &now
	return nil
}

func (r *fakeRepo) Restore(_ context.Context, id int64) error {
	a, ok := r.byID[id]
	if !ok {
		return apptRepo.ErrAppointmentNotFound
	}
	a.DeletedAt = nil
	return nil
}

type fakePublisher struct {
	updated []*domain.Appointment
	err     error
}

func (f *fakePublisher) PublishUpdated(_ context.Context, appt *domain.Appointment) error {
	if f.err != nil {
		return f.err
	}
	f.updated = append(f.updated, appt)
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func pendingAppointment(id int64) *domain.Appointment {
	return &domain.Appointment{
		ID:              id,
		SalonID:         1,
		ServiceID:       10,
		ClientID:        7,
		Date:            time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
		Status:          domain.StatusPending,
	}
}

func TestSetStatus_PendingToConfirmed(t *testing.T) {
	repo := newFakeRepo(pendingAppointment(1))
	pub := &fakePublisher{}
	svc := NewService(repo, pub, nopLogger{})

	resp, err := svc.SetStatus(context.Background(), 1, "confirmed", nil)

	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)
	require.Len(t, pub.updated, 1)
	assert.Equal(t, domain.StatusConfirmed, pub.updated[0].Status)
}

func TestSetStatus_PendingToCancelledStampsReason(t *testing.T) {
	repo := newFakeRepo(pendingAppointment(1))
	pub := &fakePublisher{}
	svc := NewService(repo, pub, nopLogger{})

	reason := ptr.Ptr("клиент не придет")
	resp, err := svc.SetStatus(context.Background(), 1, "cancelled", reason)

	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
	require.NotNil(t, resp.CancellationReason)
	assert.Equal(t, "клиент не придет", *resp.CancellationReason)
	assert.NotNil(t, resp.CancelledAt)
}

func TestSetStatus_ConfirmedToCompleted(t *testing.T) {
	appt := pendingAppointment(1)
	appt.Status = domain.StatusConfirmed
	repo := newFakeRepo(appt)
	svc := NewService(repo, &fakePublisher{}, nopLogger{})

	resp, err := svc.SetStatus(context.Background(), 1, "completed", nil)

	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Status)
}

func TestSetStatus_TransitionGraph(t *testing.T) {
	tests := []struct {
		from    domain.AppointmentStatus
		to      string
		allowed bool
	}{
		{domain.StatusPending, "confirmed", true},
		{domain.StatusPending, "cancelled", true},
		{domain.StatusPending, "completed", false},
		{domain.StatusConfirmed, "completed", true},
		{domain.StatusConfirmed, "cancelled", true},
		{domain.StatusConfirmed, "pending", false},
		{domain.StatusCompleted, "cancelled", false},
		{domain.StatusCompleted, "pending", false},
		{domain.StatusCancelled, "pending", false},
		{domain.StatusCancelled, "confirmed", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+tt.to, func(t *testing.T) {
			appt := pendingAppointment(1)
			appt.Status = tt.from
			svc := NewService(newFakeRepo(appt), &fakePublisher{}, nopLogger{})

			_, err := svc.SetStatus(context.Background(), 1, tt.to, nil)

			if tt.allowed {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidTransition)
			}
		})
	}
}

func TestSetStatus_UnknownStatus(t *testing.T) {
	svc := NewService(newFakeRepo(pendingAppointment(1)), &fakePublisher{}, nopLogger{})

	_, err := svc.SetStatus(context.Background(), 1, "done", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestSetStatus_NotFound(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakePublisher{}, nopLogger{})

	_, err := svc.SetStatus(context.Background(), 99, "confirmed", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestSetStatus_ConcurrentChangeConflict(t *testing.T) {
	repo := newFakeRepo(pendingAppointment(1))
	repo.updateStatusErr = apptRepo.ErrStatusConflict
	svc := NewService(repo, &fakePublisher{}, nopLogger{})

	_, err := svc.SetStatus(context.Background(), 1, "confirmed", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStatusConflict)
}

func TestSetStatus_PublishFailureDoesNotFailUpdate(t *testing.T) {
	repo := newFakeRepo(pendingAppointment(1))
	pub := &fakePublisher{err: assert.AnError}
	svc := NewService(repo, pub, nopLogger{})

	resp, err := svc.SetStatus(context.Background(), 1, "confirmed", nil)

	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)
}

func TestRestore_ClearsSoftDelete(t *testing.T) {
	appt := pendingAppointment(1)
	now := time.Now()
	appt.DeletedAt = &now
	repo := newFakeRepo(appt)
	svc := NewService(repo, &fakePublisher{}, nopLogger{})

	resp, err := svc.Restore(context.Background(), 1)

	require.NoError(t, err)
	assert.False(t, resp.Deleted)
	// Статус восстановление не трогает
	assert.Equal(t, "pending", resp.Status)
}

func TestSoftDelete_MarksDeleted(t *testing.T) {
	repo := newFakeRepo(pendingAppointment(1))
	svc := NewService(repo, &fakePublisher{}, nopLogger{})

	err := svc.SoftDelete(context.Background(), 1)

	require.NoError(t, err)
	assert.NotNil(t, repo.byID[1].DeletedAt)
}

func TestSoftDelete_NotFound(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakePublisher{}, nopLogger{})

	err := svc.SoftDelete(context.Background(), 99)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestGetSalonAppointments_StatusFilter(t *testing.T) {
	repo := newFakeRepo()
	repo.listResult = []*domain.Appointment{pendingAppointment(1), pendingAppointment(2)}
	svc := NewService(repo, &fakePublisher{}, nopLogger{})

	resp, err := svc.GetSalonAppointments(context.Background(), &models.GetSalonAppointmentsRequest{
		SalonID: 1,
		Status:  ptr.Ptr("pending"),
	})

	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
	require.NotNil(t, repo.gotFilter.Status)
	assert.Equal(t, domain.StatusPending, *repo.gotFilter.Status)
}

func TestGetSalonAppointments_UnknownStatusFilter(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakePublisher{}, nopLogger{})

	_, err := svc.GetSalonAppointments(context.Background(), &models.GetSalonAppointmentsRequest{
		SalonID: 1,
		Status:  ptr.Ptr("done"),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetPendingForSalon_FiltersByPendingStatus(t *testing.T) {
	repo := newFakeRepo()
	repo.listResult = []*domain.Appointment{pendingAppointment(1)}
	svc := NewService(repo, &fakePublisher{}, nopLogger{})

	appointments, err := svc.GetPendingForSalon(context.Background(), 1)

	require.NoError(t, err)
	assert.Len(t, appointments, 1)
	require.NotNil(t, repo.gotFilter.Status)
	assert.Equal(t, domain.StatusPending, *repo.gotFilter.Status)
	assert.Equal(t, int64(1), repo.gotFilter.SalonID)
}
