package stream_notifications

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/domain"
	"github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/notifier"
	"github.com/helderalustau/kiagenda-beauty-hub-sub000/pkg/types"
)

type fakeEventSource struct {
	ch chan domain.AppointmentEvent
}

func (f *fakeEventSource) Subscribe(_ context.Context, _ int64) (<-chan domain.AppointmentEvent, error) {
	return f.ch, nil
}

type fakePendingFetcher struct{}

func (fakePendingFetcher) GetPendingForSalon(_ context.Context, _ int64) ([]*domain.Appointment, error) {
	return nil, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// streamRecorder пишет в httptest.ResponseRecorder и фиксирует дедлайны записи
type streamRecorder struct {
	*httptest.ResponseRecorder
	deadlines []time.Time
}

func (w *streamRecorder) SetWriteDeadline(deadline time.Time) error {
	w.deadlines = append(w.deadlines, deadline)
	return nil
}

func newTestHandler(source *fakeEventSource) *Handler {
	d := notifier.New(source, fakePendingFetcher{}, time.Hour, 50, nil, nopLogger{})
	return NewHandler(d, nopLogger{})
}

func streamRequest(ctx context.Context) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/salons/1/notifications/stream", nil).WithContext(ctx)
	return mux.SetURLVars(req, map[string]string{"salonId": "1"})
}

func TestHandler_Handle_ClearsWriteDeadline(t *testing.T) {
	h := newTestHandler(&fakeEventSource{ch: make(chan domain.AppointmentEvent)})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	w := &streamRecorder{ResponseRecorder: httptest.NewRecorder()}
	h.Handle(w, streamRequest(ctx))

	// Поток переживает серверный WriteTimeout только со снятым дедлайном
	require.NotEmpty(t, w.deadlines)
	assert.True(t, w.deadlines[0].IsZero())
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
}

func TestHandler_Handle_ForwardsPendingEvent(t *testing.T) {
	source := &fakeEventSource{ch: make(chan domain.AppointmentEvent, 1)}
	h := newTestHandler(source)

	ctx, cancel := context.WithCancel(context.Background())
	w := &streamRecorder{ResponseRecorder: httptest.NewRecorder()}

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.Handle(w, streamRequest(ctx))
	}()

	start, err := types.NewTimeStringFromString("10:00")
	require.NoError(t, err)
	source.ch <- domain.AppointmentEvent{
		Kind:          domain.EventAppointmentCreated,
		AppointmentID: 100,
		SalonID:       1,
		ClientID:      7,
		Date:          "2026-09-14",
		StartTime:     start,
		Status:        domain.StatusPending,
		ServiceName:   "Haircut",
	}

	// Даем событию дойти до тела ответа, затем закрываем поток
	time.Sleep(100 * time.Millisecond)
	cancel()
	<-done

	body := w.Body.String()
	assert.True(t, strings.Contains(body, "event: pending"), "body: %q", body)
	assert.True(t, strings.Contains(body, `"appointmentId":100`), "body: %q", body)
}

func TestHandler_Handle_InvalidSalonID(t *testing.T) {
	h := newTestHandler(&fakeEventSource{ch: make(chan domain.AppointmentEvent)})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/salons/abc/notifications/stream", nil)
	req = mux.SetURLVars(req, map[string]string{"salonId": "abc"})
	w := httptest.NewRecorder()

	h.Handle(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
