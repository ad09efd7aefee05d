package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// deadlineWriter фиксирует переданные дедлайны записи
type deadlineWriter struct {
	*httptest.ResponseRecorder
	deadlines []time.Time
}

func (w *deadlineWriter) SetWriteDeadline(deadline time.Time) error {
	w.deadlines = append(w.deadlines, deadline)
	return nil
}

func TestStatusRecorder_UnwrapExposesWriteDeadlineControl(t *testing.T) {
	inner := &deadlineWriter{ResponseRecorder: httptest.NewRecorder()}
	rec := &statusRecorder{ResponseWriter: inner, status: http.StatusOK}

	// ResponseController должен добраться до SetWriteDeadline сквозь обёртку метрик
	err := http.NewResponseController(rec).SetWriteDeadline(time.Time{})

	require.NoError(t, err)
	require.Len(t, inner.deadlines, 1)
	assert.True(t, inner.deadlines[0].IsZero())
}

func TestStatusRecorder_FlushPassthrough(t *testing.T) {
	inner := httptest.NewRecorder()
	rec := &statusRecorder{ResponseWriter: inner, status: http.StatusOK}

	flusher, ok := interface{}(rec).(http.Flusher)
	require.True(t, ok)
	flusher.Flush()

	assert.True(t, inner.Flushed)
}
