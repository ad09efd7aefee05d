package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helderalustau/kiagenda-beauty-hub-sub000/pkg/types"
)

func tsPtr(t *testing.T, s string) *types.TimeString {
	t.Helper()
	ts, err := newTS(s)
	require.NoError(t, err)
	return &ts
}

func TestBuildOpenIntervals_FullDay(t *testing.T) {
	day := DaySchedule{
		IsOpen:    true,
		OpenTime:  tsPtr(t, "08:00"),
		CloseTime: tsPtr(t, "18:00"),
	}

	intervals, err := BuildOpenIntervals(day)

	require.NoError(t, err)
	require.Len(t, intervals, 1)
	assert.Equal(t, OpenInterval{Start: 480, End: 1080}, intervals[0])
}

func TestBuildOpenIntervals_LunchBreakSplits(t *testing.T) {
	day := DaySchedule{
		IsOpen:        true,
		OpenTime:      tsPtr(t, "08:00"),
		CloseTime:     tsPtr(t, "18:00"),
		HasLunchBreak: true,
		LunchStart:    tsPtr(t, "12:00"),
		LunchEnd:      tsPtr(t, "13:00"),
	}

	intervals, err := BuildOpenIntervals(day)

	require.NoError(t, err)
	require.Len(t, intervals, 2)
	assert.Equal(t, OpenInterval{Start: 480, End: 720}, intervals[0])
	assert.Equal(t, OpenInterval{Start: 780, End: 1080}, intervals[1])
}

func TestBuildOpenIntervals_ClosedDay(t *testing.T) {
	intervals, err := BuildOpenIntervals(DaySchedule{IsOpen: false})

	require.NoError(t, err)
	assert.Empty(t, intervals)
}

func TestBuildOpenIntervals_LunchOutsideWindowIgnored(t *testing.T) {
	day := DaySchedule{
		IsOpen:        true,
		OpenTime:      tsPtr(t, "08:00"),
		CloseTime:     tsPtr(t, "12:00"),
		HasLunchBreak: true,
		LunchStart:    tsPtr(t, "13:00"),
		LunchEnd:      tsPtr(t, "14:00"),
	}

	intervals, err := BuildOpenIntervals(day)

	require.NoError(t, err)
	require.Len(t, intervals, 1)
	assert.Equal(t, OpenInterval{Start: 480, End: 720}, intervals[0])
}

func TestCountOverlapping(t *testing.T) {
	date := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	mkAppt := func(start string, duration int, status AppointmentStatus) *Appointment {
		ts, err := newTS(start)
		require.NoError(t, err)
		return &Appointment{
			StartTime:       ts,
			DurationMinutes: duration,
			Status:          status,
		}
	}

	appointments := []*Appointment{
		mkAppt("10:00", 60, StatusConfirmed),
		mkAppt("09:00", 60, StatusCancelled), // отменённая ячейку не занимает
	}

	slot := func(start string) TimeSlot {
		ts, err := newTS(start)
		require.NoError(t, err)
		return TimeSlot{Date: date, StartTime: ts, DurationMinutes: 30}
	}

	assert.Equal(t, 1, CountOverlapping(slot("10:30"), appointments))
	assert.Equal(t, 0, CountOverlapping(slot("09:30"), appointments))
	// Граничащий слот пересечением не считается
	assert.Equal(t, 0, CountOverlapping(slot("11:00"), appointments))
}

func TestIsDateInPast(t *testing.T) {
	now := time.Date(2026, 9, 14, 15, 30, 0, 0, time.UTC)

	assert.True(t, IsDateInPast(time.Date(2026, 9, 13, 0, 0, 0, 0, time.UTC), now))
	// Сегодня - не прошлое, даже если время уже позднее
	assert.False(t, IsDateInPast(time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC), now))
	assert.False(t, IsDateInPast(time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), now))
}
