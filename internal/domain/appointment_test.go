package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/helderalustau/kiagenda-beauty-hub-sub000/pkg/types"
)

func newTS(s string) (types.TimeString, error) {
	return types.NewTimeStringFromString(s)
}

func TestAppointmentStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from    AppointmentStatus
		to      AppointmentStatus
		allowed bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusPending, StatusPending, false},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusCompleted, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestAppointmentStatus_IsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
}

func TestAppointmentStatus_IsValid(t *testing.T) {
	for _, status := range AllStatuses {
		assert.True(t, status.IsValid())
	}
	assert.False(t, AppointmentStatus("done").IsValid())
	assert.False(t, AppointmentStatus("").IsValid())
}

func TestAppointment_BlocksSlot(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		status  AppointmentStatus
		deleted *time.Time
		blocks  bool
	}{
		{"pending blocks", StatusPending, nil, true},
		{"confirmed blocks", StatusConfirmed, nil, true},
		{"completed frees the cell", StatusCompleted, nil, false},
		{"cancelled frees the cell", StatusCancelled, nil, false},
		{"deleted pending does not block", StatusPending, &now, false},
		{"deleted confirmed does not block", StatusConfirmed, &now, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Appointment{Status: tt.status, DeletedAt: tt.deleted}
			assert.Equal(t, tt.blocks, a.BlocksSlot())
		})
	}
}

func TestSalon_ScheduleForDate_SpecialDateReplacesWeekday(t *testing.T) {
	open, _ := newTS("09:00")
	close, _ := newTS("17:00")
	customOpen, _ := newTS("11:00")
	customClose, _ := newTS("15:00")

	monday := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

	salon := &Salon{
		Hours: OpeningHours{
			Monday: DaySchedule{IsOpen: true, OpenTime: &open, CloseTime: &close},
		},
		SpecialDates: []SpecialDate{
			{Date: monday, OpenTime: &customOpen, CloseTime: &customClose},
		},
	}

	day := salon.ScheduleForDate(monday)
	assert.True(t, day.IsOpen)
	assert.Equal(t, "11:00", day.OpenTime.String())
	assert.Equal(t, "15:00", day.CloseTime.String())

	// Следующий понедельник без особой даты использует недельное расписание
	nextMonday := monday.AddDate(0, 0, 7)
	day = salon.ScheduleForDate(nextMonday)
	assert.Equal(t, "09:00", day.OpenTime.String())
}

func TestSalon_ScheduleForDate_SpecialDateClosed(t *testing.T) {
	open, _ := newTS("09:00")
	close, _ := newTS("17:00")
	monday := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

	salon := &Salon{
		Hours: OpeningHours{
			Monday: DaySchedule{IsOpen: true, OpenTime: &open, CloseTime: &close},
		},
		SpecialDates: []SpecialDate{
			{Date: monday, Closed: true},
		},
	}

	day := salon.ScheduleForDate(monday)
	assert.False(t, day.IsOpen)
}

func TestTimeSlot_Overlaps(t *testing.T) {
	start, _ := newTS("10:00")
	slot := TimeSlot{StartTime: start, DurationMinutes: 60}

	tests := []struct {
		name     string
		other    string
		duration int
		overlaps bool
	}{
		{"identical interval", "10:00", 60, true},
		{"partial overlap at start", "09:30", 60, true},
		{"partial overlap at end", "10:30", 60, true},
		{"contained interval", "10:15", 30, true},
		{"adjacent before does not overlap", "09:00", 60, false},
		{"adjacent after does not overlap", "11:00", 60, false},
		{"disjoint", "14:00", 60, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other, err := newTS(tt.other)
			assert.NoError(t, err)
			assert.Equal(t, tt.overlaps, slot.Overlaps(other, tt.duration))
		})
	}
}
