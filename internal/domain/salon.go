package domain

import (
	"time"

	"github.com/helderalustau/kiagenda-beauty-hub-sub000/pkg/types"
)

// Salon represents a salon tenant
type Salon struct {
	ID            int64
	Name          string
	Plan          PlanTier
	IsOpen        bool
	MaxAttendants int
	Hours         OpeningHours
	SpecialDates  []SpecialDate

	// Version для оптимистичной блокировки: is_open обновляется Quota Enforcer
	// и экраном настроек конкурентно, потерянные обновления недопустимы
	Version int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DaySchedule represents the working hours of a salon for a single weekday
type DaySchedule struct {
	IsOpen    bool
	OpenTime  *types.TimeString
	CloseTime *types.TimeString

	// Lunch break is subtracted from the working window when enabled
	HasLunchBreak bool
	LunchStart    *types.TimeString
	LunchEnd      *types.TimeString
}

// OpeningHours weekly schedule of a salon
type OpeningHours struct {
	Monday    DaySchedule
	Tuesday   DaySchedule
	Wednesday DaySchedule
	Thursday  DaySchedule
	Friday    DaySchedule
	Saturday  DaySchedule
	Sunday    DaySchedule
}

// ForWeekday returns the schedule for the given weekday
func (h OpeningHours) ForWeekday(weekday time.Weekday) DaySchedule {
	switch weekday {
	case time.Monday:
		return h.Monday
	case time.Tuesday:
		return h.Tuesday
	case time.Wednesday:
		return h.Wednesday
	case time.Thursday:
		return h.Thursday
	case time.Friday:
		return h.Friday
	case time.Saturday:
		return h.Saturday
	case time.Sunday:
		return h.Sunday
	default:
		return DaySchedule{IsOpen: false}
	}
}

// SpecialDate override of the weekday schedule for a concrete date.
// A special date fully replaces the weekday default: it either forces
// the salon closed or substitutes custom hours.
type SpecialDate struct {
	ID      int64
	SalonID int64
	Date    time.Time
	Closed  bool

	// Custom hours, used only when Closed is false
	OpenTime  *types.TimeString
	CloseTime *types.TimeString
}

// ToDaySchedule converts a special date override to a day schedule
func (s SpecialDate) ToDaySchedule() DaySchedule {
	if s.Closed {
		return DaySchedule{IsOpen: false}
	}
	return DaySchedule{
		IsOpen:    true,
		OpenTime:  s.OpenTime,
		CloseTime: s.CloseTime,
	}
}

// ScheduleForDate returns the effective schedule for a concrete date,
// taking special-date overrides into account
func (s *Salon) ScheduleForDate(date time.Time) DaySchedule {
	for _, sd := range s.SpecialDates {
		if sameDate(sd.Date, date) {
			return sd.ToDaySchedule()
		}
	}
	return s.Hours.ForWeekday(date.Weekday())
}

func sameDate(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
