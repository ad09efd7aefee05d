package domain

import "time"

// Service represents a salon service offering
type Service struct {
	ID              int64
	SalonID         int64
	Name            string
	Price           float64
	DurationMinutes int
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TotalDuration суммирует длительность основной услуги и дополнительных
func TotalDuration(services []*Service) int {
	total := 0
	for _, s := range services {
		total += s.DurationMinutes
	}
	return total
}
