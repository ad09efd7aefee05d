package domain

// PlanTier subscription plan tier of a salon
type PlanTier string

const (
	PlanBasic    PlanTier = "basic"
	PlanGold     PlanTier = "gold"
	PlanPlatinum PlanTier = "platinum"
)

// IsValid returns true if the tier belongs to the closed tier set
func (p PlanTier) IsValid() bool {
	switch p {
	case PlanBasic, PlanGold, PlanPlatinum:
		return true
	}
	return false
}

// PlanLimits reference limits of a subscription plan tier
type PlanLimits struct {
	Plan                   PlanTier
	MaxMonthlyAppointments int
	MaxUsers               int
	MaxAttendants          int
}

// QuotaStatus результат проверки месячной квоты салона
type QuotaStatus struct {
	SalonID      int64
	CurrentCount int
	MaxCount     int
	LimitReached bool
	SalonClosed  bool // true, если именно этот вызов закрыл салон
}
