package income

import (
	"time"

	"github.com/AleksandrSotnikov/WaveWebSite/internal/subscription"
)

// Calculation is the commission owed to a trainer for one session.
type Calculation struct {
	ID               int       `db:"id" json:"id"`
	TrainerID        int       `db:"trainer_id" json:"trainer_id"`
	SessionID        int       `db:"session_id" json:"session_id"`
	TotalIncome      float64   `db:"total_income" json:"total_income"`
	IncomePerSession float64   `db:"income_per_session" json:"income_per_session"`
	CommissionRate   float64   `db:"commission_rate" json:"commission_rate"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// Share is the billing data of one attendee's subscription.
type Share struct {
	SubscriptionID int               `db:"subscription_id"`
	Type           subscription.Type `db:"type"`
	Price          float64           `db:"price"`
	TotalSessions  *int              `db:"total_sessions"`
}

type SessionIncome struct {
	Calculation
	SessionDate   time.Time `db:"date_time" json:"session_date"`
	AttendeeCount int       `db:"attendee_count" json:"attendee_count"`
}

type Period struct {
	From string `json:"from,omitempty" example:"2026-10-01"`
	To   string `json:"to,omitempty" example:"2026-10-31"`
}

type Report struct {
	TrainerID     int             `json:"trainer_id"`
	TrainerName   string          `json:"trainer_name"`
	Period        Period          `json:"period"`
	SessionsCount int             `json:"sessions_count"`
	TotalIncome   float64         `json:"total_income"`
	Sessions      []SessionIncome `json:"sessions"`
}
