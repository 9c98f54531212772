package subscription

import "time"

type Type string
type Status string

const (
	TypeLimited   Type = "limited"
	TypeUnlimited Type = "unlimited"

	StatusActive  Status = "active"
	StatusExpired Status = "expired"
)

func (t Type) Valid() bool {
	return t == TypeLimited || t == TypeUnlimited
}

type Subscription struct {
	ID             int       `db:"id" json:"id"`
	ClientID       int       `db:"client_id" json:"client_id"`
	Type           Type      `db:"type" json:"type"`
	Price          float64   `db:"price" json:"price"`
	TotalSessions  *int      `db:"total_sessions" json:"total_sessions"`
	SessionsUsed   int       `db:"sessions_used" json:"sessions_used"`
	StartDate      time.Time `db:"start_date" json:"start_date"`
	ExpirationDate time.Time `db:"expiration_date" json:"expiration_date"`
	Status         Status    `db:"status" json:"status"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// WithClient is a subscription joined with its owner for listings.
type WithClient struct {
	Subscription
	ClientName  string `db:"client_name" json:"client_name"`
	ClientPhone string `db:"client_phone" json:"client_phone"`
}

// StatusAt derives the status from the expiration date. A subscription stays
// active through its whole expiration day in loc.
func (s *Subscription) StatusAt(now time.Time, loc *time.Location) Status {
	if ExpiredOn(s.ExpirationDate, now, loc) {
		return StatusExpired
	}
	return StatusActive
}

// RemainingSessions is nil for unlimited plans.
func (s *Subscription) RemainingSessions() *int {
	if s.Type != TypeLimited || s.TotalSessions == nil {
		return nil
	}
	left := *s.TotalSessions - s.SessionsUsed
	if left < 0 {
		left = 0
	}
	return &left
}

// ExpiredOn reports whether expiration (a calendar date) lies strictly
// before the current day in loc.
func ExpiredOn(expiration, now time.Time, loc *time.Location) bool {
	return DateOf(expiration).Before(DateOf(now.In(loc)))
}

// DateOf drops the clock part, keeping the calendar date as seen in t's zone.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

type CreateRequest struct {
	ClientID      int     `json:"client_id" binding:"required,min=1"`
	Type          Type    `json:"type" binding:"required"`
	Price         float64 `json:"price" binding:"gte=0"`
	TotalSessions *int    `json:"total_sessions,omitempty"`
	StartDate     string  `json:"start_date" binding:"required" example:"2026-10-01"`
}

type UpdateRequest struct {
	Price          *float64 `json:"price,omitempty" binding:"omitempty,gte=0"`
	TotalSessions  *int     `json:"total_sessions,omitempty" binding:"omitempty,min=1"`
	SessionsUsed   *int     `json:"sessions_used,omitempty" binding:"omitempty,min=0"`
	ExpirationDate *string  `json:"expiration_date,omitempty"`
	Status         *Status  `json:"status,omitempty" binding:"omitempty,oneof=active expired"`
}

type Filter struct {
	ClientID *int
	Type     Type
	Status   Status
}
