package session

import (
	"time"

	"github.com/AleksandrSotnikov/WaveWebSite/internal/api"
	"github.com/AleksandrSotnikov/WaveWebSite/internal/income"
	"github.com/AleksandrSotnikov/WaveWebSite/internal/subscription"
)

type Session struct {
	ID        int       `db:"id" json:"id"`
	TrainerID int       `db:"trainer_id" json:"trainer_id"`
	DateTime  time.Time `db:"date_time" json:"date_time"`
	Timezone  string    `db:"timezone" json:"timezone" example:"UTC+6"`
	Notes     *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Attendee links a client to a session through the subscription it was
// paid with.
type Attendee struct {
	ID             int       `db:"id" json:"id"`
	SessionID      int       `db:"session_id" json:"session_id"`
	ClientID       int       `db:"client_id" json:"client_id"`
	SubscriptionID int       `db:"subscription_id" json:"subscription_id"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

type AttendeeDetail struct {
	Attendee
	ClientName         string              `db:"client_name" json:"client_name"`
	SubscriptionType   subscription.Type   `db:"subscription_type" json:"subscription_type"`
	SubscriptionStatus subscription.Status `db:"subscription_status" json:"subscription_status"`
}

type Details struct {
	Session
	TrainerName string              `db:"trainer_name" json:"trainer_name"`
	Attendees   []AttendeeDetail    `db:"-" json:"attendees"`
	Income      *income.Calculation `db:"-" json:"income,omitempty"`
}

// CreateRequest books clients[i] into a session using subscriptions[i].
type CreateRequest struct {
	TrainerID     int     `json:"trainer_id" example:"1"`
	DateTime      string  `json:"date_time" example:"2026-10-20T18:00:00+06:00"`
	Timezone      string  `json:"timezone,omitempty" example:"UTC+6"`
	Notes         *string `json:"notes,omitempty"`
	Clients       []int   `json:"clients" example:"3,4"`
	Subscriptions []int   `json:"subscriptions" example:"10,12"`
}

// Validate checks the request shape in the order callers rely on:
// missing fields, then an empty client list, then mismatched lists.
func (r CreateRequest) Validate() error {
	if r.TrainerID <= 0 || r.DateTime == "" || r.Clients == nil || r.Subscriptions == nil {
		return api.NewError(api.CodeValidation, "trainer_id, date_time, clients[], subscriptions[] are required")
	}
	if len(r.Clients) == 0 {
		return api.NewError(api.CodeNoClients, "At least one client is required")
	}
	if len(r.Clients) != len(r.Subscriptions) {
		return api.NewError(api.CodeArrayMismatch, "clients and subscriptions arrays must be same length")
	}

	seen := make(map[int]struct{}, len(r.Clients))
	for i, clientID := range r.Clients {
		if clientID <= 0 || r.Subscriptions[i] <= 0 {
			return api.NewError(api.CodeValidation, "client and subscription ids must be positive")
		}
		if _, dup := seen[clientID]; dup {
			return api.NewError(api.CodeValidation, "a client can attend a session only once")
		}
		seen[clientID] = struct{}{}
	}
	return nil
}

type CreateResult struct {
	Session Session             `json:"session"`
	Income  *income.Calculation `json:"income"`
}

// Query is the raw session list filter as it arrives from the API.
type Query struct {
	TrainerID *int
	ClientID  *int
	DateFrom  string
	DateTo    string
}

// Filter restricts a session listing. The time range applies only when
// both bounds are set; To is exclusive.
type Filter struct {
	TrainerID *int
	ClientID  *int
	From      *time.Time
	To        *time.Time
}
