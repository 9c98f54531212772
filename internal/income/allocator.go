package income

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/AleksandrSotnikov/WaveWebSite/internal/config"
	"github.com/AleksandrSotnikov/WaveWebSite/internal/logger"
	"github.com/AleksandrSotnikov/WaveWebSite/internal/subscription"
)

// Allocator splits each attendee's subscription price into the trainer's
// commission for a single session.
type Allocator struct {
	repo     Repository
	rate     float64
	fallback *time.Location
}

func NewAllocator(repo Repository, rate float64, fallback *time.Location) *Allocator {
	if fallback == nil {
		fallback = time.UTC
	}
	return &Allocator{repo: repo, rate: rate, fallback: fallback}
}

// Compute persists the income of sessionID. It returns nil when the session
// has no attendees.
func (a *Allocator) Compute(ctx context.Context, tx *sqlx.Tx, trainerID, sessionID int) (*Calculation, error) {
	shares, err := a.repo.Shares(ctx, tx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendee subscriptions: %w", err)
	}
	if len(shares) == 0 {
		return nil, nil
	}

	at, tz, err := a.repo.SessionSchedule(ctx, tx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session %d: %w", sessionID, err)
	}
	from, to := MonthWindow(at, a.location(tz))

	var total float64
	for _, share := range shares {
		contribution, err := a.contribution(ctx, tx, share, from, to)
		if err != nil {
			return nil, err
		}
		total += contribution
	}

	calc, err := a.repo.Insert(ctx, tx, &Calculation{
		TrainerID:        trainerID,
		SessionID:        sessionID,
		TotalIncome:      total,
		IncomePerSession: total / float64(len(shares)),
		CommissionRate:   a.rate,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store income for session %d: %w", sessionID, err)
	}
	return calc, nil
}

// Discard removes the income recorded for sessionID.
func (a *Allocator) Discard(ctx context.Context, tx *sqlx.Tx, sessionID int) error {
	if err := a.repo.DeleteBySession(ctx, tx, sessionID); err != nil {
		return fmt.Errorf("failed to delete income of session %d: %w", sessionID, err)
	}
	return nil
}

func (a *Allocator) contribution(ctx context.Context, tx *sqlx.Tx, share Share, from, to time.Time) (float64, error) {
	commission := share.Price * a.rate

	switch share.Type {
	case subscription.TypeLimited:
		if share.TotalSessions == nil || *share.TotalSessions <= 0 {
			return 0, nil
		}
		return commission / float64(*share.TotalSessions), nil

	case subscription.TypeUnlimited:
		n, err := a.repo.CountAttendance(ctx, tx, share.SubscriptionID, from, to)
		if err != nil {
			return 0, fmt.Errorf("failed to count attendance of subscription %d: %w", share.SubscriptionID, err)
		}
		if n == 0 {
			return 0, nil
		}
		return commission / float64(n), nil
	}

	return 0, nil
}

func (a *Allocator) location(tz string) *time.Location {
	if tz == "" {
		return a.fallback
	}
	loc, err := config.ParseTimezone(tz)
	if err != nil {
		logger.Warn("unknown session timezone, using studio default", "timezone", tz, "error", err)
		return a.fallback
	}
	return loc
}

// MonthWindow returns [first day of t's month, first day of the next month)
// with the month taken in loc.
func MonthWindow(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}
