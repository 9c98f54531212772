package subscription

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/AleksandrSotnikov/WaveWebSite/internal/api"
)

// Ledger guards subscription usage inside a caller-owned transaction. Every
// method locks the subscription row it touches, so usage counters cannot
// race between concurrent session writes.
type Ledger struct {
	repo Repository
	loc  *time.Location
	now  func() time.Time
}

func NewLedger(repo Repository, loc *time.Location) *Ledger {
	if loc == nil {
		loc = time.UTC
	}
	return &Ledger{repo: repo, loc: loc, now: time.Now}
}

// ValidateActive locks the subscription and checks that it belongs to
// clientID and has not expired. Checks run in that order.
func (l *Ledger) ValidateActive(ctx context.Context, tx *sqlx.Tx, subscriptionID, clientID int) (*Subscription, error) {
	sub, err := l.repo.GetForUpdate(ctx, tx, subscriptionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, api.NewError(api.CodeSubNotFound, fmt.Sprintf("Subscription %d not found", subscriptionID))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load subscription %d: %w", subscriptionID, err)
	}

	if sub.ClientID != clientID {
		return nil, api.NewError(api.CodeSubWrongClient,
			fmt.Sprintf("Subscription %d does not belong to client %d", subscriptionID, clientID))
	}

	if sub.Status == StatusExpired || ExpiredOn(sub.ExpirationDate, l.now(), l.loc) {
		return nil, api.NewError(api.CodeNoActiveSub,
			fmt.Sprintf("Subscription %d of client %d is expired", subscriptionID, clientID))
	}

	return sub, nil
}

// Reserve consumes one session from a limited subscription. Unlimited plans
// are left untouched.
func (l *Ledger) Reserve(ctx context.Context, tx *sqlx.Tx, sub *Subscription) error {
	if sub.Type != TypeLimited {
		return nil
	}

	noneLeft := api.NewError(api.CodeNoSessionsLeft,
		fmt.Sprintf("Subscription %d has no sessions left", sub.ID))
	if sub.TotalSessions == nil || sub.SessionsUsed >= *sub.TotalSessions {
		return noneLeft
	}

	used, ok, err := l.repo.IncrementUsage(ctx, tx, sub.ID)
	if err != nil {
		return fmt.Errorf("failed to reserve session on subscription %d: %w", sub.ID, err)
	}
	if !ok {
		return noneLeft
	}
	sub.SessionsUsed = used
	return nil
}

// Release returns one session to a limited subscription, never going below
// zero. A subscription that no longer exists is ignored.
func (l *Ledger) Release(ctx context.Context, tx *sqlx.Tx, subscriptionID int) error {
	sub, err := l.repo.GetForUpdate(ctx, tx, subscriptionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load subscription %d: %w", subscriptionID, err)
	}

	if sub.Type != TypeLimited || sub.SessionsUsed <= 0 {
		return nil
	}
	if err := l.repo.DecrementUsage(ctx, tx, sub.ID); err != nil {
		return fmt.Errorf("failed to release session on subscription %d: %w", sub.ID, err)
	}
	return nil
}
