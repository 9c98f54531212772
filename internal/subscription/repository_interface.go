package subscription

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	Create(ctx context.Context, sub *Subscription) (*Subscription, error)
	GetByID(ctx context.Context, id int) (*Subscription, error)
	List(ctx context.Context, filter Filter) ([]WithClient, error)
	Update(ctx context.Context, sub *Subscription) (*Subscription, error)
	UpdateStatus(ctx context.Context, id int, status Status) error
	ExpireOverdue(ctx context.Context, today time.Time) (int64, error)
	Delete(ctx context.Context, id int) error
	CountActiveByClient(ctx context.Context, clientID int, today time.Time) (int, error)

	// Transactional ledger access.
	GetForUpdate(ctx context.Context, tx *sqlx.Tx, id int) (*Subscription, error)
	IncrementUsage(ctx context.Context, tx *sqlx.Tx, id int) (int, bool, error)
	DecrementUsage(ctx context.Context, tx *sqlx.Tx, id int) error
}
