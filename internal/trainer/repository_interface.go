package trainer

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	Create(ctx context.Context, t *Trainer) (*Trainer, error)
	GetByID(ctx context.Context, id int) (*Trainer, error)
	List(ctx context.Context, includeInactive bool) ([]Trainer, error)
	Update(ctx context.Context, t *Trainer) (*Trainer, error)
	SetActive(ctx context.Context, id int, active bool) error
	CountFutureSessions(ctx context.Context, id int, from time.Time) (int, error)
	Exists(ctx context.Context, id int) (bool, error)

	// LockActive row-locks an active trainer inside tx. Inactive or missing
	// trainers yield sql.ErrNoRows.
	LockActive(ctx context.Context, tx *sqlx.Tx, id int) (*Trainer, error)
}
