package income

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	// Allocation runs inside the session composer's transaction.
	SessionSchedule(ctx context.Context, tx *sqlx.Tx, sessionID int) (time.Time, string, error)
	Shares(ctx context.Context, tx *sqlx.Tx, sessionID int) ([]Share, error)
	CountAttendance(ctx context.Context, tx *sqlx.Tx, subscriptionID int, from, to time.Time) (int, error)
	Insert(ctx context.Context, tx *sqlx.Tx, calc *Calculation) (*Calculation, error)
	DeleteBySession(ctx context.Context, tx *sqlx.Tx, sessionID int) error

	GetBySession(ctx context.Context, sessionID int) (*Calculation, error)
	ListByTrainer(ctx context.Context, trainerID int, from, to *time.Time) ([]SessionIncome, error)
}
