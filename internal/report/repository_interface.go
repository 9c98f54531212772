package report

import (
	"context"
	"time"
)

type Repository interface {
	// ClientSessions lists the sessions a client attended, oldest first. The
	// range applies only when both bounds are set; to is exclusive.
	ClientSessions(ctx context.Context, clientID int, from, to *time.Time) ([]ClientRow, error)
	DateSessions(ctx context.Context, from, to time.Time) ([]DateRow, error)
}
