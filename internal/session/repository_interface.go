package session

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	Create(ctx context.Context, tx *sqlx.Tx, s *Session) (*Session, error)
	AddAttendee(ctx context.Context, tx *sqlx.Tx, a *Attendee) (*Attendee, error)
	LockByID(ctx context.Context, tx *sqlx.Tx, id int) (*Session, error)
	ListAttendees(ctx context.Context, tx *sqlx.Tx, sessionID int) ([]Attendee, error)
	DeleteAttendees(ctx context.Context, tx *sqlx.Tx, sessionID int) error
	Delete(ctx context.Context, tx *sqlx.Tx, id int) error

	// Conflict lookups. A nil Window.From leaves the range open below.
	TrainerBusy(ctx context.Context, tx *sqlx.Tx, trainerID int, w Window) (bool, error)
	ClientsBusy(ctx context.Context, tx *sqlx.Tx, clientIDs []int, w Window) (bool, error)

	GetByID(ctx context.Context, id int) (*Details, error)
	List(ctx context.Context, filter Filter) ([]Details, error)
	AttendeeDetails(ctx context.Context, sessionIDs []int) ([]AttendeeDetail, error)
}
