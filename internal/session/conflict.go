package session

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/AleksandrSotnikov/WaveWebSite/internal/api"
	"github.com/AleksandrSotnikov/WaveWebSite/internal/config"
)

// Window is the range of existing session start times that collide with a
// new booking. From is exclusive and To is exclusive.
type Window struct {
	From      *time.Time
	To        time.Time
	ExcludeID int
}

// Detector decides whether a booking collides with sessions already on the
// trainer's or the clients' schedule. Sessions are compared by start time
// only, each assumed to last duration.
type Detector struct {
	repo     Repository
	duration time.Duration
	mode     string
}

func NewDetector(repo Repository, duration time.Duration, mode string) *Detector {
	if duration <= 0 {
		duration = config.DefaultSessionDuration
	}
	if mode == "" {
		mode = config.ConflictLegacy
	}
	return &Detector{repo: repo, duration: duration, mode: mode}
}

// Window returns the start times that collide with a session at start.
// excludeID skips one existing session and is 0 for new bookings.
func (d *Detector) Window(start time.Time, excludeID int) Window {
	w := Window{To: start.Add(d.duration), ExcludeID: excludeID}
	if d.mode != config.ConflictLegacy {
		from := start.Add(-d.duration)
		w.From = &from
	}
	return w
}

// Check reports TRAINER_CONFLICT or CLIENT_CONFLICT. The trainer is checked
// first. It reads inside tx so it sees rows locked by the caller.
func (d *Detector) Check(ctx context.Context, tx *sqlx.Tx, trainerID int, start time.Time, excludeID int, clientIDs []int) error {
	w := d.Window(start, excludeID)

	busy, err := d.repo.TrainerBusy(ctx, tx, trainerID, w)
	if err != nil {
		return fmt.Errorf("failed to check trainer %d schedule: %w", trainerID, err)
	}
	if busy {
		return api.NewError(api.CodeTrainerConflict, "Trainer already has a session at this time")
	}

	if len(clientIDs) == 0 {
		return nil
	}
	busy, err = d.repo.ClientsBusy(ctx, tx, clientIDs, w)
	if err != nil {
		return fmt.Errorf("failed to check client schedules: %w", err)
	}
	if busy {
		return api.NewError(api.CodeClientConflict, "One of the clients already has a session at this time")
	}
	return nil
}
