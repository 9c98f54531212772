package session

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/AleksandrSotnikov/WaveWebSite/internal/db"
)

const columns = `id, trainer_id, date_time, timezone, notes, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, tx *sqlx.Tx, s *Session) (*Session, error) {
	query := `
		INSERT INTO sessions (trainer_id, date_time, timezone, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + columns

	created := &Session{}
	if err := tx.GetContext(ctx, created, query, s.TrainerID, s.DateTime, s.Timezone, s.Notes); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *repository) AddAttendee(ctx context.Context, tx *sqlx.Tx, a *Attendee) (*Attendee, error) {
	query := `
		INSERT INTO session_attendees (session_id, client_id, subscription_id)
		VALUES ($1, $2, $3)
		RETURNING id, session_id, client_id, subscription_id, created_at
	`

	created := &Attendee{}
	if err := tx.GetContext(ctx, created, query, a.SessionID, a.ClientID, a.SubscriptionID); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *repository) LockByID(ctx context.Context, tx *sqlx.Tx, id int) (*Session, error) {
	s := &Session{}
	err := tx.GetContext(ctx, s, `SELECT `+columns+` FROM sessions WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ListAttendees returns the attendees of a session ordered by subscription
// id, the order in which their subscriptions get locked.
func (r *repository) ListAttendees(ctx context.Context, tx *sqlx.Tx, sessionID int) ([]Attendee, error) {
	query := `
		SELECT id, session_id, client_id, subscription_id, created_at
		FROM session_attendees
		WHERE session_id = $1
		ORDER BY subscription_id, id
	`

	var attendees []Attendee
	if err := tx.SelectContext(ctx, &attendees, query, sessionID); err != nil {
		return nil, err
	}
	return attendees, nil
}

func (r *repository) DeleteAttendees(ctx context.Context, tx *sqlx.Tx, sessionID int) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM session_attendees WHERE session_id = $1`, sessionID)
	return err
}

func (r *repository) Delete(ctx context.Context, tx *sqlx.Tx, id int) error {
	result, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repository) TrainerBusy(ctx context.Context, tx *sqlx.Tx, trainerID int, w Window) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM sessions
			WHERE trainer_id = $1
			  AND date_time < $2
			  AND ($3::timestamptz IS NULL OR date_time > $3)
			  AND id <> $4
		)
	`
	return db.Exists(ctx, tx, query, trainerID, w.To, w.From, w.ExcludeID)
}

func (r *repository) ClientsBusy(ctx context.Context, tx *sqlx.Tx, clientIDs []int, w Window) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM session_attendees sa
			JOIN sessions se ON se.id = sa.session_id
			WHERE sa.client_id = ANY($1)
			  AND se.date_time < $2
			  AND ($3::timestamptz IS NULL OR se.date_time > $3)
			  AND se.id <> $4
		)
	`
	return db.Exists(ctx, tx, query, pq.Array(clientIDs), w.To, w.From, w.ExcludeID)
}

const detailsSelect = `
	SELECT se.id, se.trainer_id, se.date_time, se.timezone, se.notes, se.created_at, se.updated_at,
	       t.full_name AS trainer_name
	FROM sessions se
	JOIN trainers t ON t.id = se.trainer_id`

func (r *repository) GetByID(ctx context.Context, id int) (*Details, error) {
	d := &Details{}
	if err := r.db.GetContext(ctx, d, detailsSelect+` WHERE se.id = $1`, id); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *repository) List(ctx context.Context, filter Filter) ([]Details, error) {
	var (
		conditions []string
		args       []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.TrainerID != nil {
		conditions = append(conditions, "se.trainer_id = "+arg(*filter.TrainerID))
	}
	if filter.ClientID != nil {
		conditions = append(conditions,
			"EXISTS (SELECT 1 FROM session_attendees sa WHERE sa.session_id = se.id AND sa.client_id = "+arg(*filter.ClientID)+")")
	}
	if filter.From != nil && filter.To != nil {
		conditions = append(conditions, "se.date_time >= "+arg(*filter.From))
		conditions = append(conditions, "se.date_time < "+arg(*filter.To))
	}

	query := detailsSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY se.date_time ASC, se.id ASC"

	sessions := []Details{}
	if err := r.db.SelectContext(ctx, &sessions, query, args...); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *repository) AttendeeDetails(ctx context.Context, sessionIDs []int) ([]AttendeeDetail, error) {
	query := `
		SELECT sa.id, sa.session_id, sa.client_id, sa.subscription_id, sa.created_at,
		       c.full_name AS client_name,
		       sub.type AS subscription_type,
		       sub.status AS subscription_status
		FROM session_attendees sa
		JOIN clients c ON c.id = sa.client_id
		JOIN subscriptions sub ON sub.id = sa.subscription_id
		WHERE sa.session_id = ANY($1)
		ORDER BY sa.session_id, sa.id
	`

	var attendees []AttendeeDetail
	if err := r.db.SelectContext(ctx, &attendees, query, pq.Array(sessionIDs)); err != nil {
		return nil, err
	}
	return attendees, nil
}
