package subscription

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

const columns = `id, client_id, type, price, total_sessions, sessions_used,
	start_date, expiration_date, status, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, sub *Subscription) (*Subscription, error) {
	created := &Subscription{}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO subscriptions (client_id, type, price, total_sessions, sessions_used, start_date, expiration_date, status)
		VALUES ($1, $2, $3, $4, 0, $5, $6, $7)
		RETURNING `+columns,
		sub.ClientID, sub.Type, sub.Price, sub.TotalSessions, sub.StartDate, sub.ExpirationDate, sub.Status,
	).StructScan(created)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Subscription, error) {
	sub := &Subscription{}
	err := r.db.GetContext(ctx, sub, `SELECT `+columns+` FROM subscriptions WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func (r *repository) List(ctx context.Context, filter Filter) ([]WithClient, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.ClientID != nil {
		args = append(args, *filter.ClientID)
		conds = append(conds, "s.client_id = $"+strconv.Itoa(len(args)))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		conds = append(conds, "s.type = $"+strconv.Itoa(len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, "s.status = $"+strconv.Itoa(len(args)))
	}

	query := `
		SELECT s.id, s.client_id, s.type, s.price, s.total_sessions, s.sessions_used,
		       s.start_date, s.expiration_date, s.status, s.created_at, s.updated_at,
		       c.full_name AS client_name, c.phone_number AS client_phone
		FROM subscriptions s
		JOIN clients c ON c.id = s.client_id`
	if len(conds) > 0 {
		query += "\n\t\tWHERE " + strings.Join(conds, " AND ")
	}
	query += "\n\t\tORDER BY s.created_at DESC"

	subs := []WithClient{}
	err := r.db.SelectContext(ctx, &subs, query, args...)
	return subs, err
}

func (r *repository) Update(ctx context.Context, sub *Subscription) (*Subscription, error) {
	updated := &Subscription{}
	err := r.db.QueryRowxContext(ctx, `
		UPDATE subscriptions
		SET price = $1, total_sessions = $2, sessions_used = $3, expiration_date = $4,
		    status = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING `+columns,
		sub.Price, sub.TotalSessions, sub.SessionsUsed, sub.ExpirationDate, sub.Status, sub.ID,
	).StructScan(updated)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int, status Status) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE subscriptions
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`, status, id)
	return err
}

// ExpireOverdue flips every active subscription whose expiration date is
// before today.
func (r *repository) ExpireOverdue(ctx context.Context, today time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE subscriptions
		SET status = 'expired', updated_at = NOW()
		WHERE status = 'active' AND expiration_date < $1
	`, today)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repository) CountActiveByClient(ctx context.Context, clientID int, today time.Time) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*)
		FROM subscriptions
		WHERE client_id = $1
		  AND status = 'active'
		  AND expiration_date >= $2
	`, clientID, today)
	return count, err
}

func (r *repository) GetForUpdate(ctx context.Context, tx *sqlx.Tx, id int) (*Subscription, error) {
	sub := &Subscription{}
	err := tx.GetContext(ctx, sub, `SELECT `+columns+` FROM subscriptions WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// IncrementUsage consumes one session unless the plan is exhausted. ok is
// false when the guard rejected the update.
func (r *repository) IncrementUsage(ctx context.Context, tx *sqlx.Tx, id int) (used int, ok bool, err error) {
	err = tx.GetContext(ctx, &used, `
		UPDATE subscriptions
		SET sessions_used = sessions_used + 1, updated_at = NOW()
		WHERE id = $1
		  AND total_sessions IS NOT NULL
		  AND sessions_used < total_sessions
		RETURNING sessions_used
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return used, true, nil
}

func (r *repository) DecrementUsage(ctx context.Context, tx *sqlx.Tx, id int) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE subscriptions
		SET sessions_used = sessions_used - 1, updated_at = NOW()
		WHERE id = $1 AND sessions_used > 0
	`, id)
	return err
}
