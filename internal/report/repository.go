package report

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ClientSessions(ctx context.Context, clientID int, from, to *time.Time) ([]ClientRow, error) {
	query := `
		SELECT se.id AS session_id, se.date_time, t.full_name AS trainer_name,
		       su.type AS subscription_type, su.status AS subscription_status, su.price
		FROM session_attendees sa
		JOIN sessions se ON se.id = sa.session_id
		JOIN trainers t ON t.id = se.trainer_id
		JOIN subscriptions su ON su.id = sa.subscription_id
		WHERE sa.client_id = $1`
	args := []interface{}{clientID}
	if from != nil && to != nil {
		query += ` AND se.date_time >= $2 AND se.date_time < $3`
		args = append(args, *from, *to)
	}
	query += ` ORDER BY se.date_time ASC, se.id ASC`

	rows := []ClientRow{}
	err := r.db.SelectContext(ctx, &rows, query, args...)
	return rows, err
}

func (r *repository) DateSessions(ctx context.Context, from, to time.Time) ([]DateRow, error) {
	query := `
SELECT
  se.id        AS session_id,
  se.date_time,
  t.full_name  AS trainer_name,
  COUNT(sa.id)                                        AS clients_count,
  COUNT(sa.id) FILTER (WHERE su.status = 'active')    AS active_clients,
  COUNT(sa.id) FILTER (WHERE su.status = 'expired')   AS expired_clients
FROM sessions se
JOIN trainers t ON t.id = se.trainer_id
LEFT JOIN session_attendees sa ON sa.session_id = se.id
LEFT JOIN subscriptions su ON su.id = sa.subscription_id
WHERE se.date_time >= $1 AND se.date_time < $2
GROUP BY se.id, se.date_time, t.full_name
ORDER BY se.date_time ASC, se.id ASC;
`
	rows := []DateRow{}
	err := r.db.SelectContext(ctx, &rows, query, from, to)
	return rows, err
}
