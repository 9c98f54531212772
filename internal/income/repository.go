package income

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

const columns = `id, trainer_id, session_id, total_income, income_per_session, commission_rate, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) SessionSchedule(ctx context.Context, tx *sqlx.Tx, sessionID int) (time.Time, string, error) {
	var row struct {
		DateTime time.Time `db:"date_time"`
		Timezone string    `db:"timezone"`
	}
	err := tx.GetContext(ctx, &row, `SELECT date_time, timezone FROM sessions WHERE id = $1`, sessionID)
	return row.DateTime, row.Timezone, err
}

func (r *repository) Shares(ctx context.Context, tx *sqlx.Tx, sessionID int) ([]Share, error) {
	shares := []Share{}
	err := tx.SelectContext(ctx, &shares, `
		SELECT sa.subscription_id, s.type, s.price, s.total_sessions
		FROM session_attendees sa
		JOIN subscriptions s ON s.id = sa.subscription_id
		WHERE sa.session_id = $1
		ORDER BY sa.id
	`, sessionID)
	return shares, err
}

func (r *repository) CountAttendance(ctx context.Context, tx *sqlx.Tx, subscriptionID int, from, to time.Time) (int, error) {
	var count int
	err := tx.GetContext(ctx, &count, `
		SELECT COUNT(*)
		FROM session_attendees sa
		JOIN sessions se ON se.id = sa.session_id
		WHERE sa.subscription_id = $1
		  AND se.date_time >= $2
		  AND se.date_time < $3
	`, subscriptionID, from, to)
	return count, err
}

func (r *repository) Insert(ctx context.Context, tx *sqlx.Tx, calc *Calculation) (*Calculation, error) {
	created := &Calculation{}
	err := tx.QueryRowxContext(ctx, `
		INSERT INTO income_calculations (trainer_id, session_id, total_income, income_per_session, commission_rate)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+columns,
		calc.TrainerID, calc.SessionID, calc.TotalIncome, calc.IncomePerSession, calc.CommissionRate,
	).StructScan(created)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *repository) DeleteBySession(ctx context.Context, tx *sqlx.Tx, sessionID int) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM income_calculations WHERE session_id = $1`, sessionID)
	return err
}

func (r *repository) GetBySession(ctx context.Context, sessionID int) (*Calculation, error) {
	calc := &Calculation{}
	err := r.db.GetContext(ctx, calc, `
		SELECT `+columns+` FROM income_calculations WHERE session_id = $1 ORDER BY id DESC LIMIT 1
	`, sessionID)
	if err != nil {
		return nil, err
	}
	return calc, nil
}

func (r *repository) ListByTrainer(ctx context.Context, trainerID int, from, to *time.Time) ([]SessionIncome, error) {
	query := `
		SELECT ic.id, ic.trainer_id, ic.session_id, ic.total_income, ic.income_per_session,
		       ic.commission_rate, ic.created_at, se.date_time,
		       (SELECT COUNT(*) FROM session_attendees sa WHERE sa.session_id = ic.session_id) AS attendee_count
		FROM income_calculations ic
		JOIN sessions se ON se.id = ic.session_id
		WHERE ic.trainer_id = $1`
	args := []interface{}{trainerID}
	if from != nil && to != nil {
		query += ` AND ic.created_at >= $2 AND ic.created_at < $3`
		args = append(args, *from, *to)
	}
	query += ` ORDER BY se.date_time ASC`

	rows := []SessionIncome{}
	err := r.db.SelectContext(ctx, &rows, query, args...)
	return rows, err
}
