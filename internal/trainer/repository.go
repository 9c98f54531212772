package trainer

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/AleksandrSotnikov/WaveWebSite/internal/db"
)

const columns = `id, full_name, specialization, phone_number, is_active, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, t *Trainer) (*Trainer, error) {
	created := &Trainer{}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO trainers (full_name, specialization, phone_number, is_active)
		VALUES ($1, $2, $3, TRUE)
		RETURNING `+columns,
		t.FullName, t.Specialization, t.PhoneNumber,
	).StructScan(created)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Trainer, error) {
	t := &Trainer{}
	if err := r.db.GetContext(ctx, t, `SELECT `+columns+` FROM trainers WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *repository) List(ctx context.Context, includeInactive bool) ([]Trainer, error) {
	query := `SELECT ` + columns + ` FROM trainers`
	if !includeInactive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY full_name ASC`

	trainers := []Trainer{}
	err := r.db.SelectContext(ctx, &trainers, query)
	return trainers, err
}

func (r *repository) Update(ctx context.Context, t *Trainer) (*Trainer, error) {
	updated := &Trainer{}
	err := r.db.QueryRowxContext(ctx, `
		UPDATE trainers
		SET full_name = $1, specialization = $2, phone_number = $3, is_active = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING `+columns,
		t.FullName, t.Specialization, t.PhoneNumber, t.IsActive, t.ID,
	).StructScan(updated)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *repository) SetActive(ctx context.Context, id int, active bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE trainers SET is_active = $1, updated_at = NOW() WHERE id = $2
	`, active, id)
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

func (r *repository) CountFutureSessions(ctx context.Context, id int, from time.Time) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM sessions WHERE trainer_id = $1 AND date_time > $2
	`, id, from)
	return count, err
}

func (r *repository) Exists(ctx context.Context, id int) (bool, error) {
	return db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM trainers WHERE id = $1)`, id)
}

func (r *repository) LockActive(ctx context.Context, tx *sqlx.Tx, id int) (*Trainer, error) {
	t := &Trainer{}
	err := tx.GetContext(ctx, t, `
		SELECT `+columns+` FROM trainers WHERE id = $1 AND is_active = TRUE FOR UPDATE
	`, id)
	if err != nil {
		return nil, err
	}
	return t, nil
}
