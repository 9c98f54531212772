package client

import (
	"context"
	"database/sql"
	"sort"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/AleksandrSotnikov/WaveWebSite/internal/db"
)

const columns = `id, full_name, phone_number, messenger_link, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, c *Client) (*Client, error) {
	created := &Client{}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO clients (full_name, phone_number, messenger_link)
		VALUES ($1, $2, $3)
		RETURNING `+columns,
		c.FullName, c.PhoneNumber, c.MessengerLink,
	).StructScan(created)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Client, error) {
	c := &Client{}
	if err := r.db.GetContext(ctx, c, `SELECT `+columns+` FROM clients WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *repository) List(ctx context.Context, search string) ([]Client, error) {
	clients := []Client{}
	if search == "" {
		err := r.db.SelectContext(ctx, &clients, `SELECT `+columns+` FROM clients ORDER BY full_name ASC`)
		return clients, err
	}

	err := r.db.SelectContext(ctx, &clients, `
		SELECT `+columns+`
		FROM clients
		WHERE full_name ILIKE $1 OR phone_number LIKE $1
		ORDER BY full_name ASC
	`, "%"+search+"%")
	return clients, err
}

func (r *repository) Update(ctx context.Context, c *Client) (*Client, error) {
	updated := &Client{}
	err := r.db.QueryRowxContext(ctx, `
		UPDATE clients
		SET full_name = $1, phone_number = $2, messenger_link = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING `+columns,
		c.FullName, c.PhoneNumber, c.MessengerLink, c.ID,
	).StructScan(updated)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *repository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
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

func (r *repository) Exists(ctx context.Context, id int) (bool, error) {
	return db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM clients WHERE id = $1)`, id)
}

func (r *repository) LockMany(ctx context.Context, tx *sqlx.Tx, ids []int) ([]int, error) {
	sorted := append([]int(nil), ids...)
	sort.Ints(sorted)

	locked := []int{}
	err := tx.SelectContext(ctx, &locked, `
		SELECT id FROM clients WHERE id = ANY($1) ORDER BY id FOR UPDATE
	`, pq.Array(sorted))
	return locked, err
}
