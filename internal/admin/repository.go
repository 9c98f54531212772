package admin

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/AleksandrSotnikov/WaveWebSite/internal/db"
)

const columns = `id, username, password_hash, email, role, is_active, last_login, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, u *AdminUser) (*AdminUser, error) {
	query := `
		INSERT INTO admin_users (username, password_hash, email, role)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + columns

	var created AdminUser
	if err := r.db.GetContext(ctx, &created, query, u.Username, u.PasswordHash, u.Email, u.Role); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *repository) FindByUsername(ctx context.Context, username string) (*AdminUser, error) {
	var u AdminUser
	if err := r.db.GetContext(ctx, &u, `SELECT `+columns+` FROM admin_users WHERE username = $1`, username); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*AdminUser, error) {
	var u AdminUser
	if err := r.db.GetContext(ctx, &u, `SELECT `+columns+` FROM admin_users WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) UsernameExists(ctx context.Context, username string) (bool, error) {
	return db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM admin_users WHERE username = $1)`, username)
}

func (r *repository) TouchLastLogin(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `UPDATE admin_users SET last_login = NOW(), updated_at = NOW() WHERE id = $1`, id)
	return err
}
