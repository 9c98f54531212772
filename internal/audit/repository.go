package audit

import (
	"context"
	"encoding/json"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	Insert(ctx context.Context, event Event) error
	ListByEntity(ctx context.Context, entityType string, entityID int) ([]Entry, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, event Event) error {
	var changes []byte
	if len(event.Changes) > 0 {
		var err error
		changes, err = json.Marshal(event.Changes)
		if err != nil {
			return err
		}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_logs (admin_user_id, action, entity_type, entity_id, changes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, event.AdminUserID, event.Action, event.EntityType, event.EntityID, changes, event.Created)
	return err
}

func (r *repository) ListByEntity(ctx context.Context, entityType string, entityID int) ([]Entry, error) {
	entries := []Entry{}
	err := r.db.SelectContext(ctx, &entries, `
		SELECT id, admin_user_id, action, entity_type, entity_id, changes, created_at
		FROM audit_logs
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC
	`, entityType, entityID)
	return entries, err
}
