package audit

import (
	"encoding/json"
	"time"
)

const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Event is one audit record travelling through the redis queue.
type Event struct {
	AdminUserID *int           `json:"admin_user_id,omitempty"`
	Action      string         `json:"action"`
	EntityType  string         `json:"entity_type"`
	EntityID    int            `json:"entity_id"`
	Changes     map[string]any `json:"changes,omitempty"`
	Tries       int            `json:"tries"`
	Created     time.Time      `json:"created"`
}

type Entry struct {
	ID          int             `db:"id" json:"id"`
	AdminUserID *int            `db:"admin_user_id" json:"admin_user_id,omitempty"`
	Action      string          `db:"action" json:"action"`
	EntityType  string          `db:"entity_type" json:"entity_type"`
	EntityID    int             `db:"entity_id" json:"entity_id"`
	Changes     json.RawMessage `db:"changes" json:"changes,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}
