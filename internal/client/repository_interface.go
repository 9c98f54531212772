package client

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	Create(ctx context.Context, c *Client) (*Client, error)
	GetByID(ctx context.Context, id int) (*Client, error)
	List(ctx context.Context, search string) ([]Client, error)
	Update(ctx context.Context, c *Client) (*Client, error)
	Delete(ctx context.Context, id int) error
	Exists(ctx context.Context, id int) (bool, error)

	// LockMany row-locks the given clients in ascending id order and returns
	// the ids that exist.
	LockMany(ctx context.Context, tx *sqlx.Tx, ids []int) ([]int, error)
}
