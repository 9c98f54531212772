package admin

import "context"

type Repository interface {
	Create(ctx context.Context, u *AdminUser) (*AdminUser, error)
	FindByUsername(ctx context.Context, username string) (*AdminUser, error)
	FindByID(ctx context.Context, id int) (*AdminUser, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	TouchLastLogin(ctx context.Context, id int) error
}
