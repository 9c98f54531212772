package admin

import "time"

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
)

type AdminUser struct {
	ID           int        `db:"id" json:"id"`
	Username     string     `db:"username" json:"username"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Email        *string    `db:"email" json:"email,omitempty"`
	Role         string     `db:"role" json:"role" example:"admin"`
	IsActive     bool       `db:"is_active" json:"is_active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

type RegisterRequest struct {
	Username string  `json:"username" binding:"required,min=3,max=50,username" example:"reception"`
	Password string  `json:"password" binding:"required" example:"studioPass2026"`
	Email    *string `json:"email" binding:"omitempty,email,max=100" example:"desk@wave.studio"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"reception"`
	Password string `json:"password" binding:"required" example:"studioPass2026"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type LoginResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	User         AdminUser `json:"user"`
}

type RefreshResponse struct {
	AccessToken string    `json:"access_token"`
	User        AdminUser `json:"user"`
}
