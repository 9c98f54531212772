package admin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"unicode"

	"github.com/AleksandrSotnikov/WaveWebSite/internal/api"
	"github.com/AleksandrSotnikov/WaveWebSite/internal/auth"
	"github.com/AleksandrSotnikov/WaveWebSite/internal/db"
	"github.com/AleksandrSotnikov/WaveWebSite/internal/logger"
)

const minPasswordLength = 8

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*AdminUser, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Me(ctx context.Context, id int) (*AdminUser, error)
	Refresh(ctx context.Context, refreshToken string) (*RefreshResponse, error)
}

type service struct {
	repo      Repository
	jwtSecret string
}

func NewService(repo Repository, jwtSecret string) Service {
	return &service{repo: repo, jwtSecret: jwtSecret}
}

func invalidCredentials() error {
	return api.NewError(api.CodeInvalidCreds, "Invalid username or password")
}

// ValidatePassword requires at least eight characters mixing letters and
// digits.
func ValidatePassword(password string) error {
	var letter, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if len(password) < minPasswordLength || !letter || !digit {
		return api.NewError(api.CodeInvalidPassword, "Password must be at least 8 characters with letters and numbers")
	}
	return nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*AdminUser, error) {
	if err := ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	exists, err := s.repo.UsernameExists(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, api.NewError(api.CodeUsernameExists, "Username already exists")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &AdminUser{
		Username:     req.Username,
		PasswordHash: hash,
		Email:        req.Email,
		Role:         RoleAdmin,
	})
	if db.IsUniqueViolation(err) {
		return nil, api.NewError(api.CodeUsernameExists, "Username already exists")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create admin %q: %w", req.Username, err)
	}

	logger.Info("admin registered", "admin_id", created.ID, "username", created.Username)
	return created, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	u, err := s.repo.FindByUsername(ctx, req.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, invalidCredentials()
	}
	if err != nil {
		return nil, err
	}

	if !u.IsActive {
		return nil, api.NewError(api.CodeAccountInactive, "Account is inactive")
	}
	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		return nil, invalidCredentials()
	}

	access, refresh, err := auth.GenerateTokens(u.ID, u.Username, u.Role, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	if err := s.repo.TouchLastLogin(ctx, u.ID); err != nil {
		logger.Warn("failed to record admin login", "admin_id", u.ID, "error", err)
	}

	return &LoginResponse{AccessToken: access, RefreshToken: refresh, User: *u}, nil
}

func (s *service) Me(ctx context.Context, id int) (*AdminUser, error) {
	u, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, api.NewError(api.CodeNotFound, "Admin not found")
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (*RefreshResponse, error) {
	access, claims, err := auth.RefreshAccessToken(refreshToken, s.jwtSecret)
	if err != nil {
		return nil, api.NewError(api.CodeUnauthorized, "Invalid or expired refresh token")
	}

	u, err := s.repo.FindByID(ctx, claims.AdminID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, api.NewError(api.CodeUnauthorized, "Admin no longer exists")
	}
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, api.NewError(api.CodeAccountInactive, "Account is inactive")
	}

	return &RefreshResponse{AccessToken: access, User: *u}, nil
}
