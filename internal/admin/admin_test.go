package admin

import (
	"bytes"
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/AleksandrSotnikov/WaveWebSite/internal/api"
	"github.com/AleksandrSotnikov/WaveWebSite/internal/auth"
)

const testSecret = "test-secret-key-12345"

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, u *AdminUser) (*AdminUser, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*AdminUser), args.Error(1)
}

func (m *MockRepository) FindByUsername(ctx context.Context, username string) (*AdminUser, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*AdminUser), args.Error(1)
}

func (m *MockRepository) FindByID(ctx context.Context, id int) (*AdminUser, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*AdminUser), args.Error(1)
}

func (m *MockRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) TouchLastLogin(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func activeAdmin(t *testing.T, password string) *AdminUser {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	return &AdminUser{ID: 1, Username: "reception", PasswordHash: hash, Role: RoleAdmin, IsActive: true}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		valid    bool
	}{
		{"studioPass2026", true},
		{"abcdefg1", true},
		{"short1", false},
		{"onlyletters", false},
		{"1234567890", false},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, api.CodeInvalidPassword, api.CodeOf(err))
			}
		})
	}
}

func TestService_Register(t *testing.T) {
	tests := []struct {
		name      string
		req       RegisterRequest
		setupMock func(*MockRepository)
		wantCode  api.Code
	}{
		{
			name: "success",
			req:  RegisterRequest{Username: "reception", Password: "studioPass2026"},
			setupMock: func(m *MockRepository) {
				m.On("UsernameExists", mock.Anything, "reception").Return(false, nil)
				m.On("Create", mock.Anything, mock.MatchedBy(func(u *AdminUser) bool {
					return u.Username == "reception" && u.Role == RoleAdmin &&
						auth.CheckPassword(u.PasswordHash, "studioPass2026")
				})).Return(&AdminUser{ID: 1, Username: "reception", Role: RoleAdmin}, nil)
			},
		},
		{
			name:      "weak password",
			req:       RegisterRequest{Username: "reception", Password: "password"},
			setupMock: func(m *MockRepository) {},
			wantCode:  api.CodeInvalidPassword,
		},
		{
			name: "username taken",
			req:  RegisterRequest{Username: "reception", Password: "studioPass2026"},
			setupMock: func(m *MockRepository) {
				m.On("UsernameExists", mock.Anything, "reception").Return(true, nil)
			},
			wantCode: api.CodeUsernameExists,
		},
		{
			name: "username taken concurrently",
			req:  RegisterRequest{Username: "reception", Password: "studioPass2026"},
			setupMock: func(m *MockRepository) {
				m.On("UsernameExists", mock.Anything, "reception").Return(false, nil)
				m.On("Create", mock.Anything, mock.Anything).Return(nil, &pq.Error{Code: "23505"})
			},
			wantCode: api.CodeUsernameExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			tt.setupMock(repo)
			svc := NewService(repo, testSecret)

			u, err := svc.Register(context.Background(), tt.req)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, api.CodeOf(err))
				assert.Nil(t, u)
			} else {
				require.NoError(t, err)
				assert.Equal(t, 1, u.ID)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("success issues both tokens", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByUsername", ctx, "reception").Return(activeAdmin(t, "studioPass2026"), nil)
		repo.On("TouchLastLogin", ctx, 1).Return(nil)

		resp, err := NewService(repo, testSecret).Login(ctx, LoginRequest{Username: "reception", Password: "studioPass2026"})
		require.NoError(t, err)

		claims, err := auth.ValidateToken(resp.AccessToken, testSecret)
		require.NoError(t, err)
		assert.Equal(t, 1, claims.AdminID)
		assert.NotEmpty(t, resp.RefreshToken)
		repo.AssertExpectations(t)
	})

	t.Run("unknown user", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByUsername", ctx, "ghost").Return(nil, sql.ErrNoRows)

		_, err := NewService(repo, testSecret).Login(ctx, LoginRequest{Username: "ghost", Password: "x"})
		assert.Equal(t, api.CodeInvalidCreds, api.CodeOf(err))
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByUsername", ctx, "reception").Return(activeAdmin(t, "studioPass2026"), nil)

		_, err := NewService(repo, testSecret).Login(ctx, LoginRequest{Username: "reception", Password: "wrongPass1"})
		assert.Equal(t, api.CodeInvalidCreds, api.CodeOf(err))
		repo.AssertNotCalled(t, "TouchLastLogin", mock.Anything, mock.Anything)
	})

	t.Run("inactive account", func(t *testing.T) {
		repo := new(MockRepository)
		u := activeAdmin(t, "studioPass2026")
		u.IsActive = false
		repo.On("FindByUsername", ctx, "reception").Return(u, nil)

		_, err := NewService(repo, testSecret).Login(ctx, LoginRequest{Username: "reception", Password: "studioPass2026"})
		assert.Equal(t, api.CodeAccountInactive, api.CodeOf(err))
	})
}

func TestService_Refresh(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	repo.On("FindByID", ctx, 1).Return(activeAdmin(t, "studioPass2026"), nil)
	svc := NewService(repo, testSecret)

	access, refresh, err := auth.GenerateTokens(1, "reception", RoleAdmin, testSecret)
	require.NoError(t, err)

	resp, err := svc.Refresh(ctx, refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "reception", resp.User.Username)

	_, err = svc.Refresh(ctx, access)
	assert.Equal(t, api.CodeUnauthorized, api.CodeOf(err))
}

func TestRepository_CreateAndFind(t *testing.T) {
	conn, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	database := sqlx.NewDb(conn, "sqlmock")
	defer database.Close()
	repo := NewRepository(database)
	ctx := context.Background()

	cols := []string{"id", "username", "password_hash", "email", "role", "is_active", "last_login", "created_at", "updated_at"}
	now := time.Now()

	sqlMock.ExpectQuery(regexp.QuoteMeta("INSERT INTO admin_users (username, password_hash, email, role)")).
		WithArgs("reception", "hash", nil, RoleAdmin).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(1, "reception", "hash", nil, RoleAdmin, true, nil, now, now))
	sqlMock.ExpectQuery(regexp.QuoteMeta("FROM admin_users WHERE username = $1")).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(cols))
	sqlMock.ExpectExec(regexp.QuoteMeta("UPDATE admin_users SET last_login = NOW()")).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	created, err := repo.Create(ctx, &AdminUser{Username: "reception", PasswordHash: "hash", Role: RoleAdmin})
	require.NoError(t, err)
	assert.True(t, created.IsActive)

	_, err = repo.FindByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	require.NoError(t, repo.TouchLastLogin(ctx, 1))
	require.NoError(t, sqlMock.ExpectationsWereMet())
}

type MockService struct {
	mock.Mock
}

func (m *MockService) Register(ctx context.Context, req RegisterRequest) (*AdminUser, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*AdminUser), args.Error(1)
}

func (m *MockService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*LoginResponse), args.Error(1)
}

func (m *MockService) Me(ctx context.Context, id int) (*AdminUser, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*AdminUser), args.Error(1)
}

func (m *MockService) Refresh(ctx context.Context, refreshToken string) (*RefreshResponse, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RefreshResponse), args.Error(1)
}

func setupRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	api.RegisterValidators()
	h := NewHandler(svc)
	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/refresh", h.Refresh)
	r.GET("/auth/me", auth.AuthMiddleware(testSecret), h.Me)
	return r
}

func TestHandler_Register_InvalidUsername(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/register",
		bytes.NewBufferString(`{"username":"bad name!","password":"studioPass2026"}`))
	req.Header.Set("Content-Type", "application/json")
	setupRouter(new(MockService)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestHandler_Login_InvalidCredentials(t *testing.T) {
	svc := new(MockService)
	svc.On("Login", mock.Anything, LoginRequest{Username: "reception", Password: "nope"}).
		Return(nil, api.NewError(api.CodeInvalidCreds, "Invalid username or password"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		bytes.NewBufferString(`{"username":"reception","password":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	setupRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_CREDENTIALS")
}

func TestHandler_Me(t *testing.T) {
	svc := new(MockService)
	svc.On("Me", mock.Anything, 7).Return(&AdminUser{ID: 7, Username: "owner", PasswordHash: "secret-hash"}, nil)

	token, err := auth.GenerateAccessToken(7, "owner", RoleAdmin, testSecret)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	setupRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"owner"`)
	assert.NotContains(t, w.Body.String(), "secret-hash")
}
