package trainer

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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/AleksandrSotnikov/WaveWebSite/internal/api"
	"github.com/AleksandrSotnikov/WaveWebSite/internal/audit"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, t *Trainer) (*Trainer, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Trainer), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id int) (*Trainer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Trainer), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, includeInactive bool) ([]Trainer, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Trainer), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, t *Trainer) (*Trainer, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Trainer), args.Error(1)
}

func (m *MockRepository) SetActive(ctx context.Context, id int, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

func (m *MockRepository) CountFutureSessions(ctx context.Context, id int, from time.Time) (int, error) {
	args := m.Called(ctx, id, from)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) Exists(ctx context.Context, id int) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) LockActive(ctx context.Context, tx *sqlx.Tx, id int) (*Trainer, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Trainer), args.Error(1)
}

var now = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func newTestService() (Service, *MockRepository) {
	repo := new(MockRepository)
	svc := NewService(repo, audit.Nop()).(*service)
	svc.now = func() time.Time { return now }
	return svc, repo
}

func TestService_Deactivate(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		getErr   error
		future   int
		wantCode api.Code
	}{
		{name: "deactivated"},
		{name: "missing", getErr: sql.ErrNoRows, wantCode: api.CodeTrainerNotFound},
		{name: "has future sessions", future: 2, wantCode: api.CodeHasFutureSessions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestService()
			if tt.getErr != nil {
				repo.On("GetByID", ctx, 1).Return(nil, tt.getErr)
			} else {
				repo.On("GetByID", ctx, 1).Return(&Trainer{ID: 1, IsActive: true}, nil)
				repo.On("CountFutureSessions", ctx, 1, now).Return(tt.future, nil)
			}
			repo.On("SetActive", ctx, 1, false).Return(nil).Maybe()

			err := svc.Deactivate(ctx, 1)
			if tt.wantCode == "" {
				require.NoError(t, err)
				repo.AssertCalled(t, "SetActive", ctx, 1, false)
				return
			}
			assert.Equal(t, tt.wantCode, api.CodeOf(err))
			repo.AssertNotCalled(t, "SetActive", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestService_Update_DeactivateChecksSessions(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	inactive := false

	repo.On("GetByID", ctx, 1).Return(&Trainer{ID: 1, IsActive: true}, nil)
	repo.On("CountFutureSessions", ctx, 1, now).Return(1, nil)

	_, err := svc.Update(ctx, 1, UpdateRequest{IsActive: &inactive})
	assert.Equal(t, api.CodeHasFutureSessions, api.CodeOf(err))
}

func TestService_Update(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	name := "Aigerim Sadykova"

	repo.On("GetByID", ctx, 1).Return(&Trainer{ID: 1, FullName: "A. S.", IsActive: true}, nil)
	repo.On("Update", ctx, mock.MatchedBy(func(t *Trainer) bool { return t.FullName == name })).
		Return(&Trainer{ID: 1, FullName: name, IsActive: true}, nil)

	updated, err := svc.Update(ctx, 1, UpdateRequest{FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.FullName)
}

func TestRepository_LockActive(t *testing.T) {
	db, smock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "sqlmock")
	defer sqlxDB.Close()
	repo := NewRepository(sqlxDB)

	smock.ExpectBegin()
	smock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1 AND is_active = TRUE FOR UPDATE")).
		WithArgs(4).
		WillReturnError(sql.ErrNoRows)

	tx, err := sqlxDB.Beginx()
	require.NoError(t, err)

	_, err = repo.LockActive(context.Background(), tx, 4)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, smock.ExpectationsWereMet())
}

func TestRepository_List(t *testing.T) {
	db, smock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "sqlmock")
	defer sqlxDB.Close()
	repo := NewRepository(sqlxDB)

	cols := []string{"id", "full_name", "specialization", "phone_number", "is_active", "created_at", "updated_at"}
	smock.ExpectQuery(regexp.QuoteMeta("FROM trainers WHERE is_active = TRUE ORDER BY full_name ASC")).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(1, "Aigerim", "pilates", nil, true, now, now))

	trainers, err := repo.List(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, trainers, 1)
	assert.Equal(t, "pilates", *trainers[0].Specialization)
	assert.Nil(t, trainers[0].PhoneNumber)
}

type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, req CreateRequest) (*Trainer, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Trainer), args.Error(1)
}

func (m *MockService) GetByID(ctx context.Context, id int) (*Trainer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Trainer), args.Error(1)
}

func (m *MockService) List(ctx context.Context, includeInactive bool) ([]Trainer, error) {
	args := m.Called(ctx, includeInactive)
	return args.Get(0).([]Trainer), args.Error(1)
}

func (m *MockService) Update(ctx context.Context, id int, req UpdateRequest) (*Trainer, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Trainer), args.Error(1)
}

func (m *MockService) Deactivate(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func setupRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	api.RegisterValidators()
	h := NewHandler(svc)
	r := gin.New()
	r.POST("/trainers", h.Create)
	r.GET("/trainers", h.List)
	r.GET("/trainers/:id", h.Get)
	r.DELETE("/trainers/:id", h.Deactivate)
	return r
}

func TestHandler_Create(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"valid", `{"full_name":"Aigerim","phone_number":"+77011234567"}`, http.StatusCreated},
		{"short name", `{"full_name":"A"}`, http.StatusBadRequest},
		{"bad phone", `{"full_name":"Aigerim","phone_number":"8701"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			svc.On("Create", mock.Anything, mock.Anything).Return(&Trainer{ID: 1}, nil)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/trainers", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			setupRouter(svc).ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestHandler_List_All(t *testing.T) {
	svc := new(MockService)
	svc.On("List", mock.Anything, true).Return([]Trainer{{ID: 1}, {ID: 2}}, nil)

	w := httptest.NewRecorder()
	setupRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/trainers?all=true", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":2`)
}

func TestHandler_Get_NotFound(t *testing.T) {
	svc := new(MockService)
	svc.On("GetByID", mock.Anything, 9).Return(nil, api.NewError(api.CodeTrainerNotFound, "Trainer not found"))

	w := httptest.NewRecorder()
	setupRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/trainers/9", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_Deactivate_Conflict(t *testing.T) {
	svc := new(MockService)
	svc.On("Deactivate", mock.Anything, 3).Return(api.NewError(api.CodeHasFutureSessions, "busy"))

	w := httptest.NewRecorder()
	setupRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/trainers/3", nil))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "HAS_FUTURE_SESSIONS")
}
