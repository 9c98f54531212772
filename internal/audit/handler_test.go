package audit

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/AleksandrSotnikov/WaveWebSite/internal/api"
)

func setupRouter(repo Repository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/audit/:entity/:id", NewHandler(repo).History)
	return router
}

func TestHandler_History(t *testing.T) {
	repo := new(MockRepository)
	repo.On("ListByEntity", mock.Anything, "subscription", 5).Return([]Entry{
		{ID: 2, Action: ActionUpdate, EntityType: "subscription", EntityID: 5, CreatedAt: time.Now()},
		{ID: 1, Action: ActionCreate, EntityType: "subscription", EntityID: 5, CreatedAt: time.Now().Add(-time.Hour)},
	}, nil)

	w := httptest.NewRecorder()
	setupRouter(repo).ServeHTTP(w, httptest.NewRequest("GET", "/audit/subscription/5", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data  []Entry `json:"data"`
		Total int     `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, ActionUpdate, resp.Data[0].Action)
	repo.AssertExpectations(t)
}

func TestHandler_History_Rejects(t *testing.T) {
	tests := []struct {
		name string
		path string
		code int
	}{
		{"unknown entity", "/audit/room/1", http.StatusBadRequest},
		{"bad id", "/audit/session/abc", http.StatusBadRequest},
		{"zero id", "/audit/session/0", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			w := httptest.NewRecorder()
			setupRouter(repo).ServeHTTP(w, httptest.NewRequest("GET", tt.path, nil))

			assert.Equal(t, tt.code, w.Code)
			var resp api.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, api.CodeValidation, resp.Error.Code)
			repo.AssertNotCalled(t, "ListByEntity", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_History_StoreError(t *testing.T) {
	repo := new(MockRepository)
	repo.On("ListByEntity", mock.Anything, "session", 3).Return(nil, errors.New("connection reset"))

	w := httptest.NewRecorder()
	setupRouter(repo).ServeHTTP(w, httptest.NewRequest("GET", "/audit/session/3", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection reset")
}
