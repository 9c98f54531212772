package session

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AleksandrSotnikov/WaveWebSite/internal/api"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Create godoc
// @Summary      Create session
// @Description  Books clients into a trainer's session. clients[i] attends with subscriptions[i]. Limited subscriptions are charged one session and the trainer's income is recorded. Nothing is stored if any pair is rejected.
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body session.CreateRequest true "Session payload"
// @Success      201 {object} api.DataResponse{data=session.CreateResult}
// @Failure      400 {object} api.ErrorResponse "VALIDATION_ERROR, NO_CLIENTS or ARRAY_LENGTH_MISMATCH"
// @Failure      404 {object} api.ErrorResponse "TRAINER_NOT_FOUND"
// @Failure      409 {object} api.ErrorResponse "Scheduling conflict or subscription rejected"
// @Router       /sessions [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if !api.BindJSON(c, &req) {
		return
	}

	result, err := h.service.CreateSession(c.Request.Context(), req)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, http.StatusCreated, result)
}

// List godoc
// @Summary      List sessions
// @Description  date_from and date_to apply only together. A bare date as date_to includes that whole day.
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        trainer_id query int    false "Trainer"
// @Param        client_id  query int    false "Sessions attended by this client"
// @Param        date_from  query string false "2026-10-01 or RFC 3339"
// @Param        date_to    query string false "2026-10-31 or RFC 3339"
// @Success      200 {object} api.DataResponse{data=[]session.Details}
// @Failure      400 {object} api.ErrorResponse
// @Router       /sessions [get]
func (h *Handler) List(c *gin.Context) {
	q := Query{
		DateFrom: c.Query("date_from"),
		DateTo:   c.Query("date_to"),
	}

	var ok bool
	if q.TrainerID, ok = queryID(c, "trainer_id"); !ok {
		return
	}
	if q.ClientID, ok = queryID(c, "client_id"); !ok {
		return
	}

	sessions, err := h.service.GetSessions(c.Request.Context(), q)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.List(c, sessions, len(sessions))
}

// Get godoc
// @Summary      Get session
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Success      200 {object} api.DataResponse{data=session.Details}
// @Failure      404 {object} api.ErrorResponse
// @Router       /sessions/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	details, err := h.service.GetSession(c.Request.Context(), id)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, http.StatusOK, details)
}

// Delete godoc
// @Summary      Delete session
// @Description  Removes the session, its attendees and its income, and returns consumed sessions to limited subscriptions.
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /sessions/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteSession(c.Request.Context(), id); err != nil {
		api.Fail(c, err)
		return
	}

	api.Message(c, "Session deleted successfully")
}

// queryID reads an optional positive id from the query string.
func queryID(c *gin.Context, name string) (*int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		api.Fail(c, api.NewError(api.CodeValidation, "Invalid "+name))
		return nil, false
	}
	return &id, true
}
