package subscription

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
// @Summary      Create subscription
// @Description  Sells a limited or unlimited plan to a client. Expiration is one month after start_date.
// @Tags         subscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body subscription.CreateRequest true "Subscription payload"
// @Success      201 {object} api.DataResponse{data=subscription.Subscription}
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /subscriptions [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if !api.BindJSON(c, &req) {
		return
	}

	sub, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, http.StatusCreated, sub)
}

// Get godoc
// @Summary      Get subscription
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Subscription ID"
// @Success      200 {object} api.DataResponse{data=subscription.Subscription}
// @Failure      404 {object} api.ErrorResponse
// @Router       /subscriptions/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	sub, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, http.StatusOK, sub)
}

// List godoc
// @Summary      List subscriptions
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        client_id query int    false "Owner client"
// @Param        type      query string false "limited or unlimited"
// @Param        status    query string false "active or expired"
// @Success      200 {object} api.DataResponse{data=[]subscription.WithClient}
// @Failure      400 {object} api.ErrorResponse
// @Router       /subscriptions [get]
func (h *Handler) List(c *gin.Context) {
	filter := Filter{
		Type:   Type(c.Query("type")),
		Status: Status(c.Query("status")),
	}
	if raw := c.Query("client_id"); raw != "" {
		clientID, err := strconv.Atoi(raw)
		if err != nil {
			api.Fail(c, api.NewError(api.CodeValidation, "Invalid client_id"))
			return
		}
		filter.ClientID = &clientID
	}

	subs, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.List(c, subs, len(subs))
}

// ListByClient godoc
// @Summary      List subscriptions of a client
// @Tags         clients,subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Client ID"
// @Success      200 {object} api.DataResponse{data=[]subscription.WithClient}
// @Failure      404 {object} api.ErrorResponse
// @Router       /clients/{id}/subscriptions [get]
func (h *Handler) ListByClient(c *gin.Context) {
	clientID, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	subs, err := h.service.ListByClient(c.Request.Context(), clientID)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.List(c, subs, len(subs))
}

// Update godoc
// @Summary      Update subscription
// @Description  Adjusts price, session totals, usage or expiration. Usage must stay within the plan.
// @Tags         subscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                        true "Subscription ID"
// @Param        request body subscription.UpdateRequest true "Fields to change"
// @Success      200 {object} api.DataResponse{data=subscription.Subscription}
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /subscriptions/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	var req UpdateRequest
	if !api.BindJSON(c, &req) {
		return
	}

	sub, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, http.StatusOK, sub)
}

// Delete godoc
// @Summary      Delete subscription
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Subscription ID"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /subscriptions/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		api.Fail(c, err)
		return
	}

	api.Message(c, "Subscription deleted")
}
