package client

import (
	"net/http"
	"strings"

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
// @Summary      Register client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body client.CreateRequest true "Client payload"
// @Success      201 {object} api.DataResponse{data=client.Client}
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /clients [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if !api.BindJSON(c, &req) {
		return
	}

	cl, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, http.StatusCreated, cl)
}

// List godoc
// @Summary      List clients
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        search query string false "Name or phone fragment"
// @Success      200 {object} api.DataResponse{data=[]client.Client}
// @Router       /clients [get]
func (h *Handler) List(c *gin.Context) {
	clients, err := h.service.List(c.Request.Context(), strings.TrimSpace(c.Query("search")))
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.List(c, clients, len(clients))
}

// Get godoc
// @Summary      Get client
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Client ID"
// @Success      200 {object} api.DataResponse{data=client.Client}
// @Failure      404 {object} api.ErrorResponse
// @Router       /clients/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	cl, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, http.StatusOK, cl)
}

// Update godoc
// @Summary      Update client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                  true "Client ID"
// @Param        request body client.UpdateRequest true "Fields to change"
// @Success      200 {object} api.DataResponse{data=client.Client}
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /clients/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	var req UpdateRequest
	if !api.BindJSON(c, &req) {
		return
	}

	cl, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, http.StatusOK, cl)
}

// Delete godoc
// @Summary      Delete client
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Client ID"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /clients/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		api.Fail(c, err)
		return
	}

	api.Message(c, "Client deleted")
}
