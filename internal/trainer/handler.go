package trainer

import (
	"net/http"

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
// @Summary      Create trainer
// @Tags         trainers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body trainer.CreateRequest true "Trainer payload"
// @Success      201 {object} api.DataResponse{data=trainer.Trainer}
// @Failure      400 {object} api.ErrorResponse
// @Router       /trainers [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if !api.BindJSON(c, &req) {
		return
	}

	t, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, http.StatusCreated, t)
}

// List godoc
// @Summary      List trainers
// @Description  Active trainers by default; pass all=true to include deactivated ones.
// @Tags         trainers
// @Produce      json
// @Security     BearerAuth
// @Param        all query bool false "Include inactive trainers"
// @Success      200 {object} api.DataResponse{data=[]trainer.Trainer}
// @Router       /trainers [get]
func (h *Handler) List(c *gin.Context) {
	trainers, err := h.service.List(c.Request.Context(), c.Query("all") == "true")
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.List(c, trainers, len(trainers))
}

// Get godoc
// @Summary      Get trainer
// @Tags         trainers
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Trainer ID"
// @Success      200 {object} api.DataResponse{data=trainer.Trainer}
// @Failure      404 {object} api.ErrorResponse
// @Router       /trainers/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	t, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, http.StatusOK, t)
}

// Update godoc
// @Summary      Update trainer
// @Tags         trainers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                   true "Trainer ID"
// @Param        request body trainer.UpdateRequest true "Fields to change"
// @Success      200 {object} api.DataResponse{data=trainer.Trainer}
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /trainers/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	var req UpdateRequest
	if !api.BindJSON(c, &req) {
		return
	}

	t, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, http.StatusOK, t)
}

// Deactivate godoc
// @Summary      Deactivate trainer
// @Tags         trainers
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Trainer ID"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /trainers/{id} [delete]
func (h *Handler) Deactivate(c *gin.Context) {
	id, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), id); err != nil {
		api.Fail(c, err)
		return
	}

	api.Message(c, "Trainer deactivated")
}
