package audit

import (
	"github.com/gin-gonic/gin"

	"github.com/AleksandrSotnikov/WaveWebSite/internal/api"
	"github.com/AleksandrSotnikov/WaveWebSite/internal/logger"
)

var entityTypes = map[string]bool{
	"trainer":      true,
	"client":       true,
	"subscription": true,
	"session":      true,
}

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// History godoc
// @Summary      Audit history of an entity
// @Description  Newest first. Events are written asynchronously and may lag the change by a moment.
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        entity path string true "trainer, client, subscription or session"
// @Param        id     path int    true "Entity ID"
// @Success      200 {object} api.DataResponse{data=[]audit.Entry}
// @Failure      400 {object} api.ErrorResponse
// @Router       /audit/{entity}/{id} [get]
func (h *Handler) History(c *gin.Context) {
	entity := c.Param("entity")
	if !entityTypes[entity] {
		api.Fail(c, api.NewError(api.CodeValidation, "Unknown entity type"))
		return
	}
	id, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	entries, err := h.repo.ListByEntity(c.Request.Context(), entity, id)
	if err != nil {
		logger.Error("failed to load audit history", "entity_type", entity, "entity_id", id, "error", err)
		api.Fail(c, err)
		return
	}

	api.List(c, entries, len(entries))
}
