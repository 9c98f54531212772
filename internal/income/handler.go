package income

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

// TrainerIncome godoc
// @Summary      Trainer income report
// @Description  Sums commission recorded for the trainer's sessions. The period applies only when both dates are set.
// @Tags         trainers,income
// @Produce      json
// @Security     BearerAuth
// @Param        id        path  int    true  "Trainer ID"
// @Param        date_from query string false "YYYY-MM-DD"
// @Param        date_to   query string false "YYYY-MM-DD, inclusive"
// @Success      200 {object} api.DataResponse{data=income.Report}
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /trainers/{id}/income [get]
func (h *Handler) TrainerIncome(c *gin.Context) {
	id, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	report, err := h.service.GetTrainerIncome(c.Request.Context(), id, c.Query("date_from"), c.Query("date_to"))
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, http.StatusOK, report)
}
