package report

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AleksandrSotnikov/WaveWebSite/internal/api"
	"github.com/AleksandrSotnikov/WaveWebSite/internal/logger"
)

type Handler struct {
	service Service
	loc     *time.Location
}

func NewHandler(service Service, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{service: service, loc: loc}
}

func parseFormat(c *gin.Context) (Format, bool) {
	switch f := Format(c.DefaultQuery("format", string(FormatJSON))); f {
	case FormatJSON, FormatCSV, FormatHTML:
		return f, true
	default:
		api.Fail(c, api.NewError(api.CodeValidation, "format must be json, csv or html"))
		return "", false
	}
}

func (h *Handler) render(c *gin.Context, format Format, data interface{}, table Table, filename string) {
	var err error
	switch format {
	case FormatCSV:
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition", "attachment; filename="+filename+".csv")
		c.Status(http.StatusOK)
		err = WriteCSV(c.Writer, table)
	case FormatHTML:
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.Status(http.StatusOK)
		err = WriteHTML(c.Writer, table)
	default:
		api.OK(c, http.StatusOK, data)
	}
	if err != nil {
		logger.Error("failed to write report", "report", filename, "format", format, "error", err)
	}
}

// Trainer godoc
// @Summary      Trainer report
// @Description  Income recorded for the trainer's sessions. The period applies only when both dates are set.
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        id        path  int    true  "Trainer ID"
// @Param        date_from query string false "YYYY-MM-DD"
// @Param        date_to   query string false "YYYY-MM-DD, inclusive"
// @Param        format    query string false "json (default), csv or html"
// @Success      200 {object} api.DataResponse{data=income.Report}
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /reports/trainer/{id} [get]
func (h *Handler) Trainer(c *gin.Context) {
	id, ok := api.ParamID(c, "id")
	if !ok {
		return
	}
	format, ok := parseFormat(c)
	if !ok {
		return
	}

	report, err := h.service.Trainer(c.Request.Context(), id, c.Query("date_from"), c.Query("date_to"))
	if err != nil {
		api.Fail(c, err)
		return
	}

	h.render(c, format, report, TrainerTable(report, h.loc), fmt.Sprintf("trainer_%d_report", id))
}

// Client godoc
// @Summary      Client report
// @Description  Sessions the client attended, with the subscription used for each.
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        id        path  int    true  "Client ID"
// @Param        date_from query string false "YYYY-MM-DD"
// @Param        date_to   query string false "YYYY-MM-DD, inclusive"
// @Param        format    query string false "json (default), csv or html"
// @Success      200 {object} api.DataResponse{data=report.ClientReport}
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /reports/client/{id} [get]
func (h *Handler) Client(c *gin.Context) {
	id, ok := api.ParamID(c, "id")
	if !ok {
		return
	}
	format, ok := parseFormat(c)
	if !ok {
		return
	}

	report, err := h.service.Client(c.Request.Context(), id, c.Query("date_from"), c.Query("date_to"))
	if err != nil {
		api.Fail(c, err)
		return
	}

	h.render(c, format, report, ClientTable(report, h.loc), fmt.Sprintf("client_%d_report", id))
}

// Dates godoc
// @Summary      Sessions by date
// @Description  Every session in the range with attendee counts split by subscription status.
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        date_from query string true  "YYYY-MM-DD"
// @Param        date_to   query string true  "YYYY-MM-DD, inclusive"
// @Param        format    query string false "json (default), csv or html"
// @Success      200 {object} api.DataResponse{data=report.DateReport}
// @Failure      400 {object} api.ErrorResponse
// @Router       /reports/date [get]
func (h *Handler) Dates(c *gin.Context) {
	format, ok := parseFormat(c)
	if !ok {
		return
	}
	dateFrom, dateTo := c.Query("date_from"), c.Query("date_to")

	report, err := h.service.Dates(c.Request.Context(), dateFrom, dateTo)
	if err != nil {
		api.Fail(c, err)
		return
	}

	h.render(c, format, report, DateTable(report, h.loc), fmt.Sprintf("date_report_%s_%s", dateFrom, dateTo))
}
