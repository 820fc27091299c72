package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/tillworks/pos_ledger_app/internal/core/ports/services"
	"github.com/tillworks/pos_ledger_app/internal/dto"
)

// reportingHandler handles HTTP requests for the read-only aggregate views.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
	userService      portssvc.UserSvcFacade
}

func newReportingHandler(reportingService portssvc.ReportingSvcFacade, userService portssvc.UserSvcFacade) *reportingHandler {
	return &reportingHandler{reportingService: reportingService, userService: userService}
}

// registerReportingRoutes registers routes related to reporting.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade, userService portssvc.UserSvcFacade) {
	h := newReportingHandler(reportingService, userService)

	reports := rg.Group("/reports")
	{
		reports.GET("/summary", h.summary)
		reports.GET("/overview", h.overview)
	}
}

// summary aggregates one account's activity over an optional period.
func (h *reportingHandler) summary(c *gin.Context) {
	var params dto.SummaryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.reportingService.Summary(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, resp)
}

// overview aggregates every account in one snapshot (admin surface).
func (h *reportingHandler) overview(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	if err := h.userService.RequireAdmin(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.reportingService.Overview(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, resp)
}
