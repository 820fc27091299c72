package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/tillworks/pos_ledger_app/internal/core/ports/services"
	"github.com/tillworks/pos_ledger_app/internal/dto"
)

// moneyBoxHandler handles HTTP requests for the shared treasury pools.
type moneyBoxHandler struct {
	moneyBoxService portssvc.MoneyBoxSvcFacade
}

func newMoneyBoxHandler(moneyBoxService portssvc.MoneyBoxSvcFacade) *moneyBoxHandler {
	return &moneyBoxHandler{moneyBoxService: moneyBoxService}
}

// registerMoneyBoxRoutes registers routes related to money boxes.
func registerMoneyBoxRoutes(rg *gin.RouterGroup, moneyBoxService portssvc.MoneyBoxSvcFacade) {
	h := newMoneyBoxHandler(moneyBoxService)

	boxes := rg.Group("/moneyboxes")
	{
		boxes.POST("", h.create)
		boxes.GET("", h.list)
		boxes.GET("/:id", h.get)
		boxes.GET("/:id/summary", h.summary)
	}
}

// create adds a new named pool (admin surface).
func (h *moneyBoxHandler) create(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.CreateMoneyBoxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	box, err := h.moneyBoxService.CreateMoneyBox(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, dto.ToAccountResponse(box))
}

// get retrieves one money box by id.
func (h *moneyBoxHandler) get(c *gin.Context) {
	box, err := h.moneyBoxService.GetMoneyBox(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToAccountResponse(box))
}

// list retrieves all money boxes.
func (h *moneyBoxHandler) list(c *gin.Context) {
	boxes, err := h.moneyBoxService.ListMoneyBoxes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToListAccountResponse(boxes))
}

// summary aggregates a money box's ledger activity.
func (h *moneyBoxHandler) summary(c *gin.Context) {
	summary, err := h.moneyBoxService.SummarizeMoneyBox(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToAccountSummaryResponse(summary))
}
