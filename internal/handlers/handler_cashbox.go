package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	portssvc "github.com/tillworks/pos_ledger_app/internal/core/ports/services"
	"github.com/tillworks/pos_ledger_app/internal/dto"
)

// cashBoxHandler handles HTTP requests for the cash box lifecycle.
type cashBoxHandler struct {
	cashBoxService portssvc.CashBoxSvcFacade
}

func newCashBoxHandler(cashBoxService portssvc.CashBoxSvcFacade) *cashBoxHandler {
	return &cashBoxHandler{cashBoxService: cashBoxService}
}

// registerCashBoxRoutes registers routes related to cash boxes.
func registerCashBoxRoutes(rg *gin.RouterGroup, cashBoxService portssvc.CashBoxSvcFacade) {
	h := newCashBoxHandler(cashBoxService)

	boxes := rg.Group("/cashboxes")
	{
		boxes.POST("", h.open)
		boxes.GET("", h.list)
		boxes.GET("/open", h.listOpen)
		boxes.GET("/me", h.getOwn)
		boxes.POST("/me/close", h.close)
		boxes.GET("/:id", h.get)
		boxes.POST("/:id/force-close", h.forceClose)
	}
}

// open starts a till session for the authenticated operator.
func (h *cashBoxHandler) open(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.OpenCashBoxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	box, err := h.cashBoxService.Open(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, dto.ToAccountResponse(box))
}

// close ends the operator's own session.
func (h *cashBoxHandler) close(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.CloseCashBoxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.cashBoxService.Close(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, toCloseResponse(result))
}

// forceClose administratively closes any cash box.
func (h *cashBoxHandler) forceClose(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	cashBoxID := c.Param("id")

	var req dto.ForceCloseCashBoxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.cashBoxService.ForceClose(c.Request.Context(), userID, cashBoxID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, toCloseResponse(result))
}

func toCloseResponse(result *portssvc.CashBoxCloseResult) dto.CloseCashBoxResponse {
	resp := dto.CloseCashBoxResponse{
		CashBox: dto.ToAccountResponse(result.CashBox),
	}
	if result.Closing != nil {
		closing := dto.ToTransactionResponse(result.Closing)
		resp.Closing = &closing
	}
	if result.Variance != nil {
		resp.Variance = result.Variance.Drift
	} else {
		resp.Variance = decimal.Zero
	}
	return resp
}

// get retrieves one cash box by id.
func (h *cashBoxHandler) get(c *gin.Context) {
	box, err := h.cashBoxService.GetCashBox(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToAccountResponse(box))
}

// getOwn retrieves the operator's open cash box.
func (h *cashBoxHandler) getOwn(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	box, err := h.cashBoxService.GetOwnOpenCashBox(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToAccountResponse(box))
}

// listOpen lists every currently open cash box (admin surface).
func (h *cashBoxHandler) listOpen(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	boxes, err := h.cashBoxService.ListOpenCashBoxes(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToListAccountResponse(boxes))
}

// list lists cash box history across operators (admin surface).
func (h *cashBoxHandler) list(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var params dto.ListCashBoxesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	boxes, err := h.cashBoxService.ListCashBoxes(c.Request.Context(), userID, params)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToListAccountResponse(boxes))
}
