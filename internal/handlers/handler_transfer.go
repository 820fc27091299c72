package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/tillworks/pos_ledger_app/internal/core/ports/services"
	"github.com/tillworks/pos_ledger_app/internal/dto"
)

// transferHandler handles HTTP requests for atomic two-leg transfers.
type transferHandler struct {
	transferService portssvc.TransferSvcFacade
	ledgerService   portssvc.LedgerSvcFacade
}

func newTransferHandler(transferService portssvc.TransferSvcFacade, ledgerService portssvc.LedgerSvcFacade) *transferHandler {
	return &transferHandler{transferService: transferService, ledgerService: ledgerService}
}

// registerTransferRoutes registers routes related to transfers.
func registerTransferRoutes(rg *gin.RouterGroup, transferService portssvc.TransferSvcFacade, ledgerService portssvc.LedgerSvcFacade) {
	h := newTransferHandler(transferService, ledgerService)

	transfers := rg.Group("/transfers")
	{
		transfers.POST("", h.transfer)
		transfers.POST("/to-daily", h.toDaily)
		transfers.POST("/from-daily", h.fromDaily)
		transfers.POST("/to-moneybox", h.toMoneyBox)
		transfers.GET("/:id", h.get)
	}
}

// transfer moves funds between two arbitrary accounts.
func (h *transferHandler) transfer(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	pair, err := h.transferService.Transfer(c.Request.Context(), req.SourceAccountID, req.DestinationAccountID, req.Amount, req.Notes, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, dto.ToTransferResponse(pair))
}

// toDaily moves funds from an account into the daily register.
func (h *transferHandler) toDaily(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.PoolTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	pair, err := h.transferService.TransferToDailyPool(c.Request.Context(), req.AccountID, req.Amount, req.Notes, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, dto.ToTransferResponse(pair))
}

// fromDaily moves funds from the daily register into an account.
func (h *transferHandler) fromDaily(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.PoolTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	pair, err := h.transferService.TransferFromDailyPool(c.Request.Context(), req.AccountID, req.Amount, req.Notes, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, dto.ToTransferResponse(pair))
}

// toMoneyBox resolves the destination money box by code before transferring.
func (h *transferHandler) toMoneyBox(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.NamedPoolTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	pair, err := h.transferService.TransferToMoneyBox(c.Request.Context(), req.SourceAccountID, req.MoneyBoxCode, req.Amount, req.Notes, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, dto.ToTransferResponse(pair))
}

// get reassembles the two legs of a transfer by correlation id.
func (h *transferHandler) get(c *gin.Context) {
	pair, err := h.ledgerService.GetTransferPair(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToTransferResponse(pair))
}
