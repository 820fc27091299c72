package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tillworks/pos_ledger_app/internal/core/domain"
	portssvc "github.com/tillworks/pos_ledger_app/internal/core/ports/services"
	"github.com/tillworks/pos_ledger_app/internal/dto"
)

// ledgerHandler handles HTTP requests against the transaction ledger.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(ledgerService portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ledgerService}
}

// registerLedgerRoutes registers routes related to the ledger.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("", h.apply)
		transactions.GET("/:id", h.get)
	}

	accounts := rg.Group("/accounts")
	{
		accounts.GET("/:id/balance", h.balance)
		accounts.GET("/:id/transactions", h.list)
		accounts.GET("/:id/reconciliation", h.reconcile)
	}
}

// apply posts one balance-affecting event to an account. This is the single
// entry point sibling modules use to record sales, expenses, deposits and the
// rest of the transaction catalog.
func (h *ledgerHandler) apply(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.ApplyTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	spec := domain.TransactionSpec{
		AccountID:           req.AccountID,
		TransactionType:     req.TransactionType,
		Amount:              req.Amount,
		AdjustmentDirection: req.Direction,
		ReferenceType:       req.ReferenceType,
		ReferenceID:         req.ReferenceID,
		Description:         req.Description,
		Notes:               req.Notes,
	}

	txn, err := h.ledgerService.ApplyTransaction(c.Request.Context(), spec, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, dto.ToTransactionResponse(txn))
}

// get retrieves a single ledger row.
func (h *ledgerHandler) get(c *gin.Context) {
	txn, err := h.ledgerService.GetTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToTransactionResponse(txn))
}

// balance returns the stored balance of an account.
func (h *ledgerHandler) balance(c *gin.Context) {
	accountID := c.Param("id")

	balance, err := h.ledgerService.GetBalance(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.BalanceResponse{AccountID: accountID, Balance: balance})
}

// list returns a page of ledger rows for an account, newest first.
func (h *ledgerHandler) list(c *gin.Context) {
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.ledgerService.ListTransactions(c.Request.Context(), c.Param("id"), params)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, resp)
}

// reconcile recomputes an account balance from the ledger and reports drift.
func (h *ledgerHandler) reconcile(c *gin.Context) {
	rec, err := h.ledgerService.Reconcile(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToReconciliationResponse(rec))
}
