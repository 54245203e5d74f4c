package handlers

import (
	"net/http"

	"erp-service/internal/models"
	"erp-service/internal/services"
	"github.com/gin-gonic/gin"
)

type FinanceHandler struct {
	finance   *services.FinanceService
	documents *services.DocumentService
}

func NewFinanceHandler(finance *services.FinanceService, documents *services.DocumentService) *FinanceHandler {
	return &FinanceHandler{finance: finance, documents: documents}
}

// ========== Credit Handlers ==========

func (h *FinanceHandler) ListCredits(c *gin.Context) {
	params := listParams(c)
	credits, total, err := h.finance.ListCredits(c.Request.Context(), tenantID(c), params)
	if err != nil {
		respondError(c, err, "FETCH_FAILED", "Failed to retrieve credits")
		return
	}
	respondList(c, credits, total, params)
}

// GetCredit returns a customer's credit line, creating the default one on first access
// GET /api/v1/finance/credits/:customerId
func (h *FinanceHandler) GetCredit(c *gin.Context) {
	customerID, ok := pathID(c, "customerId")
	if !ok {
		return
	}
	credit, err := h.finance.GetOrCreateCredit(c.Request.Context(), tenantID(c), customerID)
	if err != nil {
		respondError(c, err, "FETCH_FAILED", "Failed to retrieve credit")
		return
	}
	respondOK(c, http.StatusOK, credit, "")
}

func (h *FinanceHandler) SetCreditLimit(c *gin.Context) {
	customerID, ok := pathID(c, "customerId")
	if !ok {
		return
	}
	var req models.SetCreditLimitRequest
	if !bindJSON(c, &req) {
		return
	}
	credit, err := h.finance.SetCreditLimit(c.Request.Context(), tenantID(c), customerID, req.CreditLimit)
	if err != nil {
		respondError(c, err, "UPDATE_FAILED", "Failed to set credit limit")
		return
	}
	respondOK(c, http.StatusOK, credit, "Credit limit updated")
}

func (h *FinanceHandler) FreezeCredit(c *gin.Context) {
	customerID, ok := pathID(c, "customerId")
	if !ok {
		return
	}
	var req models.FreezeCreditRequest
	if !bindJSON(c, &req) {
		return
	}
	credit, err := h.finance.Freeze(c.Request.Context(), tenantID(c), userID(c), customerID, req.Reason)
	if err != nil {
		respondError(c, err, "UPDATE_FAILED", "Failed to freeze credit")
		return
	}
	respondOK(c, http.StatusOK, credit, "Credit frozen")
}

func (h *FinanceHandler) UnfreezeCredit(c *gin.Context) {
	customerID, ok := pathID(c, "customerId")
	if !ok {
		return
	}
	credit, err := h.finance.Unfreeze(c.Request.Context(), tenantID(c), customerID)
	if err != nil {
		respondError(c, err, "UPDATE_FAILED", "Failed to unfreeze credit")
		return
	}
	respondOK(c, http.StatusOK, credit, "Credit unfrozen")
}

// ========== Receivable Handlers ==========

// CreateReceivable raises the receivable of a paid or shipped order
// POST /api/v1/finance/receivables
func (h *FinanceHandler) CreateReceivable(c *gin.Context) {
	var req models.CreateReceivableRequest
	if !bindJSON(c, &req) {
		return
	}
	receivable, err := h.finance.CreateReceivable(c.Request.Context(), tenantID(c), req)
	if err != nil {
		respondError(c, err, "CREATION_FAILED", "Failed to create receivable")
		return
	}
	respondOK(c, http.StatusCreated, receivable, "Receivable created successfully")
}

func (h *FinanceHandler) GetReceivable(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	receivable, err := h.finance.GetReceivable(c.Request.Context(), tenantID(c), id)
	if err != nil {
		respondError(c, err, "FETCH_FAILED", "Failed to retrieve receivable")
		return
	}
	respondOK(c, http.StatusOK, receivable, "")
}

func (h *FinanceHandler) ListReceivables(c *gin.Context) {
	customerID, ok := queryUUID(c, "customerId")
	if !ok {
		return
	}
	filter := models.ReceivableFilter{
		ListParams: listParams(c),
		Status:     models.ReceivableStatus(c.Query("status")),
		CustomerID: customerID,
	}
	receivables, total, err := h.finance.ListReceivables(c.Request.Context(), tenantID(c), filter)
	if err != nil {
		respondError(c, err, "FETCH_FAILED", "Failed to retrieve receivables")
		return
	}
	respondList(c, receivables, total, filter.ListParams)
}

// UpdateOverdue marks past-due receivables now instead of waiting for the nightly job
func (h *FinanceHandler) UpdateOverdue(c *gin.Context) {
	updated, err := h.finance.UpdateOverdue(c.Request.Context(), tenantID(c))
	if err != nil {
		respondError(c, err, "UPDATE_FAILED", "Failed to update overdue receivables")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"updated": updated}, "")
}

// AgingAnalysis buckets unpaid receivables by days past due
// GET /api/v1/finance/aging
func (h *FinanceHandler) AgingAnalysis(c *gin.Context) {
	customerID, ok := queryUUID(c, "customerId")
	if !ok {
		return
	}
	report, err := h.finance.AgingAnalysis(c.Request.Context(), tenantID(c), customerID)
	if err != nil {
		respondError(c, err, "FETCH_FAILED", "Failed to compute aging")
		return
	}
	respondOK(c, http.StatusOK, report, "")
}

// ========== Payment Handlers ==========

// RecordPayment applies money received to a receivable and releases credit
// POST /api/v1/finance/payments
func (h *FinanceHandler) RecordPayment(c *gin.Context) {
	var req models.RecordPaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	payment, err := h.finance.RecordPayment(c.Request.Context(), tenantID(c), userID(c), req)
	if err != nil {
		respondError(c, err, "CREATION_FAILED", "Failed to record payment")
		return
	}
	respondOK(c, http.StatusCreated, payment, "Payment recorded")
}

func (h *FinanceHandler) ListPayments(c *gin.Context) {
	receivableID, ok := queryUUID(c, "receivableId")
	if !ok {
		return
	}
	params := listParams(c)
	payments, total, err := h.finance.ListPayments(c.Request.Context(), tenantID(c), receivableID, params)
	if err != nil {
		respondError(c, err, "FETCH_FAILED", "Failed to retrieve payments")
		return
	}
	respondList(c, payments, total, params)
}

// ========== Statement Handlers ==========

func (h *FinanceHandler) GenerateStatement(c *gin.Context) {
	var req models.GenerateStatementRequest
	if !bindJSON(c, &req) {
		return
	}
	statement, err := h.finance.GenerateStatement(c.Request.Context(), tenantID(c), userID(c), req)
	if err != nil {
		respondError(c, err, "CREATION_FAILED", "Failed to generate statement")
		return
	}
	respondOK(c, http.StatusCreated, statement, "Statement generated")
}

func (h *FinanceHandler) GetStatement(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	statement, err := h.finance.GetStatement(c.Request.Context(), tenantID(c), id)
	if err != nil {
		respondError(c, err, "FETCH_FAILED", "Failed to retrieve statement")
		return
	}
	respondOK(c, http.StatusOK, statement, "")
}

func (h *FinanceHandler) ListStatements(c *gin.Context) {
	customerID, ok := queryUUID(c, "customerId")
	if !ok {
		return
	}
	params := listParams(c)
	statements, total, err := h.finance.ListStatements(c.Request.Context(), tenantID(c), customerID, params)
	if err != nil {
		respondError(c, err, "FETCH_FAILED", "Failed to retrieve statements")
		return
	}
	respondList(c, statements, total, params)
}

func (h *FinanceHandler) ConfirmStatement(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	statement, err := h.finance.ConfirmStatement(c.Request.Context(), tenantID(c), id)
	if err != nil {
		respondError(c, err, "UPDATE_FAILED", "Failed to confirm statement")
		return
	}
	respondOK(c, http.StatusOK, statement, "Statement confirmed")
}

func (h *FinanceHandler) StatementPDF(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	data, filename, err := h.documents.StatementPDF(c.Request.Context(), tenantID(c), id)
	if err != nil {
		respondError(c, err, "FETCH_FAILED", "Failed to render statement")
		return
	}
	sendPDF(c, data, filename)
}
