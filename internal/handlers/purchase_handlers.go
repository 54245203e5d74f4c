package handlers

import (
	"net/http"

	"erp-service/internal/models"
	"erp-service/internal/services"
	"github.com/gin-gonic/gin"
)

type PurchaseHandler struct {
	purchases *services.PurchaseService
	documents *services.DocumentService
}

func NewPurchaseHandler(purchases *services.PurchaseService, documents *services.DocumentService) *PurchaseHandler {
	return &PurchaseHandler{purchases: purchases, documents: documents}
}

// CreatePurchaseOrder creates a draft purchase order
// POST /api/v1/purchase-orders
func (h *PurchaseHandler) CreatePurchaseOrder(c *gin.Context) {
	var req models.CreatePurchaseOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	po, err := h.purchases.Create(c.Request.Context(), tenantID(c), userID(c), req)
	if err != nil {
		respondError(c, err, "CREATION_FAILED", "Failed to create purchase order")
		return
	}
	respondOK(c, http.StatusCreated, po, "Purchase order created successfully")
}

func (h *PurchaseHandler) GetPurchaseOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	po, err := h.purchases.Get(c.Request.Context(), tenantID(c), id)
	if err != nil {
		respondError(c, err, "FETCH_FAILED", "Failed to retrieve purchase order")
		return
	}
	respondOK(c, http.StatusOK, po, "")
}

func (h *PurchaseHandler) ListPurchaseOrders(c *gin.Context) {
	supplierID, ok := queryUUID(c, "supplierId")
	if !ok {
		return
	}
	filter := models.PurchaseOrderFilter{
		ListParams: listParams(c),
		Status:     models.PurchaseOrderStatus(c.Query("status")),
		SupplierID: supplierID,
	}
	orders, total, err := h.purchases.List(c.Request.Context(), tenantID(c), filter)
	if err != nil {
		respondError(c, err, "FETCH_FAILED", "Failed to retrieve purchase orders")
		return
	}
	respondList(c, orders, total, filter.ListParams)
}

// SubmitPurchaseOrder sends a draft for approval
func (h *PurchaseHandler) SubmitPurchaseOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	po, err := h.purchases.Submit(c.Request.Context(), tenantID(c), userID(c), id)
	if err != nil {
		respondError(c, err, "UPDATE_FAILED", "Failed to submit purchase order")
		return
	}
	respondOK(c, http.StatusOK, po, "Purchase order submitted")
}

// ApprovePurchaseOrder approves or rejects a submitted order
func (h *PurchaseHandler) ApprovePurchaseOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.ApprovePurchaseOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	po, err := h.purchases.Approve(c.Request.Context(), tenantID(c), userID(c), id, req)
	if err != nil {
		respondError(c, err, "UPDATE_FAILED", "Failed to approve purchase order")
		return
	}
	respondOK(c, http.StatusOK, po, "")
}

func (h *PurchaseHandler) MarkOrdered(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	po, err := h.purchases.MarkOrdered(c.Request.Context(), tenantID(c), id)
	if err != nil {
		respondError(c, err, "UPDATE_FAILED", "Failed to update purchase order")
		return
	}
	respondOK(c, http.StatusOK, po, "")
}

func (h *PurchaseHandler) CancelPurchaseOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.CancelRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	po, err := h.purchases.Cancel(c.Request.Context(), tenantID(c), id, req.Reason)
	if err != nil {
		respondError(c, err, "UPDATE_FAILED", "Failed to cancel purchase order")
		return
	}
	respondOK(c, http.StatusOK, po, "Purchase order cancelled")
}

// ReceivePurchaseOrder books received goods into the order's warehouse
// POST /api/v1/purchase-orders/:id/receive
func (h *PurchaseHandler) ReceivePurchaseOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.ReceivePurchaseOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	po, err := h.purchases.Receive(c.Request.Context(), tenantID(c), userID(c), id, req)
	if err != nil {
		respondError(c, err, "UPDATE_FAILED", "Failed to receive purchase order")
		return
	}
	respondOK(c, http.StatusOK, po, "Goods received")
}

// PurchaseOrderPDF downloads the printable order
func (h *PurchaseHandler) PurchaseOrderPDF(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	data, filename, err := h.documents.PurchaseOrderPDF(c.Request.Context(), tenantID(c), id)
	if err != nil {
		respondError(c, err, "FETCH_FAILED", "Failed to render purchase order")
		return
	}
	sendPDF(c, data, filename)
}

// PriceHistory lists purchase prices recorded for a product
// GET /api/v1/purchase-orders/price-history/:productId
func (h *PurchaseHandler) PriceHistory(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}
	history, err := h.purchases.PriceHistory(c.Request.Context(), tenantID(c), productID)
	if err != nil {
		respondError(c, err, "FETCH_FAILED", "Failed to retrieve price history")
		return
	}
	respondOK(c, http.StatusOK, history, "")
}

func (h *PurchaseHandler) SupplierPerformance(c *gin.Context) {
	performance, err := h.purchases.SupplierPerformance(c.Request.Context(), tenantID(c))
	if err != nil {
		respondError(c, err, "FETCH_FAILED", "Failed to retrieve supplier performance")
		return
	}
	respondOK(c, http.StatusOK, performance, "")
}

func sendPDF(c *gin.Context, data []byte, filename string) {
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/pdf", data)
}
