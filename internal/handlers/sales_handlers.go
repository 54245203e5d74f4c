package handlers

import (
	"net/http"

	"erp-service/internal/models"
	"erp-service/internal/services"
	"github.com/gin-gonic/gin"
)

type SalesHandler struct {
	sales     *services.SalesService
	documents *services.DocumentService
}

func NewSalesHandler(sales *services.SalesService, documents *services.DocumentService) *SalesHandler {
	return &SalesHandler{sales: sales, documents: documents}
}

// CreateOrder creates a sales order after the credit check
// POST /api/v1/orders
func (h *SalesHandler) CreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.sales.CreateOrder(c.Request.Context(), tenantID(c), userID(c), req)
	if err != nil {
		respondError(c, err, "CREATION_FAILED", "Failed to create order")
		return
	}
	respondOK(c, http.StatusCreated, order, "Order created successfully")
}

func (h *SalesHandler) GetOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	order, err := h.sales.Get(c.Request.Context(), tenantID(c), id)
	if err != nil {
		respondError(c, err, "FETCH_FAILED", "Failed to retrieve order")
		return
	}
	respondOK(c, http.StatusOK, order, "")
}

func (h *SalesHandler) ListOrders(c *gin.Context) {
	customerID, ok := queryUUID(c, "customerId")
	if !ok {
		return
	}
	from, ok := queryDate(c, "from")
	if !ok {
		return
	}
	to, ok := queryDate(c, "to")
	if !ok {
		return
	}
	filter := models.OrderFilter{
		ListParams: listParams(c),
		Status:     models.OrderStatus(c.Query("status")),
		CustomerID: customerID,
		From:       from,
		To:         to,
	}
	orders, total, err := h.sales.List(c.Request.Context(), tenantID(c), filter)
	if err != nil {
		respondError(c, err, "FETCH_FAILED", "Failed to retrieve orders")
		return
	}
	respondList(c, orders, total, filter.ListParams)
}

// UpdateOrderStatus moves an order between pending, paid and done
// PUT /api/v1/orders/:id/status
func (h *SalesHandler) UpdateOrderStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.UpdateOrderStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.sales.UpdateStatus(c.Request.Context(), tenantID(c), id, req.Status)
	if err != nil {
		respondError(c, err, "UPDATE_FAILED", "Failed to update order status")
		return
	}
	respondOK(c, http.StatusOK, order, "")
}

// ShipOrder deducts stock from one warehouse and marks the order shipped
func (h *SalesHandler) ShipOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.ShipOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.sales.Ship(c.Request.Context(), tenantID(c), userID(c), id, req.WarehouseID)
	if err != nil {
		respondError(c, err, "UPDATE_FAILED", "Failed to ship order")
		return
	}
	respondOK(c, http.StatusOK, order, "Order shipped")
}

func (h *SalesHandler) CancelOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.CancelRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	order, err := h.sales.Cancel(c.Request.Context(), tenantID(c), userID(c), id, req.Reason)
	if err != nil {
		respondError(c, err, "UPDATE_FAILED", "Failed to cancel order")
		return
	}
	respondOK(c, http.StatusOK, order, "Order cancelled")
}

// DeliveryNotePDF downloads the delivery note of an order
func (h *SalesHandler) DeliveryNotePDF(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	data, filename, err := h.documents.DeliveryNotePDF(c.Request.Context(), tenantID(c), id)
	if err != nil {
		respondError(c, err, "FETCH_FAILED", "Failed to render delivery note")
		return
	}
	sendPDF(c, data, filename)
}
