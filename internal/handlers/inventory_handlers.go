package handlers

import (
	"net/http"

	"erp-service/internal/models"
	"erp-service/internal/services"
	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	inventory *services.InventoryService
}

func NewInventoryHandler(inventory *services.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory}
}

// ========== Warehouse Handlers ==========

// CreateWarehouse creates a new warehouse
func (h *InventoryHandler) CreateWarehouse(c *gin.Context) {
	var req models.CreateWarehouseRequest
	if !bindJSON(c, &req) {
		return
	}
	warehouse, err := h.inventory.CreateWarehouse(c.Request.Context(), tenantID(c), req)
	if err != nil {
		respondError(c, err, "CREATION_FAILED", "Failed to create warehouse")
		return
	}
	respondOK(c, http.StatusCreated, warehouse, "Warehouse created successfully")
}

// GetWarehouse retrieves a warehouse by ID
func (h *InventoryHandler) GetWarehouse(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	warehouse, err := h.inventory.GetWarehouse(c.Request.Context(), tenantID(c), id)
	if err != nil {
		respondError(c, err, "FETCH_FAILED", "Failed to retrieve warehouse")
		return
	}
	respondOK(c, http.StatusOK, warehouse, "")
}

// ListWarehouses retrieves all warehouses with pagination
func (h *InventoryHandler) ListWarehouses(c *gin.Context) {
	params := listParams(c)
	warehouses, total, err := h.inventory.ListWarehouses(c.Request.Context(), tenantID(c), params)
	if err != nil {
		respondError(c, err, "FETCH_FAILED", "Failed to retrieve warehouses")
		return
	}
	respondList(c, warehouses, total, params)
}

// UpdateWarehouse updates a warehouse
func (h *InventoryHandler) UpdateWarehouse(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.UpdateWarehouseRequest
	if !bindJSON(c, &req) {
		return
	}
	warehouse, err := h.inventory.UpdateWarehouse(c.Request.Context(), tenantID(c), id, req)
	if err != nil {
		respondError(c, err, "UPDATE_FAILED", "Failed to update warehouse")
		return
	}
	respondOK(c, http.StatusOK, warehouse, "Warehouse updated successfully")
}

// DeleteWarehouse deletes a warehouse
func (h *InventoryHandler) DeleteWarehouse(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.inventory.DeleteWarehouse(c.Request.Context(), tenantID(c), id); err != nil {
		respondError(c, err, "DELETE_FAILED", "Failed to delete warehouse")
		return
	}
	respondOK(c, http.StatusOK, nil, "Warehouse deleted successfully")
}

// ========== Stock Handlers ==========

// ListStocks lists stock rows, optionally only those below the product minimum
func (h *InventoryHandler) ListStocks(c *gin.Context) {
	warehouseID, ok := queryUUID(c, "warehouseId")
	if !ok {
		return
	}
	productID, ok := queryUUID(c, "productId")
	if !ok {
		return
	}
	filter := models.StockFilter{
		ListParams:  listParams(c),
		WarehouseID: warehouseID,
		ProductID:   productID,
		LowOnly:     queryBool(c, "low"),
	}
	stocks, total, err := h.inventory.ListStocks(c.Request.Context(), tenantID(c), filter)
	if err != nil {
		respondError(c, err, "FETCH_FAILED", "Failed to retrieve stock levels")
		return
	}
	respondList(c, stocks, total, filter.ListParams)
}

// GetStock returns one product's balance in one warehouse
// GET /api/v1/stock/level?productId=...&warehouseId=...
func (h *InventoryHandler) GetStock(c *gin.Context) {
	productID, ok := queryUUID(c, "productId")
	if !ok {
		return
	}
	warehouseID, ok := queryUUID(c, "warehouseId")
	if !ok {
		return
	}
	if productID == nil || warehouseID == nil {
		abortWith(c, http.StatusBadRequest, "VALIDATION_ERROR", "productId and warehouseId are required")
		return
	}
	stock, err := h.inventory.GetStock(c.Request.Context(), tenantID(c), *productID, *warehouseID)
	if err != nil {
		respondError(c, err, "FETCH_FAILED", "Failed to retrieve stock level")
		return
	}
	respondOK(c, http.StatusOK, stock, "")
}

// AdjustStock applies an inbound, outbound, check or return movement
// POST /api/v1/stock/adjust
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	var req models.AdjustStockRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.inventory.AdjustStock(c.Request.Context(), tenantID(c), userID(c), req)
	if err != nil {
		respondError(c, err, "UPDATE_FAILED", "Failed to adjust stock")
		return
	}
	respondOK(c, http.StatusOK, result, "Stock adjusted successfully")
}

// TransferStock moves stock between two warehouses
// POST /api/v1/stock/transfer
func (h *InventoryHandler) TransferStock(c *gin.Context) {
	var req models.TransferStockRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.inventory.TransferStock(c.Request.Context(), tenantID(c), userID(c), req)
	if err != nil {
		respondError(c, err, "UPDATE_FAILED", "Failed to transfer stock")
		return
	}
	respondOK(c, http.StatusOK, result, "Stock transferred successfully")
}

// ListLogs returns the inventory ledger
// GET /api/v1/stock/logs
func (h *InventoryHandler) ListLogs(c *gin.Context) {
	productID, ok := queryUUID(c, "productId")
	if !ok {
		return
	}
	warehouseID, ok := queryUUID(c, "warehouseId")
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
	filter := models.InventoryLogFilter{
		ListParams:  listParams(c),
		ProductID:   productID,
		WarehouseID: warehouseID,
		MoveType:    models.MoveType(c.Query("moveType")),
		From:        from,
		To:          to,
	}
	logs, total, err := h.inventory.ListLogs(c.Request.Context(), tenantID(c), filter)
	if err != nil {
		respondError(c, err, "FETCH_FAILED", "Failed to retrieve inventory logs")
		return
	}
	respondList(c, logs, total, filter.ListParams)
}
