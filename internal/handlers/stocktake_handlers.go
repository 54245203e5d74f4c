package handlers

import (
	"net/http"

	"erp-service/internal/models"
	"erp-service/internal/services"
	"github.com/gin-gonic/gin"
)

type StocktakeHandler struct {
	stocktakes *services.StocktakeService
}

func NewStocktakeHandler(stocktakes *services.StocktakeService) *StocktakeHandler {
	return &StocktakeHandler{stocktakes: stocktakes}
}

// CreateStocktake snapshots the book quantities of a warehouse
// POST /api/v1/stocktakes
func (h *StocktakeHandler) CreateStocktake(c *gin.Context) {
	var req models.CreateStocktakeRequest
	if !bindJSON(c, &req) {
		return
	}
	take, err := h.stocktakes.Create(c.Request.Context(), tenantID(c), userID(c), req)
	if err != nil {
		respondError(c, err, "CREATION_FAILED", "Failed to create stocktake")
		return
	}
	respondOK(c, http.StatusCreated, take, "Stocktake created successfully")
}

func (h *StocktakeHandler) GetStocktake(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	take, err := h.stocktakes.Get(c.Request.Context(), tenantID(c), id)
	if err != nil {
		respondError(c, err, "FETCH_FAILED", "Failed to retrieve stocktake")
		return
	}
	respondOK(c, http.StatusOK, take, "")
}

func (h *StocktakeHandler) ListStocktakes(c *gin.Context) {
	warehouseID, ok := queryUUID(c, "warehouseId")
	if !ok {
		return
	}
	filter := models.StocktakeFilter{
		ListParams:  listParams(c),
		Status:      models.StocktakeStatus(c.Query("status")),
		WarehouseID: warehouseID,
	}
	takes, total, err := h.stocktakes.List(c.Request.Context(), tenantID(c), filter)
	if err != nil {
		respondError(c, err, "FETCH_FAILED", "Failed to retrieve stocktakes")
		return
	}
	respondList(c, takes, total, filter.ListParams)
}

func (h *StocktakeHandler) StartStocktake(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	take, err := h.stocktakes.Start(c.Request.Context(), tenantID(c), userID(c), id)
	if err != nil {
		respondError(c, err, "UPDATE_FAILED", "Failed to start stocktake")
		return
	}
	respondOK(c, http.StatusOK, take, "Stocktake started")
}

// InputCount records the counted quantity of one item
// POST /api/v1/stocktakes/:id/count
func (h *StocktakeHandler) InputCount(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.InputCountRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.stocktakes.InputCount(c.Request.Context(), tenantID(c), userID(c), id, req)
	if err != nil {
		respondError(c, err, "UPDATE_FAILED", "Failed to record count")
		return
	}
	respondOK(c, http.StatusOK, item, "")
}

func (h *StocktakeHandler) BatchInputCount(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.BatchInputCountRequest
	if !bindJSON(c, &req) {
		return
	}
	counted, err := h.stocktakes.BatchInputCount(c.Request.Context(), tenantID(c), userID(c), id, req)
	if err != nil {
		respondError(c, err, "UPDATE_FAILED", "Failed to record counts")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"counted": counted}, "")
}

// ConfirmItem confirms a counted item. Variances need a reason.
func (h *StocktakeHandler) ConfirmItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}
	var req models.ConfirmItemRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	item, err := h.stocktakes.ConfirmItem(c.Request.Context(), tenantID(c), userID(c), id, itemID, req.Reason)
	if err != nil {
		respondError(c, err, "UPDATE_FAILED", "Failed to confirm item")
		return
	}
	respondOK(c, http.StatusOK, item, "")
}

// CompleteStocktake closes counting, optionally posting variances to stock
func (h *StocktakeHandler) CompleteStocktake(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.CompleteStocktakeRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	take, err := h.stocktakes.Complete(c.Request.Context(), tenantID(c), userID(c), id, req.AutoAdjust)
	if err != nil {
		respondError(c, err, "UPDATE_FAILED", "Failed to complete stocktake")
		return
	}
	respondOK(c, http.StatusOK, take, "Stocktake completed")
}

func (h *StocktakeHandler) ApproveStocktake(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	take, err := h.stocktakes.Approve(c.Request.Context(), tenantID(c), userID(c), id)
	if err != nil {
		respondError(c, err, "UPDATE_FAILED", "Failed to approve stocktake")
		return
	}
	respondOK(c, http.StatusOK, take, "Stocktake approved")
}

func (h *StocktakeHandler) CancelStocktake(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.CancelRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	take, err := h.stocktakes.Cancel(c.Request.Context(), tenantID(c), userID(c), id, req.Reason)
	if err != nil {
		respondError(c, err, "UPDATE_FAILED", "Failed to cancel stocktake")
		return
	}
	respondOK(c, http.StatusOK, take, "Stocktake cancelled")
}

func (h *StocktakeHandler) VarianceSummary(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	summary, err := h.stocktakes.VarianceSummary(c.Request.Context(), tenantID(c), id)
	if err != nil {
		respondError(c, err, "FETCH_FAILED", "Failed to compute variance")
		return
	}
	respondOK(c, http.StatusOK, summary, "")
}

func (h *StocktakeHandler) History(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	history, err := h.stocktakes.History(c.Request.Context(), tenantID(c), id)
	if err != nil {
		respondError(c, err, "FETCH_FAILED", "Failed to retrieve history")
		return
	}
	respondOK(c, http.StatusOK, history, "")
}
