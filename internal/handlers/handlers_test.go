package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"erp-service/internal/models"
	"erp-service/internal/repository"
	"erp-service/internal/repository/mocks"
	"erp-service/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func withTenant(c *gin.Context) {
	c.Set("tenant_id", "tenant-1")
	c.Set("user_id", "alice")
	c.Next()
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRespondError(t *testing.T) {
	cases := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{repository.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{fmt.Errorf("product: %w", repository.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{repository.ErrDuplicate, http.StatusConflict, "DUPLICATE"},
		{fmt.Errorf("%w: available 1, requested 3", services.ErrInsufficientStock), http.StatusConflict, "INSUFFICIENT_STOCK"},
		{services.ErrCreditExceeded, http.StatusUnprocessableEntity, "CREDIT_EXCEEDED"},
		{services.ErrOpenStocktakeExists, http.StatusConflict, "INVALID_STATE"},
		{services.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
		{services.ErrAITimeout, http.StatusGatewayTimeout, "AI_TIMEOUT"},
		{services.ErrInvalidQuantity, http.StatusBadRequest, "VALIDATION_ERROR"},
		{errors.New("connection reset"), http.StatusInternalServerError, "UPDATE_FAILED"},
	}

	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			respondError(c, tc.err, "UPDATE_FAILED", "Failed to update")

			assert.Equal(t, tc.wantStatus, w.Code)
			resp := decodeError(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tc.wantCode, resp.Error.Code)
			assert.True(t, c.IsAborted())
		})
	}
}

func TestRespondError_HidesUnknownErrors(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondError(c, errors.New("pq: password authentication failed"), "FETCH_FAILED", "Failed to retrieve orders")

	resp := decodeError(t, w)
	assert.Equal(t, "Failed to retrieve orders", resp.Error.Message)
	assert.Len(t, c.Errors, 1)
}

func TestListParams(t *testing.T) {
	cases := []struct {
		query     string
		wantPage  int
		wantLimit int
	}{
		{"", 1, defaultPageSize},
		{"page=3&limit=5", 3, 5},
		{"page=0&limit=-1", 1, defaultPageSize},
		{"page=abc", 1, defaultPageSize},
		{"limit=5000", 1, maxPageSize},
	}

	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/x?"+tc.query+"&search=bolt", nil)
			params := listParams(c)
			assert.Equal(t, tc.wantPage, params.Page)
			assert.Equal(t, tc.wantLimit, params.Limit)
			assert.Equal(t, "bolt", params.Search)
		})
	}
}

func TestQueryHelpers(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x?from=2024-06-01&low=true&warehouseId=nope", nil)

	from, ok := queryDate(c, "from")
	require.True(t, ok)
	assert.Equal(t, 2024, from.Year())
	assert.True(t, queryBool(c, "low"))

	missing, ok := queryUUID(c, "productId")
	assert.True(t, ok)
	assert.Nil(t, missing)

	_, ok = queryUUID(c, "warehouseId")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ID", decodeError(t, w).Error.Code)
}

func TestBindOptionalJSON(t *testing.T) {
	type body struct {
		Reason string `json:"reason" binding:"max=5"`
	}

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/x", nil)
	var empty body
	assert.True(t, bindOptionalJSON(c, &empty))

	w := httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/x", bytes.NewBufferString(`{"reason":"far too long"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	var invalid body
	assert.False(t, bindOptionalJSON(c, &invalid))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserRoles(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, userRoles(c))

	c.Set("user_role", "admin")
	assert.Equal(t, []string{"admin"}, userRoles(c))

	c.Set("user_roles", []string{"sales", "finance"})
	assert.Equal(t, []string{"sales", "finance"}, userRoles(c))
}

func TestGetImportTemplate(t *testing.T) {
	handler := NewDataIOHandler(nil, 1<<20)
	router := gin.New()
	router.GET("/import/:kind/template", handler.GetImportTemplate)

	t.Run("json", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/import/product/template", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"entity":"product"`)
	})

	t.Run("csv", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/import/stock/template?format=csv", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
		assert.Equal(t, "attachment; filename=stock_import_template.csv", w.Header().Get("Content-Disposition"))
		assert.Equal(t, "sku,warehouse,quantity\nMS-001,Main Warehouse,120\n", w.Body.String())
	})

	t.Run("unknown kind", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/import/invoice/template", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", decodeError(t, w).Error.Code)
	})
}

func newInventoryRouter(stock *mocks.MockStockRepository, catalog *mocks.MockCatalogRepository) *gin.Engine {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	handler := NewInventoryHandler(services.NewInventoryService(stock, catalog, nil, logger))

	router := gin.New()
	api := router.Group("/api/v1", withTenant)
	api.GET("/warehouses", handler.ListWarehouses)
	api.GET("/warehouses/:id", handler.GetWarehouse)
	api.POST("/stock/adjust", handler.AdjustStock)
	return router
}

func TestAdjustStockHandler(t *testing.T) {
	stock := new(mocks.MockStockRepository)
	catalog := new(mocks.MockCatalogRepository)
	router := newInventoryRouter(stock, catalog)

	product := &models.Product{ID: uuid.New(), TenantID: "tenant-1", SKU: "SKU-001", MinStock: 1}
	warehouseID := uuid.New()
	row := &models.Stock{ProductID: product.ID, WarehouseID: warehouseID, Quantity: 2}

	catalog.On("GetProduct", mock.Anything, "tenant-1", product.ID).Return(product, nil)
	stock.On("GetWarehouse", mock.Anything, "tenant-1", warehouseID).Return(&models.Warehouse{ID: warehouseID}, nil)
	stock.On("LockStock", mock.Anything, "tenant-1", product.ID, warehouseID).Return(row, nil)

	t.Run("insufficient stock", func(t *testing.T) {
		body := fmt.Sprintf(`{"productId":%q,"warehouseId":%q,"quantity":5,"moveType":"outbound"}`, product.ID, warehouseID)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/stock/adjust", bytes.NewBufferString(body)))

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "INSUFFICIENT_STOCK", decodeError(t, w).Error.Code)
		assert.Equal(t, 2, row.Quantity)
	})

	t.Run("inbound", func(t *testing.T) {
		stock.On("SaveStock", mock.Anything, row).Return(nil).Once()
		stock.On("CreateLog", mock.Anything, mock.MatchedBy(func(l *models.InventoryLog) bool {
			return l.Operator == "alice" && l.TenantID == "tenant-1" && l.QtyChange == 3
		})).Return(nil).Once()
		stock.On("InvalidateStock", mock.Anything, "tenant-1", product.ID, warehouseID).Return().Once()

		body := fmt.Sprintf(`{"productId":%q,"warehouseId":%q,"quantity":3,"moveType":"inbound"}`, product.ID, warehouseID)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/stock/adjust", bytes.NewBufferString(body)))

		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Success bool                    `json:"success"`
			Data    models.AdjustmentResult `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, 2, resp.Data.BalanceBefore)
		assert.Equal(t, 5, resp.Data.BalanceAfter)
	})

	t.Run("missing fields", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/stock/adjust", bytes.NewBufferString(`{"quantity":1}`)))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestWarehouseHandlers(t *testing.T) {
	stock := new(mocks.MockStockRepository)
	router := newInventoryRouter(stock, new(mocks.MockCatalogRepository))

	stock.On("ListWarehouses", mock.Anything, "tenant-1", models.ListParams{Page: 2, Limit: 10}).
		Return([]models.Warehouse{{Name: "Main"}}, int64(11), nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/warehouses?page=2&limit=10", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Pagination)
	assert.Equal(t, 2, resp.Pagination.TotalPages)
	assert.Equal(t, int64(11), resp.Pagination.TotalItems)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/warehouses/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ID", decodeError(t, w).Error.Code)

	missing := uuid.New()
	stock.On("GetWarehouse", mock.Anything, "tenant-1", missing).Return(nil, repository.ErrNotFound)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/warehouses/"+missing.String(), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

type stubPinger struct{ err error }

func (p stubPinger) PingContext(ctx context.Context) error { return p.err }

type stubEvents bool

func (s stubEvents) IsConnected() bool { return bool(s) }

func TestHealthHandlers(t *testing.T) {
	cases := []struct {
		name       string
		db         Pinger
		events     ConnectionStatus
		wantReady  int
		wantStatus string
	}{
		{"healthy", stubPinger{}, stubEvents(true), http.StatusOK, "healthy"},
		{"database down", stubPinger{err: errors.New("refused")}, nil, http.StatusServiceUnavailable, "degraded"},
		{"events disconnected", stubPinger{}, stubEvents(false), http.StatusOK, "degraded"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewHealthHandler(tc.db, repository.NewCache(nil), tc.events)
			router := gin.New()
			router.GET("/ready", handler.Ready)
			router.GET("/health/extended", handler.ExtendedHealthCheck)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
			assert.Equal(t, tc.wantReady, w.Code)

			w = httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/extended", nil))
			require.Equal(t, http.StatusOK, w.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.wantStatus, body["status"])
			checks := body["checks"].(map[string]interface{})
			assert.Equal(t, "disabled", checks["redis"].(map[string]interface{})["status"])
		})
	}
}
