package services

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"erp-service/internal/models"
	"erp-service/internal/repository"
	"erp-service/internal/repository/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newDataIOService(catalog *mocks.MockCatalogRepository, stock *mocks.MockStockRepository) *DataIOService {
	return &DataIOService{
		catalogRepo: catalog,
		stockRepo:   stock,
		inventory:   newInventoryService(stock, catalog),
		logger:      testLogger(),
	}
}

func TestParseFile_CSV(t *testing.T) {
	input := "\ufeffName *,SKU *,Unit,Min Stock\n" +
		"Mouse,MS-001,pcs,10\n" +
		",,,\n" +
		"Cable,CB-010,pcs,\n"

	rows, err := ParseFile(strings.NewReader(input), "products.CSV")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Mouse", rows[0]["name"])
	assert.Equal(t, "10", rows[0]["min_stock"])
	assert.Equal(t, "2", rows[0][rowKey])
	assert.Equal(t, "4", rows[1][rowKey])
}

func TestParseFile_Rejections(t *testing.T) {
	_, err := ParseFile(strings.NewReader("a,b"), "data.json")
	assert.ErrorIs(t, err, ErrUnsupportedFile)

	_, err = ParseFile(strings.NewReader(""), "empty.csv")
	assert.ErrorIs(t, err, ErrMissingHeaderRow)

	_, err = ParseFile(strings.NewReader("name,sku\n , \n"), "blank.csv")
	assert.ErrorIs(t, err, ErrEmptyImportFile)
}

func TestTemplateXLSXRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTemplateXLSX(&buf, ProductImportTemplate()))

	rows, err := ParseFile(&buf, "template.xlsx")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "MS-001", rows[0]["sku"])
	assert.Equal(t, "Peripherals", rows[0]["category"])
	assert.Equal(t, "19.90", rows[1]["price"])
}

func TestWriteTemplateCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTemplateCSV(&buf, StockImportTemplate()))
	assert.Equal(t, "sku,warehouse,quantity\nMS-001,Main Warehouse,120\n", buf.String())
}

func TestTemplate_Unknown(t *testing.T) {
	_, err := Template("invoice")
	assert.ErrorIs(t, err, ErrUnknownTemplate)
}

func TestImportProducts_ValidateOnly(t *testing.T) {
	ctx := context.Background()
	catalog := new(mocks.MockCatalogRepository)
	service := newDataIOService(catalog, new(mocks.MockStockRepository))

	catalog.On("GetProductBySKU", ctx, "t", "NEW-1").Return(nil, repository.ErrNotFound)
	catalog.On("GetProductBySKU", ctx, "t", "OLD-1").Return(&models.Product{SKU: "OLD-1"}, nil)

	rows := []map[string]string{
		{rowKey: "2", "name": "New", "sku": "NEW-1", "unit": "pcs", "category": "Misc", "price": "9.5"},
		{rowKey: "3", "name": "Old", "sku": "OLD-1", "unit": "pcs", "category": "Misc"},
		{rowKey: "4", "name": "", "sku": "BAD-1", "unit": "pcs", "category": "Misc"},
		{rowKey: "5", "name": "Neg", "sku": "BAD-2", "unit": "pcs", "category": "Misc", "cost": "-1"},
	}

	result, err := service.Import(ctx, "t", "op", models.ImportProduct, rows, ImportOptions{ValidateOnly: true})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.True(t, result.ValidateOnly)
	assert.Equal(t, 4, result.TotalRows)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 1, result.SkippedCount)
	assert.Equal(t, 2, result.FailedCount)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, models.ImportRowError{Row: 4, Column: "name", Code: "REQUIRED_FIELD", Message: "Required field 'name' is empty"}, result.Errors[0])
	assert.Equal(t, 5, result.Errors[1].Row)
	assert.Equal(t, "INVALID_NUMBER", result.Errors[1].Code)
	catalog.AssertNotCalled(t, "GetOrCreateCategory", mock.Anything, mock.Anything, mock.Anything)
}

func TestImportPartners_InvalidType(t *testing.T) {
	ctx := context.Background()
	service := newDataIOService(new(mocks.MockCatalogRepository), new(mocks.MockStockRepository))

	result, err := service.Import(ctx, "t", "op", models.ImportPartner, []map[string]string{
		{rowKey: "2", "name": "Acme", "type": "reseller"},
	}, ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.FailedCount)
	assert.Equal(t, "type", result.Errors[0].Column)
	assert.Equal(t, "INVALID_VALUE", result.Errors[0].Code)
}

func TestImportStock(t *testing.T) {
	ctx := context.Background()
	catalog := new(mocks.MockCatalogRepository)
	stock := new(mocks.MockStockRepository)
	service := newDataIOService(catalog, stock)
	product := testProduct("t")
	warehouse := &models.Warehouse{Name: "Main"}
	row := &models.Stock{ProductID: product.ID, Quantity: 3}

	catalog.On("GetProductBySKU", ctx, "t", "SKU-001").Return(product, nil)
	catalog.On("GetProductBySKU", ctx, "t", "GHOST").Return(nil, repository.ErrNotFound)
	catalog.On("GetProduct", ctx, "t", product.ID).Return(product, nil)
	stock.On("GetWarehouseByName", ctx, "t", "Main").Return(warehouse, nil)
	stock.On("LockStock", ctx, "t", product.ID, warehouse.ID).Return(row, nil)
	stock.On("SaveStock", ctx, row).Return(nil)
	stock.On("CreateLog", ctx, mock.MatchedBy(func(l *models.InventoryLog) bool {
		return l.TransactionCode == "IMPORT" && l.QtyChange == 9 && l.MoveType == models.MoveTypeCheck
	})).Return(nil)
	stock.On("InvalidateStock", ctx, "t", product.ID, warehouse.ID).Return()

	result, err := service.Import(ctx, "t", "op", models.ImportStock, []map[string]string{
		{rowKey: "2", "sku": "SKU-001", "warehouse": "Main", "quantity": "12"},
		{rowKey: "3", "sku": "GHOST", "warehouse": "Main", "quantity": "1"},
	}, ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 1, result.UpdatedCount)
	assert.Equal(t, 1, result.FailedCount)
	assert.Equal(t, "NOT_FOUND", result.Errors[0].Code)
	assert.Equal(t, 12, row.Quantity)
}

func TestExportStockCSV(t *testing.T) {
	ctx := context.Background()
	catalog := new(mocks.MockCatalogRepository)
	stock := new(mocks.MockStockRepository)
	service := newDataIOService(catalog, stock)
	counted := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	stock.On("ListStocks", ctx, "t", models.StockFilter{}).Return([]models.Stock{
		{Product: testProduct("t"), Warehouse: &models.Warehouse{Name: "Main"}, Quantity: 8, LastCountedAt: &counted},
	}, int64(1), nil)

	var buf bytes.Buffer
	require.NoError(t, service.Export(ctx, "t", models.ExportStock, FormatCSV, &buf))
	assert.Equal(t, "sku,name,warehouse,quantity,shelf_location,last_counted_at\nSKU-001,Widget,Main,8,,2024-05-01 10:00:00\n", buf.String())

	assert.ErrorIs(t, service.Export(ctx, "t", models.ExportStock, "pdf", &buf), ErrUnsupportedFile)
	assert.ErrorIs(t, service.Export(ctx, "t", "invoices", FormatCSV, &buf), ErrUnknownExport)
}

func TestExportFilename(t *testing.T) {
	now := time.Date(2024, 5, 1, 13, 4, 5, 0, time.UTC)
	assert.Equal(t, "products_20240501_130405.xlsx", ExportFilename("products", FormatXLSX, now))
}
