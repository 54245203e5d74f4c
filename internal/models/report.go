package models

// Report types
const (
	ReportSalesDaily        = "sales_daily"
	ReportSalesWeekly       = "sales_weekly"
	ReportSalesMonthly      = "sales_monthly"
	ReportInventorySummary  = "inventory_summary"
	ReportInventoryMovement = "inventory_movement"
	ReportReceivableAging   = "receivable_aging"
	ReportCustomerRanking   = "customer_ranking"
	ReportProductRanking    = "product_ranking"
)

// ReportTypes lists every report type in display order
var ReportTypes = []string{
	ReportSalesDaily,
	ReportSalesWeekly,
	ReportSalesMonthly,
	ReportInventorySummary,
	ReportInventoryMovement,
	ReportReceivableAging,
	ReportCustomerRanking,
	ReportProductRanking,
}

// SalesTotals sums orders over a period
type SalesTotals struct {
	Orders int64   `json:"orders"`
	Amount float64 `json:"amount"`
}

// SalesPoint is one bucket of a sales time series
type SalesPoint struct {
	Bucket string  `json:"bucket"`
	Orders int64   `json:"orders"`
	Amount float64 `json:"amount"`
}

// ProductSales ranks a product by revenue
type ProductSales struct {
	ProductID string  `json:"productId"`
	SKU       string  `json:"sku"`
	Name      string  `json:"name"`
	Quantity  int64   `json:"quantity"`
	Amount    float64 `json:"amount"`
}

// CustomerSales ranks a customer by revenue
type CustomerSales struct {
	CustomerID string  `json:"customerId"`
	Name       string  `json:"name"`
	Orders     int64   `json:"orders"`
	Amount     float64 `json:"amount"`
}

// InventorySummary values the stock on hand
type InventorySummary struct {
	TotalProducts int64   `json:"totalProducts"`
	TotalQuantity int64   `json:"totalQuantity"`
	StockValue    float64 `json:"stockValue"`
	LowStockCount int64   `json:"lowStockCount"`
}

// MovementSummary counts inventory log rows per move type
type MovementSummary struct {
	MoveType MoveType `json:"moveType"`
	Count    int64    `json:"count"`
	Quantity int64    `json:"quantity"`
}

// Report is the output of a report generator
type Report struct {
	Type        string      `json:"type"`
	Name        string      `json:"name"`
	Period      string      `json:"period"`
	GeneratedAt string      `json:"generatedAt"`
	Data        interface{} `json:"data"`
}
