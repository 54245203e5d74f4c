package models

// Import kinds
const (
	ImportProduct = "product"
	ImportPartner = "partner"
	ImportStock   = "stock"
)

// Export kinds
const (
	ExportProducts      = "products"
	ExportPartners      = "partners"
	ExportStock         = "stock"
	ExportOrders        = "orders"
	ExportReceivables   = "receivables"
	ExportInventoryLogs = "inventory_logs"
)

// ImportTemplateColumn defines a column in the import template
type ImportTemplateColumn struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
	Type        string `json:"type"`
	Example     string `json:"example"`
}

// ImportTemplate defines the structure of an import template
type ImportTemplate struct {
	Entity     string                 `json:"entity"`
	Version    string                 `json:"version"`
	Columns    []ImportTemplateColumn `json:"columns"`
	SampleData []map[string]string    `json:"sampleData,omitempty"`
}

// ImportRowError represents an error for a specific row
type ImportRowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ImportResult represents the result of an import operation
type ImportResult struct {
	Success      bool             `json:"success"`
	ValidateOnly bool             `json:"validateOnly"`
	TotalRows    int              `json:"totalRows"`
	SuccessCount int              `json:"successCount"`
	CreatedCount int              `json:"createdCount"`
	UpdatedCount int              `json:"updatedCount"`
	FailedCount  int              `json:"failedCount"`
	SkippedCount int              `json:"skippedCount"`
	Errors       []ImportRowError `json:"errors,omitempty"`
	CreatedIDs   []string         `json:"createdIds,omitempty"`
}
