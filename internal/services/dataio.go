package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"erp-service/internal/models"
	"erp-service/internal/repository"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

const (
	importCode   = "IMPORT"
	rowKey       = "_row"
	exportLayout = "2006-01-02 15:04:05"
)

// ImportOptions controls how import rows are applied
type ImportOptions struct {
	ValidateOnly   bool
	UpdateExisting bool
}

// DataIOService imports and exports tabular data as CSV or XLSX
type DataIOService struct {
	catalogRepo repository.CatalogRepositoryInterface
	stockRepo   repository.StockRepositoryInterface
	catalog     *CatalogService
	inventory   *InventoryService
	finance     *FinanceService
	sales       *SalesService
	logger      *logrus.Entry
}

func NewDataIOService(catalogRepo repository.CatalogRepositoryInterface, stockRepo repository.StockRepositoryInterface, catalog *CatalogService, inventory *InventoryService, finance *FinanceService, sales *SalesService, logger *logrus.Logger) *DataIOService {
	return &DataIOService{
		catalogRepo: catalogRepo,
		stockRepo:   stockRepo,
		catalog:     catalog,
		inventory:   inventory,
		finance:     finance,
		sales:       sales,
		logger:      logger.WithField("component", "dataio"),
	}
}

// ProductImportTemplate returns the template for products
func ProductImportTemplate() models.ImportTemplate {
	return models.ImportTemplate{
		Entity:  models.ImportProduct,
		Version: "1.0",
		Columns: []models.ImportTemplateColumn{
			{Name: "name", Description: "Product name", Required: true, Type: "string", Example: "Wireless Mouse"},
			{Name: "sku", Description: "Unique stock keeping unit", Required: true, Type: "string", Example: "MS-001"},
			{Name: "unit", Description: "Unit of measure", Required: true, Type: "string", Example: "pcs"},
			{Name: "category", Description: "Category name, created when missing", Required: true, Type: "string", Example: "Peripherals"},
			{Name: "cost", Description: "Purchase cost", Required: false, Type: "number", Example: "45.00"},
			{Name: "price", Description: "Selling price", Required: false, Type: "number", Example: "99.00"},
			{Name: "min_stock", Description: "Minimum stock before alerting", Required: false, Type: "number", Example: "10"},
			{Name: "description", Description: "Free text description", Required: false, Type: "string", Example: "2.4GHz wireless mouse"},
		},
		SampleData: []map[string]string{
			{"name": "Wireless Mouse", "sku": "MS-001", "unit": "pcs", "category": "Peripherals", "cost": "45.00", "price": "99.00", "min_stock": "10", "description": "2.4GHz wireless mouse"},
			{"name": "USB-C Cable", "sku": "CB-010", "unit": "pcs", "category": "Cables", "cost": "5.50", "price": "19.90", "min_stock": "50", "description": ""},
		},
	}
}

// PartnerImportTemplate returns the template for customers and suppliers
func PartnerImportTemplate() models.ImportTemplate {
	return models.ImportTemplate{
		Entity:  models.ImportPartner,
		Version: "1.0",
		Columns: []models.ImportTemplateColumn{
			{Name: "name", Description: "Partner name", Required: true, Type: "string", Example: "Acme Trading"},
			{Name: "type", Description: "customer or supplier", Required: true, Type: "string", Example: "customer"},
			{Name: "contact", Description: "Contact person", Required: false, Type: "string", Example: "Jane Doe"},
			{Name: "phone", Description: "Phone number", Required: false, Type: "string", Example: "+1-555-123-4567"},
			{Name: "email", Description: "Email address", Required: false, Type: "string", Example: "jane@acme.com"},
			{Name: "address", Description: "Postal address", Required: false, Type: "string", Example: "1 Market Street"},
			{Name: "credit_limit", Description: "Credit limit for customers", Required: false, Type: "number", Example: "20000"},
		},
		SampleData: []map[string]string{
			{"name": "Acme Trading", "type": "customer", "contact": "Jane Doe", "phone": "+1-555-123-4567", "email": "jane@acme.com", "address": "1 Market Street", "credit_limit": "20000"},
			{"name": "Globex Supply", "type": "supplier", "contact": "Hank Scorpio", "phone": "+1-555-987-6543", "email": "hank@globex.com", "address": "42 Industrial Ave", "credit_limit": ""},
		},
	}
}

// StockImportTemplate returns the template for absolute stock levels
func StockImportTemplate() models.ImportTemplate {
	return models.ImportTemplate{
		Entity:  models.ImportStock,
		Version: "1.0",
		Columns: []models.ImportTemplateColumn{
			{Name: "sku", Description: "Product SKU", Required: true, Type: "string", Example: "MS-001"},
			{Name: "warehouse", Description: "Warehouse name", Required: true, Type: "string", Example: "Main Warehouse"},
			{Name: "quantity", Description: "Quantity on hand after import", Required: true, Type: "number", Example: "120"},
		},
		SampleData: []map[string]string{
			{"sku": "MS-001", "warehouse": "Main Warehouse", "quantity": "120"},
		},
	}
}

// Template returns the import template of a kind
func Template(kind string) (models.ImportTemplate, error) {
	switch kind {
	case models.ImportProduct:
		return ProductImportTemplate(), nil
	case models.ImportPartner:
		return PartnerImportTemplate(), nil
	case models.ImportStock:
		return StockImportTemplate(), nil
	}
	return models.ImportTemplate{}, fmt.Errorf("%w: %q", ErrUnknownTemplate, kind)
}

func templateTable(template models.ImportTemplate) (headers []string, required []bool, rows [][]string) {
	for _, col := range template.Columns {
		headers = append(headers, col.Name)
		required = append(required, col.Required)
	}
	for _, sample := range template.SampleData {
		row := make([]string, len(template.Columns))
		for i, col := range template.Columns {
			row[i] = sample[col.Name]
		}
		rows = append(rows, row)
	}
	return headers, required, rows
}

// WriteTemplateCSV writes the header and sample rows as CSV
func WriteTemplateCSV(w io.Writer, template models.ImportTemplate) error {
	headers, _, rows := templateTable(template)
	return writeCSV(w, headers, rows)
}

// WriteTemplateXLSX writes the template with required columns highlighted
func WriteTemplateXLSX(w io.Writer, template models.ImportTemplate) error {
	headers, required, rows := templateTable(template)
	return writeXLSX(w, sheetTitle(template.Entity), headers, required, rows)
}

func sheetTitle(kind string) string {
	if kind == "" {
		return "Sheet1"
	}
	return strings.ToUpper(kind[:1]) + strings.ReplaceAll(kind[1:], "_", " ")
}

func writeCSV(w io.Writer, headers []string, rows [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(headers); err != nil {
		return err
	}
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

func writeXLSX(w io.Writer, sheetName string, headers []string, required []bool, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	requiredStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"C65911"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	for i, name := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		style := headerStyle
		if i < len(required) && required[i] {
			name += " *"
			style = requiredStyle
		}
		_ = f.SetCellValue(sheetName, cell, name)
		_ = f.SetCellStyle(sheetName, cell, cell, style)

		colName, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheetName, colName, colName, 18)
	}

	for rowIdx, row := range rows {
		for colIdx, value := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			_ = f.SetCellValue(sheetName, cell, value)
		}
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return err
	}
	return f.Write(w)
}

func normalizeHeaders(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(strings.ToLower(h))
		h = strings.TrimSuffix(h, " *")
		out[i] = strings.ReplaceAll(h, " ", "_")
	}
	return out
}

// ParseFile reads CSV or XLSX rows keyed by lower case header. Each row carries its file line number.
func ParseFile(r io.Reader, filename string) ([]map[string]string, error) {
	name := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(name, ".csv"):
		return parseCSV(r)
	case strings.HasSuffix(name, ".xlsx"):
		return parseXLSX(r)
	}
	return nil, fmt.Errorf("%w: only CSV and XLSX files are supported", ErrUnsupportedFile)
}

func parseCSV(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, ErrMissingHeaderRow
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\ufeff")
	}
	headers = normalizeHeaders(headers)

	var rows []map[string]string
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("error reading line %d: %w", line, err)
		}
		if row := buildRow(headers, record, line); row != nil {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return nil, ErrEmptyImportFile
	}
	return rows, nil
}

func parseXLSX(r io.Reader) ([]map[string]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open Excel file: %v", ErrUnsupportedFile, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrMissingHeaderRow
	}
	excelRows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(excelRows) == 0 {
		return nil, ErrMissingHeaderRow
	}

	headers := normalizeHeaders(excelRows[0])
	var rows []map[string]string
	for idx, record := range excelRows[1:] {
		if row := buildRow(headers, record, idx+2); row != nil {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return nil, ErrEmptyImportFile
	}
	return rows, nil
}

// buildRow returns nil for blank lines
func buildRow(headers, record []string, line int) map[string]string {
	row := make(map[string]string, len(headers)+1)
	blank := true
	for i, value := range record {
		if i >= len(headers) {
			break
		}
		value = strings.TrimSpace(value)
		if value != "" {
			blank = false
		}
		row[headers[i]] = value
	}
	if blank {
		return nil
	}
	row[rowKey] = strconv.Itoa(line)
	return row
}

type rowErrors struct {
	result *models.ImportResult
	row    int
	failed bool
}

func (e *rowErrors) add(column, code, message string) {
	e.failed = true
	e.result.Errors = append(e.result.Errors, models.ImportRowError{Row: e.row, Column: column, Code: code, Message: message})
}

func (e *rowErrors) fail(err error) {
	code := "IMPORT_FAILED"
	switch {
	case errors.Is(err, repository.ErrNotFound):
		code = "NOT_FOUND"
	case errors.Is(err, repository.ErrDuplicate):
		code = "DUPLICATE"
	case errors.Is(err, ErrInvalidQuantity):
		code = "INVALID_NUMBER"
	}
	e.add("", code, err.Error())
}

func (e *rowErrors) required(row map[string]string, template models.ImportTemplate) {
	for _, col := range template.Columns {
		if col.Required && row[col.Name] == "" {
			e.add(col.Name, "REQUIRED_FIELD", fmt.Sprintf("Required field '%s' is empty", col.Name))
		}
	}
}

func (e *rowErrors) parseFloat(row map[string]string, column string) *float64 {
	raw := row[column]
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		e.add(column, "INVALID_NUMBER", fmt.Sprintf("'%s' must be a non-negative number", column))
		return nil
	}
	return &v
}

func (e *rowErrors) parseInt(row map[string]string, column string) *int {
	raw := row[column]
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		e.add(column, "INVALID_NUMBER", fmt.Sprintf("'%s' must be a non-negative integer", column))
		return nil
	}
	return &v
}

func optional(row map[string]string, column string) *string {
	if v := row[column]; v != "" {
		return &v
	}
	return nil
}

// Import validates every row and applies the valid ones. Row failures are reported, not returned.
func (s *DataIOService) Import(ctx context.Context, tenantID, operator, kind string, rows []map[string]string, opts ImportOptions) (*models.ImportResult, error) {
	template, err := Template(kind)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrEmptyImportFile
	}

	result := &models.ImportResult{
		ValidateOnly: opts.ValidateOnly,
		TotalRows:    len(rows),
		Errors:       make([]models.ImportRowError, 0),
		CreatedIDs:   make([]string, 0),
	}

	for _, row := range rows {
		line, _ := strconv.Atoi(row[rowKey])
		rowErr := &rowErrors{result: result, row: line}
		rowErr.required(row, template)
		if rowErr.failed {
			result.FailedCount++
			continue
		}

		var outcome importOutcome
		switch kind {
		case models.ImportProduct:
			outcome = s.importProduct(ctx, tenantID, row, opts, rowErr)
		case models.ImportPartner:
			outcome = s.importPartner(ctx, tenantID, row, opts, rowErr)
		case models.ImportStock:
			outcome = s.importStock(ctx, tenantID, operator, row, opts, rowErr)
		}

		switch {
		case rowErr.failed:
			result.FailedCount++
		case outcome.skipped:
			result.SkippedCount++
		default:
			result.SuccessCount++
			if outcome.created != "" {
				result.CreatedCount++
				result.CreatedIDs = append(result.CreatedIDs, outcome.created)
			}
			if outcome.updated {
				result.UpdatedCount++
			}
		}
	}

	result.Success = result.FailedCount == 0
	s.logger.WithFields(logrus.Fields{
		"tenantId":     tenantID,
		"kind":         kind,
		"total":        result.TotalRows,
		"success":      result.SuccessCount,
		"failed":       result.FailedCount,
		"skipped":      result.SkippedCount,
		"validateOnly": opts.ValidateOnly,
	}).Info("Import processed")
	return result, nil
}

type importOutcome struct {
	created string
	updated bool
	skipped bool
}

func (s *DataIOService) importProduct(ctx context.Context, tenantID string, row map[string]string, opts ImportOptions, rowErr *rowErrors) importOutcome {
	cost := rowErr.parseFloat(row, "cost")
	price := rowErr.parseFloat(row, "price")
	minStock := rowErr.parseInt(row, "min_stock")
	if rowErr.failed {
		return importOutcome{}
	}

	existing, err := s.catalogRepo.GetProductBySKU(ctx, tenantID, row["sku"])
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		rowErr.fail(err)
		return importOutcome{}
	}
	if existing != nil && !opts.UpdateExisting {
		return importOutcome{skipped: true}
	}
	if opts.ValidateOnly {
		return importOutcome{updated: existing != nil}
	}

	category, err := s.catalogRepo.GetOrCreateCategory(ctx, tenantID, row["category"])
	if err != nil {
		rowErr.fail(err)
		return importOutcome{}
	}

	if existing != nil {
		unit, name := row["unit"], row["name"]
		_, err := s.catalog.UpdateProduct(ctx, tenantID, existing.ID, models.UpdateProductRequest{
			Name:        &name,
			Unit:        &unit,
			Description: optional(row, "description"),
			Price:       price,
			Cost:        cost,
			MinStock:    minStock,
			CategoryID:  &category.ID,
		})
		if err != nil {
			rowErr.fail(err)
			return importOutcome{}
		}
		return importOutcome{updated: true}
	}

	req := models.CreateProductRequest{
		SKU:         row["sku"],
		Name:        row["name"],
		Unit:        row["unit"],
		Description: optional(row, "description"),
		MinStock:    minStock,
		CategoryID:  &category.ID,
	}
	if price != nil {
		req.Price = *price
	}
	if cost != nil {
		req.Cost = *cost
	}
	product, err := s.catalog.CreateProduct(ctx, tenantID, req)
	if err != nil {
		rowErr.fail(err)
		return importOutcome{}
	}
	return importOutcome{created: product.ID.String()}
}

func parsePartnerType(raw string) (models.PartnerType, bool) {
	switch strings.ToLower(raw) {
	case "customer", "客户":
		return models.PartnerTypeCustomer, true
	case "supplier", "供应商":
		return models.PartnerTypeSupplier, true
	}
	return "", false
}

func (s *DataIOService) importPartner(ctx context.Context, tenantID string, row map[string]string, opts ImportOptions, rowErr *rowErrors) importOutcome {
	partnerType, ok := parsePartnerType(row["type"])
	if !ok {
		rowErr.add("type", "INVALID_VALUE", "type must be customer or supplier")
	}
	creditLimit := rowErr.parseFloat(row, "credit_limit")
	if rowErr.failed {
		return importOutcome{}
	}

	existing, err := s.catalogRepo.GetPartnerByName(ctx, tenantID, row["name"], partnerType)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		rowErr.fail(err)
		return importOutcome{}
	}
	if existing != nil && !opts.UpdateExisting {
		return importOutcome{skipped: true}
	}
	if opts.ValidateOnly {
		return importOutcome{updated: existing != nil}
	}

	if existing != nil {
		_, err := s.catalog.UpdatePartner(ctx, tenantID, existing.ID, models.UpdatePartnerRequest{
			ContactPerson: optional(row, "contact"),
			Phone:         optional(row, "phone"),
			Email:         optional(row, "email"),
			Address:       optional(row, "address"),
		})
		if err != nil {
			rowErr.fail(err)
			return importOutcome{}
		}
		if creditLimit != nil && partnerType == models.PartnerTypeCustomer && s.finance != nil {
			if _, err := s.finance.SetCreditLimit(ctx, tenantID, existing.ID, *creditLimit); err != nil {
				rowErr.fail(err)
				return importOutcome{}
			}
		}
		return importOutcome{updated: true}
	}

	partner, err := s.catalog.CreatePartner(ctx, tenantID, models.CreatePartnerRequest{
		Name:          row["name"],
		Type:          partnerType,
		ContactPerson: optional(row, "contact"),
		Phone:         optional(row, "phone"),
		Email:         optional(row, "email"),
		Address:       optional(row, "address"),
		CreditLimit:   creditLimit,
	})
	if err != nil {
		rowErr.fail(err)
		return importOutcome{}
	}
	return importOutcome{created: partner.ID.String()}
}

func (s *DataIOService) importStock(ctx context.Context, tenantID, operator string, row map[string]string, opts ImportOptions, rowErr *rowErrors) importOutcome {
	quantity := rowErr.parseInt(row, "quantity")
	if rowErr.failed {
		return importOutcome{}
	}

	product, err := s.catalogRepo.GetProductBySKU(ctx, tenantID, row["sku"])
	if err != nil {
		rowErr.add("sku", "NOT_FOUND", fmt.Sprintf("product '%s' not found", row["sku"]))
		return importOutcome{}
	}
	warehouse, err := s.stockRepo.GetWarehouseByName(ctx, tenantID, row["warehouse"])
	if err != nil {
		rowErr.add("warehouse", "NOT_FOUND", fmt.Sprintf("warehouse '%s' not found", row["warehouse"]))
		return importOutcome{}
	}
	if opts.ValidateOnly {
		return importOutcome{updated: true}
	}

	_, err = s.inventory.SetStock(ctx, tenantID, operator, SetStockInput{
		ProductID:   product.ID,
		WarehouseID: warehouse.ID,
		Target:      *quantity,
		Code:        importCode,
		Remark:      "stock import",
	})
	if err != nil {
		rowErr.fail(err)
		return importOutcome{}
	}
	return importOutcome{updated: true}
}

// Export file formats
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Export writes every row of a kind to w. Large tenants are exported in full.
func (s *DataIOService) Export(ctx context.Context, tenantID, kind, format string, w io.Writer) error {
	if format != FormatCSV && format != FormatXLSX {
		return fmt.Errorf("%w: %q", ErrUnsupportedFile, format)
	}
	headers, rows, err := s.exportTable(ctx, tenantID, kind)
	if err != nil {
		return err
	}
	if format == FormatCSV {
		return writeCSV(w, headers, rows)
	}
	return writeXLSX(w, sheetTitle(kind), headers, nil, rows)
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func stamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(exportLayout)
}

func (s *DataIOService) exportTable(ctx context.Context, tenantID, kind string) ([]string, [][]string, error) {
	all := models.ListParams{}
	var rows [][]string

	switch kind {
	case models.ExportProducts:
		products, _, err := s.catalog.ListProducts(ctx, tenantID, models.ProductFilter{ListParams: all})
		if err != nil {
			return nil, nil, err
		}
		for _, p := range products {
			category := ""
			if p.Category != nil {
				category = p.Category.Name
			}
			rows = append(rows, []string{p.SKU, p.Name, p.Unit, category, money(p.Cost), money(p.Price),
				strconv.Itoa(p.MinStock), strconv.Itoa(p.TotalStock()), deref(p.Description)})
		}
		return []string{"sku", "name", "unit", "category", "cost", "price", "min_stock", "total_stock", "description"}, rows, nil

	case models.ExportPartners:
		partners, _, err := s.catalog.ListPartners(ctx, tenantID, models.PartnerFilter{ListParams: all})
		if err != nil {
			return nil, nil, err
		}
		for _, p := range partners {
			rows = append(rows, []string{p.Name, string(p.Type), deref(p.ContactPerson), deref(p.Phone),
				deref(p.Email), deref(p.Address), strconv.Itoa(p.CreditScore)})
		}
		return []string{"name", "type", "contact", "phone", "email", "address", "credit_score"}, rows, nil

	case models.ExportStock:
		stocks, _, err := s.inventory.ListStocks(ctx, tenantID, models.StockFilter{ListParams: all})
		if err != nil {
			return nil, nil, err
		}
		for _, st := range stocks {
			sku, name, warehouse := "", "", ""
			if st.Product != nil {
				sku, name = st.Product.SKU, st.Product.Name
			}
			if st.Warehouse != nil {
				warehouse = st.Warehouse.Name
			}
			rows = append(rows, []string{sku, name, warehouse, strconv.Itoa(st.Quantity), deref(st.ShelfLocation), stamp(st.LastCountedAt)})
		}
		return []string{"sku", "name", "warehouse", "quantity", "shelf_location", "last_counted_at"}, rows, nil

	case models.ExportOrders:
		orders, _, err := s.sales.List(ctx, tenantID, models.OrderFilter{ListParams: all})
		if err != nil {
			return nil, nil, err
		}
		for _, o := range orders {
			customer := ""
			if o.Customer != nil {
				customer = o.Customer.Name
			}
			rows = append(rows, []string{o.OrderNo, customer, string(o.Status), money(o.TotalAmount),
				strconv.Itoa(len(o.Items)), o.CreatedAt.Format(exportLayout), stamp(o.ShippedAt)})
		}
		return []string{"order_no", "customer", "status", "total_amount", "items", "created_at", "shipped_at"}, rows, nil

	case models.ExportReceivables:
		receivables, _, err := s.finance.ListReceivables(ctx, tenantID, models.ReceivableFilter{ListParams: all})
		if err != nil {
			return nil, nil, err
		}
		for _, r := range receivables {
			customer := ""
			if r.Customer != nil {
				customer = r.Customer.Name
			}
			rows = append(rows, []string{r.ReceivableNo, customer, money(r.TotalAmount), money(r.PaidAmount),
				money(r.TotalAmount - r.PaidAmount), r.DueDate.Format("2006-01-02"), string(r.Status)})
		}
		return []string{"receivable_no", "customer", "total_amount", "paid_amount", "unpaid_amount", "due_date", "status"}, rows, nil

	case models.ExportInventoryLogs:
		logs, _, err := s.inventory.ListLogs(ctx, tenantID, models.InventoryLogFilter{ListParams: all})
		if err != nil {
			return nil, nil, err
		}
		for _, l := range logs {
			sku, warehouse := "", ""
			if l.Product != nil {
				sku = l.Product.SKU
			}
			if l.Warehouse != nil {
				warehouse = l.Warehouse.Name
			}
			rows = append(rows, []string{l.TransactionCode, string(l.MoveType), sku, warehouse,
				strconv.Itoa(l.QtyChange), strconv.Itoa(l.BalanceAfter), l.Operator, l.Remark, l.CreatedAt.Format(exportLayout)})
		}
		return []string{"transaction_code", "move_type", "sku", "warehouse", "qty_change", "balance_after", "operator", "remark", "created_at"}, rows, nil
	}
	return nil, nil, fmt.Errorf("%w: %q", ErrUnknownExport, kind)
}

// ExportFilename names a download of kind in format
func ExportFilename(kind, format string, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", kind, now.Format("20060102_150405"), format)
}
