package services

import (
	"context"
	"fmt"

	"erp-service/internal/models"
	"github.com/google/uuid"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// DocumentService renders printable PDFs for purchase orders, sales orders and statements
type DocumentService struct {
	purchases   *PurchaseService
	sales       *SalesService
	finance     *FinanceService
	companyName string
}

func NewDocumentService(purchases *PurchaseService, sales *SalesService, finance *FinanceService, companyName string) *DocumentService {
	if companyName == "" {
		companyName = "ERP"
	}
	return &DocumentService{purchases: purchases, sales: sales, finance: finance, companyName: companyName}
}

func newDocument() core.Maroto {
	cfg := config.NewBuilder().
		WithPageNumber().
		WithLeftMargin(10).
		WithTopMargin(15).
		WithRightMargin(10).
		Build()
	return maroto.New(cfg)
}

func render(m core.Maroto) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

func (s *DocumentService) addHeader(m core.Maroto, title, number string) {
	m.AddRow(20,
		col.New(6).Add(
			text.New(s.companyName, props.Text{Size: 16, Style: fontstyle.Bold, Align: align.Left}),
		),
		col.New(6).Add(
			text.New(title, props.Text{Size: 18, Style: fontstyle.Bold, Align: align.Right}),
			text.New("# "+number, props.Text{Size: 10, Top: 9, Align: align.Right}),
		),
	)
	m.AddRow(5, line.NewCol(12))
}

func labelRow(m core.Maroto, left, right string) {
	m.AddRow(6,
		col.New(6).Add(text.New(left, props.Text{Size: 10, Align: align.Left})),
		col.New(6).Add(text.New(right, props.Text{Size: 10, Align: align.Right})),
	)
}

type itemLine struct {
	name, sku       string
	qty             int
	price, subtotal float64
}

func addItemsTable(m core.Maroto, lines []itemLine) {
	header := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Left}
	m.AddRow(8,
		col.New(5).Add(text.New("Item", header)),
		col.New(2).Add(text.New("SKU", header)),
		col.New(1).Add(text.New("Qty", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Center})),
		col.New(2).Add(text.New("Price", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right})),
		col.New(2).Add(text.New("Total", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right})),
	)
	m.AddRow(2, line.NewCol(12))

	for _, l := range lines {
		m.AddRow(7,
			col.New(5).Add(text.New(l.name, props.Text{Size: 9, Align: align.Left})),
			col.New(2).Add(text.New(l.sku, props.Text{Size: 9, Align: align.Left})),
			col.New(1).Add(text.New(fmt.Sprintf("%d", l.qty), props.Text{Size: 9, Align: align.Center})),
			col.New(2).Add(text.New(money(l.price), props.Text{Size: 9, Align: align.Right})),
			col.New(2).Add(text.New(money(l.subtotal), props.Text{Size: 9, Align: align.Right})),
		)
	}
	m.AddRow(3, line.NewCol(12))
}

func totalRow(m core.Maroto, label string, amount float64, bold bool) {
	style := fontstyle.Normal
	if bold {
		style = fontstyle.Bold
	}
	m.AddRow(7,
		col.New(8),
		col.New(2).Add(text.New(label, props.Text{Size: 10, Style: style, Align: align.Right})),
		col.New(2).Add(text.New(money(amount), props.Text{Size: 10, Style: style, Align: align.Right})),
	)
}

func productLabel(p *models.Product, id uuid.UUID) (string, string) {
	if p == nil {
		return id.String(), ""
	}
	return p.Name, p.SKU
}

// PurchaseOrderPDF renders a purchase order for sending to the supplier
func (s *DocumentService) PurchaseOrderPDF(ctx context.Context, tenantID string, id uuid.UUID) ([]byte, string, error) {
	po, err := s.purchases.Get(ctx, tenantID, id)
	if err != nil {
		return nil, "", err
	}

	m := newDocument()
	s.addHeader(m, "PURCHASE ORDER", po.PONumber)

	supplier, warehouse := po.SupplierID.String(), po.WarehouseID.String()
	if po.Supplier != nil {
		supplier = po.Supplier.Name
	}
	if po.Warehouse != nil {
		warehouse = po.Warehouse.Name
	}
	labelRow(m, "Supplier: "+supplier, "Date: "+po.CreatedAt.Format("2006-01-02"))
	expected := "-"
	if po.ExpectedDate != nil {
		expected = po.ExpectedDate.Format("2006-01-02")
	}
	labelRow(m, "Deliver to: "+warehouse, "Expected: "+expected)
	labelRow(m, "Status: "+string(po.Status), "")
	m.AddRow(4)

	lines := make([]itemLine, 0, len(po.Items))
	for _, item := range po.Items {
		name, sku := productLabel(item.Product, item.ProductID)
		lines = append(lines, itemLine{name: name, sku: sku, qty: item.Quantity, price: item.UnitPrice, subtotal: item.UnitPrice * float64(item.Quantity)})
	}
	addItemsTable(m, lines)
	totalRow(m, "TOTAL:", po.TotalAmount, true)

	if po.Remark != nil && *po.Remark != "" {
		m.AddRow(6)
		m.AddRow(12, col.New(12).Add(text.New("Remark: "+*po.Remark, props.Text{Size: 9, Align: align.Left})))
	}

	data, err := render(m)
	if err != nil {
		return nil, "", err
	}
	return data, po.PONumber + ".pdf", nil
}

// DeliveryNotePDF renders a sales order as a delivery note
func (s *DocumentService) DeliveryNotePDF(ctx context.Context, tenantID string, id uuid.UUID) ([]byte, string, error) {
	order, err := s.sales.Get(ctx, tenantID, id)
	if err != nil {
		return nil, "", err
	}

	m := newDocument()
	s.addHeader(m, "DELIVERY NOTE", order.OrderNo)

	customer := order.CustomerID.String()
	if order.Customer != nil {
		customer = order.Customer.Name
	}
	labelRow(m, "Customer: "+customer, "Order date: "+order.CreatedAt.Format("2006-01-02"))
	shipped := "-"
	if order.ShippedAt != nil {
		shipped = order.ShippedAt.Format("2006-01-02")
	}
	labelRow(m, "Status: "+string(order.Status), "Shipped: "+shipped)
	m.AddRow(4)

	lines := make([]itemLine, 0, len(order.Items))
	for _, item := range order.Items {
		name, sku := productLabel(item.Product, item.ProductID)
		lines = append(lines, itemLine{name: name, sku: sku, qty: item.Quantity, price: item.Price, subtotal: item.Subtotal})
	}
	addItemsTable(m, lines)
	totalRow(m, "TOTAL:", order.TotalAmount, true)

	m.AddRow(20)
	labelRow(m, "Received by: ____________________", "Date: ____________")

	data, err := render(m)
	if err != nil {
		return nil, "", err
	}
	return data, order.OrderNo + ".pdf", nil
}

// StatementPDF renders a customer statement
func (s *DocumentService) StatementPDF(ctx context.Context, tenantID string, id uuid.UUID) ([]byte, string, error) {
	statement, err := s.finance.GetStatement(ctx, tenantID, id)
	if err != nil {
		return nil, "", err
	}

	m := newDocument()
	s.addHeader(m, "STATEMENT", statement.StatementNo)

	customer := statement.CustomerID.String()
	if statement.Customer != nil {
		customer = statement.Customer.Name
	}
	labelRow(m, "Customer: "+customer, fmt.Sprintf("Period: %s ~ %s", statement.StartDate.Format("2006-01-02"), statement.EndDate.Format("2006-01-02")))
	confirmed := "No"
	if statement.IsConfirmed {
		confirmed = "Yes"
	}
	labelRow(m, "Generated: "+statement.GeneratedAt.Format("2006-01-02"), "Confirmed: "+confirmed)
	m.AddRow(6)

	totalRow(m, "Opening balance:", statement.OpeningBalance, false)
	totalRow(m, "Sales:", statement.SalesAmount, false)
	totalRow(m, "Payments:", -statement.PaymentAmount, false)
	m.AddRow(2, col.New(8), line.NewCol(4))
	totalRow(m, "Closing balance:", statement.ClosingBalance, true)

	data, err := render(m)
	if err != nil {
		return nil, "", err
	}
	return data, statement.StatementNo + ".pdf", nil
}
