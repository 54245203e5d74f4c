package cli

import (
	"errors"
	"fmt"
	"io"

	"erp-service/internal/models"
	"erp-service/internal/repository"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

const seedOperator = "erpctl"

type seedOptions struct {
	tenantID  string
	products  int
	customers int
	orders    int
	stock     int
}

// SeedCmd returns the seed command
func SeedCmd() *cobra.Command {
	opts := seedOptions{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo data into a tenant",
		Long: `Creates a warehouse, a set of products with opening stock, customers
and paid sales orders. Products whose SKU already exists are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireTenant(opts.tenantID); err != nil {
				return err
			}
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			return a.seed(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.tenantID, "tenant", "", "tenant to seed (required)")
	cmd.Flags().IntVar(&opts.products, "products", 20, "number of products")
	cmd.Flags().IntVar(&opts.customers, "customers", 5, "number of customers")
	cmd.Flags().IntVar(&opts.orders, "orders", 10, "number of sales orders")
	cmd.Flags().IntVar(&opts.stock, "stock", 100, "opening stock per product")
	return cmd
}

func (a *app) seed(cmd *cobra.Command, opts seedOptions) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	location := "Demo"
	warehouse, err := a.inventory.CreateWarehouse(ctx, opts.tenantID, models.CreateWarehouseRequest{Name: "Main warehouse", Location: &location})
	if err != nil {
		return fmt.Errorf("create warehouse: %w", err)
	}
	fmt.Fprintf(out, "%s warehouse %s\n", okMark, warehouse.Name)

	products := make([]*models.Product, 0, opts.products)
	for i := 1; i <= opts.products; i++ {
		minStock := 10
		product, err := a.catalog.CreateProduct(ctx, opts.tenantID, models.CreateProductRequest{
			SKU:      fmt.Sprintf("DEMO-%04d", i),
			Name:     fmt.Sprintf("Demo product %d", i),
			Unit:     "pcs",
			Price:    float64(10 + i*5),
			Cost:     float64(6 + i*3),
			MinStock: &minStock,
		})
		if skipped(out, err, "product", i) {
			continue
		}
		if err != nil {
			return err
		}
		products = append(products, product)

		if opts.stock > 0 {
			_, err = a.inventory.AdjustStock(ctx, opts.tenantID, seedOperator, models.AdjustStockRequest{
				ProductID:   product.ID,
				WarehouseID: warehouse.ID,
				Quantity:    opts.stock,
				MoveType:    models.MoveTypeInbound,
				Remark:      "opening stock",
			})
			if err != nil {
				return fmt.Errorf("stock %s: %w", product.SKU, err)
			}
		}
	}
	fmt.Fprintf(out, "%s %d products\n", okMark, len(products))

	customers := make([]uuid.UUID, 0, opts.customers)
	for i := 1; i <= opts.customers; i++ {
		partner, err := a.catalog.CreatePartner(ctx, opts.tenantID, models.CreatePartnerRequest{
			Name: fmt.Sprintf("Demo customer %d", i),
			Type: models.PartnerTypeCustomer,
		})
		if skipped(out, err, "customer", i) {
			continue
		}
		if err != nil {
			return err
		}
		customers = append(customers, partner.ID)
	}
	fmt.Fprintf(out, "%s %d customers\n", okMark, len(customers))

	if len(products) == 0 || len(customers) == 0 {
		fmt.Fprintf(out, "%s no new products or customers, skipping orders\n", warnMark)
		return nil
	}

	created := 0
	for i := 0; i < opts.orders; i++ {
		items := make([]models.OrderItemInput, 0, 3)
		for j := 0; j < 1+i%3; j++ {
			p := products[(i+j)%len(products)]
			items = append(items, models.OrderItemInput{ProductID: p.ID, Quantity: 1 + (i+j)%4})
		}
		_, err := a.sales.CreateOrder(ctx, opts.tenantID, seedOperator, models.CreateOrderRequest{
			CustomerID: customers[i%len(customers)],
			Items:      items,
			Status:     models.OrderStatusPaid,
		})
		if err != nil {
			fmt.Fprintf(out, "%s order %d: %v\n", warnMark, i+1, err)
			continue
		}
		created++
	}
	fmt.Fprintf(out, "%s %d orders\n", okMark, created)
	return nil
}

func skipped(out io.Writer, err error, kind string, n int) bool {
	if errors.Is(err, repository.ErrDuplicate) {
		fmt.Fprintf(out, "%s %s %d already exists\n", warnMark, kind, n)
		return true
	}
	return false
}
