package cli

import (
	"fmt"
	"io"
	"time"

	"erp-service/internal/models"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// StatusCmd returns the status command
func StatusCmd() *cobra.Command {
	var tenantID string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show a tenant's operating summary",
		Long: `Display today's sales, open alerts and outstanding receivables of a
tenant, plus the state of the optional backends (Redis cache and AI).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireTenant(tenantID); err != nil {
				return err
			}
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			stats, err := a.reports.Dashboard(ctx, tenantID, time.Now())
			if err != nil {
				return fmt.Errorf("dashboard: %w", err)
			}
			alerts, err := a.alerts.Statistics(ctx, tenantID)
			if err != nil {
				return fmt.Errorf("alert statistics: %w", err)
			}
			aging, err := a.finance.AgingAnalysis(ctx, tenantID, nil)
			if err != nil {
				return fmt.Errorf("aging: %w", err)
			}

			printStatus(out, tenantID, stats, alerts, aging)

			fmt.Fprintln(out)
			fmt.Fprintln(out, color.New(color.Bold).Sprint("Backends"))
			printBackend(out, "redis cache", a.cfg.RedisURL != "")
			printBackend(out, "ai assistant", assistantConfigured(a.cfg))
			printBackend(out, "scheduled jobs", a.cfg.JobsEnabled)
			return nil
		},
	}

	cmd.Flags().StringVar(&tenantID, "tenant", "", "tenant to summarise (required)")
	return cmd
}

func printStatus(out io.Writer, tenantID string, stats *models.DashboardStats, alerts *models.AlertStatistics, aging *models.AgingReport) {
	bold := color.New(color.Bold)
	fmt.Fprintln(out, bold.Sprintf("Tenant %s", tenantID))
	fmt.Fprintln(out)

	fmt.Fprintln(out, bold.Sprint("Today"))
	fmt.Fprintf(out, "  Sales          %.2f (%d orders)\n", stats.TodaySales, stats.TodayOrders)
	fmt.Fprintf(out, "  Pending orders %d\n", stats.PendingOrders)
	fmt.Fprintf(out, "  Low stock      %s\n", countColor(stats.LowStockCount, color.FgYellow))
	fmt.Fprintln(out)

	fmt.Fprintln(out, bold.Sprint("Alerts"))
	fmt.Fprintf(out, "  Red            %s\n", countColor(alerts.Red, color.FgRed))
	fmt.Fprintf(out, "  Yellow         %s\n", countColor(alerts.Yellow, color.FgYellow))
	fmt.Fprintln(out)

	fmt.Fprintln(out, bold.Sprint("Receivables"))
	for _, bucket := range aging.Buckets {
		fmt.Fprintf(out, "  %-14s %.2f (%d)\n", bucket.Bucket, bucket.Amount, bucket.Count)
	}
	fmt.Fprintf(out, "  %-14s %.2f (%d)\n", "total", aging.TotalAmount, aging.TotalCount)
}

func countColor(n int64, attr color.Attribute) string {
	if n == 0 {
		return color.New(color.FgHiGreen).Sprint(n)
	}
	return color.New(attr).Sprint(n)
}

func printBackend(out io.Writer, name string, enabled bool) {
	mark, state := okMark, "enabled"
	if !enabled {
		mark, state = warnMark, "disabled"
	}
	fmt.Fprintf(out, "  %s %-14s %s\n", mark, name, state)
}
