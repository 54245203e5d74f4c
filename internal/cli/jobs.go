package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"erp-service/internal/jobs"
	"github.com/spf13/cobra"
)

type jobRunner func(s *jobs.Scheduler, ctx context.Context) (int, error)

var jobRunners = map[string]jobRunner{
	jobs.JobOverdue:       (*jobs.Scheduler).RunOverdue,
	jobs.JobAlerts:        (*jobs.Scheduler).RunAlerts,
	jobs.JobSubscriptions: (*jobs.Scheduler).RunSubscriptions,
}

func jobNames() []string {
	names := make([]string, 0, len(jobRunners))
	for name := range jobRunners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// JobsCmd returns the jobs command
func JobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Run scheduled jobs once across every tenant",
	}

	cmd.AddCommand(&cobra.Command{
		Use:       "run <" + strings.Join(jobNames(), "|") + ">",
		Short:     "Run one scheduled job now",
		Args:      cobra.ExactArgs(1),
		ValidArgs: jobNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, ok := jobRunners[args[0]]
			if !ok {
				return fmt.Errorf("unknown job %q, expected one of %s", args[0], strings.Join(jobNames(), ", "))
			}
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			start := time.Now()
			count, err := runner(a.scheduler, cmd.Context())
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s failed after %s\n", failMark, args[0], time.Since(start).Round(time.Millisecond))
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s processed %d in %s\n", okMark, args[0], count, time.Since(start).Round(time.Millisecond))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the scheduled jobs and their cron specs",
		Run: func(cmd *cobra.Command, args []string) {
			schedules := map[string]string{
				jobs.JobOverdue:       jobs.OverdueSchedule,
				jobs.JobAlerts:        jobs.AlertsSchedule,
				jobs.JobSubscriptions: jobs.SubscriptionsSchedule,
			}
			for _, name := range jobNames() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-14s %s\n", name, schedules[name])
			}
		},
	})
	return cmd
}

// AlertsCmd returns the alerts command
func AlertsCmd() *cobra.Command {
	var tenantID string
	var suggest bool

	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Evaluate stock alerts for one tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireTenant(tenantID); err != nil {
				return err
			}
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			raised, err := a.alerts.CheckAll(cmd.Context(), tenantID)
			if err != nil {
				return fmt.Errorf("check alerts: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d alerts raised or updated\n", okMark, raised)

			if suggest {
				created, err := a.alerts.GenerateSuggestions(cmd.Context(), tenantID)
				if err != nil {
					return fmt.Errorf("generate suggestions: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %d replenishment suggestions\n", okMark, created)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&tenantID, "tenant", "", "tenant to check (required)")
	cmd.Flags().BoolVar(&suggest, "suggest", false, "also generate replenishment suggestions")
	return cmd
}
