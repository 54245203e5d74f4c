package cli

import (
	"bytes"
	"testing"

	"erp-service/internal/models"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	m.Run()
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := NewRootCmd()

	names := make([]string, 0)
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	assert.ElementsMatch(t, []string{"migrate", "seed", "jobs", "alerts", "status"}, names)

	migrate, _, err := root.Find([]string{"migrate", "down"})
	require.NoError(t, err)
	steps := migrate.Flags().Lookup("steps")
	require.NotNil(t, steps)
	assert.Equal(t, "1", steps.DefValue)
}

func TestJobNames_Sorted(t *testing.T) {
	assert.Equal(t, []string{"alerts", "overdue", "subscriptions"}, jobNames())
}

func TestJobsRun_UnknownJob(t *testing.T) {
	root := NewRootCmd()
	root.SetArgs([]string{"jobs", "run", "vacuum"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown job "vacuum"`)
}

func TestTenantRequired(t *testing.T) {
	for _, args := range [][]string{{"seed"}, {"alerts"}, {"status"}} {
		root := NewRootCmd()
		root.SetArgs(args)
		root.SetOut(&bytes.Buffer{})
		root.SetErr(&bytes.Buffer{})

		err := root.Execute()
		require.Error(t, err, args[0])
		assert.Contains(t, err.Error(), "--tenant is required")
	}
}

func TestJobsList(t *testing.T) {
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetArgs([]string{"jobs", "list"})
	root.SetOut(&out)

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "overdue        0 1 * * *")
	assert.Contains(t, out.String(), "alerts         */30 * * * *")
}

func TestPrintStatus(t *testing.T) {
	var out bytes.Buffer
	printStatus(&out, "t1",
		&models.DashboardStats{TodaySales: 120.5, TodayOrders: 3, PendingOrders: 1, LowStockCount: 2},
		&models.AlertStatistics{Total: 2, Red: 1, Yellow: 1},
		&models.AgingReport{
			Buckets:     []models.AgingBucketTotal{{Bucket: "0-30", Count: 2, Amount: 300}},
			TotalCount:  2,
			TotalAmount: 300,
		})

	text := out.String()
	assert.Contains(t, text, "Tenant t1")
	assert.Contains(t, text, "120.50 (3 orders)")
	assert.Contains(t, text, "Red            1")
	assert.Contains(t, text, "0-30           300.00 (2)")
	assert.Contains(t, text, "total          300.00 (2)")
}
