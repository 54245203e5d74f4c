package migrations

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpScriptsOrdered(t *testing.T) {
	names, err := UpScripts()
	require.NoError(t, err)
	require.Len(t, names, 4)
	assert.Equal(t, "000001_inventory_logs_append_only.up.sql", names[0])
	assert.Equal(t, "000004_unique_receivable_per_order.up.sql", names[3])
}

func TestEveryUpScriptHasDown(t *testing.T) {
	names, err := UpScripts()
	require.NoError(t, err)
	for _, name := range names {
		down := name[:len(name)-len(".up.sql")] + ".down.sql"
		_, err := files.ReadFile(sourceDir + "/" + down)
		assert.NoError(t, err, down)
	}
}

func TestApply(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE OR REPLACE FUNCTION inventory_logs_append_only()")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE UNIQUE INDEX IF NOT EXISTS idx_stock_tenant_product_warehouse")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE UNIQUE INDEX IF NOT EXISTS idx_stocktakes_open_per_warehouse")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE UNIQUE INDEX IF NOT EXISTS idx_receivables_order")).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, Apply(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyStopsOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("inventory_logs_append_only").WillReturnError(errors.New("permission denied"))

	err = Apply(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "000001_inventory_logs_append_only.up.sql")
	assert.NoError(t, mock.ExpectationsWereMet())
}
