package cli

import (
	"database/sql"
	"fmt"

	"erp-service/internal/config"
	"erp-service/internal/migrations"
	"github.com/spf13/cobra"

	_ "github.com/lib/pq"
)

// MigrateCmd returns the migrate command
func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the versioned SQL migrations",
		Long: `Versioned migrations hold the constraints the ORM cannot express:
the append-only inventory log trigger and the partial unique indexes.
The service applies them idempotently at startup; this command tracks
them in the erp_schema_migrations table instead.`,
	}

	cmd.AddCommand(migrateUpCmd())
	cmd.AddCommand(migrateDownCmd())
	cmd.AddCommand(migrateVersionCmd())
	return cmd
}

func openMigrator() (*migrations.Migrator, *sql.DB, error) {
	cfg := config.Load()
	db, err := sql.Open("postgres", cfg.MigrationURL())
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	m, err := migrations.NewMigrator(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return m, db, nil
}

func migrateUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, db, err := openMigrator()
			if err != nil {
				return err
			}
			defer db.Close()
			defer m.Close()

			if err := m.Up(); err != nil {
				return fmt.Errorf("migrate up: %w", err)
			}
			return printVersion(cmd, m)
		},
	}
}

func migrateDownCmd() *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, db, err := openMigrator()
			if err != nil {
				return err
			}
			defer db.Close()
			defer m.Close()

			if err := m.Down(steps); err != nil {
				return fmt.Errorf("migrate down: %w", err)
			}
			return printVersion(cmd, m)
		},
	}

	cmd.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back, 0 rolls back everything")
	return cmd
}

func migrateVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the current migration version",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, db, err := openMigrator()
			if err != nil {
				return err
			}
			defer db.Close()
			defer m.Close()
			return printVersion(cmd, m)
		},
	}
}

func printVersion(cmd *cobra.Command, m *migrations.Migrator) error {
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	mark := okMark
	if dirty {
		mark = failMark
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s schema version %d (dirty=%t)\n", mark, version, dirty)
	return nil
}
