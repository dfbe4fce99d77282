package main

import (
	"errors"
	"fmt"

	"authapi/config"
	"authapi/internal/migrations"

	"github.com/spf13/cobra"
)

var errDatabaseURLRequired = errors.New("DATABASE_URL environment variable is required")

// NewMigrateCmd creates the migrate subcommand and its up, down and version children.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database schema migrations",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(func(m *migrations.Migrator) error {
				if err := m.Up(); err != nil {
					return err
				}
				cmd.Println("Migrations applied")
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back every migration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(func(m *migrations.Migrator) error {
				if err := m.Down(); err != nil {
					return err
				}
				cmd.Println("Migrations rolled back")
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(func(m *migrations.Migrator) error {
				version, dirty, err := m.Version()
				if err != nil {
					return err
				}
				cmd.Println(formatVersion(version, dirty))
				return nil
			})
		},
	})
	return cmd
}

func withMigrator(run func(*migrations.Migrator) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return errDatabaseURLRequired
	}
	m, err := migrations.NewMigrator(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	runErr := run(m)
	closeErr := m.Close()
	return errors.Join(runErr, closeErr)
}

func formatVersion(version uint, dirty bool) string {
	if dirty {
		return fmt.Sprintf("version %d (dirty)", version)
	}
	return fmt.Sprintf("version %d", version)
}
