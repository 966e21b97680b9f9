package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FlorianTh2/homepageBackend/internal/config"
	"github.com/FlorianTh2/homepageBackend/internal/storage/sqlite"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the database schema",
	Long: `Apply pending schema migrations to the SQLite database and exit.

The server applies migrations on start as well; this command prepares a
database ahead of a deployment.

Examples:
  homepage-api migrate --db /var/lib/homepage/homepage.db`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	path := dbPathFlag
	if path == "" {
		var err error
		if path, err = config.StoragePath(); err != nil {
			return err
		}
	}

	db, err := sqlite.Open(path, sqlite.WithoutMigrations())
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer db.Close()

	applied, err := sqlite.Migrate(cmd.Context(), db)
	for _, m := range applied {
		fmt.Fprintf(cmd.OutOrStdout(), "Applied %s\n", m.Name)
	}
	if err != nil {
		return fmt.Errorf("migrate %s: %w", path, err)
	}
	if len(applied) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Database %s is up to date\n", path)
	}
	return nil
}
