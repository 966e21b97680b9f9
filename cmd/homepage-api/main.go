// Package main implements homepage-api, the HTTP server for portfolio
// projects and their tags.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// addrFlag and dbPathFlag override HOMEPAGE_ADDR and HOMEPAGE_DB_PATH
	addrFlag   string
	dbPathFlag string

	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "homepage-api",
	Short: "HTTP API for portfolio projects and tags",
	Long: `homepage-api serves the projects and tags of a personal homepage.

Configuration is read from HOMEPAGE_* environment variables; flags override
the listen address and the database path.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&addrFlag, "addr", "", "listen address (overrides HOMEPAGE_ADDR)")
	rootCmd.PersistentFlags().StringVar(&dbPathFlag, "db", "", "SQLite database path (overrides HOMEPAGE_DB_PATH)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(healthCmd)
}
