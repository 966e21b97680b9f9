package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/FlorianTh2/homepageBackend/pkg/client"
)

var serverURL string

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check a running server",
	Long: `Check that a running server is up and can reach its database.

Examples:
  homepage-api health --server http://localhost:8080`,
	Args: cobra.NoArgs,
	RunE: runHealth,
}

func init() {
	healthCmd.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "homepage API server URL")
}

func runHealth(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	cfg := client.DefaultConfig(serverURL)
	cfg.Retry = client.RetryConfig{MaxAttempts: 1}
	c, err := client.New(cfg)
	if err != nil {
		return err
	}

	if err := c.Health(ctx); err != nil {
		return fmt.Errorf("server unhealthy: %w", err)
	}
	if err := c.Ready(ctx); err != nil {
		return fmt.Errorf("server not ready: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s is healthy\n", serverURL)
	return nil
}
