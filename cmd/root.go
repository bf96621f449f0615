package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/balagrajendran/purchase-management-sub001/internal/config"
	"github.com/balagrajendran/purchase-management-sub001/internal/logger"
)

var version = "1.0.0"

// cfg is loaded by main before any command runs.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "backoffice",
	Short: "Back-office API for clients, purchases, invoices, finance and settings",
	Long: `backoffice serves the JSON API behind the purchase management console.

Running it without a subcommand starts the HTTP server. Configuration is read
from the environment (and an optional .env file):
  HTTP_PORT, DATABASE_DRIVER, DATABASE_DSN, SECRET,
  ADMIN_USERNAME, ADMIN_PASSWORD_HASH, CORS_ORIGINS,
  RATE_LIMIT_RPS, RATE_LIMIT_BURST, SETTINGS_STRICT,
  LOG_LEVEL, LOG_FORMAT, LOG_OUTPUT`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

// Execute runs the selected command with the loaded configuration.
func Execute(c config.Config) {
	cfg = c
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}
