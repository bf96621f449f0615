package cmd

import (
	"github.com/spf13/cobra"

	"github.com/balagrajendran/purchase-management-sub001/internal/database"
	"github.com/balagrajendran/purchase-management-sub001/internal/logger"
	"github.com/balagrajendran/purchase-management-sub001/internal/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.WithComponent("migrate")

		db, err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseDSN)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := migrations.Run(cmd.Context(), db); err != nil {
			return err
		}
		log.Info().Str("driver", cfg.DatabaseDriver).Msg("schema up to date")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
