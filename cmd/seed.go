package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/balagrajendran/purchase-management-sub001/internal/database"
	"github.com/balagrajendran/purchase-management-sub001/internal/logger"
	"github.com/balagrajendran/purchase-management-sub001/internal/migrations"
	"github.com/balagrajendran/purchase-management-sub001/internal/seed"
	"github.com/balagrajendran/purchase-management-sub001/internal/settings"
	"github.com/balagrajendran/purchase-management-sub001/internal/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load initial data",
	Long: `Create the canonical settings document and optionally import clients
from a CSV file. The CSV must have a header row with at least a companyName
column; contactPerson, email, phone, gstNumber, panNumber, address, city,
state, postalCode, country, status and notes are also recognized.`,
	Example: `  backoffice seed --clients assets/clients.csv`,
	RunE:    runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().String("clients", "", "Path to a clients CSV file")
}

func runSeed(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("seed")
	clientsPath, _ := cmd.Flags().GetString("clients")

	db, err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()
	if err := migrations.Run(ctx, db); err != nil {
		return err
	}
	st := store.NewSQLStore(db)

	if _, err := settings.NewService(st, nil).Get(ctx); err != nil {
		return err
	}

	if clientsPath == "" {
		log.Info().Msg("no --clients file given, only settings were initialized")
		return nil
	}
	n, err := seed.LoadClients(ctx, st, clientsPath, nil)
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.New("no clients imported")
	}
	return nil
}
