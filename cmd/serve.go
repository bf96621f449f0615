package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/balagrajendran/purchase-management-sub001/internal/api"
	"github.com/balagrajendran/purchase-management-sub001/internal/database"
	"github.com/balagrajendran/purchase-management-sub001/internal/logger"
	"github.com/balagrajendran/purchase-management-sub001/internal/migrations"
	"github.com/balagrajendran/purchase-management-sub001/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Connect to the database, apply migrations and serve the API until
interrupted. In-flight requests are given a grace period on shutdown.`,
	Example: `  # SQLite file in the working directory
  backoffice serve

  # Postgres
  DATABASE_DRIVER=postgres DB_HOST=localhost DB_NAME=backoffice backoffice serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Duration("shutdown-timeout", 10*time.Second, "Grace period for in-flight requests on shutdown")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("serve")

	shutdownTimeout := 10 * time.Second
	if cmd.Flags().Lookup("shutdown-timeout") != nil {
		shutdownTimeout, _ = cmd.Flags().GetDuration("shutdown-timeout")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrations.Run(ctx, db); err != nil {
		return err
	}

	if !cfg.AuthEnabled() {
		log.Warn().Msg("ADMIN_PASSWORD_HASH is not set, API routes are unauthenticated")
	}

	handler := api.New(store.NewSQLStore(db), api.Options{
		Secret:            cfg.Secret,
		AdminUsername:     cfg.AdminUsername,
		AdminPasswordHash: cfg.AdminPasswordHash,
		CORSOrigins:       cfg.CORSOrigins,
		RateLimitRPS:      cfg.RateLimitRPS,
		RateLimitBurst:    cfg.RateLimitBurst,
		SettingsStrict:    cfg.SettingsStrict,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("driver", cfg.DatabaseDriver).
			Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
