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
	"golang.org/x/sync/errgroup"

	"cashlens/internal/auth"
	"cashlens/internal/cli"
	apihttp "cashlens/internal/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Start the JSON API on the configured port. The server exposes the
ledger mutations and the derived views consumed by external chart and
report clients, and shuts down gracefully on SIGINT/SIGTERM.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, cleanup, err := cli.OpenLedgerService(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = cleanup() }()

	srv := apihttp.NewServer(apihttp.Config{
		Addr: ":" + cfg.Port,
		Auth: auth.Config{
			Secret:     cfg.AuthJWTSecret,
			CookieName: cfg.AuthCookieName,
		},
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	}, svc)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server starting", "addr", srv.Addr, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", "error", err)
		return err
	}
	logger.Info("Server stopped")
	return nil
}
