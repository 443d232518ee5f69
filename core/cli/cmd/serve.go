package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ebspulse/ebspulse/core/infrastructure/config"
	"github.com/ebspulse/ebspulse/core/infrastructure/di"
	"github.com/ebspulse/ebspulse/core/infrastructure/logging"
	"github.com/ebspulse/ebspulse/core/infrastructure/observability"
	httptransport "github.com/ebspulse/ebspulse/core/infrastructure/transport/http"
)

// serveCmd starts the HTTP API
var serveCmd = &cobra.Command{
	Use:           "serve",
	Short:         "Serve the monitoring API over HTTP",
	RunE:          runServe,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "Server port (overrides config file, PORT and "+config.EnvPort+")")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := prepareConfig()
	if err != nil {
		return err
	}
	log := logging.New("main")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Observability.ServiceVersion == "dev" {
		cfg.Observability.ServiceVersion = GetVersion()
	}
	providers, err := observability.Setup(ctx, cfg.Observability)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			log.Warnf("Error shutting down observability: %v", err)
		}
	}()

	container, err := di.NewContainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := container.Close(); err != nil {
			log.Warnf("Error closing database pool: %v", err)
		}
		log.Infof("Database pool closed")
	}()

	server, err := httptransport.NewServer(cfg.Server)
	if err != nil {
		return err
	}
	baseURL := fmt.Sprintf("http://localhost:%s", server.Port())
	if err := httptransport.RegisterRoutes(server.Router(), container.Catalog, container.ReportService, baseURL, GetVersion()); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.ListenAndServe)
	g.Go(func() error {
		<-gctx.Done()
		log.Infof("Received shutdown signal")
		return server.Shutdown(context.Background())
	})

	return g.Wait()
}
