package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	httpadapter "github.com/couchcryptid/show-finder-etl/internal/adapter/http"
	"github.com/couchcryptid/show-finder-etl/internal/config"
	"github.com/couchcryptid/show-finder-etl/internal/domain"
	"github.com/couchcryptid/show-finder-etl/internal/observability"
	"github.com/couchcryptid/show-finder-etl/internal/pipeline"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "etl",
		Short: "Collect, clean and geocode upcoming vendor shows into one JSON catalog",
		Long: `Rebuilds the canonical show catalog from curated seed rules, festival
directories and JSON imports. Configuration is read from the environment.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newRunCmd(), newCleanCmd(), newSeedsCmd())
	return cmd
}

func newRunCmd() *cobra.Command {
	var once bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Rebuild the catalog, repeating on RUN_INTERVAL when set",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if once {
				cfg.RunInterval = 0
			}
			return runService(cmd.Context(), cfg)
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "Run a single rebuild and exit, ignoring RUN_INTERVAL")
	return cmd
}

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Re-validate the existing catalog without collecting",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger := observability.NewLogger(cfg)
			clock := clockwork.NewRealClock()
			domain.SetClock(clock)

			p := pipeline.New(nil, nil, newStore(cfg, clock, logger), logger, observability.NewMetrics(),
				pipeline.WithClock(clock))
			_, err = p.Clean(cmd.Context())
			return err
		},
	}
}

func newSeedsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seeds",
		Short: "Print the events the seed rules expand to, as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			rules, err := loadSeedRules(cfg)
			if err != nil {
				return err
			}

			today := domain.Today()
			out := []domain.CanonicalEvent{}
			for _, rule := range rules {
				for _, e := range domain.ExpandSeedRule(rule, today) {
					out = append(out, e.Locate(*e.Geo).Canonical(""))
				}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}

// runService wires every component and runs the pipeline until it finishes or
// the process is signalled. The HTTP server only runs for scheduled mode.
func runService(parent context.Context, cfg *config.Config) error {
	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()
	domain.SetClock(clock)

	collectors, err := buildCollectors(cfg, clock, logger)
	if err != nil {
		return err
	}
	geocoder := buildGeocoder(cfg, metrics, logger)

	opts := []pipeline.Option{
		pipeline.WithClock(clock),
		pipeline.WithInterval(cfg.RunInterval),
	}
	publisher := buildPublisher(cfg, logger)
	if publisher != nil {
		defer func() {
			if err := publisher.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		opts = append(opts, pipeline.WithPublisher(publisher))
	}

	p := pipeline.New(collectors, geocoder, newStore(cfg, clock, logger), logger, metrics, opts...)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var srv *httpadapter.Server
	if cfg.HTTPAddr != "" && cfg.RunInterval > 0 {
		srv = httpadapter.NewServer(cfg.HTTPAddr, p, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
	}

	runErr := p.Run(ctx)

	if srv != nil {
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
	}

	if runErr != nil {
		return runErr
	}
	logger.Info("shutdown complete")
	return nil
}
