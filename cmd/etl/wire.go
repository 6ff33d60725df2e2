package main

import (
	"log/slog"
	"net/http"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/show-finder-etl/internal/adapter/collector"
	"github.com/couchcryptid/show-finder-etl/internal/adapter/filestore"
	kafkaadapter "github.com/couchcryptid/show-finder-etl/internal/adapter/kafka"
	"github.com/couchcryptid/show-finder-etl/internal/adapter/nominatim"
	"github.com/couchcryptid/show-finder-etl/internal/config"
	"github.com/couchcryptid/show-finder-etl/internal/domain"
	"github.com/couchcryptid/show-finder-etl/internal/observability"
	"github.com/couchcryptid/show-finder-etl/internal/pipeline"
	"github.com/couchcryptid/show-finder-etl/internal/ratelimit"
)

func loadSeedRules(cfg *config.Config) ([]domain.SeedRule, error) {
	if cfg.SeedsPath == "" {
		return collector.DefaultSeedRules(), nil
	}
	return collector.LoadSeedRules(cfg.SeedsPath)
}

// buildCollectors assembles the enabled sources. Seeds run first; the HTML
// scrapers share one limiter so they never hit the web faster than
// COLLECTOR_DELAY combined.
func buildCollectors(cfg *config.Config, clock clockwork.Clock, logger *slog.Logger) ([]pipeline.Collector, error) {
	rules, err := loadSeedRules(cfg)
	if err != nil {
		return nil, err
	}
	collectors := []pipeline.Collector{collector.NewSeeds(rules, clock)}

	opts := collector.HTTPOptions{
		Client:    &http.Client{Timeout: cfg.CollectorTimeout},
		UserAgent: cfg.UserAgent,
		Limiter:   ratelimit.New(cfg.CollectorDelay),
	}

	if cfg.FestivalGuidesEnabled {
		for _, state := range cfg.States {
			fg, err := collector.NewFestivalGuides(state, collector.FestivalGuidesBaseURL, opts)
			if err != nil {
				logger.Warn("skipping festival guide state", "state", state, "error", err)
				continue
			}
			collectors = append(collectors, fg)
		}
	}
	if cfg.ODMallEnabled {
		collectors = append(collectors, collector.NewODMall(collector.ODMallURL, opts))
	}
	for _, path := range cfg.ImportPaths {
		collectors = append(collectors, collector.NewJSONFile(path))
	}

	names := make([]string, len(collectors))
	for i, c := range collectors {
		names[i] = c.Name()
	}
	logger.Info("collectors configured", "sources", names)
	return collectors, nil
}

// buildGeocoder returns nil when geocoding is disabled, which leaves every
// record without seeded coordinates unresolved.
func buildGeocoder(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) domain.Geocoder {
	if !cfg.GeocodeEnabled {
		metrics.GeocodeEnabled.Set(0)
		logger.Info("geocoding disabled")
		return nil
	}
	metrics.GeocodeEnabled.Set(1)
	client := nominatim.NewClient(cfg.GeocodeURL, cfg.UserAgent, cfg.GeocodeTimeout,
		ratelimit.New(cfg.GeocodeDelay), metrics, logger)
	logger.Info("geocoding enabled", "url", cfg.GeocodeURL, "cache_size", cfg.GeocodeCacheSize, "delay", cfg.GeocodeDelay)
	return nominatim.NewCachedGeocoder(client, cfg.GeocodeCacheSize, metrics)
}

func buildPublisher(cfg *config.Config, logger *slog.Logger) *kafkaadapter.Writer {
	if !cfg.PublishEnabled() {
		return nil
	}
	logger.Info("publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	return kafkaadapter.NewWriter(cfg, logger)
}

func newStore(cfg *config.Config, clock clockwork.Clock, logger *slog.Logger) *filestore.Store {
	return filestore.New(cfg.OutputPath, cfg.BackupDir, clock, logger)
}
