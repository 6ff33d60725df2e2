package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// DefaultStates are the regions scraped by per-state collectors.
const DefaultStates = "OH,PA,NY,MI,IN,KY"

// Config holds all service settings, populated from environment variables.
type Config struct {
	OutputPath  string
	BackupDir   string
	SeedsPath   string
	ImportPaths []string

	States                []string
	FestivalGuidesEnabled bool
	ODMallEnabled         bool
	CollectorTimeout      time.Duration
	CollectorDelay        time.Duration
	UserAgent             string

	// Forward geocoding (Nominatim-compatible search endpoint).
	GeocodeEnabled   bool
	GeocodeURL       string
	GeocodeTimeout   time.Duration
	GeocodeDelay     time.Duration
	GeocodeCacheSize int

	// Optional publishing of canonical events. Disabled when KafkaBrokers is empty.
	KafkaBrokers            []string
	KafkaTopic              string
	KafkaBatchSize          int
	KafkaBatchFlushInterval time.Duration

	HTTPAddr        string
	RunInterval     time.Duration
	ShutdownTimeout time.Duration
	LogLevel        string
	LogFormat       string
}

// PublishEnabled reports whether canonical events should be sent to Kafka.
func (c *Config) PublishEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}
	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}
	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	collectorTimeout, err := parsePositiveDuration("COLLECTOR_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	collectorDelay, err := parseNonNegativeDuration("COLLECTOR_DELAY", "1s")
	if err != nil {
		return nil, err
	}
	geocodeTimeout, err := parsePositiveDuration("GEOCODE_TIMEOUT", "8s")
	if err != nil {
		return nil, err
	}
	geocodeDelay, err := parseNonNegativeDuration("GEOCODE_DELAY", "1s")
	if err != nil {
		return nil, err
	}
	runInterval, err := parseNonNegativeDuration("RUN_INTERVAL", "0s")
	if err != nil {
		return nil, err
	}
	cacheSize, err := parsePositiveInt("GEOCODE_CACHE_SIZE", 1000)
	if err != nil {
		return nil, err
	}
	festivalGuides, err := parseBool("FESTIVALGUIDES_ENABLED", true)
	if err != nil {
		return nil, err
	}
	oddmall, err := parseBool("ODDMALL_ENABLED", true)
	if err != nil {
		return nil, err
	}
	geocodeEnabled, err := parseBool("GEOCODE_ENABLED", true)
	if err != nil {
		return nil, err
	}

	outputPath := sharedcfg.EnvOrDefault("OUTPUT_PATH", "shows.json")

	cfg := &Config{
		OutputPath:  outputPath,
		BackupDir:   sharedcfg.EnvOrDefault("BACKUP_DIR", filepath.Dir(outputPath)),
		SeedsPath:   sharedcfg.EnvOrDefault("SEEDS_PATH", ""),
		ImportPaths: sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("IMPORT_PATHS", "")),

		States:                parseStates(sharedcfg.EnvOrDefault("STATES", DefaultStates)),
		FestivalGuidesEnabled: festivalGuides,
		ODMallEnabled:         oddmall,
		CollectorTimeout:      collectorTimeout,
		CollectorDelay:        collectorDelay,
		UserAgent:             sharedcfg.EnvOrDefault("USER_AGENT", "ShowFinderApp/1.0"),

		GeocodeEnabled:   geocodeEnabled,
		GeocodeURL:       sharedcfg.EnvOrDefault("GEOCODE_URL", "https://nominatim.openstreetmap.org/search"),
		GeocodeTimeout:   geocodeTimeout,
		GeocodeDelay:     geocodeDelay,
		GeocodeCacheSize: cacheSize,

		KafkaBrokers:            sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "")),
		KafkaTopic:              sharedcfg.EnvOrDefault("KAFKA_TOPIC", "canonical-shows"),
		KafkaBatchSize:          batchSize,
		KafkaBatchFlushInterval: flushInterval,

		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		RunInterval:     runInterval,
		ShutdownTimeout: shutdownTimeout,
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
	}

	if len(cfg.States) == 0 && cfg.FestivalGuidesEnabled {
		return nil, errors.New("STATES must list at least one region when FESTIVALGUIDES_ENABLED is true")
	}

	return cfg, nil
}

// parseStates splits a comma list of region codes, uppercasing each.
func parseStates(value string) []string {
	states := sharedcfg.ParseBrokers(value)
	for i, s := range states {
		states[i] = strings.ToUpper(s)
	}
	return states
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive duration", key)
	}
	return d, nil
}

func parseNonNegativeDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s: must be a non-negative duration", key)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := sharedcfg.EnvOrDefault(key, strconv.Itoa(def))
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive integer", key)
	}
	return n, nil
}

func parseBool(key string, def bool) (bool, error) {
	s := sharedcfg.EnvOrDefault(key, strconv.FormatBool(def))
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s: must be true or false", key)
	}
	return b, nil
}
