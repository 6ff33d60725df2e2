package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/show-finder-etl/internal/config"
	"github.com/couchcryptid/show-finder-etl/internal/domain"
	"github.com/couchcryptid/show-finder-etl/internal/observability"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSeedsCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seeds.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`seeds:
  - name: Test Drive-In Flea
    location: Andover, OH
    state: OH
    day_of_week: 5
    start_month: 1
    end_month: 1
    year: 2099
    lat: 41.6
    lon: -80.5
    description: Weekly Friday Flea
`), 0o644))
	t.Setenv("SEEDS_PATH", path)

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"seeds"})
	require.NoError(t, cmd.Execute())

	var events []domain.CanonicalEvent
	require.NoError(t, json.Unmarshal(out.Bytes(), &events))

	// Fridays in January 2099.
	require.Len(t, events, 5)
	assert.Equal(t, "1/2/2099", events[0].DateString)
	for _, e := range events {
		assert.Equal(t, domain.CategoryWeeklyMarkets, e.Category)
		assert.Equal(t, 41.6, e.Latitude)
	}
}

func TestSeedsCommand_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seeds.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seeds:\n  - name: Bad\n    start_month: 13\n    end_month: 13\n"), 0o644))
	t.Setenv("SEEDS_PATH", path)

	cmd := newRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetArgs([]string{"seeds"})
	assert.Error(t, cmd.Execute())
}

func TestBuildCollectors(t *testing.T) {
	cfg := &config.Config{
		States:                []string{"OH", "PA", "ZZ"},
		FestivalGuidesEnabled: true,
		ODMallEnabled:         true,
		ImportPaths:           []string{"/tmp/discovered.json"},
		UserAgent:             "test",
	}

	collectors, err := buildCollectors(cfg, clockwork.NewFakeClock(), discardLogger())
	require.NoError(t, err)

	names := make([]string, len(collectors))
	for i, c := range collectors {
		names[i] = c.Name()
	}
	assert.Equal(t, []string{"seeds", "festivalguides:OH", "festivalguides:PA", "oddmall", "import:discovered"}, names)
}

func TestBuildCollectors_SeedsOnly(t *testing.T) {
	collectors, err := buildCollectors(&config.Config{}, clockwork.NewFakeClock(), discardLogger())
	require.NoError(t, err)
	require.Len(t, collectors, 1)
	assert.Equal(t, "seeds", collectors[0].Name())
}

func TestBuildGeocoderDisabled(t *testing.T) {
	g := buildGeocoder(&config.Config{GeocodeEnabled: false}, observability.NewMetricsForTesting(), discardLogger())
	assert.Nil(t, g)
}

func TestBuildGeocoderEnabled(t *testing.T) {
	cfg := &config.Config{GeocodeEnabled: true, GeocodeURL: "http://localhost:1/search", GeocodeCacheSize: 10}
	g := buildGeocoder(cfg, observability.NewMetricsForTesting(), discardLogger())
	assert.NotNil(t, g)
}

func TestBuildPublisher(t *testing.T) {
	assert.Nil(t, buildPublisher(&config.Config{}, discardLogger()))

	w := buildPublisher(&config.Config{KafkaBrokers: []string{"localhost:9092"}, KafkaTopic: "t"}, discardLogger())
	require.NotNil(t, w)
	assert.NoError(t, w.Close())
}
