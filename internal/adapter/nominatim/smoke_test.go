//go:build nominatim

package nominatim

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/show-finder-etl/internal/observability"
	"github.com/couchcryptid/show-finder-etl/internal/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit the public Nominatim API. Keep them few; the usage policy
// allows one request per second.
// Run with: go test -tags=nominatim ./internal/adapter/nominatim/ -v -count=1

func smokeClient() *Client {
	return NewClient(DefaultURL, "ShowFinderApp/1.0 (smoke test)", 10*time.Second,
		ratelimit.New(time.Second), observability.NewMetricsForTesting(),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSmoke_ForwardGeocode(t *testing.T) {
	result, err := smokeClient().ForwardGeocode(context.Background(), "Hartville, OH")
	require.NoError(t, err)

	assert.InDelta(t, 40.99, result.Lat, 0.1, "lat should be near Hartville")
	assert.InDelta(t, -81.33, result.Lon, 0.1, "lon should be near Hartville")
	assert.Contains(t, result.DisplayName, "Hartville")
}

func TestSmoke_ForwardGeocode_NoMatch(t *testing.T) {
	result, err := smokeClient().ForwardGeocode(context.Background(), "zzqxv nowhere qqzzx")
	require.NoError(t, err)
	assert.True(t, result.Empty())
}
