package nominatim

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/couchcryptid/show-finder-etl/internal/observability"
	"github.com/couchcryptid/show-finder-etl/internal/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testUserAgent     = "ShowFinderApp/1.0 (test)"
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

func testClient(baseURL string, timeout time.Duration) *Client {
	return NewClient(baseURL, testUserAgent, timeout, ratelimit.Unlimited(),
		observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClient_ForwardGeocode_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Hartville, OH", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, testUserAgent, r.Header.Get("User-Agent"))

		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode([]place{
			{Lat: "40.9911714", Lon: "-81.3334487", DisplayName: "Hartville, Stark County, Ohio, United States"},
		}))
	}))
	defer srv.Close()

	result, err := testClient(srv.URL, 5*time.Second).ForwardGeocode(context.Background(), "Hartville, OH")
	require.NoError(t, err)

	assert.InDelta(t, 40.9911714, result.Lat, 1e-9)
	assert.InDelta(t, -81.3334487, result.Lon, 1e-9)
	assert.Equal(t, "Hartville, Stark County, Ohio, United States", result.DisplayName)
}

func TestClient_ForwardGeocode_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	result, err := testClient(srv.URL, 5*time.Second).ForwardGeocode(context.Background(), "Nowhere, XX")
	require.NoError(t, err)
	assert.True(t, result.Empty())
}

func TestClient_ForwardGeocode_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`<html>Access blocked</html>`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 5*time.Second).ForwardGeocode(context.Background(), "Hartville, OH")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestClient_ForwardGeocode_BadCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"lat":"north","lon":"-81.3"}]`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 5*time.Second).ForwardGeocode(context.Background(), "Hartville, OH")
	require.Error(t, err)
}

func TestClient_ForwardGeocode_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error":`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 5*time.Second).ForwardGeocode(context.Background(), "Hartville, OH")
	require.Error(t, err)
}

func TestClient_ForwardGeocode_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 50*time.Millisecond).ForwardGeocode(context.Background(), "Hartville, OH")
	require.Error(t, err)
}

func TestClient_ForwardGeocode_WaitsOnLimiter(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testUserAgent, time.Second, ratelimit.New(40*time.Millisecond),
		observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	start := time.Now()
	for range 2 {
		_, err := c.ForwardGeocode(context.Background(), "Hartville, OH")
		require.NoError(t, err)
	}

	assert.GreaterOrEqual(t, time.Since(start), 70*time.Millisecond)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_ForwardGeocode_CancelledWhileWaiting(t *testing.T) {
	c := NewClient("http://127.0.0.1:0", testUserAgent, time.Second, ratelimit.New(time.Hour),
		observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ForwardGeocode(ctx, "Hartville, OH")
	require.Error(t, err)
}
