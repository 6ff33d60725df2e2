package kafka

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/show-finder-etl/internal/config"
	"github.com/couchcryptid/show-finder-etl/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2025, 6, 10, 8, 30, 0, 0, time.FixedZone("EDT", -4*3600))
	event := domain.CanonicalEvent{
		ID:             "evt-1",
		Name:           "Winter Wonderfest V",
		DateString:     "12/15/2025",
		LocationString: "Hartville, OH",
		Latitude:       40.99,
		Longitude:      -81.33,
		State:          "OH",
		Category:       domain.CategoryFestivals,
	}

	msg, err := serializeToMessage(event, now)
	require.NoError(t, err)

	assert.Equal(t, []byte("evt-1"), msg.Key)
	assert.Contains(t, string(msg.Value), `"dateString":"12/15/2025"`)
	assert.Contains(t, string(msg.Value), `"category":"Festivals & Fairs"`)
	require.Len(t, msg.Headers, 3)
	assert.Equal(t, "category", msg.Headers[0].Key)
	assert.Equal(t, []byte("Festivals & Fairs"), msg.Headers[0].Value)
	assert.Equal(t, "state", msg.Headers[1].Key)
	assert.Equal(t, []byte("OH"), msg.Headers[1].Value)
	assert.Equal(t, "published_at", msg.Headers[2].Key)
	assert.Equal(t, []byte("2025-06-10T12:30:00Z"), msg.Headers[2].Value)
}

func TestNewWriterUsesConfig(t *testing.T) {
	cfg := &config.Config{
		KafkaBrokers:            []string{"broker1:9092", "broker2:9092"},
		KafkaTopic:              "canonical-shows",
		KafkaBatchSize:          25,
		KafkaBatchFlushInterval: 250 * time.Millisecond,
	}

	w := NewWriter(cfg, slog.Default())
	t.Cleanup(func() { _ = w.Close() })

	assert.Equal(t, "canonical-shows", w.writer.Topic)
	assert.Equal(t, 25, w.writer.BatchSize)
	assert.Equal(t, 250*time.Millisecond, w.writer.BatchTimeout)
	assert.Equal(t, "broker1:9092,broker2:9092", w.writer.Addr.String())
}

func TestPublishEmptyIsNoop(t *testing.T) {
	w := NewWriter(&config.Config{KafkaBrokers: []string{"localhost:1"}, KafkaTopic: "t"}, slog.Default())
	t.Cleanup(func() { _ = w.Close() })

	assert.NoError(t, w.Publish(context.Background(), nil))
}
