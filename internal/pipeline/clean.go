package pipeline

import (
	"context"
	"fmt"

	"github.com/couchcryptid/show-finder-etl/internal/domain"
)

// Clean re-validates the persisted output without collecting anything: junk,
// past, undated, duplicate and coordinate-less rows are removed, missing IDs
// and categories are filled in, and the result is saved with a backup.
func (p *Pipeline) Clean(ctx context.Context) (RunResult, error) {
	start := p.clock.Now()
	stats := newRunStats()

	current, err := p.store.Load()
	if err != nil {
		return RunResult{Stats: stats}, fmt.Errorf("load canonical output: %w", err)
	}
	stats.Collected = len(current)
	stats.BySource["output"] = len(current)

	dedup := domain.NewDeduplicator()
	cleaned := make([]domain.CanonicalEvent, 0, len(current))
	for _, c := range current {
		n, reason := domain.Normalize(fromCanonical(c), start)
		if reason != "" {
			stats.drop(reason, 1)
			continue
		}
		geo, ok := n.KnownGeo()
		if !ok {
			stats.drop(domain.DropUnresolved, 1)
			continue
		}
		if !dedup.Admit(n) {
			stats.drop(domain.DropDuplicate, 1)
			continue
		}
		stats.Preresolved++

		id := c.ID
		if id == "" {
			id = p.newID()
		}
		cleaned = append(cleaned, n.Locate(geo).Canonical(id))
	}

	if err := ctx.Err(); err != nil {
		return RunResult{Stats: stats}, err
	}
	if err := p.store.Save(cleaned); err != nil {
		return RunResult{Stats: stats}, fmt.Errorf("persist cleaned output: %w", err)
	}

	stats.record(cleaned)
	stats.Duration = p.clock.Since(start)
	p.metrics.CanonicalEvents.Set(float64(stats.Persisted))
	stats.log(p.logger, "cleanup complete")

	return RunResult{Events: cleaned, Stats: stats}, nil
}

func fromCanonical(c domain.CanonicalEvent) domain.RawEvent {
	return domain.RawEvent{
		Name:           c.Name,
		DateString:     c.DateString,
		LocationString: c.LocationString,
		Link:           c.Link,
		VendorInfo:     c.VendorInfo,
		State:          c.State,
		Category:       c.Category,
		Geo:            &domain.Geo{Lat: c.Latitude, Lon: c.Longitude},
	}
}
