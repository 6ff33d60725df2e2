package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/show-finder-etl/internal/domain"
	"github.com/couchcryptid/show-finder-etl/internal/observability"
)

const defaultCollectorTimeout = 5 * time.Minute

// Collector produces raw records from one origin. A returned error means the
// source contributed nothing this run; it never aborts the run.
type Collector interface {
	Name() string
	Collect(ctx context.Context) ([]domain.RawEvent, error)
}

// Store persists the canonical output. Save replaces the whole dataset.
type Store interface {
	Save(events []domain.CanonicalEvent) error
	Load() ([]domain.CanonicalEvent, error)
}

// Publisher forwards a run's canonical events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, events []domain.CanonicalEvent) error
}

// curatedCollector is implemented by collectors whose records must win
// duplicate ties, such as hand-maintained seed rules.
type curatedCollector interface {
	Curated() bool
}

// stateCollector is implemented by collectors scoped to a single region.
type stateCollector interface {
	State() string
}

// Pipeline runs full rebuilds of the canonical show list.
type Pipeline struct {
	collectors       []Collector
	geocoder         domain.Geocoder
	store            Store
	publisher        Publisher
	logger           *slog.Logger
	metrics          *observability.Metrics
	clock            clockwork.Clock
	newID            func() string
	interval         time.Duration
	collectorTimeout time.Duration
	ready            atomic.Bool
}

// Option configures optional Pipeline behavior.
type Option func(*Pipeline)

// WithPublisher publishes every persisted result set.
func WithPublisher(pub Publisher) Option {
	return func(p *Pipeline) { p.publisher = pub }
}

// WithInterval makes Run repeat on the given interval instead of running once.
func WithInterval(d time.Duration) Option {
	return func(p *Pipeline) { p.interval = d }
}

// WithClock overrides the time source used for "today" and scheduling.
func WithClock(c clockwork.Clock) Option {
	return func(p *Pipeline) { p.clock = c }
}

// WithIDGenerator overrides how canonical event IDs are minted.
func WithIDGenerator(fn func() string) Option {
	return func(p *Pipeline) { p.newID = fn }
}

// WithCollectorTimeout bounds each collector's Collect call.
func WithCollectorTimeout(d time.Duration) Option {
	return func(p *Pipeline) { p.collectorTimeout = d }
}

// New creates a Pipeline. Curated collectors are moved ahead of the rest,
// keeping relative order otherwise. A nil geocoder leaves every record without
// known coordinates unresolved.
func New(collectors []Collector, geocoder domain.Geocoder, store Store, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Pipeline {
	ordered := make([]Collector, len(collectors))
	copy(ordered, collectors)
	sort.SliceStable(ordered, func(i, j int) bool {
		return isCurated(ordered[i]) && !isCurated(ordered[j])
	})

	p := &Pipeline{
		collectors:       ordered,
		geocoder:         geocoder,
		store:            store,
		logger:           logger,
		metrics:          metrics,
		clock:            clockwork.NewRealClock(),
		newID:            uuid.NewString,
		collectorTimeout: defaultCollectorTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CheckReadiness returns nil once a run has persisted its output.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not completed a run yet")
	}
	return nil
}

// Catalog returns the persisted canonical events.
func (p *Pipeline) Catalog(_ context.Context) ([]domain.CanonicalEvent, error) {
	return p.store.Load()
}

// Run executes one rebuild, or when an interval is set, repeats rebuilds until
// the context is cancelled. Failed scheduled runs are logged and retried on
// the next tick.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "collectors", len(p.collectors), "interval", p.interval)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	if p.interval <= 0 {
		_, err := p.RunOnce(ctx)
		return err
	}

	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if _, err := p.RunOnce(ctx); err != nil {
			if ctx.Err() != nil {
				p.logger.Info("pipeline stopping", "reason", ctx.Err())
				return nil
			}
			p.logger.Error("pipeline run failed", "error", err)
		}

		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
		}
	}
}

// RunResult is the outcome of one rebuild.
type RunResult struct {
	Events []domain.CanonicalEvent
	Stats  *RunStats
}

// RunOnce collects, normalizes, deduplicates, geocodes and persists the full
// canonical list. Only persistence failures (and cancellation) are returned as
// errors; everything else degrades to dropped records.
func (p *Pipeline) RunOnce(ctx context.Context) (RunResult, error) {
	start := p.clock.Now()
	stats := newRunStats()

	raws := p.collect(ctx, stats)
	normalized := p.normalize(raws, start, stats)

	deduped := domain.NewDeduplicator().Dedupe(normalized)
	stats.drop(domain.DropDuplicate, len(normalized)-len(deduped))

	located := p.locate(ctx, deduped, stats)

	events := make([]domain.CanonicalEvent, 0, len(located))
	for _, e := range located {
		events = append(events, e.Canonical(p.newID()))
	}

	if err := ctx.Err(); err != nil {
		p.metrics.Runs.WithLabelValues("error").Inc()
		return RunResult{Stats: stats}, fmt.Errorf("run cancelled before persisting: %w", err)
	}
	if err := p.store.Save(events); err != nil {
		p.metrics.Runs.WithLabelValues("error").Inc()
		return RunResult{Stats: stats}, fmt.Errorf("persist canonical output: %w", err)
	}

	p.publish(ctx, events)

	stats.record(events)
	stats.Duration = p.clock.Since(start)
	p.observe(stats)
	p.ready.Store(true)
	stats.log(p.logger, "pipeline run complete")

	return RunResult{Events: events, Stats: stats}, nil
}

// collect runs every collector in order, tagging records with their source.
func (p *Pipeline) collect(ctx context.Context, stats *RunStats) []domain.RawEvent {
	var all []domain.RawEvent
	for _, c := range p.collectors {
		name := c.Name()
		records, err := p.collectOne(ctx, c)
		if err != nil {
			p.logger.Warn("collector failed", "source", name, "error", err)
			p.metrics.CollectorErrors.WithLabelValues(name).Inc()
			stats.FailedSources = append(stats.FailedSources, name)
			continue
		}

		var state string
		if sc, ok := c.(stateCollector); ok {
			state = sc.State()
		}
		for i := range records {
			records[i].Source = name
			if records[i].State == "" {
				records[i].State = state
			}
		}

		p.logger.Info("collector finished", "source", name, "count", len(records))
		p.metrics.CollectorRecords.WithLabelValues(name).Add(float64(len(records)))
		stats.BySource[name] += len(records)
		stats.Collected += len(records)
		all = append(all, records...)
	}
	return all
}

// collectOne isolates a single collector: timeouts and panics become errors.
func (p *Pipeline) collectOne(ctx context.Context, c Collector) (records []domain.RawEvent, err error) {
	defer func() {
		if r := recover(); r != nil {
			records, err = nil, fmt.Errorf("collector panicked: %v", r)
		}
	}()

	if p.collectorTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.collectorTimeout)
		defer cancel()
	}
	return c.Collect(ctx)
}

func (p *Pipeline) normalize(raws []domain.RawEvent, today time.Time, stats *RunStats) []domain.NormalizedEvent {
	out := make([]domain.NormalizedEvent, 0, len(raws))
	for _, raw := range raws {
		e, reason := domain.Normalize(raw, today)
		if reason != "" {
			stats.drop(reason, 1)
			continue
		}
		out = append(out, e)
	}
	return out
}

// locate attaches coordinates, using collector-supplied ones when present and
// geocoding the rest one at a time. Unresolved records are dropped.
func (p *Pipeline) locate(ctx context.Context, events []domain.NormalizedEvent, stats *RunStats) []domain.LocatedEvent {
	out := make([]domain.LocatedEvent, 0, len(events))
	for _, e := range events {
		if geo, ok := e.KnownGeo(); ok {
			stats.Preresolved++
			out = append(out, e.Locate(geo))
			continue
		}
		if ctx.Err() != nil {
			stats.drop(domain.DropUnresolved, 1)
			continue
		}

		geo, ok := domain.ResolveLocation(ctx, domain.GeocodeQuery(e.RawEvent), p.geocoder, p.logger)
		if !ok {
			p.logger.Debug("dropping unresolved event", "name", e.Name, "location", e.LocationString, "source", e.Source)
			stats.drop(domain.DropUnresolved, 1)
			continue
		}
		stats.Geocoded++
		out = append(out, e.Locate(geo))
	}
	return out
}

// publish forwards events downstream. Failures are logged and counted only;
// the canonical file is already committed.
func (p *Pipeline) publish(ctx context.Context, events []domain.CanonicalEvent) {
	if p.publisher == nil || len(events) == 0 {
		return
	}
	if err := p.publisher.Publish(ctx, events); err != nil {
		p.logger.Error("publish canonical events failed", "error", err, "count", len(events))
		p.metrics.PublishErrors.Inc()
	}
}

func (p *Pipeline) observe(stats *RunStats) {
	for reason, n := range stats.Dropped {
		p.metrics.RecordsDropped.WithLabelValues(string(reason)).Add(float64(n))
	}
	p.metrics.Runs.WithLabelValues("success").Inc()
	p.metrics.RunDuration.Observe(stats.Duration.Seconds())
	p.metrics.CanonicalEvents.Set(float64(stats.Persisted))
	p.metrics.LastRunTimestamp.Set(float64(p.clock.Now().Unix()))
}

func isCurated(c Collector) bool {
	cc, ok := c.(curatedCollector)
	return ok && cc.Curated()
}
