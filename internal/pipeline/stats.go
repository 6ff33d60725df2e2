package pipeline

import (
	"log/slog"
	"time"

	"github.com/couchcryptid/show-finder-etl/internal/domain"
)

const unknownState = "Unknown"

// RunStats counts what happened to records during one run.
type RunStats struct {
	Collected     int
	BySource      map[string]int
	FailedSources []string
	Dropped       map[domain.DropReason]int
	Preresolved   int
	Geocoded      int
	Persisted     int
	ByCategory    map[domain.Category]int
	ByState       map[string]int
	Duration      time.Duration
}

func newRunStats() *RunStats {
	return &RunStats{
		BySource:   make(map[string]int),
		Dropped:    make(map[domain.DropReason]int),
		ByCategory: make(map[domain.Category]int),
		ByState:    make(map[string]int),
	}
}

func (s *RunStats) drop(reason domain.DropReason, n int) {
	if n > 0 {
		s.Dropped[reason] += n
	}
}

// TotalDropped sums drops across all reasons.
func (s *RunStats) TotalDropped() int {
	total := 0
	for _, n := range s.Dropped {
		total += n
	}
	return total
}

// record tallies the persisted events by category and state.
func (s *RunStats) record(events []domain.CanonicalEvent) {
	s.Persisted = len(events)
	for _, e := range events {
		s.ByCategory[e.Category]++
		state := e.State
		if state == "" {
			state = unknownState
		}
		s.ByState[state]++
	}
}

func (s *RunStats) log(logger *slog.Logger, msg string) {
	dropped := make(map[string]int, len(s.Dropped))
	for reason, n := range s.Dropped {
		dropped[string(reason)] = n
	}
	categories := make(map[string]int, len(s.ByCategory))
	for c, n := range s.ByCategory {
		categories[string(c)] = n
	}

	logger.Info(msg,
		"collected", s.Collected,
		"persisted", s.Persisted,
		"dropped", s.TotalDropped(),
		"preresolved", s.Preresolved,
		"geocoded", s.Geocoded,
		"failed_sources", s.FailedSources,
		"duration", s.Duration,
		slog.Any("by_source", s.BySource),
		slog.Any("by_drop_reason", dropped),
		slog.Any("by_category", categories),
		slog.Any("by_state", s.ByState),
	)
}
