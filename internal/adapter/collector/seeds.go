package collector

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jonboulle/clockwork"
	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/show-finder-etl/internal/domain"
)

// SeedsName is the source label of the curated seed collector.
const SeedsName = "seeds"

// Seeds expands curated recurring-market rules into dated events. Its output
// carries fixed coordinates and wins duplicate ties against scraped sources.
type Seeds struct {
	rules []domain.SeedRule
	clock clockwork.Clock
}

// NewSeeds creates a seed collector. A nil clock uses real time.
func NewSeeds(rules []domain.SeedRule, clock clockwork.Clock) *Seeds {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Seeds{rules: rules, clock: clock}
}

func (s *Seeds) Name() string { return SeedsName }

// Curated marks the collector for placement ahead of scraped sources.
func (s *Seeds) Curated() bool { return true }

// Collect expands every rule against today's date.
func (s *Seeds) Collect(_ context.Context) ([]domain.RawEvent, error) {
	today := s.clock.Now()
	var out []domain.RawEvent
	for _, rule := range s.rules {
		for _, e := range domain.ExpandSeedRule(rule, today) {
			out = append(out, e.RawEvent)
		}
	}
	return out, nil
}

type seedFile struct {
	Seeds []domain.SeedRule `yaml:"seeds"`
}

// LoadSeedRules reads rules from a YAML file with a top-level "seeds" list.
func LoadSeedRules(path string) ([]domain.SeedRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	for _, r := range f.Seeds {
		if err := r.Validate(); err != nil {
			return nil, err
		}
	}
	return f.Seeds, nil
}

// DefaultSeedRules are the weekly markets no directory lists reliably.
func DefaultSeedRules() []domain.SeedRule {
	const (
		hartvilleLink = "https://hartvillemarketplace.com"
		andoverLink   = "FB: PymatuningLakeDriveIn"
		tradersLink   = "https://tradersworldmarket.com"
	)
	return []domain.SeedRule{
		yearRound("Rogers Community Auction", "Rogers, OH", time.Friday, 40.7933, -80.6358, "http://rogersohio.com/", "Weekly Friday Flea Market"),
		yearRound("Hartville Marketplace", "Hartville, OH", time.Friday, 40.9691, -81.3323, hartvilleLink, "Hartville Market (Fri)"),
		yearRound("Hartville Marketplace", "Hartville, OH", time.Saturday, 40.9691, -81.3323, hartvilleLink, "Hartville Market (Sat)"),
		yearRound("Hartville Marketplace", "Hartville, OH", time.Monday, 40.9691, -81.3323, hartvilleLink, "Hartville Market (Mon)"),
		seasonal("Andover Drive-In Flea Market", "Andover, OH", time.Saturday, time.May, time.October, 41.6067, -80.5739, andoverLink, "Weekly Saturday Flea"),
		seasonal("Andover Drive-In Flea Market", "Andover, OH", time.Sunday, time.May, time.October, 41.6067, -80.5739, andoverLink, "Weekly Sunday Flea"),
		yearRound("Traders World Flea Market", "Lebanon, OH", time.Saturday, 39.4550, -84.3466, tradersLink, "Traders World (Sat)"),
		yearRound("Traders World Flea Market", "Lebanon, OH", time.Sunday, 39.4550, -84.3466, tradersLink, "Traders World (Sun)"),
	}
}

func yearRound(name, location string, day time.Weekday, lat, lon float64, link, desc string) domain.SeedRule {
	return seasonal(name, location, day, time.January, time.December, lat, lon, link, desc)
}

func seasonal(name, location string, day time.Weekday, start, end time.Month, lat, lon float64, link, desc string) domain.SeedRule {
	return domain.SeedRule{
		Name:        name,
		Location:    location,
		State:       "OH",
		DayOfWeek:   day,
		StartMonth:  start,
		EndMonth:    end,
		Lat:         lat,
		Lon:         lon,
		Link:        link,
		Description: desc,
	}
}
