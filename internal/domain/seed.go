package domain

import (
	"errors"
	"fmt"
	"time"
)

// SeedRule describes a recurring market that no site lists reliably, e.g. a
// flea market open every Saturday from May through October.
type SeedRule struct {
	Name        string       `yaml:"name"`
	Location    string       `yaml:"location"`
	State       string       `yaml:"state"`
	DayOfWeek   time.Weekday `yaml:"day_of_week"` // 0 = Sunday
	StartMonth  time.Month   `yaml:"start_month"` // 1-12, inclusive
	EndMonth    time.Month   `yaml:"end_month"`   // 1-12, inclusive
	Year        int          `yaml:"year,omitempty"`
	Lat         float64      `yaml:"lat"`
	Lon         float64      `yaml:"lon"`
	Link        string       `yaml:"link"`
	Description string       `yaml:"description"`
}

// Validate checks the rule's calendar fields.
func (r SeedRule) Validate() error {
	if r.Name == "" {
		return errors.New("seed rule: name is required")
	}
	if r.DayOfWeek < time.Sunday || r.DayOfWeek > time.Saturday {
		return fmt.Errorf("seed rule %q: day_of_week %d out of range 0-6", r.Name, r.DayOfWeek)
	}
	if r.StartMonth < time.January || r.StartMonth > time.December {
		return fmt.Errorf("seed rule %q: start_month %d out of range 1-12", r.Name, r.StartMonth)
	}
	if r.EndMonth < r.StartMonth || r.EndMonth > time.December {
		return fmt.Errorf("seed rule %q: end_month %d must be between start_month and 12", r.Name, r.EndMonth)
	}
	return nil
}

// years returns the calendar years the rule covers: its pinned year, or the
// current and next year.
func (r SeedRule) years(today time.Time) []int {
	if r.Year != 0 {
		return []int{r.Year}
	}
	return []int{today.Year(), today.Year() + 1}
}

// ExpandSeedRule emits one event per matching weekday from today through the
// end of the rule's month range, for each year the rule covers.
func ExpandSeedRule(rule SeedRule, today time.Time) []NormalizedEvent {
	today = midnight(today)
	loc := today.Location()

	var events []NormalizedEvent
	for _, year := range rule.years(today) {
		start := time.Date(year, rule.StartMonth, 1, 0, 0, 0, 0, loc)
		end := time.Date(year, rule.EndMonth+1, 0, 0, 0, 0, 0, loc) // last day of EndMonth
		if start.Before(today) {
			start = today
		}
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			if d.Weekday() != rule.DayOfWeek {
				continue
			}
			events = append(events, NormalizedEvent{
				RawEvent: RawEvent{
					Name:           rule.Name,
					DateString:     FormatDate(d),
					LocationString: rule.Location,
					Link:           rule.Link,
					VendorInfo:     rule.Description,
					State:          rule.State,
					Category:       CategoryWeeklyMarkets,
					Geo:            &Geo{Lat: rule.Lat, Lon: rule.Lon},
				},
				Date: d,
			})
		}
	}
	return events
}
