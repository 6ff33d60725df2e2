package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saturdayMarket() SeedRule {
	return SeedRule{
		Name:        "Rogers Community Auction",
		Location:    "45625 OH-154, Rogers, OH 44455",
		State:       "OH",
		DayOfWeek:   time.Friday,
		StartMonth:  time.January,
		EndMonth:    time.December,
		Lat:         40.7892,
		Lon:         -80.6212,
		Link:        "https://rogersohio.com/",
		Description: "Open every Friday",
	}
}

func TestExpandSeedRule_OnlyMatchingWeekdaysFromToday(t *testing.T) {
	rule := saturdayMarket()
	rule.Year = 2025
	rule.StartMonth = time.June
	rule.EndMonth = time.June

	// Wednesday June 11 2025.
	events := ExpandSeedRule(rule, day(2025, time.June, 11))

	var dates []string
	for _, e := range events {
		dates = append(dates, e.DateString)
		assert.Equal(t, time.Friday, e.Date.Weekday())
	}
	assert.Equal(t, []string{"6/13/2025", "6/20/2025", "6/27/2025"}, dates)
}

func TestExpandSeedRule_IncludesTodayWhenItMatches(t *testing.T) {
	rule := saturdayMarket()
	rule.Year = 2025
	rule.StartMonth = time.June
	rule.EndMonth = time.June

	events := ExpandSeedRule(rule, time.Date(2025, time.June, 13, 17, 0, 0, 0, time.UTC))

	require.NotEmpty(t, events)
	assert.Equal(t, "6/13/2025", events[0].DateString)
}

func TestExpandSeedRule_CurrentAndNextYear(t *testing.T) {
	rule := saturdayMarket()
	rule.DayOfWeek = time.Saturday
	rule.StartMonth = time.May
	rule.EndMonth = time.October

	events := ExpandSeedRule(rule, day(2025, time.December, 1))

	// Season over for 2025; all dates fall in 2026.
	require.NotEmpty(t, events)
	assert.Equal(t, "5/2/2026", events[0].DateString)
	assert.Equal(t, "10/31/2026", events[len(events)-1].DateString)
	for _, e := range events {
		assert.Equal(t, 2026, e.Date.Year())
	}
}

func TestExpandSeedRule_CarriesRuleFields(t *testing.T) {
	rule := saturdayMarket()
	rule.Year = 2025
	rule.StartMonth = time.June
	rule.EndMonth = time.June

	events := ExpandSeedRule(rule, day(2025, time.June, 1))
	require.NotEmpty(t, events)

	e := events[0]
	assert.Equal(t, rule.Name, e.Name)
	assert.Equal(t, rule.Location, e.LocationString)
	assert.Equal(t, rule.Link, e.Link)
	assert.Equal(t, rule.Description, e.VendorInfo)
	assert.Equal(t, "OH", e.State)
	assert.Equal(t, CategoryWeeklyMarkets, e.Category)
	geo, ok := e.KnownGeo()
	require.True(t, ok)
	assert.Equal(t, Geo{Lat: 40.7892, Lon: -80.6212}, geo)
}

func TestExpandSeedRule_PastPinnedYear(t *testing.T) {
	rule := saturdayMarket()
	rule.Year = 2024
	assert.Empty(t, ExpandSeedRule(rule, day(2025, time.June, 1)))
}

func TestSeedRule_Validate(t *testing.T) {
	valid := saturdayMarket()
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*SeedRule)
	}{
		{name: "missing name", mutate: func(r *SeedRule) { r.Name = "" }},
		{name: "weekday out of range", mutate: func(r *SeedRule) { r.DayOfWeek = 7 }},
		{name: "start month zero", mutate: func(r *SeedRule) { r.StartMonth = 0 }},
		{name: "end before start", mutate: func(r *SeedRule) { r.StartMonth, r.EndMonth = time.May, time.April }},
		{name: "end month out of range", mutate: func(r *SeedRule) { r.EndMonth = 13 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := saturdayMarket()
			tt.mutate(&r)
			assert.Error(t, r.Validate())
		})
	}
}
