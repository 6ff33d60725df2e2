package domain

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	today := day(2025, time.June, 10)

	raw := RawEvent{
		Name:           "  Winter Wonderfest V ",
		DateString:     "12/15-12/20",
		LocationString: "Hartville, OH",
		State:          "OH",
		Source:         "festivalguides:OH",
	}

	got, reason := Normalize(raw, today)

	require.Empty(t, reason)
	assert.Equal(t, "Winter Wonderfest V", got.Name)
	assert.Equal(t, "12/15/2025", got.DateString)
	assert.Equal(t, day(2025, time.December, 15), got.Date)
	assert.Equal(t, CategoryFestivals, got.Category)
}

func TestNormalize_KeepsPreassignedCategory(t *testing.T) {
	raw := RawEvent{Name: "Oddmall Akron", DateString: "July 12, 2025", Category: CategoryHorror}

	got, reason := Normalize(raw, day(2025, time.June, 10))

	require.Empty(t, reason)
	assert.Equal(t, CategoryHorror, got.Category)
}

func TestNormalize_DropReasons(t *testing.T) {
	today := day(2025, time.June, 10)

	tests := []struct {
		name string
		raw  RawEvent
		want DropReason
	}{
		{name: "junk asterisk", raw: RawEvent{Name: "*Featured*", DateString: "7/4/2025"}, want: DropJunk},
		{name: "junk date only", raw: RawEvent{Name: "11/30", DateString: "11/30"}, want: DropJunk},
		{name: "empty name", raw: RawEvent{Name: "  ", DateString: "7/4/2025"}, want: DropJunk},
		{name: "unparseable", raw: RawEvent{Name: "Strawberry Festival", DateString: "TBA"}, want: DropUnparseableDate},
		{name: "past explicit year", raw: RawEvent{Name: "Strawberry Festival", DateString: "6/9/2025"}, want: DropPastDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, reason := Normalize(tt.raw, today)
			assert.Equal(t, tt.want, reason)
		})
	}
}

func TestLocatedEvent_Canonical(t *testing.T) {
	n, reason := Normalize(RawEvent{
		Name:           "Holiday Craft Bazaar",
		DateString:     "12/6/2025",
		LocationString: "Canton, OH",
		Link:           "https://example.com/bazaar",
		VendorInfo:     "FestivalGuides",
		State:          "OH",
	}, day(2025, time.June, 10))
	require.Empty(t, reason)

	got := n.Locate(Geo{Lat: 40.8, Lon: -81.37}).Canonical("id-1")

	want := CanonicalEvent{
		ID:             "id-1",
		Name:           "Holiday Craft Bazaar",
		DateString:     "12/6/2025",
		LocationString: "Canton, OH",
		Latitude:       40.8,
		Longitude:      -81.37,
		Link:           "https://example.com/bazaar",
		VendorInfo:     "FestivalGuides",
		State:          "OH",
		Category:       CategoryArtsCrafts,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Canonical() mismatch (-want +got):\n%s", diff)
	}
}

func TestRawEvent_KnownGeo(t *testing.T) {
	_, ok := RawEvent{}.KnownGeo()
	assert.False(t, ok)

	_, ok = RawEvent{Geo: &Geo{}}.KnownGeo()
	assert.False(t, ok, "sentinel (0,0) is not a known location")

	geo, ok := RawEvent{Geo: &Geo{Lat: 41, Lon: -81}}.KnownGeo()
	assert.True(t, ok)
	assert.Equal(t, Geo{Lat: 41, Lon: -81}, geo)
}

func TestIsJunkName(t *testing.T) {
	for _, name := range []string{"", "   ", "*", "Home*", "11/30", "12/5*"} {
		assert.True(t, IsJunkName(name), "%q", name)
	}
	for _, name := range []string{"Strawberry Festival", "Route 66 Yard Sale", "12/5 Holiday Bazaar"} {
		assert.False(t, IsJunkName(name), "%q", name)
	}
}
