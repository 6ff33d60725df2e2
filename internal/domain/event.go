package domain

import (
	"strings"
	"time"
)

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// IsZero reports whether g is the (0,0) placeholder rather than a real location.
func (g Geo) IsZero() bool {
	return g.Lat == 0 && g.Lon == 0
}

// RawEvent is a loosely structured record as emitted by a collector.
// Nothing about it is guaranteed: names may be navigation junk and dates may
// be in any of the formats ResolveDate understands, or none.
type RawEvent struct {
	Name           string
	DateString     string
	LocationString string
	Link           string
	VendorInfo     string
	State          string   // 2-letter region code, full name, or "Multi"
	Category       Category // optional, pre-assigned by some collectors
	Source         string   // collector name, tagged by the pipeline

	// Geo is set by collectors that already know where the show is (seed rules).
	Geo *Geo
}

// NormalizedEvent is a RawEvent whose date resolved to today or later and
// whose category is always set. DateString holds the canonical M/D/YYYY form.
type NormalizedEvent struct {
	RawEvent
	Date time.Time
}

// LocatedEvent is a NormalizedEvent with resolved coordinates.
type LocatedEvent struct {
	NormalizedEvent
	Geo Geo
}

// CanonicalEvent is the persisted shape of one show.
type CanonicalEvent struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	DateString     string   `json:"dateString"`
	LocationString string   `json:"locationString"`
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	Link           string   `json:"link"`
	VendorInfo     string   `json:"vendorInfo"`
	State          string   `json:"state"`
	Category       Category `json:"category"`
}

// DropReason explains why a record left the pipeline before persistence.
type DropReason string

const (
	DropJunk            DropReason = "junk"
	DropUnparseableDate DropReason = "unparseable_date"
	DropPastDate        DropReason = "past_date"
	DropDuplicate       DropReason = "duplicate"
	DropUnresolved      DropReason = "unresolved_location"
)

// Normalize resolves the raw record's date and category against today.
// It returns a non-empty DropReason when the record must be filtered out.
func Normalize(raw RawEvent, today time.Time) (NormalizedEvent, DropReason) {
	raw.Name = strings.TrimSpace(raw.Name)
	if IsJunkName(raw.Name) {
		return NormalizedEvent{}, DropJunk
	}

	date, ok := ResolveDate(raw.DateString, today)
	if !ok {
		return NormalizedEvent{}, DropUnparseableDate
	}
	if !IsCurrent(date, today) {
		return NormalizedEvent{}, DropPastDate
	}

	raw.DateString = FormatDate(date)
	if raw.Category == "" {
		raw.Category = Classify(raw.Name, raw.VendorInfo)
	}
	return NormalizedEvent{RawEvent: raw, Date: date}, ""
}

// Locate attaches coordinates to a normalized event.
func (e NormalizedEvent) Locate(geo Geo) LocatedEvent {
	return LocatedEvent{NormalizedEvent: e, Geo: geo}
}

// Canonical flattens a located event into its persisted form under the given ID.
func (e LocatedEvent) Canonical(id string) CanonicalEvent {
	return CanonicalEvent{
		ID:             id,
		Name:           e.Name,
		DateString:     e.DateString,
		LocationString: e.LocationString,
		Latitude:       e.Geo.Lat,
		Longitude:      e.Geo.Lon,
		Link:           e.Link,
		VendorInfo:     e.VendorInfo,
		State:          e.State,
		Category:       e.Category,
	}
}

// KnownGeo returns the collector-supplied coordinates, if any usable ones exist.
func (e RawEvent) KnownGeo() (Geo, bool) {
	if e.Geo == nil || e.Geo.IsZero() {
		return Geo{}, false
	}
	return *e.Geo, true
}
