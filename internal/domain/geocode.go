package domain

import (
	"context"
	"log/slog"
	"strings"
)

// minLookupLength is the shortest location text worth sending to a geocoder.
const minLookupLength = 3

// ResolveLocation looks up text with the geocoder, retrying once with only the
// trailing "city, state" segments when the full string has no match.
// Transport errors count as no match. It returns false when both attempts miss.
func ResolveLocation(ctx context.Context, text string, geocoder Geocoder, logger *slog.Logger) (Geo, bool) {
	if geocoder == nil {
		return Geo{}, false
	}
	query := normalizeLocation(text)
	if len(query) < minLookupLength {
		return Geo{}, false
	}

	if geo, ok := lookup(ctx, geocoder, query, logger); ok {
		return geo, true
	}

	fallback, ok := cityStateFallback(query)
	if !ok {
		logger.Debug("location unresolved", "location", query)
		return Geo{}, false
	}
	logger.Debug("retrying geocode with city and state", "location", query, "fallback", fallback)
	if geo, ok := lookup(ctx, geocoder, fallback, logger); ok {
		return geo, true
	}
	logger.Debug("location unresolved", "location", query, "fallback", fallback)
	return Geo{}, false
}

// GeocodeQuery builds the lookup text for an event: its location, with the
// state code appended when the location does not already mention it.
func GeocodeQuery(e RawEvent) string {
	loc := strings.TrimSpace(e.LocationString)
	state := strings.TrimSpace(e.State)
	if len(state) != 2 || loc == "" {
		return loc
	}
	if strings.Contains(strings.ToUpper(loc), strings.ToUpper(state)) {
		return loc
	}
	return loc + ", " + state
}

func lookup(ctx context.Context, geocoder Geocoder, query string, logger *slog.Logger) (Geo, bool) {
	result, err := geocoder.ForwardGeocode(ctx, query)
	if err != nil {
		logger.Warn("forward geocoding failed", "location", query, "error", err)
		return Geo{}, false
	}
	if result.Empty() {
		return Geo{}, false
	}
	return Geo{Lat: result.Lat, Lon: result.Lon}, true
}

// normalizeLocation joins multi-line addresses with commas.
func normalizeLocation(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	parts := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, ", ")
}

// cityStateFallback returns the last two comma-separated segments of query.
// No fallback is offered when it would repeat the full query, is too short to
// be a place, or is only a number (a zip code or street number).
func cityStateFallback(query string) (string, bool) {
	segments := strings.Split(query, ",")
	if len(segments) < 2 {
		return "", false
	}
	tail := segments[len(segments)-2:]
	for i := range tail {
		tail[i] = strings.TrimSpace(tail[i])
	}
	fallback := strings.Join(tail, ", ")
	if len(fallback) <= 5 || isNumeric(strings.ReplaceAll(fallback, ", ", "")) {
		return "", false
	}
	if len(segments) == 2 {
		// Already "city, state"; retrying would repeat the same lookup.
		return "", false
	}
	return fallback, true
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) && s[i] != ' ' && s[i] != '-' {
			return false
		}
	}
	return true
}
