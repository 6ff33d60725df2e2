package domain

import "context"

// GeocodingResult is the first match returned by a geocoding provider.
// The zero value means no match.
type GeocodingResult struct {
	Lat         float64
	Lon         float64
	DisplayName string
}

// Empty reports whether the provider found nothing.
func (r GeocodingResult) Empty() bool {
	return r.Lat == 0 && r.Lon == 0
}

// Geocoder resolves free-text addresses to coordinates.
type Geocoder interface {
	// ForwardGeocode looks up a free-text query. An empty result with a nil
	// error means the provider had no match.
	ForwardGeocode(ctx context.Context, query string) (GeocodingResult, error)
}
