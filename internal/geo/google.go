package geo

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"
)

// geocodeClient is the subset of *maps.Client used by GoogleGeocoder.
type geocodeClient interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// GoogleGeocoder resolves addresses with the Google Maps Geocoding API.
type GoogleGeocoder struct {
	client   geocodeClient
	language string
}

// NewGoogleGeocoder creates a geocoder with the given API key.
func NewGoogleGeocoder(apiKey, language string) (*GoogleGeocoder, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GoogleGeocoder{client: client, language: language}, nil
}

// Lookup returns the location of the first geocoding result for address.
func (g *GoogleGeocoder) Lookup(ctx context.Context, address string) (Point, error) {
	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{
		Address:  address,
		Language: g.language,
	})
	if err != nil {
		return Point{}, fmt.Errorf("%w: %q: maps api error: %v", ErrGeocode, address, err)
	}
	if len(results) == 0 {
		return Point{}, fmt.Errorf("%w: %q: no results", ErrGeocode, address)
	}

	loc := results[0].Geometry.Location
	return Point{Lng: loc.Lng, Lat: loc.Lat}, nil
}
