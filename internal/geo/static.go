package geo

import (
	"context"
	"fmt"
	"strings"
)

// StaticGeocoder resolves addresses from a fixed table.
type StaticGeocoder struct {
	points map[string]Point
}

// NewStaticGeocoder creates a geocoder over the given address table.
// Keys are matched case-insensitively with surrounding spaces ignored.
func NewStaticGeocoder(points map[string]Point) *StaticGeocoder {
	g := &StaticGeocoder{points: make(map[string]Point, len(points))}
	for addr, p := range points {
		g.points[NormalizeAddress(addr)] = p
	}
	return g
}

// Lookup returns the point registered for address.
func (g *StaticGeocoder) Lookup(ctx context.Context, address string) (Point, error) {
	p, ok := g.points[NormalizeAddress(address)]
	if !ok {
		return Point{}, fmt.Errorf("%w: %q", ErrGeocode, address)
	}
	return p, nil
}

// NormalizeAddress folds an address into the form used as a lookup key.
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.Join(strings.Fields(address), " "))
}

// DefaultPoints is a small table of well-known places used in development.
func DefaultPoints() map[string]Point {
	return map[string]Point{
		"Moscow":           {Lng: 37.6173, Lat: 55.7558},
		"Saint Petersburg": {Lng: 30.3351, Lat: 59.9343},
		"Tver":             {Lng: 35.9006, Lat: 56.8587},
		"Red Square":       {Lng: 37.6208, Lat: 55.7539},
		"Sheremetyevo":     {Lng: 37.4146, Lat: 55.9726},
		"Domodedovo":       {Lng: 37.9063, Lat: 55.4088},
		"Vnukovo":          {Lng: 37.2615, Lat: 55.5915},
		"Moscow City":      {Lng: 37.5393, Lat: 55.7494},
		"Gorky Park":       {Lng: 37.6010, Lat: 55.7312},
		"Luzhniki Stadium": {Lng: 37.5537, Lat: 55.7158},
	}
}
