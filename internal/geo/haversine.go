// Package geo resolves addresses to coordinates and measures great-circle
// distances between them.
package geo

import "math"

const earthRadiusKm = 6371.0

// Point is a geographic coordinate in decimal degrees.
type Point struct {
	Lng float64
	Lat float64
}

// Haversine returns the great-circle distance in kilometres between a and b.
func Haversine(a, b Point) float64 {
	dLat := degreesToRadians(b.Lat - a.Lat)
	dLng := degreesToRadians(b.Lng - a.Lng)

	rLat1 := degreesToRadians(a.Lat)
	rLat2 := degreesToRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)

	// Rounding can push h a hair above 1 for antipodal points.
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(math.Min(h, 1)))
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
