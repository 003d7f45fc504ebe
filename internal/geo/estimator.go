package geo

import (
	"context"
	"errors"
	"fmt"
)

// ErrGeocode is returned when an address cannot be resolved to a point.
var ErrGeocode = errors.New("address could not be geocoded")

// Geocoder resolves a free-form address to a point.
type Geocoder interface {
	Lookup(ctx context.Context, address string) (Point, error)
}

// Estimator measures the distance between two addresses.
type Estimator struct {
	geocoder Geocoder
}

// NewEstimator creates an estimator backed by the given geocoder.
func NewEstimator(geocoder Geocoder) *Estimator {
	return &Estimator{geocoder: geocoder}
}

// Distance returns the great-circle distance in kilometres between origin
// and destination.
func (e *Estimator) Distance(ctx context.Context, origin, destination string) (float64, error) {
	from, err := e.resolve(ctx, origin)
	if err != nil {
		return 0, err
	}
	to, err := e.resolve(ctx, destination)
	if err != nil {
		return 0, err
	}
	return Haversine(from, to), nil
}

func (e *Estimator) resolve(ctx context.Context, address string) (Point, error) {
	p, err := e.geocoder.Lookup(ctx, address)
	if err != nil {
		if errors.Is(err, ErrGeocode) {
			return Point{}, err
		}
		return Point{}, fmt.Errorf("%w: %q: %v", ErrGeocode, address, err)
	}
	return p, nil
}
