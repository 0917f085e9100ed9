package geocode

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"gearshare-backend/internal/apperr"
)

// Geocoder resolves a street address to coordinates. The service layer only
// needs this one call, so it is an interface to keep tests offline.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (lat, lng float64, err error)
}

type googleGeocoder struct {
	client *maps.Client
}

func NewGoogleGeocoder(apiKey string) (Geocoder, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &googleGeocoder{client: client}, nil
}

func (g *googleGeocoder) Geocode(ctx context.Context, address string) (float64, float64, error) {
	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		return 0, 0, apperr.Upstream(err, "geocoding failed")
	}
	if len(results) == 0 {
		return 0, 0, apperr.Validation("address could not be resolved to coordinates")
	}
	loc := results[0].Geometry.Location
	return loc.Lat, loc.Lng, nil
}
