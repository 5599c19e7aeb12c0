// Package maps wraps the Google Maps geocoding API.
package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"jetfood/internal/types"
)

// Geocoder resolves free-form addresses into coordinates.
type Geocoder struct {
	client *maps.Client
}

// NewGeocoder creates a Geocoder with the given API key.
func NewGeocoder(apiKey string) (*Geocoder, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &Geocoder{client: client}, nil
}

// Geocode returns the coordinates of the first geocoding result for the query.
func (g *Geocoder) Geocode(ctx context.Context, query string) (*types.Point, error) {
	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{Address: query})
	if err != nil {
		return nil, fmt.Errorf("geocoding api error: %w", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no geocoding results for %q", query)
	}
	loc := results[0].Geometry.Location
	return &types.Point{Lat: loc.Lat, Lng: loc.Lng}, nil
}
