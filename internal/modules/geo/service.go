// Package geo decides whether delivery coordinates fall inside the serving zone.
package geo

import (
	"context"
	"math"

	"github.com/sirupsen/logrus"

	"jetfood/internal/modules/settings"
	"jetfood/internal/types"
)

const earthRadiusKm = 6371.0

type SettingsProvider interface {
	Get(ctx context.Context) (settings.Settings, error)
}

type Service struct {
	settings SettingsProvider
}

func NewService(settings SettingsProvider) *Service {
	return &Service{settings: settings}
}

// InZone reports whether the coordinates are within the configured delivery
// radius of the city center. Nil coordinates fail closed.
func (s *Service) InZone(ctx context.Context, p *types.Point) (bool, error) {
	st, err := s.settings.Get(ctx)
	if err != nil {
		return false, err
	}
	return InZone(p, st), nil
}

// InZone is the pure form of the zone check.
func InZone(p *types.Point, st settings.Settings) bool {
	if p == nil {
		return false
	}
	distance := haversineKm(st.CityCenter.Lat, st.CityCenter.Lng, p.Lat, p.Lng)
	logrus.WithFields(logrus.Fields{
		"distance_km": math.Round(distance*100) / 100,
		"radius_km":   st.DeliveryRadiusKm,
	}).Debug("delivery zone check")
	return distance <= st.DeliveryRadiusKm
}

// haversineKm returns the great-circle distance in kilometres between two
// points specified in decimal degrees.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := degreesToRadians(lat2 - lat1)
	dLng := degreesToRadians(lng2 - lng1)

	rLat1 := degreesToRadians(lat1)
	rLat2 := degreesToRadians(lat2)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
