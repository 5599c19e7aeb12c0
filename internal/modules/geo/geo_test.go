package geo

import (
	"testing"

	"jetfood/internal/modules/settings"
	"jetfood/internal/types"
)

func zoneSettings(radiusKm float64) settings.Settings {
	st := settings.Defaults()
	st.DeliveryRadiusKm = radiusKm
	return st
}

func TestInZoneNilCoordinatesFailClosed(t *testing.T) {
	if InZone(nil, zoneSettings(10)) {
		t.Fatal("address without coordinates must be out of zone")
	}
}

func TestInZoneCityCenter(t *testing.T) {
	st := zoneSettings(10)
	if !InZone(&types.Point{Lat: st.CityCenter.Lat, Lng: st.CityCenter.Lng}, st) {
		t.Fatal("city center must be in zone")
	}
}

func TestInZoneRadiusBoundary(t *testing.T) {
	st := zoneSettings(10)

	// ~0.09 degrees of latitude is ~10km; just inside.
	near := &types.Point{Lat: st.CityCenter.Lat + 0.089, Lng: st.CityCenter.Lng}
	if !InZone(near, st) {
		t.Error("point ~9.9km away should be in a 10km zone")
	}

	far := &types.Point{Lat: st.CityCenter.Lat + 0.5, Lng: st.CityCenter.Lng}
	if InZone(far, st) {
		t.Error("point ~55km away should be outside a 10km zone")
	}
}

func TestHaversineKnownDistance(t *testing.T) {
	// Aktau to Zhanaozen is roughly 140km as the crow flies.
	d := haversineKm(43.65, 51.16, 43.3333, 52.8667)
	if d < 130 || d > 150 {
		t.Errorf("haversine = %.1f km, expected within [130, 150]", d)
	}
}
