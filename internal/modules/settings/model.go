// Package settings manages the single system-wide tariff and zone configuration row.
package settings

import (
	"github.com/shopspring/decimal"

	"jetfood/internal/types"
)

// Settings is the administrator-managed tariff and delivery-zone configuration.
// The per-km rates are reserved tariff fields; delivery billing is currently flat.
type Settings struct {
	DayBaseRate      decimal.Decimal `json:"day_base_rate"`
	DayRatePerKm     decimal.Decimal `json:"day_rate_per_km"`
	NightBaseRate    decimal.Decimal `json:"night_base_rate"`
	NightRatePerKm   decimal.Decimal `json:"night_rate_per_km"`
	NightStartHour   int             `json:"night_tariff_start_hour"`
	NightEndHour     int             `json:"night_tariff_end_hour"`
	CityCenter       types.Point     `json:"city_center"`
	DeliveryRadiusKm float64         `json:"delivery_radius_km"`
}

// Defaults mirrors the seed row created on first read.
func Defaults() Settings {
	return Settings{
		DayBaseRate:      decimal.NewFromInt(500),
		DayRatePerKm:     decimal.NewFromInt(100),
		NightBaseRate:    decimal.NewFromInt(800),
		NightRatePerKm:   decimal.NewFromInt(150),
		NightStartHour:   22,
		NightEndHour:     6,
		CityCenter:       types.Point{Lat: 43.3333, Lng: 52.8667},
		DeliveryRadiusKm: 10.0,
	}
}

// IsNightHour reports whether the given hour falls inside the night tariff
// window. A window with start > end wraps past midnight.
func (s Settings) IsNightHour(hour int) bool {
	if s.NightStartHour > s.NightEndHour {
		return hour >= s.NightStartHour || hour < s.NightEndHour
	}
	return s.NightStartHour <= hour && hour < s.NightEndHour
}
