package settings

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Get reads the singleton row, inserting the defaults if it does not exist yet.
func (s *Store) Get(ctx context.Context) (Settings, error) {
	st, err := s.scanRow(ctx)
	if err == nil {
		return st, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Settings{}, err
	}
	if _, err := s.db.Exec(ctx, `
		INSERT INTO system_settings (id) VALUES (1)
		ON CONFLICT (id) DO NOTHING`,
	); err != nil {
		return Settings{}, err
	}
	return s.scanRow(ctx)
}

func (s *Store) Update(ctx context.Context, st Settings) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO system_settings (
			id, day_base_rate, day_rate_per_km, night_base_rate, night_rate_per_km,
			night_tariff_start_hour, night_tariff_end_hour,
			city_center_lat, city_center_lng, delivery_radius_km
		) VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			day_base_rate = EXCLUDED.day_base_rate,
			day_rate_per_km = EXCLUDED.day_rate_per_km,
			night_base_rate = EXCLUDED.night_base_rate,
			night_rate_per_km = EXCLUDED.night_rate_per_km,
			night_tariff_start_hour = EXCLUDED.night_tariff_start_hour,
			night_tariff_end_hour = EXCLUDED.night_tariff_end_hour,
			city_center_lat = EXCLUDED.city_center_lat,
			city_center_lng = EXCLUDED.city_center_lng,
			delivery_radius_km = EXCLUDED.delivery_radius_km`,
		st.DayBaseRate.String(), st.DayRatePerKm.String(),
		st.NightBaseRate.String(), st.NightRatePerKm.String(),
		st.NightStartHour, st.NightEndHour,
		st.CityCenter.Lat, st.CityCenter.Lng, st.DeliveryRadiusKm,
	)
	return err
}

func (s *Store) scanRow(ctx context.Context) (Settings, error) {
	row := s.db.QueryRow(ctx, `
		SELECT day_base_rate::text, day_rate_per_km::text,
		       night_base_rate::text, night_rate_per_km::text,
		       night_tariff_start_hour, night_tariff_end_hour,
		       city_center_lat, city_center_lng, delivery_radius_km
		FROM system_settings
		WHERE id = 1`,
	)

	var st Settings
	var dayBase, dayKm, nightBase, nightKm string
	err := row.Scan(
		&dayBase, &dayKm, &nightBase, &nightKm,
		&st.NightStartHour, &st.NightEndHour,
		&st.CityCenter.Lat, &st.CityCenter.Lng, &st.DeliveryRadiusKm,
	)
	if err != nil {
		return Settings{}, err
	}
	if st.DayBaseRate, err = decimal.NewFromString(dayBase); err != nil {
		return Settings{}, err
	}
	if st.DayRatePerKm, err = decimal.NewFromString(dayKm); err != nil {
		return Settings{}, err
	}
	if st.NightBaseRate, err = decimal.NewFromString(nightBase); err != nil {
		return Settings{}, err
	}
	if st.NightRatePerKm, err = decimal.NewFromString(nightKm); err != nil {
		return Settings{}, err
	}
	return st, nil
}
