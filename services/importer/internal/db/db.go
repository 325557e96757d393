package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skystats/airtraffic-viewer/services/api/dataset"
)

// UpsertFlightRecords writes cleaned flight records into the dataset
// table, replacing the aggregate values of an observation that already
// exists for the same (airport, foreign airport, carrier, year, month).
func UpsertFlightRecords(ctx context.Context, pool *pgxpool.Pool, records []dataset.FlightRecord) error {
	if len(records) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `INSERT INTO airtraffic.flight_records
    (year, month, airport, foreign_airport, country, country_iso, region, carrier,
     total_flights, total_passengers, scheduled_flights, charter_flights,
     latitude, longitude, load_factor, engine_rpm, date, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,NOW(),NOW())
ON CONFLICT (airport, foreign_airport, carrier, year, month) DO UPDATE
SET country = EXCLUDED.country,
    country_iso = EXCLUDED.country_iso,
    region = EXCLUDED.region,
    total_flights = EXCLUDED.total_flights,
    total_passengers = EXCLUDED.total_passengers,
    scheduled_flights = EXCLUDED.scheduled_flights,
    charter_flights = EXCLUDED.charter_flights,
    latitude = EXCLUDED.latitude,
    longitude = EXCLUDED.longitude,
    load_factor = EXCLUDED.load_factor,
    engine_rpm = EXCLUDED.engine_rpm,
    date = EXCLUDED.date,
    updated_at = NOW()`

	for _, r := range records {
		batch.Queue(query,
			r.Year, r.Month, r.Airport, r.ForeignAirport, r.Country, r.CountryISO,
			r.Region, r.Carrier, r.TotalFlights, r.TotalPassengers,
			r.ScheduledFlights, r.CharterFlights, r.Latitude, r.Longitude,
			r.LoadFactor, r.EngineRPM, r.Date)
	}

	res := pool.SendBatch(ctx, batch)
	defer res.Close()

	for range records {
		if _, err := res.Exec(); err != nil {
			return err
		}
	}

	return nil
}
