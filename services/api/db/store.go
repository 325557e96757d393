package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skystats/airtraffic-viewer/services/api/dataset"
)

// Store wraps database access for a Postgres-hosted flight dataset.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store backed by a pgx pool.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

const flightRecordsSQL = `
    SELECT year, month, airport, foreign_airport, country, country_iso, region, carrier,
           total_flights, total_passengers, scheduled_flights, charter_flights,
           latitude, longitude, load_factor, engine_rpm, date
    FROM airtraffic.flight_records
    WHERE airport <> '' AND country <> ''
      AND month BETWEEN 1 AND 12
      AND total_flights >= 0 AND total_passengers >= 0
    ORDER BY year, month, airport
`

// LoadFlightRecords reads the full flight-records table. The WHERE clause
// applies the same cleaning rules as the CSV loader, so both dataset
// sources feed the pipeline identically shaped input.
func (s *Store) LoadFlightRecords(ctx context.Context) ([]dataset.FlightRecord, error) {
	rows, err := s.pool.Query(ctx, flightRecordsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]dataset.FlightRecord, 0, 1024)
	for rows.Next() {
		var rec dataset.FlightRecord
		var date *time.Time
		if err := rows.Scan(
			&rec.Year,
			&rec.Month,
			&rec.Airport,
			&rec.ForeignAirport,
			&rec.Country,
			&rec.CountryISO,
			&rec.Region,
			&rec.Carrier,
			&rec.TotalFlights,
			&rec.TotalPassengers,
			&rec.ScheduledFlights,
			&rec.CharterFlights,
			&rec.Latitude,
			&rec.Longitude,
			&rec.LoadFactor,
			&rec.EngineRPM,
			&date,
		); err != nil {
			return nil, err
		}
		if date != nil {
			rec.Date = date.UTC()
		} else {
			rec.Date = time.Date(rec.Year, time.Month(rec.Month), 1, 0, 0, 0, 0, time.UTC)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// DatasetSummary describes the stored dataset for the meta endpoint.
type DatasetSummary struct {
	RecordCount int `json:"record_count"`
	FirstYear   int `json:"first_year"`
	LastYear    int `json:"last_year"`
}

const datasetSummarySQL = `
    SELECT COUNT(*), COALESCE(MIN(year), 0), COALESCE(MAX(year), 0)
    FROM airtraffic.flight_records
`

// Summarize returns row count and year span of the stored dataset.
func (s *Store) Summarize(ctx context.Context) (*DatasetSummary, error) {
	var sum DatasetSummary
	if err := s.pool.QueryRow(ctx, datasetSummarySQL).Scan(&sum.RecordCount, &sum.FirstYear, &sum.LastYear); err != nil {
		return nil, err
	}
	return &sum, nil
}
