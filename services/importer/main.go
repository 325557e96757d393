// Command importer loads a flight-records CSV into the Postgres dataset
// table the API serves from. One-shot: run it whenever the source file
// changes.
package main

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skystats/airtraffic-viewer/services/api/dataset"
	"github.com/skystats/airtraffic-viewer/services/importer/internal/config"
	"github.com/skystats/airtraffic-viewer/services/importer/internal/db"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("importer failed: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	records, dropped, err := dataset.LoadCSV(cfg.DatasetPath)
	if err != nil {
		return err
	}
	log.Printf("parsed %d flight records (%d rows dropped by cleaning)", len(records), dropped)

	if cfg.DryRun {
		log.Printf("dry-run: skipping upsert of %d records", len(records))
		return nil
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.UpsertFlightRecords(ctx, pool, records); err != nil {
		return err
	}

	log.Printf("upserted %d flight records", len(records))
	return nil
}
