package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/skystats/airtraffic-viewer/services/api/config"
	"github.com/skystats/airtraffic-viewer/services/api/dataset"
	"github.com/skystats/airtraffic-viewer/services/api/db"
	httpserver "github.com/skystats/airtraffic-viewer/services/api/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	records, source, err := loadDataset(ctx, cfg)
	if err != nil {
		log.Fatalf("dataset error: %v", err)
	}
	log.Printf("loaded %d flight records (source=%s)", len(records), source)

	srv := httpserver.New(cfg, records, source)
	log.Printf("REST API listening on %s", cfg.ListenAddr())

	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// loadDataset reads the flight records once from whichever source the
// config selects. The returned slice is never mutated afterwards.
func loadDataset(ctx context.Context, cfg config.Config) ([]dataset.FlightRecord, string, error) {
	if cfg.DatasetPath != "" {
		records, dropped, err := dataset.LoadCSV(cfg.DatasetPath)
		if err != nil {
			return nil, "", err
		}
		if dropped > 0 {
			log.Printf("dropped %d rows during cleaning", dropped)
		}
		return records, "csv", nil
	}

	loadCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	store, err := db.New(loadCtx, cfg.DatabaseURL)
	if err != nil {
		return nil, "", err
	}
	defer store.Close()

	records, err := store.LoadFlightRecords(loadCtx)
	if err != nil {
		return nil, "", err
	}
	return records, "postgres", nil
}
