package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/02loveslollipop/Shizuku-climate-heatmap/services/api/config"
	"github.com/02loveslollipop/Shizuku-climate-heatmap/services/api/dataset"
	"github.com/02loveslollipop/Shizuku-climate-heatmap/services/api/db"
	httpserver "github.com/02loveslollipop/Shizuku-climate-heatmap/services/api/http"
	"github.com/02loveslollipop/Shizuku-climate-heatmap/services/api/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	source, closeSource, err := openSource(ctx, cfg)
	if err != nil {
		log.Fatalf("dataset source error: %v", err)
	}
	defer closeSource()

	datasets := dataset.NewReloader(source)
	if err := datasets.Reload(ctx); err != nil {
		log.Fatalf("dataset load error: %v", err)
	}

	sched := scheduler.New(datasets, cfg.ReloadInterval)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	srv := httpserver.New(cfg, datasets)
	log.Printf("REST API listening on %s", cfg.ListenAddr())

	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// openSource builds the configured dataset source and a func releasing it.
func openSource(ctx context.Context, cfg config.Config) (dataset.Source, func(), error) {
	switch cfg.DatasetSource {
	case config.SourcePostgres:
		store, err := db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("db connection error: %w", err)
		}
		return dataset.DatabaseSource{Label: "postgres", Store: store}, store.Close, nil
	case config.SourceSQLite:
		store, err := db.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("sqlite open error: %w", err)
		}
		closeFn := func() {
			if err := store.Close(); err != nil {
				log.Printf("sqlite close error: %v", err)
			}
		}
		return dataset.DatabaseSource{Label: "sqlite:" + cfg.SQLitePath, Store: store}, closeFn, nil
	default:
		return dataset.CSVSource{Path: cfg.DatasetPath}, func() {}, nil
	}
}
