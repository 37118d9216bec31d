package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	natsadapter "github.com/lberthe/cartomark/internal/adapters/nats"
	"github.com/lberthe/cartomark/internal/adapters/postgres"
	"github.com/lberthe/cartomark/internal/adapters/temporalx"
	"github.com/lberthe/cartomark/internal/pkg/config"
	"github.com/lberthe/cartomark/internal/pkg/logging"
	"github.com/lberthe/cartomark/internal/workflows"
)

func main() {
	cfg, err := config.Load("cartomark-janitor")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database for the sweep activities
	db, err := postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns))
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Connect to Temporal
	c, err := client.Dial(client.Options{
		HostPort: cfg.Temporal.HostPort,
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, workflows.JanitorTaskQueue, worker.Options{})

	// Register workflow & activities
	w.RegisterWorkflow(workflows.JanitorWorkflow)
	w.RegisterActivity(&workflows.JanitorActivities{
		Iterations: postgres.NewIterationRepo(db),
		Maps:       postgres.NewMapRepo(db),
	})

	// Place deletions published by the API also trigger sweeps here, so a
	// delete survives even if the API crashed before starting the workflow.
	sweeper, err := temporalx.NewSweeper(cfg.Temporal.HostPort)
	if err != nil {
		log.Fatalf("temporal sweeper: %v", err)
	}
	defer sweeper.Close()

	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, sweeping on workflow starts only", "error", err)
	} else {
		defer sub.Close()
		if err := sub.SubscribePlaceDeleted(ctx, sweeper.SweepPlace); err != nil {
			slog.Warn("place.deleted subscription failed", "error", err)
		}
	}

	log.Println("janitor worker started")
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
