package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jgrantham/inlet/internal/config"
	"github.com/jgrantham/inlet/internal/db"
	"github.com/jgrantham/inlet/internal/ingest"
	"github.com/jgrantham/inlet/internal/objectstore"
	"github.com/jgrantham/inlet/internal/pipelines"
	"github.com/jgrantham/inlet/internal/queue"
	"github.com/jgrantham/inlet/internal/repository"
	"github.com/jgrantham/inlet/internal/scheduler"
)

func main() {
	configPath := flag.String("config", ".", "directory containing config.yaml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Schema is owned by the worker binary, which runs migrations on boot.
	conn, err := db.NewConnection(ctx, cfg.Database)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	gateway, err := objectstore.New(cfg.ObjectStore)
	if err != nil {
		slog.Error("failed to connect to object store", "error", err)
		os.Exit(1)
	}

	repos := pipelines.Repositories{
		Events:    repository.NewEventRepository(conn.Pool),
		Attendees: repository.NewAttendeeRepository(conn.Pool),
		Leads:     repository.NewLeadRepository(conn.Pool),
		Postcodes: repository.NewPostcodeRepository(conn.Pool),
	}

	identifier := ingest.NewIdentifier(
		gateway,
		queue.NewInspector(conn.Pool),
		queue.NewClient(conn.Pool),
		repository.NewIngestedObjectRepository(conn.Pool),
	)

	sched, err := scheduler.New(identifier, pipelines.All(repos, cfg.Queue.Name), cfg.Schedules)
	if err != nil {
		slog.Error("failed to build scheduler", "error", err)
		os.Exit(1)
	}

	slog.Info("scheduler started")
	sched.Run(ctx)
	slog.Info("scheduler stopped")
}
