package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jgrantham/inlet/internal/config"
	"github.com/jgrantham/inlet/internal/db"
	"github.com/jgrantham/inlet/internal/ingest"
	"github.com/jgrantham/inlet/internal/metrics"
	"github.com/jgrantham/inlet/internal/objectstore"
	"github.com/jgrantham/inlet/internal/pipelines"
	"github.com/jgrantham/inlet/internal/queue"
	"github.com/jgrantham/inlet/internal/repository"
)

func main() {
	configPath := flag.String("config", ".", "directory containing config.yaml")
	migrationsPath := flag.String("migrations", "./migrations", "directory containing migration files")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := db.NewConnection(ctx, cfg.Database)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	if err := db.RunMigrations(cfg.Database, *migrationsPath); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

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
	ledger := repository.NewIngestedObjectRepository(conn.Pool)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	collector := metrics.NewCollector(registry)

	worker := queue.NewWorker(conn.Pool, cfg.Queue.Name, cfg.Queue.PollInterval, cfg.Queue.Concurrency)
	for _, pipeline := range pipelines.All(repos, cfg.Queue.Name) {
		worker.Register(pipeline.Function, ingestHandler(pipeline, gateway, ledger, collector))
	}

	metricsServer := &http.Server{
		Addr:    cfg.Metrics.Addr,
		Handler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}
	go func() {
		slog.Info("metrics listener started", "addr", cfg.Metrics.Addr)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics listener failed", "error", err)
		}
	}()

	worker.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shut down metrics listener", "error", err)
	}
}

// ingestHandler adapts one pipeline into a job handler. A fresh processor
// and ingestion run are built per job so per-run state never carries over.
func ingestHandler(
	pipeline ingest.Pipeline,
	gateway ingest.ObjectGateway,
	ledger ingest.Ledger,
	collector *metrics.Collector,
) queue.Handler {
	return func(ctx context.Context, objectKey string) error {
		processor, err := pipeline.NewProcessor(ctx)
		if err != nil {
			return err
		}
		run, err := ingest.NewIngestion(ctx, pipeline, objectKey, gateway, ledger, processor, collector)
		if err != nil {
			return err
		}
		return run.IngestObject(ctx)
	}
}
