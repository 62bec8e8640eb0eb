package main

import (
	"context"
	"errors"
	"time"

	"bikeshare/internal/amqp"
	"bikeshare/internal/cache"
	"bikeshare/internal/cli"
	"bikeshare/internal/dataset"
	"bikeshare/internal/log"
	"bikeshare/internal/metrics"
	"bikeshare/internal/services"
	"bikeshare/internal/worker"
)

func main() {
	envErr := cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentWorker)
	if envErr != nil {
		logger.Warn("Could not read env file", "error", envErr)
	}
	logger.Info("Starting bikeshare-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if !cfg.AMQPEnabled() {
		cli.Fatal(logger, "AMQP_URL is required for the report worker")
	}

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancelStartup()

	res := cli.InitBackend(startupCtx, logger, cfg)
	recorder := metrics.NewRecorder()
	dashboard := services.NewDashboardService(dataset.NewCache(res.Backend), recorder, logger)
	if err := dashboard.Warm(startupCtx); err != nil {
		res.Close()
		cli.Fatal(logger, "Failed to load datasets", "error", err, "backend", res.Type, "source", res.Source)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRequestQueue, cfg.AMQPResultRoutingKey)
	if err != nil {
		res.Close()
		cli.Fatal(logger, "Failed to initialize AMQP client", "error", err)
	}

	seen := cache.NewLRU[time.Time](cfg.DedupSize, cfg.DedupWindow)
	caches := cache.NewManager()
	caches.Register(seen)
	caches.StartCleanup(cfg.DedupWindow / 4)

	reportWorker := worker.NewReportWorker(dashboard, client, seen, recorder)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		caches.Stop()
		if err := client.Close(); err != nil {
			logger.Warn("AMQP close error", "error", err)
		}
		res.Close()
	})

	logger.Info("Consuming report requests", "queue", cfg.AMQPRequestQueue, "dedup_window", cfg.DedupWindow)
	if err := client.ConsumeReportRequests(ctx, reportWorker.HandleReportRequest); err != nil && !errors.Is(err, context.Canceled) {
		caches.Stop()
		_ = client.Close()
		res.Close()
		cli.Fatal(logger, "Message consumption failed", "error", err)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped gracefully")
}
