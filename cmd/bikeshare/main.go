package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"bikeshare/internal/amqp"
	"bikeshare/internal/cli"
	"bikeshare/internal/dataset"
	apphttp "bikeshare/internal/http"
	"bikeshare/internal/log"
	"bikeshare/internal/metrics"
	"bikeshare/internal/services"
)

func main() {
	envErr := cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentApp)
	if envErr != nil {
		logger.Warn("Could not read env file", "error", envErr)
	}

	cfg := cli.LoadAndValidateConfig(logger)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancelStartup()

	res := cli.InitBackend(startupCtx, logger, cfg)

	recorder := metrics.NewRecorder()
	dashboard := services.NewDashboardService(dataset.NewCache(res.Backend), recorder, logger)

	// Both datasets are read once; a load failure aborts startup.
	if err := dashboard.Warm(startupCtx); err != nil {
		res.Close()
		cli.Fatal(logger, "Failed to load datasets", "error", err, "backend", res.Type, "source", res.Source)
	}

	var queue *amqp.Client
	if cfg.AMQPEnabled() {
		var err error
		queue, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRequestQueue, cfg.AMQPResultRoutingKey)
		if err != nil {
			res.Close()
			cli.Fatal(logger, "Failed to initialize AMQP client", "error", err)
		}
		logger.Info("Asynchronous reports enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPRequestQueue)
	} else {
		logger.Info("Asynchronous reports disabled - no AMQP_URL provided")
	}

	deps := apphttp.Deps{
		Reporter:           dashboard,
		Recorder:           recorder,
		Logger:             logger,
		AssetPath:          cfg.AssetPath,
		RequestTimeout:     cfg.RequestTimeout,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		TrustedProxies:     cfg.TrustedProxies,
	}
	if queue != nil {
		deps.Queue = queue
	}
	srv := apphttp.NewServer(":"+cfg.Port, deps)
	srv.MaxHeaderBytes = 1 << 16

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if queue != nil {
			if err := queue.Close(); err != nil {
				logger.Warn("AMQP close error", "error", err)
			}
		}
		res.Close()
	})

	logger.Info("Starting bikeshare server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		cli.Fatal(logger, "Server error", "error", err, "port", cfg.Port)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
