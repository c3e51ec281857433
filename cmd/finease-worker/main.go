package main

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"finease/internal/amqp"
	"finease/internal/cli"
	"finease/internal/log"
	"finease/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentWorker)
	cfg := cli.LoadAndValidateConfig(logger)

	logger.Info("starting finease-worker")

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	aggWorker := worker.NewAggregateWorker(repo, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, done := cli.GracefulShutdown(logger, 30*time.Second, cancel)

	g, gctx := errgroup.WithContext(ctx)

	// Event-driven refresh from the broker
	g.Go(func() error {
		return amqp.ConsumeWithReconnect(gctx, amqp.Config{
			URL:      cfg.AMQPURL,
			Exchange: cfg.AMQPExchange,
			Queue:    cfg.AMQPQueue,
		}, logger, func(msg *amqp.TransactionEventMessage) error {
			return aggWorker.HandleEvent(gctx, msg)
		})
	})

	// Periodic full refresh catches anything a missed event left stale
	g.Go(func() error {
		ticker := time.NewTicker(cfg.RefreshInterval)
		defer ticker.Stop()

		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-ticker.C:
				if err := aggWorker.RefreshAll(gctx); err != nil {
					logger.Error("periodic refresh failed", log.FieldError, err)
				}
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped with error", log.FieldError, err)
	}

	<-done
	logger.Info("worker stopped gracefully")
}
