package main

import (
	"catalog/app/category"
	"catalog/infra/postgres"
	"catalog/infra/rabbitmq"
	"catalog/internal/consumers"
	"catalog/pkg/aws"
	"catalog/pkg/config"
	"catalog/pkg/events"
	"catalog/pkg/logger"
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	appConfig := config.Read()
	log := logger.Init(appConfig.IsProduction())
	defer log.Sync()

	zap.L().Info("Catalog Worker Service starting...")
	zap.L().Info("Worker config loaded",
		zap.String("serviceName", appConfig.ServiceName),
		zap.String("snapshotKey", appConfig.SnapshotKey),
	)

	if appConfig.RabbitMQURL == "" {
		zap.L().Fatal("RABBITMQ_URL is required for worker service")
	}
	if appConfig.AWSBucket == "" {
		zap.L().Fatal("AWS_BUCKET is required for worker service")
	}

	db := postgres.MustConnect(
		appConfig.PostgresHost,
		appConfig.PostgresDatabase,
		appConfig.PostgresUsername,
		appConfig.PostgresPassword,
		appConfig.PostgresPort,
		appConfig.PostgresSSLMode,
	)
	pgRepository := postgres.NewPgRepository(db)
	defer pgRepository.Close()

	categoryService := category.NewService(
		pgRepository,
		category.NewCategoryValidator(),
		category.NewCategoryTransformer(),
		postgres.NewTransactor(db),
	)

	bucket := aws.NewS3Bucket(appConfig)
	defer bucket.Close()

	snapshotHandler := consumers.NewCategorySnapshotHandler(
		categoryService,
		bucket,
		appConfig.SnapshotKey,
		zap.L(),
	)

	snapshotConsumer, err := rabbitmq.NewConsumer(appConfig.RabbitMQURL, rabbitmq.ConsumerConfig{
		Exchange:       events.CategoryExchange,
		QueueName:      "catalog.category.snapshot.v1",
		RoutingKeys:    []string{"category.*.v1"},
		ServiceName:    appConfig.ServiceName,
		PrefetchCount:  10,
		WorkerPoolSize: 4,
	})
	if err != nil {
		zap.L().Fatal("Failed to create category consumer", zap.Error(err))
	}
	defer snapshotConsumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		zap.L().Info("Starting category event consumer...")
		if err := snapshotConsumer.Consume(ctx, snapshotHandler.HandleEvent); err != nil {
			if !errors.Is(err, context.Canceled) {
				zap.L().Error("Category consumer error", zap.Error(err))
			}
		}
	}()

	go monitorPool(ctx, pgRepository)

	zap.L().Info("Worker service started successfully. Waiting for events...",
		zap.String("exchange", events.CategoryExchange),
	)

	select {
	case <-sigChan:
		zap.L().Info("Shutdown signal received, stopping worker service...")
	case <-consumerDone:
		zap.L().Warn("Category consumer stopped, shutting down worker service...")
	}
	cancel()

	// Consume drains in-flight messages before returning; the channel must
	// stay open until then so their acks reach the broker.
	<-consumerDone

	zap.L().Info("Worker service stopped gracefully")
}

func monitorPool(ctx context.Context, pgRepository *postgres.PgRepository) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := pgRepository.GetPoolStats()
			zap.L().Info("Connection pool stats",
				zap.Int("max_open", stats["max_open_connections"].(int)),
				zap.Int("open", stats["open_connections"].(int)),
				zap.Int("in_use", stats["in_use"].(int)),
				zap.Int("idle", stats["idle"].(int)),
				zap.Int64("wait_count", stats["wait_count"].(int64)),
				zap.Int64("wait_duration_ms", stats["wait_duration_ms"].(int64)),
			)
		}
	}
}
