package main

import (
	"catalog/app/category"
	"catalog/infra/grpc"
	"catalog/infra/postgres"
	"catalog/pkg/config"
	"catalog/pkg/logger"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

func main() {
	appConfig := config.Read()
	log := logger.Init(appConfig.IsProduction())
	defer log.Sync()

	zap.L().Info("Catalog gRPC Service starting...")

	grpcServer, err := grpc.NewServer(appConfig)
	if err != nil {
		zap.L().Fatal("failed to create grpc server", zap.Error(err))
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

	grpcServer.RegisterCategoryService(grpc.NewCategoryService(categoryService))

	zap.L().Info("starting gRPC server...", zap.String("port", appConfig.GRPCPort))
	go func() {
		if err := grpcServer.Start(); err != nil {
			zap.L().Error("failed to start grpc server", zap.Error(err))
			os.Exit(1)
		}
	}()

	gracefulShutdown(grpcServer)
}

func gracefulShutdown(grpcServer *grpc.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	zap.L().Info("Shutting down server...")

	grpcServer.GracefulStop()

	zap.L().Info("Server gracefully stopped")
}
