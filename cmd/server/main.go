package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	grpchandler "github.com/ogurasousui/employee-directory/internal/adapters/grpc/handler"
	httphandler "github.com/ogurasousui/employee-directory/internal/adapters/http/handler"
	"github.com/ogurasousui/employee-directory/internal/adapters/repository/postgres"
	"github.com/ogurasousui/employee-directory/internal/core/employee"
	"github.com/ogurasousui/employee-directory/internal/platform/config"
	pg "github.com/ogurasousui/employee-directory/internal/platform/db/postgres"
	"github.com/ogurasousui/employee-directory/internal/platform/logger"
	"github.com/ogurasousui/employee-directory/internal/platform/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("failed to load .env: %v", err)
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	location, err := employee.LoadDisplayLocation(cfg.Directory.DisplayTimeZone)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to load display time zone")
	}

	dbPool, err := pg.NewPool(ctx, cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to initialize database pool")
	}
	defer dbPool.Close()

	employeeRepo := postgres.NewEmployeeRepository(dbPool)
	txManager := pg.NewTransactionManager(dbPool, pg.WithBeginErrorMapper(postgres.TranslateBeginError))
	employeeSvc := employee.NewService(employeeRepo, txManager,
		employee.WithDisplayLocation(location),
		employee.WithTakeLimits(cfg.Directory.DefaultTake, cfg.Directory.MaxTake),
		employee.WithLogger(appLogger),
	)

	httpRouter := httphandler.NewRouter(employeeSvc, dbPool, httphandler.Options{
		AllowedOrigins: cfg.Server.CORS.AllowedOrigins,
		Logger:         appLogger.With().Str("component", "http").Logger(),
	})

	srv := server.New(server.Config{
		GRPCAddr:        cfg.Server.ListenAddr,
		HTTPAddr:        cfg.Server.HTTPAddr,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, grpchandler.NewEmployeeDirectoryHandler(employeeSvc), httpRouter, dbPool, appLogger)

	appLogger.Info().
		Str("grpc_addr", cfg.Server.ListenAddr).
		Str("http_addr", cfg.Server.HTTPAddr).
		Str("display_time_zone", location.String()).
		Msg("starting employee directory")

	if err := srv.Run(ctx); err != nil {
		appLogger.Fatal().Err(err).Msg("server stopped with error")
	}
}
