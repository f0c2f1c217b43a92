package main

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Houeta/employee-api/internal/config"
	"github.com/Houeta/employee-api/internal/handlers"
	"github.com/Houeta/employee-api/internal/lib/logger/sl"
	"github.com/Houeta/employee-api/internal/metrics"
	"github.com/Houeta/employee-api/internal/repository"
	"github.com/Houeta/employee-api/internal/server"
	"github.com/Houeta/employee-api/internal/services/employees"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
)

const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
//
// @title Employee API
// @version 1.0
// @description CRUD API for employee records.
// @BasePath /
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	logger := setupLogger(cfg.Env)

	// Create a separate registry for metrics with exemplar
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	employeeRepo, pinger, closeStore := setupStorage(ctx, cfg, appMetrics)
	defer closeStore()

	employeeService := employees.NewService(logger, employeeRepo, appMetrics)
	employeeHandler := handlers.NewEmployeeHandler(logger, employeeService)
	router := server.NewRouter(logger, appMetrics, employeeHandler, cfg.CORS)
	apiServer := server.NewAPIServer(cfg.HTTPServer, router)

	grp, grpCtx := errgroup.WithContext(ctx)

	grp.Go(func() error {
		return server.StartMonitoringServer(grpCtx, logger, reg, pinger, cfg.Monitoring.Port)
	})

	grp.Go(func() error {
		logger.InfoContext(grpCtx, "Starting Employee API", "storage", cfg.Storage)
		return server.Serve(grpCtx, logger.With(sl.Op("Server.API")), apiServer, cfg.HTTPServer.ShutdownTimeout)
	})

	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	if err := grp.Wait(); err != nil {
		logger.ErrorContext(ctx, "Application stopped with error", sl.Err(err))
		return
	}

	logger.InfoContext(ctx, "Application stopped gracefully...")
}

// setupStorage connects the configured employee store and returns it with its pinger and a close function.
func setupStorage(
	ctx context.Context,
	cfg *config.Config,
	appMetrics *metrics.Metrics,
) (repository.EmployeeRepoIface, server.DBPinger, func()) {
	switch cfg.Storage {
	case config.StorageSQLite:
		dtb, err := repository.NewSQLiteDatabase(ctx, cfg.SQLite.Path)
		if err != nil {
			log.Fatalf("Failed to open SQLite DB: %v", err)
		}

		return repository.NewSQLiteEmployeeRepository(dtb, appMetrics),
			server.PingFunc(dtb.PingContext),
			func() { closeSQL(dtb) }
	default:
		dtb, err := repository.NewDatabase(ctx, cfg.Postgres)
		if err != nil {
			log.Fatalf("Failed to connect to DB: %v", err)
		}

		return repository.NewEmployeeRepository(dtb, appMetrics), dtb, dtb.Close
	}
}

func closeSQL(dtb *sql.DB) {
	if err := dtb.Close(); err != nil {
		log.Printf("Failed to close SQLite DB: %v", err)
	}
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelInfo,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelWarn,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{Key: "", Value: slog.Value{}}
					}
					return a
				},
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelError,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{Key: "", Value: slog.Value{}}
					}
					return a
				},
			}),
		)

		log.Error(
			"The env parameter was not specified, or was invalid. Logging will be minimal, by default." +
				" Please specify the value of `env`: local, development, production")
	}

	return log
}
