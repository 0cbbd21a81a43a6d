package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/attendance-audit/internal/config"
	"github.com/cmlabs-hris/attendance-audit/internal/domain/attendance"
	appHTTP "github.com/cmlabs-hris/attendance-audit/internal/handler/http"
	"github.com/cmlabs-hris/attendance-audit/internal/pkg/cron"
	"github.com/cmlabs-hris/attendance-audit/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-audit/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-audit/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-audit/internal/pkg/storage"
	"github.com/cmlabs-hris/attendance-audit/internal/repository/cached"
	"github.com/cmlabs-hris/attendance-audit/internal/repository/file"
	"github.com/cmlabs-hris/attendance-audit/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/attendance-audit/internal/service/attendance"
	exportService "github.com/cmlabs-hris/attendance-audit/internal/service/export"
	reportService "github.com/cmlabs-hris/attendance-audit/internal/service/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var recordSource attendance.RecordSource
	switch cfg.Source.Type {
	case "csv":
		recordSource = file.NewCSVSource(cfg.Source.Path)
	case "xlsx":
		recordSource = file.NewXLSXSource(cfg.Source.Path, cfg.Source.Sheet)
	case "postgres":
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
		})
		if err != nil {
			log.Fatal("Error connecting to database:", err)
		}
		defer db.Close()
		recordSource = postgresql.NewAttendanceSource(db, cfg.Source.Table)
	default:
		log.Fatal("Unsupported source type: ", cfg.Source.Type)
	}
	source := cached.NewSource(recordSource)

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(cfg.Storage.BasePath)
		if err != nil {
			log.Fatal("Failed to initialize local storage:", err)
		}
	default:
		log.Fatal("Unsupported storage types: ", cfg.Storage.Type)
	}

	JWTService := jwt.NewJWTService(cfg.Download.Secret, cfg.Download.LinkTTL)
	hub := sse.NewHub()

	attendanceSvc := attendanceService.NewAttendanceService(source)
	reportSvc := reportService.NewReportService(attendanceSvc)
	exportSvc := exportService.NewExportService(attendanceSvc, fileStorage, JWTService, cfg.Storage.BaseURL)

	// Warm the cache so a broken export is reported at startup
	if _, err := attendanceSvc.Options(ctx, ""); err != nil {
		slog.Warn("Attendance export could not be loaded", "source", cfg.Source.Type, "error", err)
	}

	scheduler := cron.NewScheduler(ctx)
	datasetJobs := cron.NewDatasetJobs(source, hub, fileStorage, exportService.Dir, cfg.Download.LinkTTL)
	datasetJobs.RegisterJobs(scheduler, cfg.Source.RefreshInterval)
	scheduler.Start()

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			Env:            cfg.App.Env,
			FrontendURL:    cfg.App.FrontendURL,
			LogLevel:       cfg.SlogLevel(),
			RequestTimeout: 60 * time.Second,
		},
		appHTTP.NewReportHandler(attendanceSvc, reportSvc),
		appHTTP.NewExportHandler(exportSvc),
		appHTTP.NewSourceHandler(attendanceSvc, hub),
		appHTTP.NewStreamHandler(hub),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// Open streams end when the process is asked to stop
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		slog.Info("Server running", "addr", "http://localhost"+server.Addr, "source", cfg.Source.Type)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
	scheduler.Stop()
}
