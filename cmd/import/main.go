package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/cmlabs-hris/attendance-audit/internal/config"
	"github.com/cmlabs-hris/attendance-audit/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-audit/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-audit/internal/repository/file"
	"github.com/cmlabs-hris/attendance-audit/internal/repository/postgresql"
)

// import loads a CSV or XLSX attendance export into the PostgreSQL staging
// table read by SOURCE_TYPE=postgres.
func main() {
	path := flag.String("file", "", "attendance export to import (.csv or .xlsx)")
	sheet := flag.String("sheet", "", "worksheet of an .xlsx export, first sheet when empty")
	flag.Parse()

	cfg, err := config.Read()
	if err != nil {
		log.Fatal("Error loading config:", err)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	if *path == "" {
		*path = cfg.Source.Path
	}

	var source attendance.RecordSource
	switch strings.ToLower(filepath.Ext(*path)) {
	case ".csv":
		source = file.NewCSVSource(*path)
	case ".xlsx":
		source = file.NewXLSXSource(*path, *sheet)
	default:
		log.Fatal("Unsupported export file: ", *path)
	}

	ctx := context.Background()

	table, err := source.Load(ctx)
	if err != nil {
		log.Fatal("Failed to read export:", err)
	}

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		log.Fatal("Error connecting to database:", err)
	}
	defer db.Close()

	target := postgresql.NewAttendanceSource(db, cfg.Source.Table)
	if err := target.EnsureSchema(ctx); err != nil {
		log.Fatal(err)
	}

	copied, err := target.ReplaceRows(ctx, table.Rows)
	if err != nil {
		log.Fatal(err)
	}

	slog.Info("Attendance export imported", "file", *path, "table", cfg.Source.Table, "rows", copied)
}
