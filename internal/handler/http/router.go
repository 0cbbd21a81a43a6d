package http

import (
	"log/slog"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

type RouterOptions struct {
	Env            string
	FrontendURL    string
	LogLevel       slog.Level
	RequestTimeout time.Duration
}

func NewRouter(
	opts RouterOptions,
	reportHandler ReportHandler,
	exportHandler ExportHandler,
	sourceHandler SourceHandler,
	streamHandler StreamHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       opts.LogLevel,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-audit"),
		slog.String("version", "v1.0.0"),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{opts.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// Long-lived connection, no timeout
		r.Get("/stream", streamHandler.Stream)

		r.Group(func(r chi.Router) {
			if opts.RequestTimeout > 0 {
				r.Use(chiMiddleware.Timeout(opts.RequestTimeout))
			}

			r.Get("/filters", reportHandler.Filters)
			r.Get("/dashboard", reportHandler.Dashboard)
			r.Get("/summary", reportHandler.Summary)
			r.Route("/organizations", func(r chi.Router) {
				r.Get("/", reportHandler.Organizations)
				r.Get("/{organization}/employees", reportHandler.OrganizationEmployees)
			})
			r.Get("/checklist", reportHandler.Checklist)

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", reportHandler.Employees)
				r.Get("/{employeeID}", reportHandler.Employee)
			})

			r.Route("/exports", func(r chi.Router) {
				r.Post("/", exportHandler.Create)
				r.Get("/{token}", exportHandler.Download)
			})

			r.Post("/source/reload", sourceHandler.Reload)
		})
	})
	return r
}
