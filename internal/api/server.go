// Package api serves the analytics and report endpoints over HTTP.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/abhisek/quizmark/internal/analytics"
	"github.com/abhisek/quizmark/internal/ingest"
	"github.com/abhisek/quizmark/internal/logging"
	"github.com/abhisek/quizmark/internal/report"
	"github.com/abhisek/quizmark/internal/store"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool
		Store          *store.Store
		Assembler      *report.Assembler
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
		log  *slog.Logger
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts: opts,
		app:  echo.New(),
		log:  logging.New("api"),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.HideBanner = true
	s.app.HidePort = true

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
			LogMethod:   true,
			LogURI:      true,
			LogStatus:   true,
			LogLatency:  true,
			LogError:    true,
			HandleError: true,
			LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
				attrs := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency}
				if v.Error != nil {
					s.log.Warn("request failed", append(attrs, "error", v.Error)...)
					return nil
				}
				s.log.Info("request", attrs...)
				return nil
			},
		}))
	}
	s.app.Use(middleware.Recover())

	s.app.Validator = newValidator()
	s.app.HTTPErrorHandler = newHTTPErrorHandler(s.log)

	s.app.GET("/healthz", healthz)

	h := &handlers{
		svc:      analytics.NewService(s.opts.Store, s.opts.Assembler),
		importer: ingest.NewImporter(s.opts.Store),
	}
	g := s.app.Group("/api")
	registerAnalyticsAPI(g.Group("/analytics"), h)
	registerReportsAPI(g.Group("/reports"), h)
	g.POST("/submissions", h.importSubmissions)
}

// Start blocks serving until Stop is called.
func (s *server) Start() error {
	s.log.Info("listening", "addr", s.opts.Address)
	if err := s.app.Start(s.opts.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func healthz(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
