// Package server is the presentation boundary: a chi-routed HTTP
// server exposing the dashboard pages, the JSON API and health checks.
// It renders whatever the data core returns and sends back only the
// user's filter, window, threshold and refresh selections.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/speedwagon-io/sysdash/internal/config"
	"github.com/speedwagon-io/sysdash/internal/lib/logger/sl"
	"github.com/speedwagon-io/sysdash/internal/loader"
	"github.com/speedwagon-io/sysdash/internal/model"
)

type Server struct {
	log      *slog.Logger
	cfg      *config.Config
	loader   *loader.Loader
	boot     model.Status
	server   *http.Server
	checkers []HealthChecker
}

func New(log *slog.Logger, cfg *config.Config, ldr *loader.Loader, boot model.Status) *Server {
	return &Server{
		log:    log,
		cfg:    cfg,
		loader: ldr,
		boot:   boot,
	}
}

func (s *Server) AddChecker(checker HealthChecker) {
	s.checkers = append(s.checkers, checker)
}

// Handler builds the route tree. Split out from Start so tests can
// drive the server through httptest.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestID)
	r.Use(s.logRequests)

	r.Get("/", s.handleOverview)
	r.Get("/records", s.handleRecords)
	r.Post("/refresh", s.handleRefreshPage)

	r.Route("/api", func(r chi.Router) {
		r.Get("/records", s.handleAPIRecords)
		r.Get("/summary", s.handleAPISummary)
		r.Get("/series", s.handleAPISeries)
		r.Post("/refresh", s.handleAPIRefresh)
	})

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	r.Get("/live", s.handleLive)

	return r
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.HTTP.Address,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.HTTP.ReadTimeout,
		WriteTimeout: s.cfg.HTTP.WriteTimeout,
	}

	s.log.Info("starting dashboard server", slog.String("address", s.cfg.HTTP.Address))

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error("dashboard server error", sl.Err(err))
		}
	}()

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// renderStatus decides which table-level status a render pass shows:
// a bootstrap condition wins, then the loader's, then "no data yet"
// for a table that is simply empty.
func (s *Server) renderStatus(loadStatus model.Status, table model.Table) model.Status {
	if !s.boot.IsZero() {
		return s.boot
	}
	if !loadStatus.IsZero() {
		return loadStatus
	}
	if len(table) == 0 {
		return model.Warning("no data yet")
	}
	return model.OK
}
