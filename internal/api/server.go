package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourusername/house-odds/internal/builder"
	"github.com/yourusername/house-odds/internal/config"
	"github.com/yourusername/house-odds/internal/health"
	"github.com/yourusername/house-odds/internal/logger"
	"github.com/yourusername/house-odds/internal/metrics"
)

const (
	maxBodyBytes   = 1 << 20
	requestTimeout = 10 * time.Second
)

// Server hosts the preview endpoints.
type Server struct {
	cfg        *config.Config
	previewer  *Previewer
	health     *health.Handler
	log        *logrus.Logger
	previewLog *logger.PreviewLogger
	requestLog *logger.RequestLogger
	limiter    *rate.Limiter
	upgrader   websocket.Upgrader
	server     *http.Server

	liveMu sync.Mutex
	live   map[*websocket.Conn]struct{}
}

// NewServer creates a server from configuration.
func NewServer(cfg *config.Config, previewer *Previewer, healthHandler *health.Handler, log *logrus.Logger) *Server {
	if log == nil {
		log = logger.Discard()
	}
	s := &Server{
		cfg:        cfg,
		previewer:  previewer,
		health:     healthHandler,
		log:        log,
		previewLog: logger.NewPreviewLogger(log),
		requestLog: logger.NewRequestLogger(log),
		limiter:    rate.NewLimiter(rate.Limit(cfg.Server.RequestsPerSecond), cfg.Server.Burst),
		live:       make(map[*websocket.Conn]struct{}),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     s.allowOrigin,
	}
	return s
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, ErrMethodNotAllowed.Error())
	})

	r.Get("/health", s.health.Health)
	r.Get("/live", s.health.Live)
	r.Get("/ready", s.health.Ready)
	if s.cfg.Metrics.Enabled {
		r.Handle(s.cfg.Metrics.Path, metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Get("/ws/preview", s.handleLive)

		r.Route("/api/v1", func(r chi.Router) {
			r.Use(middleware.Timeout(requestTimeout))
			r.Post("/preview", s.handlePreview)
			r.Post("/preview/form", s.handlePreviewForm)
		})
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         s.cfg.ListenAddress(),
		Handler:      s.Router(),
		ReadTimeout:  time.Duration(s.cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	s.server.RegisterOnShutdown(s.closeLiveSessions)

	errCh := make(chan error, 1)
	go func() {
		s.log.WithFields(logrus.Fields{
			"addr":    s.server.Addr,
			"service": s.cfg.App.Name,
		}).Info("Preview server starting")

		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	s.health.SetReady(true)

	select {
	case err, ok := <-errCh:
		s.health.SetReady(false)
		if ok {
			return fmt.Errorf("preview server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.health.SetReady(false)
	s.log.Info("Preview server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down preview server: %w", err)
	}
	return nil
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req PreviewRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.reject(w, SurfaceJSON, http.StatusBadRequest, fmt.Errorf("%w: %v", ErrInvalidPayload, err))
		return
	}

	b, err := s.previewer.FromRequest(req)
	if err != nil {
		s.reject(w, SurfaceJSON, statusFor(err), err)
		return
	}

	s.respondPreview(w, b, req.Stake, SurfaceJSON)
}

func (s *Server) handlePreviewForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		s.reject(w, SurfaceForm, http.StatusBadRequest, fmt.Errorf("%w: %v", ErrInvalidPayload, err))
		return
	}

	var stake *decimal.Decimal
	if raw := r.PostForm.Get(builder.StakeField); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			s.reject(w, SurfaceForm, http.StatusBadRequest, fmt.Errorf("%w: stake: %v", ErrInvalidPayload, err))
			return
		}
		stake = &d
	}

	b := builder.FromForm(s.previewer.BuilderConfig(), r.PostForm)
	s.respondPreview(w, b, stake, SurfaceForm)
}

func (s *Server) respondPreview(w http.ResponseWriter, b *builder.Builder, stake *decimal.Decimal, surface string) {
	resp, err := s.previewer.Preview(b, stake, surface)
	if err != nil {
		s.reject(w, surface, statusFor(err), err)
		return
	}
	metrics.RecordRequest(surface, "ok")
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) reject(w http.ResponseWriter, surface string, status int, err error) {
	metrics.RecordRequest(surface, "rejected")
	s.previewLog.LogPreviewRejected(surface, err.Error())
	respondError(w, status, err.Error())
}

func (s *Server) allowOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.cfg.Server.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrTooManyOutcomes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusBadRequest
	}
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}
