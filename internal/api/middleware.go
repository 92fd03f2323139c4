package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/yourusername/house-odds/internal/metrics"
)

// rateLimit rejects requests once the shared limiter is exhausted.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			metrics.RecordRequest(surfaceFor(r.URL.Path), "rate_limited")
			respondError(w, http.StatusTooManyRequests, ErrRateLimited.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// logRequests writes one structured entry per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		defer func() {
			s.requestLog.LogRequest(
				middleware.GetReqID(r.Context()),
				r.Method,
				r.URL.Path,
				ww.Status(),
				ww.BytesWritten(),
				time.Since(start),
				r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func surfaceFor(path string) string {
	switch path {
	case "/ws/preview":
		return SurfaceLive
	case "/api/v1/preview/form":
		return SurfaceForm
	default:
		return SurfaceJSON
	}
}
