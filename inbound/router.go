package inbound

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	glog "github.com/goliatone/go-logger/glog"
)

const (
	PathRoot     = "/"
	PathCallback = "/oauth/callback"

	LandingText = "Nuvemshop app is running with a PostgreSQL token store.\n"
)

func NewRouter(callback http.Handler, logger glog.Logger) chi.Router {
	if logger == nil {
		logger = glog.Nop()
	}
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(RequestLogger(logger))
	router.Use(middleware.Recoverer)

	router.Get(PathRoot, func(w http.ResponseWriter, _ *http.Request) {
		writeText(w, http.StatusOK, LandingText)
	})
	if callback != nil {
		router.Get(PathCallback, callback.ServeHTTP)
	}
	return router
}

// RequestLogger logs one line per request once the response is written.
// Query strings are left out since they carry authorization codes.
func RequestLogger(logger glog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = glog.Nop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			startedAt := time.Now()
			wrapped := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				status := wrapped.Status()
				if status == 0 {
					status = http.StatusOK
				}
				logger.Info("http request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", status,
					"bytes", wrapped.BytesWritten(),
					"duration_ms", time.Since(startedAt).Milliseconds(),
					"remote_addr", r.RemoteAddr,
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()
			next.ServeHTTP(wrapped, r)
		})
	}
}
