package frontend

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
)

// RequestIDHeader carries the id assigned to every served request.
const RequestIDHeader = "X-Request-ID"

type ctxKey struct{}

// logRequests tags every request with a fresh id and logs its completion.
func (svc *Service) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := uuid.New().String()
		logger := svc.cfg.Logger.WithFields(logrus.Fields{
			"request_id": reqID,
			"path":       r.URL.Path,
		})

		w.Header().Set(RequestIDHeader, reqID)
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), ctxKey{}, logger)))

		logger.WithFields(logrus.Fields{
			"method":   r.Method,
			"status":   ww.Status(),
			"duration": time.Since(start).String(),
		}).Debug("served request")
	})
}

// requestLogger returns the logger attached to r by logRequests or fallback
// if r did not go through it.
func requestLogger(r *http.Request, fallback *logrus.Entry) *logrus.Entry {
	if logger, ok := r.Context().Value(ctxKey{}).(*logrus.Entry); ok {
		return logger
	}
	return fallback
}

type metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "linkrec_http_requests_total",
				Help: "Total number of served HTTP requests",
			},
			[]string{"route", "status"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "linkrec_http_request_duration_seconds",
				Help:    "Duration of served HTTP requests in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"route", "status"},
		),
	}
}

// instrument records the count and duration of requests, labelled by the
// matched route pattern so that user addresses never become label values.
func (m *metrics) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		labels := prometheus.Labels{"route": route, "status": strconv.Itoa(status)}
		m.requests.With(labels).Inc()
		m.duration.With(labels).Observe(time.Since(start).Seconds())
	})
}
