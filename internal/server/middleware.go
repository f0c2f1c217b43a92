package server

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Houeta/employee-api/internal/metrics"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

type ctxKey struct{}

// RequestIDFromContext returns the id attached by RequestID, if any.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// RequestID reuses the incoming X-Request-ID or generates a new one and echoes it on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, req *http.Request) {
		requestID := req.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		writer.Header().Set(RequestIDHeader, requestID)
		next.ServeHTTP(writer, req.WithContext(context.WithValue(req.Context(), ctxKey{}, requestID)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Observe logs every request and records it in the HTTP metrics.
func Observe(log *slog.Logger, appMetrics *metrics.Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, req *http.Request) {
			startTime := time.Now()
			recorder := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}

			next.ServeHTTP(recorder, req)

			duration := time.Since(startTime)
			route := routeTemplate(req)

			appMetrics.HTTPRequests.WithLabelValues(req.Method, route, strconv.Itoa(recorder.status)).Inc()
			appMetrics.HTTPRequestDuration.WithLabelValues(req.Method, route).Observe(duration.Seconds())

			log.InfoContext(req.Context(), "request completed",
				slog.String("method", req.Method),
				slog.String("path", req.URL.Path),
				slog.Int("status", recorder.status),
				slog.Duration("duration", duration),
				slog.String("request_id", RequestIDFromContext(req.Context())),
			)
		})
	}
}

func routeTemplate(req *http.Request) string {
	if route := mux.CurrentRoute(req); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}

	return "unmatched"
}
