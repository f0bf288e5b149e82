package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/metrics"
)

func (s *Server) accessLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrw := newResponseWriterWrapper(w)

		next.ServeHTTP(wrw, r)

		route := routeName(r)
		code := wrw.GetStatusCode()
		metrics.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(code)).Inc()

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.String("path", r.URL.Path),
			zap.Int("status_code", code),
			zap.Int("bytes", wrw.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
		}
		if username, _, ok := r.BasicAuth(); ok {
			fields = append(fields, zap.String("user", username))
		}
		if id := mux.Vars(r)["id"]; id != "" {
			fields = append(fields, zap.String("entity_id", id))
		}

		level := zapcore.InfoLevel
		switch {
		case code >= http.StatusInternalServerError:
			level = zapcore.ErrorLevel
		case code >= http.StatusBadRequest:
			level = zapcore.WarnLevel
		case r.Method == http.MethodGet:
			level = zapcore.DebugLevel
		}
		s.log.Log(level, "Request served", fields...)
	})
}

// routeName is the path template the request matched, so metrics stay bounded.
func routeName(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unknown"
}
