package middleware

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

type HTTPRequestLogger struct {
	logger        *logrus.Logger
	debug         bool
	minimumStatus int
}

// NewHTTPRequestLogger builds a request-logging middleware. When debug is
// false only responses at or above minimumStatus are logged.
func NewHTTPRequestLogger(logger *logrus.Logger, debug bool, minimumStatus int) *HTTPRequestLogger {
	return &HTTPRequestLogger{
		logger:        logger,
		debug:         debug,
		minimumStatus: minimumStatus,
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (m *HTTPRequestLogger) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		if !m.debug && rec.status < m.minimumStatus {
			return
		}

		m.logger.WithContext(r.Context()).WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		}).Info("http request")
	})
}
