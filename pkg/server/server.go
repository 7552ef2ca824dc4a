package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
)

// Server wraps http.Server with logging around startup and shutdown.
type Server struct {
	http.Server
	Logger *logrus.Logger
}

func (s *Server) ListenAndServe() {
	s.Logger.WithField("addr", s.Addr).Info("http server is listening")

	if err := s.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.Logger.WithError(err).Error("http server stopped unexpectedly")
	}
}

func (s *Server) Shutdown(ctx context.Context) {
	if err := s.Server.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.Logger.WithError(err).Error("http server shutdown error")
		return
	}

	s.Logger.Info("http server stopped gracefully")
}
