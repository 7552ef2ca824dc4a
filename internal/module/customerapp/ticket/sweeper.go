package ticket

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Sweeper periodically reclaims reservations that were neither confirmed nor
// cancelled within the TTL. An expired hold may therefore outlive its TTL by
// at most one interval.
type Sweeper struct {
	logger   *logrus.Logger
	interval time.Duration
	useCase  TicketUseCase
}

func NewSweeper(logger *logrus.Logger, interval time.Duration, useCase TicketUseCase) *Sweeper {
	return &Sweeper{
		logger:   logger,
		interval: interval,
		useCase:  useCase,
	}
}

// Run blocks until ctx is cancelled. A failed sweep is logged and the next
// tick tries again.
func (s *Sweeper) Run(ctx context.Context) {
	s.logger.WithField("interval", s.interval.String()).Info("reservation sweeper started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("reservation sweeper stopped")
			return
		case <-ticker.C:
			if err := s.useCase.ReleaseExpiredReservations(ctx); err != nil {
				s.logger.WithError(err).Error("reservation sweep failed")
			}
		}
	}
}
