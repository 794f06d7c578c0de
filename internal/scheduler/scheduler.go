// Package scheduler runs periodic booking maintenance.
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/staybook/service-booking/internal/application"
)

type stayCompleter interface {
	CompleteFinishedStays(ctx context.Context) ([]*application.BookingDTO, error)
}

// Scheduler completes confirmed bookings whose stay has ended.
type Scheduler struct {
	bookingService stayCompleter
	interval       time.Duration
	logger         *zap.Logger
}

// New creates a Scheduler.
func New(bookingService stayCompleter, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		bookingService: bookingService,
		interval:       interval,
		logger:         logger,
	}
}

// Start ticks until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("scheduler started", zap.Duration("interval", s.interval))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	completed, err := s.bookingService.CompleteFinishedStays(ctx)
	if err != nil {
		s.logger.Error("failed to complete finished stays", zap.Error(err))
		return
	}

	for _, b := range completed {
		s.logger.Info("booking completed",
			zap.String("booking_id", b.ID.String()),
			zap.String("room_id", b.RoomID.String()),
			zap.String("check_out", b.CheckOut),
		)
	}
}
