package user

import (
	"context"
	"time"

	"artmarket/internal/logger"

	"go.uber.org/zap"
)

// StartResetCleanupJob clears reset state that expired more than grace ago.
// It blocks until ctx is cancelled.
func (s *Service) StartResetCleanupJob(ctx context.Context, interval, grace time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("Reset cleanup job started",
		zap.Duration("interval", interval),
		zap.Duration("grace", grace),
	)

	s.cleanupExpiredResets(ctx, grace)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Reset cleanup job stopped")
			return
		case <-ticker.C:
			s.cleanupExpiredResets(ctx, grace)
		}
	}
}

func (s *Service) cleanupExpiredResets(ctx context.Context, grace time.Duration) {
	cleared, err := s.userRepo.ClearExpiredResets(ctx, s.now().Add(-grace))
	if err != nil {
		logger.Error("Failed to clear expired password resets", zap.Error(err))
		return
	}

	logger.Debug("Expired password resets cleared",
		zap.Int64("cleared", cleared),
		zap.Duration("grace", grace),
	)
}
