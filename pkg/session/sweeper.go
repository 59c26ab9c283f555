package session

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// NewSweeper schedules a periodic purge of expired sessions. The returned
// cron is not started.
func NewSweeper(store *Store, schedule string, logger *zap.Logger) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		n, err := store.DeleteExpired(ctx)
		if err != nil {
			logger.Error("session sweep failed", zap.Error(err))
			return
		}
		if n > 0 {
			logger.Info("expired sessions purged", zap.Int64("count", n))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid session sweep schedule %q: %w", schedule, err)
	}
	return c, nil
}
