package audit

import (
	"context"
	"time"
)

// StartRetention purges old entries on a ticker until the context is done.
// Disabled when retention or interval is non-positive.
func (s *Service) StartRetention(ctx context.Context, retention, interval time.Duration) {
	if retention <= 0 || interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cutoff := time.Now().Add(-retention)
				deleted, err := s.Purge(ctx, cutoff)
				if err != nil {
					s.logger.Warn("audit retention purge failed", "error", err)
					continue
				}
				if deleted > 0 {
					s.logger.Info("audit retention purge", "deleted", deleted, "cutoff", cutoff)
				}
			}
		}
	}()
}
