package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/shelfmark/shelfmark-server/internal/logger"
)

// CleanupJob runs periodic expiry sweeps over sessions and password
// reset tokens.
type CleanupJob struct {
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (j *CleanupJob) Shutdown() error {
	j.cancel()
	return nil
}

// ProvideCleanupJob provides the periodic expiry cleanup job.
func ProvideCleanupJob(i do.Injector) (*CleanupJob, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())

	sweep := func() {
		if count, err := storeHandle.DeleteExpiredSessions(ctx); err != nil {
			log.Warn("Session cleanup failed", "error", err)
		} else if count > 0 {
			log.Info("Session cleanup completed", "deleted", count)
		}

		if count, err := storeHandle.DeleteExpiredPasswordResets(ctx); err != nil {
			log.Warn("Password reset cleanup failed", "error", err)
		} else if count > 0 {
			log.Info("Password reset cleanup completed", "deleted", count)
		}
	}

	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		// Initial cleanup on startup
		sweep()

		for {
			select {
			case <-ticker.C:
				sweep()
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Info("Cleanup job started")

	return &CleanupJob{cancel: cancel}, nil
}
