package app

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	pkgcron "github.com/faqbase/core/internal/pkg/cron"
	sessionpkg "github.com/faqbase/core/internal/pkg/session"
)

// registerCronJobs registers all scheduled background jobs.
func registerCronJobs(sched *pkgcron.Scheduler, db *gorm.DB, logger *zap.Logger) {
	cronLogger := logger.Named("cron")

	sched.Register(pkgcron.Job{
		Name:     "purge_stale_sessions",
		Interval: 24 * time.Hour,
		Fn: func(ctx context.Context) error {
			n, err := sessionpkg.PurgeStale(db)
			if err != nil {
				cronLogger.Warn("session purge failed", zap.Error(err))
				return err
			}
			if n > 0 {
				cronLogger.Info("purged stale sessions", zap.Int64("count", n))
			}
			return nil
		},
	})
}
