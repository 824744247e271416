package app

import (
	"context"
	"time"

	"github.com/daybook-app/core/internal/modules/entry"
	pkgcron "github.com/daybook-app/core/internal/pkg/cron"
	"github.com/daybook-app/core/internal/pkg/session"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// backfillWindow bounds how far back the rating backfill looks. Older
// unrated entries stay unrated until edited.
const backfillWindow = 7 * 24 * time.Hour

// registerCronJobs registers all scheduled background jobs.
func registerCronJobs(sched *pkgcron.Scheduler, db *gorm.DB, entrySvc *entry.Service, logger *zap.Logger) {
	cronLogger := logger.Named("cron")

	sched.Register(pkgcron.Job{
		Name:     "backfill_ratings",
		Interval: 6 * time.Hour,
		Fn: func(ctx context.Context) error {
			rated, err := entrySvc.BackfillRatings(ctx, backfillWindow)
			if err != nil {
				return err
			}
			if rated > 0 {
				cronLogger.Info("backfilled missing ratings", zap.Int("rated", rated))
			}
			return nil
		},
	})

	sched.Register(pkgcron.Job{
		Name:     "purge_expired_sessions",
		Interval: 24 * time.Hour,
		Fn: func(ctx context.Context) error {
			purged, err := session.PurgeExpired(db, time.Now())
			if err != nil {
				return err
			}
			if purged > 0 {
				cronLogger.Info("purged expired sessions", zap.Int64("purged", purged))
			}
			return nil
		},
	})
}
