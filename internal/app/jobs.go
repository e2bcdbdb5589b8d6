/**
 * @description
 * Scheduled maintenance jobs for the labstock backend.
 */
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/labstock/labstock-backend/internal/store"
)

// Jobs holds the dependencies the scheduled jobs need.
type Jobs struct {
	subs   store.SubscriptionRepository
	logger *slog.Logger
}

// NewJobs creates a new Jobs instance.
func NewJobs(subs store.SubscriptionRepository, logger *slog.Logger) *Jobs {
	return &Jobs{subs: subs, logger: logger}
}

// SweepExpiredSubscriptions deactivates every subscription whose end date has
// passed. A subscription with a null end date is open-ended and never swept.
func (j *Jobs) SweepExpiredSubscriptions() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	affected, err := j.subs.DeactivateExpiredSubscriptions(ctx)
	if err != nil {
		j.logger.Error("subscription sweep failed", "error", err)
		return
	}
	if affected > 0 {
		j.logger.Info("deactivated expired subscriptions", "count", affected)
	}
}
