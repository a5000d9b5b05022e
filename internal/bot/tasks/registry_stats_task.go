package tasks

import (
	"context"
	"fmt"
)

// newRegistryStatsTask refreshes the registered-users gauge.
func newRegistryStatsTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", RegistryStats)

	return func(ctx context.Context) error {
		n, err := deps.Store.CountUsers(ctx)
		if err != nil {
			return fmt.Errorf("failed to count users: %w", err)
		}
		deps.Metrics.RegisteredUsers.Set(float64(n))
		log.InfoContext(ctx, "Registry size", "users", n)
		return nil
	}
}
