package scheduler

import (
	"context"
	"time"

	"github.com/Dias221467/Travel_Planner/pkg/logger"
	"github.com/robfig/cron/v3"
)

// OutboxRetrier replays notifications whose first write failed.
type OutboxRetrier interface {
	RetryPending(ctx context.Context, batch, maxAttempts int) (int, error)
}

const retryTimeout = 30 * time.Second

// StartNotificationCronJobs schedules the outbox retry job and starts the
// scheduler. Callers stop it with the returned cron's Stop.
func StartNotificationCronJobs(retrier OutboxRetrier, spec string, batch, maxAttempts int) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(spec, func() {
		runOutboxRetry(retrier, batch, maxAttempts)
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}

func runOutboxRetry(retrier OutboxRetrier, batch, maxAttempts int) {
	ctx, cancel := context.WithTimeout(context.Background(), retryTimeout)
	defer cancel()

	delivered, err := retrier.RetryPending(ctx, batch, maxAttempts)
	if err != nil {
		logger.Log.WithError(err).Error("RetryPending failed")
		return
	}
	if delivered > 0 {
		logger.Log.WithField("delivered", delivered).Info("Outbox retry run finished")
	}
}
