package main

import (
	"time"

	"github.com/hibiken/asynq"

	"weddinghub-backend/internal/shared"
	"weddinghub-backend/pkg/logger"
)

// newScheduler registers the periodic jobs
func newScheduler(redisOpt asynq.RedisClientOpt) *asynq.Scheduler {
	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
		Location: time.Local,
	})

	// Poll the gateway for payments whose callback was delayed or lost
	_, err := scheduler.Register(
		"*/5 * * * *",
		asynq.NewTask(shared.TaskPaymentPollPending, nil),
		asynq.Queue(shared.QueueDefault),
		asynq.MaxRetry(3),
		asynq.Timeout(2*time.Minute),
	)
	if err != nil {
		logger.Error("failed to register payment poll schedule", err)
	}

	return scheduler
}
