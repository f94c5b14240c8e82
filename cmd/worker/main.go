package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"weddinghub-backend/internal/shared"
	"weddinghub-backend/pkg/container"
	"weddinghub-backend/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, using environment variables", nil)
	}

	logger.Init(os.Getenv("APP_ENV"))

	c, err := container.NewContainer()
	if err != nil {
		logger.Error("failed to initialize container", err)
		os.Exit(1)
	}
	defer c.Cleanup()

	redisOpt := asynq.RedisClientOpt{
		Addr:     c.Config.Redis.Host,
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	}

	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: c.Config.Job.WorkerConcurrency,
		Queues: map[string]int{
			shared.QueueCritical: 6,
			shared.QueueDefault:  3,
			shared.QueueLow:      1,
		},
	})

	mux := asynq.NewServeMux()
	registerHandlers(mux, c)

	scheduler := newScheduler(redisOpt)

	go func() {
		logger.Info("task scheduler starting", nil)
		if err := scheduler.Run(); err != nil {
			logger.Error("scheduler stopped", err)
		}
	}()

	go func() {
		logger.Info("worker starting", map[string]interface{}{
			"concurrency": c.Config.Job.WorkerConcurrency,
		})
		if err := server.Run(mux); err != nil {
			logger.Error("worker stopped", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down worker...", nil)
	scheduler.Shutdown()
	server.Shutdown()
	logger.Info("worker stopped", nil)
}
