package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"marketplace/config"
	"marketplace/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// PurgeSchedule runs the availability sweep shortly after midnight.
const PurgeSchedule = "5 0 * * *"

// AvailabilityPurger is the slice of the scheduling engine the worker needs.
type AvailabilityPurger interface {
	PurgeStaleAvailability(ctx context.Context) (int64, error)
}

// Worker owns the asynq server and scheduler for background jobs.
type Worker struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	logger    *zap.Logger
	stop      chan struct{}
}

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitPurgeWorker registers the daily purge and runs the worker in background.
func InitPurgeWorker(purger AvailabilityPurger, loc *time.Location, logger *zap.Logger) (*Worker, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := redisOpts()

	srv := asynq.NewServer(opts, asynq.Config{
		Concurrency:     2,
		Queues:          map[string]int{"default": 1},
		Logger:          logger.Sugar(),
		ShutdownTimeout: 10 * time.Second,
	})
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeAvailabilityPurge, HandlePurgeTask(purger, logger))

	scheduler := asynq.NewScheduler(opts, &asynq.SchedulerOpts{Location: loc, Logger: logger.Sugar()})
	task, taskOpts, err := tasks.NewAvailabilityPurgeTask(time.Now())
	if err != nil {
		return nil, err
	}
	entryID, err := scheduler.Register(PurgeSchedule, task, taskOpts...)
	if err != nil {
		return nil, fmt.Errorf("register purge schedule: %w", err)
	}
	logger.Info("availability purge scheduled", zap.String("entryID", entryID), zap.String("cron", PurgeSchedule))

	w := &Worker{server: srv, scheduler: scheduler, logger: logger, stop: make(chan struct{})}

	go monitorRedisConnection(opts, logger, w.stop)

	go func() {
		const maxAttempts = 5
		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Start(mux)
			if err == nil {
				break
			}
			logger.Warn("purge worker failed to start", zap.Int("attempt", attempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Error("purge worker giving up")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
		if err := scheduler.Start(); err != nil {
			logger.Error("purge scheduler failed to start", zap.Error(err))
		}
	}()

	return w, nil
}

func (w *Worker) Shutdown() {
	close(w.stop)
	w.scheduler.Shutdown()
	w.server.Shutdown()
}

// HandlePurgeTask sweeps expired overrides and leave periods.
func HandlePurgeTask(purger AvailabilityPurger, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.PurgePayload
		if len(task.Payload()) > 0 {
			if err := json.Unmarshal(task.Payload(), &p); err != nil {
				logger.Error("invalid purge payload", zap.Error(err))
				return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
			}
		}

		removed, err := purger.PurgeStaleAvailability(ctx)
		if err != nil {
			logger.Error("availability purge failed", zap.Error(err))
			return err
		}
		logger.Info("availability purged", zap.Int64("providers", removed), zap.Time("registeredAt", p.RegisteredAt))
		return nil
	}
}

// monitorRedisConnection pings the queue Redis periodically to surface outages.
func monitorRedisConnection(opts asynq.RedisClientOpt, logger *zap.Logger, stop <-chan struct{}) {
	client := redis.NewClient(&redis.Options{Addr: opts.Addr, Password: opts.Password, DB: opts.DB})
	defer client.Close()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			if err := client.Ping(ctx).Err(); err != nil {
				logger.Warn("queue redis connection lost", zap.Error(err))
			}
			cancel()
		}
	}
}
