package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"carvault/config"
	"carvault/models"
	"carvault/services/tasks"
	"carvault/utils"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// NewAsynqClient builds the task-queue client used to enqueue reminders.
func NewAsynqClient() *asynq.Client {
	return asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})
}

// ReminderEnqueuer schedules service-due reminders onto the task queue.
type ReminderEnqueuer struct {
	Client *asynq.Client
}

func (e *ReminderEnqueuer) ScheduleServiceReminder(ctx context.Context, payload models.ReminderPayload, at time.Time) error {
	task, opts, err := tasks.NewServiceReminderTask(payload, at)
	if err != nil {
		return err
	}
	_, err = e.Client.EnqueueContext(ctx, task, opts...)
	return err
}

// InitReminderWorker runs the async worker in background.
func InitReminderWorker() {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeServiceReminder, handleServiceReminderTask)

	// Start Redis health monitor
	go monitorRedisConnection()

	// Start async worker with retry logic
	go func() {
		log.Println("[ReminderWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReminderWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReminderWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleServiceReminderTask(ctx context.Context, task *asynq.Task) error {
	logger := utils.GetLogger()

	var p models.ReminderPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		logger.Error("Invalid reminder payload", zap.Error(err))
		return err
	}

	logger.Info("Service reminder due",
		zap.String("vehicleId", p.VehicleID),
		zap.String("serviceRecordId", p.ServiceRecordID),
		zap.String("serviceType", p.ServiceType),
		zap.String("dueDate", p.DueDate),
		zap.String("title", p.Title),
		zap.String("body", p.Body))
	return nil
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[ReminderWorker] Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
