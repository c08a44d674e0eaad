package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"fitstudio/config"
	bookingRepo "fitstudio/database/repository/booking"
	"fitstudio/models"
	"fitstudio/services/tasks"

	"github.com/hibiken/asynq"
)

// InitBookingExpiryWorker runs the async worker in background. It processes
// delayed booking-expire tasks, cancelling pending bookings whose hold
// window elapsed without confirmation so their capacity is released.
func InitBookingExpiryWorker(repo bookingRepo.BookingRepository) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
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
	mux.HandleFunc(tasks.TypeBookingExpire, handleBookingExpireTask(repo))

	go func() {
		log.Println("[ExpiryWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ExpiryWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ExpiryWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleBookingExpireTask(repo bookingRepo.BookingRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.BookingExpirePayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ExpiryHandler] invalid payload: %v", err)
			return err
		}

		cancelled, err := repo.CancelIfPending(ctx, p.BookingID)
		if err != nil {
			log.Printf("[ExpiryHandler] failed to expire booking %s: %v", p.BookingID, err)
			return err
		}
		if cancelled {
			log.Printf("[ExpiryHandler] released unconfirmed hold %s (%s %02d:00)", p.BookingID, p.Date, p.Hour)
		}
		return nil
	}
}
