package tasks

import (
	"encoding/json"
	"time"

	"fitstudio/models"

	"github.com/hibiken/asynq"
)

const TypeBookingExpire = "booking:expire"

// NewBookingExpireTask builds the delayed task that cancels a pending booking
// if it was never confirmed within the hold window.
func NewBookingExpireTask(payload models.BookingExpirePayload, expireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeBookingExpire, b)
	opts := []asynq.Option{asynq.ProcessAt(expireAt)}

	return task, opts, nil
}
