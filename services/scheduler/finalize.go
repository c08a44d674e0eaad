package scheduler

import (
	"context"
	"errors"
	"time"

	bookingRepo "fitstudio/database/repository/booking"
	"fitstudio/models"
	"fitstudio/services/tasks"
	"fitstudio/utils"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Finalizer turns accepted suggestions into pending bookings. Each insert
// re-checks studio capacity inside a transaction, so two clients racing for
// the last seat in a cell cannot both win.
type Finalizer struct {
	Repo     bookingRepo.BookingRepository
	Capacity int
	// Queue schedules the pending-hold expiry task per booking. Nil disables
	// scheduling, which in-memory tests rely on.
	Queue   *asynq.Client
	HoldFor time.Duration
}

func NewFinalizer(repo bookingRepo.BookingRepository, capacity int, queue *asynq.Client, holdFor time.Duration) *Finalizer {
	return &Finalizer{Repo: repo, Capacity: capacity, Queue: queue, HoldFor: holdFor}
}

// Finalize books each cell independently and reports per-slot outcomes.
// A capacity race on one slot never rolls back the others.
func (f *Finalizer) Finalize(ctx context.Context, clientID, workoutNote string, cells []models.TimeSlotCell) *models.BookSelectedResult {
	logger := utils.GetLogger().Sugar()
	result := &models.BookSelectedResult{}

	for _, cell := range cells {
		booking := &models.Booking{
			ID:          uuid.New().String(),
			ClientID:    clientID,
			CoachID:     cell.CoachID,
			Date:        cell.Date,
			Hour:        cell.Hour,
			Status:      models.BookingStatusPending,
			WorkoutNote: workoutNote,
			Suggested:   true,
			CreatedAt:   time.Now().UTC(),
		}
		if err := f.Repo.InsertPendingIfBelowCapacity(ctx, booking, f.Capacity); err != nil {
			failed := models.FailedSlot{SlotID: cell.SlotID(), Reason: "failed to book slot"}
			if errors.Is(err, bookingRepo.ErrCapacityExceeded) {
				failed.Code = CodeCapacityRace
				failed.Reason = "slot was filled while you were deciding, please re-suggest"
			} else {
				logger.Errorw("Failed to insert booking", "slot", cell.SlotID(), "error", err)
			}
			result.Failed = append(result.Failed, failed)
			continue
		}
		f.scheduleExpiry(ctx, booking)
		result.Booked = append(result.Booked, *booking)
	}
	return result
}

func (f *Finalizer) scheduleExpiry(ctx context.Context, booking *models.Booking) {
	if f.Queue == nil {
		return
	}
	payload := models.BookingExpirePayload{
		BookingID: booking.ID,
		ClientID:  booking.ClientID,
		Date:      booking.Date,
		Hour:      booking.Hour,
	}
	task, opts, err := tasks.NewBookingExpireTask(payload, booking.CreatedAt.Add(f.HoldFor))
	if err != nil {
		utils.GetLogger().Sugar().Warnw("Failed to build booking expiry task", "bookingID", booking.ID, "error", err)
		return
	}
	if _, err := f.Queue.EnqueueContext(ctx, task, opts...); err != nil {
		utils.GetLogger().Sugar().Warnw("Failed to enqueue booking expiry task", "bookingID", booking.ID, "error", err)
	}
}
