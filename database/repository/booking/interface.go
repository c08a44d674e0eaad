// File: database/repository/booking/interface.go
package bookingRepo

import (
	"context"
	"errors"

	"fitstudio/database"
	"fitstudio/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrCapacityExceeded is returned when a commit-time capacity re-check fails:
// the studio-hour filled up between suggestion generation and booking.
var ErrCapacityExceeded = errors.New("studio capacity exceeded for slot")

// BookingRepository is the scheduling subsystem's view of the booking store.
// Everything is read-only except InsertPendingIfBelowCapacity and
// CancelIfPending, which together form the finalizer's write path.
type BookingRepository interface {
	// OccupancyCounts returns active (pending/confirmed) booking counts per
	// studio-hour, keyed by models.CellKey, for dates in [dateFrom, dateTo].
	// Counts are studio-wide across all coaches.
	OccupancyCounts(ctx context.Context, dateFrom, dateTo string) (map[string]int, error)

	// ActiveForClient returns the client's pending/confirmed bookings with
	// dates in [dateFrom, dateTo].
	ActiveForClient(ctx context.Context, clientID, dateFrom, dateTo string) ([]models.Booking, error)

	// InsertPendingIfBelowCapacity inserts the booking only if the active
	// count at its studio-hour is still below capacity, atomically against
	// concurrent commits for the same (date, hour). Returns
	// ErrCapacityExceeded when the re-check fails.
	InsertPendingIfBelowCapacity(ctx context.Context, booking *models.Booking, capacity int) error

	// CancelIfPending flips a still-pending booking to cancelled, releasing
	// its capacity. Reports whether a booking was actually cancelled.
	CancelIfPending(ctx context.Context, bookingID string) (bool, error)
}

type mongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo constructs a new MongoDB BookingRepository.
func NewMongoBookingRepo() BookingRepository {
	db := database.MongoClient.Database("fitstudio")
	return &mongoBookingRepo{
		coll: db.Collection("bookings"),
	}
}
