package models

import "time"

// Booking statuses.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

// Booking represents a persisted session booking. This is the only entity
// the scheduling subsystem writes to the booking store.
type Booking struct {
	ID          string    `bson:"id" json:"id"`
	ClientID    string    `bson:"client_id" json:"client_id"`
	CoachID     string    `bson:"coach_id" json:"coach_id"`
	Date        string    `bson:"date" json:"date"` // "YYYY-MM-DD"
	Hour        int       `bson:"hour" json:"hour"`
	Status      string    `bson:"status" json:"status"`
	WorkoutNote string    `bson:"workout_note,omitempty" json:"workout_note,omitempty"`
	Suggested   bool      `bson:"suggested" json:"suggested"` // created via the suggestion flow
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

// Active reports whether the booking still occupies studio capacity.
func (b Booking) Active() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}
