package models

// BookingExpirePayload is the queue payload for the pending-hold sweep of a
// single booking.
type BookingExpirePayload struct {
	BookingID string `json:"booking_id"`
	ClientID  string `json:"client_id"`
	Date      string `json:"date"`
	Hour      int    `json:"hour"`
}
