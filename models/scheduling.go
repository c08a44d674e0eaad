package models

// HourRange is an inclusive hour window override carried on a request.
type HourRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// SchedulingRequest describes one ask for suggested sessions. It is built
// per API call and never persisted.
type SchedulingRequest struct {
	ClientID           string     `json:"client_id" binding:"required"`
	CoachID            string     `json:"coach_id" binding:"required"`
	NumSessions        int        `json:"num_sessions" binding:"required,min=1,max=5"`
	PreferredDateStart string     `json:"preferred_date_start" binding:"required"` // "YYYY-MM-DD"
	DaysFlexibility    int        `json:"days_flexibility" binding:"required,min=1,max=14"`
	PreferredHourRange *HourRange `json:"preferred_hour_range,omitempty"`
}

// SuggestionResult is the outcome of a suggestion run, session token included.
type SuggestionResult struct {
	Suggestions  []Suggestion `json:"suggestions"`
	SolverStatus string       `json:"solver_status"`
	SolveTimeMs  int64        `json:"solve_time_ms"`
	SessionToken string       `json:"session_token"`
	ExpiresAt    string       `json:"expires_at"`
	Message      string       `json:"message"`
}

// FailedSlot reports one selected slot that could not be booked. Code
// carries the scheduling error code for programmatic handling; Reason is
// the human-readable explanation.
type FailedSlot struct {
	SlotID string `json:"slot_id"`
	Code   string `json:"code,omitempty"`
	Reason string `json:"reason"`
}

// BookSelectedResult carries the per-slot outcome of a consume operation.
// Finalization is not atomic across slots: the caller learns exactly which
// selections made it through.
type BookSelectedResult struct {
	Booked []Booking    `json:"booked"`
	Failed []FailedSlot `json:"failed"`
}
