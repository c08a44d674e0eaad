package models

import "time"

// Suggestion session states.
const (
	SessionStateActive   = "active"
	SessionStateConsumed = "consumed"
)

// SuggestionSession holds one batch of suggestions between generation and
// booking. It caches the availability snapshot and the client preference so
// re-suggest operations do not re-derive the search space; capacity is
// re-validated against the live booking store at consume time regardless.
type SuggestionSession struct {
	Token       string            `json:"token"`
	ClientID    string            `json:"client_id"`
	CoachID     string            `json:"coach_id"`
	State       string            `json:"state"`
	NumSessions int               `json:"num_sessions"`
	Preference  ClientPreference  `json:"preference"`
	DateStart   string            `json:"date_start"`
	Days        int               `json:"days"`
	Suggestions []Suggestion      `json:"suggestions"`
	Snapshot    []TimeSlotCell    `json:"snapshot"`
	// Every slot ID ever offered in this session, current ones included.
	// Replaced or rejected IDs stay here so they are never reissued.
	OfferedSlotIDs []string  `json:"offered_slot_ids"`
	CreatedAt      time.Time `json:"created_at"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// Expired reports whether the session TTL has elapsed at the given time.
func (s *SuggestionSession) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// HasSuggestion reports whether slotID is among the current suggestions.
func (s *SuggestionSession) HasSuggestion(slotID string) bool {
	for _, sg := range s.Suggestions {
		if sg.SlotID == slotID {
			return true
		}
	}
	return false
}

// Offered reports whether slotID was ever offered in this session.
func (s *SuggestionSession) Offered(slotID string) bool {
	for _, id := range s.OfferedSlotIDs {
		if id == slotID {
			return true
		}
	}
	return false
}

// RecordOffered appends slot IDs to the offered history, skipping duplicates.
func (s *SuggestionSession) RecordOffered(slotIDs ...string) {
	for _, id := range slotIDs {
		if !s.Offered(id) {
			s.OfferedSlotIDs = append(s.OfferedSlotIDs, id)
		}
	}
}
