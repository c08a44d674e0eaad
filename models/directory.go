package models

// Coach holds the directory entry the scheduler needs: the working shift.
// A coach without configured shift hours offers no slots.
type Coach struct {
	ID             string `bson:"id" json:"id"`
	Name           string `bson:"name" json:"name"`
	ShiftStartHour int    `bson:"shift_start_hour" json:"shift_start_hour"`
	ShiftEndHour   int    `bson:"shift_end_hour" json:"shift_end_hour"` // exclusive
}

// HasShift reports whether the coach has usable shift hours configured.
func (c Coach) HasShift() bool {
	return c.ShiftEndHour > c.ShiftStartHour
}

// OnShift reports whether the given hour falls inside the coach's shift.
func (c Coach) OnShift(hour int) bool {
	return c.HasShift() && hour >= c.ShiftStartHour && hour < c.ShiftEndHour
}

// ClientPreference is the client's stored time-window preference. A missing
// preference record is represented by DefaultPreference.
type ClientPreference struct {
	ClientID           string `bson:"client_id" json:"client_id"`
	PreferredStartHour int    `bson:"preferred_start_hour" json:"preferred_start_hour"`
	PreferredEndHour   int    `bson:"preferred_end_hour" json:"preferred_end_hour"` // inclusive
	IsFlexible         bool   `bson:"is_flexible" json:"is_flexible"`
}

// DefaultPreference is used when a client has no stored preference: any
// hour is acceptable.
func DefaultPreference(clientID string) ClientPreference {
	return ClientPreference{
		ClientID:           clientID,
		PreferredStartHour: 0,
		PreferredEndHour:   23,
		IsFlexible:         true,
	}
}

// InWindow reports whether the hour is inside the preferred window.
func (p ClientPreference) InWindow(hour int) bool {
	return hour >= p.PreferredStartHour && hour <= p.PreferredEndHour
}

// OnMargin reports whether the hour sits on the one-hour flexibility margin
// around the preferred window.
func (p ClientPreference) OnMargin(hour int) bool {
	return hour == p.PreferredStartHour-1 || hour == p.PreferredEndHour+1
}

// Admits reports whether a session at the hour is acceptable at all:
// inside the window, or on the margin when the client is flexible.
func (p ClientPreference) Admits(hour int) bool {
	if p.InWindow(hour) {
		return true
	}
	return p.IsFlexible && p.OnMargin(hour)
}
