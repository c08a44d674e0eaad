package models

import "fmt"

// TimeSlotCell is one bookable (date, hour) unit for a coach. Capacity and
// occupancy are studio-wide: all coaches share the same pool at a given
// studio-hour.
type TimeSlotCell struct {
	Date          string `bson:"date" json:"date"` // "YYYY-MM-DD"
	Hour          int    `bson:"hour" json:"hour"` // session runs Hour:00 to Hour+1:00
	CoachID       string `bson:"coach_id" json:"coach_id"`
	OccupiedCount int    `bson:"occupied_count" json:"occupied_count"`
	Capacity      int    `bson:"capacity" json:"capacity"`
	WithinShift   bool   `bson:"within_shift" json:"within_shift"`
}

// SlotID returns the stable identifier for this cell.
func (c TimeSlotCell) SlotID() string {
	return fmt.Sprintf("%s:%02d:%s", c.Date, c.Hour, c.CoachID)
}

// CellKey identifies the studio-wide occupancy bucket the cell draws from.
// Coaches share capacity, so the coach is deliberately not part of the key.
func (c TimeSlotCell) CellKey() string {
	return CellKey(c.Date, c.Hour)
}

// Bookable reports whether the cell can still take a session.
func (c TimeSlotCell) Bookable() bool {
	return c.WithinShift && c.OccupiedCount < c.Capacity
}

// CellKey builds the studio-wide occupancy key for a (date, hour) pair.
func CellKey(date string, hour int) string {
	return fmt.Sprintf("%s:%02d", date, hour)
}

// Suggestion is a candidate slot proposed by the solver, held in a
// suggestion session pending acceptance.
type Suggestion struct {
	SlotID     string  `json:"slot_id"`
	Date       string  `json:"date"`
	Hour       int     `json:"hour"`
	CoachID    string  `json:"coach_id"`
	Confidence float64 `json:"confidence_score"` // 0-100
}
