package scheduler

import (
	"fmt"
	"sort"
	"time"

	"fitstudio/models"
	"fitstudio/utils"
)

// ObjectiveWeights tunes the soft objective. Only the relative ordering
// matters: a full preference match must outrank a near match, a near match
// must outrank recency, and recency must outrank date spread.
type ObjectiveWeights struct {
	PreferenceMatch int // hour inside the preferred window
	PreferenceNear  int // hour on the +-1 margin of a flexible window
	DayRecency      int // per day closer to the window start
	DateSpread      int // per distinct booking date in the assignment
}

func DefaultWeights() ObjectiveWeights {
	return ObjectiveWeights{
		PreferenceMatch: 1000,
		PreferenceNear:  500,
		DayRecency:      20,
		DateSpread:      15,
	}
}

type candidate struct {
	cell  models.TimeSlotCell
	score int
}

// Model is a scored candidate set ready for the solver. Candidates are
// ordered by (date, hour) so the search is deterministic.
type Model struct {
	Need       int
	Candidates []candidate
	Weights    ObjectiveWeights

	maxScore int
}

type ModelBuilder struct {
	Weights ObjectiveWeights
}

func NewModelBuilder() *ModelBuilder {
	return &ModelBuilder{Weights: DefaultWeights()}
}

// Build filters the snapshot down to admissible candidates and scores each
// one. The hard constraints are: the cell must be below capacity, the client
// must not already hold a booking at that date and hour, the slot must not
// have been offered before in this session, and the hour must be admitted by
// the preference (strict windows admit only in-window hours, flexible windows
// also admit the one-hour margin).
//
// A NoAvailabilityError is returned only when the snapshot contains zero
// bookable cells at all. A snapshot with bookable cells that all fail the
// preference or exclusion filters yields an empty model, which the solver
// reports as infeasible.
func (b *ModelBuilder) Build(
	need int,
	dateStart string,
	cells []models.TimeSlotCell,
	pref models.ClientPreference,
	takenCellKeys map[string]bool,
	excludedSlotIDs map[string]bool,
) (*Model, error) {
	start, err := time.Parse(utils.DateLayout, dateStart)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", dateStart, err)
	}

	bookable := 0
	m := &Model{Need: need, Weights: b.Weights}
	for _, cell := range cells {
		if !cell.Bookable() {
			continue
		}
		bookable++
		if takenCellKeys[cell.CellKey()] {
			continue
		}
		if excludedSlotIDs[cell.SlotID()] {
			continue
		}
		if !pref.Admits(cell.Hour) {
			continue
		}
		score, err := b.scoreCell(cell, pref, start)
		if err != nil {
			return nil, err
		}
		m.Candidates = append(m.Candidates, candidate{cell: cell, score: score})
		if score > m.maxScore {
			m.maxScore = score
		}
	}
	if bookable == 0 {
		return nil, NewNoAvailabilityError("no open slots in the requested window")
	}

	sort.Slice(m.Candidates, func(i, j int) bool {
		ci, cj := m.Candidates[i].cell, m.Candidates[j].cell
		if ci.Date != cj.Date {
			return ci.Date < cj.Date
		}
		return ci.Hour < cj.Hour
	})
	return m, nil
}

func (b *ModelBuilder) scoreCell(cell models.TimeSlotCell, pref models.ClientPreference, start time.Time) (int, error) {
	date, err := time.Parse(utils.DateLayout, cell.Date)
	if err != nil {
		return 0, fmt.Errorf("invalid cell date %q: %w", cell.Date, err)
	}
	dayIdx := int(date.Sub(start).Hours() / 24)

	score := 0
	switch {
	case pref.InWindow(cell.Hour):
		score += b.Weights.PreferenceMatch
	case pref.IsFlexible && pref.OnMargin(cell.Hour):
		score += b.Weights.PreferenceNear
	}
	// Earlier dates in the window score higher.
	score += b.Weights.DayRecency * maxInt(0, 14-dayIdx)
	return score, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
