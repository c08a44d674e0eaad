package scheduler

import (
	"context"
	"fmt"
	"time"

	bookingRepo "fitstudio/database/repository/booking"
	directoryRepo "fitstudio/database/repository/directory"
	"fitstudio/models"
	"fitstudio/utils"
)

// SchedulingService is the public surface of the scheduling optimizer.
type SchedulingService interface {
	GetAvailability(ctx context.Context, coachID, dateFrom string, days int) ([]models.TimeSlotCell, error)
	GenerateSuggestions(ctx context.Context, req models.SchedulingRequest) (*models.SuggestionResult, error)
	ReSuggestIndividual(ctx context.Context, token, slotID string) (*models.Suggestion, error)
	ReSuggestAll(ctx context.Context, token string) ([]models.Suggestion, error)
	BookSelected(ctx context.Context, token string, slotIDs []string, workoutNote string) (*models.BookSelectedResult, error)
}

// DefaultSchedulingService wires the availability index, the model builder,
// the solver and the session manager into one pipeline.
type DefaultSchedulingService struct {
	Availability *AvailabilityIndex
	Builder      *ModelBuilder
	Solver       *Solver
	Sessions     *SessionManager
	Directory    directoryRepo.DirectoryRepository
	Bookings     bookingRepo.BookingRepository
}

func (s *DefaultSchedulingService) GetAvailability(ctx context.Context, coachID, dateFrom string, days int) ([]models.TimeSlotCell, error) {
	return s.Availability.Snapshot(ctx, coachID, dateFrom, days)
}

// GenerateSuggestions runs the full pipeline: snapshot, preference
// resolution, model build, solve, and session creation. Zero-suggestion
// outcomes are results, not errors: the caller always gets a solver status
// and a message. A session token is issued only when there is at least one
// suggestion to hold.
func (s *DefaultSchedulingService) GenerateSuggestions(ctx context.Context, req models.SchedulingRequest) (*models.SuggestionResult, error) {
	logger := utils.GetLogger().Sugar()
	started := time.Now()

	snapshot, err := s.Availability.Snapshot(ctx, req.CoachID, req.PreferredDateStart, req.DaysFlexibility)
	if err != nil {
		return nil, err
	}

	pref, err := s.resolvePreference(ctx, req)
	if err != nil {
		return nil, err
	}

	if len(snapshot) == 0 {
		return emptyResult(StatusNoAvailability, started, req, pref), nil
	}

	taken, err := s.clientCellKeys(ctx, req.ClientID, req.PreferredDateStart, req.DaysFlexibility)
	if err != nil {
		return nil, err
	}

	model, err := s.Builder.Build(req.NumSessions, req.PreferredDateStart, snapshot, pref, taken, nil)
	if err != nil {
		if HasCode(err, CodeNoAvailability) {
			return emptyResult(StatusNoAvailability, started, req, pref), nil
		}
		return nil, err
	}

	res := s.Solver.Solve(ctx, model)
	logger.Infow("Suggestion solve finished",
		"clientID", req.ClientID,
		"coachID", req.CoachID,
		"status", res.Status,
		"candidates", len(model.Candidates),
		"solveTime", res.SolveTime,
	)
	if len(res.Assignments) == 0 {
		return emptyResult(res.Status, started, req, pref), nil
	}

	suggestions := make([]models.Suggestion, 0, len(res.Assignments))
	for _, a := range res.Assignments {
		suggestions = append(suggestions, suggestionFromAssignment(a))
	}

	sess := &models.SuggestionSession{
		ClientID:    req.ClientID,
		CoachID:     req.CoachID,
		NumSessions: req.NumSessions,
		Preference:  pref,
		DateStart:   req.PreferredDateStart,
		Days:        req.DaysFlexibility,
		Suggestions: suggestions,
		Snapshot:    withoutTakenCells(snapshot, taken),
	}
	if err := s.Sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to create suggestion session: %w", err)
	}

	return &models.SuggestionResult{
		Suggestions:  suggestions,
		SolverStatus: res.Status,
		SolveTimeMs:  time.Since(started).Milliseconds(),
		SessionToken: sess.Token,
		ExpiresAt:    sess.ExpiresAt.Format(time.RFC3339),
		Message:      resultMessage(res.Status, len(suggestions), req.NumSessions, req.DaysFlexibility, pref),
	}, nil
}

func (s *DefaultSchedulingService) ReSuggestIndividual(ctx context.Context, token, slotID string) (*models.Suggestion, error) {
	return s.Sessions.ReSuggestIndividual(ctx, token, slotID)
}

func (s *DefaultSchedulingService) ReSuggestAll(ctx context.Context, token string) ([]models.Suggestion, error) {
	return s.Sessions.ReSuggestAll(ctx, token)
}

func (s *DefaultSchedulingService) BookSelected(ctx context.Context, token string, slotIDs []string, workoutNote string) (*models.BookSelectedResult, error) {
	return s.Sessions.Consume(ctx, token, slotIDs, workoutNote)
}

// resolvePreference loads the stored preference, falling back to the open
// default, then applies any per-request hour range override.
func (s *DefaultSchedulingService) resolvePreference(ctx context.Context, req models.SchedulingRequest) (models.ClientPreference, error) {
	pref := models.DefaultPreference(req.ClientID)
	stored, err := s.Directory.GetPreference(ctx, req.ClientID)
	if err != nil {
		return pref, fmt.Errorf("failed to fetch client preference: %w", err)
	}
	if stored != nil {
		pref = *stored
	}
	if r := req.PreferredHourRange; r != nil {
		pref.PreferredStartHour = r.Start
		pref.PreferredEndHour = r.End
	}
	return pref, nil
}

// clientCellKeys returns the studio-hour buckets inside the search window
// where the client already holds an active booking. One session per client
// per hour.
func (s *DefaultSchedulingService) clientCellKeys(ctx context.Context, clientID, dateFrom string, days int) (map[string]bool, error) {
	start, err := time.Parse(utils.DateLayout, dateFrom)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", dateFrom, err)
	}
	dateTo := start.AddDate(0, 0, days-1).Format(utils.DateLayout)
	bookings, err := s.Bookings.ActiveForClient(ctx, clientID, dateFrom, dateTo)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch client bookings: %w", err)
	}
	keys := make(map[string]bool, len(bookings))
	for _, b := range bookings {
		keys[models.CellKey(b.Date, b.Hour)] = true
	}
	return keys, nil
}

func withoutTakenCells(cells []models.TimeSlotCell, taken map[string]bool) []models.TimeSlotCell {
	if len(taken) == 0 {
		return cells
	}
	out := make([]models.TimeSlotCell, 0, len(cells))
	for _, c := range cells {
		if !taken[c.CellKey()] {
			out = append(out, c)
		}
	}
	return out
}

func emptyResult(status string, started time.Time, req models.SchedulingRequest, pref models.ClientPreference) *models.SuggestionResult {
	return &models.SuggestionResult{
		Suggestions:  []models.Suggestion{},
		SolverStatus: status,
		SolveTimeMs:  time.Since(started).Milliseconds(),
		Message:      resultMessage(status, 0, req.NumSessions, req.DaysFlexibility, pref),
	}
}
