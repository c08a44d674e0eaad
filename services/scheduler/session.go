package scheduler

import (
	"context"
	"sync"
	"time"

	"fitstudio/models"
	"fitstudio/utils"

	"github.com/google/uuid"
)

// SessionManager owns the lifecycle of suggestion sessions: creation,
// re-suggestion and consumption. Operations on the same token are serialized
// with a per-token mutex so concurrent re-suggest or consume calls cannot
// interleave their read-modify-write cycles.
type SessionManager struct {
	Store     SessionStore
	Finalizer *Finalizer
	Builder   *ModelBuilder
	Solver    *Solver
	TTL       time.Duration

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewSessionManager(store SessionStore, finalizer *Finalizer, builder *ModelBuilder, solver *Solver, ttl time.Duration) *SessionManager {
	return &SessionManager{
		Store:     store,
		Finalizer: finalizer,
		Builder:   builder,
		Solver:    solver,
		TTL:       ttl,
		locks:     make(map[string]*sync.Mutex),
	}
}

func (sm *SessionManager) tokenLock(token string) *sync.Mutex {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	l, ok := sm.locks[token]
	if !ok {
		l = &sync.Mutex{}
		sm.locks[token] = l
	}
	return l
}

// Create issues a token for the session, stamps its TTL window and persists
// it. All current suggestions are recorded in the offered history so a later
// re-suggest never reissues them.
func (sm *SessionManager) Create(ctx context.Context, sess *models.SuggestionSession) error {
	sess.Token = uuid.New().String()
	sess.State = models.SessionStateActive
	sess.CreatedAt = time.Now().UTC()
	sess.ExpiresAt = sess.CreatedAt.Add(sm.TTL)
	for _, sg := range sess.Suggestions {
		sess.RecordOffered(sg.SlotID)
	}
	return sm.Store.Save(ctx, sess, sm.TTL)
}

// load fetches an active session. A missing token and an elapsed TTL are both
// reported as expiry: after Redis eviction the two are indistinguishable.
func (sm *SessionManager) load(ctx context.Context, token string) (*models.SuggestionSession, error) {
	sess, err := sm.Store.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, NewSessionExpiredError("suggestion session not found or expired, request new suggestions")
	}
	if sess.Expired(time.Now().UTC()) {
		if err := sm.Store.Delete(ctx, token); err != nil {
			utils.GetLogger().Sugar().Warnw("Failed to delete expired suggestion session", "token", token, "error", err)
		}
		return nil, NewSessionExpiredError("suggestion session expired, request new suggestions")
	}
	return sess, nil
}

func (sm *SessionManager) save(ctx context.Context, sess *models.SuggestionSession) error {
	remaining := time.Until(sess.ExpiresAt)
	if remaining <= 0 {
		remaining = time.Second
	}
	return sm.Store.Save(ctx, sess, remaining)
}

// ReSuggestIndividual replaces one suggestion with an alternative slot never
// offered before in this session, keeping the rest of the list untouched.
func (sm *SessionManager) ReSuggestIndividual(ctx context.Context, token, slotID string) (*models.Suggestion, error) {
	lock := sm.tokenLock(token)
	lock.Lock()
	defer lock.Unlock()

	sess, err := sm.load(ctx, token)
	if err != nil {
		return nil, err
	}
	if sess.State == models.SessionStateConsumed {
		return nil, NewSlotNotFoundError("suggestion session already consumed")
	}
	if !sess.HasSuggestion(slotID) {
		return nil, NewSlotNotFoundError("slot " + slotID + " is not part of this suggestion session")
	}

	replacement, err := sm.searchAlternatives(ctx, sess, 1)
	if err != nil {
		return nil, err
	}
	next := replacement[0]
	for i, sg := range sess.Suggestions {
		if sg.SlotID == slotID {
			sess.Suggestions[i] = next
			break
		}
	}
	sess.RecordOffered(next.SlotID)
	if err := sm.save(ctx, sess); err != nil {
		return nil, err
	}
	return &next, nil
}

// ReSuggestAll discards the current suggestion list and solves again over the
// cached snapshot, excluding everything offered so far. The session keeps its
// token and original expiry.
func (sm *SessionManager) ReSuggestAll(ctx context.Context, token string) ([]models.Suggestion, error) {
	lock := sm.tokenLock(token)
	lock.Lock()
	defer lock.Unlock()

	sess, err := sm.load(ctx, token)
	if err != nil {
		return nil, err
	}
	if sess.State == models.SessionStateConsumed {
		return nil, NewSlotNotFoundError("suggestion session already consumed")
	}

	next, err := sm.searchAlternatives(ctx, sess, sess.NumSessions)
	if err != nil {
		return nil, err
	}
	sess.Suggestions = next
	for _, sg := range next {
		sess.RecordOffered(sg.SlotID)
	}
	if err := sm.save(ctx, sess); err != nil {
		return nil, err
	}
	return next, nil
}

// searchAlternatives runs a constrained solve over the session's cached
// snapshot, excluding every slot already offered. Occupancy in the snapshot
// may be stale; consume re-validates against the live store.
func (sm *SessionManager) searchAlternatives(ctx context.Context, sess *models.SuggestionSession, need int) ([]models.Suggestion, error) {
	excluded := make(map[string]bool, len(sess.OfferedSlotIDs))
	for _, id := range sess.OfferedSlotIDs {
		excluded[id] = true
	}
	model, err := sm.Builder.Build(need, sess.DateStart, sess.Snapshot, sess.Preference, nil, excluded)
	if err != nil {
		if HasCode(err, CodeNoAvailability) {
			return nil, NewNoAvailabilityError("no alternative slots available in this window")
		}
		return nil, err
	}
	res := sm.Solver.Solve(ctx, model)
	if len(res.Assignments) == 0 {
		return nil, NewNoAvailabilityError("no alternative slots available in this window")
	}
	out := make([]models.Suggestion, 0, len(res.Assignments))
	for _, a := range res.Assignments {
		out = append(out, suggestionFromAssignment(a))
	}
	return out, nil
}

// Consume books the selected suggestions and retires the session. Every slot
// ID must belong to the current suggestion list; repeated IDs in one call
// collapse to a single booking. Finalization is per slot: selections losing
// a capacity race are reported in the result rather than failing the whole
// call. The session is marked consumed but kept until its TTL so a repeated
// consume fails cleanly instead of double booking.
func (sm *SessionManager) Consume(ctx context.Context, token string, slotIDs []string, workoutNote string) (*models.BookSelectedResult, error) {
	lock := sm.tokenLock(token)
	lock.Lock()
	defer lock.Unlock()

	sess, err := sm.load(ctx, token)
	if err != nil {
		return nil, err
	}
	if sess.State == models.SessionStateConsumed {
		return nil, NewSlotNotFoundError("suggestion session already consumed")
	}
	if len(slotIDs) == 0 {
		return nil, NewSlotNotFoundError("no slots selected")
	}

	cells := make([]models.TimeSlotCell, 0, len(slotIDs))
	seen := make(map[string]bool, len(slotIDs))
	for _, id := range slotIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		sg, ok := findSuggestion(sess.Suggestions, id)
		if !ok {
			return nil, NewSlotNotFoundError("slot " + id + " is not part of this suggestion session")
		}
		cells = append(cells, models.TimeSlotCell{
			Date:    sg.Date,
			Hour:    sg.Hour,
			CoachID: sg.CoachID,
		})
	}

	result := sm.Finalizer.Finalize(ctx, sess.ClientID, workoutNote, cells)

	sess.State = models.SessionStateConsumed
	if err := sm.save(ctx, sess); err != nil {
		utils.GetLogger().Sugar().Warnw("Failed to persist consumed suggestion session", "token", token, "error", err)
	}
	return result, nil
}

func findSuggestion(list []models.Suggestion, slotID string) (models.Suggestion, bool) {
	for _, sg := range list {
		if sg.SlotID == slotID {
			return sg, true
		}
	}
	return models.Suggestion{}, false
}

func suggestionFromAssignment(a Assignment) models.Suggestion {
	return models.Suggestion{
		SlotID:     a.Cell.SlotID(),
		Date:       a.Cell.Date,
		Hour:       a.Cell.Hour,
		CoachID:    a.Cell.CoachID,
		Confidence: a.Confidence,
	}
}
