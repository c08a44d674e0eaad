package scheduler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"fitstudio/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(repo *fakeBookingRepo) (*SessionManager, *memSessionStore) {
	store := newMemSessionStore()
	finalizer := NewFinalizer(repo, 2, nil, time.Hour)
	mgr := NewSessionManager(store, finalizer, NewModelBuilder(), NewSolver(time.Second), 20*time.Minute)
	return mgr, store
}

func suggestionFor(cell models.TimeSlotCell) models.Suggestion {
	return models.Suggestion{
		SlotID:     cell.SlotID(),
		Date:       cell.Date,
		Hour:       cell.Hour,
		CoachID:    cell.CoachID,
		Confidence: 100,
	}
}

// newTestSession creates and persists a session holding two suggestions over
// a nine-cell snapshot, leaving seven alternatives for re-suggestion.
func newTestSession(t *testing.T, mgr *SessionManager) *models.SuggestionSession {
	t.Helper()
	var snapshot []models.TimeSlotCell
	for d := 0; d < 3; d++ {
		date := fmt.Sprintf("2026-09-%02d", 7+d)
		for h := 14; h <= 16; h++ {
			snapshot = append(snapshot, openCell(date, h))
		}
	}
	sess := &models.SuggestionSession{
		ClientID:    "cl1",
		CoachID:     "c1",
		NumSessions: 2,
		Preference:  flexPref(14, 16),
		DateStart:   "2026-09-07",
		Days:        3,
		Suggestions: []models.Suggestion{suggestionFor(snapshot[0]), suggestionFor(snapshot[1])},
		Snapshot:    snapshot,
	}
	require.NoError(t, mgr.Create(context.Background(), sess))
	return sess
}

func TestCreateAssignsTokenAndExpiry(t *testing.T) {
	mgr, store := newTestManager(newFakeBookingRepo())
	sess := newTestSession(t, mgr)

	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, models.SessionStateActive, sess.State)
	assert.WithinDuration(t, time.Now().UTC().Add(20*time.Minute), sess.ExpiresAt, time.Minute)
	assert.Len(t, sess.OfferedSlotIDs, 2)

	stored, err := store.Get(context.Background(), sess.Token)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, sess.Token, stored.Token)
}

func TestReSuggestIndividualReplacesInPlace(t *testing.T) {
	mgr, store := newTestManager(newFakeBookingRepo())
	sess := newTestSession(t, mgr)
	keep := sess.Suggestions[1].SlotID
	reject := sess.Suggestions[0].SlotID

	next, err := mgr.ReSuggestIndividual(context.Background(), sess.Token, reject)
	require.NoError(t, err)
	assert.NotEqual(t, reject, next.SlotID)
	assert.NotEqual(t, keep, next.SlotID)

	stored, err := store.Get(context.Background(), sess.Token)
	require.NoError(t, err)
	require.Len(t, stored.Suggestions, 2)
	assert.Equal(t, next.SlotID, stored.Suggestions[0].SlotID)
	assert.Equal(t, keep, stored.Suggestions[1].SlotID)
	assert.True(t, stored.Offered(reject))
	assert.True(t, stored.Offered(next.SlotID))
}

func TestReSuggestNeverRepeatsOfferedSlots(t *testing.T) {
	mgr, _ := newTestManager(newFakeBookingRepo())
	sess := newTestSession(t, mgr)

	seen := map[string]bool{
		sess.Suggestions[0].SlotID: true,
		sess.Suggestions[1].SlotID: true,
	}
	target := sess.Suggestions[0].SlotID
	for i := 0; i < 7; i++ {
		next, err := mgr.ReSuggestIndividual(context.Background(), sess.Token, target)
		require.NoError(t, err)
		assert.False(t, seen[next.SlotID], "slot %s was offered twice", next.SlotID)
		seen[next.SlotID] = true
		target = next.SlotID
	}

	// Snapshot exhausted: every cell has been offered once.
	_, err := mgr.ReSuggestIndividual(context.Background(), sess.Token, target)
	require.Error(t, err)
	assert.True(t, HasCode(err, CodeNoAvailability))
}

func TestReSuggestUnknownSlot(t *testing.T) {
	mgr, _ := newTestManager(newFakeBookingRepo())
	sess := newTestSession(t, mgr)

	_, err := mgr.ReSuggestIndividual(context.Background(), sess.Token, "2026-09-07:19:c1")
	require.Error(t, err)
	assert.True(t, HasCode(err, CodeSlotNotFound))
}

func TestReSuggestAllReplacesWholeList(t *testing.T) {
	mgr, store := newTestManager(newFakeBookingRepo())
	sess := newTestSession(t, mgr)
	original := map[string]bool{
		sess.Suggestions[0].SlotID: true,
		sess.Suggestions[1].SlotID: true,
	}

	next, err := mgr.ReSuggestAll(context.Background(), sess.Token)
	require.NoError(t, err)
	require.Len(t, next, 2)
	for _, sg := range next {
		assert.False(t, original[sg.SlotID], "slot %s reissued by re-suggest-all", sg.SlotID)
	}

	stored, err := store.Get(context.Background(), sess.Token)
	require.NoError(t, err)
	assert.Len(t, stored.OfferedSlotIDs, 4)
}

func TestExpiredSessionRejected(t *testing.T) {
	mgr, store := newTestManager(newFakeBookingRepo())
	sess := newTestSession(t, mgr)

	sess.ExpiresAt = time.Now().UTC().Add(-time.Minute)
	require.NoError(t, store.Save(context.Background(), sess, time.Minute))

	_, err := mgr.ReSuggestAll(context.Background(), sess.Token)
	require.Error(t, err)
	assert.True(t, HasCode(err, CodeSessionExpired))

	// The stale entry is dropped on access.
	stored, err := store.Get(context.Background(), sess.Token)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestUnknownTokenTreatedAsExpired(t *testing.T) {
	mgr, _ := newTestManager(newFakeBookingRepo())

	_, err := mgr.ReSuggestAll(context.Background(), "no-such-token")
	require.Error(t, err)
	assert.True(t, HasCode(err, CodeSessionExpired))
}

func TestConsumeBooksSelectedSlots(t *testing.T) {
	repo := newFakeBookingRepo()
	mgr, store := newTestManager(repo)
	sess := newTestSession(t, mgr)
	ids := []string{sess.Suggestions[0].SlotID, sess.Suggestions[1].SlotID}

	result, err := mgr.Consume(context.Background(), sess.Token, ids, "leg day")
	require.NoError(t, err)
	assert.Len(t, result.Booked, 2)
	assert.Empty(t, result.Failed)
	for _, b := range result.Booked {
		assert.Equal(t, models.BookingStatusPending, b.Status)
		assert.Equal(t, "cl1", b.ClientID)
		assert.Equal(t, "leg day", b.WorkoutNote)
		assert.True(t, b.Suggested)
	}
	assert.Len(t, repo.inserted, 2)

	stored, err := store.Get(context.Background(), sess.Token)
	require.NoError(t, err)
	assert.Equal(t, models.SessionStateConsumed, stored.State)

	// A second consume must fail instead of double booking.
	_, err = mgr.Consume(context.Background(), sess.Token, ids[:1], "")
	require.Error(t, err)
	assert.True(t, HasCode(err, CodeSlotNotFound))
	assert.Len(t, repo.inserted, 2)
}

func TestConsumeCollapsesRepeatedSlotIDs(t *testing.T) {
	repo := newFakeBookingRepo()
	mgr, _ := newTestManager(repo)
	sess := newTestSession(t, mgr)
	id := sess.Suggestions[0].SlotID

	result, err := mgr.Consume(context.Background(), sess.Token, []string{id, id, id}, "")
	require.NoError(t, err)
	assert.Len(t, result.Booked, 1)
	assert.Empty(t, result.Failed)
	require.Len(t, repo.inserted, 1)
	assert.Equal(t, 1, repo.counts[models.CellKey(result.Booked[0].Date, result.Booked[0].Hour)])
}

func TestConsumeReportsCapacityRacePerSlot(t *testing.T) {
	repo := newFakeBookingRepo()
	mgr, _ := newTestManager(repo)
	sess := newTestSession(t, mgr)

	// Another client fills the first suggested cell after generation.
	first := sess.Suggestions[0]
	repo.counts[models.CellKey(first.Date, first.Hour)] = 2

	ids := []string{sess.Suggestions[0].SlotID, sess.Suggestions[1].SlotID}
	result, err := mgr.Consume(context.Background(), sess.Token, ids, "")
	require.NoError(t, err)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, first.SlotID, result.Failed[0].SlotID)
	assert.Equal(t, CodeCapacityRace, result.Failed[0].Code)
	assert.NotEmpty(t, result.Failed[0].Reason)
	assert.Len(t, result.Booked, 1)
}

func TestConsumeRejectsForeignSlotID(t *testing.T) {
	repo := newFakeBookingRepo()
	mgr, _ := newTestManager(repo)
	sess := newTestSession(t, mgr)

	_, err := mgr.Consume(context.Background(), sess.Token, []string{"2026-09-07:19:c1"}, "")
	require.Error(t, err)
	assert.True(t, HasCode(err, CodeSlotNotFound))
	assert.Empty(t, repo.inserted)
}
