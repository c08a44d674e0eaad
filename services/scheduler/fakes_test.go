package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	bookingRepo "fitstudio/database/repository/booking"
	"fitstudio/models"
)

// In-memory stand-ins for the Mongo repositories and the Redis session
// store, so the pipeline can be exercised without external services.

type fakeDirectoryRepo struct {
	coaches map[string]models.Coach
	prefs   map[string]models.ClientPreference
}

func (f *fakeDirectoryRepo) GetCoach(_ context.Context, coachID string) (*models.Coach, error) {
	c, ok := f.coaches[coachID]
	if !ok {
		return nil, fmt.Errorf("coach %s not found", coachID)
	}
	return &c, nil
}

func (f *fakeDirectoryRepo) GetPreference(_ context.Context, clientID string) (*models.ClientPreference, error) {
	p, ok := f.prefs[clientID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	counts   map[string]int
	byClient map[string][]models.Booking
	inserted []*models.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		counts:   make(map[string]int),
		byClient: make(map[string][]models.Booking),
	}
}

func (f *fakeBookingRepo) OccupancyCounts(_ context.Context, _, _ string) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]int, len(f.counts))
	for k, v := range f.counts {
		out[k] = v
	}
	return out, nil
}

func (f *fakeBookingRepo) ActiveForClient(_ context.Context, clientID, _, _ string) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byClient[clientID], nil
}

func (f *fakeBookingRepo) InsertPendingIfBelowCapacity(_ context.Context, booking *models.Booking, capacity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := models.CellKey(booking.Date, booking.Hour)
	if f.counts[key] >= capacity {
		return bookingRepo.ErrCapacityExceeded
	}
	f.counts[key]++
	f.inserted = append(f.inserted, booking)
	f.byClient[booking.ClientID] = append(f.byClient[booking.ClientID], *booking)
	return nil
}

func (f *fakeBookingRepo) CancelIfPending(_ context.Context, bookingID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.inserted {
		if b.ID == bookingID && b.Status == models.BookingStatusPending {
			b.Status = models.BookingStatusCancelled
			f.counts[models.CellKey(b.Date, b.Hour)]--
			return true, nil
		}
	}
	return false, nil
}

type fakeSnapshotCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newFakeSnapshotCache() *fakeSnapshotCache {
	return &fakeSnapshotCache{entries: make(map[string][]byte)}
}

func (f *fakeSnapshotCache) Get(_ context.Context, key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.entries[key]
	return data, ok
}

func (f *fakeSnapshotCache) Set(_ context.Context, key string, data []byte, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = data
}

type memSessionStore struct {
	mu       sync.Mutex
	sessions map[string]models.SuggestionSession
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: make(map[string]models.SuggestionSession)}
}

func (m *memSessionStore) Get(_ context.Context, token string) (*models.SuggestionSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok {
		return nil, nil
	}
	copied := s
	return &copied, nil
}

func (m *memSessionStore) Save(_ context.Context, sess *models.SuggestionSession, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.Token] = *sess
	return nil
}

func (m *memSessionStore) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}
