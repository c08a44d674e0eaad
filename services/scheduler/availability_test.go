package scheduler

import (
	"context"
	"testing"
	"time"

	"fitstudio/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStudio() StudioConfig {
	return StudioConfig{
		Capacity:       2,
		OpenHour:       8,
		CloseHour:      21,
		LunchStartHour: 12,
		LunchEndHour:   13,
	}
}

func newTestIndex(dir *fakeDirectoryRepo, bookings *fakeBookingRepo) *AvailabilityIndex {
	return &AvailabilityIndex{Directory: dir, Bookings: bookings, Studio: testStudio()}
}

func TestStudioHoursSkipLunch(t *testing.T) {
	hours := testStudio().Hours()
	assert.NotContains(t, hours, 12)
	assert.Contains(t, hours, 11)
	assert.Contains(t, hours, 13)
	assert.Equal(t, 8, hours[0])
	assert.Equal(t, 20, hours[len(hours)-1])
}

func TestSnapshotRespectsShiftAndStudioHours(t *testing.T) {
	dir := &fakeDirectoryRepo{coaches: map[string]models.Coach{
		"c1": {ID: "c1", Name: "Anna", ShiftStartHour: 9, ShiftEndHour: 17},
	}}
	idx := newTestIndex(dir, newFakeBookingRepo())

	cells, err := idx.Snapshot(context.Background(), "c1", "2026-09-07", 1)
	require.NoError(t, err)

	// 9..16 minus the 12:00 lunch hour.
	require.Len(t, cells, 7)
	for _, cell := range cells {
		assert.True(t, cell.WithinShift)
		assert.GreaterOrEqual(t, cell.Hour, 9)
		assert.Less(t, cell.Hour, 17)
		assert.NotEqual(t, 12, cell.Hour)
		assert.Equal(t, "2026-09-07", cell.Date)
		assert.Equal(t, 2, cell.Capacity)
	}
}

func TestSnapshotCoversDateWindowInOrder(t *testing.T) {
	dir := &fakeDirectoryRepo{coaches: map[string]models.Coach{
		"c1": {ID: "c1", ShiftStartHour: 10, ShiftEndHour: 12},
	}}
	idx := newTestIndex(dir, newFakeBookingRepo())

	cells, err := idx.Snapshot(context.Background(), "c1", "2026-09-07", 3)
	require.NoError(t, err)
	require.Len(t, cells, 6) // 2 hours x 3 days

	assert.Equal(t, "2026-09-07", cells[0].Date)
	assert.Equal(t, 10, cells[0].Hour)
	assert.Equal(t, "2026-09-07", cells[1].Date)
	assert.Equal(t, 11, cells[1].Hour)
	assert.Equal(t, "2026-09-09", cells[5].Date)
}

func TestSnapshotCarriesOccupancyCounts(t *testing.T) {
	dir := &fakeDirectoryRepo{coaches: map[string]models.Coach{
		"c1": {ID: "c1", ShiftStartHour: 10, ShiftEndHour: 12},
	}}
	bookings := newFakeBookingRepo()
	bookings.counts[models.CellKey("2026-09-07", 10)] = 2

	idx := newTestIndex(dir, bookings)
	cells, err := idx.Snapshot(context.Background(), "c1", "2026-09-07", 1)
	require.NoError(t, err)
	require.Len(t, cells, 2)

	assert.Equal(t, 2, cells[0].OccupiedCount)
	assert.False(t, cells[0].Bookable())
	assert.Equal(t, 0, cells[1].OccupiedCount)
	assert.True(t, cells[1].Bookable())
}

func TestSnapshotCoachWithoutShift(t *testing.T) {
	dir := &fakeDirectoryRepo{coaches: map[string]models.Coach{
		"c1": {ID: "c1"},
	}}
	idx := newTestIndex(dir, newFakeBookingRepo())

	cells, err := idx.Snapshot(context.Background(), "c1", "2026-09-07", 7)
	require.NoError(t, err)
	assert.Empty(t, cells)
}

func TestSnapshotCachedWithinTTL(t *testing.T) {
	dir := &fakeDirectoryRepo{coaches: map[string]models.Coach{
		"c1": {ID: "c1", ShiftStartHour: 10, ShiftEndHour: 12},
	}}
	bookings := newFakeBookingRepo()
	cache := newFakeSnapshotCache()

	idx := newTestIndex(dir, bookings)
	idx.Cache = cache
	idx.CacheTTL = 30 * time.Second

	first, err := idx.Snapshot(context.Background(), "c1", "2026-09-07", 1)
	require.NoError(t, err)
	assert.Len(t, cache.entries, 1)

	// Occupancy changes are invisible until the cache entry lapses.
	bookings.counts[models.CellKey("2026-09-07", 10)] = 2
	second, err := idx.Snapshot(context.Background(), "c1", "2026-09-07", 1)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// A different window misses the cache and sees the new counts.
	wider, err := idx.Snapshot(context.Background(), "c1", "2026-09-07", 2)
	require.NoError(t, err)
	assert.Len(t, cache.entries, 2)
	assert.Equal(t, 2, wider[0].OccupiedCount)
}

func TestSnapshotUnknownCoach(t *testing.T) {
	idx := newTestIndex(&fakeDirectoryRepo{coaches: map[string]models.Coach{}}, newFakeBookingRepo())
	_, err := idx.Snapshot(context.Background(), "ghost", "2026-09-07", 7)
	assert.Error(t, err)
}

func TestSnapshotRejectsBadDate(t *testing.T) {
	idx := newTestIndex(&fakeDirectoryRepo{coaches: map[string]models.Coach{}}, newFakeBookingRepo())
	_, err := idx.Snapshot(context.Background(), "c1", "07-09-2026", 7)
	assert.Error(t, err)
}
