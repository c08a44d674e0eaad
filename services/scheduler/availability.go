package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"fitstudio/config"
	bookingRepo "fitstudio/database/repository/booking"
	directoryRepo "fitstudio/database/repository/directory"
	"fitstudio/models"
	"fitstudio/utils"

	"github.com/go-redis/redis/v8"
)

// StudioConfig holds the hour domain and shared room capacity used when
// materializing availability snapshots.
type StudioConfig struct {
	Capacity       int
	OpenHour       int
	CloseHour      int // exclusive
	LunchStartHour int
	LunchEndHour   int // exclusive
}

// StudioConfigFromApp builds a StudioConfig from the loaded application config.
func StudioConfigFromApp() StudioConfig {
	return StudioConfig{
		Capacity:       config.AppConfig.StudioCapacity,
		OpenHour:       config.AppConfig.OpenHour,
		CloseHour:      config.AppConfig.CloseHour,
		LunchStartHour: config.AppConfig.LunchStartHour,
		LunchEndHour:   config.AppConfig.LunchEndHour,
	}
}

// Hours returns the studio's operating hours in ascending order, with the
// lunch break removed.
func (sc StudioConfig) Hours() []int {
	hours := make([]int, 0, sc.CloseHour-sc.OpenHour)
	for h := sc.OpenHour; h < sc.CloseHour; h++ {
		if h >= sc.LunchStartHour && h < sc.LunchEndHour {
			continue
		}
		hours = append(hours, h)
	}
	return hours
}

// SnapshotCache holds rendered snapshots for a short window, sparing the
// occupancy aggregation on bursty traffic.
type SnapshotCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration)
}

// RedisSnapshotCache backs SnapshotCache with the shared cache client.
// Failures degrade to a cache miss.
type RedisSnapshotCache struct {
	Client *redis.Client
}

func NewRedisSnapshotCache(client *redis.Client) *RedisSnapshotCache {
	return &RedisSnapshotCache{Client: client}
}

func (c *RedisSnapshotCache) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := c.Client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

func (c *RedisSnapshotCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if err := c.Client.Set(ctx, key, data, ttl).Err(); err != nil {
		utils.GetLogger().Sugar().Warnw("Failed to cache availability snapshot", "key", key, "error", err)
	}
}

func snapshotCacheKey(coachID, dateFrom string, days int) string {
	return utils.AvailabilityCachePrefix + coachID + ":" + dateFrom + ":" + strconv.Itoa(days)
}

// AvailabilityIndex materializes bookable time slot cells for a coach over a
// date window. Capacity is shared across coaches: a cell's occupancy counts
// every active booking in the studio at that date and hour.
//
// A nil Cache disables snapshot caching. Cached occupancy may lag by up to
// CacheTTL; the finalizer's transactional insert is the authoritative
// capacity check, so stale counts only affect suggestion quality.
type AvailabilityIndex struct {
	Directory directoryRepo.DirectoryRepository
	Bookings  bookingRepo.BookingRepository
	Studio    StudioConfig
	Cache     SnapshotCache
	CacheTTL  time.Duration
}

// Snapshot returns the coach's cells for [dateFrom, dateFrom+days), ordered by
// (date, hour). Only hours inside both the studio's operating hours and the
// coach's shift are returned. Cells at capacity are included with their
// occupancy counts so callers can distinguish "full" from "outside hours".
func (ai *AvailabilityIndex) Snapshot(ctx context.Context, coachID, dateFrom string, days int) ([]models.TimeSlotCell, error) {
	logger := utils.GetLogger().Sugar()

	start, err := time.Parse(utils.DateLayout, dateFrom)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", dateFrom, err)
	}

	cacheKey := snapshotCacheKey(coachID, dateFrom, days)
	if ai.Cache != nil {
		if data, ok := ai.Cache.Get(ctx, cacheKey); ok {
			var cells []models.TimeSlotCell
			if err := json.Unmarshal(data, &cells); err == nil {
				return cells, nil
			}
			logger.Warnw("Discarding unreadable cached snapshot", "key", cacheKey)
		}
	}

	coach, err := ai.Directory.GetCoach(ctx, coachID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch coach %s: %w", coachID, err)
	}
	if !coach.HasShift() {
		logger.Infow("Coach has no shift hours configured", "coachID", coachID)
		return nil, nil
	}

	dateTo := start.AddDate(0, 0, days-1).Format(utils.DateLayout)
	counts, err := ai.Bookings.OccupancyCounts(ctx, dateFrom, dateTo)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch occupancy counts: %w", err)
	}

	hours := ai.Studio.Hours()
	cells := make([]models.TimeSlotCell, 0, days*len(hours))
	for d := 0; d < days; d++ {
		date := start.AddDate(0, 0, d).Format(utils.DateLayout)
		for _, h := range hours {
			if !coach.OnShift(h) {
				continue
			}
			cells = append(cells, models.TimeSlotCell{
				Date:          date,
				Hour:          h,
				CoachID:       coachID,
				OccupiedCount: counts[models.CellKey(date, h)],
				Capacity:      ai.Studio.Capacity,
				WithinShift:   true,
			})
		}
	}
	if ai.Cache != nil {
		if data, err := json.Marshal(cells); err == nil {
			ai.Cache.Set(ctx, cacheKey, data, ai.CacheTTL)
		}
	}
	return cells, nil
}
