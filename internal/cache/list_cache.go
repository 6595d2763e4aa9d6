package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	dom "Planner/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	keyTasks     = "planner:tasks:"
	keyReminders = "planner:reminders:"
)

// ListCache caches each user's stored task and reminder rows in Redis.
// Expanded occurrences are never cached; they are recomputed per request.
type ListCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewListCache returns a new ListCache.
func NewListCache(rdb *redis.Client, ttl time.Duration) *ListCache {
	return &ListCache{rdb: rdb, ttl: ttl}
}

// GetTasks returns the cached task list or nil on a miss.
func (c *ListCache) GetTasks(ctx context.Context, userID int64) ([]dom.Task, error) {
	var list []dom.Task
	ok, err := c.get(ctx, keyTasks+strconv.FormatInt(userID, 10), &list)
	if err != nil || !ok {
		return nil, err
	}
	return list, nil
}

// SetTasks stores the task list.
func (c *ListCache) SetTasks(ctx context.Context, userID int64, list []dom.Task) error {
	return c.set(ctx, keyTasks+strconv.FormatInt(userID, 10), list)
}

// GetReminders returns the cached reminder list or nil on a miss.
func (c *ListCache) GetReminders(ctx context.Context, userID int64) ([]dom.Reminder, error) {
	var list []dom.Reminder
	ok, err := c.get(ctx, keyReminders+strconv.FormatInt(userID, 10), &list)
	if err != nil || !ok {
		return nil, err
	}
	return list, nil
}

// SetReminders stores the reminder list.
func (c *ListCache) SetReminders(ctx context.Context, userID int64, list []dom.Reminder) error {
	return c.set(ctx, keyReminders+strconv.FormatInt(userID, 10), list)
}

// InvalidateTasks drops the user's cached tasks (cache invalidation on write).
func (c *ListCache) InvalidateTasks(ctx context.Context, userID int64) error {
	return c.rdb.Del(ctx, keyTasks+strconv.FormatInt(userID, 10)).Err()
}

// InvalidateReminders drops the user's cached reminders.
func (c *ListCache) InvalidateReminders(ctx context.Context, userID int64) error {
	return c.rdb.Del(ctx, keyReminders+strconv.FormatInt(userID, 10)).Err()
}

func (c *ListCache) get(ctx context.Context, key string, dst any) (bool, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *ListCache) set(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, c.ttl).Err()
}
