package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"main/model"
	"main/utils"

	"github.com/redis/go-redis/v9"
)

// CompletionCache keeps each user's today-window entry list in Redis so the
// dashboard fetch does not hit Mongo on every render. Read-through and
// best-effort: any cache failure degrades to the database.
type CompletionCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCompletionCache(redisURL string, ttl time.Duration) (*CompletionCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return &CompletionCache{client: client, ttl: ttl}, nil
}

func todayKey(userID, date string) string {
	return fmt.Sprintf("entries:%s:%s", userID, date)
}

// GetToday returns the cached entry list for (user, date), or (nil, false)
// on a miss or any cache failure.
func (cc *CompletionCache) GetToday(ctx context.Context, userID, date string) ([]*model.Entry, bool) {
	data, err := cc.client.Get(ctx, todayKey(userID, date)).Bytes()
	if err == redis.Nil {
		utils.TrackCacheOperation("get", "miss")
		return nil, false
	}
	if err != nil {
		utils.TrackCacheOperation("get", "error")
		return nil, false
	}

	var entries []*model.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		utils.TrackCacheOperation("get", "error")
		return nil, false
	}

	utils.TrackCacheOperation("get", "hit")
	return entries, true
}

// SetToday caches the entry list for (user, date). Failures are swallowed.
func (cc *CompletionCache) SetToday(ctx context.Context, userID, date string, entries []*model.Entry) {
	data, err := json.Marshal(entries)
	if err != nil {
		utils.TrackCacheOperation("set", "error")
		return
	}

	if err := cc.client.Set(ctx, todayKey(userID, date), data, cc.ttl).Err(); err != nil {
		utils.TrackCacheOperation("set", "error")
		return
	}
	utils.TrackCacheOperation("set", "ok")
}

// Invalidate drops the cached list after a mark/unmark so the next read
// sees the mutation.
func (cc *CompletionCache) Invalidate(ctx context.Context, userID, date string) {
	if err := cc.client.Del(ctx, todayKey(userID, date)).Err(); err != nil {
		utils.TrackCacheOperation("del", "error")
	}
}
