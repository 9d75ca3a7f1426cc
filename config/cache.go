package config

import (
	"time"

	"main/utils"
)

type CacheConfig struct {
	RedisURL string
	TodayTTL time.Duration
}

func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		RedisURL: utils.GetEnvAsString("REDIS_URL", "redis://localhost:6379/0"),
		TodayTTL: time.Duration(utils.GetEnvAsInt("ENTRIES_CACHE_TTL", 300)) * time.Second,
	}
}
