package config

import "time"

type RedisConfig struct {
	DB       int
	Url      string
	Password string
	// CaseCacheTTL bounds how long a question's cases are served from cache
	CaseCacheTTL time.Duration
}

func NewRedisConfig() *RedisConfig {
	return &RedisConfig{
		DB:           getIntEnv("REDIS_DB", 0),
		Url:          getEnv("REDIS_ADDR", "localhost:6379"),
		Password:     getEnv("REDIS_PASSWORD", ""),
		CaseCacheTTL: getDurationEnv("CASE_CACHE_TTL_SEC", 600, time.Second),
	}
}
