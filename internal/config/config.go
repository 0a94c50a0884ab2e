package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	Proximity ProximityConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port string
	Env  string
	Host string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type ProximityConfig struct {
	// QueryRadiusMeters bounds the nearby search; default is 10 miles.
	QueryRadiusMeters float64
	// JitterRadiusMeters bounds the displayed-position offset.
	JitterRadiusMeters float64
	// GeohashPrecision sizes the location index cells. Precision 5 cells
	// are ~4.9 km, so a cell plus its neighbors covers the default radius.
	GeohashPrecision uint
	// LocationTTL expires stale location records.
	LocationTTL time.Duration
	// FetchTimeout caps each collaborator round trip during a refresh.
	FetchTimeout time.Duration
}

type RateLimitConfig struct {
	LocationPerMin int
	BlocksPerMin   int
}

func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("ENV", "development"),
			Host: getEnv("HOST", "0.0.0.0"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Proximity: ProximityConfig{
			QueryRadiusMeters:  getEnvAsFloat("QUERY_RADIUS_METERS", 16093),
			JitterRadiusMeters: getEnvAsFloat("JITTER_RADIUS_METERS", 500),
			GeohashPrecision:   uint(getEnvAsInt("GEOHASH_PRECISION", 5)),
			LocationTTL:        time.Duration(getEnvAsInt("LOCATION_TTL_MINUTES", 30)) * time.Minute,
			FetchTimeout:       time.Duration(getEnvAsInt("FETCH_TIMEOUT_SECONDS", 5)) * time.Second,
		},
		RateLimit: RateLimitConfig{
			LocationPerMin: getEnvAsInt("RATE_LIMIT_LOCATION_PER_MIN", 6),
			BlocksPerMin:   getEnvAsInt("RATE_LIMIT_BLOCKS_PER_MIN", 10),
		},
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}
