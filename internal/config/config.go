package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the §6 environment inputs the ingestion core recognizes. The
// HTTP surface, CORS, and request validation it rides on are external
// collaborators (spec §1) and configure themselves separately; this struct
// only carries what the core itself reads.
type Config struct {
	YouTube   YouTubeConfig
	Engine    EngineConfig
	Cache     CacheConfig
	Redis     RedisConfig
	Memory    MemoryConfig
	Logging   LoggingConfig
	Transcript TranscriptConfig
}

type YouTubeConfig struct {
	APIKey string
}

type EngineConfig struct {
	MaxVideosPerRequest   int
	MetadataBatchSize     int
	TranscriptConcurrency int
	EngineConcurrency     int
	RequestDeadlineSeconds int
}

type CacheConfig struct {
	DefaultCapacity int
}

type RedisConfig struct {
	Addr     string // empty disables the mirror
	Password string
	DB       int
}

type MemoryConfig struct {
	HighWaterFraction float64
	SoftCapMB         int64
}

type LoggingConfig struct {
	Level string
	File  string
}

type TranscriptConfig struct {
	PreferredLanguages []string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		YouTube: YouTubeConfig{
			APIKey: getEnv("YOUTUBE_API_KEY", ""),
		},
		Engine: EngineConfig{
			MaxVideosPerRequest:    getEnvInt("MAX_VIDEOS_PER_REQUEST", 200),
			MetadataBatchSize:      getEnvInt("METADATA_BATCH_SIZE", 50),
			TranscriptConcurrency:  getEnvInt("TRANSCRIPT_CONCURRENCY", 4),
			EngineConcurrency:      getEnvInt("ENGINE_CONCURRENCY", 8),
			RequestDeadlineSeconds: getEnvInt("REQUEST_DEADLINE_SECONDS", 120),
		},
		Cache: CacheConfig{
			DefaultCapacity: getEnvInt("CACHE_CAPACITY_DEFAULT", 1024),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Memory: MemoryConfig{
			HighWaterFraction: getEnvFloat("MEMORY_HIGH_WATER_FRACTION", 0.75),
			SoftCapMB:         int64(getEnvInt("MEMORY_SOFT_CAP_MB", 512)),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
		Transcript: TranscriptConfig{
			PreferredLanguages: parseCommaSeparated(getEnv("PREFERRED_TRANSCRIPT_LANGUAGES", "en")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.YouTube.APIKey == "" {
		return fmt.Errorf("YOUTUBE_API_KEY is required")
	}
	if len(c.Transcript.PreferredLanguages) == 0 {
		return fmt.Errorf("PREFERRED_TRANSCRIPT_LANGUAGES must not be empty")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func parseCommaSeparated(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
