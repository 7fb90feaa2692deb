package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Addr          string
	DBUrl         string
	JWTSecret     string
	RedisAddr     string
	RedisPassword string
	SearchDepth   int
	MatchTTL      time.Duration
	LogLevel      string
	LogPretty     bool
}

const (
	defaultAddr        = ":8080"
	defaultRedisAddr   = "localhost:6379"
	defaultSearchDepth = 3
	defaultMatchTTL    = 24 * time.Hour
	defaultLogLevel    = "info"
)

func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found. Using environment variables.")
	}

	return Config{
		Addr:          getString("ADDR", defaultAddr),
		DBUrl:         os.Getenv("DB_URL"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		RedisAddr:     getString("REDIS_ADDR", defaultRedisAddr),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		SearchDepth:   getInt("SEARCH_DEPTH", defaultSearchDepth),
		MatchTTL:      getDuration("MATCH_TTL", defaultMatchTTL),
		LogLevel:      getString("LOG_LEVEL", defaultLogLevel),
		LogPretty:     getBool("LOG_PRETTY", false),
	}
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		log.Warn().Str("key", key).Str("value", v).Int("default", fallback).Msg("invalid integer, using default")
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Warn().Str("key", key).Str("value", v).Dur("default", fallback).Msg("invalid duration, using default")
		return fallback
	}
	return d
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("invalid boolean, using default")
		return fallback
	}
	return b
}
