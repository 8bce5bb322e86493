package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process-level configuration. Values come from the
// environment so main stays lean and containers configure without files.
type Server struct {
	Addr        string
	DatabaseURL string
	RedisURL    string

	// Throttle for POST /register. Zero RPS disables the limiter.
	RegisterRateRPS   float64
	RegisterRateBurst int

	ShutdownTimeout time.Duration
}

// FromEnv builds a Server config from environment variables. An empty
// DATABASE_URL selects the in-memory stores; an empty REDIS_URL selects
// the in-process rate limiter.
func FromEnv() Server {
	return Server{
		Addr:              envOr("GIVEAWAY_ADDR", ":8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisURL:          os.Getenv("REDIS_URL"),
		RegisterRateRPS:   envFloat("REGISTER_RATE_RPS", 5),
		RegisterRateBurst: envInt("REGISTER_RATE_BURST", 10),
		ShutdownTimeout:   10 * time.Second,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
