package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr        string
	DatasetPath string // optional; embedded default dataset when empty
	LogLevel    string

	// Rate limiting is fixed at startup; not reconfigurable per client.
	RateLimitRequests        int
	RateLimitWindow          time.Duration
	RateLimitCleanupInterval time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:                     ":8080",
		LogLevel:                 "info",
		RateLimitRequests:        5,
		RateLimitWindow:          60 * time.Second,
		RateLimitCleanupInterval: 5 * time.Minute,
	}

	if addr := os.Getenv("PEOPLEDIR_ADDR"); addr != "" {
		cfg.Addr = addr
	}
	if path := os.Getenv("PEOPLEDIR_DATASET"); path != "" {
		cfg.DatasetPath = path
	}
	if level := os.Getenv("PEOPLEDIR_LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}
	if v := os.Getenv("PEOPLEDIR_RATE_LIMIT_REQUESTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RateLimitRequests = n
		}
	}
	if v := os.Getenv("PEOPLEDIR_RATE_LIMIT_WINDOW"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.RateLimitWindow = d
		}
	}
	if v := os.Getenv("PEOPLEDIR_RATE_LIMIT_CLEANUP_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.RateLimitCleanupInterval = d
		}
	}

	return cfg
}
