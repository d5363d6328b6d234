// Package service exposes the rate limiter consumed by the directory
// service: a fixed quota of requests per sliding window, accounted per
// client key.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"peopledir/internal/ratelimit/models"
)

// BucketStore is the sliding-window accounting backend.
type BucketStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error)
	Reset(ctx context.Context, key string) error
	GetCurrentCount(ctx context.Context, key string) (int, error)
}

const keyPrefix = "search:client:"

// Service applies a fixed quota/window pair to sanitized client keys.
// The quota and window are set once at startup and are not reconfigurable
// per client.
type Service struct {
	buckets BucketStore
	limit   int
	window  time.Duration
	logger  *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// New constructs a rate limiter Service.
func New(buckets BucketStore, limit int, window time.Duration, opts ...Option) (*Service, error) {
	if buckets == nil {
		return nil, errors.New("bucket store is required")
	}
	if limit <= 0 {
		return nil, errors.New("limit must be positive")
	}
	if window <= 0 {
		return nil, errors.New("window must be positive")
	}

	svc := &Service{
		buckets: buckets,
		limit:   limit,
		window:  window,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Allow checks and records one request for clientKey atomically.
func (s *Service) Allow(ctx context.Context, clientKey string) (*models.RateLimitResult, error) {
	if clientKey == "" {
		clientKey = "unknown_client"
	}

	result, err := s.buckets.Allow(ctx, s.key(clientKey), s.limit, s.window)
	if err != nil {
		return nil, err
	}

	if !result.Allowed {
		s.logger.WarnContext(ctx, "request rate limited",
			"client_key", clientKey,
			"limit", result.Limit,
			"retry_after_seconds", result.RetryAfter,
		)
	}
	return result, nil
}

// Reset clears the accounting for clientKey.
func (s *Service) Reset(ctx context.Context, clientKey string) error {
	return s.buckets.Reset(ctx, s.key(clientKey))
}

// CurrentCount returns the in-window request count for clientKey.
func (s *Service) CurrentCount(ctx context.Context, clientKey string) (int, error) {
	return s.buckets.GetCurrentCount(ctx, s.key(clientKey))
}

// Limit returns the configured request quota.
func (s *Service) Limit() int {
	return s.limit
}

// Window returns the configured sliding window.
func (s *Service) Window() time.Duration {
	return s.window
}

func (s *Service) key(clientKey string) string {
	return keyPrefix + models.SanitizeKeySegment(clientKey)
}
