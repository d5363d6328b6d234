// Package service orchestrates one directory search: rate limiter, then
// visibility policy, then record store, then projection. It exposes a plain
// function-call contract so any transport can wrap it.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"peopledir/internal/directory/models"
	"peopledir/internal/platform/metrics"
	rlmodels "peopledir/internal/ratelimit/models"
	"peopledir/internal/visibility"
	dErrors "peopledir/pkg/domain-errors"
)

// EmployeeStore answers tenant-scoped filtered lookups.
type EmployeeStore interface {
	Search(ctx context.Context, organizationID string, filters models.SearchFilters) []models.Employee
}

// RateLimiter admits or rejects one request for a client key. Admission and
// recording are a single atomic operation.
type RateLimiter interface {
	Allow(ctx context.Context, clientKey string) (*rlmodels.RateLimitResult, error)
	Limit() int
	Window() time.Duration
}

// Outcome tags a SearchResult.
type Outcome string

const (
	OutcomeAdmitted            Outcome = "admitted"
	OutcomeRateLimited         Outcome = "rate_limited"
	OutcomeUnknownOrganization Outcome = "unknown_organization"
)

// SearchRequest is the inbound core contract. OrganizationID is mandatory;
// the transport layer rejects its absence before the core is invoked.
type SearchRequest struct {
	OrganizationID string
	ClientKey      string
	Filters        models.SearchFilters
}

// SearchResult is the typed outcome the transport renders. Employees is set
// only for admitted searches; RateLimit is set whenever the limiter ran, so
// transports can emit quota headers on success as well as on rejection.
type SearchResult struct {
	Outcome        Outcome
	OrganizationID string
	Employees      []*visibility.Record
	RateLimit      *rlmodels.RateLimitResult
}

// Service wires the search pipeline. The store and policy are read-only
// after startup; the limiter owns the only mutable shared state.
type Service struct {
	employees EmployeeStore
	policy    *visibility.Policy
	limiter   RateLimiter
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// New constructs a directory Service.
func New(employees EmployeeStore, policy *visibility.Policy, limiter RateLimiter, opts ...Option) (*Service, error) {
	if employees == nil {
		return nil, errors.New("employee store is required")
	}
	if policy == nil {
		return nil, errors.New("visibility policy is required")
	}
	if limiter == nil {
		return nil, errors.New("rate limiter is required")
	}

	svc := &Service{
		employees: employees,
		policy:    policy,
		limiter:   limiter,
		logger:    slog.Default(),
		tracer:    otel.Tracer("peopledir/directory"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Search runs the limiter → policy → store → projector pipeline for one
// request. Every failure path is a typed result, never a process fault; the
// error return covers only internal faults (e.g. a limiter backend failure).
func (s *Service) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "directory.Search",
		trace.WithAttributes(attribute.String("organization_id", req.OrganizationID)))
	defer span.End()
	defer func() {
		s.metrics.ObserveSearchDuration(time.Since(start).Seconds())
	}()

	// Transport validates this first; defend anyway so the core contract
	// holds for other callers.
	if req.OrganizationID == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "organization_id is required")
	}

	limit, err := s.limiter.Allow(ctx, req.ClientKey)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "rate limit check failed")
	}
	if !limit.Allowed {
		span.SetAttributes(attribute.String("outcome", string(OutcomeRateLimited)))
		s.metrics.IncrementRateLimited()
		return &SearchResult{
			Outcome:        OutcomeRateLimited,
			OrganizationID: req.OrganizationID,
			RateLimit:      limit,
		}, nil
	}

	columns, configured := s.policy.ColumnsFor(req.OrganizationID)
	if !configured {
		span.SetAttributes(attribute.String("outcome", string(OutcomeUnknownOrganization)))
		s.metrics.IncrementUnknownOrganization()
		s.logger.WarnContext(ctx, "search for unconfigured organization",
			"organization_id", req.OrganizationID,
		)
		return &SearchResult{
			Outcome:        OutcomeUnknownOrganization,
			OrganizationID: req.OrganizationID,
			RateLimit:      limit,
		}, nil
	}

	employees := s.employees.Search(ctx, req.OrganizationID, req.Filters)

	records := make([]*visibility.Record, 0, len(employees))
	for _, e := range employees {
		records = append(records, visibility.Project(e, columns))
	}

	span.SetAttributes(
		attribute.String("outcome", string(OutcomeAdmitted)),
		attribute.Int("result_count", len(records)),
	)
	s.metrics.IncrementAdmitted()
	s.logger.DebugContext(ctx, "search admitted",
		"organization_id", req.OrganizationID,
		"result_count", len(records),
	)

	return &SearchResult{
		Outcome:        OutcomeAdmitted,
		OrganizationID: req.OrganizationID,
		Employees:      records,
		RateLimit:      limit,
	}, nil
}

// Quota returns the limiter's configured quota and window for message
// construction by transports.
func (s *Service) Quota() (int, time.Duration) {
	return s.limiter.Limit(), s.limiter.Window()
}
