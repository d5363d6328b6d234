// Package handler is the thin HTTP collaborator over the directory service:
// it parses query parameters, resolves the client key, and translates typed
// search outcomes into transport responses.
package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"peopledir/internal/directory/models"
	"peopledir/internal/directory/service"
	platformmw "peopledir/internal/platform/middleware"
	rlmodels "peopledir/internal/ratelimit/models"
	dErrors "peopledir/pkg/domain-errors"
	"peopledir/pkg/platform/httputil"
	metadata "peopledir/pkg/platform/middleware/metadata"
)

// Service defines the directory operations the handler consumes.
type Service interface {
	Search(ctx context.Context, req service.SearchRequest) (*service.SearchResult, error)
	Quota() (int, time.Duration)
}

// Handler handles directory search endpoints.
type Handler struct {
	logger    *slog.Logger
	directory Service
}

// New creates a new directory Handler.
func New(directory Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:    logger,
		directory: directory,
	}
}

// Register registers the directory routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	searchRouter := chi.NewRouter()
	searchRouter.Use(platformmw.Recovery(h.logger))
	searchRouter.Use(platformmw.RequestID)
	searchRouter.Use(metadata.ClientMetadata)
	searchRouter.Use(platformmw.Logger(h.logger))
	searchRouter.Get("/search", h.handleSearch)

	r.Mount("/", searchRouter)
}

// handleSearch serves GET /search. The organization_id parameter is
// mandatory and rejected with 422 before the core is invoked; the status
// parameter may repeat for multiple values.
func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := platformmw.GetRequestID(ctx)

	query := r.URL.Query()
	organizationID := strings.TrimSpace(query.Get("organization_id"))
	if organizationID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "organization_id is required"))
		return
	}

	req := service.SearchRequest{
		OrganizationID: organizationID,
		ClientKey:      metadata.GetClientIP(ctx),
		Filters: models.SearchFilters{
			Name:       query.Get("name"),
			Department: query.Get("department"),
			Location:   query.Get("location"),
			Position:   query.Get("position"),
			Statuses:   query["status"],
		},
	}

	result, err := h.directory.Search(ctx, req)
	if err != nil {
		h.logger.ErrorContext(ctx, "search failed",
			"request_id", requestID,
			"organization_id", organizationID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	addRateLimitHeaders(w, result.RateLimit)

	switch result.Outcome {
	case service.OutcomeRateLimited:
		h.writeRateLimited(w, result.RateLimit)
	case service.OutcomeUnknownOrganization:
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound,
			fmt.Sprintf("organization '%s' not found", result.OrganizationID)))
	default:
		httputil.WriteJSON(w, http.StatusOK, SearchResponse{Employees: result.Employees})
	}
}

func (h *Handler) writeRateLimited(w http.ResponseWriter, limit *rlmodels.RateLimitResult) {
	quota, window := h.directory.Quota()
	windowSeconds := int(window.Seconds())

	retryAfter := windowSeconds
	if limit != nil && limit.RetryAfter > 0 {
		retryAfter = limit.RetryAfter
	}

	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	httputil.WriteJSON(w, http.StatusTooManyRequests, RateLimitExceededResponse{
		Error: "rate_limit_exceeded",
		Message: fmt.Sprintf(
			"Too many requests. Please try again after %d seconds. Limit is %d requests per %d seconds.",
			retryAfter, quota, windowSeconds),
		RetryAfter: retryAfter,
	})
}

func addRateLimitHeaders(w http.ResponseWriter, limit *rlmodels.RateLimitResult) {
	if limit == nil {
		return
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(limit.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(limit.ResetAt.Unix(), 10))
}
