package handler

import "peopledir/internal/visibility"

// SearchResponse is the success body: one ordered field→value mapping per
// matching employee, shaped by the organization's visibility configuration.
type SearchResponse struct {
	Employees []*visibility.Record `json:"employees"`
}

// RateLimitExceededResponse is the 429 body.
type RateLimitExceededResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after"`
}
