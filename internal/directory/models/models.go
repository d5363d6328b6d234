package models

import (
	"strings"

	dErrors "peopledir/pkg/domain-errors"
)

// Employee is one directory record.
//
// Invariants:
//   - ID and OrganizationID are non-empty
//   - every record belongs to exactly one organization; OrganizationID is
//     immutable once created
//   - records are read-only after load; the core never mutates them
//
// Salary is sensitive: it leaves the core only when an organization's
// visibility configuration explicitly lists it.
type Employee struct {
	ID             string  `json:"id" yaml:"id"`
	OrganizationID string  `json:"organization_id" yaml:"organization_id"`
	FirstName      string  `json:"first_name" yaml:"first_name"`
	LastName       string  `json:"last_name" yaml:"last_name"`
	Email          string  `json:"email" yaml:"email"`
	Phone          string  `json:"phone,omitempty" yaml:"phone"`
	Department     string  `json:"department" yaml:"department"`
	Location       string  `json:"location" yaml:"location"`
	Position       string  `json:"position" yaml:"position"`
	Status         string  `json:"status" yaml:"status"`
	Salary         float64 `json:"salary" yaml:"salary"`
}

// Observed status values. The set is open-ended; filtering treats status as
// an opaque string.
const (
	StatusActive     = "Active"
	StatusNotStarted = "Not started"
	StatusTerminated = "Terminated"
)

// Validate checks the employee invariants enforced at load time.
func (e Employee) Validate() error {
	if e.ID == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "employee id cannot be empty")
	}
	if e.OrganizationID == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "employee organization_id cannot be empty")
	}
	return nil
}

// FullName returns the "<first> <last>" concatenation the name filter
// matches against.
func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// SearchFilters narrows a tenant-scoped search. A zero-value field imposes
// no constraint; supplied filters are conjunctive.
type SearchFilters struct {
	Name       string
	Department string
	Location   string
	Position   string
	Statuses   []string
}

// Match reports whether e satisfies every supplied filter. Tenant scoping is
// the store's responsibility; Match never inspects OrganizationID.
func (f SearchFilters) Match(e Employee) bool {
	if f.Name != "" {
		if !strings.Contains(strings.ToLower(e.FullName()), strings.ToLower(f.Name)) {
			return false
		}
	}
	if f.Department != "" && !strings.EqualFold(f.Department, e.Department) {
		return false
	}
	if f.Location != "" && !strings.EqualFold(f.Location, e.Location) {
		return false
	}
	if f.Position != "" && !strings.EqualFold(f.Position, e.Position) {
		return false
	}
	if len(f.Statuses) > 0 {
		matched := false
		for _, status := range f.Statuses {
			if strings.EqualFold(status, e.Status) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}
