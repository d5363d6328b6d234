// Package store holds the authoritative employee records and answers
// tenant-scoped filtered lookups.
package store

import (
	"context"
	"sync"

	"peopledir/internal/directory/models"
	"peopledir/pkg/platform/sentinel"
)

// InMemoryEmployeeStore keeps records in insertion order. It is populated at
// startup and read-only afterwards; the RWMutex exists for the load phase and
// lets the read path stay safe if loading ever becomes incremental.
type InMemoryEmployeeStore struct {
	mu        sync.RWMutex
	employees []models.Employee
	byID      map[string]int
}

func NewInMemoryEmployeeStore() *InMemoryEmployeeStore {
	return &InMemoryEmployeeStore{byID: make(map[string]int)}
}

// Add appends a record at load time. Duplicate ids are a conflict.
func (s *InMemoryEmployeeStore) Add(_ context.Context, e models.Employee) error {
	if err := e.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[e.ID]; exists {
		return sentinel.ErrConflict
	}
	s.byID[e.ID] = len(s.employees)
	s.employees = append(s.employees, e)
	return nil
}

// Search returns the records of organizationID matching filters, in
// insertion order. The organization scoping is the tenant-isolation boundary
// and is applied before any other predicate; no filter ever runs against
// another organization's records. Returns an empty slice, never an error,
// when nothing matches.
func (s *InMemoryEmployeeStore) Search(_ context.Context, organizationID string, filters models.SearchFilters) []models.Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := []models.Employee{}
	for _, e := range s.employees {
		if e.OrganizationID != organizationID {
			continue
		}
		if filters.Match(e) {
			results = append(results, e)
		}
	}
	return results
}

// FindByID returns one record by id regardless of organization. Callers that
// serve tenant traffic must scope through Search instead.
func (s *InMemoryEmployeeStore) FindByID(_ context.Context, id string) (models.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx, ok := s.byID[id]; ok {
		return s.employees[idx], nil
	}
	return models.Employee{}, sentinel.ErrNotFound
}

// Len returns the number of loaded records.
func (s *InMemoryEmployeeStore) Len(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.employees)
}
