// Package visibility enforces per-organization field visibility: the policy
// maps an organization to its ordered list of visible columns, and the
// projector reduces records to exactly those columns. Projection is the sole
// mechanism keeping sensitive fields (salary) and cross-tenant data from
// leaving the core, so every record passes through it before leaving.
package visibility

import (
	"fmt"
	"sort"

	dErrors "peopledir/pkg/domain-errors"
)

// Policy is the immutable organization → ordered column list mapping, built
// once at startup. Column order is significant and preserved in output.
//
// An organization configured with an empty column list is distinct from an
// organization absent from the policy: ColumnsFor reports the difference via
// its second return value, and callers treat only the latter as "unknown".
type Policy struct {
	columns map[string][]string
}

// NewPolicy builds a Policy from the configured mapping. Column names must
// be unique within one organization's list; names that match no employee
// field are tolerated here and dropped at projection time.
func NewPolicy(config map[string][]string) (*Policy, error) {
	columns := make(map[string][]string, len(config))
	for orgID, cols := range config {
		if orgID == "" {
			return nil, dErrors.New(dErrors.CodeInvariantViolation, "organization id cannot be empty")
		}
		seen := make(map[string]struct{}, len(cols))
		for _, col := range cols {
			if _, dup := seen[col]; dup {
				return nil, dErrors.New(dErrors.CodeInvariantViolation,
					fmt.Sprintf("duplicate column %q configured for organization %q", col, orgID))
			}
			seen[col] = struct{}{}
		}
		columns[orgID] = append([]string(nil), cols...)
	}
	return &Policy{columns: columns}, nil
}

// ColumnsFor returns the ordered visible columns for organizationID. The
// second return value is false when the organization has no visibility
// configured at all; a configured-but-empty list returns (empty, true).
func (p *Policy) ColumnsFor(organizationID string) ([]string, bool) {
	cols, ok := p.columns[organizationID]
	if !ok {
		return nil, false
	}
	return append([]string(nil), cols...), true
}

// Organizations returns the configured organization ids, sorted.
func (p *Policy) Organizations() []string {
	orgs := make([]string, 0, len(p.columns))
	for orgID := range p.columns {
		orgs = append(orgs, orgID)
	}
	sort.Strings(orgs)
	return orgs
}
