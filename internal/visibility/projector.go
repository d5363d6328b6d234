package visibility

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"peopledir/internal/directory/models"
)

// Record is one projected employee: an insertion-ordered field → value map
// that marshals to JSON in projection order.
type Record = orderedmap.OrderedMap[string, any]

// fieldRegistry is the only place that knows which employee fields are
// projectable. A configured column absent from this registry is silently
// omitted from output rather than failing the request, so a configuration
// typo degrades visibility instead of availability.
var fieldRegistry = map[string]func(models.Employee) any{
	"id":              func(e models.Employee) any { return e.ID },
	"organization_id": func(e models.Employee) any { return e.OrganizationID },
	"first_name":      func(e models.Employee) any { return e.FirstName },
	"last_name":       func(e models.Employee) any { return e.LastName },
	"email":           func(e models.Employee) any { return e.Email },
	"phone":           func(e models.Employee) any { return e.Phone },
	"department":      func(e models.Employee) any { return e.Department },
	"location":        func(e models.Employee) any { return e.Location },
	"position":        func(e models.Employee) any { return e.Position },
	"status":          func(e models.Employee) any { return e.Status },
	"salary":          func(e models.Employee) any { return e.Salary },
}

// Project reduces e to the given columns, in order. The output never
// contains a field outside columns, regardless of what the record holds.
func Project(e models.Employee, columns []string) *Record {
	rec := orderedmap.New[string, any]()
	for _, col := range columns {
		if accessor, ok := fieldRegistry[col]; ok {
			rec.Set(col, accessor(e))
		}
	}
	return rec
}

// UnknownColumns returns the subset of columns that match no employee field.
// Loaders use it to warn about configuration typos at startup.
func UnknownColumns(columns []string) []string {
	var unknown []string
	for _, col := range columns {
		if _, ok := fieldRegistry[col]; !ok {
			unknown = append(unknown, col)
		}
	}
	return unknown
}
