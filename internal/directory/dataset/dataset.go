// Package dataset loads the directory's startup data: the employee records
// and the per-organization visibility configuration. A default dataset is
// embedded in the binary; deployments point PEOPLEDIR_DATASET at a YAML file
// to override it.
package dataset

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"peopledir/internal/directory/models"
	"peopledir/internal/visibility"
)

//go:embed default.yaml
var defaultDataset []byte

// Organization is one tenant's visibility configuration. Column order is
// significant: it determines response field order.
type Organization struct {
	Columns []string `yaml:"columns"`
}

// Dataset is the parsed startup document.
type Dataset struct {
	Organizations map[string]Organization `yaml:"organizations"`
	Employees     []models.Employee       `yaml:"employees"`
}

// Load reads the dataset from path, or the embedded default when path is
// empty.
func Load(path string) (*Dataset, error) {
	data := defaultDataset
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read dataset %s: %w", path, err)
		}
	}
	return parse(data)
}

func parse(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}

	seen := make(map[string]struct{}, len(ds.Employees))
	for _, e := range ds.Employees {
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("employee %q: %w", e.ID, err)
		}
		if _, dup := seen[e.ID]; dup {
			return nil, fmt.Errorf("duplicate employee id %q", e.ID)
		}
		seen[e.ID] = struct{}{}
	}
	return &ds, nil
}

// ColumnConfig returns the organization → columns mapping in the shape the
// visibility policy consumes.
func (ds *Dataset) ColumnConfig() map[string][]string {
	config := make(map[string][]string, len(ds.Organizations))
	for orgID, org := range ds.Organizations {
		config[orgID] = org.Columns
	}
	return config
}

// UnknownColumnsByOrganization reports configured column names that match no
// employee field, keyed by organization. Used for startup warnings; unknown
// columns are not an error.
func (ds *Dataset) UnknownColumnsByOrganization() map[string][]string {
	unknown := make(map[string][]string)
	for orgID, org := range ds.Organizations {
		if cols := visibility.UnknownColumns(org.Columns); len(cols) > 0 {
			unknown[orgID] = cols
		}
	}
	return unknown
}
