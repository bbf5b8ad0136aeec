// Package mapping validates Excel import templates: the mapping from
// spreadsheet column headers to dataset fields.
package mapping

import (
	"fmt"
	"strings"

	"github.com/muni-rrhh/dashboard/internal/domain"
	"github.com/muni-rrhh/dashboard/internal/domain/entity"
)

var validDataTypes = map[string]bool{
	entity.DataTypeText:   true,
	entity.DataTypeNumber: true,
	entity.DataTypeDate:   true,
}

// NormalizeHeader is the comparison form of a column header
func NormalizeHeader(header string) string {
	return strings.ToLower(strings.TrimSpace(header))
}

// Validate checks a template before it is stored or used.
// The returned error is a *domain.ValidationError keyed by field path.
func Validate(t entity.Template) error {
	verr := domain.NewValidationError()

	if strings.TrimSpace(t.Name) == "" {
		verr.Add("nombre", "is required")
	}
	if t.HeaderRow < 1 {
		verr.Add("headerRow", "must be 1 or greater")
	}

	fields := Fields(t.Dataset)
	if fields == nil {
		verr.Add("dataset", fmt.Sprintf("unknown dataset %q", t.Dataset))
	}
	if len(t.Mappings) == 0 {
		verr.Add("mappings", "at least one column mapping is required")
		return verr.OrNil()
	}

	known := make(map[string]Field, len(fields))
	for _, f := range fields {
		known[f.Name] = f
	}

	columns := make(map[string]int)
	mapped := make(map[string]int)
	for i, m := range t.Mappings {
		prefix := fmt.Sprintf("mappings[%d]", i)

		col := NormalizeHeader(m.Column)
		if col == "" {
			verr.Add(prefix+".column", "is required")
		} else if prev, dup := columns[col]; dup {
			verr.Add(prefix+".column", fmt.Sprintf("duplicates mappings[%d]", prev))
		} else {
			columns[col] = i
		}

		if fields != nil {
			if _, ok := known[m.Field]; !ok {
				verr.Add(prefix+".field", fmt.Sprintf("unknown field %q for dataset %s", m.Field, t.Dataset))
			}
		}
		if prev, dup := mapped[m.Field]; dup {
			verr.Add(prefix+".field", fmt.Sprintf("duplicates mappings[%d]", prev))
		} else {
			mapped[m.Field] = i
		}

		if !validDataTypes[m.DataType] {
			verr.Add(prefix+".dataType", fmt.Sprintf("unsupported type %q", m.DataType))
		}
	}

	for _, f := range fields {
		if _, ok := mapped[f.Name]; f.Required && !ok {
			verr.Add("mappings", fmt.Sprintf("required field %q is not mapped", f.Name))
		}
	}

	return verr.OrNil()
}

// HeaderReport is the result of matching a template against a header row
type HeaderReport struct {
	Matched         map[string]int `json:"matched"`
	MissingColumns  []string       `json:"missingColumns"`
	UnmappedHeaders []string       `json:"unmappedHeaders"`
}

// Valid reports whether every required column was found
func (r HeaderReport) Valid() bool {
	return len(r.MissingColumns) == 0
}

// CheckHeaders locates each mapped column in the header row. Matched maps the
// target field to the 0-based column index. Optional columns that are absent
// are simply not matched; required ones are reported as missing.
func CheckHeaders(t entity.Template, header []string) HeaderReport {
	report := HeaderReport{
		Matched:         make(map[string]int),
		MissingColumns:  []string{},
		UnmappedHeaders: []string{},
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		key := NormalizeHeader(h)
		if key == "" {
			continue
		}
		if _, seen := index[key]; !seen {
			index[key] = i
		}
	}

	used := make(map[int]bool)
	for _, m := range t.Mappings {
		i, ok := index[NormalizeHeader(m.Column)]
		if !ok {
			if m.Required {
				report.MissingColumns = append(report.MissingColumns, m.Column)
			}
			continue
		}
		report.Matched[m.Field] = i
		used[i] = true
	}

	for i, h := range header {
		if strings.TrimSpace(h) != "" && !used[i] {
			report.UnmappedHeaders = append(report.UnmappedHeaders, h)
		}
	}

	return report
}
