package reconciliation

import (
	"strings"

	"github.com/muni-rrhh/dashboard/internal/domain/entity"
)

// AuthoritativeMap maps a normalized case number to the raw department where
// the authoritative source says the expediente currently is.
type AuthoritativeMap map[string]string

// BuildAuthoritativeMap scans the spreadsheet rows, skipping the header row.
// When a case number repeats, the last department seen wins.
func BuildAuthoritativeMap(rows [][]string, opts Options) AuthoritativeMap {
	m := make(AuthoritativeMap, len(rows))
	for i := 1; i < len(rows); i++ {
		key := NormalizeCaseNumber(cellValue(rows[i], opts.CaseNumberColumn))
		if key == "" {
			continue
		}
		m[key] = cellValue(rows[i], opts.DepartmentColumn)
	}
	return m
}

// Buckets are the three disjoint outputs of a classification
type Buckets struct {
	NoMovement []entity.ReconciliationEntry
	Missing    []entity.ReconciliationEntry
	Closed     []entity.ReconciliationEntry
}

// IsInProcess reports whether the record's status counts as "en proceso"
func IsInProcess(r entity.CaseRecord) bool {
	return strings.Contains(strings.ToLower(r.CaseStatus), "proceso")
}

// Qualifies reports whether a record takes part in classification
func Qualifies(r entity.CaseRecord) bool {
	return IsInProcess(r) && NormalizeCaseNumber(r.CaseNumber) != ""
}

// Classify partitions the qualifying records into no-movement, missing and
// closed. Records whose department moved to somewhere other than the archive
// are intentionally left out of all three buckets.
func Classify(auth AuthoritativeMap, records []entity.CaseRecord, opts Options) Buckets {
	b := Buckets{
		NoMovement: []entity.ReconciliationEntry{},
		Missing:    []entity.ReconciliationEntry{},
		Closed:     []entity.ReconciliationEntry{},
	}

	for _, r := range records {
		if !Qualifies(r) {
			continue
		}
		key := NormalizeCaseNumber(r.CaseNumber)

		authDept, found := auth[key]
		if !found {
			b.Missing = append(b.Missing, newEntry(TitleCase(r.CurrentLocation), key, r))
			continue
		}

		authDisplay := TitleCase(authDept)
		switch {
		case SameDepartment(authDisplay, opts.ArchiveDepartment):
			b.Closed = append(b.Closed, newEntry(authDisplay, key, r))
		case SameDepartment(authDisplay, r.CurrentLocation):
			e := newEntry(TitleCase(r.CurrentLocation), key, r)
			e.Type = r.Type
			b.NoMovement = append(b.NoMovement, e)
		}
	}
	return b
}

func newEntry(department, caseNumber string, r entity.CaseRecord) entity.ReconciliationEntry {
	return entity.ReconciliationEntry{
		Department: department,
		CaseNumber: caseNumber,
		AgentName:  TitleCase(r.AgentName),
		AgentDNI:   strings.TrimSpace(r.AgentDNI),
	}
}
