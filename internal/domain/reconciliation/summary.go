package reconciliation

import (
	"strings"

	"github.com/muni-rrhh/dashboard/internal/domain/entity"
)

// Summarize computes the control counts. Status and type tallies run over every
// local record, not only the in-process ones, and use non-exclusive substring
// checks: a malformed value can land in more than one tally.
//
// LastReviewedTimestamp is left empty; the caller owns the clock.
func Summarize(rows [][]string, records []entity.CaseRecord, b Buckets, opts Options) entity.ControlSummary {
	s := entity.ControlSummary{
		TotalFound:         len(records),
		TotalMissing:       len(b.Missing),
		FaltantesEnProceso: len(b.Missing),
		Cerrados:           len(b.Closed),
	}

	local := make(map[string]struct{}, len(records))
	for _, r := range records {
		if key := NormalizeCaseNumber(r.CaseNumber); key != "" {
			local[key] = struct{}{}
		}

		status := strings.ToLower(r.CaseStatus)
		if strings.Contains(status, "final") {
			s.Finalizados++
		}
		if strings.Contains(status, "proceso") {
			s.EnProceso++
		}
		if strings.Contains(status, "inici") {
			s.Iniciados++
		}

		kind := strings.ToLower(r.Type)
		if strings.Contains(kind, "cesant") {
			s.Cesantia++
		}
		if strings.Contains(kind, "sanci") {
			s.Sancion++
		}
		if strings.Contains(kind, "audit") {
			s.Auditoria++
		}
		if strings.Contains(kind, "otro") {
			s.Otros++
		}
	}

	for i := 1; i < len(rows); i++ {
		if !SameDepartment(cellValue(rows[i], opts.DepartmentColumn), opts.DGGADepartment) {
			continue
		}
		key := NormalizeCaseNumber(cellValue(rows[i], opts.CaseNumberColumn))
		if key == "" {
			continue
		}
		if _, ok := local[key]; !ok {
			s.SinCargarDGGA++
		}
	}

	return s
}

// Reconcile runs the whole engine over one spreadsheet and the local records
func Reconcile(rows [][]string, records []entity.CaseRecord, opts Options) (Buckets, entity.ControlSummary) {
	b := Classify(BuildAuthoritativeMap(rows, opts), records, opts)
	return b, Summarize(rows, records, b, opts)
}
