package reconciliation

import (
	"fmt"
	"strings"
	"time"

	"github.com/muni-rrhh/dashboard/internal/domain/entity"
)

// Bucket names an exportable list; the value doubles as the filename label
type Bucket string

const (
	BucketNoMovement Bucket = "sin-movimiento"
	BucketMissing    Bucket = "faltantes"
	BucketClosed     Bucket = "cerrados"
	BucketLoaded     Bucket = "cargados"
)

var sheetTitles = map[Bucket]string{
	BucketNoMovement: "Sin movimiento",
	BucketMissing:    "Faltantes",
	BucketClosed:     "Cerrados",
	BucketLoaded:     "Cargados",
}

// ParseBucket accepts a bucket label, case-insensitively
func ParseBucket(s string) (Bucket, bool) {
	b := Bucket(strings.ToLower(strings.TrimSpace(s)))
	_, ok := sheetTitles[b]
	return b, ok
}

// SheetTitle is the worksheet name used when exporting b
func (b Bucket) SheetTitle() string {
	return sheetTitles[b]
}

// Filename builds seguimiento-expedientes-<label>-YYYYMMDD_HHmm.xlsx
func (b Bucket) Filename(at time.Time) string {
	return fmt.Sprintf("seguimiento-expedientes-%s-%s.xlsx", b, at.Format("20060102_1504"))
}

// Entries returns the entries held in bucket, or nil for BucketLoaded
func (b Buckets) Entries(bucket Bucket) []entity.ReconciliationEntry {
	switch bucket {
	case BucketNoMovement:
		return b.NoMovement
	case BucketMissing:
		return b.Missing
	case BucketClosed:
		return b.Closed
	}
	return nil
}

// EntryHeaders returns the export columns of a reconciliation bucket
func EntryHeaders(bucket Bucket) []string {
	headers := []string{"Dependencia", "Nº Expediente", "Agente", "DNI"}
	if bucket == BucketNoMovement {
		headers = append(headers, "Tipo")
	}
	return headers
}

// EntryTable renders a bucket as header + rows
func EntryTable(bucket Bucket, entries []entity.ReconciliationEntry) ([]string, [][]string) {
	headers := EntryHeaders(bucket)
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		row := []string{e.Department, e.CaseNumber, e.AgentName, e.AgentDNI}
		if bucket == BucketNoMovement {
			row = append(row, e.Type)
		}
		rows = append(rows, row)
	}
	return headers, rows
}

// CaseRecordHeaders are the columns of the loaded-cases grid
var CaseRecordHeaders = []string{
	"Tipo", "Nº Expediente", "Situación Agente", "Fecha Inicio", "Iniciado Por", "Trámite",
	"Dónde Está", "Agente", "DNI", "Inasistencias", "Estado", "Resolución", "Observaciones",
}

// CaseRecordTable renders the loaded cases in grid order
func CaseRecordTable(records []entity.CaseRecord) ([]string, [][]string) {
	headers := append([]string(nil), CaseRecordHeaders...)
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.Type, r.CaseNumber, r.AgentStatus, r.StartDate, r.InitiatedBy, r.Procedure,
			r.CurrentLocation, r.AgentName, r.AgentDNI, r.Absences, r.CaseStatus,
			r.Resolution, r.Notes,
		})
	}
	return headers, rows
}
