package entity

import "time"

// ReconciliationEntry is one row of a reconciliation bucket
type ReconciliationEntry struct {
	Department string `json:"dependencia"`
	CaseNumber string `json:"expNro"`
	AgentName  string `json:"agente"`
	AgentDNI   string `json:"dni"`
	Type       string `json:"tipo,omitempty"`
}

// ControlSummary holds the aggregate counts shown in the control view
type ControlSummary struct {
	TotalFound            int    `json:"totalFound"`
	TotalMissing          int    `json:"totalMissing"`
	Iniciados             int    `json:"iniciados"`
	Cesantia              int    `json:"cesantia"`
	Sancion               int    `json:"sancion"`
	Otros                 int    `json:"otros"`
	Auditoria             int    `json:"auditoria"`
	Finalizados           int    `json:"finalizados"`
	EnProceso             int    `json:"enProceso"`
	FaltantesEnProceso    int    `json:"faltantesEnProceso"`
	Cerrados              int    `json:"cerrados"`
	LastReviewedTimestamp string `json:"lastReviewedTimestamp"`
	SinCargarDGGA         int    `json:"sinCargarDGGA"`
}

// ReconciliationResult is the output of one "Procesar" run. A new run
// supersedes the previous result entirely.
type ReconciliationResult struct {
	RunID      string                `json:"runId"`
	SourceFile string                `json:"sourceFile"`
	NoMovement []ReconciliationEntry `json:"noMovement"`
	Missing    []ReconciliationEntry `json:"missing"`
	Closed     []ReconciliationEntry `json:"closed"`
	Summary    ControlSummary        `json:"summary"`
	ReviewedAt time.Time             `json:"reviewedAt"`
	DurationMs int64                 `json:"durationMs"`
	Persisted  PersistOutcome        `json:"persisted"`
}

// PersistOutcome reports whether a best-effort write reached storage
type PersistOutcome struct {
	Persisted bool   `json:"persisted"`
	Error     string `json:"error,omitempty"`
}
