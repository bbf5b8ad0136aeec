package entity

// Case type constants for CaseRecord.Type
const (
	CaseTypeSancion   = "Sanción"
	CaseTypeCesantia  = "Cesantía"
	CaseTypeAuditoria = "Auditoría"
	CaseTypeOtro      = "Otro"
)

// Case status constants for CaseRecord.CaseStatus
const (
	CaseStatusEnProceso  = "En proceso"
	CaseStatusFinalizado = "Finalizado"
	CaseStatusIniciado   = "Iniciado"
	CaseStatusNoIniciado = "No iniciado"
)

// CaseTypes lists the accepted case types in display order
var CaseTypes = []string{CaseTypeSancion, CaseTypeCesantia, CaseTypeAuditoria, CaseTypeOtro}

// CaseStatuses lists the accepted case statuses in display order
var CaseStatuses = []string{CaseStatusEnProceso, CaseStatusFinalizado, CaseStatusIniciado, CaseStatusNoIniciado}

// User role constants
const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

// Settings keys for values that used to live in browser storage
const (
	SettingLastReviewed = "expedientes_ultima_revision"
	SettingLastResult   = "expedientes_ultimo_resultado"
)

// Import dataset identifiers
const (
	DatasetAgentes = "agentes"
)

// Mapping data types
const (
	DataTypeText   = "text"
	DataTypeNumber = "number"
	DataTypeDate   = "date"
)
