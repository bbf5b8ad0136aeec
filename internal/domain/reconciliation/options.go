package reconciliation

// Default positional layout of the authoritative spreadsheet (0-based columns)
const (
	DefaultCaseNumberColumn = 12
	DefaultDepartmentColumn = 13
)

// Sentinel departments
const (
	DefaultArchiveDepartment = "Div. de Archivos e Impresiones"
	DefaultDGGADepartment    = "Direccion General De Gestion Del Agente Municipal"
)

// Options configures the spreadsheet layout and the sentinel departments
type Options struct {
	CaseNumberColumn  int
	DepartmentColumn  int
	ArchiveDepartment string
	DGGADepartment    string
}

// DefaultOptions returns the layout used by the municipal location export
func DefaultOptions() Options {
	return Options{
		CaseNumberColumn:  DefaultCaseNumberColumn,
		DepartmentColumn:  DefaultDepartmentColumn,
		ArchiveDepartment: DefaultArchiveDepartment,
		DGGADepartment:    DefaultDGGADepartment,
	}
}
