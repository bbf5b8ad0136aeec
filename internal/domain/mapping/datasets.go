package mapping

import "github.com/muni-rrhh/dashboard/internal/domain/entity"

// Field describes a target field of an import dataset
type Field struct {
	Name     string
	Required bool
	DataType string
}

// Agent dataset field names
const (
	FieldDNI              = "dni"
	FieldName             = "nombre"
	FieldDependency       = "dependencia"
	FieldSecretariat      = "secretaria"
	FieldGrouping         = "agrupamiento"
	FieldLevel            = "nivel"
	FieldEmploymentStatus = "situacion_revista"
	FieldHireDate         = "fecha_ingreso"
)

var datasets = map[string][]Field{
	entity.DatasetAgentes: {
		{Name: FieldDNI, Required: true, DataType: entity.DataTypeText},
		{Name: FieldName, Required: true, DataType: entity.DataTypeText},
		{Name: FieldDependency, DataType: entity.DataTypeText},
		{Name: FieldSecretariat, DataType: entity.DataTypeText},
		{Name: FieldGrouping, DataType: entity.DataTypeText},
		{Name: FieldLevel, DataType: entity.DataTypeText},
		{Name: FieldEmploymentStatus, DataType: entity.DataTypeText},
		{Name: FieldHireDate, DataType: entity.DataTypeDate},
	},
}

// Fields returns the target fields of a dataset, or nil when it is unknown
func Fields(dataset string) []Field {
	return datasets[dataset]
}

// DefaultAgentTemplate is used by the agrupamiento/niveles upload when no
// stored template is given. Column names follow the HR payroll export.
func DefaultAgentTemplate() entity.Template {
	return entity.Template{
		Name:      "Agrupamiento y niveles",
		Dataset:   entity.DatasetAgentes,
		HeaderRow: 1,
		Mappings: []entity.ColumnMapping{
			{Column: "DNI", Field: FieldDNI, Required: true, DataType: entity.DataTypeText},
			{Column: "Apellido y Nombre", Field: FieldName, Required: true, DataType: entity.DataTypeText},
			{Column: "Dependencia", Field: FieldDependency, DataType: entity.DataTypeText},
			{Column: "Secretaría", Field: FieldSecretariat, DataType: entity.DataTypeText},
			{Column: "Agrupamiento", Field: FieldGrouping, DataType: entity.DataTypeText},
			{Column: "Nivel", Field: FieldLevel, DataType: entity.DataTypeText},
			{Column: "Situación de Revista", Field: FieldEmploymentStatus, DataType: entity.DataTypeText},
			{Column: "Fecha de Ingreso", Field: FieldHireDate, DataType: entity.DataTypeDate},
		},
	}
}
