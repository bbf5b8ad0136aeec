package mapping

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muni-rrhh/dashboard/internal/domain"
	"github.com/muni-rrhh/dashboard/internal/domain/entity"
)

func validTemplate() entity.Template {
	return DefaultAgentTemplate()
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	return verr.Fields
}

func TestValidate_DefaultTemplateIsValid(t *testing.T) {
	assert.NoError(t, Validate(validTemplate()))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*entity.Template)
		wantField string
	}{
		{
			name:      "missing name",
			mutate:    func(tpl *entity.Template) { tpl.Name = "  " },
			wantField: "nombre",
		},
		{
			name:      "header row zero",
			mutate:    func(tpl *entity.Template) { tpl.HeaderRow = 0 },
			wantField: "headerRow",
		},
		{
			name:      "unknown dataset",
			mutate:    func(tpl *entity.Template) { tpl.Dataset = "sueldos" },
			wantField: "dataset",
		},
		{
			name:      "no mappings",
			mutate:    func(tpl *entity.Template) { tpl.Mappings = nil },
			wantField: "mappings",
		},
		{
			name:      "duplicate column ignoring case",
			mutate:    func(tpl *entity.Template) { tpl.Mappings[2].Column = " dni " },
			wantField: "mappings[2].column",
		},
		{
			name:      "empty column",
			mutate:    func(tpl *entity.Template) { tpl.Mappings[3].Column = "" },
			wantField: "mappings[3].column",
		},
		{
			name:      "unknown field",
			mutate:    func(tpl *entity.Template) { tpl.Mappings[4].Field = "sueldo" },
			wantField: "mappings[4].field",
		},
		{
			name:      "duplicate field",
			mutate:    func(tpl *entity.Template) { tpl.Mappings[5].Field = FieldGrouping },
			wantField: "mappings[5].field",
		},
		{
			name:      "unsupported data type",
			mutate:    func(tpl *entity.Template) { tpl.Mappings[0].DataType = "boolean" },
			wantField: "mappings[0].dataType",
		},
		{
			name: "required field not mapped",
			mutate: func(tpl *entity.Template) {
				tpl.Mappings = tpl.Mappings[1:]
			},
			wantField: "mappings",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl := validTemplate()
			tt.mutate(&tpl)

			err := Validate(tpl)

			require.Error(t, err)
			assert.Contains(t, fieldErrors(t, err), tt.wantField)
		})
	}
}

func TestCheckHeaders(t *testing.T) {
	tpl := validTemplate()
	header := []string{"Legajo", " dni ", "APELLIDO Y NOMBRE", "Nivel", "", "Agrupamiento"}

	report := CheckHeaders(tpl, header)

	assert.True(t, report.Valid())
	assert.Equal(t, map[string]int{
		FieldDNI:      1,
		FieldName:     2,
		FieldLevel:    3,
		FieldGrouping: 5,
	}, report.Matched)
	assert.Equal(t, []string{"Legajo"}, report.UnmappedHeaders)
	assert.Empty(t, report.MissingColumns)
}

func TestCheckHeaders_MissingRequired(t *testing.T) {
	report := CheckHeaders(validTemplate(), []string{"Apellido y Nombre", "Dependencia"})

	assert.False(t, report.Valid())
	assert.Equal(t, []string{"DNI"}, report.MissingColumns)
}
