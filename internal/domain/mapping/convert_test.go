package mapping

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muni-rrhh/dashboard/internal/domain/entity"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"2015-03-01", "2015-03-01", false},
		{"01/03/2015", "2015-03-01", false},
		{"1/3/2015", "2015-03-01", false},
		{"42064", "2015-03-01", false},
		{"2015", "", true},
		{"ayer", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Format(DateLayout))
		})
	}
}

func TestParseNumber(t *testing.T) {
	for in, want := range map[string]float64{
		"1234.5":  1234.5,
		"1.234,5": 1234.5,
		" 7 ":     7,
		"0,25":    0.25,
	} {
		got, err := ParseNumber(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseNumber("doce")
	assert.Error(t, err)
}

func TestRowValuesAndToAgent(t *testing.T) {
	tpl := DefaultAgentTemplate()
	header := []string{"DNI", "Apellido y Nombre", "Dependencia", "Nivel", "Fecha de Ingreso"}
	report := CheckHeaders(tpl, header)
	require.True(t, report.Valid())

	values, err := RowValues(tpl, report, []string{"30111222", "Perez Juan", "Hacienda", "", "42064"})
	require.NoError(t, err)
	assert.Equal(t, "2015-03-01", values[FieldHireDate])
	_, hasLevel := values[FieldLevel]
	assert.False(t, hasLevel)

	agent, err := ToAgent(values)
	require.NoError(t, err)
	assert.Equal(t, "30111222", agent.DNI)
	assert.Equal(t, "Hacienda", agent.Dependency)
	require.NotNil(t, agent.HireDate)
	assert.Equal(t, time.Date(2015, 3, 1, 0, 0, 0, 0, time.UTC), *agent.HireDate)

	_, err = RowValues(tpl, report, []string{"", "Sin DNI"})
	assert.ErrorContains(t, err, `"DNI" is empty`)

	_, err = RowValues(tpl, report, []string{"1", "X", "", "", "no es fecha"})
	assert.ErrorContains(t, err, "Fecha de Ingreso")
}

func TestRowValues_NumberColumn(t *testing.T) {
	tpl := entity.Template{
		Dataset: entity.DatasetAgentes,
		Mappings: []entity.ColumnMapping{
			{Column: "Nivel", Field: FieldLevel, DataType: entity.DataTypeNumber},
		},
	}
	report := CheckHeaders(tpl, []string{"Nivel"})

	values, err := RowValues(tpl, report, []string{"12,0"})
	require.NoError(t, err)
	assert.Equal(t, "12", values[FieldLevel])
}
