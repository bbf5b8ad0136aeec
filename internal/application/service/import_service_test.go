package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muni-rrhh/dashboard/internal/domain"
	"github.com/muni-rrhh/dashboard/internal/domain/entity"
)

var agentHeader = []string{"DNI", "Apellido y Nombre", "Dependencia", "Nivel", "Fecha de Ingreso"}

func newTestImportService(rows [][]string) (*importServiceImpl, *mockAgentRepo, *mockStorage, *mockCache, *mockTemplateRepo) {
	agents := &mockAgentRepo{}
	storage := &mockStorage{}
	cache := &mockCache{items: map[string]interface{}{"agentes/total": 1}}
	templates := &mockTemplateRepo{}
	svc := NewImportService(templates, agents, &mockTxManager{}, &mockReader{rows: rows}, storage, cache, &mockLogger{}).(*importServiceImpl)
	svc.now = func() time.Time { return time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC) }
	return svc, agents, storage, cache, templates
}

func TestImportService_ImportAgents(t *testing.T) {
	rows := [][]string{
		agentHeader,
		{"30.111.222", "Perez Juan", "Hacienda", "3", "01/03/2015"},
		{},
		{"123", "DNI corto", "Hacienda"},
		{"28999000", "Gomez Ana", "", "", "no es fecha"},
		{"28999001", "Diaz Luis"},
	}
	svc, agents, storage, cache, _ := newTestImportService(rows)

	result, err := svc.ImportAgents(context.Background(), ImportInput{Filename: "planilla rrhh.xlsx", Content: []byte("PK")})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 2, result.Skipped)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, 4, result.Errors[0].Row)
	assert.Equal(t, 5, result.Errors[1].Row)

	require.Contains(t, agents.agents, "30111222")
	assert.Equal(t, "3", agents.agents["30111222"].Level)
	require.NotNil(t, agents.agents["30111222"].HireDate)
	assert.Contains(t, agents.agents, "28999001")

	assert.True(t, strings.HasPrefix(result.StoredAs, "agentes/2024/03/"))
	assert.True(t, strings.HasSuffix(result.StoredAs, "-planilla-rrhh.xlsx"))
	assert.Contains(t, storage.saved, result.StoredAs)
	assert.Equal(t, 1, cache.flushes)
}

func TestImportService_MissingColumns(t *testing.T) {
	svc, agents, _, _, _ := newTestImportService([][]string{{"Nombre", "Legajo"}, {"Perez", "1"}})

	_, err := svc.ImportAgents(context.Background(), ImportInput{Filename: "x.xlsx", Content: []byte("PK")})
	fields := validationFields(t, err)
	assert.Contains(t, fields["file"], "DNI")
	assert.Empty(t, agents.agents)
}

func TestImportService_TemplateSelection(t *testing.T) {
	rows := [][]string{{"titulo"}, {"Documento", "Nombre"}, {"30111222", "Perez"}}
	svc, agents, _, _, templates := newTestImportService(rows)
	ctx := context.Background()

	custom := &entity.Template{
		Name: "Planilla vieja", Dataset: entity.DatasetAgentes, HeaderRow: 2,
		Mappings: []entity.ColumnMapping{
			{Column: "Documento", Field: "dni", Required: true, DataType: entity.DataTypeText},
			{Column: "Nombre", Field: "nombre", Required: true, DataType: entity.DataTypeText},
		},
	}
	require.NoError(t, templates.Create(ctx, custom))

	result, err := svc.ImportAgents(ctx, ImportInput{Filename: "x.xlsx", Content: []byte("PK"), TemplateID: &custom.ID})
	require.NoError(t, err)
	assert.Equal(t, "Planilla vieja", result.Template)
	assert.Equal(t, 1, result.Imported)
	assert.Contains(t, agents.agents, "30111222")

	missing := int64(99)
	_, err = svc.ImportAgents(ctx, ImportInput{Filename: "x.xlsx", Content: []byte("PK"), TemplateID: &missing})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	other := &entity.Template{Name: "Otro", Dataset: "liquidaciones"}
	require.NoError(t, templates.Create(ctx, other))
	_, err = svc.ImportAgents(ctx, ImportInput{Filename: "x.xlsx", Content: []byte("PK"), TemplateID: &other.ID})
	assert.Contains(t, validationFields(t, err), "templateId")
}

func TestImportService_UpsertFailureAbortsImport(t *testing.T) {
	svc, agents, storage, _, _ := newTestImportService([][]string{agentHeader, {"30111222", "Perez"}})
	agents.upsertErr = errors.New("database is locked")

	_, err := svc.ImportAgents(context.Background(), ImportInput{Filename: "x.xlsx", Content: []byte("PK")})
	assert.Error(t, err)
	assert.Empty(t, storage.saved)
}

func TestUploadKey(t *testing.T) {
	at := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, "agentes/2024/03/id1-Planilla-RRHH.xlsx", uploadKey("agentes", "id1", "Planilla RRHH.xlsx", at))
	assert.Equal(t, "agentes/2024/03/id2-passwd", uploadKey("agentes", "id2", "../../etc/passwd", at))
	assert.Equal(t, "agentes/2024/03/id3-upload", uploadKey("agentes", "id3", "", at))
}
