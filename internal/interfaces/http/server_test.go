package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muni-rrhh/dashboard/internal/application/service"
	"github.com/muni-rrhh/dashboard/internal/domain"
	"github.com/muni-rrhh/dashboard/internal/domain/entity"
	"github.com/muni-rrhh/dashboard/internal/domain/mapping"
	"github.com/muni-rrhh/dashboard/internal/domain/reconciliation"
	"github.com/muni-rrhh/dashboard/pkg/listing"
)

type testServer struct {
	server    *Server
	auth      *mockAuth
	cases     *mockCases
	recon     *mockReconciliation
	templates *mockTemplates
	analytics *mockAnalytics
	imports   *mockImport
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		auth:      &mockAuth{},
		cases:     &mockCases{},
		recon:     &mockReconciliation{},
		templates: &mockTemplates{},
		analytics: &mockAnalytics{},
		imports:   &mockImport{},
	}
	cfg := DefaultServerConfig()
	cfg.MaxUploadMB = 1
	cfg.AllowedOrigins = []string{"http://localhost:5173"}

	ts.server = NewServer(cfg, Services{
		Cases:          ts.cases,
		Reconciliation: ts.recon,
		Templates:      ts.templates,
		Auth:           ts.auth,
		Analytics:      ts.analytics,
		Import:         ts.imports,
	}, nopLogger{})
	return ts
}

func (ts *testServer) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.server.Router().ServeHTTP(rec, req)
	return rec
}

func jsonRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func uploadRequest(t *testing.T, path, filename string, content []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/health", nil), "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode(t, rec).Success)
}

func TestHealthCheck_Degraded(t *testing.T) {
	srv := NewServer(DefaultServerConfig(), Services{
		Health: func(ctx context.Context) map[string]error {
			return map[string]error{"database": errors.New("closed")}
		},
	}, nopLogger{})

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "degraded")
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"forged token", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "Bearer viewer-token", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.auth.meFunc = func(ctx context.Context, userID int64) (*entity.User, error) {
				return &entity.User{ID: userID}, nil
			}

			req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := ts.do(req, "")

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)
	ts.auth.loginFunc = func(ctx context.Context, email, password string) (*service.LoginResult, error) {
		if password != "secret" {
			return nil, service.ErrInvalidCredentials
		}
		return &service.LoginResult{Token: "jwt", User: &entity.User{Email: email}}, nil
	}

	rec := ts.do(jsonRequest(t, http.MethodPost, "/auth/login", LoginRequest{Email: "a@b.com", Password: "secret"}), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"token":"jwt"`)

	rec = ts.do(jsonRequest(t, http.MethodPost, "/auth/login", LoginRequest{Email: "a@b.com", Password: "bad"}), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, decode(t, rec).Success)
}

func TestMe_UsesTokenSubject(t *testing.T) {
	ts := newTestServer(t)
	var gotID int64
	ts.auth.meFunc = func(ctx context.Context, userID int64) (*entity.User, error) {
		gotID = userID
		return &entity.User{ID: userID}, nil
	}

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/auth/me", nil), "admin-token")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), gotID)
}

func TestListCases_PassesQuery(t *testing.T) {
	ts := newTestServer(t)
	var got listing.Query
	ts.cases.listFunc = func(ctx context.Context, q listing.Query) (listing.Page[*entity.CaseRecord], error) {
		got = q
		return listing.Page[*entity.CaseRecord]{Items: []*entity.CaseRecord{}, Page: q.Page, PageSize: q.PageSize}, nil
	}

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/expedientes?page=2&pageSize=10&q=perez&sort=-agente", nil), "viewer-token")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, listing.Query{Page: 2, PageSize: 10, Search: "perez", SortBy: "agente", Desc: true}, got)
}

func TestGetCase_Errors(t *testing.T) {
	ts := newTestServer(t)
	ts.cases.getFunc = func(ctx context.Context, id int64) (*entity.CaseRecord, error) {
		return nil, fmt.Errorf("case record %d: %w", id, domain.ErrNotFound)
	}

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/expedientes/abc", nil), "viewer-token")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/expedientes/9", nil), "viewer-token")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateCase_ValidationFields(t *testing.T) {
	ts := newTestServer(t)
	ts.cases.createFunc = func(ctx context.Context, record *entity.CaseRecord) error {
		verr := domain.NewValidationError()
		verr.Add("dni", "is required")
		return verr
	}

	rec := ts.do(jsonRequest(t, http.MethodPost, "/expedientes", entity.CaseRecord{Type: "Otro"}), "viewer-token")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, map[string]string{"dni": "is required"}, resp.Fields)
}

func TestReplaceCases(t *testing.T) {
	ts := newTestServer(t)
	var got []*entity.CaseRecord
	ts.cases.replaceFunc = func(ctx context.Context, records []*entity.CaseRecord) error {
		got = records
		return nil
	}

	body := []entity.CaseRecord{{CaseNumber: "1"}, {CaseNumber: "2"}}
	rec := ts.do(jsonRequest(t, http.MethodPut, "/expedientes", body), "viewer-token")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, got, 2)
	assert.Equal(t, "2", got[1].CaseNumber)

	rec = ts.do(jsonRequest(t, http.MethodPut, "/expedientes", map[string]string{"a": "b"}), "viewer-token")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProcessCases(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"ok", nil, http.StatusOK},
		{"run in flight", service.ErrRunInProgress, http.StatusConflict},
		{"unreadable", fmt.Errorf("%w: zip: not a valid zip file", domain.ErrSpreadsheetUnreadable), http.StatusUnprocessableEntity},
		{"storage failure", errors.New("disk I/O error"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			var gotName string
			var gotBody []byte
			ts.recon.processFunc = func(ctx context.Context, in service.ProcessInput) (*entity.ReconciliationResult, error) {
				gotName = in.Filename
				gotBody, _ = io.ReadAll(in.Content)
				if tt.err != nil {
					return nil, tt.err
				}
				return &entity.ReconciliationResult{RunID: "run-1"}, nil
			}

			rec := ts.do(uploadRequest(t, "/expedientes/procesar", "tablero.xlsx", []byte("PK"), nil), "viewer-token")

			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, "tablero.xlsx", gotName)
			assert.Equal(t, []byte("PK"), gotBody)
			if tt.want == http.StatusInternalServerError {
				assert.NotContains(t, rec.Body.String(), "disk I/O")
			}
		})
	}
}

func TestProcessCases_MissingFile(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(httptest.NewRequest(http.MethodPost, "/expedientes/procesar", strings.NewReader("")), "viewer-token")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProcessCases_TooLarge(t *testing.T) {
	ts := newTestServer(t)

	big := bytes.Repeat([]byte("x"), 2<<20)
	rec := ts.do(uploadRequest(t, "/expedientes/procesar", "big.xlsx", big, nil), "viewer-token")

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestLatestResult_NoneYet(t *testing.T) {
	ts := newTestServer(t)
	ts.recon.latestFunc = func(ctx context.Context) (*entity.ReconciliationResult, error) {
		return nil, service.ErrNoResult
	}

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/expedientes/resultado", nil), "viewer-token")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportBucket(t *testing.T) {
	ts := newTestServer(t)
	var gotBucket reconciliation.Bucket
	ts.recon.exportFunc = func(ctx context.Context, bucket reconciliation.Bucket, w io.Writer) (string, error) {
		gotBucket = bucket
		_, err := w.Write([]byte("xlsx-bytes"))
		return "seguimiento-expedientes-faltantes-20250102_0304.xlsx", err
	}

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/expedientes/resultado/export/Faltantes", nil), "viewer-token")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, reconciliation.BucketMissing, gotBucket)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="seguimiento-expedientes-faltantes-20250102_0304.xlsx"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "xlsx-bytes", rec.Body.String())

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/expedientes/resultado/export/otros", nil), "viewer-token")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportCases(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/expedientes/export", nil), "viewer-token")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "cargados")
	assert.Equal(t, "grid", rec.Body.String())
}

func TestValidateTemplate(t *testing.T) {
	ts := newTestServer(t)
	ts.templates.checkFunc = func(tpl entity.Template, header []string) (*mapping.HeaderReport, error) {
		if header == nil {
			return nil, nil
		}
		return &mapping.HeaderReport{Matched: map[string]int{}, MissingColumns: []string{"DNI"}}, nil
	}

	rec := ts.do(jsonRequest(t, http.MethodPost, "/templates/validate", ValidateTemplateRequest{}), "viewer-token")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"valid":true`)

	rec = ts.do(jsonRequest(t, http.MethodPost, "/templates/validate", ValidateTemplateRequest{Header: []string{"Nombre"}}), "viewer-token")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"valid":false`)
}

func TestAgentSeries(t *testing.T) {
	ts := newTestServer(t)
	ts.analytics.agentsByFunc = func(ctx context.Context, dimension string) ([]entity.CountByLabel, error) {
		if dimension != "dependencia" {
			return nil, fmt.Errorf("dimension %q: %w", dimension, domain.ErrNotFound)
		}
		return []entity.CountByLabel{{Label: "Hacienda", Count: 4}}, nil
	}

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/analytics/agentes/total", nil), "viewer-token")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":42`)

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/analytics/agentes/por-dependencia", nil), "viewer-token")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Hacienda")

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/analytics/agentes/por-color", nil), "viewer-token")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/analytics/agentes/resumen", nil), "viewer-token")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCaseSeries(t *testing.T) {
	ts := newTestServer(t)

	for _, serie := range []string{"por-tipo", "por-estado", "control"} {
		rec := ts.do(httptest.NewRequest(http.MethodGet, "/analytics/expedientes/"+serie, nil), "viewer-token")
		assert.Equal(t, http.StatusOK, rec.Code, serie)
	}

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/analytics/expedientes/por-mes", nil), "viewer-token")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestClearDashboard_RequiresAdmin(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(httptest.NewRequest(http.MethodPost, "/admin/limpiar-dashboard", nil), "viewer-token")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Zero(t, ts.analytics.clearCalls)

	rec = ts.do(httptest.NewRequest(http.MethodPost, "/admin/limpiar-dashboard", nil), "admin-token")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, ts.analytics.clearCalls)
	assert.Contains(t, rec.Body.String(), `"agentsDeleted":7`)
}

func TestUploadAgents(t *testing.T) {
	ts := newTestServer(t)
	var got service.ImportInput
	ts.imports.importFunc = func(ctx context.Context, in service.ImportInput) (*service.ImportResult, error) {
		got = in
		return &service.ImportResult{Imported: 3}, nil
	}

	req := uploadRequest(t, "/tools/agrupamiento-niveles/upload", "agentes.xlsx", []byte("PK"), map[string]string{"templateId": "5"})
	rec := ts.do(req, "viewer-token")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "agentes.xlsx", got.Filename)
	require.NotNil(t, got.TemplateID)
	assert.Equal(t, int64(5), *got.TemplateID)

	req = uploadRequest(t, "/tools/agrupamiento-niveles/upload", "agentes.xlsx", []byte("PK"), map[string]string{"templateId": "x"})
	rec = ts.do(req, "viewer-token")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/expedientes", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := ts.do(req, "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/expedientes", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = ts.do(req, "")
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrValidation, http.StatusBadRequest},
		{fmt.Errorf("x: %w", domain.ErrNotFound), http.StatusNotFound},
		{service.ErrNoResult, http.StatusNotFound},
		{domain.ErrDuplicate, http.StatusConflict},
		{service.ErrRunInProgress, http.StatusConflict},
		{domain.ErrSpreadsheetUnreadable, http.StatusUnprocessableEntity},
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}
