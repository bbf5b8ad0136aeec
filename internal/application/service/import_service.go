package service

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/muni-rrhh/dashboard/internal/application/port"
	"github.com/muni-rrhh/dashboard/internal/domain"
	"github.com/muni-rrhh/dashboard/internal/domain/entity"
	"github.com/muni-rrhh/dashboard/internal/domain/mapping"
	"github.com/muni-rrhh/dashboard/pkg/utils"
)

// ImportInput is an uploaded agrupamiento/niveles spreadsheet
type ImportInput struct {
	Filename   string
	Content    []byte
	TemplateID *int64
}

// RowError explains why a spreadsheet row was skipped. Row is 1-based as
// shown by spreadsheet programs.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportResult summarizes an agent import
type ImportResult struct {
	Template        string     `json:"template"`
	StoredAs        string     `json:"storedAs,omitempty"`
	Imported        int        `json:"imported"`
	Skipped         int        `json:"skipped"`
	Errors          []RowError `json:"errors"`
	UnmappedHeaders []string   `json:"unmappedHeaders"`
}

// ImportService loads HR agent spreadsheets through an import template
type ImportService interface {
	ImportAgents(ctx context.Context, in ImportInput) (*ImportResult, error)
}

type importServiceImpl struct {
	templates port.TemplateRepository
	agents    port.AgentRepository
	txManager port.TransactionManager
	reader    port.SpreadsheetReader
	storage   port.FileStorage
	cache     port.Cache
	now       func() time.Time
	logger    Logger
}

// NewImportService creates a new ImportService
func NewImportService(
	templates port.TemplateRepository,
	agents port.AgentRepository,
	txManager port.TransactionManager,
	reader port.SpreadsheetReader,
	storage port.FileStorage,
	cache port.Cache,
	logger Logger,
) ImportService {
	return &importServiceImpl{
		templates: templates,
		agents:    agents,
		txManager: txManager,
		reader:    reader,
		storage:   storage,
		cache:     cache,
		now:       time.Now,
		logger:    logger,
	}
}

func (s *importServiceImpl) ImportAgents(ctx context.Context, in ImportInput) (*ImportResult, error) {
	tpl, err := s.template(ctx, in.TemplateID)
	if err != nil {
		return nil, err
	}

	rows, err := s.reader.ReadFirstSheet(bytes.NewReader(in.Content), in.Filename)
	if err != nil {
		return nil, err
	}

	headerIdx := tpl.HeaderRow - 1
	if headerIdx >= len(rows) {
		verr := domain.NewValidationError()
		verr.Add("file", fmt.Sprintf("header row %d not found", tpl.HeaderRow))
		return nil, verr
	}

	report := mapping.CheckHeaders(tpl, rows[headerIdx])
	if !report.Valid() {
		verr := domain.NewValidationError()
		verr.Add("file", "missing columns: "+strings.Join(report.MissingColumns, ", "))
		return nil, verr
	}

	result := &ImportResult{
		Template:        tpl.Name,
		Errors:          []RowError{},
		UnmappedHeaders: report.UnmappedHeaders,
	}

	var agents []*entity.Agent
	for i := headerIdx + 1; i < len(rows); i++ {
		if isBlankRow(rows[i]) {
			continue
		}
		agent, err := rowToAgent(tpl, report, rows[i])
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: i + 1, Message: err.Error()})
			continue
		}
		agents = append(agents, agent)
	}

	err = s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		for _, a := range agents {
			if err := s.agents.Upsert(ctx, a); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to import agents", "error", err, "file", in.Filename)
		return nil, fmt.Errorf("import agents: %w", err)
	}
	result.Imported = len(agents)
	result.Skipped = len(result.Errors)

	if s.storage != nil {
		key := uploadKey(entity.DatasetAgentes, uuid.NewString(), in.Filename, s.now())
		if err := s.storage.Save(ctx, key, in.Content); err != nil {
			s.logger.Error("Failed to store uploaded file", "error", err, "file", in.Filename)
		} else {
			result.StoredAs = key
		}
	}

	if s.cache != nil {
		s.cache.Flush()
	}

	s.logger.Info("Agents imported",
		"file", in.Filename,
		"template", tpl.Name,
		"imported", result.Imported,
		"skipped", result.Skipped,
	)
	return result, nil
}

func (s *importServiceImpl) template(ctx context.Context, id *int64) (entity.Template, error) {
	if id == nil {
		return mapping.DefaultAgentTemplate(), nil
	}

	tpl, err := s.templates.GetByID(ctx, *id)
	if err != nil {
		return entity.Template{}, fmt.Errorf("get template: %w", err)
	}
	if tpl.Dataset != entity.DatasetAgentes {
		verr := domain.NewValidationError()
		verr.Add("templateId", fmt.Sprintf("template dataset is %q, expected %q", tpl.Dataset, entity.DatasetAgentes))
		return entity.Template{}, verr
	}
	if err := mapping.Validate(*tpl); err != nil {
		return entity.Template{}, err
	}
	return *tpl, nil
}

func rowToAgent(tpl entity.Template, report mapping.HeaderReport, row []string) (*entity.Agent, error) {
	values, err := mapping.RowValues(tpl, report, row)
	if err != nil {
		return nil, err
	}

	agent, err := mapping.ToAgent(values)
	if err != nil {
		return nil, err
	}
	agent.DNI = utils.NormalizeDNI(agent.DNI)
	if err := utils.ValidateDNI(agent.DNI); err != nil {
		return nil, err
	}
	if agent.Name == "" {
		return nil, fmt.Errorf("nombre is required")
	}
	return agent, nil
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// uploadKey files an upload as <category>/<yyyy>/<mm>/<id>-<name>
func uploadKey(category, id, filename string, at time.Time) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == ':' || r < 0x20:
			return '_'
		case r == ' ':
			return '-'
		}
		return r
	}, filepath.Base(strings.TrimSpace(filename)))
	if name == "." || name == "" || name == string(filepath.Separator) {
		name = "upload"
	}
	return fmt.Sprintf("%s/%s/%s-%s", category, at.Format("2006/01"), id, name)
}
