package service

import (
	"context"
	"fmt"

	"github.com/muni-rrhh/dashboard/internal/application/port"
	"github.com/muni-rrhh/dashboard/internal/domain/entity"
	"github.com/muni-rrhh/dashboard/internal/domain/mapping"
	"github.com/muni-rrhh/dashboard/pkg/utils"
)

// TemplateService manages Excel import templates
type TemplateService interface {
	List(ctx context.Context) ([]*entity.Template, error)
	Get(ctx context.Context, id int64) (*entity.Template, error)
	Create(ctx context.Context, tpl *entity.Template) error
	Update(ctx context.Context, tpl *entity.Template) error
	Delete(ctx context.Context, id int64) error

	// Check validates a template without saving it. When header is given
	// the report says which columns were found.
	Check(tpl entity.Template, header []string) (*mapping.HeaderReport, error)
}

type templateServiceImpl struct {
	repo   port.TemplateRepository
	logger Logger
}

// NewTemplateService creates a new TemplateService
func NewTemplateService(repo port.TemplateRepository, logger Logger) TemplateService {
	return &templateServiceImpl{
		repo:   repo,
		logger: logger,
	}
}

func (s *templateServiceImpl) List(ctx context.Context) ([]*entity.Template, error) {
	return s.repo.List(ctx)
}

func (s *templateServiceImpl) Get(ctx context.Context, id int64) (*entity.Template, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *templateServiceImpl) Create(ctx context.Context, tpl *entity.Template) error {
	prepareTemplate(tpl)
	if err := mapping.Validate(*tpl); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, tpl); err != nil {
		s.logger.Error("Failed to create template", "error", err, "nombre", tpl.Name)
		return fmt.Errorf("create template: %w", err)
	}
	s.logger.Info("Template created", "id", tpl.ID, "dataset", tpl.Dataset)
	return nil
}

func (s *templateServiceImpl) Update(ctx context.Context, tpl *entity.Template) error {
	prepareTemplate(tpl)
	if err := mapping.Validate(*tpl); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, tpl); err != nil {
		return fmt.Errorf("update template: %w", err)
	}
	s.logger.Info("Template updated", "id", tpl.ID)
	return nil
}

func (s *templateServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	s.logger.Info("Template deleted", "id", id)
	return nil
}

func (s *templateServiceImpl) Check(tpl entity.Template, header []string) (*mapping.HeaderReport, error) {
	prepareTemplate(&tpl)
	if err := mapping.Validate(tpl); err != nil {
		return nil, err
	}
	if header == nil {
		return nil, nil
	}
	report := mapping.CheckHeaders(tpl, header)
	return &report, nil
}

// prepareTemplate trims user input and fills the header row default
func prepareTemplate(tpl *entity.Template) {
	tpl.Name = utils.SanitizeString(tpl.Name)
	tpl.Description = utils.SanitizeString(tpl.Description)
	if tpl.HeaderRow == 0 {
		tpl.HeaderRow = 1
	}
	mappings := make([]entity.ColumnMapping, len(tpl.Mappings))
	for i, m := range tpl.Mappings {
		m.Column = utils.SanitizeString(m.Column)
		if m.DataType == "" {
			m.DataType = entity.DataTypeText
		}
		mappings[i] = m
	}
	tpl.Mappings = mappings
}
