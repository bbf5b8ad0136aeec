package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/muni-rrhh/dashboard/internal/application/port"
	"github.com/muni-rrhh/dashboard/internal/domain"
	"github.com/muni-rrhh/dashboard/internal/domain/entity"
	"github.com/muni-rrhh/dashboard/pkg/listing"
	"github.com/muni-rrhh/dashboard/pkg/utils"
)

// DependencyService manages the organizational units
type DependencyService interface {
	List(ctx context.Context, q listing.Query) (listing.Page[*entity.Dependency], error)
	Get(ctx context.Context, id int64) (*entity.Dependency, error)
	Create(ctx context.Context, dep *entity.Dependency) error
	Update(ctx context.Context, dep *entity.Dependency) error
	Delete(ctx context.Context, id int64) error
}

var dependencyFields = listing.Fields[*entity.Dependency]{
	"nombre":     func(d *entity.Dependency) string { return d.Name },
	"codigo":     func(d *entity.Dependency) string { return d.Code },
	"secretaria": func(d *entity.Dependency) string { return d.Secretariat },
	"activa":     func(d *entity.Dependency) string { return strconv.FormatBool(d.Active) },
}

type dependencyServiceImpl struct {
	repo   port.DependencyRepository
	logger Logger
}

// NewDependencyService creates a new DependencyService
func NewDependencyService(repo port.DependencyRepository, logger Logger) DependencyService {
	return &dependencyServiceImpl{
		repo:   repo,
		logger: logger,
	}
}

func (s *dependencyServiceImpl) List(ctx context.Context, q listing.Query) (listing.Page[*entity.Dependency], error) {
	deps, err := s.repo.List(ctx)
	if err != nil {
		return listing.Page[*entity.Dependency]{}, fmt.Errorf("list dependencies: %w", err)
	}
	return listing.Apply(deps, q, dependencyFields), nil
}

func (s *dependencyServiceImpl) Get(ctx context.Context, id int64) (*entity.Dependency, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *dependencyServiceImpl) Create(ctx context.Context, dep *entity.Dependency) error {
	if err := s.validate(ctx, dep); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, dep); err != nil {
		return s.wrapWriteError("create", err)
	}
	s.logger.Info("Dependency created", "id", dep.ID, "nombre", dep.Name)
	return nil
}

func (s *dependencyServiceImpl) Update(ctx context.Context, dep *entity.Dependency) error {
	if err := s.validate(ctx, dep); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, dep); err != nil {
		return s.wrapWriteError("update", err)
	}
	s.logger.Info("Dependency updated", "id", dep.ID)
	return nil
}

func (s *dependencyServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete dependency: %w", err)
	}
	s.logger.Info("Dependency deleted", "id", id)
	return nil
}

func (s *dependencyServiceImpl) validate(ctx context.Context, dep *entity.Dependency) error {
	dep.Name = utils.SanitizeString(dep.Name)
	dep.Code = utils.SanitizeString(dep.Code)
	dep.Secretariat = utils.SanitizeString(dep.Secretariat)

	verr := domain.NewValidationError()
	if dep.Name == "" {
		verr.Add("nombre", "is required")
	}
	if dep.ParentID != nil {
		if dep.ID != 0 && *dep.ParentID == dep.ID {
			verr.Add("parentId", "cannot be its own parent")
		} else if _, err := s.repo.GetByID(ctx, *dep.ParentID); errors.Is(err, domain.ErrNotFound) {
			verr.Add("parentId", "parent dependency does not exist")
		} else if err != nil {
			return fmt.Errorf("check parent dependency: %w", err)
		}
	}
	return verr.OrNil()
}

// wrapWriteError turns a name collision into a field error
func (s *dependencyServiceImpl) wrapWriteError(op string, err error) error {
	if errors.Is(err, domain.ErrDuplicate) {
		verr := domain.NewValidationError()
		verr.Add("nombre", "is already taken")
		return verr
	}
	s.logger.Error("Failed to "+op+" dependency", "error", err)
	return fmt.Errorf("%s dependency: %w", op, err)
}
