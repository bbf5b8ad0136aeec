package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muni-rrhh/dashboard/internal/domain"
	"github.com/muni-rrhh/dashboard/internal/domain/entity"
)

func TestDependencyService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("requires a name", func(t *testing.T) {
		svc := NewDependencyService(&mockDependencyRepo{}, &mockLogger{})
		fields := validationFields(t, svc.Create(ctx, &entity.Dependency{Name: "  "}))
		assert.Contains(t, fields, "nombre")
	})

	t.Run("parent must exist", func(t *testing.T) {
		svc := NewDependencyService(&mockDependencyRepo{}, &mockLogger{})
		parent := int64(9)
		fields := validationFields(t, svc.Create(ctx, &entity.Dependency{Name: "Personal", ParentID: &parent}))
		assert.Contains(t, fields, "parentId")
	})

	t.Run("duplicate name becomes a field error", func(t *testing.T) {
		repo := &mockDependencyRepo{createFunc: func(ctx context.Context, dep *entity.Dependency) error {
			return domain.ErrDuplicate
		}}
		svc := NewDependencyService(repo, &mockLogger{})
		fields := validationFields(t, svc.Create(ctx, &entity.Dependency{Name: "Hacienda"}))
		assert.Equal(t, "is already taken", fields["nombre"])
	})

	t.Run("creates with trimmed fields", func(t *testing.T) {
		repo := &mockDependencyRepo{}
		svc := NewDependencyService(repo, &mockLogger{})
		dep := &entity.Dependency{Name: "  Hacienda ", Code: " H "}
		require.NoError(t, svc.Create(ctx, dep))
		assert.Equal(t, "Hacienda", repo.deps[dep.ID].Name)
		assert.Equal(t, "H", repo.deps[dep.ID].Code)
	})
}

func TestDependencyService_UpdateSelfParent(t *testing.T) {
	repo := &mockDependencyRepo{deps: map[int64]*entity.Dependency{1: {ID: 1, Name: "Hacienda"}}}
	svc := NewDependencyService(repo, &mockLogger{})

	self := int64(1)
	fields := validationFields(t, svc.Update(context.Background(), &entity.Dependency{ID: 1, Name: "Hacienda", ParentID: &self}))
	assert.Equal(t, "cannot be its own parent", fields["parentId"])
}
