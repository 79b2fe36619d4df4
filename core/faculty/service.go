package faculty

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ShinzTer/phys-diary-sub000/core"
)

var (
	// errors
	ErrNotFound   = errors.New("faculty not found")
	ErrNameExists = errors.New("a faculty with this name already exists")
	ErrInUse      = errors.New("faculty still has groups or teachers")

	NowFunc = core.NowUTC // mockable
)

type (
	Repository interface {
		CheckNameUniqueness(ctx context.Context, name string, excludedIDs ...int) error
		CreateFaculty(ctx context.Context, fac Faculty) (Faculty, error)
		QueryFaculties(ctx context.Context, filter *QueryFilter) ([]Faculty, error)
		GetFaculty(ctx context.Context, id int) (Faculty, error)
		UpdateFaculty(ctx context.Context, fac Faculty) (Faculty, error)
		// DeleteFaculty fails with ErrInUse while groups or teachers reference the faculty.
		DeleteFaculty(ctx context.Context, id int) error
	}

	Service interface {
		CheckUniqueness(ctx context.Context, name string, excludedIDs ...int) error
		Create(ctx context.Context, nf NewFaculty) (Faculty, error)
		Query(ctx context.Context, filter *QueryFilter) ([]Faculty, error)
		GetByID(ctx context.Context, id int) (Faculty, error)
		Update(ctx context.Context, orig Faculty, uf UpdateFaculty) (Faculty, error)
		Delete(ctx context.Context, id int) error
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) CheckUniqueness(ctx context.Context, name string, excludedIDs ...int) error {
	if err := svc.repo.CheckNameUniqueness(ctx, name, excludedIDs...); err != nil {
		if errors.Cause(err) == ErrNameExists {
			return core.NewFieldError("name", ErrNameExists)
		}
		return errors.Wrap(err, "checking name uniqueness")
	}
	return nil
}

func (svc *service) Create(ctx context.Context, nf NewFaculty) (Faculty, error) {
	now := NowFunc()
	return svc.repo.CreateFaculty(ctx, Faculty{
		Name:        nf.Name,
		Description: nf.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (svc *service) Query(ctx context.Context, filter *QueryFilter) ([]Faculty, error) {
	if filter == nil {
		filter = new(QueryFilter)
	}
	return svc.repo.QueryFaculties(ctx, filter)
}

func (svc *service) GetByID(ctx context.Context, id int) (Faculty, error) {
	return svc.repo.GetFaculty(ctx, id)
}

func (svc *service) Update(ctx context.Context, orig Faculty, uf UpdateFaculty) (Faculty, error) {
	fac := orig
	fac.Name = uf.Name
	if uf.Description != nil {
		fac.Description = *uf.Description
	}
	fac.UpdatedAt = NowFunc()
	return svc.repo.UpdateFaculty(ctx, fac)
}

func (svc *service) Delete(ctx context.Context, id int) error {
	if err := svc.repo.DeleteFaculty(ctx, id); err != nil {
		if errors.Cause(err) == ErrInUse {
			return core.NewValidationError(ErrInUse)
		}
		return err
	}
	return nil
}
