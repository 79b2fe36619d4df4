package faculty

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ShinzTer/phys-diary-sub000/core"
)

type Faculty struct {
	ID          int       `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"` // UTC
}

type NewFaculty struct {
	Name        string `json:"name" validate:"required,notblank,max=255"`
	Description string `json:"description" validate:"max=2000"`
}

func (nf *NewFaculty) Validate(ctx context.Context, validate *validator.Validate, svc Service) error {
	nf.Name = core.CleanString(nf.Name)
	nf.Description = core.CleanString(nf.Description)

	if err := validate.Struct(nf); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, nf.Name)
}

// UpdateFaculty keeps the original values of the blank (nil) fields.
type UpdateFaculty struct {
	Name        string  `json:"name" validate:"max=255"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

func (uf *UpdateFaculty) Validate(ctx context.Context, orig Faculty, validate *validator.Validate, svc Service) error {
	if name := core.CleanString(uf.Name); name != "" {
		uf.Name = name
	} else {
		uf.Name = orig.Name
	}
	if uf.Description != nil {
		desc := core.CleanString(*uf.Description)
		uf.Description = &desc
	}

	if err := validate.Struct(uf); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, uf.Name, orig.ID)
}

type QueryFilter struct {
	Search string `query:"search"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
