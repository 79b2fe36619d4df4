package group

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/ShinzTer/phys-diary-sub000/core"
)

const (
	MinCourse = 1
	MaxCourse = 6
)

// Group is a study group of a faculty, optionally supervised by a teacher.
type Group struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	FacultyID int       `json:"faculty_id" db:"faculty_id"`
	TeacherID null.Int  `json:"teacher_id" db:"teacher_id"`
	Course    int       `json:"course" db:"course"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"` // UTC
}

type NewGroup struct {
	Name      string   `json:"name" validate:"required,notblank,max=100"`
	FacultyID int      `json:"faculty_id" validate:"required,min=1"`
	TeacherID null.Int `json:"teacher_id"`
	Course    int      `json:"course" validate:"required,min=1,max=6"`
}

func (ng *NewGroup) Validate(ctx context.Context, validate *validator.Validate, svc Service) error {
	ng.Name = core.CleanString(ng.Name)

	if err := validate.Struct(ng); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, ng.FacultyID, ng.Name)
}

// UpdateGroup keeps the original values of the zero fields.
// TeacherID is only changed when set: a JSON null keeps it, use UnsetTeacher to remove it.
type UpdateGroup struct {
	Name         string   `json:"name" validate:"max=100"`
	FacultyID    int      `json:"faculty_id" validate:"min=0"`
	TeacherID    null.Int `json:"teacher_id"`
	UnsetTeacher bool     `json:"unset_teacher"`
	Course       int      `json:"course" validate:"omitempty,min=1,max=6"`
}

func (ug *UpdateGroup) Validate(ctx context.Context, orig Group, validate *validator.Validate, svc Service) error {
	if name := core.CleanString(ug.Name); name != "" {
		ug.Name = name
	} else {
		ug.Name = orig.Name
	}
	if ug.FacultyID == 0 {
		ug.FacultyID = orig.FacultyID
	}
	if ug.Course == 0 {
		ug.Course = orig.Course
	}

	if err := validate.Struct(ug); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, ug.FacultyID, ug.Name, orig.ID)
}

type QueryFilter struct {
	FacultyID int    `query:"faculty"`
	TeacherID int    `query:"teacher"`
	Course    int    `query:"course"`
	Search    string `query:"search"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
