package teacher

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ShinzTer/phys-diary-sub000/core"
)

// Teacher is the profile of a user holding the teacher role.
type Teacher struct {
	ID        int       `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	FacultyID int       `json:"faculty_id" db:"faculty_id"`
	FullName  string    `json:"full_name" db:"full_name"`
	Position  string    `json:"position" db:"position"`
	Phone     string    `json:"phone" db:"phone"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"` // UTC
}

type NewTeacher struct {
	UserID    string `json:"user_id" validate:"required,uuid"`
	FacultyID int    `json:"faculty_id" validate:"required,min=1"`
	FullName  string `json:"full_name" validate:"required,notblank,max=255"`
	Position  string `json:"position" validate:"max=255"`
	Phone     string `json:"phone" validate:"max=50"`
}

func (nt *NewTeacher) Validate(validate *validator.Validate) error {
	nt.UserID = core.CleanString(nt.UserID, true /* lower */)
	nt.FullName = core.CleanString(nt.FullName)
	nt.Position = core.CleanString(nt.Position)
	nt.Phone = core.CleanString(nt.Phone)
	return validate.Struct(nt)
}

// UpdateTeacher keeps the original values of the zero fields.
type UpdateTeacher struct {
	FacultyID int     `json:"faculty_id" validate:"min=0"`
	FullName  string  `json:"full_name" validate:"max=255"`
	Position  *string `json:"position" validate:"omitempty,max=255"`
	Phone     *string `json:"phone" validate:"omitempty,max=50"`
}

func (ut *UpdateTeacher) Validate(orig Teacher, validate *validator.Validate) error {
	if ut.FacultyID == 0 {
		ut.FacultyID = orig.FacultyID
	}
	if name := core.CleanString(ut.FullName); name != "" {
		ut.FullName = name
	} else {
		ut.FullName = orig.FullName
	}
	return validate.Struct(ut)
}

type QueryFilter struct {
	FacultyID int    `query:"faculty"`
	Search    string `query:"search"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}

// GetFilter selects a single Teacher; the first non-empty field wins.
type GetFilter struct {
	ID     int
	UserID string
}
