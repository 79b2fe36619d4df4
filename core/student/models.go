package student

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/ShinzTer/phys-diary-sub000/core"
)

const birthDateLayout = "2006-01-02"

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func (g Gender) IsValid() bool {
	return g == GenderMale || g == GenderFemale
}

// MedicalGroup is the health group a student is assigned to for physical education.
type MedicalGroup string

const (
	MedicalGroupBasic       MedicalGroup = "basic"
	MedicalGroupPreparatory MedicalGroup = "preparatory"
	MedicalGroupSpecial     MedicalGroup = "special"
)

var MedicalGroups = []MedicalGroup{MedicalGroupBasic, MedicalGroupPreparatory, MedicalGroupSpecial}

func (mg MedicalGroup) IsValid() bool {
	switch mg {
	case MedicalGroupBasic, MedicalGroupPreparatory, MedicalGroupSpecial:
		return true
	}
	return false
}

type Student struct {
	ID           int          `json:"id" db:"id"`
	UserID       string       `json:"user_id" db:"user_id"`
	GroupID      int          `json:"group_id" db:"group_id"`
	FullName     string       `json:"full_name" db:"full_name"`
	Gender       Gender       `json:"gender" db:"gender"`
	BirthDate    null.Time    `json:"birth_date" db:"birth_date"`
	MedicalGroup MedicalGroup `json:"medical_group" db:"medical_group"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"` // UTC
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"` // UTC
}

type NewStudent struct {
	UserID       string       `json:"user_id" validate:"required,uuid"`
	GroupID      int          `json:"group_id" validate:"required,min=1"`
	FullName     string       `json:"full_name" validate:"required,notblank,max=255"`
	Gender       Gender       `json:"gender" validate:"required,gender"`
	BirthDate    string       `json:"birth_date" validate:"omitempty,birthdate"`
	MedicalGroup MedicalGroup `json:"medical_group" validate:"required,medgroup"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.UserID = core.CleanString(ns.UserID, true /* lower */)
	ns.FullName = core.CleanString(ns.FullName)
	ns.BirthDate = core.CleanString(ns.BirthDate)
	return validate.Struct(ns)
}

// UpdateStudent keeps the original values of the zero fields.
type UpdateStudent struct {
	GroupID      int          `json:"group_id" validate:"min=0"`
	FullName     string       `json:"full_name" validate:"max=255"`
	Gender       Gender       `json:"gender" validate:"omitempty,gender"`
	BirthDate    string       `json:"birth_date" validate:"omitempty,birthdate"`
	MedicalGroup MedicalGroup `json:"medical_group" validate:"omitempty,medgroup"`
}

func (us *UpdateStudent) Validate(orig Student, validate *validator.Validate) error {
	if us.GroupID == 0 {
		us.GroupID = orig.GroupID
	}
	if name := core.CleanString(us.FullName); name != "" {
		us.FullName = name
	} else {
		us.FullName = orig.FullName
	}
	if us.Gender == "" {
		us.Gender = orig.Gender
	}
	if us.MedicalGroup == "" {
		us.MedicalGroup = orig.MedicalGroup
	}
	us.BirthDate = core.CleanString(us.BirthDate)
	return validate.Struct(us)
}

type QueryFilter struct {
	GroupID      int          `query:"group"`
	MedicalGroup MedicalGroup `query:"medical_group"`
	Search       string       `query:"search"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}

// GetFilter selects a single Student; the first non-empty field wins.
type GetFilter struct {
	ID     int
	UserID string
}

// parseBirthDate parses a validated `YYYY-MM-DD` date; blank gives a null date.
func parseBirthDate(s string) null.Time {
	t, err := time.Parse(birthDateLayout, s)
	if err != nil {
		return null.Time{}
	}
	return null.TimeFrom(t)
}
