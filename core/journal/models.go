package journal

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"
)

// Result links the records of a student for a period.
// A link is nulled when its record is deleted.
type Result struct {
	ID              int       `json:"id" db:"id"`
	StudentID       int       `json:"student_id" db:"student_id"`
	PeriodID        int       `json:"period_id" db:"period_id"`
	PhysicalTestID  null.Int  `json:"physical_test_id" db:"physical_test_id"`
	PhysicalStateID null.Int  `json:"physical_state_id" db:"physical_state_id"`
	SportResultID   null.Int  `json:"sport_result_id" db:"sport_result_id"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"` // UTC
}

type NewResult struct {
	StudentID       int      `json:"student_id" validate:"required,min=1"`
	PeriodID        int      `json:"period_id" validate:"required,min=1"`
	PhysicalTestID  null.Int `json:"physical_test_id"`
	PhysicalStateID null.Int `json:"physical_state_id"`
	SportResultID   null.Int `json:"sport_result_id"`
}

func (nr NewResult) Validate(validate *validator.Validate) error { return validate.Struct(nr) }

type QueryFilter struct {
	StudentID int `query:"student"`
	PeriodID  int `query:"period"`
}
