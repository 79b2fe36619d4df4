package fitness

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/ShinzTer/phys-diary-sub000/core"
)

// PhysicalTest holds the raw results of the general physical tests of a student for a period.
// The values are stored as entered and never scored.
type PhysicalTest struct {
	ID             int              `json:"id" db:"id"`
	StudentID      int              `json:"student_id" db:"student_id"`
	PeriodID       int              `json:"period_id" db:"period_id"`
	PushUps        core.Measurement `json:"push_ups" db:"push_ups"`
	LegHold        core.Measurement `json:"leg_hold" db:"leg_hold"`
	TappingTest    core.Measurement `json:"tapping_test" db:"tapping_test"`
	RunningInPlace core.Measurement `json:"running_in_place" db:"running_in_place"`
	HalfSquat      core.Measurement `json:"half_squat" db:"half_squat"`
	PullUps        core.Measurement `json:"pull_ups" db:"pull_ups"`
	Plank          core.Measurement `json:"plank" db:"plank"`
	ForwardBend    core.Measurement `json:"forward_bend" db:"forward_bend"`
	LongJump       core.Measurement `json:"long_jump" db:"long_jump"`
	CreatedBy      null.String      `json:"created_by" db:"created_by"`
	CreatedAt      time.Time        `json:"created_at" db:"created_at"` // UTC
	UpdatedAt      time.Time        `json:"updated_at" db:"updated_at"` // UTC
}

// PhysicalTestValues are the editable values of a PhysicalTest.
type PhysicalTestValues struct {
	PushUps        core.Measurement `json:"push_ups" validate:"measurement"`
	LegHold        core.Measurement `json:"leg_hold" validate:"measurement"`
	TappingTest    core.Measurement `json:"tapping_test" validate:"measurement"`
	RunningInPlace core.Measurement `json:"running_in_place" validate:"measurement"`
	HalfSquat      core.Measurement `json:"half_squat" validate:"measurement"`
	PullUps        core.Measurement `json:"pull_ups" validate:"measurement"`
	Plank          core.Measurement `json:"plank" validate:"measurement"`
	ForwardBend    core.Measurement `json:"forward_bend" validate:"measurement"`
	LongJump       core.Measurement `json:"long_jump" validate:"measurement"`
}

type NewPhysicalTest struct {
	StudentID int `json:"student_id" validate:"required,min=1"`
	PeriodID  int `json:"period_id" validate:"required,min=1"`
	PhysicalTestValues
}

func (nt NewPhysicalTest) Validate(validate *validator.Validate) error { return validate.Struct(nt) }

// UpdatePhysicalTest replaces every value of the test: omitted values are cleared.
type UpdatePhysicalTest struct {
	PhysicalTestValues
}

func (ut UpdatePhysicalTest) Validate(validate *validator.Validate) error { return validate.Struct(ut) }

// PhysicalState is a sample of the physical state (anthropometry and functional tests)
// of a student for a period.
type PhysicalState struct {
	ID                 int              `json:"id" db:"id"`
	StudentID          int              `json:"student_id" db:"student_id"`
	PeriodID           int              `json:"period_id" db:"period_id"`
	Height             core.Measurement `json:"height" db:"height"`
	Weight             core.Measurement `json:"weight" db:"weight"`
	ChestCircumference core.Measurement `json:"chest_circumference" db:"chest_circumference"`
	VitalCapacity      core.Measurement `json:"vital_capacity" db:"vital_capacity"`
	HandDynamometry    core.Measurement `json:"hand_dynamometry" db:"hand_dynamometry"`
	RestingPulse       core.Measurement `json:"resting_pulse" db:"resting_pulse"`
	BloodPressure      core.Measurement `json:"blood_pressure" db:"blood_pressure"`
	StangeTest         core.Measurement `json:"stange_test" db:"stange_test"`
	GenchiTest         core.Measurement `json:"genchi_test" db:"genchi_test"`
	RuffierIndex       core.Measurement `json:"ruffier_index" db:"ruffier_index"`
	CreatedBy          null.String      `json:"created_by" db:"created_by"`
	CreatedAt          time.Time        `json:"created_at" db:"created_at"` // UTC
	UpdatedAt          time.Time        `json:"updated_at" db:"updated_at"` // UTC
}

// PhysicalStateValues are the editable values of a PhysicalState.
// BloodPressure is free text such as "120/80".
type PhysicalStateValues struct {
	Height             core.Measurement `json:"height" validate:"measurement"`
	Weight             core.Measurement `json:"weight" validate:"measurement"`
	ChestCircumference core.Measurement `json:"chest_circumference" validate:"measurement"`
	VitalCapacity      core.Measurement `json:"vital_capacity" validate:"measurement"`
	HandDynamometry    core.Measurement `json:"hand_dynamometry" validate:"measurement"`
	RestingPulse       core.Measurement `json:"resting_pulse" validate:"measurement"`
	BloodPressure      core.Measurement `json:"blood_pressure" validate:"max=32"`
	StangeTest         core.Measurement `json:"stange_test" validate:"measurement"`
	GenchiTest         core.Measurement `json:"genchi_test" validate:"measurement"`
	RuffierIndex       core.Measurement `json:"ruffier_index" validate:"measurement"`
}

type NewPhysicalState struct {
	StudentID int `json:"student_id" validate:"required,min=1"`
	PeriodID  int `json:"period_id" validate:"required,min=1"`
	PhysicalStateValues
}

func (ns NewPhysicalState) Validate(validate *validator.Validate) error { return validate.Struct(ns) }

// UpdatePhysicalState replaces every value of the sample: omitted values are cleared.
type UpdatePhysicalState struct {
	PhysicalStateValues
}

func (us UpdatePhysicalState) Validate(validate *validator.Validate) error { return validate.Struct(us) }

// QueryFilter applies to both tests and samples; zero fields are ignored.
type QueryFilter struct {
	StudentID int `query:"student"`
	PeriodID  int `query:"period"`
}
