package sport

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/ShinzTer/phys-diary-sub000/core"
)

// SportResult holds the raw control exercise results of a student for a period.
// Values are keyed by ExerciseKey in JSON.
type SportResult struct {
	ID                  int              `json:"id" db:"id"`
	StudentID           int              `json:"student_id" db:"student_id"`
	PeriodID            int              `json:"period_id" db:"period_id"`
	BasketballFreethrow core.Measurement `json:"basketballFreethrow" db:"basketball_freethrow"`
	BasketballDribble   core.Measurement `json:"basketballDribble" db:"basketball_dribble"`
	BasketballTwoSteps  core.Measurement `json:"basketballTwoSteps" db:"basketball_two_steps"`
	VolleyballServe     core.Measurement `json:"volleyballServe" db:"volleyball_serve"`
	VolleyballSoloPass  core.Measurement `json:"volleyballSoloPass" db:"volleyball_solo_pass"`
	VolleyballPairPass  core.Measurement `json:"volleyballPairPass" db:"volleyball_pair_pass"`
	Swimming25m         core.Measurement `json:"swimming25m" db:"swimming_25m"`
	Swimming50m         core.Measurement `json:"swimming50m" db:"swimming_50m"`
	Swimming100m        core.Measurement `json:"swimming100m" db:"swimming_100m"`
	Running100m         core.Measurement `json:"running100m" db:"running_100m"`
	Running2000m        core.Measurement `json:"running2000m" db:"running_2000m"`
	CreatedBy           null.String      `json:"created_by" db:"created_by"`
	CreatedAt           time.Time        `json:"created_at" db:"created_at"` // UTC
	UpdatedAt           time.Time        `json:"updated_at" db:"updated_at"` // UTC
}

// Value returns the raw value of exercise k, null for unknown keys.
func (r SportResult) Value(k ExerciseKey) core.Measurement {
	switch k {
	case BasketballFreethrow:
		return r.BasketballFreethrow
	case BasketballDribble:
		return r.BasketballDribble
	case BasketballTwoSteps:
		return r.BasketballTwoSteps
	case VolleyballServe:
		return r.VolleyballServe
	case VolleyballSoloPass:
		return r.VolleyballSoloPass
	case VolleyballPairPass:
		return r.VolleyballPairPass
	case Swimming25m:
		return r.Swimming25m
	case Swimming50m:
		return r.Swimming50m
	case Swimming100m:
		return r.Swimming100m
	case Running100m:
		return r.Running100m
	case Running2000m:
		return r.Running2000m
	}
	return core.Measurement{}
}

// Values are the editable values of a SportResult.
type Values struct {
	BasketballFreethrow core.Measurement `json:"basketballFreethrow" validate:"measurement"`
	BasketballDribble   core.Measurement `json:"basketballDribble" validate:"measurement"`
	BasketballTwoSteps  core.Measurement `json:"basketballTwoSteps" validate:"measurement"`
	VolleyballServe     core.Measurement `json:"volleyballServe" validate:"measurement"`
	VolleyballSoloPass  core.Measurement `json:"volleyballSoloPass" validate:"measurement"`
	VolleyballPairPass  core.Measurement `json:"volleyballPairPass" validate:"measurement"`
	Swimming25m         core.Measurement `json:"swimming25m" validate:"measurement"`
	Swimming50m         core.Measurement `json:"swimming50m" validate:"measurement"`
	Swimming100m        core.Measurement `json:"swimming100m" validate:"measurement"`
	Running100m         core.Measurement `json:"running100m" validate:"measurement"`
	Running2000m        core.Measurement `json:"running2000m" validate:"measurement"`
}

type NewSportResult struct {
	StudentID int `json:"student_id" validate:"required,min=1"`
	PeriodID  int `json:"period_id" validate:"required,min=1"`
	Values
}

func (nr NewSportResult) Validate(validate *validator.Validate) error { return validate.Struct(nr) }

// UpdateSportResult replaces every value of the result: omitted values are cleared.
type UpdateSportResult struct {
	Values
}

func (ur UpdateSportResult) Validate(validate *validator.Validate) error { return validate.Struct(ur) }

type QueryFilter struct {
	StudentID int `query:"student"`
	PeriodID  int `query:"period"`
}
