package period

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
)

// Label is one of the 12 fixed academic periods, in chronological order.
type Label string

const (
	Course1Start Label = "course_1_start"
	Semester1    Label = "semester_1"
	Semester2    Label = "semester_2"
	Course2Start Label = "course_2_start"
	Semester3    Label = "semester_3"
	Semester4    Label = "semester_4"
	Course3Start Label = "course_3_start"
	Semester5    Label = "semester_5"
	Semester6    Label = "semester_6"
	Course4Start Label = "course_4_start"
	Semester7    Label = "semester_7"
	Semester8    Label = "semester_8"
)

var (
	Labels = []Label{
		Course1Start, Semester1, Semester2,
		Course2Start, Semester3, Semester4,
		Course3Start, Semester5, Semester6,
		Course4Start, Semester7, Semester8,
	}

	labelTitles = map[Label]string{
		Course1Start: "Начало 1 курса",
		Semester1:    "1 семестр",
		Semester2:    "2 семестр",
		Course2Start: "Начало 2 курса",
		Semester3:    "3 семестр",
		Semester4:    "4 семестр",
		Course3Start: "Начало 3 курса",
		Semester5:    "5 семестр",
		Semester6:    "6 семестр",
		Course4Start: "Начало 4 курса",
		Semester7:    "7 семестр",
		Semester8:    "8 семестр",
	}

	labelOrder = func() map[Label]int {
		m := make(map[Label]int, len(Labels))
		for i, l := range Labels {
			m[l] = i
		}
		return m
	}()
)

func (l Label) IsValid() bool {
	_, ok := labelOrder[l]
	return ok
}

// Title is the display title, "" for unknown labels.
func (l Label) Title() string { return labelTitles[l] }

// Order is the chronological rank of the label; unknown labels sort last.
func (l Label) Order() int {
	if i, ok := labelOrder[l]; ok {
		return i
	}
	return len(Labels)
}

type LabelOption struct {
	Value Label  `json:"value"`
	Title string `json:"title"`
}

// LabelOptions lists every label with its title for UI select inputs.
func LabelOptions() []LabelOption {
	opts := make([]LabelOption, 0, len(Labels))
	for _, l := range Labels {
		opts = append(opts, LabelOption{Value: l, Title: l.Title()})
	}
	return opts
}

// Period is immutable once created.
type Period struct {
	ID        int       `json:"id" db:"id"`
	Label     Label     `json:"label" db:"label"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
}

func (p Period) MarshalJSON() ([]byte, error) {
	type period Period
	return json.Marshal(struct {
		period
		Title string `json:"title"`
	}{period(p), p.Label.Title()})
}

type NewPeriod struct {
	Label Label `json:"label" validate:"required,periodlabel"`
}

func (np NewPeriod) Validate(validate *validator.Validate) error { return validate.Struct(np) }
