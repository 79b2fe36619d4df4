package core

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
)

// MeasurementMaxLen is the size of the raw value columns.
const MeasurementMaxLen = 32

var (
	decimalRegex = regexp.MustCompile(`^[+-]?(\d+([.,]\d*)?|[.,]\d+)([eE][+-]?\d+)?$`)

	errInvalidMeasurement = errors.New("measurement must be a string, a number or null")
)

// Measurement is a raw exercise value as entered in forms: "18", "18.5", "18,5", 5 or null.
// It is stored as nullable text and only interpreted as a number when needed.
type Measurement struct {
	null.String
}

// NewMeasurement returns a set Measurement, or a null one when `s` is blank.
func NewMeasurement(s string) Measurement {
	s = strings.TrimSpace(s)
	return Measurement{null.NewString(s, s != "")}
}

func MeasurementFromFloat(f float64) Measurement {
	return Measurement{null.StringFrom(strconv.FormatFloat(f, 'f', -1, 64))}
}

// Float64 parses the raw value. ok is false for null, blank or non-numeric values.
func (m Measurement) Float64() (float64, bool) {
	if !m.Valid {
		return 0, false
	}
	return ParseMeasurement(m.String.String)
}

// Raw returns the raw text, "" when null.
func (m Measurement) Raw() string {
	if !m.Valid {
		return ""
	}
	return m.String.String
}

// UnmarshalJSON accepts JSON strings, numbers and null. Blank strings are null.
func (m *Measurement) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, null.NullBytes) {
		*m = Measurement{}
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errors.Wrap(err, "decoding measurement")
		}
		*m = NewMeasurement(s)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return errors.Wrap(err, "decoding measurement")
		}
		*m = NewMeasurement(n.String())
	default:
		return errInvalidMeasurement
	}
	return nil
}

// ParseMeasurement parses a decimal value, accepting a comma as decimal separator.
// Hex, underscores, "inf" and "nan" are rejected.
func ParseMeasurement(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if !decimalRegex.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
