package core

import (
	"encoding/json"
	"testing"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := NewTranslator()
	InitValidators(validate, translator)
	return validate, translator
}

func TestParseMeasurement(t *testing.T) {
	tests := []struct {
		raw    string
		want   float64
		wantOk bool
	}{
		{raw: "18", want: 18, wantOk: true},
		{raw: " 18.5 ", want: 18.5, wantOk: true},
		{raw: "18,5", want: 18.5, wantOk: true},
		{raw: "-3", want: -3, wantOk: true},
		{raw: ".5", want: .5, wantOk: true},
		{raw: "1e2", want: 100, wantOk: true},
		{raw: ""},
		{raw: "fast"},
		{raw: "0x1p4"},
		{raw: "0x10"},
		{raw: "1_000"},
		{raw: "inf"},
		{raw: "NaN"},
		{raw: "1e400"},
		{raw: "18,5,1"},
		{raw: "18 5"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseMeasurement(tt.raw)
			assert.Equal(t, tt.wantOk, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMeasurement_UnmarshalJSON(t *testing.T) {
	var v struct {
		A Measurement `json:"a"`
		B Measurement `json:"b"`
		C Measurement `json:"c"`
		D Measurement `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 5, "b": "18,5", "c": "  ", "d": null}`), &v))
	assert.Equal(t, "5", v.A.Raw())
	assert.Equal(t, "18,5", v.B.Raw())
	assert.False(t, v.C.Valid)
	assert.False(t, v.D.Valid)

	assert.Error(t, json.Unmarshal([]byte(`{"a": true}`), &v))
}

func TestMeasurementValidation(t *testing.T) {
	validate, translator := newTestValidator()
	type values struct {
		Value Measurement `json:"value" validate:"measurement"`
	}

	tests := []struct {
		name    string
		value   Measurement
		wantErr string
	}{
		{name: "null", value: Measurement{}},
		{name: "decimal", value: NewMeasurement("13,2")},
		{name: "not a number", value: NewMeasurement("fast"), wantErr: "must be a number"},
		{name: "hex", value: NewMeasurement("0x1p4"), wantErr: "must be a number"},
		{name: "fits", value: NewMeasurement("18.00000000000000000000000000001")},
		{name: "too long", value: NewMeasurement("18.00000000000000000000000000000000001"), wantErr: "must be at most 32 characters long"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(values{Value: tt.value})
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			errs, ok := err.(validator.ValidationErrors)
			require.True(t, ok)
			require.Len(t, errs, 1)
			assert.Equal(t, "value", errs[0].Field())
			assert.Equal(t, tt.wantErr, errs[0].Translate(translator))
		})
	}
}
