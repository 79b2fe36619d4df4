package sport

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShinzTer/phys-diary-sub000/core"
)

func TestScore(t *testing.T) {
	tests := []struct {
		key  ExerciseKey
		raw  string
		want int
	}{
		{key: BasketballFreethrow, raw: "5", want: 10},
		{key: BasketballFreethrow, raw: "10", want: 10},
		{key: BasketballFreethrow, raw: "4.9", want: 7},
		{key: BasketballFreethrow, raw: "4", want: 7},
		{key: BasketballFreethrow, raw: "3", want: 5},
		{key: BasketballFreethrow, raw: "2", want: 3},
		{key: BasketballFreethrow, raw: "1", want: 1},
		{key: BasketballFreethrow, raw: "0", want: 1},

		{key: BasketballDribble, raw: "9", want: 10},
		{key: BasketballDribble, raw: "8.5", want: 9},
		{key: BasketballDribble, raw: "1", want: 2},
		{key: BasketballDribble, raw: "0", want: 1},

		{key: BasketballTwoSteps, raw: "5", want: 10},
		{key: BasketballTwoSteps, raw: "3", want: 6},
		{key: BasketballTwoSteps, raw: "1", want: 2},
		{key: BasketballTwoSteps, raw: "0", want: 1},

		{key: VolleyballServe, raw: "8", want: 10},
		{key: VolleyballServe, raw: "7", want: 9},
		{key: VolleyballServe, raw: "2", want: 3},
		{key: VolleyballServe, raw: "1", want: 1},

		{key: VolleyballSoloPass, raw: "0", want: 1},
		{key: VolleyballSoloPass, raw: "1", want: 1},
		{key: VolleyballSoloPass, raw: "3", want: 2},
		{key: VolleyballSoloPass, raw: "7", want: 4},
		{key: VolleyballSoloPass, raw: "10", want: 5},
		{key: VolleyballPairPass, raw: "20", want: 10},
		{key: VolleyballPairPass, raw: "250", want: 10},
		{key: VolleyballPairPass, raw: "-4", want: 1},

		{key: Swimming25m, raw: "18", want: 10},
		{key: Swimming25m, raw: "18,0", want: 10},
		{key: Swimming25m, raw: " 17.2 ", want: 10},
		{key: Swimming25m, raw: "18.1", want: 9},
		{key: Swimming25m, raw: "19.5", want: 9},
		{key: Swimming25m, raw: "19.6", want: 8},
		{key: Swimming25m, raw: "30", want: 2},
		{key: Swimming25m, raw: "30.01", want: 1},
		{key: Swimming25m, raw: "31.5", want: 1},

		{key: Swimming50m, raw: "40", want: 10},
		{key: Swimming50m, raw: "72", want: 2},
		{key: Swimming50m, raw: "73", want: 1},

		{key: Swimming100m, raw: "95", want: 10},
		{key: Swimming100m, raw: "170", want: 2},
		{key: Swimming100m, raw: "171", want: 1},

		{key: Running100m, raw: "13.0", want: 10},
		{key: Running100m, raw: "13,1", want: 9},
		{key: Running100m, raw: "13.2", want: 9},
		{key: Running100m, raw: "14.6", want: 2},
		{key: Running100m, raw: "14.61", want: 1},

		{key: Running2000m, raw: "510", want: 10},
		{key: Running2000m, raw: "511", want: 9},
		{key: Running2000m, raw: "780", want: 2},
		{key: Running2000m, raw: "781", want: 1},

		// no credit
		{key: Swimming25m, raw: "", want: 0},
		{key: Swimming25m, raw: "   ", want: 0},
		{key: Swimming25m, raw: "not-a-number", want: 0},
		{key: Swimming25m, raw: "18s", want: 0},
		{key: Swimming25m, raw: "NaN", want: 0},
		{key: Swimming25m, raw: "Inf", want: 0},
		{key: "pushUps", raw: "5", want: 0},
		{key: "", raw: "5", want: 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s=%q", tt.key, tt.raw), func(t *testing.T) {
			assert.Equal(t, tt.want, ScoreRaw(tt.key, tt.raw))
		})
	}
}

func TestScore_NullGivesNoScore(t *testing.T) {
	for _, ex := range Catalog {
		assert.Equal(t, NoScore, Score(ex.Key, core.Measurement{}), ex.Key)
		assert.Equal(t, NoScore, ScoreRaw(ex.Key, ""), ex.Key)
		assert.Equal(t, NoScore, ScoreRaw(ex.Key, "not-a-number"), ex.Key)
	}
}

func TestScore_JSONValues(t *testing.T) {
	var values Values
	require.NoError(t, json.Unmarshal([]byte(`{"basketballFreethrow": 5, "swimming25m": "18", "running100m": null}`), &values))

	assert.Equal(t, 10, Score(BasketballFreethrow, values.BasketballFreethrow))
	assert.Equal(t, 10, Score(Swimming25m, values.Swimming25m))
	assert.Equal(t, NoScore, Score(Running100m, values.Running100m))
	assert.Equal(t, NoScore, Score(Running2000m, values.Running2000m))
}

func TestScore_RangeAndMonotonicity(t *testing.T) {
	values := make([]float64, 0, 4000)
	for v := -50.0; v <= 1000; v += 0.25 {
		values = append(values, v)
	}

	for _, ex := range Catalog {
		t.Run(string(ex.Key), func(t *testing.T) {
			prev := -1
			for _, v := range values {
				score := Score(ex.Key, core.MeasurementFromFloat(v))
				require.GreaterOrEqual(t, score, MinScore, "value %v", v)
				require.LessOrEqual(t, score, MaxScore, "value %v", v)

				if prev >= 0 {
					if ex.LowerIsBetter {
						require.LessOrEqual(t, score, prev, "score must not improve when %v grows", v)
					} else {
						require.GreaterOrEqual(t, score, prev, "score must not drop when %v grows", v)
					}
				}
				prev = score
			}
		})
	}
}

func TestScorersCoverCatalog(t *testing.T) {
	require.Len(t, Catalog, 11)
	assert.Len(t, scorers, len(Catalog))
	for _, ex := range Catalog {
		_, ok := scorers[ex.Key]
		assert.True(t, ok, ex.Key)
		assert.True(t, ex.Key.IsValid(), ex.Key)
	}
	assert.False(t, ExerciseKey("pushUps").IsValid())
}
