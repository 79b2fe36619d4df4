package sport

import (
	"math"

	"github.com/ShinzTer/phys-diary-sub000/core"
)

const (
	MinScore = 1
	MaxScore = 10
	// NoScore is given for unknown exercises and missing or non-numeric values.
	NoScore = 0
)

type (
	threshold struct {
		limit float64
		score int
	}

	scorer func(v float64) int
)

// atLeast scores count/distance exercises: the first `v >= limit` wins, steps from the highest limit down.
func atLeast(steps ...threshold) scorer {
	return func(v float64) int {
		for _, s := range steps {
			if v >= s.limit {
				return s.score
			}
		}
		return MinScore
	}
}

// atMost scores timed exercises: the first `v <= limit` wins, steps from the lowest limit up.
func atMost(steps ...threshold) scorer {
	return func(v float64) int {
		for _, s := range steps {
			if v <= s.limit {
				return s.score
			}
		}
		return MinScore
	}
}

// halfClamped scores pass counts: round(v/2) clamped to [1, 10].
func halfClamped(v float64) int {
	s := math.Round(v / 2)
	if s < MinScore {
		return MinScore
	}
	if s > MaxScore {
		return MaxScore
	}
	return int(s)
}

var scorers = map[ExerciseKey]scorer{
	BasketballFreethrow: atLeast(
		threshold{5, 10},
		threshold{4, 7},
		threshold{3, 5},
		threshold{2, 3},
	),
	BasketballDribble: atLeast(
		threshold{9, 10},
		threshold{8, 9},
		threshold{7, 8},
		threshold{6, 7},
		threshold{5, 6},
		threshold{4, 5},
		threshold{3, 4},
		threshold{2, 3},
		threshold{1, 2},
	),
	BasketballTwoSteps: atLeast(
		threshold{5, 10},
		threshold{4, 8},
		threshold{3, 6},
		threshold{2, 4},
		threshold{1, 2},
	),
	VolleyballServe: atLeast(
		threshold{8, 10},
		threshold{7, 9},
		threshold{6, 8},
		threshold{5, 7},
		threshold{4, 6},
		threshold{3, 5},
		threshold{2, 3},
	),
	VolleyballSoloPass: halfClamped,
	VolleyballPairPass: halfClamped,
	// seconds
	Swimming25m: atMost(
		threshold{18, 10},
		threshold{19.5, 9},
		threshold{21, 8},
		threshold{22.5, 7},
		threshold{24, 6},
		threshold{25.5, 5},
		threshold{27, 4},
		threshold{28.5, 3},
		threshold{30, 2},
	),
	Swimming50m: atMost(
		threshold{40, 10},
		threshold{43, 9},
		threshold{46, 8},
		threshold{50, 7},
		threshold{54, 6},
		threshold{58, 5},
		threshold{62, 4},
		threshold{67, 3},
		threshold{72, 2},
	),
	Swimming100m: atMost(
		threshold{95, 10},
		threshold{102, 9},
		threshold{110, 8},
		threshold{118, 7},
		threshold{126, 6},
		threshold{135, 5},
		threshold{145, 4},
		threshold{155, 3},
		threshold{170, 2},
	),
	Running100m: atMost(
		threshold{13.0, 10},
		threshold{13.2, 9},
		threshold{13.4, 8},
		threshold{13.6, 7},
		threshold{13.8, 6},
		threshold{14.0, 5},
		threshold{14.2, 4},
		threshold{14.4, 3},
		threshold{14.6, 2},
	),
	Running2000m: atMost(
		threshold{510, 10}, // 8:30
		threshold{540, 9},
		threshold{570, 8},
		threshold{600, 7},
		threshold{630, 6},
		threshold{660, 5},
		threshold{690, 4},
		threshold{720, 3},
		threshold{780, 2},
	),
}

// Score grades a raw measurement of the exercise k from 1 (worst) to 10 (best).
// It never fails: unknown keys and null, blank or non-numeric values give NoScore.
// Score is safe for concurrent use.
func Score(k ExerciseKey, m core.Measurement) int {
	sc, ok := scorers[k]
	if !ok {
		return NoScore
	}
	v, ok := m.Float64()
	if !ok {
		return NoScore
	}
	return sc(v)
}

// ScoreRaw is Score for a raw text value such as "18,5".
func ScoreRaw(k ExerciseKey, raw string) int {
	return Score(k, core.NewMeasurement(raw))
}
