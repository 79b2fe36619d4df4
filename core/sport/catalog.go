package sport

// ExerciseKey identifies one of the control exercises.
type ExerciseKey string

const (
	BasketballFreethrow ExerciseKey = "basketballFreethrow"
	BasketballDribble   ExerciseKey = "basketballDribble"
	BasketballTwoSteps  ExerciseKey = "basketballTwoSteps"
	VolleyballServe     ExerciseKey = "volleyballServe"
	VolleyballSoloPass  ExerciseKey = "volleyballSoloPass"
	VolleyballPairPass  ExerciseKey = "volleyballPairPass"
	Swimming25m         ExerciseKey = "swimming25m"
	Swimming50m         ExerciseKey = "swimming50m"
	Swimming100m        ExerciseKey = "swimming100m"
	Running100m         ExerciseKey = "running100m"
	Running2000m        ExerciseKey = "running2000m"
)

// Exercise describes a control exercise. LowerIsBetter is set for timed exercises.
type Exercise struct {
	Key           ExerciseKey `json:"key"`
	Name          string      `json:"name"`
	ShortName     string      `json:"short_name"`
	Unit          string      `json:"unit"`
	LowerIsBetter bool        `json:"lower_is_better"`
}

// Catalog lists the control exercises in display order. Reports follow this order.
var Catalog = []Exercise{
	{Key: BasketballFreethrow, Name: "Баскетбол: штрафные броски", ShortName: "Штрафные броски", Unit: "попаданий"},
	{Key: BasketballDribble, Name: "Баскетбол: ведение мяча", ShortName: "Ведение", Unit: "попаданий"},
	{Key: BasketballTwoSteps, Name: "Баскетбол: бросок после двух шагов", ShortName: "Два шага", Unit: "попаданий"},
	{Key: VolleyballServe, Name: "Волейбол: подача", ShortName: "Подача", Unit: "подач"},
	{Key: VolleyballSoloPass, Name: "Волейбол: передача над собой", ShortName: "Пер. над собой", Unit: "передач"},
	{Key: VolleyballPairPass, Name: "Волейбол: передача в парах", ShortName: "Пер. в парах", Unit: "передач"},
	{Key: Swimming25m, Name: "Плавание 25 м", ShortName: "Плав. 25м", Unit: "с", LowerIsBetter: true},
	{Key: Swimming50m, Name: "Плавание 50 м", ShortName: "Плав. 50м", Unit: "с", LowerIsBetter: true},
	{Key: Swimming100m, Name: "Плавание 100 м", ShortName: "Плав. 100м", Unit: "с", LowerIsBetter: true},
	{Key: Running100m, Name: "Бег 100 м", ShortName: "Бег 100м", Unit: "с", LowerIsBetter: true},
	{Key: Running2000m, Name: "Бег 2000 м", ShortName: "Бег 2000м", Unit: "с", LowerIsBetter: true},
}

var catalogIndex = func() map[ExerciseKey]int {
	m := make(map[ExerciseKey]int, len(Catalog))
	for i, ex := range Catalog {
		m[ex.Key] = i
	}
	return m
}()

func (k ExerciseKey) IsValid() bool {
	_, ok := catalogIndex[k]
	return ok
}

// ExerciseByKey returns the catalog entry of k.
func ExerciseByKey(k ExerciseKey) (Exercise, bool) {
	i, ok := catalogIndex[k]
	if !ok {
		return Exercise{}, false
	}
	return Catalog[i], true
}
