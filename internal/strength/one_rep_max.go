// Package strength holds the strength calculators: 1RM formulas, working weights and velocity based training.
package strength

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var ErrUnknownMethod = errors.New("unknown one rep max method")

type Method string

const (
	MethodEpley   Method = "epley"
	MethodBrzycki Method = "brzycki"
	MethodAverage Method = "average"
)

// brzyckiMaxReps keeps the Brzycki denominator positive
const brzyckiMaxReps = 36

// epleyFactor is the Epley per-rep coefficient
const epleyFactor = 0.0333

func ParseMethod(s string) (Method, error) {
	switch m := Method(strings.ToLower(strings.TrimSpace(s))); m {
	case MethodEpley, MethodBrzycki, MethodAverage:
		return m, nil
	case "":
		return MethodAverage, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownMethod, s)
	}
}

// OneRepMax estimates the 1RM from a submaximal set, rounded to 0.01 kg.
// Invalid input or an unknown method yields 0.
func OneRepMax(weight float64, reps int, method Method) float64 {
	if !positive(weight) || reps <= 0 {
		return 0
	}
	if reps == 1 {
		return weight
	}

	var oneRM float64
	switch method {
	case MethodEpley:
		oneRM = epley(weight, reps)
	case MethodBrzycki:
		oneRM = brzycki(weight, reps)
	case MethodAverage:
		oneRM = (epley(weight, reps) + brzycki(weight, reps)) / 2
	default:
		return 0
	}

	return round2(oneRM)
}

func epley(weight float64, reps int) float64 {
	return weight * (1 + epleyFactor*float64(reps))
}

func brzycki(weight float64, reps int) float64 {
	reps = min(reps, brzyckiMaxReps)
	return weight * 36 / float64(37-reps)
}

// WorkingWeight returns percent of the 1RM rounded to the nearest plate increment.
// A non-positive increment rounds to 0.5 kg.
func WorkingWeight(oneRM, percent, increment float64) float64 {
	if !positive(oneRM) || !positive(percent) {
		return 0
	}
	if !positive(increment) {
		increment = 0.5
	}

	raw := oneRM * percent / 100
	return round2(math.Round(raw/increment) * increment)
}

// RepsAtPercent is the Epley estimate of reps to failure at percent of the 1RM.
func RepsAtPercent(percent float64) int {
	if !positive(percent) {
		return 0
	}
	if percent >= 100 {
		return 1
	}

	reps := (100/percent - 1) / epleyFactor
	return max(1, int(math.Round(reps)))
}

type PercentageRow struct {
	Percent      int     `json:"percent"`
	Weight       float64 `json:"weight"`
	ExpectedReps int     `json:"expectedReps"`
}

// PercentageTable lists working weights from 100% down to 50% of the 1RM in 5% steps.
func PercentageTable(oneRM, increment float64) []PercentageRow {
	if !positive(oneRM) {
		return []PercentageRow{}
	}

	rows := make([]PercentageRow, 0, 11)
	for percent := 100; percent >= 50; percent -= 5 {
		rows = append(rows, PercentageRow{
			Percent:      percent,
			Weight:       WorkingWeight(oneRM, float64(percent), increment),
			ExpectedReps: RepsAtPercent(float64(percent)),
		})
	}
	return rows
}

// EstimateRPE estimates the session RPE of a set from the reps left in reserve,
// rounded to 0.5 and clamped to 1..10.
func EstimateRPE(weight, oneRM float64, reps int) float64 {
	if !positive(weight) || !positive(oneRM) || reps <= 0 {
		return 0
	}

	maxReps := 1.0
	if weight < oneRM {
		maxReps = math.Max(1, (oneRM/weight-1)/epleyFactor)
	}

	rpe := 10 - (maxReps - float64(reps))
	rpe = math.Max(1, math.Min(10, rpe))
	return math.Round(rpe*2) / 2
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
