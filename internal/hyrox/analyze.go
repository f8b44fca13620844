// Package hyrox analyzes HYROX race splits against division benchmarks.
package hyrox

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/multierr"
)

var (
	ErrInvalidSplits   = errors.New("invalid hyrox splits")
	ErrUnknownDivision = errors.New("unknown hyrox division")
)

const (
	RunCount     = 8
	StationCount = 8
	runMeters    = 1000.0
)

// Stations in race order, each one follows a 1 km run.
var Stations = [StationCount]string{
	"SkiErg",
	"Sled Push",
	"Sled Pull",
	"Burpee Broad Jumps",
	"Rowing",
	"Farmers Carry",
	"Sandbag Lunges",
	"Wall Balls",
}

type Division string

const (
	DivisionOpenMen   Division = "open-men"
	DivisionOpenWomen Division = "open-women"
	DivisionProMen    Division = "pro-men"
	DivisionProWomen  Division = "pro-women"
)

// station benchmarks in seconds, race order
var benchmarks = map[Division][StationCount]float64{
	DivisionOpenMen:   {270, 210, 300, 330, 285, 120, 300, 390},
	DivisionOpenWomen: {300, 240, 330, 390, 320, 140, 330, 420},
	DivisionProMen:    {255, 240, 330, 320, 270, 110, 300, 360},
	DivisionProWomen:  {285, 270, 360, 370, 305, 135, 330, 420},
}

func ParseDivision(s string) (Division, error) {
	d := Division(strings.ToLower(strings.TrimSpace(s)))
	if d == "" {
		return DivisionOpenMen, nil
	}
	if _, ok := benchmarks[d]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownDivision, s)
	}
	return d, nil
}

// Splits are race times in seconds.
type Splits struct {
	Runs     []float64 `json:"runs"`
	Stations []float64 `json:"stations"`
	Roxzone  float64   `json:"roxzone"`
}

type StationResult struct {
	Station          string  `json:"station"`
	Seconds          float64 `json:"seconds"`
	BenchmarkSeconds float64 `json:"benchmarkSeconds"`
	DeltaSeconds     float64 `json:"deltaSeconds"`
	DeltaPercent     float64 `json:"deltaPercent"`
}

type Analysis struct {
	Division           Division        `json:"division"`
	RunSeconds         float64         `json:"runSeconds"`
	StationSeconds     float64         `json:"stationSeconds"`
	RoxzoneSeconds     float64         `json:"roxzoneSeconds"`
	FinishSeconds      float64         `json:"finishSeconds"`
	AvgRunPaceSecPerKm float64         `json:"avgRunPaceSecPerKm"`
	RunFadePercent     float64         `json:"runFadePercent"`
	Stations           []StationResult `json:"stations"`
	WeakestStation     string          `json:"weakestStation"`
}

func (s Splits) validate() error {
	var err error
	if len(s.Runs) != RunCount {
		err = multierr.Append(err, fmt.Errorf("expected %d runs, got %d", RunCount, len(s.Runs)))
	}
	if len(s.Stations) != StationCount {
		err = multierr.Append(err, fmt.Errorf("expected %d stations, got %d", StationCount, len(s.Stations)))
	}
	for i, r := range s.Runs {
		if !positive(r) {
			err = multierr.Append(err, fmt.Errorf("run %d must be positive", i+1))
		}
	}
	for i, st := range s.Stations {
		if !positive(st) {
			err = multierr.Append(err, fmt.Errorf("station %d must be positive", i+1))
		}
	}
	if s.Roxzone < 0 || math.IsNaN(s.Roxzone) || math.IsInf(s.Roxzone, 0) {
		err = multierr.Append(err, errors.New("roxzone must not be negative"))
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSplits, err)
	}
	return nil
}

// Analyze totals the race, measures the run fade and compares every station against the division benchmark.
// The weakest station is the one furthest behind its benchmark relative to the benchmark time.
func Analyze(splits Splits, division Division) (Analysis, error) {
	bench, ok := benchmarks[division]
	if !ok {
		return Analysis{}, fmt.Errorf("%w: %s", ErrUnknownDivision, division)
	}
	if err := splits.validate(); err != nil {
		return Analysis{}, err
	}

	analysis := Analysis{
		Division:       division,
		RoxzoneSeconds: splits.Roxzone,
		Stations:       make([]StationResult, 0, StationCount),
	}
	for _, r := range splits.Runs {
		analysis.RunSeconds += r
	}

	weakestDelta := math.Inf(-1)
	for i, secs := range splits.Stations {
		analysis.StationSeconds += secs
		delta := secs - bench[i]
		result := StationResult{
			Station:          Stations[i],
			Seconds:          secs,
			BenchmarkSeconds: bench[i],
			DeltaSeconds:     round1(delta),
			DeltaPercent:     round1(delta / bench[i] * 100),
		}
		analysis.Stations = append(analysis.Stations, result)

		if pct := delta / bench[i]; pct > weakestDelta {
			weakestDelta = pct
			analysis.WeakestStation = result.Station
		}
	}

	analysis.FinishSeconds = round1(analysis.RunSeconds + analysis.StationSeconds + analysis.RoxzoneSeconds)
	analysis.RunSeconds = round1(analysis.RunSeconds)
	analysis.StationSeconds = round1(analysis.StationSeconds)
	analysis.AvgRunPaceSecPerKm = round1(analysis.RunSeconds / (RunCount * runMeters) * 1000)

	first, last := splits.Runs[0], splits.Runs[RunCount-1]
	analysis.RunFadePercent = round1((last - first) / first * 100)

	return analysis, nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
