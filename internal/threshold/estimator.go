package threshold

import (
	"fmt"
	"math"
	"sort"
)

// Estimate runs the D-max estimation with fixed concentration fallbacks. It never fails:
// degraded results carry LOW confidence and the reasons in Warnings.
func Estimate(stages []Stage, opts Options) Result {
	opts = opts.normalized()
	res := Result{
		Method:     MethodInterpolation,
		Confidence: ConfidenceLow,
		Zones:      []Zone{},
		Warnings:   []string{},
	}
	warn := func(format string, args ...any) {
		res.Warnings = append(res.Warnings, fmt.Sprintf(format, args...))
	}

	clean := make([]Stage, 0, len(stages))
	for i, s := range stages {
		if !validValue(s.Intensity) || !validValue(s.Lactate) {
			warn("stage %d dropped: invalid intensity or lactate", i+1)
			continue
		}
		if !validValue(s.HeartRate) {
			warn("stage %d: invalid heart rate ignored", i+1)
			s.HeartRate = 0
		}
		clean = append(clean, s)
	}

	if len(clean) == 0 {
		warn("no valid stages")
		return res
	}

	// non-monotonic intensity gets no curve fit, sorting only serves the interpolation
	fallback := false
	if !sort.SliceIsSorted(clean, func(i, j int) bool { return clean[i].Intensity < clean[j].Intensity }) {
		warn("stages were not in ascending intensity order, falling back to interpolation")
		fallback = true
		sort.SliceStable(clean, func(i, j int) bool { return clean[i].Intensity < clean[j].Intensity })
	}

	xs := make([]float64, len(clean))
	ys := make([]float64, len(clean))
	for i, s := range clean {
		xs[i] = s.Intensity
		ys[i] = s.Lactate
	}

	downgrades := 0
	if len(clean) < opts.MinStages {
		warn("only %d stages, at least %d needed for curve fitting", len(clean), opts.MinStages)
		fallback = true
	}
	for i := 1; i < len(xs); i++ {
		if xs[i] == xs[i-1] {
			warn("duplicate intensity %g", xs[i])
			fallback = true
			break
		}
	}

	minY, maxY := ys[0], ys[0]
	for _, y := range ys {
		minY = math.Min(minY, y)
		maxY = math.Max(maxY, y)
	}
	if maxY-minY < opts.MinLactateRange {
		warn("lactate range %.2f mmol/L below %.2f mmol/L", maxY-minY, opts.MinLactateRange)
		downgrades++
	}

	hrXs, hrs := heartRateSeries(clean)

	if !fallback {
		fit, err := FitPolynomial(xs, ys, opts.Degree)
		if err != nil {
			warn("curve fit failed: %s", err)
			fallback = true
		} else {
			res.Fit = fit
			res.RSquared = round4(fit.RSquared(xs, ys))
			if maxY == minY {
				warn("lactate does not change across stages")
			}

			dp, err := dmax(fit, xs[0], xs[len(xs)-1])
			if err != nil {
				warn("D-max not available: %s", err)
				fallback = true
			} else {
				res.Method = MethodDmax
				res.DmaxDistance = round4(dp.Distance)
				res.AnaerobicThreshold = &Point{
					Intensity: roundInside(dp.Intensity, xs[0], xs[len(xs)-1]),
					Lactate:   round2(dp.Lactate),
				}
			}
		}
	}

	if x, status := crossing(xs, ys, opts.AerobicConcentration); status == crossingFound {
		res.AerobicThreshold = &Point{Intensity: round2(x), Lactate: opts.AerobicConcentration}
	} else {
		warnCrossing(warn, "aerobic threshold", opts.AerobicConcentration, status)
	}
	if x, status := crossing(xs, ys, opts.OBLAConcentration); status == crossingFound {
		res.OBLA = &Point{Intensity: round2(x), Lactate: opts.OBLAConcentration}
	} else {
		warnCrossing(warn, "OBLA", opts.OBLAConcentration, status)
	}

	if fallback {
		res.Method = MethodInterpolation
		if res.OBLA != nil {
			obla := *res.OBLA
			res.AnaerobicThreshold = &obla
		} else {
			warn("anaerobic threshold could not be determined")
		}
	}

	for _, p := range []*Point{res.AerobicThreshold, res.AnaerobicThreshold, res.OBLA} {
		if p == nil {
			continue
		}
		if len(hrXs) > 0 {
			p.HeartRate = math.Round(interpolateAt(hrXs, hrs, p.Intensity))
		}
		p.PaceSecPerKm = pacePtr(opts.Unit, p.Intensity)
	}

	res.Confidence = confidence(res.Method, res.RSquared, downgrades, len(clean), opts.MinStages)

	zones, zoneWarnings := Zones(res.AerobicThreshold, res.AnaerobicThreshold, FitHeartRateModel(clean), opts.Unit)
	if zones != nil {
		res.Zones = zones
	}
	res.Warnings = append(res.Warnings, zoneWarnings...)

	return res
}

func warnCrossing(warn func(string, ...any), name string, level float64, status crossingStatus) {
	switch status {
	case crossingAlreadyAbove:
		warn("%s: lactate already above %.1f mmol/L at the first stage", name, level)
	case crossingNotReached:
		warn("%s: %.1f mmol/L not reached", name, level)
	}
}

func confidence(method Method, r2 float64, downgrades, stages, minStages int) Confidence {
	if method != MethodDmax {
		return ConfidenceLow
	}

	level := 0
	switch {
	case r2 >= 0.95:
		level = 2
	case r2 >= 0.85:
		level = 1
	}
	level -= downgrades
	if stages <= minStages {
		level = min(level, 1)
	}

	switch {
	case level >= 2:
		return ConfidenceHigh
	case level == 1:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

func validValue(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// roundInside rounds to 2 decimals unless that would move v onto or past a bound.
func roundInside(v, lo, hi float64) float64 {
	if r := round2(v); r > lo && r < hi {
		return r
	}
	return v
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
