package threshold

import "sort"

type crossingStatus int

const (
	crossingFound crossingStatus = iota
	crossingNotReached
	crossingAlreadyAbove
)

// crossing returns the intensity of the first upward crossing of level, linearly
// interpolated between measured points. xs must be ascending.
func crossing(xs, ys []float64, level float64) (float64, crossingStatus) {
	if len(xs) == 0 {
		return 0, crossingNotReached
	}
	if ys[0] > level {
		return 0, crossingAlreadyAbove
	}
	if ys[0] == level {
		return xs[0], crossingFound
	}

	for i := 0; i < len(xs)-1; i++ {
		if ys[i] < level && ys[i+1] >= level {
			return lerp(xs[i], ys[i], xs[i+1], ys[i+1], level), crossingFound
		}
	}

	return 0, crossingNotReached
}

// lerp returns x where the line through (x0,y0) and (x1,y1) reaches y.
func lerp(x0, y0, x1, y1, y float64) float64 {
	if y1 == y0 {
		return x0
	}
	return x0 + (y-y0)*(x1-x0)/(y1-y0)
}

// interpolateAt returns y at x, linear between neighbours and clamped outside the
// measured range. xs must be ascending.
func interpolateAt(xs, ys []float64, x float64) float64 {
	n := len(xs)
	switch {
	case n == 0:
		return 0
	case n == 1 || x <= xs[0]:
		return ys[0]
	case x >= xs[n-1]:
		return ys[n-1]
	}

	i := sort.SearchFloat64s(xs, x)
	if xs[i] == x {
		return ys[i]
	}
	x0, x1 := xs[i-1], xs[i]
	return ys[i-1] + (x-x0)*(ys[i]-ys[i-1])/(x1-x0)
}

// heartRateSeries returns the stages with a recorded heart rate.
func heartRateSeries(stages []Stage) (xs, hrs []float64) {
	for _, s := range stages {
		if s.HeartRate > 0 {
			xs = append(xs, s.Intensity)
			hrs = append(hrs, s.HeartRate)
		}
	}
	return xs, hrs
}
