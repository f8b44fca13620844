package threshold

import (
	"errors"
	"math"
)

var ErrDegenerateFit = errors.New("fitted curve is linear, no D-max point")

// dmaxPoint is the point of the fitted curve furthest from the chord between the curve at
// first and last intensity.
type dmaxPoint struct {
	Intensity float64
	Lactate   float64
	// Distance is perpendicular to the chord, in original units.
	Distance float64
}

const degenerateEps = 1e-9

// dmax finds the interior points where the curve slope equals the chord slope (f'(u) = m),
// those are the extrema of the vertical distance to the chord. The one furthest below the
// chord wins, or the furthest overall when the curve never dips below.
func dmax(p *Polynomial, firstX, lastX float64) (dmaxPoint, error) {
	if p == nil || lastX <= firstX {
		return dmaxPoint{}, ErrDegenerateFit
	}

	c1, c2, c3 := p.coefficient(1), p.coefficient(2), p.coefficient(3)
	if math.Abs(c2)+math.Abs(c3) < degenerateEps*(1+math.Abs(c1)) {
		return dmaxPoint{}, ErrDegenerateFit
	}

	u0, u1 := p.normalize(firstX), p.normalize(lastX)
	y0, y1 := p.evalU(u0), p.evalU(u1)
	mU := (y1 - y0) / (u1 - u0)
	chord := func(u float64) float64 {
		return y0 + mU*(u-u0)
	}

	// f'(u) - m = 3c3 u^2 + 2c2 u + (c1 - m)
	roots := quadraticRoots(3*c3, 2*c2, c1-mU)

	var (
		best      dmaxPoint
		bestU     float64
		bestFound bool
		bestBelow bool
	)
	for _, u := range roots {
		if !(u > u0 && u < u1) {
			continue
		}
		x := p.denormalize(u)
		if !(x > firstX && x < lastX) {
			continue
		}

		vertical := chord(u) - p.evalU(u)
		below := vertical > 0
		candidate := dmaxPoint{
			Intensity: x,
			Lactate:   p.evalU(u),
			Distance:  math.Abs(vertical),
		}

		switch {
		case !bestFound,
			below && !bestBelow,
			below == bestBelow && candidate.Distance > best.Distance:
			best, bestU, bestFound, bestBelow = candidate, u, true, below
		}
	}

	if !bestFound || best.Distance < degenerateEps {
		return dmaxPoint{}, ErrDegenerateFit
	}

	// slope in original units for the perpendicular distance
	mX := mU / p.Scale
	best.Distance = math.Abs(chord(bestU)-p.evalU(bestU)) / math.Sqrt(1+mX*mX)

	return best, nil
}

// quadraticRoots returns the real roots of a*u^2 + b*u + c.
func quadraticRoots(a, b, c float64) []float64 {
	if math.Abs(a) < degenerateEps {
		if math.Abs(b) < degenerateEps {
			return nil
		}
		return []float64{-c / b}
	}

	disc := b*b - 4*a*c
	if disc < 0 {
		// tangent within rounding error
		if disc > -degenerateEps*(b*b+math.Abs(4*a*c)) {
			disc = 0
		} else {
			return nil
		}
	}

	sq := math.Sqrt(disc)
	q := -0.5 * (b + math.Copysign(sq, b))
	if q == 0 {
		return []float64{0}
	}
	return []float64{q / a, c / q}
}
