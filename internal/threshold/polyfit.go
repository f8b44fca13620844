package threshold

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrNotEnoughPoints = errors.New("not enough points for the polynomial degree")
	ErrNoIntensitySpan = errors.New("intensities do not span a range")
)

// Polynomial is evaluated in u = (x - Shift) / Scale, Coefficients in ascending powers of u.
type Polynomial struct {
	Coefficients []float64 `json:"coefficients"`
	Shift        float64   `json:"shift"`
	Scale        float64   `json:"scale"`
}

func (p Polynomial) normalize(x float64) float64 {
	return (x - p.Shift) / p.Scale
}

func (p Polynomial) denormalize(u float64) float64 {
	return p.Shift + p.Scale*u
}

// Eval returns the polynomial value at x (original units).
func (p Polynomial) Eval(x float64) float64 {
	return p.evalU(p.normalize(x))
}

func (p Polynomial) evalU(u float64) float64 {
	var y float64
	for i := len(p.Coefficients) - 1; i >= 0; i-- {
		y = y*u + p.Coefficients[i]
	}
	return y
}

// coefficient returns the coefficient of u^i, 0 above the degree.
func (p Polynomial) coefficient(i int) float64 {
	if i < len(p.Coefficients) {
		return p.Coefficients[i]
	}
	return 0
}

// FitPolynomial fits y = sum(c_i * u^i) by least squares (QR), with x normalised to [-1, 1].
func FitPolynomial(xs, ys []float64, degree int) (*Polynomial, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("x/y length mismatch: %d != %d", len(xs), len(ys))
	}
	if degree < 1 {
		return nil, fmt.Errorf("invalid degree: %d", degree)
	}
	if len(xs) < degree+1 {
		return nil, ErrNotEnoughPoints
	}

	minX, maxX := xs[0], xs[0]
	for _, x := range xs {
		minX = math.Min(minX, x)
		maxX = math.Max(maxX, x)
	}
	if maxX-minX <= 0 {
		return nil, ErrNoIntensitySpan
	}

	p := &Polynomial{
		Shift: (maxX + minX) / 2,
		Scale: (maxX - minX) / 2,
	}

	cols := degree + 1
	a := mat.NewDense(len(xs), cols, nil)
	for i, x := range xs {
		u := p.normalize(x)
		v := 1.0
		for j := 0; j < cols; j++ {
			a.Set(i, j, v)
			v *= u
		}
	}
	b := mat.NewVecDense(len(ys), append([]float64(nil), ys...))

	var c mat.VecDense
	if err := c.SolveVec(a, b); err != nil {
		return nil, fmt.Errorf("least squares solve: %w", err)
	}

	p.Coefficients = make([]float64, cols)
	for j := range p.Coefficients {
		p.Coefficients[j] = c.AtVec(j)
	}
	for _, v := range p.Coefficients {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.New("least squares solve: non-finite coefficients")
		}
	}

	return p, nil
}

// RSquared of the polynomial over the points. A flat series has nothing to explain and yields 0.
func (p Polynomial) RSquared(xs, ys []float64) float64 {
	if len(ys) < 2 || stat.Variance(ys, nil) == 0 {
		return 0
	}

	estimates := make([]float64, len(xs))
	for i, x := range xs {
		estimates[i] = p.Eval(x)
	}

	r2 := stat.RSquaredFrom(estimates, ys, nil)
	if math.IsNaN(r2) || math.IsInf(r2, 0) {
		return 0
	}
	return math.Max(0, r2)
}
