package strength

import (
	"errors"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"
)

var (
	ErrNotEnoughSamples   = errors.New("at least two load-velocity samples are required")
	ErrInvalidSample      = errors.New("load and velocity must be positive")
	ErrNoLoadSpan         = errors.New("samples need at least two different loads")
	ErrNonNegativeSlope   = errors.New("velocity does not decrease with load")
	ErrUnreachableMinimum = errors.New("minimum velocity threshold is above the fitted intercept")
)

type VelocityZone struct {
	Name string `json:"name"`
	// MinVelocity inclusive, MaxVelocity exclusive, m/s; zero MaxVelocity means open ended
	MinVelocity float64 `json:"minVelocity"`
	MaxVelocity float64 `json:"maxVelocity"`
	Focus       string  `json:"focus"`
}

var velocityZones = []VelocityZone{
	{Name: "absolute strength", MinVelocity: 0, MaxVelocity: 0.50, Focus: "maximal loads, 85-100% 1RM"},
	{Name: "accelerative strength", MinVelocity: 0.50, MaxVelocity: 0.75, Focus: "heavy loads moved fast, 70-85% 1RM"},
	{Name: "strength-speed", MinVelocity: 0.75, MaxVelocity: 1.00, Focus: "moderate loads, 55-70% 1RM"},
	{Name: "speed-strength", MinVelocity: 1.00, MaxVelocity: 1.30, Focus: "light loads, 40-55% 1RM"},
	{Name: "starting strength", MinVelocity: 1.30, Focus: "very light loads, below 40% 1RM"},
}

// VelocityZones returns the zone table, slowest first.
func VelocityZones() []VelocityZone {
	zones := make([]VelocityZone, len(velocityZones))
	copy(zones, velocityZones)
	return zones
}

// ClassifyVelocity maps a mean concentric velocity to its training zone.
// The zero zone is returned for a non-positive or non-finite velocity.
func ClassifyVelocity(mps float64) VelocityZone {
	if !positive(mps) {
		return VelocityZone{}
	}
	for _, zone := range velocityZones {
		if zone.MaxVelocity == 0 || mps < zone.MaxVelocity {
			return zone
		}
	}
	return velocityZones[len(velocityZones)-1]
}

// minimum velocity thresholds in m/s
var minimumVelocityThresholds = map[string]float64{
	"squat":    0.30,
	"bench":    0.17,
	"deadlift": 0.15,
}

const defaultMinimumVelocityThreshold = 0.30

// MinimumVelocityThreshold returns the velocity at 1RM for a lift, 0.30 m/s when unknown.
func MinimumVelocityThreshold(lift string) float64 {
	lift = strings.ToLower(strings.TrimSpace(lift))
	lift = strings.TrimSuffix(lift, " press")
	if mvt, ok := minimumVelocityThresholds[lift]; ok {
		return mvt
	}
	return defaultMinimumVelocityThreshold
}

type LoadVelocitySample struct {
	Load     float64 `json:"load" validate:"gt=0"`
	Velocity float64 `json:"velocity" validate:"gt=0"`
}

type VelocityProfile struct {
	Intercept          float64 `json:"intercept"`
	Slope              float64 `json:"slope"`
	RSquared           float64 `json:"rSquared"`
	MVT                float64 `json:"mvt"`
	EstimatedOneRepMax float64 `json:"estimatedOneRepMax"`
	// load at which the fitted velocity reaches zero
	LoadAtZeroVelocity float64 `json:"loadAtZeroVelocity"`
}

// LoadVelocityProfile regresses velocity on load and reads the 1RM off the line at the
// minimum velocity threshold. A non-positive mvt falls back to the default threshold.
func LoadVelocityProfile(samples []LoadVelocitySample, mvt float64) (VelocityProfile, error) {
	if len(samples) < 2 {
		return VelocityProfile{}, ErrNotEnoughSamples
	}
	if !positive(mvt) {
		mvt = defaultMinimumVelocityThreshold
	}

	loads := make([]float64, len(samples))
	velocities := make([]float64, len(samples))
	for i, s := range samples {
		if !positive(s.Load) || !positive(s.Velocity) {
			return VelocityProfile{}, ErrInvalidSample
		}
		loads[i] = s.Load
		velocities[i] = s.Velocity
	}
	if stat.Variance(loads, nil) == 0 {
		return VelocityProfile{}, ErrNoLoadSpan
	}

	intercept, slope := stat.LinearRegression(loads, velocities, nil, false)
	if slope >= 0 {
		return VelocityProfile{}, ErrNonNegativeSlope
	}
	if mvt >= intercept {
		return VelocityProfile{}, ErrUnreachableMinimum
	}

	r2 := stat.RSquared(loads, velocities, nil, intercept, slope)
	if math.IsNaN(r2) {
		r2 = 0
	}

	return VelocityProfile{
		Intercept:          math.Round(intercept*10000) / 10000,
		Slope:              math.Round(slope*100000) / 100000,
		RSquared:           math.Round(r2*10000) / 10000,
		MVT:                mvt,
		EstimatedOneRepMax: round2((mvt - intercept) / slope),
		LoadAtZeroVelocity: round2(-intercept / slope),
	}, nil
}
