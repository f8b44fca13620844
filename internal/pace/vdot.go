// Package pace derives VDOT from race results, predicts race times and builds training pace tables.
package pace

import (
	"math"
)

// Standard distances in meters
const (
	Distance400m     = 400.0
	Distance1Mile    = 1609.344
	Distance5K       = 5000.0
	Distance10K      = 10000.0
	DistanceHalfMara = 21097.5
	DistanceMarathon = 42195.0
)

// oxygenCost is the VO2 (ml/kg/min) needed to run at v meters per minute.
func oxygenCost(v float64) float64 {
	return -4.60 + 0.182258*v + 0.000104*v*v
}

// fractionOfMax is the fraction of VO2max sustainable for t minutes.
func fractionOfMax(t float64) float64 {
	return 0.8 + 0.1894393*math.Exp(-0.012778*t) + 0.2989558*math.Exp(-0.1932605*t)
}

// velocityAt inverts oxygenCost, meters per minute.
func velocityAt(vo2 float64) float64 {
	const a, b = 0.000104, 0.182258
	c := -4.60 - vo2
	disc := b*b - 4*a*c
	if disc < 0 {
		return 0
	}
	return (-b + math.Sqrt(disc)) / (2 * a)
}

func vdotExact(distanceMeters, durationSeconds float64) float64 {
	t := durationSeconds / 60
	return oxygenCost(distanceMeters/t) / fractionOfMax(t)
}

// VDOT derives VDOT from a race result, rounded to 0.1. Invalid input yields 0.
func VDOT(distanceMeters, durationSeconds float64) float64 {
	if !positiveFinite(distanceMeters) || !positiveFinite(durationSeconds) {
		return 0
	}

	v := vdotExact(distanceMeters, durationSeconds)
	if !positiveFinite(v) {
		return 0
	}
	return math.Round(v*10) / 10
}

// PredictRaceTime returns the equivalent race time in seconds for the distance, 0 for invalid input.
func PredictRaceTime(vdot, distanceMeters float64) float64 {
	if !positiveFinite(vdot) || !positiveFinite(distanceMeters) {
		return 0
	}

	// the sustainable fraction of VO2max lies within (0.8, 1.29)
	fast := distanceMeters / velocityAt(1.3*vdot) * 60
	slow := distanceMeters / velocityAt(0.8*vdot) * 60
	for i := 0; i < 100 && slow-fast > 1e-3; i++ {
		mid := (fast + slow) / 2
		if vdotExact(distanceMeters, mid) > vdot {
			fast = mid
		} else {
			slow = mid
		}
	}

	return math.Round((fast + slow) / 2)
}

// Label returns a human-readable fitness level for a VDOT value.
func Label(vdot float64) string {
	switch {
	case vdot >= 75:
		return "Elite"
	case vdot >= 65:
		return "Highly Competitive"
	case vdot >= 55:
		return "Competitive"
	case vdot >= 45:
		return "Advanced Recreational"
	case vdot >= 38:
		return "Intermediate"
	case vdot >= 30:
		return "Beginner"
	default:
		return "Novice"
	}
}

type RacePrediction struct {
	Name             string  `json:"name"`
	DistanceMeters   float64 `json:"distanceMeters"`
	PredictedSeconds float64 `json:"predictedSeconds"`
	Formatted        string  `json:"formatted"`
	PaceSecPerKm     float64 `json:"paceSecPerKm"`
}

var predictionTargets = []struct {
	name     string
	distance float64
}{
	{"1 mile", Distance1Mile},
	{"5k", Distance5K},
	{"10k", Distance10K},
	{"half", DistanceHalfMara},
	{"marathon", DistanceMarathon},
}

// Predictions returns equivalent times for the standard race distances.
func Predictions(vdot float64) []RacePrediction {
	predictions := make([]RacePrediction, 0, len(predictionTargets))
	for _, target := range predictionTargets {
		secs := PredictRaceTime(vdot, target.distance)
		if secs == 0 {
			continue
		}
		predictions = append(predictions, RacePrediction{
			Name:             target.name,
			DistanceMeters:   target.distance,
			PredictedSeconds: secs,
			Formatted:        FormatDuration(secs),
			PaceSecPerKm:     math.Round(secs/target.distance*1000*10) / 10,
		})
	}
	return predictions
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
