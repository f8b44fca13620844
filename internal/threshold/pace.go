package threshold

import "math"

// PaceFromSpeed converts km/h to seconds per km, 0 for non-positive speed.
func PaceFromSpeed(kmh float64) float64 {
	if kmh <= 0 || math.IsNaN(kmh) || math.IsInf(kmh, 0) {
		return 0
	}
	return 3600 / kmh
}

func pacePtr(unit Unit, intensity float64) *float64 {
	if !unit.IsSpeed() || intensity <= 0 {
		return nil
	}
	pace := math.Round(PaceFromSpeed(intensity)*10) / 10
	return &pace
}
