package threshold

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

type Zone struct {
	Number       int      `json:"number"`
	Name         string   `json:"name"`
	MinIntensity float64  `json:"minIntensity"`
	MaxIntensity *float64 `json:"maxIntensity,omitempty"` // nil: open ended
	MinHeartRate *float64 `json:"minHeartRate,omitempty"`
	MaxHeartRate *float64 `json:"maxHeartRate,omitempty"`
	// paces in seconds per km, MinPace is the fast end
	MinPace *float64 `json:"minPace,omitempty"`
	MaxPace *float64 `json:"maxPace,omitempty"`
}

// zone bounds as fractions of LT1 / LT2
const (
	recoveryOfLT1       = 0.90
	tempoTopOfLT2       = 0.95
	thresholdTopOfLT2   = 1.02
	estimatedLT1OfLT2   = 0.85
	minHeartRateSamples = 2
)

// HeartRateModel is a linear model of heart rate over intensity.
type HeartRateModel struct {
	Intercept float64 `json:"intercept"`
	Slope     float64 `json:"slope"`
	RSquared  float64 `json:"rSquared"`
	Valid     bool    `json:"valid"`
}

// FitHeartRateModel regresses the recorded heart rates on intensity.
func FitHeartRateModel(stages []Stage) HeartRateModel {
	xs, hrs := heartRateSeries(stages)
	if len(xs) < minHeartRateSamples || stat.Variance(xs, nil) == 0 {
		return HeartRateModel{}
	}

	alpha, beta := stat.LinearRegression(xs, hrs, nil, false)
	if math.IsNaN(alpha) || math.IsNaN(beta) {
		return HeartRateModel{}
	}

	return HeartRateModel{
		Intercept: alpha,
		Slope:     beta,
		RSquared:  stat.RSquared(xs, hrs, nil, alpha, beta),
		Valid:     true,
	}
}

func (m HeartRateModel) At(intensity float64) *float64 {
	if !m.Valid {
		return nil
	}
	hr := math.Round(m.Intercept + m.Slope*intensity)
	if hr < 0 {
		hr = 0
	}
	return &hr
}

// Zones builds the five zone model from the aerobic (LT1) and anaerobic (LT2) thresholds.
func Zones(aerobic, anaerobic *Point, hr HeartRateModel, unit Unit) ([]Zone, []string) {
	if anaerobic == nil || anaerobic.Intensity <= 0 {
		return nil, []string{"anaerobic threshold missing, training zones not available"}
	}

	var warnings []string
	lt2 := anaerobic.Intensity
	var lt1 float64
	switch {
	case aerobic == nil:
		lt1 = estimatedLT1OfLT2 * lt2
		warnings = append(warnings, "aerobic threshold missing, estimated at 85% of the anaerobic threshold for zones")
	case aerobic.Intensity >= tempoTopOfLT2*lt2:
		lt1 = estimatedLT1OfLT2 * lt2
		warnings = append(warnings, "aerobic threshold not below the anaerobic threshold, estimated at 85% of it for zones")
	default:
		lt1 = aerobic.Intensity
	}

	bounds := []float64{
		0,
		round2(recoveryOfLT1 * lt1),
		round2(lt1),
		round2(tempoTopOfLT2 * lt2),
		round2(thresholdTopOfLT2 * lt2),
	}
	names := []string{"Recovery", "Endurance", "Tempo", "Threshold", "VO2max"}

	zones := make([]Zone, len(names))
	for i, name := range names {
		z := Zone{
			Number:       i + 1,
			Name:         name,
			MinIntensity: bounds[i],
		}
		if i+1 < len(bounds) {
			maxIntensity := bounds[i+1]
			z.MaxIntensity = &maxIntensity
			z.MaxHeartRate = hr.At(maxIntensity)
			z.MinPace = pacePtr(unit, maxIntensity)
		}
		if i > 0 {
			z.MinHeartRate = hr.At(bounds[i])
			z.MaxPace = pacePtr(unit, bounds[i])
		}
		zones[i] = z
	}

	return zones, warnings
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
