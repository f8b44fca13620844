// Package threshold estimates lactate thresholds and training zones from incremental
// exercise test data.
package threshold

type Stage struct {
	Intensity float64 `json:"intensity"`
	// HeartRate 0 means not recorded
	HeartRate float64 `json:"heartRate,omitempty"`
	Lactate   float64 `json:"lactate"`
}

type Unit string

const (
	UnitKmh   Unit = "km/h"
	UnitWatts Unit = "W"
)

func (u Unit) IsSpeed() bool {
	return u == UnitKmh
}

func ParseUnit(s string) (Unit, bool) {
	switch Unit(s) {
	case UnitKmh, UnitWatts:
		return Unit(s), true
	default:
		return "", false
	}
}

type Confidence string

const (
	ConfidenceLow    Confidence = "LOW"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceHigh   Confidence = "HIGH"
)

type Method string

const (
	MethodDmax          Method = "DMAX"
	MethodInterpolation Method = "INTERPOLATION"
)

type Point struct {
	Intensity    float64  `json:"intensity"`
	Lactate      float64  `json:"lactate"`
	HeartRate    float64  `json:"heartRate,omitempty"`
	PaceSecPerKm *float64 `json:"paceSecPerKm,omitempty"`
}

type Options struct {
	// fixed concentrations in mmol/L
	AerobicConcentration float64 `json:"aerobicConcentration"`
	OBLAConcentration    float64 `json:"oblaConcentration"`
	Degree               int     `json:"degree"`
	MinStages            int     `json:"minStages"`
	MinLactateRange      float64 `json:"minLactateRange"`
	Unit                 Unit    `json:"unit"`
}

func DefaultOptions() Options {
	return Options{
		AerobicConcentration: 2.0,
		OBLAConcentration:    4.0,
		Degree:               3,
		MinStages:            4,
		MinLactateRange:      1.5,
		Unit:                 UnitKmh,
	}
}

// normalized fills zero values with the defaults and keeps the fit solvable.
func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.AerobicConcentration <= 0 {
		o.AerobicConcentration = d.AerobicConcentration
	}
	if o.OBLAConcentration <= 0 {
		o.OBLAConcentration = d.OBLAConcentration
	}
	if o.Degree < 2 || o.Degree > 3 {
		o.Degree = d.Degree
	}
	if o.MinStages < o.Degree+1 {
		o.MinStages = max(d.MinStages, o.Degree+1)
	}
	if o.MinLactateRange <= 0 {
		o.MinLactateRange = d.MinLactateRange
	}
	if _, ok := ParseUnit(string(o.Unit)); !ok {
		o.Unit = d.Unit
	}
	return o
}

type Result struct {
	Method             Method      `json:"method"`
	Confidence         Confidence  `json:"confidence"`
	RSquared           float64     `json:"rSquared"`
	Fit                *Polynomial `json:"fit,omitempty"`
	AerobicThreshold   *Point      `json:"aerobicThreshold,omitempty"`
	AnaerobicThreshold *Point      `json:"anaerobicThreshold,omitempty"`
	OBLA               *Point      `json:"obla,omitempty"`
	DmaxDistance       float64     `json:"dmaxDistance"`
	Zones              []Zone      `json:"zones"`
	Warnings           []string    `json:"warnings"`
}
