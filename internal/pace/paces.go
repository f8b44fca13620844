package pace

import (
	"fmt"
	"math"
)

// fractions of VDOT for the training intensities
const (
	easySlowFraction   = 0.59
	easyFastFraction   = 0.74
	marathonFraction   = 0.80
	thresholdFraction  = 0.88
	intervalFraction   = 0.975
	repetitionFraction = 1.05
)

type Pace struct {
	SecondsPerKm   float64 `json:"secondsPerKm"`
	SecondsPer400m float64 `json:"secondsPer400m"`
	SecondsPerMile float64 `json:"secondsPerMile"`
}

type Paces struct {
	VDOT       float64 `json:"vdot"`
	EasySlow   Pace    `json:"easySlow"`
	EasyFast   Pace    `json:"easyFast"`
	Marathon   Pace    `json:"marathon"`
	Threshold  Pace    `json:"threshold"`
	Interval   Pace    `json:"interval"`
	Repetition Pace    `json:"repetition"`
}

// TrainingPaces returns the E/M/T/I/R paces for a VDOT, zero Paces for a non-positive VDOT.
func TrainingPaces(vdot float64) Paces {
	if !positiveFinite(vdot) {
		return Paces{}
	}
	return Paces{
		VDOT:       vdot,
		EasySlow:   paceAt(easySlowFraction * vdot),
		EasyFast:   paceAt(easyFastFraction * vdot),
		Marathon:   paceAt(marathonFraction * vdot),
		Threshold:  paceAt(thresholdFraction * vdot),
		Interval:   paceAt(intervalFraction * vdot),
		Repetition: paceAt(repetitionFraction * vdot),
	}
}

func paceAt(vo2 float64) Pace {
	v := velocityAt(vo2)
	if v <= 0 {
		return Pace{}
	}
	secsPerMeter := 60 / v
	return Pace{
		SecondsPerKm:   round1(secsPerMeter * 1000),
		SecondsPer400m: round1(secsPerMeter * Distance400m),
		SecondsPerMile: round1(secsPerMeter * Distance1Mile),
	}
}

type PaceRow struct {
	Name    string `json:"name"`
	PerKm   string `json:"perKm"`
	Per400m string `json:"per400m"`
	PerMile string `json:"perMile"`
}

// Table is the printable pace table, easy shown as a slow-fast range.
func (p Paces) Table() []PaceRow {
	row := func(name string, pace Pace) PaceRow {
		return PaceRow{
			Name:    name,
			PerKm:   FormatDuration(pace.SecondsPerKm),
			Per400m: FormatDuration(pace.SecondsPer400m),
			PerMile: FormatDuration(pace.SecondsPerMile),
		}
	}

	easy := row("Easy", p.EasySlow)
	easyFast := row("Easy", p.EasyFast)
	easy.PerKm = easyFast.PerKm + "-" + easy.PerKm
	easy.Per400m = easyFast.Per400m + "-" + easy.Per400m
	easy.PerMile = easyFast.PerMile + "-" + easy.PerMile

	return []PaceRow{
		easy,
		row("Marathon", p.Marathon),
		row("Threshold", p.Threshold),
		row("Interval", p.Interval),
		row("Repetition", p.Repetition),
	}
}

// FormatDuration formats seconds as m:ss, or h:mm:ss from an hour on.
func FormatDuration(seconds float64) string {
	total := int(math.Round(seconds))
	if total < 0 {
		total = 0
	}
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
