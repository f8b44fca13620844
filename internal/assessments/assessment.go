package assessments

import (
	"errors"
	"strings"
	"time"

	"github.com/2beens/coachlab/internal/threshold"
)

var (
	ErrAssessmentNotFound = errors.New("assessment not found")
	ErrUnknownClient      = errors.New("client does not exist in this business")
	ErrUnsupportedType    = errors.New("analysis not supported for this assessment type")
)

type Type string

const (
	TypeLactate  Type = "lactate"
	TypeVO2max   Type = "vo2max"
	TypeStrength Type = "strength"
	TypeHyrox    Type = "hyrox"
)

// Analyzable reports whether the threshold estimator applies to the type.
func (t Type) Analyzable() bool {
	return t == TypeLactate || t == TypeVO2max
}

func ParseType(s string) (Type, bool) {
	switch t := Type(strings.ToLower(strings.TrimSpace(s))); t {
	case TypeLactate, TypeVO2max, TypeStrength, TypeHyrox:
		return t, true
	default:
		return "", false
	}
}

type Stage struct {
	Seq       int      `json:"seq"`
	Intensity float64  `json:"intensity" validate:"gt=0"`
	HeartRate *float64 `json:"heartRate,omitempty" validate:"omitempty,gt=0,lt=260"`
	Lactate   *float64 `json:"lactate,omitempty" validate:"omitempty,gte=0,lt=40"`
	// ml/kg/min
	VO2 *float64 `json:"vo2,omitempty" validate:"omitempty,gt=0,lt=100"`
	// Borg CR10 scale
	RPE *float64 `json:"rpe,omitempty" validate:"omitempty,gte=0,lte=10"`
}

type Assessment struct {
	ID          int       `json:"id"`
	BusinessID  int       `json:"businessId"`
	ClientID    int       `json:"clientId" validate:"gt=0"`
	Type        Type      `json:"type" validate:"required,oneof=lactate vo2max strength hyrox"`
	Unit        string    `json:"unit,omitempty" validate:"omitempty,oneof=km/h W"`
	PerformedAt time.Time `json:"performedAt" validate:"required"`
	Notes       string    `json:"notes,omitempty" validate:"max=5000"`
	Stages      []Stage   `json:"stages" validate:"max=60,dive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// normalize renumbers the stages in the given order and defaults the unit for analyzable types.
func (a *Assessment) normalize() {
	a.Type = Type(strings.ToLower(strings.TrimSpace(string(a.Type))))
	a.Unit = strings.TrimSpace(a.Unit)
	if a.Unit == "" && a.Type.Analyzable() {
		a.Unit = string(threshold.UnitKmh)
	}
	if a.Stages == nil {
		a.Stages = []Stage{}
	}
	for i := range a.Stages {
		a.Stages[i].Seq = i + 1
	}
}

func (a *Assessment) ThresholdUnit() threshold.Unit {
	if unit, ok := threshold.ParseUnit(a.Unit); ok {
		return unit
	}
	return threshold.UnitKmh
}

// ThresholdStages returns the stages with a lactate sample, as estimator input.
func ThresholdStages(stages []Stage) []threshold.Stage {
	out := make([]threshold.Stage, 0, len(stages))
	for _, s := range stages {
		if s.Lactate == nil {
			continue
		}
		ts := threshold.Stage{Intensity: s.Intensity, Lactate: *s.Lactate}
		if s.HeartRate != nil {
			ts.HeartRate = *s.HeartRate
		}
		out = append(out, ts)
	}
	return out
}

// peakVO2 is the highest recorded VO2, nil when none was recorded.
func peakVO2(stages []Stage) *float64 {
	var peak *float64
	for _, s := range stages {
		if s.VO2 != nil && (peak == nil || *s.VO2 > *peak) {
			v := *s.VO2
			peak = &v
		}
	}
	return peak
}

type ListParams struct {
	BusinessID int
	ClientID   *int
	Type       *Type
}

type Analysis struct {
	AssessmentID int              `json:"assessmentId,omitempty"`
	ClientID     int              `json:"clientId,omitempty"`
	Type         Type             `json:"type"`
	Unit         threshold.Unit   `json:"unit"`
	VO2Peak      *float64         `json:"vo2Peak,omitempty"`
	Result       threshold.Result `json:"result"`
}

type PreviewRequest struct {
	Type    Type               `json:"type" validate:"omitempty,oneof=lactate vo2max strength hyrox"`
	Unit    string             `json:"unit,omitempty" validate:"omitempty,oneof=km/h W"`
	Stages  []Stage            `json:"stages" validate:"required,max=60,dive"`
	Options *threshold.Options `json:"options,omitempty"`
}
