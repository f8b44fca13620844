// Package calculators exposes the stateless sport science calculations. The same entry points back
// the HTTP endpoints and the MCP tools.
package calculators

import (
	"errors"
	"fmt"

	"github.com/2beens/coachlab/internal/hyrox"
	"github.com/2beens/coachlab/internal/pace"
	"github.com/2beens/coachlab/internal/strength"
	"github.com/2beens/coachlab/internal/threshold"
	"github.com/2beens/coachlab/pkg"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotComputable is returned for valid input the model cannot produce an answer for.
	ErrNotComputable = errors.New("not computable")
)

type VDOTRequest struct {
	DistanceMeters  float64 `json:"distanceMeters" validate:"gte=400,lte=100000"`
	DurationSeconds float64 `json:"durationSeconds" validate:"gt=0,lte=86400"`
}

type VDOTResponse struct {
	VDOT        float64               `json:"vdot"`
	Label       string                `json:"label"`
	Paces       pace.Paces            `json:"paces"`
	PaceTable   []pace.PaceRow        `json:"paceTable"`
	Predictions []pace.RacePrediction `json:"predictions"`
}

func VDOT(req VDOTRequest) (VDOTResponse, error) {
	if err := pkg.ValidateStruct(req); err != nil {
		return VDOTResponse{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	vdot := pace.VDOT(req.DistanceMeters, req.DurationSeconds)
	if vdot <= 0 {
		return VDOTResponse{}, fmt.Errorf("%w: no vdot for %.0f m in %.0f s", ErrNotComputable, req.DistanceMeters, req.DurationSeconds)
	}

	paces := pace.TrainingPaces(vdot)
	return VDOTResponse{
		VDOT:        vdot,
		Label:       pace.Label(vdot),
		Paces:       paces,
		PaceTable:   paces.Table(),
		Predictions: pace.Predictions(vdot),
	}, nil
}

type OneRepMaxRequest struct {
	Weight float64 `json:"weight" validate:"gt=0,lte=1000"`
	Reps   int     `json:"reps" validate:"gt=0,lte=50"`
	// epley, brzycki or average (default)
	Method string `json:"method,omitempty"`
	// plate increment in kg, 0.5 when empty
	Increment float64 `json:"increment,omitempty" validate:"gte=0,lte=25"`
	// KnownOneRepMax, when set, is used for the RPE estimate of the set
	KnownOneRepMax *float64 `json:"knownOneRepMax,omitempty" validate:"omitempty,gt=0,lte=1000"`
}

type OneRepMaxResponse struct {
	Method    strength.Method          `json:"method"`
	OneRepMax float64                  `json:"oneRepMax"`
	Epley     float64                  `json:"epley"`
	Brzycki   float64                  `json:"brzycki"`
	RPE       *float64                 `json:"rpe,omitempty"`
	Table     []strength.PercentageRow `json:"table"`
}

func OneRepMax(req OneRepMaxRequest) (OneRepMaxResponse, error) {
	if err := pkg.ValidateStruct(req); err != nil {
		return OneRepMaxResponse{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	method, err := strength.ParseMethod(req.Method)
	if err != nil {
		return OneRepMaxResponse{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	oneRM := strength.OneRepMax(req.Weight, req.Reps, method)
	resp := OneRepMaxResponse{
		Method:    method,
		OneRepMax: oneRM,
		Epley:     strength.OneRepMax(req.Weight, req.Reps, strength.MethodEpley),
		Brzycki:   strength.OneRepMax(req.Weight, req.Reps, strength.MethodBrzycki),
		Table:     strength.PercentageTable(oneRM, req.Increment),
	}
	if req.KnownOneRepMax != nil {
		rpe := strength.EstimateRPE(req.Weight, *req.KnownOneRepMax, req.Reps)
		resp.RPE = &rpe
	}
	return resp, nil
}

type VelocityZonesRequest struct {
	// mean concentric velocity, m/s
	Velocity float64 `json:"velocity" validate:"gt=0,lte=5"`
	Lift     string  `json:"lift,omitempty" validate:"max=50"`
}

type VelocityZonesResponse struct {
	Zone  strength.VelocityZone   `json:"zone"`
	Zones []strength.VelocityZone `json:"zones"`
	// minimum velocity threshold of the lift, m/s
	MVT float64 `json:"mvt"`
}

func VelocityZones(req VelocityZonesRequest) (VelocityZonesResponse, error) {
	if err := pkg.ValidateStruct(req); err != nil {
		return VelocityZonesResponse{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return VelocityZonesResponse{
		Zone:  strength.ClassifyVelocity(req.Velocity),
		Zones: strength.VelocityZones(),
		MVT:   strength.MinimumVelocityThreshold(req.Lift),
	}, nil
}

type LoadVelocityRequest struct {
	Samples []strength.LoadVelocitySample `json:"samples" validate:"min=2,max=50,dive"`
	Lift    string                        `json:"lift,omitempty" validate:"max=50"`
	// overrides the lift's minimum velocity threshold
	MVT *float64 `json:"mvt,omitempty" validate:"omitempty,gt=0,lt=2"`
}

type LoadVelocityResponse struct {
	Lift    string                   `json:"lift,omitempty"`
	Profile strength.VelocityProfile `json:"profile"`
}

func LoadVelocity(req LoadVelocityRequest) (LoadVelocityResponse, error) {
	if err := pkg.ValidateStruct(req); err != nil {
		return LoadVelocityResponse{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	mvt := strength.MinimumVelocityThreshold(req.Lift)
	if req.MVT != nil {
		mvt = *req.MVT
	}

	profile, err := strength.LoadVelocityProfile(req.Samples, mvt)
	switch {
	case errors.Is(err, strength.ErrNotEnoughSamples), errors.Is(err, strength.ErrInvalidSample):
		return LoadVelocityResponse{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	case err != nil:
		return LoadVelocityResponse{}, fmt.Errorf("%w: %w", ErrNotComputable, err)
	}
	return LoadVelocityResponse{Lift: req.Lift, Profile: profile}, nil
}

type HyroxRequest struct {
	Division string       `json:"division,omitempty"`
	Splits   hyrox.Splits `json:"splits"`
}

func Hyrox(req HyroxRequest) (hyrox.Analysis, error) {
	division, err := hyrox.ParseDivision(req.Division)
	if err != nil {
		return hyrox.Analysis{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	analysis, err := hyrox.Analyze(req.Splits, division)
	if err != nil {
		return hyrox.Analysis{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return analysis, nil
}

type ThresholdsRequest struct {
	// km/h (default) or W
	Unit    string             `json:"unit,omitempty"`
	Stages  []threshold.Stage  `json:"stages" validate:"min=1,max=60"`
	Options *threshold.Options `json:"options,omitempty"`
}

// Thresholds runs the estimator on raw stages. Degraded input still yields a result with warnings.
func Thresholds(req ThresholdsRequest) (threshold.Result, error) {
	if err := pkg.ValidateStruct(req); err != nil {
		return threshold.Result{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	unit := threshold.UnitKmh
	if req.Unit != "" {
		u, ok := threshold.ParseUnit(req.Unit)
		if !ok {
			return threshold.Result{}, fmt.Errorf("%w: unknown unit %q", ErrInvalidInput, req.Unit)
		}
		unit = u
	}

	opts := threshold.DefaultOptions()
	if req.Options != nil {
		opts = *req.Options
	}
	opts.Unit = unit
	return threshold.Estimate(req.Stages, opts), nil
}
