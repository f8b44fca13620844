package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2beens/coachlab/internal/calculators"
	"github.com/2beens/coachlab/internal/threshold"
	"github.com/2beens/coachlab/pkg"
)

// Handler adapts tool calls to the calculators and the tool service and formats MCP results.
type Handler struct {
	service toolService
}

func NewHandler(service toolService) *Handler {
	return &Handler{
		service: service,
	}
}

type StageInput struct {
	Intensity float64 `json:"intensity" jsonschema:"Stage intensity: speed in km/h or power in W"`
	Lactate   float64 `json:"lactate" jsonschema:"Blood lactate at the end of the stage in mmol/L"`
	HeartRate float64 `json:"heart_rate,omitempty" jsonschema:"Heart rate at the end of the stage (bpm)"`
}

// EstimateThresholdsInput is the input for estimate_thresholds.
type EstimateThresholdsInput struct {
	Unit                 string       `json:"unit,omitempty" jsonschema:"Intensity unit: km/h (default) or W"`
	Stages               []StageInput `json:"stages" jsonschema:"Test stages in the order they were performed"`
	AerobicConcentration float64      `json:"aerobic_concentration,omitempty" jsonschema:"Fixed lactate concentration for LT1 (default 2.0)"`
	OBLAConcentration    float64      `json:"obla_concentration,omitempty" jsonschema:"Fixed lactate concentration for OBLA (default 4.0)"`
}

// EstimateThresholdsTool returns the MCP tool handler for estimate_thresholds.
func (h *Handler) EstimateThresholdsTool() func(context.Context, *mcp.CallToolRequest, EstimateThresholdsInput) (*mcp.CallToolResult, any, error) {
	return func(_ context.Context, _ *mcp.CallToolRequest, in EstimateThresholdsInput) (*mcp.CallToolResult, any, error) {
		req := calculators.ThresholdsRequest{
			Unit:   in.Unit,
			Stages: make([]threshold.Stage, 0, len(in.Stages)),
		}
		for _, s := range in.Stages {
			req.Stages = append(req.Stages, threshold.Stage{
				Intensity: s.Intensity,
				Lactate:   s.Lactate,
				HeartRate: s.HeartRate,
			})
		}
		if in.AerobicConcentration > 0 || in.OBLAConcentration > 0 {
			opts := threshold.DefaultOptions()
			if in.AerobicConcentration > 0 {
				opts.AerobicConcentration = in.AerobicConcentration
			}
			if in.OBLAConcentration > 0 {
				opts.OBLAConcentration = in.OBLAConcentration
			}
			req.Options = &opts
		}

		result, err := calculators.Thresholds(req)
		if err != nil {
			return errorResult("Invalid input", err), nil, nil
		}
		return jsonResult(result), nil, nil
	}
}

// VDOTInput is the input for vdot_training_paces.
type VDOTInput struct {
	DistanceMeters  float64 `json:"distance_meters" jsonschema:"Race distance in meters (e.g. 5000)"`
	DurationSeconds float64 `json:"duration_seconds,omitempty" jsonschema:"Race time in seconds, alternative to time"`
	Time            string  `json:"time,omitempty" jsonschema:"Race time as mm:ss or h:mm:ss (e.g. 19:57)"`
}

// VDOTTrainingPacesTool returns the MCP tool handler for vdot_training_paces.
func (h *Handler) VDOTTrainingPacesTool() func(context.Context, *mcp.CallToolRequest, VDOTInput) (*mcp.CallToolResult, any, error) {
	return func(_ context.Context, _ *mcp.CallToolRequest, in VDOTInput) (*mcp.CallToolResult, any, error) {
		seconds := in.DurationSeconds
		if in.Time != "" {
			parsed, err := parseRaceTime(in.Time)
			if err != nil {
				return errorResult("Invalid time", err), nil, nil
			}
			seconds = parsed
		}

		resp, err := calculators.VDOT(calculators.VDOTRequest{
			DistanceMeters:  in.DistanceMeters,
			DurationSeconds: seconds,
		})
		if err != nil {
			return errorResult("Invalid input", err), nil, nil
		}
		return jsonResult(resp), nil, nil
	}
}

// OneRepMaxInput is the input for estimate_one_rep_max.
type OneRepMaxInput struct {
	Weight    float64 `json:"weight" jsonschema:"Weight lifted in kg"`
	Reps      int     `json:"reps" jsonschema:"Repetitions performed to failure"`
	Method    string  `json:"method,omitempty" jsonschema:"Formula: epley, brzycki or average (default)"`
	Increment float64 `json:"increment,omitempty" jsonschema:"Plate increment in kg for the percentage table (default 0.5)"`
}

// EstimateOneRepMaxTool returns the MCP tool handler for estimate_one_rep_max.
func (h *Handler) EstimateOneRepMaxTool() func(context.Context, *mcp.CallToolRequest, OneRepMaxInput) (*mcp.CallToolResult, any, error) {
	return func(_ context.Context, _ *mcp.CallToolRequest, in OneRepMaxInput) (*mcp.CallToolResult, any, error) {
		resp, err := calculators.OneRepMax(calculators.OneRepMaxRequest{
			Weight:    in.Weight,
			Reps:      in.Reps,
			Method:    in.Method,
			Increment: in.Increment,
		})
		if err != nil {
			return errorResult("Invalid input", err), nil, nil
		}
		return jsonResult(resp), nil, nil
	}
}

// ClassifyVelocityInput is the input for classify_velocity.
type ClassifyVelocityInput struct {
	Velocity float64 `json:"velocity" jsonschema:"Mean concentric velocity in m/s"`
	Lift     string  `json:"lift,omitempty" jsonschema:"Lift name (squat, bench, deadlift) for the minimum velocity threshold"`
}

// ClassifyVelocityTool returns the MCP tool handler for classify_velocity.
func (h *Handler) ClassifyVelocityTool() func(context.Context, *mcp.CallToolRequest, ClassifyVelocityInput) (*mcp.CallToolResult, any, error) {
	return func(_ context.Context, _ *mcp.CallToolRequest, in ClassifyVelocityInput) (*mcp.CallToolResult, any, error) {
		resp, err := calculators.VelocityZones(calculators.VelocityZonesRequest{
			Velocity: in.Velocity,
			Lift:     in.Lift,
		})
		if err != nil {
			return errorResult("Invalid input", err), nil, nil
		}
		return jsonResult(resp), nil, nil
	}
}

// AnalyzeAssessmentInput is the input for analyze_assessment.
type AnalyzeAssessmentInput struct {
	Business     string `json:"business" jsonschema:"Business slug (e.g. peak-lab)"`
	AssessmentID int    `json:"assessment_id" jsonschema:"Assessment id"`
}

// AnalyzeAssessmentTool returns the MCP tool handler for analyze_assessment.
func (h *Handler) AnalyzeAssessmentTool() func(context.Context, *mcp.CallToolRequest, AnalyzeAssessmentInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in AnalyzeAssessmentInput) (*mcp.CallToolResult, any, error) {
		if strings.TrimSpace(in.Business) == "" || in.AssessmentID < 1 {
			return errorResult("Invalid input", errors.New("business and assessment_id are required")), nil, nil
		}

		analysis, err := h.service.AnalyzeAssessment(ctx, in.Business, in.AssessmentID)
		if err != nil {
			return errorResult("Error analyzing assessment", err), nil, nil
		}
		return jsonResult(analysis), nil, nil
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}
}

func errorResult(prefix string, err error) *mcp.CallToolResult {
	text := err.Error()
	if msgs := pkg.ValidationMessages(err); errors.Is(err, pkg.ErrValidation) && len(msgs) > 0 {
		text = strings.Join(msgs, "; ")
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: prefix + ": " + text}},
		IsError: true,
	}
}

// parseRaceTime reads mm:ss or h:mm:ss.
func parseRaceTime(s string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("%q: use mm:ss or h:mm:ss", s)
	}

	total := 0.0
	for i, part := range parts {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("%q: use mm:ss or h:mm:ss", s)
		}
		if i > 0 && v >= 60 {
			return 0, fmt.Errorf("%q: minutes and seconds must be below 60", s)
		}
		total = total*60 + v
	}
	return total, nil
}
