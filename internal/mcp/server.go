package mcp

import (
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds the MCP server with the coachlab tools: estimate_thresholds, vdot_training_paces,
// estimate_one_rep_max, classify_velocity and analyze_assessment.
// Served over stdio by cmd/coachlab_mcp and mounted at /mcp by the main service.
func NewServer(service toolService) *mcp.Server {
	h := NewHandler(service)
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "coachlab",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "estimate_thresholds",
		Description: "Estimates lactate thresholds (LT1, LT2 by D-max, OBLA) and five training zones from incremental test stages. Args: stages (intensity, lactate, optional heart_rate); optional unit (km/h or W). Degraded data still returns a result with warnings and lower confidence.",
	}, h.EstimateThresholdsTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "vdot_training_paces",
		Description: "Computes the Daniels VDOT from a race result and returns E/M/T/I/R training paces (per km, 400m, mile) and equivalent race predictions. Args: distance_meters and time (mm:ss or h:mm:ss) or duration_seconds.",
	}, h.VDOTTrainingPacesTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "estimate_one_rep_max",
		Description: "Estimates a one rep max from a submaximal set (Epley, Brzycki or their average) and returns a 100%..50% percentage table. Args: weight (kg), reps; optional method, increment.",
	}, h.EstimateOneRepMaxTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "classify_velocity",
		Description: "Maps a mean concentric bar velocity (m/s) to its velocity based training zone. Optional lift returns its minimum velocity threshold.",
	}, h.ClassifyVelocityTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "analyze_assessment",
		Description: "Runs the threshold analysis of a stored lactate or VO2max assessment. Args: business (slug), assessment_id.",
	}, h.AnalyzeAssessmentTool())

	return s
}

// NewHTTPHandler serves the MCP server over streamable HTTP.
func NewHTTPHandler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)
}
