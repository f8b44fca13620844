package calculators

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/coachlab/internal/telemetry/metrics"
	"github.com/2beens/coachlab/internal/telemetry/tracing"
	"github.com/2beens/coachlab/pkg"
)

type Handler struct {
	metrics *metrics.Manager
}

func NewHandler(metricsManager *metrics.Manager) *Handler {
	return &Handler{
		metrics: metricsManager,
	}
}

func (h *Handler) HandleVDOT(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.calculators.vdot")
	defer span.End()

	var req VDOTRequest
	if !decode(w, r, &req) {
		return
	}
	resp, err := VDOT(req)
	writeResult(w, resp, err)
}

func (h *Handler) HandleOneRepMax(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.calculators.one-rep-max")
	defer span.End()

	var req OneRepMaxRequest
	if !decode(w, r, &req) {
		return
	}
	resp, err := OneRepMax(req)
	writeResult(w, resp, err)
}

func (h *Handler) HandleVelocityZones(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.calculators.velocity-zones")
	defer span.End()

	var req VelocityZonesRequest
	if !decode(w, r, &req) {
		return
	}
	resp, err := VelocityZones(req)
	writeResult(w, resp, err)
}

func (h *Handler) HandleLoadVelocity(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.calculators.load-velocity")
	defer span.End()

	var req LoadVelocityRequest
	if !decode(w, r, &req) {
		return
	}
	resp, err := LoadVelocity(req)
	writeResult(w, resp, err)
}

func (h *Handler) HandleHyrox(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.calculators.hyrox")
	defer span.End()

	var req HyroxRequest
	if !decode(w, r, &req) {
		return
	}
	resp, err := Hyrox(req)
	writeResult(w, resp, err)
}

func (h *Handler) HandleThresholds(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.calculators.thresholds")
	defer span.End()

	var req ThresholdsRequest
	if !decode(w, r, &req) {
		return
	}
	resp, err := Thresholds(req)
	if err == nil {
		h.metrics.CounterThresholdEstimates.WithLabelValues(string(resp.Method), string(resp.Confidence)).Inc()
	}
	writeResult(w, resp, err)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if !pkg.IsJSONRequest(r) {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		log.Tracef("calculator payload, unmarshal json: %s", err)
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return false
	}
	return true
}

func writeResult(w http.ResponseWriter, v any, err error) {
	switch {
	case errors.Is(err, pkg.ErrValidation):
		http.Error(w, strings.Join(pkg.ValidationMessages(err), "; "), http.StatusBadRequest)
		return
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, ErrNotComputable):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	case err != nil:
		log.Errorf("calculator: %s", err)
		http.Error(w, "calculation failed", http.StatusInternalServerError)
		return
	}

	resp, err := json.Marshal(v)
	if err != nil {
		log.Errorf("marshal calculator response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, resp)
}
