package assessments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/coachlab/internal/telemetry/tracing"
	"github.com/2beens/coachlab/internal/tenant"
	"github.com/2beens/coachlab/internal/threshold"
	"github.com/2beens/coachlab/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=assessments_test

type assessmentsService interface {
	List(ctx context.Context, params ListParams) ([]*Assessment, error)
	Get(ctx context.Context, businessID, id int) (*Assessment, error)
	Create(ctx context.Context, a Assessment) (*Assessment, error)
	Update(ctx context.Context, a Assessment) (*Assessment, error)
	Delete(ctx context.Context, businessID, id int) error
	Analyze(ctx context.Context, a *Assessment, opts threshold.Options) (*Analysis, error)
	Preview(ctx context.Context, req PreviewRequest) (*Analysis, error)
	Report(ctx context.Context, a *Assessment) ([]byte, error)
}

type ListResponse struct {
	Assessments []*Assessment `json:"assessments"`
	Total       int           `json:"total"`
}

type DeleteAssessmentResponse struct {
	DeletedID int `json:"deletedId"`
}

type Handler struct {
	service assessmentsService
}

func NewHandler(service assessmentsService) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.assessments.list")
	defer span.End()

	member, ok := tenant.MemberFromContext(ctx)
	if !ok {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	params := ListParams{BusinessID: member.BusinessID}
	if clientIDStr := r.URL.Query().Get("client_id"); clientIDStr != "" {
		clientID, err := strconv.Atoi(clientIDStr)
		if err != nil || clientID < 1 {
			http.Error(w, "invalid parameter <client_id>", http.StatusBadRequest)
			return
		}
		params.ClientID = &clientID
	}
	if typeStr := r.URL.Query().Get("type"); typeStr != "" {
		t, ok := ParseType(typeStr)
		if !ok {
			http.Error(w, "invalid parameter <type>", http.StatusBadRequest)
			return
		}
		params.Type = &t
	}

	if !member.CanWrite() {
		if member.ClientID == nil || (params.ClientID != nil && *params.ClientID != *member.ClientID) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		params.ClientID = member.ClientID
	}

	assessments, err := h.service.List(ctx, params)
	if err != nil {
		log.Errorf("list assessments [business %d]: %s", member.BusinessID, err)
		http.Error(w, "failed to list assessments", http.StatusInternalServerError)
		return
	}

	writeJSON(w, ListResponse{Assessments: assessments, Total: len(assessments)}, http.StatusOK)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.assessments.get")
	defer span.End()

	a, ok := h.readableAssessment(ctx, w, r)
	if !ok {
		return
	}
	writeJSON(w, a, http.StatusOK)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.assessments.create")
	defer span.End()

	member, ok := tenant.MemberFromContext(ctx)
	if !ok {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	a, ok := decodeAssessment(w, r)
	if !ok {
		return
	}
	a.BusinessID = member.BusinessID

	created, err := h.service.Create(ctx, a)
	if errors.Is(err, ErrUnknownClient) {
		http.Error(w, "client not found", http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Errorf("create assessment [business %d]: %s", member.BusinessID, err)
		http.Error(w, "failed to create assessment", http.StatusInternalServerError)
		return
	}

	log.Debugf("assessment %d [%s] created for client %d", created.ID, created.Type, created.ClientID)
	writeJSON(w, created, http.StatusCreated)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.assessments.update")
	defer span.End()

	member, ok := tenant.MemberFromContext(ctx)
	if !ok {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	id, err := pkg.PathInt(r, "id")
	if err != nil {
		http.Error(w, "error, assessment id invalid", http.StatusBadRequest)
		return
	}

	a, ok := decodeAssessment(w, r)
	if !ok {
		return
	}
	a.ID = id
	a.BusinessID = member.BusinessID

	updated, err := h.service.Update(ctx, a)
	switch {
	case errors.Is(err, ErrAssessmentNotFound):
		http.Error(w, "assessment not found", http.StatusNotFound)
		return
	case errors.Is(err, ErrUnknownClient):
		http.Error(w, "client not found", http.StatusBadRequest)
		return
	case err != nil:
		log.Errorf("update assessment %d: %s", id, err)
		http.Error(w, "failed to update assessment", http.StatusInternalServerError)
		return
	}

	writeJSON(w, updated, http.StatusOK)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.assessments.delete")
	defer span.End()

	member, ok := tenant.MemberFromContext(ctx)
	if !ok {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	id, err := pkg.PathInt(r, "id")
	if err != nil {
		http.Error(w, "error, assessment id invalid", http.StatusBadRequest)
		return
	}

	if err := h.service.Delete(ctx, member.BusinessID, id); err != nil {
		if errors.Is(err, ErrAssessmentNotFound) {
			http.Error(w, "assessment not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete assessment %d: %s", id, err)
		http.Error(w, "assessment not deleted", http.StatusInternalServerError)
		return
	}

	writeJSON(w, DeleteAssessmentResponse{DeletedID: id}, http.StatusOK)
}

func (h *Handler) HandleAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.assessments.analysis")
	defer span.End()

	opts, err := optionsFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	a, ok := h.readableAssessment(ctx, w, r)
	if !ok {
		return
	}

	analysis, err := h.service.Analyze(ctx, a, opts)
	if errors.Is(err, ErrUnsupportedType) {
		http.Error(w, fmt.Sprintf("analysis not supported for %s assessments", a.Type), http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		log.Errorf("analyze assessment %d: %s", a.ID, err)
		http.Error(w, "failed to analyze assessment", http.StatusInternalServerError)
		return
	}

	writeJSON(w, analysis, http.StatusOK)
}

func (h *Handler) HandlePreviewAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.assessments.preview")
	defer span.End()

	if !pkg.IsJSONRequest(r) {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("preview analysis, unmarshal json: %s", err)
		http.Error(w, "invalid preview payload", http.StatusBadRequest)
		return
	}
	req.Type = Type(strings.ToLower(strings.TrimSpace(string(req.Type))))
	if err := pkg.ValidateStruct(req); err != nil {
		http.Error(w, strings.Join(pkg.ValidationMessages(err), "; "), http.StatusBadRequest)
		return
	}

	analysis, err := h.service.Preview(ctx, req)
	if errors.Is(err, ErrUnsupportedType) {
		http.Error(w, fmt.Sprintf("analysis not supported for %s assessments", req.Type), http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		log.Errorf("preview analysis: %s", err)
		http.Error(w, "failed to analyze stages", http.StatusInternalServerError)
		return
	}

	writeJSON(w, analysis, http.StatusOK)
}

func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.assessments.report")
	defer span.End()

	a, ok := h.readableAssessment(ctx, w, r)
	if !ok {
		return
	}

	report, err := h.service.Report(ctx, a)
	if err != nil {
		log.Errorf("report for assessment %d: %s", a.ID, err)
		http.Error(w, "failed to build report", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("assessment-%d-%s.xlsx", a.ID, a.PerformedAt.Format("2006-01-02"))
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	pkg.WriteResponseBytesOK(w, pkg.ContentType.XLSX, report)
}

// readableAssessment loads the {id} assessment and checks the member may read it.
// On false the response has been written.
func (h *Handler) readableAssessment(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Assessment, bool) {
	member, ok := tenant.MemberFromContext(ctx)
	if !ok {
		http.Error(w, "forbidden", http.StatusForbidden)
		return nil, false
	}

	id, err := pkg.PathInt(r, "id")
	if err != nil {
		http.Error(w, "error, assessment id invalid", http.StatusBadRequest)
		return nil, false
	}

	a, err := h.service.Get(ctx, member.BusinessID, id)
	if errors.Is(err, ErrAssessmentNotFound) {
		http.Error(w, "assessment not found", http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		log.Errorf("get assessment %d: %s", id, err)
		http.Error(w, "failed to get assessment", http.StatusInternalServerError)
		return nil, false
	}

	if !member.CanReadClient(a.ClientID) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return nil, false
	}
	return a, true
}

func decodeAssessment(w http.ResponseWriter, r *http.Request) (Assessment, bool) {
	if !pkg.IsJSONRequest(r) {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return Assessment{}, false
	}

	var a Assessment
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		log.Tracef("assessment payload, unmarshal json: %s", err)
		http.Error(w, "invalid assessment payload", http.StatusBadRequest)
		return Assessment{}, false
	}
	a.normalize()

	if err := pkg.ValidateStruct(a); err != nil {
		http.Error(w, strings.Join(pkg.ValidationMessages(err), "; "), http.StatusBadRequest)
		return Assessment{}, false
	}
	return a, true
}

// optionsFromQuery reads estimator overrides: aerobic, obla (mmol/L) and degree.
func optionsFromQuery(r *http.Request) (threshold.Options, error) {
	opts := threshold.DefaultOptions()
	q := r.URL.Query()

	for name, target := range map[string]*float64{
		"aerobic": &opts.AerobicConcentration,
		"obla":    &opts.OBLAConcentration,
	} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v <= 0 || v > 20 {
			return opts, fmt.Errorf("invalid parameter <%s>", name)
		}
		*target = v
	}
	if opts.AerobicConcentration >= opts.OBLAConcentration {
		return opts, errors.New("aerobic concentration must be below obla")
	}

	if raw := q.Get("degree"); raw != "" {
		degree, err := strconv.Atoi(raw)
		if err != nil || degree < 2 || degree > 3 {
			return opts, errors.New("invalid parameter <degree>")
		}
		opts.Degree = degree
	}
	return opts, nil
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	resp, err := json.Marshal(v)
	if err != nil {
		log.Errorf("marshal response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resp, status)
}
