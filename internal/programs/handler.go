package programs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/coachlab/internal/telemetry/tracing"
	"github.com/2beens/coachlab/internal/tenant"
	"github.com/2beens/coachlab/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=programs_test

type programsService interface {
	List(ctx context.Context, params ListParams) ([]*Program, error)
	Get(ctx context.Context, businessID, id int) (*Program, error)
	Create(ctx context.Context, p Program) (*Program, error)
	Update(ctx context.Context, p Program) (*Program, error)
	Delete(ctx context.Context, businessID, id int) error
	AddWorkout(ctx context.Context, businessID, programID int, w Workout) (*Workout, error)
	SetWorkoutStatus(ctx context.Context, businessID, programID, workoutID int, to Status) (*Workout, error)
	DeleteWorkout(ctx context.Context, businessID, programID, workoutID int) error
	Advance(ctx context.Context) (AdvanceResult, error)
}

type ListResponse struct {
	Programs []*Program `json:"programs"`
	Total    int        `json:"total"`
}

type DeleteResponse struct {
	DeletedID int `json:"deletedId"`
}

type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type Handler struct {
	service programsService
}

func NewHandler(service programsService) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.programs.list")
	defer span.End()

	member, ok := tenant.MemberFromContext(ctx)
	if !ok {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	params := ListParams{BusinessID: member.BusinessID}
	if r.URL.Query().Has("client_id") {
		clientID, err := pkg.QueryInt(r, "client_id", 0)
		if err != nil || clientID < 1 {
			http.Error(w, "invalid parameter <client_id>", http.StatusBadRequest)
			return
		}
		params.ClientID = &clientID
	}

	if !member.CanWrite() {
		if member.ClientID == nil || (params.ClientID != nil && *params.ClientID != *member.ClientID) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		params.ClientID = member.ClientID
	}

	programs, err := h.service.List(ctx, params)
	if err != nil {
		log.Errorf("list programs [business %d]: %s", member.BusinessID, err)
		http.Error(w, "failed to list programs", http.StatusInternalServerError)
		return
	}

	writeJSON(w, ListResponse{Programs: programs, Total: len(programs)}, http.StatusOK)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.programs.get")
	defer span.End()

	p, ok := h.readableProgram(ctx, w, r)
	if !ok {
		return
	}
	writeJSON(w, p, http.StatusOK)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.programs.create")
	defer span.End()

	member, ok := tenant.MemberFromContext(ctx)
	if !ok {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	var p Program
	if !decode(w, r, &p) {
		return
	}
	p.BusinessID = member.BusinessID

	created, err := h.service.Create(ctx, p)
	if err != nil {
		h.writeError(w, err, "create program")
		return
	}

	log.Debugf("program %d created for client %d [business %d]", created.ID, created.ClientID, member.BusinessID)
	writeJSON(w, created, http.StatusCreated)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.programs.update")
	defer span.End()

	member, ok := tenant.MemberFromContext(ctx)
	if !ok {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	id, err := pkg.PathInt(r, "id")
	if err != nil {
		http.Error(w, "error, program id invalid", http.StatusBadRequest)
		return
	}

	var p Program
	if !decode(w, r, &p) {
		return
	}
	p.ID = id
	p.BusinessID = member.BusinessID

	updated, err := h.service.Update(ctx, p)
	if err != nil {
		h.writeError(w, err, "update program")
		return
	}
	writeJSON(w, updated, http.StatusOK)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.programs.delete")
	defer span.End()

	member, ok := tenant.MemberFromContext(ctx)
	if !ok {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	id, err := pkg.PathInt(r, "id")
	if err != nil {
		http.Error(w, "error, program id invalid", http.StatusBadRequest)
		return
	}

	if err := h.service.Delete(ctx, member.BusinessID, id); err != nil {
		h.writeError(w, err, "delete program")
		return
	}

	log.Debugf("program %d deleted [business %d]", id, member.BusinessID)
	writeJSON(w, DeleteResponse{DeletedID: id}, http.StatusOK)
}

func (h *Handler) HandleAddWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.programs.workouts.add")
	defer span.End()

	member, ok := tenant.MemberFromContext(ctx)
	if !ok {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	programID, err := pkg.PathInt(r, "id")
	if err != nil {
		http.Error(w, "error, program id invalid", http.StatusBadRequest)
		return
	}

	var workout Workout
	if !decode(w, r, &workout) {
		return
	}

	added, err := h.service.AddWorkout(ctx, member.BusinessID, programID, workout)
	if err != nil {
		h.writeError(w, err, "add workout")
		return
	}
	writeJSON(w, added, http.StatusCreated)
}

func (h *Handler) HandleSetWorkoutStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.programs.workouts.status")
	defer span.End()

	member, ok := tenant.MemberFromContext(ctx)
	if !ok {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	programID, err := pkg.PathInt(r, "id")
	if err != nil {
		http.Error(w, "error, program id invalid", http.StatusBadRequest)
		return
	}
	workoutID, err := pkg.PathInt(r, "workoutId")
	if err != nil {
		http.Error(w, "error, workout id invalid", http.StatusBadRequest)
		return
	}

	var req StatusRequest
	if !decode(w, r, &req) {
		return
	}
	status, ok := ParseStatus(req.Status)
	if !ok {
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}

	updated, err := h.service.SetWorkoutStatus(ctx, member.BusinessID, programID, workoutID, status)
	if err != nil {
		h.writeError(w, err, "set workout status")
		return
	}
	writeJSON(w, updated, http.StatusOK)
}

func (h *Handler) HandleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.programs.workouts.delete")
	defer span.End()

	member, ok := tenant.MemberFromContext(ctx)
	if !ok {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	programID, err := pkg.PathInt(r, "id")
	if err != nil {
		http.Error(w, "error, program id invalid", http.StatusBadRequest)
		return
	}
	workoutID, err := pkg.PathInt(r, "workoutId")
	if err != nil {
		http.Error(w, "error, workout id invalid", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteWorkout(ctx, member.BusinessID, programID, workoutID); err != nil {
		h.writeError(w, err, "delete workout")
		return
	}
	writeJSON(w, DeleteResponse{DeletedID: workoutID}, http.StatusOK)
}

func (h *Handler) HandleCalendar(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.programs.calendar")
	defer span.End()

	p, ok := h.readableProgram(ctx, w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="program-%d.ics"`, p.ID))
	pkg.WriteResponseBytesOK(w, pkg.ContentType.Calendar, []byte(Calendar(p, time.Now())))
}

// HandleAdvance is the cron entry point, it is not scoped to a business.
func (h *Handler) HandleAdvance(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.programs.advance")
	defer span.End()

	result, err := h.service.Advance(ctx)
	if err != nil {
		log.Errorf("advance workouts: %s", err)
		http.Error(w, "failed to advance workouts", http.StatusInternalServerError)
		return
	}

	log.Infof("workouts advanced via cron endpoint: %d scheduled, %d missed", result.Scheduled, result.Missed)
	writeJSON(w, result, http.StatusOK)
}

// readableProgram loads the {id} program and checks the member may read it.
// On false the response has been written.
func (h *Handler) readableProgram(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Program, bool) {
	member, ok := tenant.MemberFromContext(ctx)
	if !ok {
		http.Error(w, "forbidden", http.StatusForbidden)
		return nil, false
	}

	id, err := pkg.PathInt(r, "id")
	if err != nil {
		http.Error(w, "error, program id invalid", http.StatusBadRequest)
		return nil, false
	}

	p, err := h.service.Get(ctx, member.BusinessID, id)
	if errors.Is(err, ErrProgramNotFound) {
		http.Error(w, "program not found", http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		log.Errorf("get program %d: %s", id, err)
		http.Error(w, "failed to get program", http.StatusInternalServerError)
		return nil, false
	}

	if !member.CanReadClient(p.ClientID) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return nil, false
	}
	return p, true
}

func (h *Handler) writeError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, ErrProgramNotFound):
		http.Error(w, "program not found", http.StatusNotFound)
	case errors.Is(err, ErrWorkoutNotFound):
		http.Error(w, "workout not found", http.StatusNotFound)
	case errors.Is(err, ErrUnknownClient):
		http.Error(w, "client not found", http.StatusBadRequest)
	case errors.Is(err, ErrInvalidProgram):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrInvalidTransition):
		http.Error(w, "status transition not allowed", http.StatusConflict)
	default:
		log.Errorf("%s: %s", action, err)
		http.Error(w, fmt.Sprintf("failed to %s", action), http.StatusInternalServerError)
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if !pkg.IsJSONRequest(r) {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return false
	}

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		log.Tracef("programs payload, unmarshal json: %s", err)
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return false
	}

	if err := pkg.ValidateStruct(v); err != nil {
		http.Error(w, strings.Join(pkg.ValidationMessages(err), "; "), http.StatusBadRequest)
		return false
	}
	return true
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
