package clients

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/coachlab/internal/telemetry/tracing"
	"github.com/2beens/coachlab/internal/tenant"
	"github.com/2beens/coachlab/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=clients_mocks_test.go -package=clients_test

type clientsRepo interface {
	List(ctx context.Context, params ListParams) (_ []*Client, total int, err error)
	Get(ctx context.Context, businessID, id int) (*Client, error)
	Create(ctx context.Context, c Client) (*Client, error)
	Update(ctx context.Context, c Client) (*Client, error)
	Delete(ctx context.Context, businessID, id int) error
}

type DeleteClientResponse struct {
	DeletedID int `json:"deletedId"`
}

type Handler struct {
	repo clientsRepo
}

func NewHandler(repo clientsRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.clients.list")
	defer span.End()

	member, ok := tenant.MemberFromContext(ctx)
	if !ok {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	page, err := pkg.QueryInt(r, "page", 1)
	if err != nil || page < 1 {
		http.Error(w, "invalid parameter <page>", http.StatusBadRequest)
		return
	}
	size, err := pkg.QueryInt(r, "size", DefaultPageSize)
	if err != nil || size < 1 || size > MaxPageSize {
		http.Error(w, "invalid parameter <size>", http.StatusBadRequest)
		return
	}

	params := ListParams{
		BusinessID: member.BusinessID,
		Page:       page,
		Size:       size,
		Query:      strings.TrimSpace(r.URL.Query().Get("q")),
	}
	if !member.CanWrite() {
		if member.ClientID == nil {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		params.OnlyClientID = member.ClientID
	}

	clients, total, err := h.repo.List(ctx, params)
	if err != nil {
		log.Errorf("list clients [business %d]: %s", member.BusinessID, err)
		http.Error(w, "failed to list clients", http.StatusInternalServerError)
		return
	}

	resp, err := json.Marshal(ListResponse{
		Clients: clients,
		Total:   total,
		Page:    page,
		Size:    size,
	})
	if err != nil {
		log.Errorf("marshal clients: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, resp)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.clients.get")
	defer span.End()

	member, ok := tenant.MemberFromContext(ctx)
	if !ok {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	id, err := pkg.PathInt(r, "id")
	if err != nil {
		http.Error(w, "error, client id invalid", http.StatusBadRequest)
		return
	}
	if !member.CanReadClient(id) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	c, err := h.repo.Get(ctx, member.BusinessID, id)
	if errors.Is(err, ErrClientNotFound) {
		http.Error(w, "client not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Errorf("get client %d: %s", id, err)
		http.Error(w, "failed to get client", http.StatusInternalServerError)
		return
	}

	h.writeClient(w, c, http.StatusOK)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.clients.create")
	defer span.End()

	member, ok := tenant.MemberFromContext(ctx)
	if !ok {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	c, ok := decodeClient(w, r)
	if !ok {
		return
	}
	c.BusinessID = member.BusinessID

	created, err := h.repo.Create(ctx, c)
	if errors.Is(err, ErrClientEmailTaken) {
		http.Error(w, "client with this email already exists", http.StatusConflict)
		return
	}
	if err != nil {
		log.Errorf("create client [business %d]: %s", member.BusinessID, err)
		http.Error(w, "failed to create client", http.StatusInternalServerError)
		return
	}

	log.Debugf("client %d created in business %s", created.ID, member.BusinessSlug)
	h.writeClient(w, created, http.StatusCreated)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.clients.update")
	defer span.End()

	member, ok := tenant.MemberFromContext(ctx)
	if !ok {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	id, err := pkg.PathInt(r, "id")
	if err != nil {
		http.Error(w, "error, client id invalid", http.StatusBadRequest)
		return
	}

	c, ok := decodeClient(w, r)
	if !ok {
		return
	}
	c.ID = id
	c.BusinessID = member.BusinessID

	updated, err := h.repo.Update(ctx, c)
	switch {
	case errors.Is(err, ErrClientNotFound):
		http.Error(w, "client not found", http.StatusNotFound)
		return
	case errors.Is(err, ErrClientEmailTaken):
		http.Error(w, "client with this email already exists", http.StatusConflict)
		return
	case err != nil:
		log.Errorf("update client %d: %s", id, err)
		http.Error(w, "failed to update client", http.StatusInternalServerError)
		return
	}

	h.writeClient(w, updated, http.StatusOK)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.clients.delete")
	defer span.End()

	member, ok := tenant.MemberFromContext(ctx)
	if !ok {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	id, err := pkg.PathInt(r, "id")
	if err != nil {
		http.Error(w, "error, client id invalid", http.StatusBadRequest)
		return
	}

	if err := h.repo.Delete(ctx, member.BusinessID, id); err != nil {
		if errors.Is(err, ErrClientNotFound) {
			http.Error(w, "client not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete client %d: %s", id, err)
		http.Error(w, "client not deleted", http.StatusInternalServerError)
		return
	}

	resp, err := json.Marshal(DeleteClientResponse{DeletedID: id})
	if err != nil {
		log.Errorf("marshal delete client response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(resp))
}

func (h *Handler) writeClient(w http.ResponseWriter, c *Client, status int) {
	clientJson, err := json.Marshal(c)
	if err != nil {
		log.Errorf("marshal client: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, clientJson, status)
}

func decodeClient(w http.ResponseWriter, r *http.Request) (Client, bool) {
	if !pkg.IsJSONRequest(r) {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return Client{}, false
	}

	var c Client
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		log.Tracef("client payload, unmarshal json: %s", err)
		http.Error(w, "invalid client payload", http.StatusBadRequest)
		return Client{}, false
	}
	c.normalize()

	if err := pkg.ValidateStruct(c); err != nil {
		http.Error(w, strings.Join(pkg.ValidationMessages(err), "; "), http.StatusBadRequest)
		return Client{}, false
	}
	return c, true
}
