package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/coachlab/internal/auth"
	"github.com/2beens/coachlab/internal/telemetry/tracing"
	"github.com/2beens/coachlab/internal/tenant"
)

//go:generate mockgen -source=$GOFILE -destination=tenant_mocks_test.go -package=middleware_test

type membershipResolver interface {
	Membership(ctx context.Context, businessSlug, userID string) (*tenant.Member, error)
}

// TenantCheck resolves the {business} path variable against the session user's memberships.
func TenantCheck(resolver membershipResolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.tenant")
			defer span.End()

			session, ok := auth.SessionFromContext(ctx)
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			businessSlug := mux.Vars(r)["business"]
			if businessSlug == "" {
				http.Error(w, "business missing", http.StatusBadRequest)
				return
			}
			span.SetAttributes(attribute.String("business.slug", businessSlug))

			member, err := resolver.Membership(ctx, businessSlug, session.UserID)
			switch {
			case errors.Is(err, tenant.ErrBusinessNotFound), errors.Is(err, tenant.ErrNotMember):
				// same answer for both, the existence of a business is not leaked
				log.Tracef("user [%s] denied for business [%s]: %s", session.UserID, businessSlug, err)
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			case err != nil:
				log.Errorf("resolve membership [%s] [%s]: %s", businessSlug, session.UserID, err)
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}

			span.SetAttributes(attribute.String("member.role", string(member.Role)))
			next.ServeHTTP(w, r.WithContext(tenant.ContextWithMember(r.Context(), member)))
		})
	}
}

// WriteAccess rejects state-changing requests from members without write permission.
func WriteAccess() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			member, ok := tenant.MemberFromContext(r.Context())
			if !ok || !member.CanWrite() {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
