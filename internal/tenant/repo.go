package tenant

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/coachlab/internal/telemetry/tracing"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Membership resolves the business by slug and the user's role in it.
func (r *Repo) Membership(ctx context.Context, businessSlug, userID string) (_ *Member, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.tenant.membership")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("business.slug", businessSlug),
		attribute.String("user.id", userID),
	)

	businessID, err := r.BusinessID(ctx, businessSlug)
	if err != nil {
		return nil, err
	}

	member := &Member{
		BusinessID:   businessID,
		BusinessSlug: businessSlug,
		UserID:       userID,
	}
	var role string
	err = r.db.QueryRow(
		ctx,
		`SELECT role, client_id FROM business_member WHERE business_id = $1 AND user_id = $2`,
		businessID, userID,
	).Scan(&role, &member.ClientID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotMember
	}
	if err != nil {
		return nil, fmt.Errorf("get business member: %w", err)
	}

	parsedRole, ok := ParseRole(role)
	if !ok {
		return nil, fmt.Errorf("unknown member role: %s", role)
	}
	member.Role = parsedRole

	return member, nil
}

func (r *Repo) BusinessID(ctx context.Context, businessSlug string) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.tenant.business")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var businessID int
	err = r.db.QueryRow(ctx, `SELECT id FROM business WHERE slug = $1`, businessSlug).Scan(&businessID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrBusinessNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("get business: %w", err)
	}
	return businessID, nil
}
