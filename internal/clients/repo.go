package clients

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/coachlab/internal/telemetry/tracing"
	"github.com/2beens/coachlab/pkg"
)

var (
	ErrClientNotFound   = errors.New("client not found")
	ErrClientEmailTaken = errors.New("client email already used in this business")
)

const clientColumns = `id, business_id, name, email, phone, birth_date, sport, weight_kg, height_cm, notes, created_at, updated_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) List(ctx context.Context, params ListParams) (_ []*Client, total int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.clients.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("business_id", params.BusinessID))
	span.SetAttributes(attribute.Int("page", params.Page))
	span.SetAttributes(attribute.Int("size", params.Size))

	if params.Page < 1 {
		return nil, -1, errors.New("page must be greater than 0")
	}
	if params.Size < 1 {
		return nil, -1, errors.New("size must be greater than 0")
	}

	var onlyClientID int
	if params.OnlyClientID != nil {
		onlyClientID = *params.OnlyClientID
	}

	err = r.db.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM client
		WHERE business_id = $1
			AND ($2::text = '' OR name ILIKE '%' || $2 || '%' OR email ILIKE '%' || $2 || '%')
			AND ($3::int = 0 OR id = $3)`,
		params.BusinessID, params.Query, onlyClientID,
	).Scan(&total)
	if err != nil {
		return nil, -1, fmt.Errorf("count clients: %w", err)
	}
	span.SetAttributes(attribute.Int("count_all", total))

	rows, err := r.db.Query(ctx, `
		SELECT `+clientColumns+`
		FROM client
		WHERE business_id = $1
			AND ($2::text = '' OR name ILIKE '%' || $2 || '%' OR email ILIKE '%' || $2 || '%')
			AND ($3::int = 0 OR id = $3)
		ORDER BY name ASC, id ASC
		LIMIT $4
		OFFSET $5`,
		params.BusinessID, params.Query, onlyClientID,
		params.Size, (params.Page-1)*params.Size,
	)
	if err != nil {
		return nil, -1, err
	}
	defer rows.Close()

	clients := make([]*Client, 0, params.Size)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, -1, err
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, -1, err
	}

	return clients, total, nil
}

func (r *Repo) Get(ctx context.Context, businessID, id int) (_ *Client, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.clients.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	row := r.db.QueryRow(ctx, `
		SELECT `+clientColumns+`
		FROM client
		WHERE business_id = $1 AND id = $2`,
		businessID, id,
	)
	c, err := scanClient(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *Repo) Create(ctx context.Context, c Client) (_ *Client, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.clients.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	row := r.db.QueryRow(ctx, `
		INSERT INTO client (business_id, name, email, phone, birth_date, sport, weight_kg, height_cm, notes)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9)
		RETURNING `+clientColumns,
		c.BusinessID, c.Name, c.Email, c.Phone, c.BirthDate, c.Sport, c.WeightKg, c.HeightCm, c.Notes,
	)
	created, err := scanClient(row)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrClientEmailTaken
		}
		return nil, err
	}
	return created, nil
}

func (r *Repo) Update(ctx context.Context, c Client) (_ *Client, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.clients.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	row := r.db.QueryRow(ctx, `
		UPDATE client
		SET name = $3, email = NULLIF($4, ''), phone = $5, birth_date = $6, sport = $7,
			weight_kg = $8, height_cm = $9, notes = $10, updated_at = now()
		WHERE business_id = $1 AND id = $2
		RETURNING `+clientColumns,
		c.BusinessID, c.ID, c.Name, c.Email, c.Phone, c.BirthDate, c.Sport, c.WeightKg, c.HeightCm, c.Notes,
	)
	updated, err := scanClient(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrClientNotFound
	}
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrClientEmailTaken
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes the client, its assessments and programs go with it (ON DELETE CASCADE).
func (r *Repo) Delete(ctx context.Context, businessID, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.clients.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx, `DELETE FROM client WHERE business_id = $1 AND id = $2`, businessID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrClientNotFound
	}
	return nil
}

func scanClient(row pgx.Row) (*Client, error) {
	var c Client
	var email *string
	if err := row.Scan(
		&c.ID, &c.BusinessID, &c.Name, &email, &c.Phone, &c.BirthDate, &c.Sport,
		&c.WeightKg, &c.HeightCm, &c.Notes, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if email != nil {
		c.Email = *email
	}
	return &c, nil
}
