package assessments

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

const assessmentColumns = `id, business_id, client_id, type, unit, performed_at, notes, created_at, updated_at`

var stageColumns = []string{"assessment_id", "seq", "intensity", "heart_rate", "lactate", "vo2", "rpe"}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// List returns assessments without their stages, newest first.
func (r *Repo) List(ctx context.Context, params ListParams) (_ []*Assessment, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.assessments.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("business_id", params.BusinessID))

	var clientID int
	if params.ClientID != nil {
		clientID = *params.ClientID
		span.SetAttributes(attribute.Int("client_id", clientID))
	}
	var assessmentType string
	if params.Type != nil {
		assessmentType = string(*params.Type)
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+assessmentColumns+`
		FROM assessment
		WHERE business_id = $1
			AND ($2::int = 0 OR client_id = $2)
			AND ($3::text = '' OR type = $3)
		ORDER BY performed_at DESC, id DESC`,
		params.BusinessID, clientID, assessmentType,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assessments := []*Assessment{}
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		assessments = append(assessments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return assessments, nil
}

func (r *Repo) Get(ctx context.Context, businessID, id int) (_ *Assessment, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.assessments.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	a, err := scanAssessment(r.db.QueryRow(ctx, `
		SELECT `+assessmentColumns+`
		FROM assessment
		WHERE business_id = $1 AND id = $2`,
		businessID, id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAssessmentNotFound
	}
	if err != nil {
		return nil, err
	}

	a.Stages, err = r.stages(ctx, r.db, id)
	if err != nil {
		return nil, fmt.Errorf("get stages: %w", err)
	}
	return a, nil
}

// Create inserts the assessment and its stages in one transaction.
func (r *Repo) Create(ctx context.Context, a Assessment) (_ *Assessment, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.assessments.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = finishTx(ctx, tx, err)
	}()

	created, err := scanAssessment(tx.QueryRow(ctx, `
		INSERT INTO assessment (business_id, client_id, type, unit, performed_at, notes)
		SELECT $1::int, $2::int, $3::text, $4::text, $5::timestamptz, $6::text
		WHERE EXISTS (SELECT 1 FROM client WHERE id = $2 AND business_id = $1)
		RETURNING `+assessmentColumns,
		a.BusinessID, a.ClientID, a.Type, a.Unit, a.PerformedAt, a.Notes,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUnknownClient
	}
	if err != nil {
		return nil, err
	}

	if err := insertStages(ctx, tx, created.ID, a.Stages); err != nil {
		return nil, err
	}
	created.Stages = a.Stages

	return created, nil
}

// Update rewrites the assessment and replaces all of its stages in one transaction.
func (r *Repo) Update(ctx context.Context, a Assessment) (_ *Assessment, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.assessments.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", a.ID))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = finishTx(ctx, tx, err)
	}()

	updated, err := scanAssessment(tx.QueryRow(ctx, `
		UPDATE assessment
		SET client_id = $3, type = $4, unit = $5, performed_at = $6, notes = $7, updated_at = clock_timestamp()
		WHERE business_id = $1 AND id = $2
			AND EXISTS (SELECT 1 FROM client WHERE id = $3 AND business_id = $1)
		RETURNING `+assessmentColumns,
		a.BusinessID, a.ID, a.ClientID, a.Type, a.Unit, a.PerformedAt, a.Notes,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM assessment WHERE business_id = $1 AND id = $2)`,
			a.BusinessID, a.ID,
		).Scan(&exists); err != nil {
			return nil, fmt.Errorf("check assessment exists: %w", err)
		}
		if exists {
			return nil, ErrUnknownClient
		}
		return nil, ErrAssessmentNotFound
	}
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return nil, ErrUnknownClient
		}
		return nil, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM assessment_stage WHERE assessment_id = $1`, a.ID); err != nil {
		return nil, fmt.Errorf("delete stages: %w", err)
	}
	if err := insertStages(ctx, tx, a.ID, a.Stages); err != nil {
		return nil, err
	}
	updated.Stages = a.Stages

	return updated, nil
}

func (r *Repo) Delete(ctx context.Context, businessID, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.assessments.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx, `DELETE FROM assessment WHERE business_id = $1 AND id = $2`, businessID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAssessmentNotFound
	}
	return nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *Repo) stages(ctx context.Context, q querier, assessmentID int) ([]Stage, error) {
	rows, err := q.Query(ctx, `
		SELECT seq, intensity, heart_rate, lactate, vo2, rpe
		FROM assessment_stage
		WHERE assessment_id = $1
		ORDER BY seq ASC`,
		assessmentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stages := []Stage{}
	for rows.Next() {
		var s Stage
		if err := rows.Scan(&s.Seq, &s.Intensity, &s.HeartRate, &s.Lactate, &s.VO2, &s.RPE); err != nil {
			return nil, err
		}
		stages = append(stages, s)
	}
	return stages, rows.Err()
}

func insertStages(ctx context.Context, tx pgx.Tx, assessmentID int, stages []Stage) error {
	if len(stages) == 0 {
		return nil
	}

	copied, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"assessment_stage"},
		stageColumns,
		pgx.CopyFromSlice(len(stages), func(i int) ([]any, error) {
			s := stages[i]
			return []any{assessmentID, s.Seq, s.Intensity, s.HeartRate, s.Lactate, s.VO2, s.RPE}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("insert stages: %w", err)
	}
	if int(copied) != len(stages) {
		return fmt.Errorf("insert stages: copied %d of %d", copied, len(stages))
	}
	return nil
}

// finishTx commits on success and rolls back when err is set.
func finishTx(ctx context.Context, tx pgx.Tx, err error) error {
	if err != nil {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
			return fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
		}
		return err
	}
	return tx.Commit(ctx)
}

func scanAssessment(row pgx.Row) (*Assessment, error) {
	var a Assessment
	if err := row.Scan(
		&a.ID, &a.BusinessID, &a.ClientID, &a.Type, &a.Unit, &a.PerformedAt, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	a.Stages = []Stage{}
	return &a, nil
}
