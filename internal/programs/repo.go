package programs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/coachlab/internal/telemetry/tracing"
)

const (
	programColumns = `id, business_id, client_id, name, goal, start_date, end_date, created_at, updated_at`
	workoutColumns = `id, program_id, scheduled_date, title, description, duration_minutes, status, completed_at`
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) List(ctx context.Context, params ListParams) (_ []*Program, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.programs.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("business_id", params.BusinessID))

	var clientID int
	if params.ClientID != nil {
		clientID = *params.ClientID
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+programColumns+`
		FROM program
		WHERE business_id = $1 AND ($2::int = 0 OR client_id = $2)
		ORDER BY start_date DESC, id DESC`,
		params.BusinessID, clientID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	programs := []*Program{}
	for rows.Next() {
		p, err := scanProgram(rows)
		if err != nil {
			return nil, err
		}
		programs = append(programs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return programs, nil
}

func (r *Repo) Get(ctx context.Context, businessID, id int) (_ *Program, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.programs.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	p, err := scanProgram(r.db.QueryRow(ctx, `
		SELECT `+programColumns+`
		FROM program
		WHERE business_id = $1 AND id = $2`,
		businessID, id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProgramNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+workoutColumns+`
		FROM workout
		WHERE program_id = $1
		ORDER BY scheduled_date ASC, id ASC`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("get workouts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		p.Workouts = append(p.Workouts, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts the program and its workouts in one transaction.
func (r *Repo) Create(ctx context.Context, p Program) (_ *Program, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.programs.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	created, err := scanProgram(tx.QueryRow(ctx, `
		INSERT INTO program (business_id, client_id, name, goal, start_date, end_date)
		SELECT $1::int, $2::int, $3::text, $4::text, $5::date, $6::date
		WHERE EXISTS (SELECT 1 FROM client WHERE id = $2 AND business_id = $1)
		RETURNING `+programColumns,
		p.BusinessID, p.ClientID, p.Name, p.Goal, p.StartDate, p.EndDate,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUnknownClient
	}
	if err != nil {
		return nil, err
	}

	if len(p.Workouts) == 0 {
		return created, nil
	}

	batch := &pgx.Batch{}
	for _, w := range p.Workouts {
		batch.Queue(`
			INSERT INTO workout (program_id, scheduled_date, title, description, duration_minutes, status)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING `+workoutColumns,
			created.ID, w.ScheduledDate, w.Title, w.Description, w.DurationMinutes, w.Status,
		)
	}
	results := tx.SendBatch(ctx, batch)
	for range p.Workouts {
		w, err := scanWorkout(results.QueryRow())
		if err != nil {
			_ = results.Close()
			return nil, fmt.Errorf("insert workout: %w", err)
		}
		created.Workouts = append(created.Workouts, *w)
	}
	if err := results.Close(); err != nil {
		return nil, fmt.Errorf("insert workouts: %w", err)
	}

	return created, nil
}

// Update changes the program fields, workouts are managed one by one.
// Update changes program fields. The program row is locked while the workouts are checked against
// the new range, AddWorkout takes the same lock.
func (r *Repo) Update(ctx context.Context, p Program) (_ *Program, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.programs.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	if _, _, err := lockProgram(ctx, tx, p.BusinessID, p.ID, "FOR UPDATE"); err != nil {
		return nil, err
	}

	var outside int
	if err := tx.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM workout
		WHERE program_id = $1 AND (scheduled_date < $2 OR scheduled_date > $3)`,
		p.ID, p.StartDate, p.EndDate,
	).Scan(&outside); err != nil {
		return nil, fmt.Errorf("count workouts outside range: %w", err)
	}
	if outside > 0 {
		return nil, fmt.Errorf("%w: %d workouts outside the program dates", ErrInvalidProgram, outside)
	}

	updated, err := scanProgram(tx.QueryRow(ctx, `
		UPDATE program
		SET name = $3, goal = $4, start_date = $5, end_date = $6, updated_at = now()
		WHERE business_id = $1 AND id = $2
		RETURNING `+programColumns,
		p.BusinessID, p.ID, p.Name, p.Goal, p.StartDate, p.EndDate,
	))
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *Repo) Delete(ctx context.Context, businessID, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.programs.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx, `DELETE FROM program WHERE business_id = $1 AND id = $2`, businessID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProgramNotFound
	}
	return nil
}

// AddWorkout inserts a workout inside the program dates. The program row is share-locked so a
// concurrent Update cannot shrink the range under it.
func (r *Repo) AddWorkout(ctx context.Context, businessID, programID int, w Workout) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.programs.workouts.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	start, end, err := lockProgram(ctx, tx, businessID, programID, "FOR SHARE")
	if err != nil {
		return nil, err
	}
	if date := day(w.ScheduledDate); date.Before(start) || date.After(end) {
		return nil, fmt.Errorf("%w: scheduledDate: outside the program dates", ErrInvalidProgram)
	}

	added, err := scanWorkout(tx.QueryRow(ctx, `
		INSERT INTO workout (program_id, scheduled_date, title, description, duration_minutes, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+workoutColumns,
		programID, w.ScheduledDate, w.Title, w.Description, w.DurationMinutes, w.Status,
	))
	if err != nil {
		return nil, err
	}
	return added, nil
}

// lockProgram locks the program row with the given clause and returns its date range.
func lockProgram(ctx context.Context, tx pgx.Tx, businessID, programID int, lock string) (start, end time.Time, err error) {
	err = tx.QueryRow(ctx, `
		SELECT start_date, end_date
		FROM program
		WHERE business_id = $1 AND id = $2
		`+lock,
		businessID, programID,
	).Scan(&start, &end)
	if errors.Is(err, pgx.ErrNoRows) {
		return start, end, ErrProgramNotFound
	}
	if err != nil {
		return start, end, fmt.Errorf("lock program %d: %w", programID, err)
	}
	return day(start), day(end), nil
}

// SetWorkoutStatus moves a workout to a new status if the transition is allowed.
// The row is locked for the check so concurrent updates serialize.
func (r *Repo) SetWorkoutStatus(ctx context.Context, businessID, programID, workoutID int, to Status, now time.Time) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.programs.workouts.status")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("workout_id", workoutID))
	span.SetAttributes(attribute.String("to", string(to)))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	var from Status
	err = tx.QueryRow(ctx, `
		SELECT w.status
		FROM workout w
		JOIN program p ON p.id = w.program_id
		WHERE p.business_id = $1 AND p.id = $2 AND w.id = $3
		FOR UPDATE OF w`,
		businessID, programID, workoutID,
	).Scan(&from)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrWorkoutNotFound
	}
	if err != nil {
		return nil, err
	}

	if !CanTransition(from, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}

	var completedAt *time.Time
	if to == StatusCompleted {
		completedAt = &now
	}

	return scanWorkout(tx.QueryRow(ctx, `
		UPDATE workout
		SET status = $2, completed_at = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+workoutColumns,
		workoutID, to, completedAt,
	))
}

func (r *Repo) DeleteWorkout(ctx context.Context, businessID, programID, workoutID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.programs.workouts.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx, `
		DELETE FROM workout w
		USING program p
		WHERE p.id = w.program_id AND p.business_id = $1 AND p.id = $2 AND w.id = $3`,
		businessID, programID, workoutID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrWorkoutNotFound
	}
	return nil
}

// AdvanceWorkouts promotes PENDING workouts dated within [today, today+lookAheadDays] to SCHEDULED
// and marks SCHEDULED workouts dated before today as MISSED. Each update touches at most
// batchSize rows; rows already claimed by a concurrent run are skipped.
func (r *Repo) AdvanceWorkouts(ctx context.Context, today time.Time, lookAheadDays, batchSize int) (_ AdvanceResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.programs.workouts.advance")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	today = day(today)
	horizon := today.AddDate(0, 0, lookAheadDays)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return AdvanceResult{}, err
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	scheduled, err := tx.Exec(ctx, `
		UPDATE workout SET status = 'SCHEDULED', updated_at = now()
		WHERE id IN (
			SELECT id FROM workout
			WHERE status = 'PENDING' AND scheduled_date >= $1 AND scheduled_date <= $2
			ORDER BY scheduled_date, id
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		)`,
		today, horizon, batchSize,
	)
	if err != nil {
		return AdvanceResult{}, fmt.Errorf("schedule pending workouts: %w", err)
	}

	missed, err := tx.Exec(ctx, `
		UPDATE workout SET status = 'MISSED', updated_at = now()
		WHERE id IN (
			SELECT id FROM workout
			WHERE status = 'SCHEDULED' AND scheduled_date < $1
			ORDER BY scheduled_date, id
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)`,
		today, batchSize,
	)
	if err != nil {
		return AdvanceResult{}, fmt.Errorf("mark missed workouts: %w", err)
	}

	result := AdvanceResult{
		Scheduled: int(scheduled.RowsAffected()),
		Missed:    int(missed.RowsAffected()),
	}
	span.SetAttributes(attribute.Int("scheduled", result.Scheduled))
	span.SetAttributes(attribute.Int("missed", result.Missed))
	return result, nil
}

func scanProgram(row pgx.Row) (*Program, error) {
	var p Program
	if err := row.Scan(
		&p.ID, &p.BusinessID, &p.ClientID, &p.Name, &p.Goal, &p.StartDate, &p.EndDate, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	p.Workouts = []Workout{}
	return &p, nil
}

func scanWorkout(row pgx.Row) (*Workout, error) {
	var w Workout
	if err := row.Scan(
		&w.ID, &w.ProgramID, &w.ScheduledDate, &w.Title, &w.Description, &w.DurationMinutes, &w.Status, &w.CompletedAt,
	); err != nil {
		return nil, err
	}
	return &w, nil
}
