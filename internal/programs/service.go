package programs

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/coachlab/internal/telemetry/metrics"
	"github.com/2beens/coachlab/internal/telemetry/tracing"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=programs_test

type programsRepo interface {
	List(ctx context.Context, params ListParams) ([]*Program, error)
	Get(ctx context.Context, businessID, id int) (*Program, error)
	Create(ctx context.Context, p Program) (*Program, error)
	Update(ctx context.Context, p Program) (*Program, error)
	Delete(ctx context.Context, businessID, id int) error
	AddWorkout(ctx context.Context, businessID, programID int, w Workout) (*Workout, error)
	SetWorkoutStatus(ctx context.Context, businessID, programID, workoutID int, to Status, now time.Time) (*Workout, error)
	DeleteWorkout(ctx context.Context, businessID, programID, workoutID int) error
	AdvanceWorkouts(ctx context.Context, today time.Time, lookAheadDays, batchSize int) (AdvanceResult, error)
}

type Service struct {
	repo          programsRepo
	metrics       *metrics.Manager
	lookAheadDays int
	batchSize     int
	now           func() time.Time
}

func NewService(repo programsRepo, metricsManager *metrics.Manager, lookAheadDays, batchSize int) *Service {
	return &Service{
		repo:          repo,
		metrics:       metricsManager,
		lookAheadDays: lookAheadDays,
		batchSize:     batchSize,
		now:           time.Now,
	}
}

func (s *Service) List(ctx context.Context, params ListParams) (_ []*Program, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.programs.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	programs, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	return programs, nil
}

func (s *Service) Get(ctx context.Context, businessID, id int) (_ *Program, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.programs.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	p, err := s.repo.Get(ctx, businessID, id)
	if err != nil {
		return nil, fmt.Errorf("get program %d: %w", id, err)
	}
	return p, nil
}

func (s *Service) Create(ctx context.Context, p Program) (_ *Program, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.programs.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	p.normalize()
	if err := p.checkDates(); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create program: %w", err)
	}
	return created, nil
}

// Update changes program fields. Existing workouts must still fit the new date range.
func (s *Service) Update(ctx context.Context, p Program) (_ *Program, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.programs.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	existing, err := s.repo.Get(ctx, p.BusinessID, p.ID)
	if err != nil {
		return nil, fmt.Errorf("get program %d: %w", p.ID, err)
	}

	p.ClientID = existing.ClientID
	p.Workouts = nil
	p.normalize()
	p.Workouts = existing.Workouts
	if err := p.checkDates(); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("update program %d: %w", p.ID, err)
	}
	updated.Workouts = existing.Workouts
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, businessID, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.programs.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := s.repo.Delete(ctx, businessID, id); err != nil {
		return fmt.Errorf("delete program %d: %w", id, err)
	}
	return nil
}

func (s *Service) AddWorkout(ctx context.Context, businessID, programID int, w Workout) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.programs.workouts.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	p, err := s.repo.Get(ctx, businessID, programID)
	if err != nil {
		return nil, fmt.Errorf("get program %d: %w", programID, err)
	}

	w.normalize()
	if !p.contains(w.ScheduledDate) {
		return nil, fmt.Errorf("%w: scheduledDate: outside the program dates", ErrInvalidProgram)
	}

	added, err := s.repo.AddWorkout(ctx, businessID, programID, w)
	if err != nil {
		return nil, fmt.Errorf("add workout to program %d: %w", programID, err)
	}
	return added, nil
}

func (s *Service) SetWorkoutStatus(ctx context.Context, businessID, programID, workoutID int, to Status) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.programs.workouts.status")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	w, err := s.repo.SetWorkoutStatus(ctx, businessID, programID, workoutID, to, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("set workout %d status: %w", workoutID, err)
	}
	return w, nil
}

func (s *Service) DeleteWorkout(ctx context.Context, businessID, programID, workoutID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.programs.workouts.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := s.repo.DeleteWorkout(ctx, businessID, programID, workoutID); err != nil {
		return fmt.Errorf("delete workout %d: %w", workoutID, err)
	}
	return nil
}

// Advance runs one advance batch across all businesses. Running it twice on the same day is a no-op
// once every eligible workout has moved.
func (s *Service) Advance(ctx context.Context) (_ AdvanceResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.programs.advance")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	start := time.Now()
	result, err := s.repo.AdvanceWorkouts(ctx, s.now().UTC(), s.lookAheadDays, s.batchSize)
	if err != nil {
		return AdvanceResult{}, fmt.Errorf("advance workouts: %w", err)
	}
	s.metrics.HistWorkoutsAdvanceDuration.Observe(time.Since(start).Seconds())
	s.metrics.CounterWorkoutsAdvanced.WithLabelValues(string(StatusScheduled)).Add(float64(result.Scheduled))
	s.metrics.CounterWorkoutsAdvanced.WithLabelValues(string(StatusMissed)).Add(float64(result.Missed))

	span.SetAttributes(attribute.Int("scheduled", result.Scheduled))
	span.SetAttributes(attribute.Int("missed", result.Missed))
	log.Debugf("workouts advanced: %d scheduled, %d missed", result.Scheduled, result.Missed)
	return result, nil
}
