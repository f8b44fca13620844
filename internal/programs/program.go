package programs

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/multierr"
)

var (
	ErrProgramNotFound   = errors.New("program not found")
	ErrWorkoutNotFound   = errors.New("workout not found")
	ErrUnknownClient     = errors.New("client does not exist in this business")
	ErrInvalidTransition = errors.New("invalid workout status transition")
	ErrInvalidProgram    = errors.New("invalid program")
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusScheduled Status = "SCHEDULED"
	StatusCompleted Status = "COMPLETED"
	StatusMissed    Status = "MISSED"
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusScheduled},
	StatusScheduled: {StatusCompleted, StatusMissed, StatusPending},
	StatusMissed:    {StatusCompleted},
}

func ParseStatus(s string) (Status, bool) {
	switch st := Status(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusPending, StatusScheduled, StatusCompleted, StatusMissed:
		return st, true
	default:
		return "", false
	}
}

// CanTransition reports whether a workout may move from one status to another.
// COMPLETED is terminal.
func CanTransition(from, to Status) bool {
	return slices.Contains(transitions[from], to)
}

type Program struct {
	ID         int       `json:"id"`
	BusinessID int       `json:"businessId"`
	ClientID   int       `json:"clientId" validate:"gt=0"`
	Name       string    `json:"name" validate:"required,max=200"`
	Goal       string    `json:"goal,omitempty" validate:"max=1000"`
	StartDate  time.Time `json:"startDate" validate:"required"`
	EndDate    time.Time `json:"endDate" validate:"required"`
	Workouts   []Workout `json:"workouts" validate:"max=1000,dive"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type Workout struct {
	ID              int        `json:"id"`
	ProgramID       int        `json:"programId"`
	ScheduledDate   time.Time  `json:"scheduledDate" validate:"required"`
	Title           string     `json:"title" validate:"required,max=200"`
	Description     string     `json:"description,omitempty" validate:"max=5000"`
	DurationMinutes int        `json:"durationMinutes" validate:"gte=0,lte=1440"`
	Status          Status     `json:"status"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
}

// normalize truncates dates to days and starts every new workout as PENDING.
func (p *Program) normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.StartDate = day(p.StartDate)
	p.EndDate = day(p.EndDate)
	if p.Workouts == nil {
		p.Workouts = []Workout{}
	}
	for i := range p.Workouts {
		p.Workouts[i].normalize()
	}
}

func (w *Workout) normalize() {
	w.Title = strings.TrimSpace(w.Title)
	w.ScheduledDate = day(w.ScheduledDate)
	w.Status = StatusPending
	w.CompletedAt = nil
}

// checkDates validates the date range and that every workout falls inside it.
func (p *Program) checkDates() error {
	var err error
	if p.EndDate.Before(p.StartDate) {
		err = multierr.Append(err, errors.New("endDate: before startDate"))
	}
	for i, w := range p.Workouts {
		if !p.contains(w.ScheduledDate) {
			err = multierr.Append(err, fmt.Errorf("workouts[%d].scheduledDate: outside the program dates", i))
		}
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProgram, err)
	}
	return nil
}

func (p *Program) contains(date time.Time) bool {
	date = day(date)
	return !date.Before(p.StartDate) && !date.After(p.EndDate)
}

func day(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type ListParams struct {
	BusinessID int
	ClientID   *int
}

// AdvanceResult counts the workouts moved by one advance batch.
type AdvanceResult struct {
	Scheduled int `json:"scheduled"`
	Missed    int `json:"missed"`
}
