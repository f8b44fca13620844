package test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/2beens/coachlab/internal/programs"
)

func (s *IntegrationTestSuite) newProgram(ctx context.Context, today time.Time) *programs.Program {
	program := programs.Program{
		ClientID:  s.athleteClientID,
		Name:      "Spring 10k block",
		Goal:      "sub 45 10k",
		StartDate: today.AddDate(0, 0, -7),
		EndDate:   today.AddDate(0, 0, 30),
		Workouts: []programs.Workout{
			{ScheduledDate: today.AddDate(0, 0, -3), Title: "Easy run", DurationMinutes: 40},
			{ScheduledDate: today.AddDate(0, 0, 2), Title: "Intervals 6x800m", Description: "3 min jog recovery", DurationMinutes: 60},
			{ScheduledDate: today.AddDate(0, 0, 20), Title: "Long run", DurationMinutes: 100},
		},
	}

	resp := doRequest(ctx, s.T(), http.MethodPost, fmt.Sprintf("/api/%s/programs", testBusiness), coachToken, program)
	s.Require().Equal(http.StatusCreated, resp.StatusCode, string(resp.Body))

	created := decodeBody[programs.Program](s.T(), resp)
	s.Require().Len(created.Workouts, 3)
	for _, w := range created.Workouts {
		s.Require().Equal(programs.StatusPending, w.Status)
	}
	return &created
}

func workoutByTitle(p programs.Program, title string) programs.Workout {
	for _, w := range p.Workouts {
		if w.Title == title {
			return w
		}
	}
	return programs.Workout{}
}

func (s *IntegrationTestSuite) TestPrograms_AdvanceAndStatus() {
	ctx := context.Background()
	t := s.T()
	today := time.Now().UTC().Truncate(24 * time.Hour)

	program := s.newProgram(ctx, today)
	programPath := fmt.Sprintf("/api/%s/programs/%d", testBusiness, program.ID)

	easyRun := workoutByTitle(*program, "Easy run")
	s.Require().NotZero(easyRun.ID)

	// a past workout is scheduled by hand, the batch then marks it missed
	resp := doRequest(ctx, t, http.MethodPatch, fmt.Sprintf("%s/workouts/%d", programPath, easyRun.ID), coachToken,
		programs.StatusRequest{Status: "scheduled"})
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(resp.Body))
	s.Equal(programs.StatusScheduled, decodeBody[programs.Workout](t, resp).Status)

	resp = doCronRequest(ctx, t, "/api/cron/workouts/advance", "")
	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	resp = doCronRequest(ctx, t, "/api/cron/workouts/advance", testCronSecret)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(resp.Body))
	first := decodeBody[programs.AdvanceResult](t, resp)
	s.GreaterOrEqual(first.Scheduled, 1)
	s.GreaterOrEqual(first.Missed, 1)

	resp = doRequest(ctx, t, http.MethodGet, programPath, coachToken, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	advanced := decodeBody[programs.Program](t, resp)
	s.Equal(programs.StatusMissed, workoutByTitle(advanced, "Easy run").Status)
	s.Equal(programs.StatusScheduled, workoutByTitle(advanced, "Intervals 6x800m").Status)
	s.Equal(programs.StatusPending, workoutByTitle(advanced, "Long run").Status)

	// second run on the same day changes nothing
	resp = doCronRequest(ctx, t, "/api/cron/workouts/advance", testCronSecret)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Equal(programs.AdvanceResult{}, decodeBody[programs.AdvanceResult](t, resp))

	// missed can still be completed late, completed is terminal
	missedPath := fmt.Sprintf("%s/workouts/%d", programPath, easyRun.ID)
	resp = doRequest(ctx, t, http.MethodPatch, missedPath, coachToken, programs.StatusRequest{Status: "COMPLETED"})
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(resp.Body))
	completed := decodeBody[programs.Workout](t, resp)
	s.Equal(programs.StatusCompleted, completed.Status)
	s.NotNil(completed.CompletedAt)

	resp = doRequest(ctx, t, http.MethodPatch, missedPath, coachToken, programs.StatusRequest{Status: "PENDING"})
	s.Equal(http.StatusConflict, resp.StatusCode)

	resp = doRequest(ctx, t, http.MethodPatch, missedPath, coachToken, programs.StatusRequest{Status: "DONE"})
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	resp = doRequest(ctx, t, http.MethodPatch, missedPath, athleteToken, programs.StatusRequest{Status: "SCHEDULED"})
	s.Equal(http.StatusForbidden, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestPrograms_RepoAdvanceIdempotent() {
	ctx := context.Background()
	today := time.Now().UTC().Truncate(24 * time.Hour)
	repo := programs.NewRepo(s.db)

	// only this program's workouts may be in the table
	_, err := s.db.Exec(ctx, `DELETE FROM program`)
	s.Require().NoError(err)

	program := s.newProgram(ctx, today)

	result, err := repo.AdvanceWorkouts(ctx, today, 7, 100)
	s.Require().NoError(err)
	s.Equal(programs.AdvanceResult{Scheduled: 1}, result)

	result, err = repo.AdvanceWorkouts(ctx, today, 7, 100)
	s.Require().NoError(err)
	s.Equal(programs.AdvanceResult{}, result)

	// tomorrow nothing new enters the window, nothing is overdue yet
	result, err = repo.AdvanceWorkouts(ctx, today.AddDate(0, 0, 1), 7, 100)
	s.Require().NoError(err)
	s.Equal(programs.AdvanceResult{}, result)

	// three days later the intervals session is overdue
	result, err = repo.AdvanceWorkouts(ctx, today.AddDate(0, 0, 3), 7, 100)
	s.Require().NoError(err)
	s.Equal(programs.AdvanceResult{Missed: 1}, result)

	p, err := repo.Get(ctx, program.BusinessID, program.ID)
	s.Require().NoError(err)
	s.Equal(programs.StatusMissed, workoutByTitle(*p, "Intervals 6x800m").Status)
	s.Equal(programs.StatusPending, workoutByTitle(*p, "Easy run").Status)
}

func (s *IntegrationTestSuite) TestPrograms_RepoKeepsWorkoutsInRange() {
	ctx := context.Background()
	today := time.Now().UTC().Truncate(24 * time.Hour)
	repo := programs.NewRepo(s.db)

	program := s.newProgram(ctx, today)

	// the long run at +20 days would fall outside
	shrunk := *program
	shrunk.EndDate = today.AddDate(0, 0, 10)
	_, err := repo.Update(ctx, shrunk)
	s.Require().ErrorIs(err, programs.ErrInvalidProgram)

	_, err = repo.AddWorkout(ctx, program.BusinessID, program.ID, programs.Workout{
		ScheduledDate: today.AddDate(0, 0, 31),
		Title:         "Race",
		Status:        programs.StatusPending,
	})
	s.Require().ErrorIs(err, programs.ErrInvalidProgram)

	_, err = repo.AddWorkout(ctx, program.BusinessID, 0, programs.Workout{ScheduledDate: today, Title: "x"})
	s.Require().ErrorIs(err, programs.ErrProgramNotFound)

	p, err := repo.Get(ctx, program.BusinessID, program.ID)
	s.Require().NoError(err)
	s.True(program.EndDate.Equal(p.EndDate))
	s.Len(p.Workouts, 3)
}

// A shrinking update racing a workout insert at the cut-off: exactly one of them wins and no workout
// ends up outside the program dates.
func (s *IntegrationTestSuite) TestPrograms_RepoConcurrentUpdateAndAddWorkout() {
	ctx := context.Background()
	today := time.Now().UTC().Truncate(24 * time.Hour)
	repo := programs.NewRepo(s.db)

	for i := 0; i < 10; i++ {
		program := s.newProgram(ctx, today)
		shrunk := *program
		shrunk.EndDate = today.AddDate(0, 0, 25)

		var wg sync.WaitGroup
		var updateErr, addErr error
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, updateErr = repo.Update(ctx, shrunk)
		}()
		go func() {
			defer wg.Done()
			_, addErr = repo.AddWorkout(ctx, program.BusinessID, program.ID, programs.Workout{
				ScheduledDate: today.AddDate(0, 0, 28),
				Title:         "Late tempo",
				Status:        programs.StatusPending,
			})
		}()
		wg.Wait()

		if updateErr == nil {
			s.Require().True(errors.Is(addErr, programs.ErrInvalidProgram), "run %d: %v", i, addErr)
		} else {
			s.Require().True(errors.Is(updateErr, programs.ErrInvalidProgram), "run %d: %v", i, updateErr)
			s.Require().NoError(addErr, "run %d", i)
		}

		p, err := repo.Get(ctx, program.BusinessID, program.ID)
		s.Require().NoError(err)
		for _, w := range p.Workouts {
			s.False(w.ScheduledDate.Before(p.StartDate), "run %d: %s", i, w.Title)
			s.False(w.ScheduledDate.After(p.EndDate), "run %d: %s", i, w.Title)
		}
	}
}

func (s *IntegrationTestSuite) TestPrograms_CalendarAndWorkouts() {
	ctx := context.Background()
	t := s.T()
	today := time.Now().UTC().Truncate(24 * time.Hour)

	program := s.newProgram(ctx, today)
	programPath := fmt.Sprintf("/api/%s/programs/%d", testBusiness, program.ID)

	resp := doRequest(ctx, t, http.MethodPost, programPath+"/workouts", coachToken, programs.Workout{
		ScheduledDate:   today.AddDate(0, 0, 5),
		Title:           "Tempo; 3x10 min",
		DurationMinutes: 55,
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode, string(resp.Body))
	added := decodeBody[programs.Workout](t, resp)
	s.Equal(programs.StatusPending, added.Status)

	resp = doRequest(ctx, t, http.MethodPost, programPath+"/workouts", coachToken, programs.Workout{
		ScheduledDate: today.AddDate(0, 2, 0),
		Title:         "Out of range",
	})
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	// athlete reads their own calendar
	resp = doRequest(ctx, t, http.MethodGet, programPath+"/calendar.ics", athleteToken, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Equal("text/calendar; charset=utf-8", resp.Header.Get("Content-Type"))
	calendar := string(resp.Body)
	s.True(strings.HasPrefix(calendar, "BEGIN:VCALENDAR\r\n"))
	s.Equal(4, strings.Count(calendar, "BEGIN:VEVENT"))
	s.Contains(calendar, "SUMMARY:Tempo\\; 3x10 min")
	s.Contains(calendar, "UID:"+programs.WorkoutUID(added.ID))

	resp = doRequest(ctx, t, http.MethodDelete, fmt.Sprintf("%s/workouts/%d", programPath, added.ID), coachToken, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(resp.Body))

	resp = doRequest(ctx, t, http.MethodDelete, programPath, coachToken, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Equal(program.ID, decodeBody[programs.DeleteResponse](t, resp).DeletedID)

	resp = doRequest(ctx, t, http.MethodGet, programPath, coachToken, nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
}
