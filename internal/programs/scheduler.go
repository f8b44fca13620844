package programs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron"
	log "github.com/sirupsen/logrus"
)

type advancer interface {
	Advance(ctx context.Context) (AdvanceResult, error)
}

// Scheduler runs the workouts advance batch in-process on a cron spec
// (six fields, seconds first, or a descriptor like "@every 1h").
type Scheduler struct {
	cron    *cron.Cron
	advance advancer
	timeout time.Duration

	// a run is skipped if the previous one is still going
	running sync.Mutex
}

func NewScheduler(spec string, advance advancer, timeout time.Duration) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(),
		advance: advance,
		timeout: timeout,
	}
	if err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("add workouts advance job [%s]: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	log.Infof("workouts advance scheduler started")
	s.cron.Start()
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
	// wait for an in-flight run
	s.running.Lock()
	defer s.running.Unlock()
	log.Infof("workouts advance scheduler stopped")
}

func (s *Scheduler) run() {
	if !s.running.TryLock() {
		log.Warnf("workouts advance still running, skipping")
		return
	}
	defer s.running.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	result, err := s.advance.Advance(ctx)
	if err != nil {
		log.Errorf("scheduled workouts advance: %s", err)
		return
	}
	log.Infof("scheduled workouts advance: %d scheduled, %d missed", result.Scheduled, result.Missed)
}
