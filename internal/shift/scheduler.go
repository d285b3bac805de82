package shift

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the nightly auto-shift. The fetch path already shifts
// on demand; the scheduled run covers users who never fetch.
type Scheduler struct {
	cronScheduler *cron.Cron
	engine        *Engine
	schedule      string
	jobID         cron.EntryID
}

// NewScheduler builds a scheduler running the engine on the given
// cron expression (with a seconds field), e.g. "0 5 0 * * *" for
// 00:05 every day.
func NewScheduler(engine *Engine, schedule string) *Scheduler {
	return &Scheduler{
		cronScheduler: cron.New(cron.WithSeconds()),
		engine:        engine,
		schedule:      schedule,
	}
}

// Start registers the shift job and starts the cron loop.
func (s *Scheduler) Start() error {
	var err error
	s.jobID, err = s.cronScheduler.AddFunc(s.schedule, func() {
		log.Println("Running scheduled daily task shift")
		if err := s.engine.ShiftAll(); err != nil {
			log.Printf("Scheduled shift failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("error scheduling shift job: %w", err)
	}

	s.cronScheduler.Start()
	log.Printf("Auto-shift scheduler started with schedule %q", s.schedule)
	return nil
}

// Stop terminates the scheduler.
func (s *Scheduler) Stop() {
	if s.cronScheduler != nil {
		s.cronScheduler.Stop()
		log.Println("Auto-shift scheduler stopped")
	}
}
