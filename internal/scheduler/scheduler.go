package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"StockLens/internal/model"
	"StockLens/internal/recorder"
	"StockLens/internal/view"

	"github.com/robfig/cron/v3"
)

// PruneCron runs the load-record cleanup daily at 03:00.
const PruneCron = "0 0 3 * * *"

// Refresher reloads a page and reports whether the result was applied.
type Refresher interface {
	Refresh(ctx context.Context) (view.DashboardState, bool)
}

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron      *cron.Cron
	Dashboard Refresher
	Recorder  recorder.Recorder
	Retention time.Duration
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler. retention is how long load records
// are kept; zero disables pruning.
func NewScheduler(ctx context.Context, dash Refresher, rec recorder.Recorder, retention time.Duration) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Dashboard: dash,
		Recorder:  rec,
		Retention: retention,
		Ctx:       ctx,
	}
}

// RegisterAll registers the dashboard refresh and the daily prune.
func (s *Scheduler) RegisterAll(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	if s.Retention > 0 && s.Recorder != nil {
		if _, err := s.Cron.AddFunc(PruneCron, s.pruneTask); err != nil {
			return fmt.Errorf("register prune task: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for running tasks.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunNow refreshes the dashboard immediately (start-up warm-up).
func (s *Scheduler) RunNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	start := time.Now()
	state, applied := s.Dashboard.Refresh(s.Ctx)
	if !applied {
		log.Println("[INFO] dashboard refresh superseded")
		return
	}
	synthetic := 0
	for _, ix := range state.Indices {
		if ix.Source != model.SourceRemote {
			synthetic++
		}
	}
	for _, c := range state.Cards {
		if c.InfoSource != model.SourceRemote {
			synthetic++
		}
	}
	log.Printf("[INFO] dashboard refreshed in %s: %d indices, %d cards, %d synthetic",
		time.Since(start).Round(time.Millisecond), len(state.Indices), len(state.Cards), synthetic)
}

func (s *Scheduler) pruneTask() {
	n, err := s.Recorder.Prune(s.Retention)
	if err != nil {
		log.Printf("[ERROR] prune load records: %v", err)
		return
	}
	log.Printf("[INFO] pruned %d load records older than %s", n, s.Retention)
}
