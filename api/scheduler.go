/*
scheduler.go - Automated attendance evaluation

PURPOSE:
  Periodically evaluates the trailing window of days and persists the
  outcomes, so stored attendance stays current without anyone triggering a
  report.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Each check covers [today - LookbackDays, yesterday]; today is still open
  - Skips the window when a completed run already covers it, so hourly
    checks on the same day do nothing
  - The window moves every day, which re-evaluates recent days and picks up
    late or corrected clock records
  - Records each run through the reporting service for audit

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - LookbackDays: Window size (default: 7)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewEvaluationScheduler(handler.Reports, store)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: RunReport endpoint (manual persisted run)
  - reporting/service.go: the run itself
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/reporting"
)

// EvaluationScheduler handles automated evaluation of recent days.
type EvaluationScheduler struct {
	Reports       *reporting.Service
	Runs          attendance.OutcomeSink
	CheckInterval time.Duration
	LookbackDays  int
	Enabled       bool

	// Now is overridable for tests.
	Now func() time.Time

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewEvaluationScheduler creates a new scheduler.
func NewEvaluationScheduler(reports *reporting.Service, runs attendance.OutcomeSink) *EvaluationScheduler {
	return &EvaluationScheduler{
		Reports:       reports,
		Runs:          runs,
		CheckInterval: 1 * time.Hour,
		LookbackDays:  7,
		Enabled:       true,
		Now:           time.Now,
	}
}

// Start begins the scheduler.
func (es *EvaluationScheduler) Start() {
	es.mu.Lock()
	defer es.mu.Unlock()

	if !es.Enabled {
		log.Println("[Scheduler] Disabled, not starting")
		return
	}

	if es.ticker != nil {
		return
	}

	es.ticker = time.NewTicker(es.CheckInterval)
	es.stop = make(chan bool)
	es.wg.Add(1)

	go es.run()

	log.Printf("[Scheduler] Started with check interval: %v, lookback: %d days", es.CheckInterval, es.LookbackDays)
}

// Stop stops the scheduler.
func (es *EvaluationScheduler) Stop() {
	es.mu.Lock()
	defer es.mu.Unlock()

	if es.ticker != nil {
		es.ticker.Stop()
		close(es.stop)
		es.wg.Wait()
		es.ticker = nil
		log.Println("[Scheduler] Stopped")
	}
}

func (es *EvaluationScheduler) run() {
	defer es.wg.Done()

	// Run immediately on start
	es.checkAndProcess()

	for {
		select {
		case <-es.ticker.C:
			es.checkAndProcess()
		case <-es.stop:
			return
		}
	}
}

func (es *EvaluationScheduler) checkAndProcess() {
	if _, err := es.RunOnce(context.Background()); err != nil {
		log.Printf("[Scheduler] Error: %v", err)
	}
}

// Window returns the range the next check covers.
func (es *EvaluationScheduler) Window() attendance.DateRange {
	now := time.Now
	if es.Now != nil {
		now = es.Now
	}
	yesterday := attendance.DateOf(now()).AddDays(-1)
	lookback := es.LookbackDays
	if lookback < 1 {
		lookback = 1
	}
	return attendance.DateRange{Start: yesterday.AddDays(1 - lookback), End: yesterday}
}

// RunOnce evaluates the current window unless it is already complete. It
// returns false when the window was skipped.
func (es *EvaluationScheduler) RunOnce(ctx context.Context) (bool, error) {
	window := es.Window()
	log.Printf("[Scheduler] Checking %s", window)

	done, err := es.Runs.IsRangeComplete(ctx, window)
	if err != nil {
		return false, err
	}
	if done {
		log.Printf("[Scheduler] Skipped %s (already done)", window)
		return false, nil
	}

	result, err := es.Reports.Run(ctx, window, reporting.Options{Persist: true})
	if err != nil {
		return false, err
	}

	log.Printf("[Scheduler] Completed run %s: %d days evaluated, %d warnings",
		result.RunID, len(result.Batch.Days), len(result.Warnings))
	return true, nil
}
