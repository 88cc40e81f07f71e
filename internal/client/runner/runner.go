// Package runner drives simulated automation runs. No browser or HTTP
// request is ever executed: delays and pass/fail outcomes come from an
// injectable Strategy, and resulting statuses are written back through the
// session's data backend with the current identity for the audit trail.
package runner

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/zentesthq/zentest/internal/client/backend"
	"github.com/zentesthq/zentest/internal/common"
	"github.com/zentesthq/zentest/internal/models"
)

// BulkID is the ExecutingID reported while a bulk run is in flight.
const BulkID = "bulk"

// BulkResult summarizes a bulk run.
type BulkResult struct {
	Passed int
	Total  int
}

type Runner struct {
	backend  backend.Backend
	strategy Strategy

	mu          sync.Mutex
	executingID string
	logs        []models.LogEntry

	// Sink, when set, receives every log entry as it is emitted (the CLI
	// streams it to the terminal). Progress, when set, is called after
	// each bulk case completes.
	Sink     func(models.LogEntry)
	Progress func(done, passed, failed, total int)

	now func() time.Time
}

func New(b backend.Backend, s Strategy) *Runner {
	return &Runner{backend: b, strategy: s, now: time.Now}
}

// ExecutingID returns the id of the in-flight run: a case id for a single
// run, BulkID for a bulk run, or "" when idle.
func (r *Runner) ExecutingID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.executingID
}

// Logs returns a copy of the current log stream.
func (r *Runner) Logs() []models.LogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.LogEntry, len(r.logs))
	copy(out, r.logs)
	return out
}

func (r *Runner) log(msg string, typ models.LogType) {
	entry := models.LogEntry{
		Msg:  fmt.Sprintf("[%s] %s", r.now().Format("15:04:05"), msg),
		Type: typ,
	}
	r.mu.Lock()
	r.logs = append(r.logs, entry)
	sink := r.Sink
	r.mu.Unlock()
	if sink != nil {
		sink(entry)
	}
}

// begin claims the runner for one run and resets the log stream. It fails
// without any state change when a run is already in flight.
func (r *Runner) begin(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.executingID != "" {
		return common.ErrRunInProgress
	}
	r.executingID = id
	r.logs = nil
	return nil
}

func (r *Runner) finish() {
	r.mu.Lock()
	r.executingID = ""
	r.mu.Unlock()
}

// Run executes a single functional case: environment spin-up, each
// non-blank step in order, then one pass/fail draw. The delay, once
// started, is never cancelled.
func (r *Runner) Run(ctx context.Context, tc models.TestCase, by models.Identity) (models.Status, error) {
	if err := r.begin(tc.ID); err != nil {
		return "", err
	}
	defer r.finish()

	r.log(fmt.Sprintf("Initializing environment for %s...", tc.ID), models.LogInfo)
	time.Sleep(r.strategy.InitDelay())

	for _, step := range tc.Steps {
		if strings.TrimSpace(step) == "" {
			continue
		}
		r.log(fmt.Sprintf("Executing: %s...", step), models.LogInfo)
		time.Sleep(r.strategy.StepDelay())
	}

	status := models.StatusFailed
	if r.strategy.Outcome() {
		status = models.StatusPassed
		r.log("ASSERTION PASSED", models.LogSuccess)
	} else {
		r.log("ASSERTION FAILED: Element mismatch", models.LogError)
	}

	if err := r.backend.UpdateStatus(ctx, tc.ID, status, by); err != nil {
		return status, fmt.Errorf("writing status: %w", err)
	}
	return status, nil
}

// RunBulk executes every selected case with automation enabled, strictly
// sequentially, and emits a summary line with pass/total counts. Cases
// without automation or outside the selection are skipped.
func (r *Runner) RunBulk(ctx context.Context, cases []models.TestCase, selected map[string]bool, by models.Identity) (BulkResult, error) {
	targets := make([]models.TestCase, 0, len(selected))
	for _, c := range cases {
		if selected[c.ID] && c.HasAutomation {
			targets = append(targets, c)
		}
	}
	if len(targets) == 0 {
		return BulkResult{}, nil
	}

	if err := r.begin(BulkID); err != nil {
		return BulkResult{}, err
	}
	defer r.finish()

	r.log(fmt.Sprintf(">>> STARTING BULK RUN: %d Cases", len(targets)), models.LogInfo)

	var firstErr error
	passed := 0
	for i, tc := range targets {
		r.log(fmt.Sprintf("Testing %s...", tc.ID), models.LogInfo)
		time.Sleep(r.strategy.StepDelay())

		status := models.StatusFailed
		if r.strategy.Outcome() {
			status = models.StatusPassed
			passed++
			r.log(fmt.Sprintf("PASSED: %s", tc.Title), models.LogSuccess)
		} else {
			r.log(fmt.Sprintf("FAILED: %s", tc.Title), models.LogError)
		}

		// Independent per-case writes: a failure here does not stop the
		// remaining cases.
		if err := r.backend.UpdateStatus(ctx, tc.ID, status, by); err != nil && firstErr == nil {
			firstErr = err
		}

		if r.Progress != nil {
			r.Progress(i+1, passed, i+1-passed, len(targets))
		}
	}

	typ := models.LogError
	if passed == len(targets) {
		typ = models.LogSuccess
	}
	r.log(fmt.Sprintf("RUN COMPLETE. Passed: %d/%d", passed, len(targets)), typ)

	return BulkResult{Passed: passed, Total: len(targets)}, firstErr
}

// RunAPI simulates one API check: the request is only pretended, and the
// drawn outcome decides whether the expected status "matched".
func (r *Runner) RunAPI(ctx context.Context, tc models.APITestCase, by models.Identity) (models.Status, error) {
	if err := r.begin(tc.ID); err != nil {
		return "", err
	}
	defer r.finish()

	r.log(fmt.Sprintf("Initializing environment for %s...", tc.ID), models.LogInfo)
	time.Sleep(r.strategy.InitDelay())

	r.log(fmt.Sprintf("Dispatching %s %s...", tc.Method, tc.URL), models.LogInfo)
	time.Sleep(r.strategy.StepDelay())

	status := models.StatusFailed
	if r.strategy.Outcome() {
		status = models.StatusPassed
		r.log(fmt.Sprintf("RESPONSE %d: expectation met", tc.ExpectedStatus), models.LogSuccess)
	} else {
		r.log(fmt.Sprintf("RESPONSE MISMATCH: expected %d", tc.ExpectedStatus), models.LogError)
	}

	if err := r.backend.UpdateAPIStatus(ctx, tc.ID, status, by); err != nil {
		return status, fmt.Errorf("writing status: %w", err)
	}
	return status, nil
}
