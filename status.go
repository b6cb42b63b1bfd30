package portodash

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// This file implements the status-reporting contract of the background
// snapshot job. The scheduler's cron wiring is not this package's concern;
// only the status record that schedulers write and interactive surfaces read.

// JobStatus is the JSON shape of the scheduler status file.
type JobStatus struct {
	LastRun    *string `json:"last_run"`   // RFC3339 or null
	NextRun    *string `json:"next_run"`   // RFC3339 or null
	LastError  *string `json:"last_error"` // message or null
	JobRunning bool    `json:"job_running"`
}

// SchedulerStatus tracks the snapshot job's health. It is safe for concurrent
// use: a scheduled job updates it while an interactive session reads it.
type SchedulerStatus struct {
	mu        sync.Mutex
	lastRun   time.Time
	nextRun   time.Time
	lastError string
	running   bool
}

// SetRunning updates the job-running flag.
func (s *SchedulerStatus) SetRunning(running bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = running
}

// SetError records the last error message; an empty message clears it.
func (s *SchedulerStatus) SetError(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = message
}

// SetRuns updates the last and next run times; a zero time leaves the
// corresponding field unchanged.
func (s *SchedulerStatus) SetRuns(last, next time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !last.IsZero() {
		s.lastRun = last
	}
	if !next.IsZero() {
		s.nextRun = next
	}
}

// Report returns the current status as its JSON shape.
func (s *SchedulerStatus) Report() JobStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	report := JobStatus{JobRunning: s.running}
	if !s.lastRun.IsZero() {
		v := s.lastRun.UTC().Format(time.RFC3339)
		report.LastRun = &v
	}
	if !s.nextRun.IsZero() {
		v := s.nextRun.UTC().Format(time.RFC3339)
		report.NextRun = &v
	}
	if s.lastError != "" {
		v := s.lastError
		report.LastError = &v
	}
	return report
}

// WriteFile persists the current status as JSON at the given path.
func (s *SchedulerStatus) WriteFile(path string) error {
	content, err := json.Marshal(s.Report())
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("cannot write scheduler status %q: %w", path, err)
	}
	return nil
}

// ReadStatusFile reads a status file written by WriteFile (possibly by
// another process).
func ReadStatusFile(path string) (JobStatus, error) {
	var status JobStatus
	content, err := os.ReadFile(path)
	if err != nil {
		return status, fmt.Errorf("cannot read scheduler status %q: %w", path, err)
	}
	if err := json.Unmarshal(content, &status); err != nil {
		return status, fmt.Errorf("malformed scheduler status %q: %w", path, err)
	}
	return status, nil
}
