// ============================================================================
// sessionkit - Lesson data tooling
// ============================================================================
//
// Package:     health
// Description: Named precondition checks with an aggregated report
// Author:      Mike Stoffels
// Created:     2026-03-07
// License:     MIT
// ============================================================================

package health

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// Status represents the outcome of a check
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
	StatusUnknown   Status = "unknown"
)

// CheckResult represents the result of a single check
type CheckResult struct {
	Name      string                 `json:"name"`
	Status    Status                 `json:"status"`
	Message   string                 `json:"message,omitempty"`
	Duration  time.Duration          `json:"duration"`
	Timestamp time.Time              `json:"timestamp"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// Checker is an interface for checks
type Checker interface {
	Name() string
	Check(ctx context.Context) CheckResult
}

// namedCheck wraps a check function with a name
type namedCheck struct {
	name string
	fn   func(ctx context.Context) CheckResult
}

// NewChecker creates a named checker from a function
func NewChecker(name string, fn func(ctx context.Context) CheckResult) Checker {
	return &namedCheck{name: name, fn: fn}
}

func (c *namedCheck) Name() string {
	return c.name
}

func (c *namedCheck) Check(ctx context.Context) CheckResult {
	return c.fn(ctx)
}

// Registry runs a set of checkers
type Registry struct {
	mu       sync.RWMutex
	checkers map[string]Checker
	order    []string
	service  string
	version  string
}

// NewRegistry creates a new check registry
func NewRegistry(service, version string) *Registry {
	return &Registry{
		checkers: make(map[string]Checker),
		service:  service,
		version:  version,
	}
}

// Register adds a checker. A checker with the same name is replaced but
// keeps its position.
func (r *Registry) Register(checker Checker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.checkers[checker.Name()]; !ok {
		r.order = append(r.order, checker.Name())
	}
	r.checkers[checker.Name()] = checker
}

// RegisterFunc adds a check function to the registry
func (r *Registry) RegisterFunc(name string, fn func(ctx context.Context) CheckResult) {
	r.Register(NewChecker(name, fn))
}

// Check runs all checks concurrently. Results are reported in registration
// order; the overall status is the worst single status.
func (r *Registry) Check(ctx context.Context) *Report {
	r.mu.RLock()
	names := append([]string(nil), r.order...)
	checkers := make([]Checker, len(names))
	for i, n := range names {
		checkers[i] = r.checkers[n]
	}
	r.mu.RUnlock()

	report := &Report{
		Service:   r.service,
		Version:   r.version,
		Timestamp: time.Now(),
		Checks:    make([]CheckResult, len(checkers)),
	}

	var wg sync.WaitGroup
	for i, c := range checkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start := time.Now()
			result := c.Check(ctx)
			result.Duration = time.Since(start)
			result.Timestamp = time.Now()
			if result.Name == "" {
				result.Name = c.Name()
			}
			if result.Status == "" {
				result.Status = StatusUnknown
			}
			report.Checks[i] = result
		}()
	}
	wg.Wait()

	report.Status = StatusHealthy
	for _, result := range report.Checks {
		report.Status = worse(report.Status, result.Status)
	}
	return report
}

// CheckWithTimeout runs all checks with a timeout
func (r *Registry) CheckWithTimeout(timeout time.Duration) *Report {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return r.Check(ctx)
}

func worse(a, b Status) Status {
	rank := map[Status]int{StatusHealthy: 0, StatusUnknown: 1, StatusDegraded: 2, StatusUnhealthy: 3}
	if rank[b] > rank[a] {
		return b
	}
	return a
}

// Report represents the overall result
type Report struct {
	Service   string        `json:"service"`
	Version   string        `json:"version"`
	Status    Status        `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
	Checks    []CheckResult `json:"checks"`
}

// Healthy reports whether no check is unhealthy
func (r *Report) Healthy() bool {
	return r.Status != StatusUnhealthy
}

// Failed returns the names of unhealthy checks, sorted
func (r *Report) Failed() []string {
	var out []string
	for _, c := range r.Checks {
		if c.Status == StatusUnhealthy {
			out = append(out, c.Name)
		}
	}
	sort.Strings(out)
	return out
}

// String returns a string representation of the report
func (r *Report) String() string {
	return fmt.Sprintf("Service: %s, Status: %s, Checks: %d", r.Service, r.Status, len(r.Checks))
}

// Common checks

// FileCheck reports unhealthy unless path is a readable regular file
func FileCheck(name, path string) Checker {
	return NewChecker(name, func(ctx context.Context) CheckResult {
		result := CheckResult{Name: name, Details: map[string]interface{}{"path": path}}

		f, err := os.Open(path)
		if err != nil {
			result.Status = StatusUnhealthy
			result.Message = err.Error()
			return result
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil || !info.Mode().IsRegular() {
			result.Status = StatusUnhealthy
			result.Message = "not a regular file"
			return result
		}
		result.Status = StatusHealthy
		result.Details["size"] = info.Size()
		return result
	})
}

// DirWritableCheck reports healthy when a file can be created in dir. A
// missing dir whose parent is writable counts as degraded, since it will be
// created on demand.
func DirWritableCheck(name, dir string) Checker {
	return NewChecker(name, func(ctx context.Context) CheckResult {
		result := CheckResult{Name: name, Details: map[string]interface{}{"dir": dir}}

		probeDir := dir
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			probeDir = filepath.Dir(dir)
			result.Status = StatusDegraded
			result.Message = "directory does not exist yet"
		}

		f, err := os.CreateTemp(probeDir, ".probe-*")
		if err != nil {
			result.Status = StatusUnhealthy
			result.Message = err.Error()
			return result
		}
		f.Close()
		os.Remove(f.Name())

		if result.Status == "" {
			result.Status = StatusHealthy
		}
		return result
	})
}
