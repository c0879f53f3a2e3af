package health

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChecker(t *testing.T) {
	checker := NewChecker("source", func(ctx context.Context) CheckResult {
		return CheckResult{Status: StatusHealthy, Message: "ok"}
	})

	assert.Equal(t, "source", checker.Name())
	result := checker.Check(context.Background())
	assert.Equal(t, StatusHealthy, result.Status)
	assert.Equal(t, "ok", result.Message)
}

func TestRegistry_Check(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		want     Status
	}{
		{"empty", nil, StatusHealthy},
		{"all healthy", []Status{StatusHealthy, StatusHealthy}, StatusHealthy},
		{"one degraded", []Status{StatusHealthy, StatusDegraded}, StatusDegraded},
		{"unhealthy wins", []Status{StatusDegraded, StatusUnhealthy, StatusHealthy}, StatusUnhealthy},
		{"missing status", []Status{""}, StatusUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewRegistry("sessionkit", "1.0.0")
			for i, s := range tt.statuses {
				status := s
				registry.RegisterFunc(string(rune('a'+i)), func(ctx context.Context) CheckResult {
					return CheckResult{Status: status}
				})
			}

			report := registry.Check(context.Background())
			assert.Equal(t, tt.want, report.Status)
			assert.Equal(t, "sessionkit", report.Service)
			assert.Len(t, report.Checks, len(tt.statuses))
		})
	}
}

func TestRegistry_KeepsOrder(t *testing.T) {
	registry := NewRegistry("sessionkit", "1.0.0")
	for _, name := range []string{"source", "anchor", "output", "store"} {
		registry.RegisterFunc(name, func(ctx context.Context) CheckResult {
			time.Sleep(time.Millisecond)
			return CheckResult{Status: StatusHealthy}
		})
	}
	// replacing keeps the slot
	registry.RegisterFunc("anchor", func(ctx context.Context) CheckResult {
		return CheckResult{Status: StatusUnhealthy}
	})

	report := registry.Check(context.Background())
	var names []string
	for _, c := range report.Checks {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"source", "anchor", "output", "store"}, names)
	assert.Equal(t, []string{"anchor"}, report.Failed())
	assert.False(t, report.Healthy())
	assert.Contains(t, report.String(), "Status: unhealthy")
}

func TestRegistry_CheckWithTimeout(t *testing.T) {
	registry := NewRegistry("sessionkit", "1.0.0")
	registry.RegisterFunc("slow", func(ctx context.Context) CheckResult {
		<-ctx.Done()
		return CheckResult{Status: StatusUnhealthy, Message: ctx.Err().Error()}
	})

	report := registry.CheckWithTimeout(20 * time.Millisecond)
	require.Len(t, report.Checks, 1)
	assert.Equal(t, StatusUnhealthy, report.Checks[0].Status)
	assert.Contains(t, report.Checks[0].Message, "deadline")
}

func TestFileCheck(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "sessions.ts")
	require.NoError(t, os.WriteFile(file, []byte("export const sessionsData = []"), 0o644))

	tests := []struct {
		name string
		path string
		want Status
	}{
		{"regular file", file, StatusHealthy},
		{"missing", filepath.Join(dir, "nope.ts"), StatusUnhealthy},
		{"directory", dir, StatusUnhealthy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FileCheck("source", tt.path).Check(context.Background())
			assert.Equal(t, tt.want, result.Status)
			assert.Equal(t, tt.path, result.Details["path"])
		})
	}
}

func TestDirWritableCheck(t *testing.T) {
	dir := t.TempDir()

	result := DirWritableCheck("output", dir).Check(context.Background())
	assert.Equal(t, StatusHealthy, result.Status)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	result = DirWritableCheck("output", filepath.Join(dir, "later")).Check(context.Background())
	assert.Equal(t, StatusDegraded, result.Status)

	result = DirWritableCheck("output", filepath.Join(dir, "a", "b")).Check(context.Background())
	assert.Equal(t, StatusUnhealthy, result.Status)
}
