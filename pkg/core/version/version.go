// ============================================================================
// sessionkit - Lesson data tooling
// ============================================================================
//
// Package:     version
// Description: Central version information, overridable via -ldflags
// Author:      Mike Stoffels
// Created:     2026-02-09
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
)

// Build information, set with -ldflags "-X github.com/msto63/sessionkit/pkg/core/version.Version=..."
var (
	Version   = "0.3.0"
	GitCommit = "development"
	BuildDate = "unknown"
)

// Component versions
const (
	// StoreSchema is the SQLite schema revision written by internal/store
	StoreSchema = 1

	// Homework is the instruction table format revision
	Homework = "1"
)

// Info returns the multi-line version banner printed by `sessionkit version`
func Info() string {
	return fmt.Sprintf("sessionkit v%s\n  Git Commit: %s\n  Build Date: %s\n  Go Version: %s\n  OS/Arch:    %s/%s\n",
		Version, GitCommit, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// UserAgent identifies generated artifacts, e.g. the PDF producer field
func UserAgent() string {
	return "sessionkit/" + Version
}
