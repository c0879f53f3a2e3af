package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/msto63/sessionkit/internal/homework"
	"github.com/msto63/sessionkit/internal/session"
	"github.com/msto63/sessionkit/internal/store"
	"github.com/msto63/sessionkit/pkg/core/errors"
	"github.com/msto63/sessionkit/pkg/core/health"
	"github.com/msto63/sessionkit/pkg/core/version"
)

var doctorJSON bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Voraussetzungen prüfen",
	Long: `Prüft Quelldatei, Datenkonstante, Ausgabeverzeichnis, Datenbank und
Hausaufgaben-Tabelle, ohne etwas zu verändern.

Beispiele:
  sessionkit doctor
  sessionkit doctor --json`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)

	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "Ausgabe als JSON")
}

var statusStyles = map[health.Status]lipgloss.Style{
	health.StatusHealthy:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	health.StatusDegraded:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	health.StatusUnhealthy: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	health.StatusUnknown:   mutedStyle,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	registry := health.NewRegistry("sessionkit", version.Version)
	registry.Register(health.FileCheck("source", cfg.Source.Path))
	registry.RegisterFunc("anchor", checkAnchor)
	registry.Register(health.DirWritableCheck("output", cfg.Render.OutDir))
	registry.RegisterFunc("store", checkStore)
	registry.RegisterFunc("homework", checkHomeworkTable)

	report := registry.CheckWithTimeout(10 * time.Second)
	out := cmd.OutOrStdout()

	if doctorJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		for _, c := range report.Checks {
			fmt.Fprintf(out, "%-10s %-20s %s\n", c.Name, statusStyles[c.Status].Render(string(c.Status)), c.Message)
		}
		fmt.Fprintf(out, "\nGesamt: %s\n", report.Status)
	}

	if !report.Healthy() {
		return errors.Newf(errors.CodeInvalidInput, "Prüfung fehlgeschlagen: %v", report.Failed())
	}
	return nil
}

func checkAnchor(ctx context.Context) health.CheckResult {
	buf, err := os.ReadFile(cfg.Source.Path)
	if err != nil {
		return health.CheckResult{Status: health.StatusUnhealthy, Message: err.Error()}
	}
	res, err := session.Extract(buf, session.Options{Anchor: cfg.Source.Anchor, Logger: logger})
	if err != nil {
		return health.CheckResult{Status: health.StatusUnhealthy, Message: err.Error()}
	}

	result := health.CheckResult{
		Status:  health.StatusHealthy,
		Message: fmt.Sprintf("%d Sitzungen", len(res.Sessions)),
		Details: map[string]interface{}{
			"records":  res.Records,
			"dropped":  res.Dropped,
			"warnings": len(res.Warnings),
		},
	}
	if len(res.Warnings) > 0 {
		result.Status = health.StatusDegraded
		result.Message = fmt.Sprintf("%d Sitzungen, %d Warnung(en)", len(res.Sessions), len(res.Warnings))
	}
	return result
}

func checkStore(ctx context.Context) health.CheckResult {
	if _, err := os.Stat(cfg.Store.Path); os.IsNotExist(err) {
		return health.CheckResult{Status: health.StatusDegraded, Message: "noch nicht angelegt"}
	}
	db, err := store.NewSQLiteStore(store.Config{Path: cfg.Store.Path})
	if err != nil {
		return health.CheckResult{Status: health.StatusUnhealthy, Message: err.Error()}
	}
	defer db.Close()

	v, err := db.SchemaVersion(ctx)
	if err != nil {
		return health.CheckResult{Status: health.StatusUnhealthy, Message: err.Error()}
	}
	return health.CheckResult{Status: health.StatusHealthy, Message: fmt.Sprintf("Schema %d", v)}
}

func checkHomeworkTable(ctx context.Context) health.CheckResult {
	if cfg.Homework.Path == "" {
		t := homework.DefaultTable()
		return health.CheckResult{Status: health.StatusHealthy, Message: fmt.Sprintf("eingebaut, %d Einträge", t.Len())}
	}
	t, err := homework.LoadTableFile(cfg.Homework.Path)
	if err != nil {
		return health.CheckResult{Status: health.StatusUnhealthy, Message: err.Error()}
	}
	return health.CheckResult{Status: health.StatusHealthy, Message: fmt.Sprintf("%d Einträge", t.Len())}
}
