package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msto63/sessionkit/internal/homework"
	"github.com/msto63/sessionkit/pkg/core/errors"
)

var (
	homeworkTable  string
	homeworkDryRun bool
)

var homeworkCmd = &cobra.Command{
	Use:   "homework",
	Short: "Hausaufgaben in die Quelldatei schreiben",
	Long: `Schreibt für jede Sitzung der Tabelle das Feld homeworkInstructions
direkt hinter die resources-Liste. Vorhandene Einträge werden ersetzt, der
Rest der Datei bleibt Byte für Byte erhalten. Mehrfaches Ausführen ändert
nichts mehr.

Die Tabelle ist eine YAML-Datei (sessions: {1: "...", 16: null}); ohne
--table wird die eingebaute Tabelle verwendet. null entfernt das Feld.

Beispiele:
  sessionkit homework --dry-run
  sessionkit homework --table hausaufgaben.yaml`,
	RunE: runHomework,
}

func init() {
	rootCmd.AddCommand(homeworkCmd)

	homeworkCmd.Flags().StringVar(&homeworkTable, "table", "", "YAML-Tabelle (überschreibt homework.path)")
	homeworkCmd.Flags().BoolVar(&homeworkDryRun, "dry-run", false, "Nur anzeigen, nichts schreiben")
}

func runHomework(cmd *cobra.Command, args []string) error {
	path := cfg.Homework.Path
	if homeworkTable != "" {
		path = homeworkTable
	}

	table := homework.DefaultTable()
	if path != "" {
		var err error
		table, err = homework.LoadTableFile(path)
		if err != nil {
			return errors.Wrap(err, errors.CodeConfig, "Hausaufgaben-Tabelle laden").WithDetail("path", path)
		}
	}

	report, err := homework.EditFile(cfg.Source.Path, table, homework.FileOptions{
		Options: homework.Options{
			Anchor: cfg.Source.Anchor,
			Field:  cfg.Homework.Field,
			Logger: logger,
		},
		DryRun: homeworkDryRun,
	})
	if err != nil {
		return err
	}

	printReport(cmd.OutOrStdout(), report, homeworkDryRun)
	return nil
}

func printReport(w io.Writer, r homework.Report, dryRun bool) {
	if dryRun {
		fmt.Fprintln(w, "Probelauf, Datei unverändert.")
	}
	fmt.Fprintf(w, "Eingefügt:     %s\n", joinNumbers(r.Inserted))
	fmt.Fprintf(w, "Entfernt:      %s\n", joinNumbers(r.Removed))
	fmt.Fprintf(w, "Ohne resources: %s\n", joinNumbers(r.Skipped))
	fmt.Fprintf(w, "Nicht gefunden: %s\n", joinNumbers(r.Missing))
}

func joinNumbers(ns []int) string {
	if len(ns) == 0 {
		return "-"
	}
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}
