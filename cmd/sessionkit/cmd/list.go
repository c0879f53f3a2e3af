package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/msto63/sessionkit/internal/session"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Sitzungen auflisten",
	Long: `Listet alle Sitzungen der Quelldatei in Quellreihenfolge.

Beispiele:
  sessionkit list
  sessionkit list --json
  sessionkit list --source src/data/sessions.ts --anchor sessionsData`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolVar(&listJSON, "json", false, "Ausgabe als JSON")
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func runList(cmd *cobra.Command, args []string) error {
	res, err := loadSessions(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if listJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Sessions)
	}

	if len(res.Sessions) == 0 {
		fmt.Fprintln(out, "Keine Sitzungen gefunden.")
		return nil
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers("#", "DATUM", "TITEL", "BLOCK", "PDFS", "HAUSAUFGABE").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, s := range res.Sessions {
		t.Row(sessionRow(s)...)
	}

	fmt.Fprintln(out, t.Render())
	fmt.Fprintf(out, "Gesamt: %d Sitzung(en)", len(res.Sessions))
	if res.Dropped > 0 {
		fmt.Fprintf(out, ", %d Eintrag/Einträge übersprungen", res.Dropped)
	}
	fmt.Fprintln(out)
	return nil
}

func sessionRow(s session.Session) []string {
	date, block, homework := "-", "-", "nein"
	if s.Date != nil {
		date = s.Date.String()
	}
	if s.Block != nil {
		block = strconv.Itoa(s.Block.Number)
	}
	if s.Homework != nil {
		homework = "ja"
	}
	return []string{
		strconv.Itoa(s.Number),
		date,
		s.Title,
		block,
		strconv.Itoa(len(s.Resources)),
		homework,
	}
}
