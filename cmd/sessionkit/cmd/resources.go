package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/msto63/sessionkit/internal/catalog"
)

var resourcesGlob string

var resourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "Verlinkte PDF-Ressourcen anzeigen",
	Long: `Fasst alle /resources/*.pdf-Links über alle Sitzungen zusammen.
Jede Datei erscheint einmal, mit der Sitzung, in der sie zuerst vorkommt.

Beispiele:
  sessionkit resources
  sessionkit resources --glob 's1-*.pdf'`,
	RunE: runResources,
}

func init() {
	rootCmd.AddCommand(resourcesCmd)

	resourcesCmd.Flags().StringVar(&resourcesGlob, "glob", "", "Nur Dateien, die auf das Muster passen")
}

func runResources(cmd *cobra.Command, args []string) error {
	res, err := loadSessions(cmd.Context())
	if err != nil {
		return err
	}
	entries, err := catalog.Build(res.Sessions).Filter(resourcesGlob)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "Keine Ressourcen gefunden.")
		return nil
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers("DATEI", "TITEL", "SITZUNG", "VERWENDET IN").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, e := range entries {
		used := make([]string, len(e.UsedIn))
		for i, n := range e.UsedIn {
			used[i] = strconv.Itoa(n)
		}
		t.Row(e.FileName(), e.Title, strconv.Itoa(e.Primary.Number), strings.Join(used, ", "))
	}

	fmt.Fprintln(out, t.Render())
	fmt.Fprintf(out, "Gesamt: %d Datei(en)\n", len(entries))
	return nil
}
