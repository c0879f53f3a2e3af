package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/msto63/sessionkit/internal/session"
	"github.com/msto63/sessionkit/pkg/core/errors"
)

var showDump bool

var showCmd = &cobra.Command{
	Use:   "show <nummer>",
	Short: "Eine Sitzung anzeigen",
	Long: `Zeigt alle extrahierten Felder einer Sitzung.

Beispiele:
  sessionkit show 3
  sessionkit show 3 --dump     # Go-Struktur mit go-spew`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().BoolVar(&showDump, "dump", false, "Rohe Struktur ausgeben")
}

func runShow(cmd *cobra.Command, args []string) error {
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		return errors.Newf(errors.CodeInvalidInput, "ungültige Sitzungsnummer: %s", args[0])
	}

	res, err := loadSessions(cmd.Context())
	if err != nil {
		return err
	}
	s, ok := res.Session(n)
	if !ok {
		return errors.Newf(errors.CodeNotFound, "Sitzung %d nicht gefunden", n)
	}

	out := cmd.OutOrStdout()
	if showDump {
		dump := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}
		dump.Fdump(out, s)
		return nil
	}
	printSession(out, s)
	return nil
}

func printSession(w io.Writer, s session.Session) {
	fmt.Fprintf(w, "Sitzung %d: %s\n", s.Number, s.Title)
	fmt.Fprintln(w, strings.Repeat("=", 40))
	if s.Subtitle != nil {
		fmt.Fprintf(w, "Untertitel:  %s\n", *s.Subtitle)
	}
	if s.Date != nil {
		fmt.Fprintf(w, "Datum:       %s\n", s.Date)
	}
	if s.Block != nil {
		fmt.Fprintf(w, "Block:       %d %s\n", s.Block.Number, s.Block.Title)
	}

	if len(s.Objectives) > 0 {
		fmt.Fprintln(w, "\nLernziele:")
		for _, o := range s.Objectives {
			fmt.Fprintf(w, "  - %s\n", o)
		}
	}
	if s.Grammar != nil {
		fmt.Fprintln(w, "\nGrammatik:")
		if s.Grammar.Title != nil {
			fmt.Fprintf(w, "  %s\n", *s.Grammar.Title)
		}
		for _, r := range s.Grammar.Rules {
			fmt.Fprintf(w, "  - %s\n", r)
		}
	}
	if s.Vocabulary != nil {
		fmt.Fprintln(w, "\nWortschatz:")
		if s.Vocabulary.Title != nil {
			fmt.Fprintf(w, "  %s\n", *s.Vocabulary.Title)
		}
		if len(s.Vocabulary.Terms) > 0 {
			fmt.Fprintf(w, "  %s\n", strings.Join(s.Vocabulary.Terms, ", "))
		}
	}
	if len(s.Resources) > 0 {
		fmt.Fprintln(w, "\nRessourcen:")
		for _, r := range s.Resources {
			fmt.Fprintf(w, "  %s  %s\n", r.URL, r.Title)
		}
	}
	if s.Homework != nil {
		fmt.Fprintf(w, "\nHausaufgabe:\n  %s\n", *s.Homework)
	}
}
