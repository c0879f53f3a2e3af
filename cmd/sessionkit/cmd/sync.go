package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msto63/sessionkit/internal/store"
	"github.com/msto63/sessionkit/pkg/core/logging"
)

var syncDB string

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sitzungen in SQLite übernehmen",
	Long: `Überträgt alle Sitzungen und ihre Ressourcen in eine SQLite-Datenbank.
Vorhandene Sitzungen werden aktualisiert, neue angelegt; jeder Lauf wird
mit eigener ID protokolliert.

Beispiele:
  sessionkit sync
  sessionkit sync --db data/sessions.db`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().StringVar(&syncDB, "db", "", "Datenbankdatei (überschreibt store.path)")
}

func runSync(cmd *cobra.Command, args []string) error {
	if syncDB != "" {
		cfg.Store.Path = syncDB
	}

	res, err := loadSessions(cmd.Context())
	if err != nil {
		return err
	}

	db, err := store.NewSQLiteStore(store.Config{Path: cfg.Store.Path})
	if err != nil {
		return err
	}
	defer db.Close()

	stats, err := db.Sync(cmd.Context(), res.Sessions)
	if err != nil {
		return err
	}

	logger.Info("sessions synced", logging.Fields{
		"db":      cfg.Store.Path,
		"sync_id": stats.RunID,
		"created": stats.Created,
		"updated": stats.Updated,
	})
	fmt.Fprintf(cmd.OutOrStdout(), "Sync %s: %d neu, %d aktualisiert (%s)\n",
		stats.RunID, stats.Created, stats.Updated, cfg.Store.Path)
	return nil
}
