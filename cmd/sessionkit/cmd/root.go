package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/msto63/sessionkit/internal/scan"
	"github.com/msto63/sessionkit/internal/session"
	"github.com/msto63/sessionkit/pkg/core/config"
	"github.com/msto63/sessionkit/pkg/core/errors"
	"github.com/msto63/sessionkit/pkg/core/logging"
)

var (
	cfgFile    string
	verbose    bool
	sourcePath string
	anchorName string
)

// runtime state prepared by the root command before any subcommand runs
var (
	cfg    *config.Config
	logger *logging.Logger
	runID  string
)

var rootCmd = &cobra.Command{
	Use:   "sessionkit",
	Short: "Kursdaten aus sessions.ts lesen und verarbeiten",
	Long: `sessionkit liest die Sitzungsdaten eines Kurses direkt aus der
TypeScript-Quelldatei (export const sessionsData = [...]) ohne sie auszuführen.

Befehle:
  list       - Sitzungen als Tabelle oder JSON
  show       - Eine Sitzung im Detail
  resources  - Alle verlinkten PDF-Ressourcen
  generate   - PDF-Handouts erzeugen
  homework   - Hausaufgaben in die Quelldatei schreiben
  sync       - Sitzungen in eine SQLite-Datenbank übernehmen`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command and prints any error to stderr
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		reportError(os.Stderr, err)
	}
	if logger != nil {
		_ = logger.Sync()
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config-Datei (default: ./configs/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose Output")
	rootCmd.PersistentFlags().StringVar(&sourcePath, "source", "", "Pfad zur sessions.ts (überschreibt source.path)")
	rootCmd.PersistentFlags().StringVar(&anchorName, "anchor", "", "Name der Datenkonstante (überschreibt source.anchor)")
}

// setup loads the configuration, applies flag overrides and creates the
// logger tagged with a fresh run id
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return errors.Wrap(err, errors.CodeConfig, "Konfiguration laden")
	}

	if sourcePath != "" {
		cfg.Source.Path = sourcePath
	}
	if anchorName != "" {
		cfg.Source.Anchor = anchorName
	}
	if verbose {
		cfg.General.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, errors.CodeConfig, "Konfiguration prüfen")
	}

	runID = uuid.NewString()
	logger = logging.NewLogger(logging.LoggerConfig{
		ServiceName: "sessionkit",
		Level:       cfg.General.LogLevel,
		Format:      cfg.General.LogFormat,
	}).WithFields(logging.Fields{
		"run_id":  runID,
		"command": cmd.Name(),
	})
	return nil
}

// loadSessions extracts the sessions from the configured source file
func loadSessions(ctx context.Context) (*session.Result, error) {
	loader := session.NewLoader(cfg.Source.Path, sessionOptions())
	res, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	logger.Debug("sessions loaded", logging.Fields{
		"path":     cfg.Source.Path,
		"sessions": len(res.Sessions),
		"dropped":  res.Dropped,
	})
	return res, nil
}

func sessionOptions() session.Options {
	return session.Options{
		Anchor:  cfg.Source.Anchor,
		Workers: cfg.Source.Workers,
		Logger:  logger,
	}
}

// reportError prints err in the CLI's error format. A missing anchor gets a
// message naming the constant and the file.
func reportError(w io.Writer, err error) {
	var anchorErr *scan.AnchorError
	if errors.As(err, &anchorErr) {
		path := "<unbekannt>"
		if cfg != nil {
			path = cfg.Source.Path
		}
		fmt.Fprintf(w, "Fehler: %q nicht gefunden in %s (%s)\n", anchorErr.Name, path, anchorErr.Reason)
		return
	}
	fmt.Fprintf(w, "Fehler: %v\n", err)
}
