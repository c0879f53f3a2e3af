package cmd

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/msto63/sessionkit/internal/catalog"
	"github.com/msto63/sessionkit/internal/render"
	"github.com/msto63/sessionkit/internal/session"
	"github.com/msto63/sessionkit/internal/watch"
	"github.com/msto63/sessionkit/pkg/core/logging"
)

var (
	generateOut       string
	generateOverwrite bool
	generateGlob      string
	generateWatch     bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "PDF-Handouts erzeugen",
	Long: `Erzeugt für jede verlinkte /resources/*.pdf-Datei ein Handout aus den
Daten der Sitzung, in der sie zuerst vorkommt. Vorhandene Dateien bleiben
unverändert, außer mit --overwrite.

Beispiele:
  sessionkit generate
  sessionkit generate --out public/resources --overwrite
  sessionkit generate --glob 's2-*.pdf'
  sessionkit generate --watch            # bei jeder Änderung neu erzeugen`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&generateOut, "out", "", "Ausgabeverzeichnis (überschreibt render.out_dir)")
	generateCmd.Flags().BoolVar(&generateOverwrite, "overwrite", false, "Vorhandene Dateien überschreiben")
	generateCmd.Flags().StringVar(&generateGlob, "glob", "", "Nur Dateien, die auf das Muster passen")
	generateCmd.Flags().BoolVar(&generateWatch, "watch", false, "Quelldatei beobachten und neu erzeugen")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if generateOut != "" {
		cfg.Render.OutDir = generateOut
	}
	if generateOverwrite {
		cfg.Render.Overwrite = true
	}

	renderer := render.NewRenderer(render.Options{
		Author:        cfg.Render.Author,
		Tip:           cfg.Render.Tip,
		MaxObjectives: cfg.Render.MaxObjectives,
		MaxRules:      cfg.Render.MaxRules,
		MaxTerms:      cfg.Render.MaxTerms,
	})
	gen := render.NewGenerator(renderer, render.GeneratorOptions{
		OutDir:    cfg.Render.OutDir,
		Overwrite: cfg.Render.Overwrite,
		Workers:   cfg.Render.Workers,
		Logger:    logger,
	})
	loader := session.NewLoader(cfg.Source.Path, sessionOptions())
	out := cmd.OutOrStdout()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := generateOnce(ctx, out, loader, gen); err != nil {
		return err
	}
	if !generateWatch {
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(out, "Beobachte %s (Strg+C zum Beenden)\n", cfg.Source.Path)
	w := &watch.Watcher{
		Path:     cfg.Source.Path,
		Debounce: cfg.Watch.Debounce.Duration,
		Logger:   logger,
	}
	return w.Run(ctx, func(ctx context.Context) error {
		return generateOnce(ctx, out, loader, gen)
	})
}

func generateOnce(ctx context.Context, out io.Writer, loader *session.Loader, gen *render.Generator) error {
	res, err := loader.Load(ctx)
	if err != nil {
		return err
	}
	entries, err := catalog.Build(res.Sessions).Filter(generateGlob)
	if err != nil {
		return err
	}

	stats, err := gen.Generate(ctx, entries)
	logger.Info("handouts generated", logging.Fields{
		"created": stats.Created,
		"skipped": stats.Skipped,
		"failed":  stats.Failed,
	})
	fmt.Fprintf(out, "PDFs: %d erzeugt, %d übersprungen, %d fehlgeschlagen (%s)\n",
		stats.Created, stats.Skipped, stats.Failed, cfg.Render.OutDir)
	return err
}
