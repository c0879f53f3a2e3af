package render

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/msto63/sessionkit/internal/catalog"
	"github.com/msto63/sessionkit/pkg/core/errors"
	"github.com/msto63/sessionkit/pkg/core/logging"
)

// GeneratorOptions configures a Generator
type GeneratorOptions struct {
	OutDir    string
	Overwrite bool
	Workers   int
	Logger    *logging.Logger
}

// Stats counts the outcome of a Generate call
type Stats struct {
	Created int
	Skipped int
	Failed  int
}

// Generator renders handouts for catalog entries into a directory
type Generator struct {
	renderer *Renderer
	opts     GeneratorOptions
	logger   *logging.Logger
}

// NewGenerator creates a generator
func NewGenerator(r *Renderer, opts GeneratorOptions) *Generator {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	return &Generator{
		renderer: r,
		opts:     opts,
		logger:   opts.Logger.WithField("out_dir", opts.OutDir),
	}
}

// Generate renders a file for every entry whose target does not exist yet,
// or for every entry when Overwrite is set. Failures of single files are
// counted and joined into the returned error; the other files still render.
func (g *Generator) Generate(ctx context.Context, entries []catalog.Entry) (Stats, error) {
	var stats Stats
	if err := os.MkdirAll(g.opts.OutDir, 0o755); err != nil {
		return stats, errors.Wrap(err, errors.CodeIO, "create output directory").
			WithDetail("dir", g.opts.OutDir)
	}

	pool, err := ants.NewPool(g.opts.Workers)
	if err != nil {
		return stats, errors.Wrap(err, errors.CodeRender, "create render pool")
	}
	defer pool.Release()

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		errs   []error
		ctxErr error
	)
	record := func(err error, target string) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			stats.Failed++
			errs = append(errs, err)
			g.logger.Error("render failed", logging.Fields{"file": target, "err": err})
			return
		}
		stats.Created++
		g.logger.Info("handout created", logging.Fields{"file": target})
	}

	for _, e := range entries {
		if ctxErr = ctx.Err(); ctxErr != nil {
			break
		}

		target := filepath.Join(g.opts.OutDir, e.FileName())
		if !g.opts.Overwrite {
			if _, err := os.Stat(target); err == nil {
				mu.Lock()
				stats.Skipped++
				mu.Unlock()
				g.logger.Debug("handout exists, skipping", logging.Fields{"file": target})
				continue
			}
		}

		entry := e
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			record(g.writeFile(target, entry), target)
		})
		if err != nil {
			wg.Done()
			record(errors.Wrap(err, errors.CodeRender, "submit render task"), target)
		}
	}

	wg.Wait()

	// workers are done, errs and stats are no longer shared
	return stats, errors.Join(append(errs, ctxErr)...)
}

// writeFile renders into a temporary file and renames it into place, so a
// failed render never leaves a truncated handout behind
func (g *Generator) writeFile(target string, e catalog.Entry) error {
	tmp, err := os.CreateTemp(filepath.Dir(target), ".handout-*.pdf")
	if err != nil {
		return errors.Wrap(err, errors.CodeIO, "create temp file").WithDetail("file", target)
	}
	defer os.Remove(tmp.Name())

	if err := g.renderer.Render(tmp, e); err != nil {
		tmp.Close()
		return errors.Wrap(err, errors.CodeRender, "render handout").WithDetail("file", target)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return errors.Wrap(err, errors.CodeIO, "set handout permissions").WithDetail("file", target)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, errors.CodeIO, "close temp file").WithDetail("file", target)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return errors.Wrap(err, errors.CodeIO, "move handout into place").WithDetail("file", target)
	}
	return nil
}
