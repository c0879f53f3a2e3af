package session

import (
	"context"
	"os"

	"github.com/msto63/sessionkit/pkg/core/cache"
	"github.com/msto63/sessionkit/pkg/core/errors"
	"github.com/msto63/sessionkit/pkg/core/logging"
)

// Loader reads a sessions file and extracts it, reusing the previous result
// while the file content is unchanged
type Loader struct {
	path   string
	opts   Options
	cache  *cache.Cache[*Result]
	logger *logging.Logger
}

// NewLoader creates a loader for the file at path
func NewLoader(path string, opts Options) *Loader {
	opts = opts.withDefaults()
	return &Loader{
		path:   path,
		opts:   opts,
		cache:  cache.New[*Result](cache.DefaultConfig()),
		logger: opts.Logger.WithField("source", path),
	}
}

// Path returns the file the loader reads
func (l *Loader) Path() string {
	return l.path
}

// Load reads the file and returns its sessions. The returned Result is
// shared between calls with identical content and must not be modified.
func (l *Loader) Load(ctx context.Context) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	buf, err := os.ReadFile(l.path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeIO, "read sessions file").
			WithOp("session.Load").
			WithDetail("path", l.path)
	}

	key := cache.ContentKey(buf)
	if res, ok := l.cache.Get(key); ok {
		l.logger.Debug("source unchanged, using cached result", logging.Fields{"sessions": len(res.Sessions)})
		return res, nil
	}

	res, err := Extract(buf, l.opts)
	if err != nil {
		l.logger.Error("extraction failed", logging.Fields{"err": err})
		return nil, err
	}
	l.cache.Set(key, res)

	l.logger.Info("sessions extracted", logging.Fields{
		"bytes":    len(buf),
		"records":  res.Records,
		"sessions": len(res.Sessions),
		"dropped":  res.Dropped,
		"warnings": len(res.Warnings),
	})
	return res, nil
}
