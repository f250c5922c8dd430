// Package doccheck applies the documentation conventions to a single
// document: header metadata, internal links and the freshness marker.
package doccheck

import (
	"log/slog"
	"os"

	"github.com/agenticomni/conform/internal/models"
	"github.com/agenticomni/conform/internal/storage"
)

// StatFunc reports whether a filesystem path exists.
type StatFunc func(path string) error

// Checker runs the three document sub-checks.
type Checker struct {
	stat   StatFunc
	logger *slog.Logger
}

// Option configures a Checker.
type Option func(*Checker)

// WithStat replaces the existence check used to resolve links.
func WithStat(fn StatFunc) Option {
	return func(c *Checker) {
		c.stat = fn
	}
}

// WithLogger sets the logger used for per-document debug output.
func WithLogger(l *slog.Logger) Option {
	return func(c *Checker) {
		c.logger = l
	}
}

// New creates a Checker.
func New(opts ...Option) *Checker {
	c := &Checker{
		stat: func(p string) error {
			_, err := os.Stat(p)
			return err
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check runs the header, link and freshness checks on doc. None of them
// short-circuits another; issues are appended in that order.
func (c *Checker) Check(doc models.Document) models.DocumentResult {
	issues := make([]string, 0)
	issues = append(issues, CheckHeader(doc.Content)...)
	issues = append(issues, c.CheckLinks(doc)...)
	issues = append(issues, CheckFreshness(doc.Content)...)

	c.logger.Debug("doccheck: checked",
		slog.String("path", doc.Path),
		slog.Int("issues", len(issues)))

	return models.DocumentResult{
		Path:     doc.Path,
		Checksum: doc.Checksum,
		Issues:   issues,
	}
}

// CheckPath reads path through store and checks it. A read failure becomes
// the single issue of the result.
func (c *Checker) CheckPath(store storage.Provider, path string) models.DocumentResult {
	doc, err := store.Read(path)
	if err != nil {
		c.logger.Warn("doccheck: read failed", slog.String("path", path), slog.String("error", err.Error()))
		return models.DocumentResult{
			Path:   path,
			Issues: []string{"Error reading file: " + err.Error()},
		}
	}
	return c.Check(doc)
}
