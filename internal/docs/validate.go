// Package docs discovers documentation files under a project and validates
// each of them with doccheck.
package docs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/agenticomni/conform/internal/apperr"
	"github.com/agenticomni/conform/internal/doccheck"
	"github.com/agenticomni/conform/internal/models"
	"github.com/agenticomni/conform/internal/storage"
)

// DefaultExclude skips document templates and the aggregate changelog.
var DefaultExclude = []string{"**/templates/**", "**/CHANGELOG.md"}

// Options controls a documentation run.
type Options struct {
	Root      string   // project root
	Dir       string   // docs directory relative to Root
	Extension string   // document extension, ".md" when empty
	Exclude   []string // doublestar patterns relative to Dir
	Workers   int      // concurrent document checks, 1 when <= 0
	Logger    *slog.Logger
}

func (o *Options) normalize() {
	if o.Root == "" {
		o.Root = "."
	}
	if o.Dir == "" {
		o.Dir = "docs"
	}
	if o.Extension == "" {
		o.Extension = ".md"
	}
	if o.Workers <= 0 {
		o.Workers = 1
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// NewStore opens the document source for opts.
func NewStore(opts Options) (*storage.FS, error) {
	opts.normalize()
	return storage.NewFS(opts.Root,
		storage.WithExtension(opts.Extension),
		storage.WithExclude(opts.Exclude...),
		storage.WithLogger(opts.Logger),
	)
}

// Validate checks every discovered document. It fails with
// apperr.ErrDocsDirNotFound before any document work when the docs directory
// is absent. Results are ordered by path whatever the worker count.
func Validate(ctx context.Context, opts Options) (*models.DocsReport, error) {
	opts.normalize()

	docsDir := filepath.Join(opts.Root, filepath.FromSlash(opts.Dir))
	if info, err := os.Stat(docsDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("docs: %s: %w", docsDir, apperr.ErrDocsDirNotFound)
	}

	store, err := NewStore(opts)
	if err != nil {
		return nil, fmt.Errorf("docs: open store: %w", err)
	}

	checker := doccheck.New(doccheck.WithLogger(opts.Logger))
	return Run(ctx, store, checker, opts)
}

// Run validates the documents store lists under opts.Dir.
func Run(ctx context.Context, store storage.Provider, checker *doccheck.Checker, opts Options) (*models.DocsReport, error) {
	opts.normalize()

	metas, err := store.List(opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("docs: discover: %w", err)
	}

	report := &models.DocsReport{
		Root:      opts.Root,
		DocsDir:   opts.Dir,
		Documents: make([]models.DocumentResult, len(metas)),
	}
	if len(metas) == 0 {
		opts.Logger.Warn("docs: no documents found", slog.String("dir", opts.Dir))
		report.Empty = true
		return report, nil
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, m := range metas {
		if gCtx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			report.Documents[i] = checker.CheckPath(store, m.Path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("docs: validate: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("docs: validate: %w", err)
	}

	report.Summary = models.Summarize(report.Documents)
	opts.Logger.Info("docs: validated",
		slog.Int("checked", report.Summary.Checked),
		slog.Int("failed", report.Summary.Failed),
		slog.Int("issues", report.Summary.TotalIssues))
	return report, nil
}
