package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/agenticomni/conform/internal/models"
)

// ErrInvalidUTF8 is returned by Read when a document is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("invalid UTF-8 content")

// FS implements Provider backed by the local file system.
type FS struct {
	root      string // absolute project root
	extension string
	exclude   []string
	logger    *slog.Logger
}

// Option configures an FS.
type Option func(*FS)

// WithExtension sets the document extension (default ".md").
func WithExtension(ext string) Option {
	return func(f *FS) {
		if ext != "" {
			f.extension = ext
		}
	}
}

// WithExclude sets doublestar patterns matched against paths relative to the
// listed directory. Matching files are skipped.
func WithExclude(patterns ...string) Option {
	return func(f *FS) {
		f.exclude = append([]string(nil), patterns...)
	}
}

// WithLogger sets the logger used for skipped directories.
func WithLogger(l *slog.Logger) Option {
	return func(f *FS) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewFS creates a new FS provider rooted at the given directory.
// The directory must already exist.
func NewFS(root string, opts ...Option) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	f := &FS{root: abs, extension: ".md", logger: slog.Default()}
	for _, opt := range opts {
		opt(f)
	}
	for _, p := range f.exclude {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("storage: invalid exclude pattern: %q", p)
		}
	}
	return f, nil
}

func (f *FS) safePath(rel string) (string, error) {
	if rel == "" {
		return f.root, nil
	}
	cleaned := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("storage: absolute paths not allowed: %s", rel)
	}
	abs := filepath.Join(f.root, cleaned)
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) && abs != f.root {
		return "", fmt.Errorf("storage: path escapes project root: %s", rel)
	}
	return abs, nil
}

// List walks dir and returns every document with the configured extension
// that no exclude pattern matches. Subdirectories that cannot be read are
// skipped; only an unreadable dir fails the listing.
func (f *FS) List(dir string) ([]models.DocumentMetadata, error) {
	base, err := f.safePath(dir)
	if err != nil {
		return nil, err
	}
	var out []models.DocumentMetadata
	err = filepath.WalkDir(base, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if d != nil && d.IsDir() && p != base {
				f.logger.Warn("storage: skip unreadable dir",
					slog.String("path", p),
					slog.String("error", walkErr.Error()))
				return filepath.SkipDir
			}
			return walkErr
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), f.extension) {
			return nil
		}
		relToDir, _ := filepath.Rel(base, p)
		if f.excluded(filepath.ToSlash(relToDir)) {
			return nil
		}
		rel, _ := filepath.Rel(f.root, p)
		out = append(out, models.DocumentMetadata{
			Path:    filepath.ToSlash(rel),
			AbsPath: p,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func (f *FS) excluded(rel string) bool {
	for _, p := range f.exclude {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// Read returns a document's content. Content that is not valid UTF-8 is
// rejected with ErrInvalidUTF8.
func (f *FS) Read(path string) (models.Document, error) {
	abs, err := f.safePath(path)
	if err != nil {
		return models.Document{}, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return models.Document{}, fmt.Errorf("storage: read %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return models.Document{}, fmt.Errorf("storage: read %s: %w", path, ErrInvalidUTF8)
	}
	return models.Document{
		Path:     filepath.ToSlash(filepath.Clean(filepath.FromSlash(path))),
		AbsPath:  abs,
		Content:  string(data),
		Checksum: checksum(data),
	}, nil
}

func checksum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
