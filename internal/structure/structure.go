// Package structure compares a declared project skeleton against the
// filesystem.
package structure

import (
	"fmt"
	"os"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/agenticomni/conform/internal/models"
)

// Kind is the expected type of a filesystem entry.
type Kind string

// Entry kinds.
const (
	KindDir  Kind = "dir"
	KindFile Kind = "file"
)

// Expectation is one required entry, relative to the project root.
type Expectation struct {
	Path string `yaml:"path" json:"path"`
	Kind Kind   `yaml:"kind" json:"kind"`
}

// Validate validates the expectation.
func (e Expectation) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Path, validation.Required, validation.By(relativePath)),
		validation.Field(&e.Kind, validation.Required, validation.In(KindDir, KindFile)),
	)
}

func relativePath(v interface{}) error {
	p, _ := v.(string)
	if filepath.IsAbs(p) {
		return fmt.Errorf("must be relative to the project root")
	}
	return nil
}

// Expectations is an ordered skeleton: directories are checked before files,
// each in declaration order.
type Expectations struct {
	Dirs  []string `yaml:"dirs" json:"dirs"`
	Files []string `yaml:"files" json:"files"`
}

// List flattens the expectations into checking order.
func (e Expectations) List() []Expectation {
	out := make([]Expectation, 0, len(e.Dirs)+len(e.Files))
	for _, d := range e.Dirs {
		out = append(out, Expectation{Path: d, Kind: KindDir})
	}
	for _, f := range e.Files {
		out = append(out, Expectation{Path: f, Kind: KindFile})
	}
	return out
}

// Validate validates every entry.
func (e Expectations) Validate() error {
	for _, x := range e.List() {
		if err := x.Validate(); err != nil {
			return fmt.Errorf("structure: %s: %w", x.Path, err)
		}
	}
	return nil
}

// DefaultExpectations returns the AgenticOmni application skeleton.
func DefaultExpectations() Expectations {
	return Expectations{
		Dirs: []string{
			"src",
			"src/ingestion_parsing",
			"src/storage_indexing",
			"src/rag_orchestration",
			"src/eval_harness",
			"src/security_auth",
			"src/api",
			"src/shared",
			"tests",
			"docs",
			"config",
			"scripts",
			"frontend",
		},
		Files: []string{
			"README.md",
			".gitignore",
			"src/__init__.py",
			"src/ingestion_parsing/__init__.py",
			"src/storage_indexing/__init__.py",
			"src/rag_orchestration/__init__.py",
			"src/eval_harness/__init__.py",
			"src/security_auth/__init__.py",
			"src/api/__init__.py",
			"src/shared/__init__.py",
		},
	}
}

// Check verifies each expectation under root and returns the issues in
// checking order.
func Check(root string, exps []Expectation) []string {
	var issues []string
	for _, e := range exps {
		info, err := os.Stat(filepath.Join(root, filepath.FromSlash(e.Path)))
		switch e.Kind {
		case KindDir:
			if err != nil {
				issues = append(issues, "Missing directory: "+e.Path)
			} else if !info.IsDir() {
				issues = append(issues, "Not a directory: "+e.Path)
			}
		case KindFile:
			if err != nil {
				issues = append(issues, "Missing file: "+e.Path)
			} else if !info.Mode().IsRegular() {
				issues = append(issues, "Not a file: "+e.Path)
			}
		}
	}
	return issues
}

// Validate checks exps under root and builds the report.
func Validate(root string, exps Expectations) *models.StructureReport {
	issues := Check(root, exps.List())
	if issues == nil {
		issues = []string{}
	}
	return &models.StructureReport{
		Root:   root,
		Issues: issues,
		Summary: models.StructureSummary{
			Directories: len(exps.Dirs),
			Files:       len(exps.Files),
			Errors:      len(issues),
		},
	}
}
