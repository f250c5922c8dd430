package internal

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agenticomni/conform/internal/apperr"
	"github.com/agenticomni/conform/internal/docs"
	"github.com/agenticomni/conform/internal/history"
	"github.com/agenticomni/conform/internal/models"
	"github.com/agenticomni/conform/internal/report"
	"github.com/agenticomni/conform/internal/structure"
	"github.com/agenticomni/conform/internal/testutil"
)

func runDocs(t *testing.T, root string, cfg *Config) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := RunDocs(context.Background(),
		WithConfig(cfg),
		WithRoot(root),
		WithOutput(&stdout, &stderr),
	)
	return stdout.String(), err
}

func TestRunDocs_Valid(t *testing.T) {
	root := testutil.TestProject(t, map[string]string{"docs/a.md": testutil.ValidDoc})

	out, err := runDocs(t, root, NewDefaultConfig())
	if err != nil {
		t.Fatalf("RunDocs: %v", err)
	}
	if !strings.Contains(out, "All documentation is valid!") {
		t.Errorf("output:\n%s", out)
	}
}

func TestRunDocs_Failed(t *testing.T) {
	root := testutil.TestProject(t, map[string]string{"docs/a.md": "nothing here"})

	out, err := runDocs(t, root, NewDefaultConfig())
	if !errors.Is(err, apperr.ErrValidationFailed) {
		t.Fatalf("err = %v, want ErrValidationFailed", err)
	}
	if !strings.Contains(out, "Checking: docs/a.md") || !strings.Contains(out, "Failed: 1") {
		t.Errorf("output:\n%s", out)
	}
}

func TestRunDocs_NoDocuments(t *testing.T) {
	root := testutil.TestProject(t, map[string]string{"docs/templates/t.md": "x"})

	out, err := runDocs(t, root, NewDefaultConfig())
	if err != nil {
		t.Fatalf("empty docs dir should succeed: %v", err)
	}
	if !strings.Contains(out, "No markdown files found") {
		t.Errorf("output:\n%s", out)
	}
}

func TestRunDocs_MissingDocsDir(t *testing.T) {
	root := testutil.TestProject(t, map[string]string{"README.md": "x"})

	out, err := runDocs(t, root, NewDefaultConfig())
	if !errors.Is(err, apperr.ErrDocsDirNotFound) {
		t.Fatalf("err = %v, want ErrDocsDirNotFound", err)
	}
	if !strings.Contains(out, "Error: docs directory not found") {
		t.Errorf("output:\n%s", out)
	}
}

func TestRunDocs_RecordsHistory(t *testing.T) {
	root := testutil.TestProject(t, map[string]string{"docs/a.md": "bad"})
	cfg := NewDefaultConfig()
	cfg.History.Path = filepath.Join(t.TempDir(), "history.db")

	if _, err := runDocs(t, root, cfg); !errors.Is(err, apperr.ErrValidationFailed) {
		t.Fatalf("err = %v", err)
	}

	db, err := history.Open(cfg.History.Path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	runs, err := db.Recent(history.KindDocs, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].Failed != 1 || runs[0].ExitCode != 1 {
		t.Errorf("runs = %+v", runs)
	}
}

func TestRunDocs_RequiresConfig(t *testing.T) {
	if err := RunDocs(context.Background()); err == nil {
		t.Error("expected error without config")
	}
}

func TestRunStructure(t *testing.T) {
	root := testutil.TestProject(t, map[string]string{"src/app.py": "", "README.md": "x"})
	cfg := NewDefaultConfig()
	cfg.Structure = structure.Expectations{Dirs: []string{"src", "tests"}, Files: []string{"README.md"}}

	var stdout bytes.Buffer
	err := RunStructure(context.Background(), WithConfig(cfg), WithRoot(root), WithOutput(&stdout, &bytes.Buffer{}))
	if !errors.Is(err, apperr.ErrValidationFailed) {
		t.Fatalf("err = %v, want ErrValidationFailed", err)
	}
	if !strings.Contains(stdout.String(), "  - Missing directory: tests\n") {
		t.Errorf("output:\n%s", stdout.String())
	}

	testutil.WriteFile(t, root, "tests/.keep", "")
	stdout.Reset()
	err = RunStructure(context.Background(), WithConfig(cfg), WithRoot(root), WithOutput(&stdout, &bytes.Buffer{}))
	if err != nil {
		t.Fatalf("RunStructure: %v", err)
	}
	if !strings.Contains(stdout.String(), "Validated 2 directories") {
		t.Errorf("output:\n%s", stdout.String())
	}
}

type fakeRecorder struct {
	err       error
	docs      []*models.DocsReport
	structure []*models.StructureReport
}

func (f *fakeRecorder) RecordDocs(rep *models.DocsReport, _ time.Time) (string, error) {
	f.docs = append(f.docs, rep)
	return "docs-run", f.err
}

func (f *fakeRecorder) RecordStructure(rep *models.StructureReport, _ time.Time) (string, error) {
	f.structure = append(f.structure, rep)
	return "structure-run", f.err
}

func TestRunDocsOnce_RecordsThroughRecorder(t *testing.T) {
	root := testutil.TestProject(t, map[string]string{"docs/a.md": "nothing here"})
	rec := &fakeRecorder{}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	err := runDocsOnce(context.Background(), report.New(io.Discard, report.FormatText, "Test"), rec,
		docs.Options{Root: root, Logger: logger}, logger)
	if !errors.Is(err, apperr.ErrValidationFailed) {
		t.Fatalf("err = %v, want ErrValidationFailed", err)
	}
	if len(rec.docs) != 1 || rec.docs[0].Summary.Failed != 1 {
		t.Errorf("recorded = %+v", rec.docs)
	}
}

func TestRunDocsOnce_RecordFailureKeepsStatus(t *testing.T) {
	root := testutil.TestProject(t, map[string]string{"docs/a.md": testutil.ValidDoc})
	rec := &fakeRecorder{err: errors.New("disk full")}
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	err := runDocsOnce(context.Background(), report.New(io.Discard, report.FormatText, "Test"), rec,
		docs.Options{Root: root, Logger: logger}, logger)
	if err != nil {
		t.Fatalf("runDocsOnce: %v", err)
	}
	if !strings.Contains(logs.String(), "history: record failed") {
		t.Errorf("logs:\n%s", logs.String())
	}
}

func TestRunStructureOnce_RecordsThroughRecorder(t *testing.T) {
	root := testutil.TestProject(t, map[string]string{"README.md": "x"})
	rec := &fakeRecorder{}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	exps := structure.Expectations{Dirs: []string{"src"}, Files: []string{"README.md"}}

	err := runStructureOnce(report.New(io.Discard, report.FormatText, "Test"), rec, root, exps, logger)
	if !errors.Is(err, apperr.ErrValidationFailed) {
		t.Fatalf("err = %v, want ErrValidationFailed", err)
	}
	if len(rec.structure) != 1 || len(rec.structure[0].Issues) != 1 {
		t.Errorf("recorded = %+v", rec.structure)
	}
}

func TestRecorder_NilWhenHistoryDisabled(t *testing.T) {
	if rec := recorder(nil); rec != nil {
		t.Errorf("recorder(nil) = %#v, want nil interface", rec)
	}
}
