package history

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agenticomni/conform/internal/apperr"
	"github.com/agenticomni/conform/internal/models"
)

// Run kinds.
const (
	KindDocs      = "docs"
	KindStructure = "structure"
)

// Run is one recorded validation run.
type Run struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Root      string    `json:"root"`
	Checked   int       `json:"checked"`
	Failed    int       `json:"failed"`
	Issues    int       `json:"issues"`
	ExitCode  int       `json:"exit_code"`
	StartedAt time.Time `json:"started_at"`
}

// Issue is one recorded issue of a run.
type Issue struct {
	Path     string `json:"path,omitempty"`
	Checksum string `json:"checksum,omitempty"`
	Message  string `json:"message"`
}

// Recorder persists validation reports.
type Recorder interface {
	RecordDocs(rep *models.DocsReport, startedAt time.Time) (string, error)
	RecordStructure(rep *models.StructureReport, startedAt time.Time) (string, error)
}

// Verify *DB satisfies Recorder at compile time.
var _ Recorder = (*DB)(nil)

// RecordDocs stores a documentation report and returns the new run ID.
func (db *DB) RecordDocs(rep *models.DocsReport, startedAt time.Time) (string, error) {
	run := Run{
		Kind:      KindDocs,
		Root:      rep.Root,
		Checked:   rep.Summary.Checked,
		Failed:    rep.Summary.Failed,
		Issues:    rep.Summary.TotalIssues,
		ExitCode:  rep.ExitCode(),
		StartedAt: startedAt,
	}
	var issues []Issue
	for _, d := range rep.Documents {
		for _, msg := range d.Issues {
			issues = append(issues, Issue{Path: d.Path, Checksum: d.Checksum, Message: msg})
		}
	}
	return db.insertRun(run, issues)
}

// RecordStructure stores a structure report and returns the new run ID.
func (db *DB) RecordStructure(rep *models.StructureReport, startedAt time.Time) (string, error) {
	run := Run{
		Kind:      KindStructure,
		Root:      rep.Root,
		Checked:   rep.Summary.Directories + rep.Summary.Files,
		Failed:    rep.Summary.Errors,
		Issues:    rep.Summary.Errors,
		ExitCode:  rep.ExitCode(),
		StartedAt: startedAt,
	}
	issues := make([]Issue, 0, len(rep.Issues))
	for _, msg := range rep.Issues {
		issues = append(issues, Issue{Message: msg})
	}
	return db.insertRun(run, issues)
}

// insertRun writes a run and its issues within a transaction.
func (db *DB) insertRun(run Run, issues []Issue) (string, error) {
	run.ID = uuid.NewString()

	tx, err := db.conn.Begin()
	if err != nil {
		return "", fmt.Errorf("history: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO runs (id, kind, root, checked, failed, issues, exit_code, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Kind, run.Root, run.Checked, run.Failed, run.Issues, run.ExitCode, run.StartedAt.UTC())
	if err != nil {
		return "", fmt.Errorf("history: insert run: %w", err)
	}

	if len(issues) > 0 {
		stmt, err := tx.Prepare(`INSERT INTO issues (run_id, seq, path, checksum, message) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return "", fmt.Errorf("history: prepare issue insert: %w", err)
		}
		defer stmt.Close()
		for i, is := range issues {
			if _, err := stmt.Exec(run.ID, i, is.Path, is.Checksum, is.Message); err != nil {
				return "", fmt.Errorf("history: insert issue: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("history: commit: %w", err)
	}
	return run.ID, nil
}

// Recent returns the most recent runs, newest first. An empty kind matches
// every run.
func (db *DB) Recent(kind string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT id, kind, root, checked, failed, issues, exit_code, started_at
		FROM runs
		WHERE ? = '' OR kind = ?
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?
	`, kind, kind, limit)
	if err != nil {
		return nil, fmt.Errorf("history: recent: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Kind, &r.Root, &r.Checked, &r.Failed, &r.Issues, &r.ExitCode, &r.StartedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Get returns a single run.
func (db *DB) Get(id string) (*Run, error) {
	var r Run
	err := db.conn.QueryRow(`
		SELECT id, kind, root, checked, failed, issues, exit_code, started_at
		FROM runs WHERE id = ?
	`, id).Scan(&r.ID, &r.Kind, &r.Root, &r.Checked, &r.Failed, &r.Issues, &r.ExitCode, &r.StartedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("history: run %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("history: get run: %w", err)
	}
	return &r, nil
}

// Issues returns the issues of a run in recorded order.
func (db *DB) Issues(runID string) ([]Issue, error) {
	rows, err := db.conn.Query(`SELECT path, checksum, message FROM issues WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("history: issues: %w", err)
	}
	defer rows.Close()

	out := make([]Issue, 0)
	for rows.Next() {
		var is Issue
		if err := rows.Scan(&is.Path, &is.Checksum, &is.Message); err != nil {
			return nil, err
		}
		out = append(out, is)
	}
	return out, rows.Err()
}
