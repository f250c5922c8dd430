package history

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/agenticomni/conform/internal/apperr"
	"github.com/agenticomni/conform/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "conform-history-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM runs`).Scan(&count); err != nil {
		t.Fatalf("runs table missing: %v", err)
	}
	if err := db.conn.QueryRow(`SELECT count(*) FROM issues`).Scan(&count); err != nil {
		t.Fatalf("issues table missing: %v", err)
	}
}

func TestRecordDocs(t *testing.T) {
	db := testDB(t)
	docs := []models.DocumentResult{
		{Path: "docs/a.md", Checksum: "c1", Issues: []string{"Missing required field: title", "Missing 'Last Updated' timestamp"}},
		{Path: "docs/b.md", Checksum: "c2", Issues: []string{}},
	}
	rep := &models.DocsReport{Root: "/p", Documents: docs, Summary: models.Summarize(docs)}

	id, err := db.RecordDocs(rep, time.Now())
	if err != nil {
		t.Fatalf("RecordDocs: %v", err)
	}

	run, err := db.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if run.Kind != KindDocs || run.Checked != 2 || run.Failed != 1 || run.Issues != 2 || run.ExitCode != 1 {
		t.Errorf("run = %+v", run)
	}

	issues, err := db.Issues(id)
	if err != nil {
		t.Fatalf("Issues: %v", err)
	}
	if len(issues) != 2 {
		t.Fatalf("len(issues) = %d, want 2", len(issues))
	}
	if issues[0].Message != "Missing required field: title" || issues[0].Path != "docs/a.md" || issues[0].Checksum != "c1" {
		t.Errorf("issues[0] = %+v", issues[0])
	}
}

func TestRecordStructure(t *testing.T) {
	db := testDB(t)
	rep := &models.StructureReport{
		Root:    "/p",
		Issues:  []string{"Missing directory: src/api"},
		Summary: models.StructureSummary{Directories: 13, Files: 10, Errors: 1},
	}
	id, err := db.RecordStructure(rep, time.Now())
	if err != nil {
		t.Fatalf("RecordStructure: %v", err)
	}
	run, err := db.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if run.Checked != 23 || run.ExitCode != 1 {
		t.Errorf("run = %+v", run)
	}
}

func TestRecent_NewestFirstAndKindFilter(t *testing.T) {
	db := testDB(t)
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	empty := &models.DocsReport{Documents: []models.DocumentResult{}}
	first, _ := db.RecordDocs(empty, base)
	_, _ = db.RecordStructure(&models.StructureReport{Issues: []string{}}, base.Add(time.Minute))
	last, _ := db.RecordDocs(empty, base.Add(2*time.Minute))

	all, err := db.Recent("", 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	if all[0].ID != last {
		t.Errorf("newest = %s, want %s", all[0].ID, last)
	}

	docsRuns, err := db.Recent(KindDocs, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(docsRuns) != 2 || docsRuns[1].ID != first {
		t.Errorf("docs runs = %+v", docsRuns)
	}

	limited, _ := db.Recent("", 1)
	if len(limited) != 1 {
		t.Errorf("limit ignored: %d", len(limited))
	}
}

func TestGet_NotFound(t *testing.T) {
	db := testDB(t)
	_, err := db.Get("missing")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
