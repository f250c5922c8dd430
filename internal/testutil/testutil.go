// Package testutil provides shared test helpers for building project trees
// and history databases.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/agenticomni/conform/internal/history"
)

// ValidDoc is a document that passes every documentation check.
const ValidDoc = "---\n" +
	"title: \"Guide\"\n" +
	"version: \"1.0.0\"\n" +
	"date: \"2025-01-15\"\n" +
	"authors: [\"Docs Team\"]\n" +
	"status: \"approved\"\n" +
	"---\n\n" +
	"# Guide\n\n" +
	"**Last Updated**: 2025-01-15\n"

// WriteFile writes content at rel under root, creating parent directories.
func WriteFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

// TestProject creates a temporary project root with the given files.
func TestProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		WriteFile(t, root, rel, content)
	}
	return root
}

// TestHistory creates a temporary history database that is automatically cleaned up.
func TestHistory(t *testing.T) *history.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "conform-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := history.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
