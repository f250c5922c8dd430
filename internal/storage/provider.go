// Package storage defines the read-only document source used by the checkers.
package storage

import "github.com/agenticomni/conform/internal/models"

// Provider is the interface for document discovery and reads.
type Provider interface {
	// List returns metadata for every matching document under dir (relative
	// to the project root), sorted by path.
	List(dir string) ([]models.DocumentMetadata, error)
	// Read returns the document at path (relative to the project root).
	Read(path string) (models.Document, error)
}
