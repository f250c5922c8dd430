// Package models defines the domain types shared by the conformance checkers.
package models

// Document is a Markdown file read fresh from disk for one validation run.
type Document struct {
	Path     string `json:"path"` // relative to the project root, slash separated
	AbsPath  string `json:"-"`
	Content  string `json:"-"`
	Checksum string `json:"checksum"`
}

// DocumentMetadata is the lightweight form returned by discovery.
type DocumentMetadata struct {
	Path    string `json:"path"`
	AbsPath string `json:"-"`
}

// DocumentResult holds the ordered issues found in one document.
type DocumentResult struct {
	Path     string   `json:"path"`
	Checksum string   `json:"checksum,omitempty"`
	Issues   []string `json:"issues"`
}

// Valid reports whether no issue was found.
func (r DocumentResult) Valid() bool {
	return len(r.Issues) == 0
}

// DocsSummary aggregates a documentation run.
type DocsSummary struct {
	Checked     int `json:"checked"`
	Passed      int `json:"passed"`
	Failed      int `json:"failed"`
	TotalIssues int `json:"total_issues"`
}

// DocsReport is the outcome of validating a documentation tree.
type DocsReport struct {
	Root      string           `json:"root"`
	DocsDir   string           `json:"docs_dir"`
	Empty     bool             `json:"empty"`
	Documents []DocumentResult `json:"documents"`
	Summary   DocsSummary      `json:"summary"`
}

// Summarize computes the summary from the document results.
func Summarize(results []DocumentResult) DocsSummary {
	s := DocsSummary{Checked: len(results)}
	for _, r := range results {
		if r.Valid() {
			continue
		}
		s.Failed++
		s.TotalIssues += len(r.Issues)
	}
	s.Passed = s.Checked - s.Failed
	return s
}

// ExitCode returns 1 when at least one document failed.
func (r *DocsReport) ExitCode() int {
	if r.Summary.Failed > 0 {
		return 1
	}
	return 0
}

// StructureSummary aggregates a structure run.
type StructureSummary struct {
	Directories int `json:"directories"`
	Files       int `json:"files"`
	Errors      int `json:"errors"`
}

// StructureReport is the outcome of checking a project layout.
type StructureReport struct {
	Root    string           `json:"root"`
	Issues  []string         `json:"issues"`
	Summary StructureSummary `json:"summary"`
}

// OK reports whether every expectation held.
func (r *StructureReport) OK() bool {
	return len(r.Issues) == 0
}

// ExitCode returns 1 when any expectation failed.
func (r *StructureReport) ExitCode() int {
	if r.OK() {
		return 0
	}
	return 1
}
