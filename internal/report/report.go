package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/agenticomni/conform/internal/models"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

var rule = strings.Repeat("=", 70)

// Renderer writes reports in one format.
type Renderer struct {
	w       io.Writer
	format  string
	project string
	styles  *Styles
}

// New creates a Renderer. project names the checked project in text banners.
func New(w io.Writer, format, project string) *Renderer {
	if format == "" {
		format = FormatText
	}
	return &Renderer{w: w, format: format, project: project, styles: NewStyles(w)}
}

// Docs renders a documentation report.
func (r *Renderer) Docs(rep *models.DocsReport) error {
	if r.format == FormatJSON {
		return r.json(rep)
	}
	r.docsText(rep)
	return nil
}

// Structure renders a structure report.
func (r *Renderer) Structure(rep *models.StructureReport) error {
	if r.format == FormatJSON {
		return r.json(rep)
	}
	r.structureText(rep)
	return nil
}

// DocsDirNotFound renders the environment error of a missing docs directory.
func (r *Renderer) DocsDirNotFound(dir string) error {
	if r.format == FormatJSON {
		return r.json(map[string]string{"error": "docs directory not found", "docs_dir": dir})
	}
	fmt.Fprintln(r.w, r.styles.Error.Render("Error: docs directory not found"))
	return nil
}

func (r *Renderer) json(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (r *Renderer) title(s string) string {
	if r.project == "" {
		return s
	}
	return r.project + " " + s
}

func (r *Renderer) docsText(rep *models.DocsReport) {
	s := r.styles
	fmt.Fprintln(r.w, s.Title.Render(r.title("Documentation Validator")))
	fmt.Fprintln(r.w, rule)
	fmt.Fprintln(r.w)

	if rep.Empty {
		fmt.Fprintln(r.w, s.Warning.Render("⚠️  No markdown files found"))
		return
	}

	fmt.Fprintf(r.w, "Found %d documentation files to validate\n\n", rep.Summary.Checked)

	for _, d := range rep.Documents {
		fmt.Fprintf(r.w, "%s %s\n", s.Label.Render("Checking:"), d.Path)
		if d.Valid() {
			fmt.Fprintln(r.w, s.Success.Render("  ✓ Passed"))
		} else {
			fmt.Fprintln(r.w, s.Error.Render("  ✗ Failed"))
			for _, is := range d.Issues {
				fmt.Fprintf(r.w, "  ❌ %s\n", is)
			}
		}
		fmt.Fprintln(r.w)
	}

	sum := rep.Summary
	fmt.Fprintln(r.w, rule)
	fmt.Fprintln(r.w, s.Title.Render("Validation Summary"))
	fmt.Fprintln(r.w, rule)
	fmt.Fprintf(r.w, "Total files checked: %d\n", sum.Checked)
	fmt.Fprintf(r.w, "Passed: %s\n", s.Success.Render(fmt.Sprint(sum.Passed)))
	fmt.Fprintf(r.w, "Failed: %s\n", s.Error.Render(fmt.Sprint(sum.Failed)))
	fmt.Fprintf(r.w, "Total issues: %s\n", s.Error.Render(fmt.Sprint(sum.TotalIssues)))
	fmt.Fprintln(r.w)

	if sum.Failed == 0 {
		fmt.Fprintln(r.w, s.Success.Render("✅ All documentation is valid!"))
		return
	}
	fmt.Fprintln(r.w, s.Error.Render("❌ Validation failed!"))
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, "To fix issues:")
	fmt.Fprintln(r.w, "  1. Add version headers to documents missing them")
	fmt.Fprintln(r.w, "  2. Fix broken internal links")
	fmt.Fprintln(r.w, "  3. Add 'Last Updated' timestamp to documents")
	fmt.Fprintln(r.w)
	fmt.Fprintf(r.w, "See %s/README.md for documentation standards\n", rep.DocsDir)
}

func (r *Renderer) structureText(rep *models.StructureReport) {
	s := r.styles
	fmt.Fprintln(r.w, rule)
	fmt.Fprintln(r.w, s.Title.Render(r.title("Project Structure Validation")))
	fmt.Fprintln(r.w, rule)
	fmt.Fprintln(r.w)

	if rep.OK() {
		fmt.Fprintln(r.w, s.Success.Render("✅ All required directories and files are present!"))
		fmt.Fprintln(r.w)
		fmt.Fprintf(r.w, "Validated %d directories\n", rep.Summary.Directories)
		fmt.Fprintf(r.w, "Validated %d files\n", rep.Summary.Files)
		return
	}

	fmt.Fprintln(r.w, s.Error.Render("❌ Validation failed!"))
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, "Errors found:")
	for _, is := range rep.Issues {
		fmt.Fprintf(r.w, "  - %s\n", is)
	}
	fmt.Fprintln(r.w)
	fmt.Fprintf(r.w, "Total errors: %d\n", len(rep.Issues))
}
