package doccheck

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/agenticomni/conform/internal/models"
)

var linkRe = regexp.MustCompile(`\[([^\]]+)\]\(([^\)]+)\)`)

// Link is an inline Markdown link.
type Link struct {
	Text   string
	Target string
}

// External reports whether the link points outside the filesystem or at an
// anchor in the same document.
func (l Link) External() bool {
	return strings.HasPrefix(l.Target, "http://") ||
		strings.HasPrefix(l.Target, "https://") ||
		strings.HasPrefix(l.Target, "#")
}

// ExtractLinks returns every [text](target) link in content in textual order.
func ExtractLinks(content string) []Link {
	matches := linkRe.FindAllStringSubmatch(content, -1)
	out := make([]Link, 0, len(matches))
	for _, m := range matches {
		out = append(out, Link{Text: m[1], Target: m[2]})
	}
	return out
}

// CheckLinks resolves internal links relative to the document's directory.
func (c *Checker) CheckLinks(doc models.Document) []string {
	dir := filepath.Dir(doc.AbsPath)
	var issues []string
	for _, l := range ExtractLinks(doc.Content) {
		if l.External() {
			continue
		}
		target := filepath.FromSlash(l.Target)
		if !filepath.IsAbs(target) {
			target = filepath.Join(dir, target)
		}
		if err := c.stat(target); err != nil {
			issues = append(issues, fmt.Sprintf("Broken link: [%s](%s)", l.Text, l.Target))
		}
	}
	return issues
}
