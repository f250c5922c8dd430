package doccheck

import (
	"errors"
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/agenticomni/conform/internal/frontmatter"
)

// RequiredFields are the header fields every document must declare, in
// reporting order.
var RequiredFields = []string{"title", "version", "date", "authors", "status"}

// Statuses enumerates the accepted status values.
var Statuses = []string{"draft", "review", "approved", "deprecated"}

var (
	versionRe = regexp.MustCompile(`^\d+\.\d+\.\d+$`)
	dateRe    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

var (
	versionRule = validation.Match(versionRe)
	dateRule    = validation.Match(dateRe)
	statusRule  = validation.In(statusValues()...)
)

func statusValues() []interface{} {
	out := make([]interface{}, len(Statuses))
	for i, s := range Statuses {
		out[i] = s
	}
	return out
}

// CheckHeader validates the header block of content. A missing or malformed
// block yields exactly one issue and skips the field rules.
func CheckHeader(content string) []string {
	h, err := frontmatter.Split(content)
	switch {
	case errors.Is(err, frontmatter.ErrMissingHeader):
		return []string{"Missing YAML frontmatter (should start with '---')"}
	case err != nil:
		return []string{"Invalid YAML frontmatter structure"}
	}
	return ValidateHeader(h)
}

// ValidateHeader applies the field rules to a tokenized header. Format rules
// only apply to quoted values.
func ValidateHeader(h frontmatter.Header) []string {
	var issues []string
	for _, f := range RequiredFields {
		if !h.Has(f) {
			issues = append(issues, "Missing required field: "+f)
		}
	}
	if v, ok := h.Quoted("version"); ok && validation.Validate(v, versionRule) != nil {
		issues = append(issues, fmt.Sprintf("Invalid version format: %s (expected X.Y.Z)", v))
	}
	if v, ok := h.Quoted("date"); ok && validation.Validate(v, dateRule) != nil {
		issues = append(issues, fmt.Sprintf("Invalid date format: %s (expected YYYY-MM-DD)", v))
	}
	if v, ok := h.Quoted("status"); ok && validation.Validate(v, statusRule) != nil {
		issues = append(issues, fmt.Sprintf("Invalid status: %s (expected one of draft, review, approved, deprecated)", v))
	}
	return issues
}
