// Package frontmatter extracts and tokenizes the leading header block of a
// Markdown document.
package frontmatter

import (
	"errors"
	"strings"
)

// Delimiter opens and closes a header block. It must be followed by a newline.
const Delimiter = "---\n"

var (
	// ErrMissingHeader is returned when content does not start with Delimiter.
	ErrMissingHeader = errors.New("frontmatter: missing header")
	// ErrMalformedHeader is returned when no closing Delimiter follows the opening one.
	ErrMalformedHeader = errors.New("frontmatter: malformed header")
)

// Field is a single header value.
type Field struct {
	// Value is the raw text after the colon, with leading whitespace trimmed.
	// For quoted fields it is the text between the quotes.
	Value string
	// Quoted reports whether the value was written as "...", with at least
	// one character between the quotes.
	Quoted bool
}

// Header is the tokenized header block. Keys keeps first-seen order.
type Header struct {
	Keys   []string
	Fields map[string]Field
}

// Has reports whether key appeared at the start of a header line.
func (h Header) Has(key string) bool {
	_, ok := h.Fields[key]
	return ok
}

// Quoted returns the quoted value of key, if the key is present and quoted.
func (h Header) Quoted(key string) (string, bool) {
	f, ok := h.Fields[key]
	if !ok || !f.Quoted {
		return "", false
	}
	return f.Value, true
}

// Extract returns the raw block between the opening and closing delimiters.
// Content must begin with the delimiter; leading blank lines are not skipped.
func Extract(content string) (string, error) {
	if !strings.HasPrefix(content, Delimiter) {
		return "", ErrMissingHeader
	}
	rest := content[len(Delimiter):]
	idx := strings.Index(rest, Delimiter)
	if idx < 0 {
		return "", ErrMalformedHeader
	}
	return rest[:idx], nil
}

// Parse tokenizes a header block into fields. Lines starting with whitespace
// or lacking a colon are ignored. A repeated key keeps its first occurrence
// unless that one is unquoted and a later one is quoted, in which case the
// first quoted occurrence is kept.
func Parse(block string) Header {
	h := Header{Fields: make(map[string]Field)}
	for _, line := range strings.Split(block, "\n") {
		if line == "" || line[0] == ' ' || line[0] == '\t' {
			continue
		}
		idx := strings.Index(line, ":")
		if idx < 0 {
			continue
		}
		key := line[:idx]
		field := parseValue(line[idx+1:])
		if prev, dup := h.Fields[key]; dup {
			if !prev.Quoted && field.Quoted {
				h.Fields[key] = field
			}
			continue
		}
		h.Keys = append(h.Keys, key)
		h.Fields[key] = field
	}
	return h
}

// Split extracts and parses the header of content in one step.
func Split(content string) (Header, error) {
	block, err := Extract(content)
	if err != nil {
		return Header{}, err
	}
	return Parse(block), nil
}

func parseValue(raw string) Field {
	v := strings.TrimLeft(raw, " \t\r\f\v")
	if len(v) >= 3 && v[0] == '"' {
		if end := strings.IndexByte(v[1:], '"'); end > 0 {
			return Field{Value: v[1 : end+1], Quoted: true}
		}
	}
	return Field{Value: strings.TrimRight(v, " \t\r")}
}
