package mcpserver

// DocConventions describes the documentation conventions enforced by the
// docs validator, for LLM consumers writing project documents.
const DocConventions = `# Documentation Conventions

Every Markdown document under the docs directory MUST follow this structure.
Files under a ` + "`templates/`" + ` directory and ` + "`CHANGELOG.md`" + ` are not checked.

## Header

` + "```" + `markdown
---
title: "Human-readable title"
version: "1.0.0"
date: "2025-01-15"
authors: ["Platform Team"]
status: "draft"
---
` + "```" + `

1. The first bytes of the file are ` + "`---`" + ` followed by a newline. No leading blank lines.
2. The block is closed by a second ` + "`---`" + ` line.
3. ` + "`title`, `version`, `date`, `authors` and `status`" + ` are required. Keys start the line.
4. Quoted values are format checked:
   - version is semantic: ` + "`X.Y.Z`" + ` digits only.
   - date is ` + "`YYYY-MM-DD`" + `.
   - status is one of ` + "`draft`, `review`, `approved`, `deprecated`" + `.

## Body

- Relative links ` + "`[text](path)`" + ` must point at an existing file or directory,
  resolved from the document's own directory. ` + "`http://`, `https://`" + ` and
  ` + "`#anchor`" + ` links are not checked.
- The document must contain the marker ` + "`**Last Updated**:`" + ` (any case).
`
