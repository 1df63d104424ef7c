// Package markdown parses post frontmatter and renders markdown bodies into
// sanitized, syntax highlighted HTML.
package markdown
