package markdown

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
)

// FrontMatter is the metadata block at the top of a post file. Fields hold
// what the file declared; defaults and validation are applied by callers.
type FrontMatter struct {
	Title   string
	Slug    string
	Excerpt string
	Author  string
	Tags    []string
	Pinned  bool
	Draft   bool
	// Date is the zero time when the date key is absent or unparseable.
	Date time.Time
	// HasDate reports whether the date key was present at all.
	HasDate bool
	Raw     map[string]any
}

var utf8BOM = []byte("\xef\xbb\xbf")

// dateLayouts are tried in order for dates written as strings.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05 -0700",
}

// ParseFrontMatter splits source into metadata and markdown body. Files
// without a frontmatter block yield an empty FrontMatter and the whole
// source as body. A leading UTF-8 byte order mark is ignored.
func ParseFrontMatter(source []byte) (FrontMatter, []byte, error) {
	source = bytes.TrimPrefix(source, utf8BOM)
	raw := map[string]any{}
	body, err := frontmatter.Parse(bytes.NewReader(source), &raw)
	if err != nil {
		return FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	fm := FrontMatter{
		Title:   scalarString(raw["title"]),
		Slug:    scalarString(raw["slug"]),
		Excerpt: scalarString(raw["excerpt"]),
		Author:  scalarString(raw["author"]),
		Tags:    stringList(raw["tags"]),
		Pinned:  raw["pinned"] == true,
		Draft:   raw["draft"] == true,
		Raw:     raw,
	}
	if value, ok := raw["date"]; ok && value != nil {
		fm.HasDate = true
		fm.Date, _ = parseDate(value)
	}
	return fm, body, nil
}

func parseDate(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, !v.IsZero()
	case string:
		trimmed := strings.TrimSpace(v)
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, trimmed); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}

func scalarString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case int, int64, uint64, float64:
		return fmt.Sprint(v)
	default:
		return ""
	}
}

// stringList keeps only the string entries of a YAML sequence. Anything
// that is not a sequence yields an empty list.
func stringList(value any) []string {
	items, ok := value.([]any)
	if !ok {
		if typed, ok := value.([]string); ok {
			return append([]string{}, typed...)
		}
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}
