package posts

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// Extension is the file extension of post files.
const Extension = ".md"

// Resolver maps a post identifier to a file path inside the content root.
// It never touches the filesystem.
type Resolver struct {
	root string
}

// NewResolver anchors a resolver at root, made absolute when possible.
func NewResolver(root string) *Resolver {
	clean := filepath.Clean(root)
	if abs, err := filepath.Abs(clean); err == nil {
		clean = abs
	}
	return &Resolver{root: clean}
}

// Root returns the absolute content root.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve returns the absolute path of the post file for raw, or
// ErrNotFound when raw is empty, absolute, contains a parent segment in
// any encoding or separator style, or would land outside the root.
func (r *Resolver) Resolve(raw string) (string, error) {
	decoded, err := url.PathUnescape(strings.TrimSpace(raw))
	if err != nil || decoded == "" {
		return "", notFound()
	}

	normalized := strings.ReplaceAll(decoded, `\`, "/")
	if path.IsAbs(normalized) || filepath.IsAbs(decoded) || filepath.VolumeName(decoded) != "" {
		return "", notFound()
	}
	for _, segment := range strings.Split(normalized, "/") {
		if segment == ".." {
			return "", notFound()
		}
	}

	normalized = path.Clean(normalized)

	candidate := filepath.Join(r.root, filepath.FromSlash(normalized)+Extension)
	rel, err := filepath.Rel(r.root, candidate)
	if err != nil || rel == "" || rel == "." || strings.HasPrefix(rel, "..") {
		return "", notFound()
	}
	// posts live directly under the root
	if strings.ContainsRune(rel, filepath.Separator) {
		return "", notFound()
	}
	return candidate, nil
}
