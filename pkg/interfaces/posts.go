package interfaces

import (
	"context"
	"time"
)

// PostSummary is the listing view of a blog post.
type PostSummary struct {
	Slug    string    `json:"slug"`
	Title   string    `json:"title"`
	Date    time.Time `json:"date"`
	Excerpt string    `json:"excerpt"`
	Author  string    `json:"author"`
	Tags    []string  `json:"tags"`
	Pinned  bool      `json:"pinned,omitempty"`
	Draft   bool      `json:"draft,omitempty"`
}

// Post is a fully loaded post: summary metadata, the raw markdown body and
// its sanitized HTML rendering.
type Post struct {
	PostSummary
	Content string `json:"content"`
	HTML    string `json:"html"`
}

// PostService is the read-only query surface consumed by presentation
// layers (HTTP handlers, templates, CLIs).
type PostService interface {
	// List returns every published post, pinned first then newest first.
	List(ctx context.Context) ([]PostSummary, error)
	// ListByTag narrows List to posts carrying tag, keeping List order.
	ListByTag(ctx context.Context, tag string) ([]PostSummary, error)
	// Get loads and renders a single published post. Any failure to
	// produce the post is reported as a not-found error.
	Get(ctx context.Context, slug string) (*Post, error)
}

// MarkdownRenderer turns a markdown body into sanitized HTML. Implementations
// must be safe for concurrent use and deterministic for a given input.
type MarkdownRenderer interface {
	Render(markdown []byte) ([]byte, error)
}
