// Package posts loads blog posts from a flat directory of markdown files.
//
// Posts are read fresh from disk on every call. Listing skips anything it
// cannot load; single-post lookups collapse every failure (bad slug,
// missing file, invalid frontmatter, draft) into ErrNotFound so callers
// cannot tell unpublished content apart from content that does not exist.
package posts
