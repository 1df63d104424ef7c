// Package http provides a read-only JSON adapter over the blog post service.
//
// Routes mount under a configurable base path (default /api/blog):
//   - Listing: GET {base}, optionally narrowed with ?tag=
//   - Single post: GET {base}/{slug}
//
// Successful responses carry the CDN cache headers of the blog pages;
// lookups that fail for any reason answer 404.
package http
