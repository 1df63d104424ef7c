package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

const (
	indexCacheControl = "public, s-maxage=3600, stale-while-revalidate=86400"
	indexCDNControl   = "s-maxage=3600"
	postCacheControl  = "public, s-maxage=86400, stale-while-revalidate=604800, immutable"
	postCDNControl    = "s-maxage=86400, immutable"
)

// DefaultBasePath is where the blog routes mount unless overridden.
const DefaultBasePath = "/api/blog"

// BlogAPI registers the public blog endpoints.
type BlogAPI struct {
	basePath string
	posts    interfaces.PostService
	logger   interfaces.Logger
}

// BlogOption mutates the BlogAPI configuration.
type BlogOption func(*BlogAPI)

// NewBlogAPI constructs a BlogAPI serving svc.
func NewBlogAPI(svc interfaces.PostService, opts ...BlogOption) *BlogAPI {
	api := &BlogAPI{
		basePath: DefaultBasePath,
		posts:    svc,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithBasePath overrides the base path (defaults to "/api/blog").
func WithBasePath(path string) BlogOption {
	return func(api *BlogAPI) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

// WithLogger attaches a request logger.
func WithLogger(logger interfaces.Logger) BlogOption {
	return func(api *BlogAPI) {
		if logger != nil {
			api.logger = logger
		}
	}
}

// Register mounts the listing and single-post routes on mux.
func (api *BlogAPI) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if api == nil || api.posts == nil {
		return fmt.Errorf("http: blog api requires a post service")
	}

	base := joinPath(api.basePath, "")
	index := base
	if index == "/" {
		index = "/{$}"
	}
	mux.HandleFunc("GET "+index, api.handleIndex)
	mux.HandleFunc("GET "+joinPath(base, "{slug}"), api.handlePost)
	return nil
}

// requestContext tags the request context so loader diagnostics can be
// traced back to the route that triggered them.
func requestContext(r *http.Request) context.Context {
	return logging.ContextWithFields(r.Context(), map[string]any{
		"http_method": r.Method,
		"http_path":   r.URL.Path,
	})
}

func (api *BlogAPI) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := requestContext(r)
	tag := strings.TrimSpace(r.URL.Query().Get("tag"))

	var (
		list []interfaces.PostSummary
		err  error
	)
	if tag != "" {
		list, err = api.posts.ListByTag(ctx, tag)
	} else {
		list, err = api.posts.List(ctx)
	}
	if err != nil {
		api.logger.WithContext(ctx).Error("http.blog.index_failed", "error", err)
		writeError(w, err)
		return
	}

	setCacheHeaders(w, indexCacheControl, indexCDNControl)
	writeJSON(w, http.StatusOK, list)
}

func (api *BlogAPI) handlePost(w http.ResponseWriter, r *http.Request) {
	ctx := requestContext(r)
	slug := r.PathValue("slug")

	post, err := api.posts.Get(ctx, slug)
	if err != nil {
		api.logger.WithContext(ctx).Debug("http.blog.post_unavailable", "slug", slug, "error", err)
		writeError(w, err)
		return
	}

	setCacheHeaders(w, postCacheControl, postCDNControl)
	writeJSON(w, http.StatusOK, post)
}

func setCacheHeaders(w http.ResponseWriter, cacheControl, cdnControl string) {
	header := w.Header()
	header.Set("Cache-Control", cacheControl)
	header.Set("CDN-Cache-Control", cdnControl)
	header.Set("X-Content-Type-Options", "nosniff")
	header.Set("Vary", "Accept-Encoding")
}
