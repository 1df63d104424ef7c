package blog

import (
	"context"
	"net/http"

	"github.com/goliatone/go-blog/internal/di"
	bloghttp "github.com/goliatone/go-blog/internal/http"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// PostService exports the post query contract.
type PostService = interfaces.PostService

// PostSummary exports the listing record.
type PostSummary = interfaces.PostSummary

// Post exports the fully loaded post record.
type Post = interfaces.Post

// MarkdownRenderer exports the renderer contract.
type MarkdownRenderer = interfaces.MarkdownRenderer

// ErrNotFound is reported for every post that cannot be served.
var ErrNotFound = posts.ErrNotFound

// IsNotFound reports whether err is a post lookup failure.
func IsNotFound(err error) bool {
	return posts.IsNotFound(err)
}

// Module represents the top level blog runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a blog module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Posts returns the configured post service.
func (m *Module) Posts() PostService {
	return m.container.PostService()
}

// Renderer returns the markdown renderer shared by every post lookup.
func (m *Module) Renderer() MarkdownRenderer {
	return m.container.Renderer()
}

// Logger returns a logger scoped to module, or a no-op logger when logging
// is disabled.
func (m *Module) Logger(module string) interfaces.Logger {
	return logging.ModuleLogger(m.container.LoggerProvider(), module)
}

// RegisterHTTP mounts the blog JSON routes on mux under Config.HTTP.BasePath.
func (m *Module) RegisterHTTP(mux *http.ServeMux) error {
	api := bloghttp.NewBlogAPI(m.Posts(),
		bloghttp.WithBasePath(m.container.Config.HTTP.BasePath),
		bloghttp.WithLogger(logging.HTTPLogger(m.container.LoggerProvider())),
	)
	return api.Register(mux)
}

// Run processes content changes until ctx is done when cache watching is
// enabled, and returns nil immediately otherwise.
func (m *Module) Run(ctx context.Context) error {
	return m.container.RunWatcher(ctx)
}

// Close releases background resources.
func (m *Module) Close() error {
	return m.container.Close()
}
