package di

import (
	"context"
	"fmt"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/logging/console"
	"github.com/goliatone/go-blog/internal/logging/gologger"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/internal/runtimeconfig"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Container wires the blog services from a runtime configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	renderer       interfaces.MarkdownRenderer

	loader  *posts.Service
	cache   *posts.CachedService
	watcher *posts.Watcher
	postSvc interfaces.PostService
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider built from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		if provider != nil {
			c.loggerProvider = provider
		}
	}
}

// WithRenderer overrides the markdown renderer injected into the loader.
func WithRenderer(renderer interfaces.MarkdownRenderer) Option {
	return func(c *Container) {
		if renderer != nil {
			c.renderer = renderer
		}
	}
}

// WithPostService replaces the file-backed post service entirely.
func WithPostService(svc interfaces.PostService) Option {
	return func(c *Container) {
		if svc != nil {
			c.postSvc = svc
		}
	}
}

// NewContainer validates cfg and builds the logger provider, renderer and
// post service. The cache and watcher are only created when enabled.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if err := c.configurePosts(); err != nil {
		return nil, err
	}

	logging.ModuleLogger(c.loggerProvider, "").Info("container.configured",
		"content_dir", cfg.Posts.ContentDir,
		"cache", cfg.Cache.Enabled,
		"watch", cfg.Cache.Watch,
	)
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}

	logCfg := c.Config.Logging
	switch runtimeconfig.NormalizeProvider(logCfg.Provider) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     logCfg.Level,
			Format:    logCfg.Format,
			AddSource: logCfg.AddSource,
			Focus:     logCfg.Focus,
		})
		if err != nil {
			return fmt.Errorf("di: configure go-logger: %w", err)
		}
		c.loggerProvider = provider
	default:
		level, _ := console.ParseLevel(logCfg.Level)
		c.loggerProvider = console.NewProvider(console.Options{MinLevel: &level})
	}
	return nil
}

func (c *Container) configurePosts() error {
	if c.postSvc != nil {
		return nil
	}

	if c.renderer == nil {
		c.renderer = markdown.NewRenderer(markdown.Options{
			HighlightStyle: c.Config.Markdown.HighlightStyle,
			Logger:         logging.MarkdownLogger(c.loggerProvider),
		})
	}

	postsLogger := logging.PostsLogger(c.loggerProvider)
	c.loader = posts.NewService(posts.Config{
		ContentDir:    c.Config.Posts.ContentDir,
		DefaultAuthor: c.Config.Posts.DefaultAuthor,
	}, c.renderer, posts.WithLogger(postsLogger))
	c.postSvc = c.loader

	if !c.Config.Cache.Enabled {
		return nil
	}
	c.cache = posts.NewCachedService(c.loader)
	c.postSvc = c.cache

	if c.Config.Cache.Watch {
		watcher, err := posts.NewWatcher(c.loader.Root(), c.cache, postsLogger)
		if err != nil {
			return fmt.Errorf("di: configure watcher: %w", err)
		}
		c.watcher = watcher
	}
	return nil
}

// LoggerProvider returns the configured provider, or nil when logging is disabled.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// Renderer returns the markdown renderer injected into the loader.
func (c *Container) Renderer() interfaces.MarkdownRenderer {
	return c.renderer
}

// PostService returns the post service, cached when Config.Cache.Enabled.
func (c *Container) PostService() interfaces.PostService {
	return c.postSvc
}

// RunWatcher blocks processing content root changes until ctx is done. It
// returns immediately when watching is disabled.
func (c *Container) RunWatcher(ctx context.Context) error {
	if c.watcher == nil {
		return nil
	}
	return c.watcher.Run(ctx)
}

// Close releases the watcher, if any.
func (c *Container) Close() error {
	if c.watcher == nil {
		return nil
	}
	return c.watcher.Close()
}
