package posts

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// DefaultAuthor is credited on posts that do not name an author.
const DefaultAuthor = "Jordan Cole Hunt"

// Config locates the content root and supplies listing defaults.
type Config struct {
	ContentDir    string
	DefaultAuthor string
}

// ServiceOption customises a Service.
type ServiceOption func(*Service)

// WithLogger attaches the logger used for skipped-file and lookup diagnostics.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithFS reads post files from fsys instead of the content directory.
// Names are resolved relative to the root of fsys.
func WithFS(fsys fs.FS) ServiceOption {
	return func(s *Service) {
		if fsys != nil {
			s.fsys = fsys
		}
	}
}

// Service is the file-backed post loader.
type Service struct {
	resolver      *Resolver
	fsys          fs.FS
	renderer      interfaces.MarkdownRenderer
	logger        interfaces.Logger
	defaultAuthor string
}

var _ interfaces.PostService = (*Service)(nil)

// NewService builds a loader over cfg.ContentDir. renderer is required for
// Get; a nil renderer gets a default markdown.Renderer.
func NewService(cfg Config, renderer interfaces.MarkdownRenderer, opts ...ServiceOption) *Service {
	s := &Service{
		resolver:      NewResolver(cfg.ContentDir),
		renderer:      renderer,
		logger:        logging.NoOp(),
		defaultAuthor: strings.TrimSpace(cfg.DefaultAuthor),
	}
	s.fsys = os.DirFS(s.resolver.Root())
	if s.defaultAuthor == "" {
		s.defaultAuthor = DefaultAuthor
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.renderer == nil {
		s.renderer = markdown.NewRenderer(markdown.Options{Logger: s.logger})
	}
	return s
}

// Root returns the absolute content directory.
func (s *Service) Root() string {
	return s.resolver.Root()
}

// List returns every published post directly under the content root,
// pinned posts first, then newest first. A missing or unreadable root
// yields an empty list. Files that fail to load are logged and skipped, as
// are later files repeating a slug already listed. The only error returned
// is ctx's.
func (s *Service) List(ctx context.Context) ([]interfaces.PostSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger := s.logger.WithContext(ctx)
	root := s.resolver.Root()
	entries, err := fs.ReadDir(s.fsys, ".")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("posts.list.root_missing", "content_dir", root)
		} else {
			logger.Error("posts.list.root_unreadable", "content_dir", root, "error", err)
		}
		return []interfaces.PostSummary{}, nil
	}

	posts := make([]interfaces.PostSummary, 0, len(entries))
	seen := make(map[string]string, len(entries))
	pinned := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, Extension) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		summary, ok := s.loadSummary(logger, root, name)
		if !ok || summary.Draft {
			continue
		}
		if first, dup := seen[summary.Slug]; dup {
			logger.Warn("posts.list.duplicate_slug", "slug", summary.Slug, "file", name, "first_file", first)
			continue
		}
		seen[summary.Slug] = name
		if summary.Pinned {
			pinned++
		}
		posts = append(posts, summary)
	}

	SortPosts(posts)

	if len(posts) == 0 {
		logger.Info("posts.list.empty", "content_dir", root)
	} else {
		logger.Info("posts.list.loaded", "count", len(posts), "pinned", pinned)
	}
	return posts, nil
}

// ListByTag returns the posts of List tagged with tag (case-insensitive).
func (s *Service) ListByTag(ctx context.Context, tag string) ([]interfaces.PostSummary, error) {
	posts, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return FilterByTag(posts, tag), nil
}

// Get loads, validates and renders the post stored under slug. Every
// failure, a cancelled ctx included, is logged and reported as ErrNotFound.
func (s *Service) Get(ctx context.Context, slug string) (*interfaces.Post, error) {
	logger := logging.WithPostContext(s.logger.WithContext(ctx), "", slug)
	if err := ctx.Err(); err != nil {
		logger.Debug("posts.get.cancelled", "error", err)
		return nil, notFound()
	}

	if err := ValidateSlug(slug); err != nil {
		logger.Debug("posts.get.invalid_slug", "error", err)
		return nil, notFound()
	}

	path, err := s.resolver.Resolve(slug)
	if err != nil {
		logger.Warn("posts.get.unsafe_path")
		return nil, err
	}
	logger = logging.WithPostContext(logger, path, "")

	data, err := fs.ReadFile(s.fsys, filepath.Base(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("posts.get.missing")
		} else {
			logger.Error("posts.get.read_failed", "error", err)
		}
		return nil, notFound()
	}

	fm, body, err := markdown.ParseFrontMatter(data)
	if err != nil {
		logger.Error("posts.get.parse_failed", "error", err)
		return nil, notFound()
	}

	summary, err := s.summarize(fm, slug)
	if err != nil {
		logger.Error("posts.get.invalid_frontmatter", "error", err)
		return nil, notFound()
	}
	if summary.Draft {
		logger.Info("posts.get.draft_requested")
		return nil, notFound()
	}

	html, err := s.render(body)
	if err != nil {
		logger.Error("posts.get.render_failed", "error", err)
		return nil, notFound()
	}

	// lookups are keyed by file name, so the requested slug wins
	summary.Slug = slug
	logger.Info("posts.get.loaded")
	return &interfaces.Post{
		PostSummary: summary,
		Content:     string(body),
		HTML:        string(html),
	}, nil
}

func (s *Service) loadSummary(base interfaces.Logger, root, name string) (interfaces.PostSummary, bool) {
	logger := logging.WithPostContext(base, filepath.Join(root, name), "")
	fallbackSlug := strings.TrimSuffix(name, Extension)

	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		logger.Error("posts.list.read_failed", "error", err)
		return interfaces.PostSummary{}, false
	}
	fm, _, err := markdown.ParseFrontMatter(data)
	if err != nil {
		logger.Error("posts.list.parse_failed", "error", err)
		return interfaces.PostSummary{}, false
	}
	summary, err := s.summarize(fm, fallbackSlug)
	if err != nil {
		logger.Warn("posts.list.skipped", "reason", err)
		return interfaces.PostSummary{}, false
	}
	if summary.Slug != fallbackSlug {
		// Get resolves by file name only
		logger.Warn("posts.list.slug_mismatch", "slug", summary.Slug, "file_slug", fallbackSlug)
	}
	if ValidateSlug(summary.Slug) != nil {
		logger.Warn("posts.list.unresolvable_slug", "slug", summary.Slug, "suggested", suggestSlug(summary.Slug))
	}
	return summary, true
}

// summarize applies required-field checks and defaults to parsed
// frontmatter. fallbackSlug is used when the frontmatter has no slug.
func (s *Service) summarize(fm markdown.FrontMatter, fallbackSlug string) (interfaces.PostSummary, error) {
	if fm.Title == "" || !fm.HasDate {
		return interfaces.PostSummary{}, errMissingFrontMatter
	}
	if fm.Date.IsZero() {
		return interfaces.PostSummary{}, errInvalidDate
	}

	slug := fm.Slug
	if slug == "" {
		slug = fallbackSlug
	}
	author := fm.Author
	if author == "" {
		author = s.defaultAuthor
	}

	return interfaces.PostSummary{
		Slug:    slug,
		Title:   fm.Title,
		Date:    fm.Date,
		Excerpt: fm.Excerpt,
		Author:  author,
		Tags:    fm.Tags,
		Pinned:  fm.Pinned,
		Draft:   fm.Draft,
	}, nil
}

func (s *Service) render(body []byte) (html []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("posts: renderer panic: %v", r)
		}
	}()
	return s.renderer.Render(body)
}

// SortPosts orders posts pinned first, then by date descending. Equal keys
// keep their input order.
func SortPosts(posts []interfaces.PostSummary) {
	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].Pinned != posts[j].Pinned {
			return posts[i].Pinned
		}
		return posts[i].Date.After(posts[j].Date)
	})
}

// FilterByTag keeps the posts carrying tag, preserving order. A blank tag
// returns posts unchanged.
func FilterByTag(posts []interfaces.PostSummary, tag string) []interfaces.PostSummary {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return posts
	}
	out := make([]interfaces.PostSummary, 0, len(posts))
	for _, post := range posts {
		for _, candidate := range post.Tags {
			if strings.EqualFold(candidate, tag) {
				out = append(out, post)
				break
			}
		}
	}
	return out
}
