package posts

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

// CachedService memoises a Service. The listing is reused while the
// name, size and modification time of every post file stay the same; a
// single post is reused while its own file size and modification time
// stay the same. Any change recomputes through the wrapped Service, so
// ordering and draft rules are exactly those of Service.
type CachedService struct {
	inner *Service

	mu    sync.Mutex
	list  *listEntry
	posts map[string]postEntry
}

type listEntry struct {
	fingerprint string
	posts       []interfaces.PostSummary
}

type fileStamp struct {
	size    int64
	modTime int64
}

type postEntry struct {
	stamp fileStamp
	post  interfaces.Post
}

var _ interfaces.PostService = (*CachedService)(nil)

// NewCachedService wraps inner.
func NewCachedService(inner *Service) *CachedService {
	return &CachedService{
		inner: inner,
		posts: map[string]postEntry{},
	}
}

// List implements interfaces.PostService.
func (c *CachedService) List(ctx context.Context) ([]interfaces.PostSummary, error) {
	fingerprint, err := c.fingerprint()
	if err != nil {
		return c.inner.List(ctx)
	}

	c.mu.Lock()
	if c.list != nil && c.list.fingerprint == fingerprint {
		cached := cloneSummaries(c.list.posts)
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	posts, err := c.inner.List(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.list = &listEntry{fingerprint: fingerprint, posts: cloneSummaries(posts)}
	c.mu.Unlock()
	return posts, nil
}

// ListByTag implements interfaces.PostService.
func (c *CachedService) ListByTag(ctx context.Context, tag string) ([]interfaces.PostSummary, error) {
	posts, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	return FilterByTag(posts, tag), nil
}

// Get implements interfaces.PostService.
func (c *CachedService) Get(ctx context.Context, slug string) (*interfaces.Post, error) {
	if ValidateSlug(slug) != nil {
		return c.inner.Get(ctx, slug)
	}
	path, err := c.inner.resolver.Resolve(slug)
	if err != nil {
		return c.inner.Get(ctx, slug)
	}

	info, err := fs.Stat(c.inner.fsys, filepath.Base(path))
	if err != nil {
		c.forget(slug)
		return c.inner.Get(ctx, slug)
	}
	stamp := fileStamp{size: info.Size(), modTime: info.ModTime().UnixNano()}

	c.mu.Lock()
	if entry, ok := c.posts[slug]; ok && entry.stamp == stamp {
		post := clonePost(entry.post)
		c.mu.Unlock()
		return &post, nil
	}
	c.mu.Unlock()

	post, err := c.inner.Get(ctx, slug)
	if err != nil {
		c.forget(slug)
		return nil, err
	}

	c.mu.Lock()
	c.posts[slug] = postEntry{stamp: stamp, post: clonePost(*post)}
	c.mu.Unlock()
	return post, nil
}

// Invalidate drops every cached value.
func (c *CachedService) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.list = nil
	c.posts = map[string]postEntry{}
}

func (c *CachedService) forget(slug string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.posts, slug)
}

// fingerprint digests the directory listing metadata of every post file.
// A missing root has a fixed fingerprint.
func (c *CachedService) fingerprint() (string, error) {
	entries, err := fs.ReadDir(c.inner.fsys, ".")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "missing", nil
		}
		return "", err
	}

	hash := sha256.New()
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), Extension) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return "", err
		}
		hash.Write([]byte(entry.Name()))
		hash.Write([]byte{0})
		hash.Write([]byte(strconv.FormatInt(info.Size(), 10)))
		hash.Write([]byte{0})
		hash.Write([]byte(strconv.FormatInt(info.ModTime().UnixNano(), 10)))
		hash.Write([]byte{'\n'})
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

func cloneSummaries(posts []interfaces.PostSummary) []interfaces.PostSummary {
	out := make([]interfaces.PostSummary, len(posts))
	for i, post := range posts {
		out[i] = post
		out[i].Tags = append([]string{}, post.Tags...)
	}
	return out
}

func clonePost(post interfaces.Post) interfaces.Post {
	post.Tags = append([]string{}, post.Tags...)
	return post
}
