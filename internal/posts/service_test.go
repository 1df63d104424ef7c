package posts

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/goliatone/go-blog/internal/logging/console"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

func writePost(tb testing.TB, dir, name, content string) string {
	tb.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		tb.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		tb.Fatalf("write %s: %v", path, err)
	}
	return path
}

func newTestService(tb testing.TB, dir string, opts ...ServiceOption) *Service {
	tb.Helper()
	return NewService(Config{ContentDir: dir}, markdown.NewRenderer(markdown.Options{}), opts...)
}

func slugs(posts []interfaces.PostSummary) []string {
	out := make([]string, len(posts))
	for i, post := range posts {
		out[i] = post.Slug
	}
	return out
}

func TestList_PinnedFirstThenNewest(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "a.md", "---\ntitle: A\ndate: 2024-01-01\n---\nA body\n")
	writePost(t, dir, "b.md", "---\ntitle: B\ndate: 2024-06-01\npinned: true\n---\nB body\n")

	posts, err := newTestService(t, dir).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	if got := strings.Join(slugs(posts), ","); got != "b,a" {
		t.Fatalf("expected [b a], got %s", got)
	}
	if !posts[0].Pinned || posts[1].Pinned {
		t.Fatalf("unexpected pinned flags: %#v", posts)
	}
}

func TestList_OrderingWithinPinGroups(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "old-pinned.md", "---\ntitle: Old pinned\ndate: 2020-01-01\npinned: true\n---\n")
	writePost(t, dir, "new-pinned.md", "---\ntitle: New pinned\ndate: 2023-01-01\npinned: true\n---\n")
	writePost(t, dir, "newest.md", "---\ntitle: Newest\ndate: 2025-01-01\n---\n")
	writePost(t, dir, "middle.md", "---\ntitle: Middle\ndate: 2024-05-01\n---\n")
	writePost(t, dir, "oldest.md", "---\ntitle: Oldest\ndate: 2019-05-01T08:00:00Z\n---\n")

	posts, err := newTestService(t, dir).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	want := "new-pinned,old-pinned,newest,middle,oldest"
	if got := strings.Join(slugs(posts), ","); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
	for i := 1; i < len(posts); i++ {
		prev, cur := posts[i-1], posts[i]
		if prev.Pinned == cur.Pinned && cur.Date.After(prev.Date) {
			t.Fatalf("posts %s and %s out of date order", prev.Slug, cur.Slug)
		}
		if !prev.Pinned && cur.Pinned {
			t.Fatalf("pinned post %s listed after unpinned %s", cur.Slug, prev.Slug)
		}
	}
}

func TestList_EqualDatesKeepFileOrder(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "bravo.md", "---\ntitle: Bravo\ndate: 2024-02-02\n---\n")
	writePost(t, dir, "alpha.md", "---\ntitle: Alpha\ndate: 2024-02-02\n---\n")
	writePost(t, dir, "charlie.md", "---\ntitle: Charlie\ndate: 2024-02-02\n---\n")

	posts, err := newTestService(t, dir).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if got := strings.Join(slugs(posts), ","); got != "alpha,bravo,charlie" {
		t.Fatalf("expected encounter order for equal dates, got %s", got)
	}
}

func TestList_ExcludesDrafts(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "c.md", "---\ntitle: C\ndate: 2024-03-01\ndraft: true\n---\nsecret\n")
	writePost(t, dir, "d.md", "---\ntitle: D\ndate: 2024-03-02\n---\npublic\n")

	svc := newTestService(t, dir)
	posts, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if got := strings.Join(slugs(posts), ","); got != "d" {
		t.Fatalf("expected only d, got %s", got)
	}

	if _, err := svc.Get(context.Background(), "c"); !IsNotFound(err) {
		t.Fatalf("expected draft lookup to be not found, got %v", err)
	}
}

func TestList_SkipsInvalidFiles(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "valid.md", "---\ntitle: Valid\ndate: 2024-01-01\n---\n")
	writePost(t, dir, "no-date.md", "---\ntitle: No date\n---\n")
	writePost(t, dir, "no-title.md", "---\ndate: 2024-01-01\n---\n")
	writePost(t, dir, "bad-date.md", "---\ntitle: Bad date\ndate: whenever\n---\n")
	writePost(t, dir, "broken.md", "---\ntitle: [unclosed\ndate: 2024-01-01\n---\n")
	writePost(t, dir, "plain.md", "no frontmatter at all\n")
	writePost(t, dir, "notes.txt", "---\ntitle: Not markdown\ndate: 2024-01-01\n---\n")
	writePost(t, dir, "nested/deep.md", "---\ntitle: Nested\ndate: 2024-01-01\n---\n")

	var buf bytes.Buffer
	logger := console.NewProvider(console.Options{Writer: &buf}).GetLogger("blog.posts")

	posts, err := newTestService(t, dir, WithLogger(logger)).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if got := strings.Join(slugs(posts), ","); got != "valid" {
		t.Fatalf("expected only valid post, got %s", got)
	}
	if !strings.Contains(buf.String(), "posts.list.skipped") {
		t.Fatalf("expected skipped files to be logged, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "posts.list.parse_failed") {
		t.Fatalf("expected parse failure to be logged, got %q", buf.String())
	}
}

func TestList_MissingRootIsEmpty(t *testing.T) {
	svc := newTestService(t, filepath.Join(t.TempDir(), "does-not-exist"))

	posts, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if posts == nil || len(posts) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", posts)
	}
}

func TestList_AppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "file-name.md", "---\ntitle: Defaults\ndate: 2024-01-01\n---\n")
	writePost(t, dir, "custom.md", "---\ntitle: Custom\ndate: 2023-01-01\nslug: custom-slug\nauthor: Guest\nexcerpt: Short\ntags: [go, web]\n---\n")

	posts, err := newTestService(t, dir).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}

	defaults := posts[0]
	if defaults.Slug != "file-name" || defaults.Author != DefaultAuthor || defaults.Excerpt != "" {
		t.Fatalf("unexpected defaults: %#v", defaults)
	}
	if defaults.Tags == nil || len(defaults.Tags) != 0 {
		t.Fatalf("expected empty tags, got %#v", defaults.Tags)
	}

	custom := posts[1]
	if custom.Slug != "custom-slug" || custom.Author != "Guest" || custom.Excerpt != "Short" {
		t.Fatalf("unexpected custom summary: %#v", custom)
	}
	if len(custom.Tags) != 2 || custom.Tags[0] != "go" || custom.Tags[1] != "web" {
		t.Fatalf("unexpected tags: %#v", custom.Tags)
	}
}

func TestList_ConfiguredDefaultAuthor(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "a.md", "---\ntitle: A\ndate: 2024-01-01\n---\n")

	svc := NewService(Config{ContentDir: dir, DefaultAuthor: "Site Owner"}, nil)
	posts, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if posts[0].Author != "Site Owner" {
		t.Fatalf("expected configured author, got %q", posts[0].Author)
	}
}

func TestList_DropsDuplicateSlugs(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "dup.md", "---\ntitle: Dup\ndate: 2024-02-01\nslug: shared\n---\n")
	writePost(t, dir, "shared.md", "---\ntitle: Shared\ndate: 2024-03-01\n---\n")
	writePost(t, dir, "tail.md", "---\ntitle: Tail\ndate: 2024-01-01\nslug: shared\n---\n")

	var buf bytes.Buffer
	logger := console.NewProvider(console.Options{Writer: &buf}).GetLogger("blog.posts")

	posts, err := newTestService(t, dir, WithLogger(logger)).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("expected one post per slug, got %#v", posts)
	}
	if posts[0].Slug != "shared" || posts[0].Title != "Dup" {
		t.Fatalf("expected first file in name order to win, got %#v", posts[0])
	}
	if strings.Count(buf.String(), "posts.list.duplicate_slug") != 2 {
		t.Fatalf("expected two duplicate warnings, got %q", buf.String())
	}
}

func TestList_WarnsOnSlugThatDiffersFromFileName(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "file-name.md", "---\ntitle: Alias\ndate: 2024-01-01\nslug: other-name\n---\n")
	writePost(t, dir, "same.md", "---\ntitle: Same\ndate: 2023-01-01\nslug: same\n---\n")

	var buf bytes.Buffer
	logger := console.NewProvider(console.Options{Writer: &buf}).GetLogger("blog.posts")

	posts, err := newTestService(t, dir, WithLogger(logger)).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if got := strings.Join(slugs(posts), ","); got != "other-name,same" {
		t.Fatalf("expected [other-name same], got %s", got)
	}
	if strings.Count(buf.String(), "posts.list.slug_mismatch") != 1 {
		t.Fatalf("expected one mismatch warning, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "file-name") {
		t.Fatalf("expected warning to name the file slug, got %q", buf.String())
	}
}

func TestService_ReadsFromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"first.md":         {Data: []byte("---\ntitle: First\ndate: 2024-01-01\n---\n# Hello\n")},
		"second.md":        {Data: []byte("---\ntitle: Second\ndate: 2024-02-01\n---\nbody\n")},
		"bom.md":           {Data: []byte("\xef\xbb\xbf---\ntitle: Bom\ndate: 2023-01-01\n---\nbody\n")},
		"draft.md":         {Data: []byte("---\ntitle: Draft\ndate: 2024-03-01\ndraft: true\n---\n")},
		"nested/inside.md": {Data: []byte("---\ntitle: Nested\ndate: 2024-04-01\n---\n")},
	}
	svc := newTestService(t, "content", WithFS(fsys))

	posts, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if got := strings.Join(slugs(posts), ","); got != "second,first,bom" {
		t.Fatalf("expected [second first bom], got %s", got)
	}

	post, err := svc.Get(context.Background(), "first")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !strings.Contains(post.HTML, "Hello") {
		t.Fatalf("expected rendered body, got %q", post.HTML)
	}
	if _, err := svc.Get(context.Background(), "draft"); !IsNotFound(err) {
		t.Fatalf("expected draft to be not found, got %v", err)
	}
}

func TestGet_CancelledContextIsNotFound(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "post.md", "---\ntitle: Post\ndate: 2024-01-01\n---\nbody\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestService(t, dir).Get(ctx, "post")
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation to be hidden, got %v", err)
	}
}

func TestList_RespectsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newTestService(t, t.TempDir()).List(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestListByTag(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "one.md", "---\ntitle: One\ndate: 2024-01-01\ntags: [Go]\n---\n")
	writePost(t, dir, "two.md", "---\ntitle: Two\ndate: 2024-02-01\ntags: [rust]\n---\n")
	writePost(t, dir, "three.md", "---\ntitle: Three\ndate: 2024-03-01\ntags: [go, web]\n---\n")

	posts, err := newTestService(t, dir).ListByTag(context.Background(), "go")
	if err != nil {
		t.Fatalf("ListByTag: %v", err)
	}
	if got := strings.Join(slugs(posts), ","); got != "three,one" {
		t.Fatalf("expected three,one, got %s", got)
	}
}

func TestGet_RendersPost(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "hello-world.md", "---\ntitle: Hello\ndate: 2024-04-01\nslug: other-slug\npinned: true\ntags: [intro]\n---\n# Hello\n\n<script>alert(1)</script>\n\n```go\nfunc main() {}\n```\n")

	post, err := newTestService(t, dir).Get(context.Background(), "hello-world")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if post.Slug != "hello-world" {
		t.Fatalf("expected requested slug, got %q", post.Slug)
	}
	if post.Title != "Hello" || !post.Pinned || post.Author != DefaultAuthor {
		t.Fatalf("unexpected summary: %#v", post.PostSummary)
	}
	if !post.Date.Equal(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date: %v", post.Date)
	}
	if !strings.Contains(post.Content, "# Hello") {
		t.Fatalf("expected raw markdown content, got %q", post.Content)
	}
	if !strings.Contains(post.HTML, `<h1 id="hello">Hello</h1>`) {
		t.Fatalf("expected rendered heading, got %q", post.HTML)
	}
	if !strings.Contains(post.HTML, `<pre><code class="hljs language-go">`) {
		t.Fatalf("expected highlighted code, got %q", post.HTML)
	}
	if strings.Contains(post.HTML, "<script") {
		t.Fatalf("expected script to be sanitized, got %q", post.HTML)
	}
}

func TestGet_NotFound(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "no-date.md", "---\ntitle: No date\n---\nbody\n")
	writePost(t, dir, "bad-date.md", "---\ntitle: Bad\ndate: not a date\n---\nbody\n")
	writePost(t, dir, "broken.md", "---\ntitle: [unclosed\n---\nbody\n")
	writePost(t, dir, "draft.md", "---\ntitle: Draft\ndate: 2024-01-01\ndraft: true\n---\nbody\n")
	writePost(t, dir, "test%3Cscript%3E.md", "---\ntitle: Sneaky\ndate: 2024-01-01\n---\nbody\n")
	writePost(t, dir, "UPPER.md", "---\ntitle: Upper\ndate: 2024-01-01\n---\nbody\n")
	writePost(t, filepath.Dir(dir), "outside.md", "---\ntitle: Outside\ndate: 2024-01-01\n---\nbody\n")

	svc := newTestService(t, dir)
	cases := []string{
		"missing",
		"no-date",
		"bad-date",
		"broken",
		"draft",
		"test%3Cscript%3E",
		"test<script>alert(1)</script>",
		"UPPER",
		"../outside",
		"../../etc/passwd",
		"..\\..\\windows\\win.ini",
		"/etc/passwd",
		"",
		strings.Repeat("a", MaxSlugLength+1),
	}

	for _, slug := range cases {
		post, err := svc.Get(context.Background(), slug)
		if !IsNotFound(err) {
			t.Fatalf("Get(%q): expected not found, got post=%v err=%v", slug, post, err)
		}
	}
}

func TestGet_AcceptsMaxLengthSlug(t *testing.T) {
	dir := t.TempDir()
	slug := strings.Repeat("a", MaxSlugLength)
	writePost(t, dir, slug+".md", "---\ntitle: Long\ndate: 2024-01-01\n---\nbody\n")

	if _, err := newTestService(t, dir).Get(context.Background(), slug); err != nil {
		t.Fatalf("Get: %v", err)
	}
}

type stubRenderer struct {
	err   error
	panic bool
	calls int
}

func (s *stubRenderer) Render(markdown []byte) ([]byte, error) {
	s.calls++
	if s.panic {
		panic("boom")
	}
	if s.err != nil {
		return nil, s.err
	}
	return markdown, nil
}

func TestGet_RendererFailuresAreNotFound(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "post.md", "---\ntitle: Post\ndate: 2024-01-01\n---\nbody\n")

	for _, renderer := range []*stubRenderer{{err: errors.New("render failed")}, {panic: true}} {
		svc := NewService(Config{ContentDir: dir}, renderer)
		if _, err := svc.Get(context.Background(), "post"); !IsNotFound(err) {
			t.Fatalf("expected not found for renderer failure, got %v", err)
		}
		if renderer.calls != 1 {
			t.Fatalf("expected renderer to be called once, got %d", renderer.calls)
		}
	}
}

func TestGet_InvalidSlugSkipsRenderer(t *testing.T) {
	renderer := &stubRenderer{}
	svc := NewService(Config{ContentDir: t.TempDir()}, renderer)

	if _, err := svc.Get(context.Background(), "Bad Slug"); !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if renderer.calls != 0 {
		t.Fatalf("expected renderer not to be called")
	}
}

func TestSortPostsIsStable(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	posts := []interfaces.PostSummary{
		{Slug: "u1", Date: day},
		{Slug: "p1", Date: day, Pinned: true},
		{Slug: "u2", Date: day},
		{Slug: "p2", Date: day, Pinned: true},
		{Slug: "u3", Date: day.AddDate(0, 0, 1)},
	}

	SortPosts(posts)

	if got := strings.Join(slugs(posts), ","); got != "p1,p2,u3,u1,u2" {
		t.Fatalf("unexpected order %s", got)
	}
}
