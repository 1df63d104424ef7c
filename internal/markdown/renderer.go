package markdown

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// DefaultHighlightStyle is the chroma style used when none is configured.
// Markup uses CSS classes, so the style only matters for generated CSS.
const DefaultHighlightStyle = "github"

// Options configures a Renderer. Sanitization is not optional.
type Options struct {
	HighlightStyle string
	Logger         interfaces.Logger
}

// Renderer converts markdown to sanitized HTML. It is built once and holds
// no mutable state, so a single instance can serve concurrent requests.
type Renderer struct {
	engine goldmark.Markdown
	policy *bluemonday.Policy
}

var _ interfaces.MarkdownRenderer = (*Renderer)(nil)

// NewRenderer builds the goldmark engine (GFM, hard wraps, heading IDs,
// chroma highlighting) and the sanitization policy.
func NewRenderer(opts Options) *Renderer {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	style := opts.HighlightStyle
	if style == "" {
		style = DefaultHighlightStyle
	}

	engine := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			// raw HTML is passed through and handled by the policy below
			html.WithUnsafe(),
			renderer.WithNodeRenderers(
				util.Prioritized(newCodeBlockRenderer(style, logger), 100),
			),
		),
	)

	return &Renderer{
		engine: engine,
		policy: newPolicy(),
	}
}

// Render converts markdown to HTML and sanitizes the result.
func (r *Renderer) Render(markdown []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.engine.Convert(markdown, &buf); err != nil {
		return nil, fmt.Errorf("markdown render: %w", err)
	}
	return r.policy.SanitizeBytes(buf.Bytes()), nil
}
