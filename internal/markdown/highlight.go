package markdown

import (
	"html"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

const highlightClass = "hljs"

// codeBlockRenderer replaces goldmark's fenced code output with chroma
// highlighted markup wrapped in <pre><code class="hljs ...">.
type codeBlockRenderer struct {
	formatter *chromahtml.Formatter
	style     *chroma.Style
	logger    interfaces.Logger
}

func newCodeBlockRenderer(styleName string, logger interfaces.Logger) *codeBlockRenderer {
	return &codeBlockRenderer{
		formatter: chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.ClassPrefix(highlightClass+"-"),
			chromahtml.PreventSurroundingPre(true),
		),
		style:  styles.Get(styleName),
		logger: logger,
	}
}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
}

func (r *codeBlockRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	block := node.(*ast.FencedCodeBlock)

	var code strings.Builder
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		code.Write(segment.Value(source))
	}

	_, _ = w.WriteString(r.highlight(code.String(), string(block.Language(source))))
	return ast.WalkSkipChildren, nil
}

// highlight uses the hinted language when chroma knows it and falls back
// to content based detection otherwise, or when hinted highlighting fails.
func (r *codeBlockRenderer) highlight(code, lang string) string {
	if lang != "" {
		if lexer := lexers.Get(lang); lexer != nil {
			out, err := r.format(lexer, code)
			if err == nil {
				return wrapCode(out, highlightClass+" language-"+lang)
			}
			r.logger.Error("markdown.highlight.failed", "language", lang, "error", err)
		}
	}

	lexer := lexers.Analyse(code)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	out, err := r.format(lexer, code)
	if err != nil {
		r.logger.Error("markdown.highlight.auto_failed", "error", err)
		out = html.EscapeString(code)
	}
	return wrapCode(out, highlightClass)
}

func (r *codeBlockRenderer) format(lexer chroma.Lexer, code string) (string, error) {
	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return "", err
	}
	var out strings.Builder
	if err := r.formatter.Format(&out, r.style, iterator); err != nil {
		return "", err
	}
	return out.String(), nil
}

func wrapCode(body, class string) string {
	return `<pre><code class="` + html.EscapeString(class) + `">` + body + "</code></pre>\n"
}
