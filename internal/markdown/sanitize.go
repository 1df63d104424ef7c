package markdown

import "github.com/microcosm-cc/bluemonday"

// AllowedTags lists every element that survives sanitization.
var AllowedTags = []string{
	"h1", "h2", "h3", "h4", "h5", "h6",
	"p", "br", "hr",
	"strong", "em", "code", "pre",
	"ul", "ol", "li",
	"a", "img",
	"blockquote",
	"table", "thead", "tbody", "tr", "th", "td",
	"div", "span",
}

// AllowedAttrs lists every attribute that survives sanitization, on any
// allowed element.
var AllowedAttrs = []string{"href", "src", "alt", "title", "class", "id"}

// newPolicy builds the allow-list policy. Anything outside AllowedTags and
// AllowedAttrs is removed; script and style contents are dropped entirely.
// URLs in href/src must be relative or use http, https or mailto.
func newPolicy() *bluemonday.Policy {
	policy := bluemonday.NewPolicy()
	policy.AllowElements(AllowedTags...)
	policy.AllowAttrs(AllowedAttrs...).Globally()
	policy.RequireParseableURLs(true)
	policy.AllowRelativeURLs(true)
	policy.AllowURLSchemes("http", "https", "mailto")
	return policy
}
