package posts

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-slug"
)

// MaxSlugLength bounds lookup identifiers.
const MaxSlugLength = 100

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// ValidateSlug checks a caller supplied identifier against the lookup
// grammar: 1 to 100 characters of lowercase letters, digits and hyphens.
func ValidateSlug(value string) error {
	return validation.Validate(value,
		validation.Required,
		validation.Length(1, MaxSlugLength),
		validation.Match(slugPattern).Error("must contain only lowercase letters, numbers, and hyphens"),
	)
}

// suggestSlug returns a normalized form of value for diagnostics, or ""
// when none can be derived.
func suggestSlug(value string) string {
	normalized, err := slug.Normalize(value)
	if err != nil {
		return ""
	}
	return normalized
}
