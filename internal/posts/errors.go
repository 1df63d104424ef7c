package posts

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// ErrNotFound is the single failure reported by Get and Resolve.
var ErrNotFound = errors.New("posts: post not found")

var (
	errMissingFrontMatter = errors.New("posts: missing required frontmatter (title, date)")
	errInvalidDate        = errors.New("posts: frontmatter date is not a valid date")
)

const postNotFoundCode = "POST_NOT_FOUND"

func notFound() error {
	return goerrors.Wrap(ErrNotFound, goerrors.CategoryNotFound, "blog post not found").
		WithTextCode(postNotFoundCode)
}

// IsNotFound reports whether err is a post lookup failure.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrNotFound) || goerrors.IsCategory(err, goerrors.CategoryNotFound)
}
