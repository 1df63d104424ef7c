package bootstrap

import (
	"fmt"
	"strings"

	blog "github.com/goliatone/go-blog"
)

// Options captures command line overrides shared by the blog binaries.
// Nil or blank fields leave the loaded configuration untouched.
type Options struct {
	ConfigPath  string
	ContentDir  string
	Addr        string
	BasePath    string
	LogProvider string
	LogLevel    string
	LogFormat   string
	Cache       *bool
	Watch       *bool
	Logger      *bool
}

// LoadConfig reads opts.ConfigPath (when set) over the defaults, applies the
// overrides and validates the result.
func LoadConfig(opts Options) (blog.Config, error) {
	cfg := blog.DefaultConfig()
	if path := strings.TrimSpace(opts.ConfigPath); path != "" {
		loaded, err := blog.LoadConfig(path)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	setString(&cfg.Posts.ContentDir, opts.ContentDir)
	setString(&cfg.HTTP.Addr, opts.Addr)
	setString(&cfg.HTTP.BasePath, opts.BasePath)
	setString(&cfg.Logging.Provider, opts.LogProvider)
	setString(&cfg.Logging.Level, opts.LogLevel)
	setString(&cfg.Logging.Format, opts.LogFormat)
	if opts.Cache != nil {
		cfg.Cache.Enabled = *opts.Cache
	}
	if opts.Watch != nil {
		cfg.Cache.Watch = *opts.Watch
	}
	if opts.Logger != nil {
		cfg.Features.Logger = *opts.Logger
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func setString(target *string, value string) {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		*target = trimmed
	}
}

// BoolPtr returns a pointer to value.
func BoolPtr(value bool) *bool {
	return &value
}
