package runtimeconfig

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrContentDirRequired = errors.New("blog config: posts content directory is required")
var ErrCacheWatchRequiresCache = errors.New("blog config: cache watching requires the cache to be enabled")
var ErrHTTPAddrRequired = errors.New("blog config: http address is required")
var ErrHTTPBasePathInvalid = errors.New("blog config: http base path must start with / and must not end with /")
var ErrHTTPTimeoutInvalid = errors.New("blog config: http timeouts must be zero or positive")
var ErrLoggingProviderRequired = errors.New("blog config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("blog config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("blog config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("blog config: logging format is invalid")

// ErrConfigFileRead wraps failures to read or decode a config file.
var ErrConfigFileRead = errors.New("blog config: unable to load config file")

// Config aggregates the settings of the blog module and its binaries.
type Config struct {
	Posts    PostsConfig    `yaml:"posts"`
	Markdown MarkdownConfig `yaml:"markdown"`
	Cache    CacheConfig    `yaml:"cache"`
	HTTP     HTTPConfig     `yaml:"http"`
	Logging  LoggingConfig  `yaml:"logging"`
	Features Features       `yaml:"features"`
}

// PostsConfig locates post files.
type PostsConfig struct {
	ContentDir    string `yaml:"content_dir"`
	DefaultAuthor string `yaml:"default_author"`
}

// MarkdownConfig captures renderer options. Sanitization is not optional
// and has no switch here.
type MarkdownConfig struct {
	HighlightStyle string `yaml:"highlight_style"`
}

// CacheConfig toggles the modification-aware post cache.
type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Watch   bool `yaml:"watch"`
}

// HTTPConfig configures the read-only JSON API served by cmd/blog.
type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	BasePath        string        `yaml:"base_path"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Features toggles module functionality.
type Features struct {
	Logger bool `yaml:"logger"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `yaml:"provider"`
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Posts: PostsConfig{
			ContentDir:    "content/blog",
			DefaultAuthor: "Jordan Cole Hunt",
		},
		Markdown: MarkdownConfig{
			HighlightStyle: "github",
		},
		Cache: CacheConfig{},
		HTTP: HTTPConfig{
			Addr:            ":8080",
			BasePath:        "/api/blog",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Features: Features{},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "",
		},
	}
}

// LoadFile decodes the YAML document at path over DefaultConfig and
// validates the result. Keys missing from the file keep their defaults.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("%w: %v", ErrConfigFileRead, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %s: %v", ErrConfigFileRead, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Posts.ContentDir) == "" {
		return ErrContentDirRequired
	}
	if cfg.Cache.Watch && !cfg.Cache.Enabled {
		return ErrCacheWatchRequiresCache
	}
	if strings.TrimSpace(cfg.HTTP.Addr) == "" {
		return ErrHTTPAddrRequired
	}
	if base := cfg.HTTP.BasePath; !strings.HasPrefix(base, "/") || (len(base) > 1 && strings.HasSuffix(base, "/")) {
		return fmt.Errorf("%w: %q", ErrHTTPBasePathInvalid, base)
	}
	if cfg.HTTP.ReadTimeout < 0 {
		return fmt.Errorf("%w: read", ErrHTTPTimeoutInvalid)
	}
	if cfg.HTTP.WriteTimeout < 0 {
		return fmt.Errorf("%w: write", ErrHTTPTimeoutInvalid)
	}
	if cfg.HTTP.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: shutdown", ErrHTTPTimeoutInvalid)
	}
	if cfg.Features.Logger {
		provider := NormalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

// NormalizeProvider lowercases and trims a logging provider name.
func NormalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
