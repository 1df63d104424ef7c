package blog

import "github.com/goliatone/go-blog/internal/runtimeconfig"

var (
	ErrContentDirRequired      = runtimeconfig.ErrContentDirRequired
	ErrCacheWatchRequiresCache = runtimeconfig.ErrCacheWatchRequiresCache
	ErrHTTPAddrRequired        = runtimeconfig.ErrHTTPAddrRequired
	ErrHTTPBasePathInvalid     = runtimeconfig.ErrHTTPBasePathInvalid
	ErrHTTPTimeoutInvalid      = runtimeconfig.ErrHTTPTimeoutInvalid
	ErrLoggingProviderRequired = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
	ErrConfigFileRead          = runtimeconfig.ErrConfigFileRead
)

type (
	Config         = runtimeconfig.Config
	PostsConfig    = runtimeconfig.PostsConfig
	MarkdownConfig = runtimeconfig.MarkdownConfig
	CacheConfig    = runtimeconfig.CacheConfig
	HTTPConfig     = runtimeconfig.HTTPConfig
	Features       = runtimeconfig.Features
	LoggingConfig  = runtimeconfig.LoggingConfig
)

// DefaultConfig returns the default blog configuration.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a YAML configuration file over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.LoadFile(path)
}
