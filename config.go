package blog

import "github.com/goliatone/go-blog/internal/runtimeconfig"

var (
	ErrPostsDirRequired           = runtimeconfig.ErrPostsDirRequired
	ErrPostsExtensionInvalid      = runtimeconfig.ErrPostsExtensionInvalid
	ErrGeneratorOutputDirRequired = runtimeconfig.ErrGeneratorOutputDirRequired
	ErrGeneratorWorkersInvalid    = runtimeconfig.ErrGeneratorWorkersInvalid
	ErrGeneratorPostsRouteInvalid = runtimeconfig.ErrGeneratorPostsRouteInvalid
	ErrGeneratorTimeoutInvalid    = runtimeconfig.ErrGeneratorTimeoutInvalid
	ErrLoggingProviderRequired    = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown     = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid        = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid       = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config               = runtimeconfig.Config
	PostsConfig          = runtimeconfig.PostsConfig
	MarkdownConfig       = runtimeconfig.MarkdownConfig
	MarkdownParserConfig = runtimeconfig.MarkdownParserConfig
	GeneratorConfig      = runtimeconfig.GeneratorConfig
	LoggingConfig        = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// ApplyEnv overlays BLOG_* variables resolved through lookup, usually os.LookupEnv.
func ApplyEnv(cfg Config, lookup runtimeconfig.LookupFunc) (Config, error) {
	return runtimeconfig.ApplyEnv(cfg, lookup)
}
