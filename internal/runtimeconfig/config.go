package runtimeconfig

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrPostsDirRequired = errors.New("blog config: posts directory is required")
var ErrPostsExtensionInvalid = errors.New("blog config: posts extension must start with a dot")
var ErrGeneratorOutputDirRequired = errors.New("blog config: generator output directory is required")
var ErrGeneratorWorkersInvalid = errors.New("blog config: generator workers must be zero or positive")
var ErrGeneratorTimeoutInvalid = errors.New("blog config: generator timeouts must be zero or positive")
var ErrGeneratorPostsRouteInvalid = errors.New("blog config: generator posts route must not be empty")
var ErrLoggingProviderRequired = errors.New("blog config: logging provider is required when logging is enabled")
var ErrLoggingProviderUnknown = errors.New("blog config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("blog config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("blog config: logging format is invalid")

// Config is the runtime configuration consumed by the blog module and CLI.
type Config struct {
	Posts     PostsConfig
	Markdown  MarkdownConfig
	Generator GeneratorConfig
	Logging   LoggingConfig
}

// PostsConfig locates the post source files.
type PostsConfig struct {
	Dir       string
	Extension string
}

// MarkdownConfig captures renderer behaviour.
type MarkdownConfig struct {
	Parser MarkdownParserConfig
}

// MarkdownParserConfig mirrors interfaces.ParseOptions for runtime configuration.
type MarkdownParserConfig struct {
	Extensions     []string
	Sanitize       bool
	HardWraps      bool
	SafeMode       bool
	HeadingIDs     bool
	Highlight      bool
	HighlightStyle string

	// HighlightClasses emits chroma CSS classes instead of inline styles.
	HighlightClasses bool
	LineNumbers      bool
}

// GeneratorConfig captures behaviour for the static site build.
type GeneratorConfig struct {
	OutputDir       string
	BaseURL         string
	SiteName        string
	Description     string
	TwitterHandle   string
	PostsRoute      string
	CleanBuild      bool
	GenerateSitemap bool
	GenerateRobots  bool
	GenerateFeeds   bool
	Workers         int

	// RenderTimeout bounds each post; BuildTimeout bounds a whole build.
	// Zero disables either limit.
	RenderTimeout time.Duration
	BuildTimeout  time.Duration
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Enabled   bool
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns the defaults used by the CLI.
func DefaultConfig() Config {
	return Config{
		Posts: PostsConfig{
			Dir:       "_posts",
			Extension: ".md",
		},
		Markdown: MarkdownConfig{
			Parser: MarkdownParserConfig{
				Highlight:      true,
				HighlightStyle: "github",
			},
		},
		Generator: GeneratorConfig{
			OutputDir:       "dist",
			PostsRoute:      "posts",
			CleanBuild:      true,
			GenerateSitemap: true,
			GenerateFeeds:   true,
			RenderTimeout:   5 * time.Minute,
		},
		Logging: LoggingConfig{
			Enabled:  true,
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Posts.Dir) == "" {
		return ErrPostsDirRequired
	}
	if ext := strings.TrimSpace(cfg.Posts.Extension); ext != "" && !strings.HasPrefix(ext, ".") {
		return fmt.Errorf("%w: %s", ErrPostsExtensionInvalid, ext)
	}
	if strings.TrimSpace(cfg.Generator.OutputDir) == "" {
		return ErrGeneratorOutputDirRequired
	}
	if cfg.Generator.Workers < 0 {
		return ErrGeneratorWorkersInvalid
	}
	if cfg.Generator.RenderTimeout < 0 || cfg.Generator.BuildTimeout < 0 {
		return ErrGeneratorTimeoutInvalid
	}
	if strings.Trim(strings.TrimSpace(cfg.Generator.PostsRoute), "/") == "" {
		return ErrGeneratorPostsRouteInvalid
	}
	if cfg.Logging.Enabled {
		provider := normalizeProvider(cfg.Logging.Provider)
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

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overlays BLOG_* variables on top of cfg. Unset variables leave the
// existing value untouched; malformed numbers and booleans are reported.
func ApplyEnv(cfg Config, lookup LookupFunc) (Config, error) {
	if lookup == nil {
		return cfg, nil
	}

	str := func(key string, dst *string) {
		if value, ok := lookup(key); ok {
			*dst = strings.TrimSpace(value)
		}
	}
	var errs []error
	boolean := func(key string, dst *bool) {
		value, ok := lookup(key)
		if !ok {
			return
		}
		parsed, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			errs = append(errs, fmt.Errorf("blog config: %s: %w", key, err))
			return
		}
		*dst = parsed
	}
	duration := func(key string, dst *time.Duration) {
		value, ok := lookup(key)
		if !ok {
			return
		}
		parsed, err := time.ParseDuration(strings.TrimSpace(value))
		if err != nil {
			errs = append(errs, fmt.Errorf("blog config: %s: %w", key, err))
			return
		}
		*dst = parsed
	}

	str("BLOG_POSTS_DIR", &cfg.Posts.Dir)
	str("BLOG_POSTS_EXTENSION", &cfg.Posts.Extension)
	str("BLOG_OUTPUT_DIR", &cfg.Generator.OutputDir)
	str("BLOG_BASE_URL", &cfg.Generator.BaseURL)
	str("BLOG_SITE_NAME", &cfg.Generator.SiteName)
	str("BLOG_SITE_DESCRIPTION", &cfg.Generator.Description)
	str("BLOG_TWITTER_HANDLE", &cfg.Generator.TwitterHandle)
	str("BLOG_POSTS_ROUTE", &cfg.Generator.PostsRoute)
	str("BLOG_HIGHLIGHT_STYLE", &cfg.Markdown.Parser.HighlightStyle)
	str("BLOG_LOG_PROVIDER", &cfg.Logging.Provider)
	str("BLOG_LOG_LEVEL", &cfg.Logging.Level)
	str("BLOG_LOG_FORMAT", &cfg.Logging.Format)

	boolean("BLOG_CLEAN_BUILD", &cfg.Generator.CleanBuild)
	boolean("BLOG_SITEMAP", &cfg.Generator.GenerateSitemap)
	boolean("BLOG_ROBOTS", &cfg.Generator.GenerateRobots)
	boolean("BLOG_FEEDS", &cfg.Generator.GenerateFeeds)
	boolean("BLOG_HIGHLIGHT", &cfg.Markdown.Parser.Highlight)
	boolean("BLOG_SAFE_MODE", &cfg.Markdown.Parser.SafeMode)
	boolean("BLOG_SANITIZE", &cfg.Markdown.Parser.Sanitize)
	boolean("BLOG_HARD_WRAPS", &cfg.Markdown.Parser.HardWraps)
	boolean("BLOG_HEADING_IDS", &cfg.Markdown.Parser.HeadingIDs)
	boolean("BLOG_LINE_NUMBERS", &cfg.Markdown.Parser.LineNumbers)
	boolean("BLOG_HIGHLIGHT_CLASSES", &cfg.Markdown.Parser.HighlightClasses)
	boolean("BLOG_LOG_ENABLED", &cfg.Logging.Enabled)

	if value, ok := lookup("BLOG_MARKDOWN_EXTENSIONS"); ok {
		cfg.Markdown.Parser.Extensions = splitList(value)
	}
	duration("BLOG_RENDER_TIMEOUT", &cfg.Generator.RenderTimeout)
	duration("BLOG_BUILD_TIMEOUT", &cfg.Generator.BuildTimeout)

	if value, ok := lookup("BLOG_WORKERS"); ok {
		workers, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			errs = append(errs, fmt.Errorf("blog config: BLOG_WORKERS: %w", err))
		} else {
			cfg.Generator.Workers = workers
		}
	}

	return cfg, errors.Join(errs...)
}

// splitList parses a comma separated list, dropping empty items.
func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func normalizeProvider(provider string) string {
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
