package di

import (
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/spf13/afero"

	"github.com/goliatone/go-blog/internal/commands"
	buildcmd "github.com/goliatone/go-blog/internal/commands/build"
	"github.com/goliatone/go-blog/internal/generator"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/logging/console"
	"github.com/goliatone/go-blog/internal/logging/gologger"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/internal/runtimeconfig"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Container wires the loader, renderer and generator from a runtime config.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logWriter      io.Writer
	postsFS        fs.FS
	output         afero.Fs
	parser         interfaces.MarkdownParser
	templates      interfaces.TemplateRenderer

	postSource interfaces.PostSource
	renderer   interfaces.PostRenderer
	generator  generator.Service

	buildSite *buildcmd.BuildSiteHandler
	buildPost *buildcmd.BuildPostHandler
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider selected by Logging.Provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithLogWriter redirects the console provider output. Defaults to stderr.
func WithLogWriter(w io.Writer) Option {
	return func(c *Container) {
		c.logWriter = w
	}
}

// WithPostsFS reads posts from fsys instead of Posts.Dir on disk.
func WithPostsFS(fsys fs.FS) Option {
	return func(c *Container) {
		c.postsFS = fsys
	}
}

// WithPostSource replaces the file loader entirely.
func WithPostSource(source interfaces.PostSource) Option {
	return func(c *Container) {
		c.postSource = source
	}
}

// WithOutputFs overrides the generator output filesystem. Defaults to the OS filesystem.
func WithOutputFs(output afero.Fs) Option {
	return func(c *Container) {
		c.output = output
	}
}

// WithMarkdownParser overrides the goldmark parser.
func WithMarkdownParser(parser interfaces.MarkdownParser) Option {
	return func(c *Container) {
		c.parser = parser
	}
}

// WithTemplate overrides the embedded page templates.
func WithTemplate(tr interfaces.TemplateRenderer) Option {
	return func(c *Container) {
		c.templates = tr
	}
}

// NewContainer validates cfg and builds every service.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if err := c.configurePosts(); err != nil {
		return nil, err
	}
	c.configureRenderer()
	if err := c.configureGenerator(); err != nil {
		return nil, err
	}
	c.configureCommands()

	logging.ModuleLogger(c.loggerProvider, "").Debug("container.configured",
		"posts_dir", cfg.Posts.Dir,
		"output_dir", cfg.Generator.OutputDir,
		"highlight", cfg.Markdown.Parser.Highlight,
	)
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil || !c.Config.Logging.Enabled {
		return nil
	}

	cfg := c.Config.Logging
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		level, _ := console.ParseLevel(cfg.Level)
		c.loggerProvider = console.NewProvider(console.Options{
			Writer:   c.logWriter,
			MinLevel: &level,
		})
	}
	return nil
}

func (c *Container) configurePosts() error {
	if c.postSource != nil {
		return nil
	}
	loaderCfg := posts.Config{
		Extension: c.Config.Posts.Extension,
		Logger:    logging.PostsLogger(c.loggerProvider),
	}
	if c.postsFS != nil {
		c.postSource = posts.NewLoader(c.postsFS, loaderCfg)
		return nil
	}
	loader, err := posts.NewDirLoader(c.Config.Posts.Dir, loaderCfg)
	if err != nil {
		return err
	}
	c.postSource = loader
	return nil
}

func (c *Container) configureRenderer() {
	c.renderer = markdown.NewRenderer(c.parser, ParseOptions(c.Config.Markdown.Parser),
		markdown.WithLogger(logging.MarkdownLogger(c.loggerProvider)),
	)
}

func (c *Container) configureGenerator() error {
	if c.output == nil {
		c.output = afero.NewOsFs()
	}
	cfg := c.Config.Generator
	svc, err := generator.NewService(generator.Config{
		OutputDir:       cfg.OutputDir,
		BaseURL:         cfg.BaseURL,
		SiteName:        cfg.SiteName,
		Description:     cfg.Description,
		TwitterHandle:   cfg.TwitterHandle,
		PostsRoute:      cfg.PostsRoute,
		CleanBuild:      cfg.CleanBuild,
		GenerateSitemap: cfg.GenerateSitemap,
		GenerateRobots:  cfg.GenerateRobots,
		GenerateFeeds:   cfg.GenerateFeeds,
		Workers:         cfg.Workers,
		RenderTimeout:   cfg.RenderTimeout,
	}, generator.Dependencies{
		Posts:     c.postSource,
		Renderer:  c.renderer,
		Templates: c.templates,
		Output:    c.output,
		Logger:    logging.GeneratorLogger(c.loggerProvider),
	})
	if err != nil {
		return fmt.Errorf("di: configure generator: %w", err)
	}
	c.generator = svc
	return nil
}

func (c *Container) configureCommands() {
	logger := commands.CommandLogger(c.loggerProvider, "build")
	timeout := c.Config.Generator.BuildTimeout
	c.buildSite = buildcmd.NewBuildSiteHandler(c.generator, logger,
		commands.WithTimeout[buildcmd.BuildSiteCommand](timeout),
	)
	c.buildPost = buildcmd.NewBuildPostHandler(c.generator, logger,
		commands.WithTimeout[buildcmd.BuildPostCommand](timeout),
	)
}

// ParseOptions converts the runtime parser config into interfaces.ParseOptions.
func ParseOptions(cfg runtimeconfig.MarkdownParserConfig) interfaces.ParseOptions {
	return interfaces.ParseOptions{
		Extensions: append([]string(nil), cfg.Extensions...),
		Sanitize:   cfg.Sanitize,
		HardWraps:  cfg.HardWraps,
		SafeMode:   cfg.SafeMode,
		HeadingIDs: cfg.HeadingIDs,
		Highlight: interfaces.HighlightOptions{
			Enabled:     cfg.Highlight,
			Style:       cfg.HighlightStyle,
			LineNumbers: cfg.LineNumbers,
			Classes:     cfg.HighlightClasses,
		},
	}
}

// LoggerProvider returns the configured provider, nil when logging is disabled.
func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

// PostSource returns the content loader.
func (c *Container) PostSource() interfaces.PostSource { return c.postSource }

// Renderer returns the Markdown renderer.
func (c *Container) Renderer() interfaces.PostRenderer { return c.renderer }

// GeneratorService returns the site generator.
func (c *Container) GeneratorService() generator.Service { return c.generator }

// BuildSiteHandler returns the command handler for full or partial builds.
func (c *Container) BuildSiteHandler() *buildcmd.BuildSiteHandler { return c.buildSite }

// BuildPostHandler returns the command handler for single post builds.
func (c *Container) BuildPostHandler() *buildcmd.BuildPostHandler { return c.buildPost }
