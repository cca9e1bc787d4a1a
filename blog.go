// Package blog loads Markdown posts with frontmatter, renders them to HTML
// and builds a static site from them.
package blog

import (
	"context"

	buildcmd "github.com/goliatone/go-blog/internal/commands/build"
	"github.com/goliatone/go-blog/internal/di"
	"github.com/goliatone/go-blog/internal/generator"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Post exports the post record.
type Post = interfaces.Post

// Author exports the post author record.
type Author = interfaces.Author

// BuildOptions exports the generator build options.
type BuildOptions = generator.BuildOptions

// BuildResult exports the generator build summary.
type BuildResult = generator.BuildResult

// RenderedPage exports a single generated page.
type RenderedPage = generator.RenderedPage

// BuildSiteCommand exports the full site build command message.
type BuildSiteCommand = buildcmd.BuildSiteCommand

// BuildPostCommand exports the single post build command message.
type BuildPostCommand = buildcmd.BuildPostCommand

// Option customises module wiring.
type Option = di.Option

var (
	WithLoggerProvider = di.WithLoggerProvider
	WithLogWriter      = di.WithLogWriter
	WithPostsFS        = di.WithPostsFS
	WithPostSource     = di.WithPostSource
	WithOutputFs       = di.WithOutputFs
	WithMarkdownParser = di.WithMarkdownParser
	WithTemplate       = di.WithTemplate
)

var (
	IsStorageError = posts.IsStorageError
	IsNotFound     = posts.IsNotFound
	IsMalformed    = posts.IsMalformed
	MissingFields  = posts.MissingFields
)

// Module is the top level blog runtime facade.
type Module struct {
	container *di.Container
}

// New validates cfg and wires the loader, renderer and generator.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// GetAllSlugs lists the slug of every post in directory order.
func (m *Module) GetAllSlugs(ctx context.Context) ([]string, error) {
	return m.container.PostSource().ListIdentifiers(ctx)
}

// GetPostBySlug loads a post. Content holds the raw Markdown body.
func (m *Module) GetPostBySlug(ctx context.Context, slug string) (*Post, error) {
	return m.container.PostSource().LoadBySlug(ctx, slug)
}

// GetAllPosts loads every post, newest first.
func (m *Module) GetAllPosts(ctx context.Context) ([]*Post, error) {
	return m.container.PostSource().ListAll(ctx)
}

// Render converts Markdown to an HTML fragment.
func (m *Module) Render(ctx context.Context, markdown string) (string, error) {
	return m.container.Renderer().Render(ctx, markdown)
}

// RenderPost returns a copy of post with Content rendered to HTML.
func (m *Module) RenderPost(ctx context.Context, post *Post) (*Post, error) {
	return m.container.Renderer().RenderPost(ctx, post)
}

// Build generates the static site, or only opts.Slugs when set.
func (m *Module) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	var result *BuildResult
	err := m.container.BuildSiteHandler().Execute(ctx, BuildSiteCommand{
		Slugs:  opts.Slugs,
		DryRun: opts.DryRun,
		ResultCallback: func(env buildcmd.ResultEnvelope) {
			result = env.Result
		},
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// BuildPost regenerates a single post page.
func (m *Module) BuildPost(ctx context.Context, slug string) (*RenderedPage, error) {
	var page *RenderedPage
	err := m.container.BuildPostHandler().Execute(ctx, BuildPostCommand{
		Slug: slug,
		ResultCallback: func(env buildcmd.ResultEnvelope) {
			page = env.Page
		},
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}
