package generator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"html/template"
	"runtime"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

var (
	errPostsRequired    = errors.New("generator: post source is required")
	errRendererRequired = errors.New("generator: markdown renderer is required")
)

// Service describes the static site generator contract.
type Service interface {
	Build(ctx context.Context, opts BuildOptions) (*BuildResult, error)
	BuildPost(ctx context.Context, slug string) (*RenderedPage, error)
}

// Config captures runtime behaviour toggles for the generator.
type Config struct {
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
	RenderTimeout   time.Duration
}

// BuildOptions narrows the scope of a generator run. When Slugs is set only
// those detail pages are rebuilt; the index, sitemap and feeds are skipped.
type BuildOptions struct {
	Slugs  []string
	DryRun bool
}

// BuildResult reports aggregated build metadata.
type BuildResult struct {
	PagesBuilt  int
	Outputs     []string
	Rendered    []RenderedPage
	GeneratedAt time.Time
	Duration    time.Duration
	DryRun      bool
}

// Dependencies lists the services required by the generator. Templates
// defaults to the embedded html/template set. A nil Output behaves like a
// dry run.
type Dependencies struct {
	Posts     interfaces.PostSource
	Renderer  interfaces.PostRenderer
	Templates interfaces.TemplateRenderer
	Output    afero.Fs
	Logger    interfaces.Logger
}

// NewService wires a generator implementation with the provided configuration and dependencies.
func NewService(cfg Config, deps Dependencies) (Service, error) {
	site := SiteMetadata{
		BaseURL:       strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		Name:          strings.TrimSpace(cfg.SiteName),
		Description:   strings.TrimSpace(cfg.Description),
		TwitterHandle: strings.TrimSpace(cfg.TwitterHandle),
		PostsRoute:    strings.Trim(strings.TrimSpace(cfg.PostsRoute), "/"),
		Feeds:         cfg.GenerateFeeds,
	}
	if site.PostsRoute == "" {
		site.PostsRoute = defaultPostsRoute
	}

	if deps.Templates == nil {
		templates, err := NewHTMLTemplates(site)
		if err != nil {
			return nil, err
		}
		deps.Templates = templates
	}

	return &service{
		cfg:    cfg,
		deps:   deps,
		site:   site,
		logger: logging.OrNoOp(deps.Logger),
		now:    time.Now,
	}, nil
}

type service struct {
	cfg    Config
	deps   Dependencies
	site   SiteMetadata
	logger interfaces.Logger
	now    func() time.Time
}

func (s *service) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	result := &BuildResult{
		GeneratedAt: s.now().UTC(),
		DryRun:      opts.DryRun,
	}
	build := BuildMetadata{GeneratedAt: result.GeneratedAt, Options: opts}
	writer := newArtifactWriter(s.deps.Output, opts.DryRun)
	partial := len(opts.Slugs) > 0
	logger := logging.WithFields(s.logger, map[string]any{
		"dry_run": opts.DryRun,
		"partial": partial,
	})
	logger.Info("generator.build.start")

	if s.cfg.CleanBuild && !partial {
		if err := writer.Clean(ctx, s.outputDir()); err != nil {
			return nil, err
		}
	}

	var (
		all   []*interfaces.Post
		slugs = opts.Slugs
	)
	if !partial {
		var err error
		all, err = s.deps.Posts.ListAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("generator: list posts: %w", err)
		}
		slugs, err = s.deps.Posts.ListIdentifiers(ctx)
		if err != nil {
			return nil, fmt.Errorf("generator: list slugs: %w", err)
		}
	}

	pages, err := s.renderPosts(ctx, writer, build, slugs)
	if err != nil {
		logger.Error("generator.build.failed", "error", err)
		return nil, err
	}

	if !partial {
		index, err := s.renderIndex(ctx, writer, build, all)
		if err != nil {
			logger.Error("generator.build.failed", "error", err)
			return nil, err
		}
		pages = append([]RenderedPage{index}, pages...)
	}

	result.Rendered = pages
	result.PagesBuilt = len(pages)
	for _, page := range pages {
		result.Outputs = append(result.Outputs, page.Output)
	}

	if !partial {
		extra, err := s.writeSiteFiles(ctx, writer, result.GeneratedAt, pages, all)
		if err != nil {
			logger.Error("generator.build.failed", "error", err)
			return nil, err
		}
		result.Outputs = append(result.Outputs, extra...)
	}

	result.Duration = time.Since(start)
	logger.Info("generator.build.completed",
		"pages", result.PagesBuilt,
		"files", len(result.Outputs),
		"duration", result.Duration,
	)
	return result, nil
}

func (s *service) BuildPost(ctx context.Context, slug string) (*RenderedPage, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	build := BuildMetadata{
		GeneratedAt: s.now().UTC(),
		Options:     BuildOptions{Slugs: []string{slug}},
	}
	page, err := s.buildPost(ctx, newArtifactWriter(s.deps.Output, false), build, slug)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *service) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.deps.Posts == nil {
		return errPostsRequired
	}
	if s.deps.Renderer == nil {
		return errRendererRequired
	}
	return nil
}

// renderPosts builds detail pages on a bounded pool. The first failure
// cancels the remaining workers and is returned.
func (s *service) renderPosts(ctx context.Context, writer artifactWriter, build BuildMetadata, slugs []string) ([]RenderedPage, error) {
	var (
		mu    sync.Mutex
		pages = make([]RenderedPage, 0, len(slugs))
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.workerCount())
	for _, slug := range slugs {
		group.Go(func() error {
			page, err := s.buildPost(groupCtx, writer, build, slug)
			if err != nil {
				return err
			}
			mu.Lock()
			pages = append(pages, page)
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	slices.SortFunc(pages, func(a, b RenderedPage) int {
		return strings.Compare(a.Route, b.Route)
	})
	return pages, nil
}

func (s *service) buildPost(ctx context.Context, writer artifactWriter, build BuildMetadata, slug string) (RenderedPage, error) {
	if s.cfg.RenderTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RenderTimeout)
		defer cancel()
	}
	logger := logging.WithPostContext(s.logger, slug, "", "render")

	post, err := s.deps.Posts.LoadBySlug(ctx, slug)
	if err != nil {
		return RenderedPage{}, fmt.Errorf("generator: load post %q: %w", slug, err)
	}
	rendered, err := s.deps.Renderer.RenderPost(ctx, post)
	if err != nil {
		return RenderedPage{}, fmt.Errorf("generator: render post %q: %w", slug, err)
	}

	view := newPostView(s.site, rendered)
	view.HTML = template.HTML(rendered.Content)
	minutes, err := readingMinutes(rendered.Content)
	if err != nil {
		logger.Warn("generator.reading_time.failed", "error", err)
		minutes = 1
	}
	view.ReadingMinutes = minutes

	page, err := s.renderPage(ctx, writer, templatePost, TemplateContext{
		Site:  s.site,
		Post:  view,
		Build: build,
	}, view.URL, categoryPage)
	if err != nil {
		return RenderedPage{}, fmt.Errorf("generator: post %q: %w", slug, err)
	}
	page.Slug = post.Slug
	page.LastModified = post.PublishedAt
	logger.Debug("generator.post.rendered", "output", page.Output, "duration", page.Duration)
	return page, nil
}

// renderIndex expects posts newest first. The first post is the hero.
func (s *service) renderIndex(ctx context.Context, writer artifactWriter, build BuildMetadata, all []*interfaces.Post) (RenderedPage, error) {
	tctx := TemplateContext{Site: s.site, Build: build}
	if len(all) > 0 {
		tctx.Hero = newPostView(s.site, all[0])
		tctx.More = make([]*PostView, 0, len(all)-1)
		for _, post := range all[1:] {
			tctx.More = append(tctx.More, newPostView(s.site, post))
		}
	}

	page, err := s.renderPage(ctx, writer, templateIndex, tctx, "/", categoryIndex)
	if err != nil {
		return RenderedPage{}, fmt.Errorf("generator: index: %w", err)
	}
	if len(all) > 0 {
		page.LastModified = all[0].PublishedAt
	}
	return page, nil
}

func (s *service) renderPage(
	ctx context.Context,
	writer artifactWriter,
	templateName string,
	tctx TemplateContext,
	route string,
	category writeCategory,
) (RenderedPage, error) {
	if err := ctx.Err(); err != nil {
		return RenderedPage{}, err
	}
	tctx.Page = PageMetadata{
		Template: templateName,
		Route:    route,
		URL:      absoluteURL(s.site.BaseURL, route),
	}

	start := time.Now()
	html, err := s.deps.Templates.Render(templateName, tctx)
	if err != nil {
		return RenderedPage{}, fmt.Errorf("render template %q: %w", templateName, err)
	}

	page := RenderedPage{
		Route:    route,
		Template: templateName,
		HTML:     html,
		Output:   joinOutputPath(s.outputDir(), buildOutputPath(route)),
		Checksum: computeHashFromString(html),
		Duration: time.Since(start),
	}
	if err := writer.WriteFile(ctx, writeFileRequest{
		Path:     page.Output,
		Content:  strings.NewReader(html),
		Category: category,
	}); err != nil {
		return RenderedPage{}, err
	}
	return page, nil
}

func (s *service) writeSiteFiles(
	ctx context.Context,
	writer artifactWriter,
	generatedAt time.Time,
	pages []RenderedPage,
	all []*interfaces.Post,
) ([]string, error) {
	type artifact struct {
		name     string
		category writeCategory
		content  string
	}

	var artifacts []artifact
	if s.cfg.GenerateSitemap {
		artifacts = append(artifacts, artifact{"sitemap.xml", categorySitemap, buildSitemap(s.site.BaseURL, pages, generatedAt)})
	}
	if s.cfg.GenerateRobots {
		artifacts = append(artifacts, artifact{"robots.txt", categoryRobots, buildRobots(s.site.BaseURL, s.cfg.GenerateSitemap)})
	}
	if s.cfg.GenerateFeeds {
		items := buildFeedItems(s.site, all)
		artifacts = append(artifacts,
			artifact{"feed.xml", categoryFeed, buildRSSFeed(s.site, items, generatedAt)},
			artifact{"feed.atom.xml", categoryFeed, buildAtomFeed(s.site, items, generatedAt)},
		)
	}

	written := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		target := joinOutputPath(s.outputDir(), a.name)
		if err := writer.WriteFile(ctx, writeFileRequest{
			Path:     target,
			Content:  strings.NewReader(a.content),
			Category: a.category,
		}); err != nil {
			return written, err
		}
		written = append(written, target)
	}
	return written, nil
}

func (s *service) outputDir() string {
	return strings.TrimRight(strings.TrimSpace(s.cfg.OutputDir), "/")
}

func (s *service) workerCount() int {
	if s.cfg.Workers > 0 {
		return s.cfg.Workers
	}
	return max(runtime.NumCPU(), 1)
}

func computeHashFromString(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
