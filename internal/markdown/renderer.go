package markdown

import (
	"context"
	"errors"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Renderer converts post bodies to HTML fragments.
type Renderer struct {
	parser interfaces.MarkdownParser
	logger interfaces.Logger
}

var _ interfaces.PostRenderer = (*Renderer)(nil)

// RendererOption customises a Renderer.
type RendererOption func(*Renderer)

// WithLogger sets the renderer logger.
func WithLogger(logger interfaces.Logger) RendererOption {
	return func(r *Renderer) {
		r.logger = logging.OrNoOp(logger)
	}
}

// NewRenderer wraps parser. When parser is nil a GoldmarkParser with defaults
// is used.
func NewRenderer(parser interfaces.MarkdownParser, defaults interfaces.ParseOptions, opts ...RendererOption) *Renderer {
	if parser == nil {
		parser = NewGoldmarkParser(defaults)
	}
	r := &Renderer{
		parser: parser,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render converts markdown to an HTML fragment. Malformed Markdown does not
// fail; goldmark emits best-effort HTML.
func (r *Renderer) Render(ctx context.Context, markdown string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	out, err := r.parser.Parse([]byte(markdown))
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// RenderPost returns a copy of post whose Content is the rendered HTML.
func (r *Renderer) RenderPost(ctx context.Context, post *interfaces.Post) (*interfaces.Post, error) {
	if post == nil {
		return nil, errors.New("markdown renderer: post is nil")
	}
	html, err := r.Render(ctx, post.Content)
	if err != nil {
		logging.WithPostContext(r.logger, post.Slug, post.SourcePath, "render").
			Error("markdown.render.failed", "error", err)
		return nil, err
	}
	return post.WithContent(html), nil
}
