package interfaces

import "context"

// MarkdownParser defines how raw Markdown bytes are converted into HTML.
// Implementations must be safe for concurrent use.
type MarkdownParser interface {
	// Parse converts Markdown into HTML using the parser's default settings.
	Parse(markdown []byte) ([]byte, error)
	// ParseWithOptions converts Markdown into HTML using the supplied overrides.
	ParseWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}

// ParseOptions customises Markdown parsing behaviour, keeping option names
// readable for configuration unmarshalling and CLI flags.
type ParseOptions struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
	HeadingIDs bool
	Highlight  HighlightOptions
}

// HighlightOptions toggles the fenced code block highlighting stage.
type HighlightOptions struct {
	Enabled     bool
	Style       string
	LineNumbers bool
	Classes     bool
}

// PostRenderer turns post bodies into HTML fragments.
type PostRenderer interface {
	Render(ctx context.Context, markdown string) (string, error)
	RenderPost(ctx context.Context, post *Post) (*Post, error)
}
