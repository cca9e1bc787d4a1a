package markdown

import (
	"bytes"
	"fmt"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

const defaultHighlightStyle = "github"

// GoldmarkParser implements interfaces.MarkdownParser using the goldmark engine.
// The engine for the default options is built once; per-call overrides get a
// fresh engine.
type GoldmarkParser struct {
	defaultOptions interfaces.ParseOptions
	engine         goldmark.Markdown
}

var _ interfaces.MarkdownParser = (*GoldmarkParser)(nil)

// NewGoldmarkParser constructs a parser with GFM extensions and raw HTML
// passthrough unless the defaults say otherwise.
func NewGoldmarkParser(defaults interfaces.ParseOptions) *GoldmarkParser {
	return &GoldmarkParser{
		defaultOptions: defaults,
		engine:         newGoldmarkEngine(defaults),
	}
}

// Parse renders Markdown into HTML using the parser's default configuration.
func (p *GoldmarkParser) Parse(markdown []byte) ([]byte, error) {
	return convert(p.engine, markdown)
}

// ParseWithOptions renders Markdown into HTML using the provided options.
func (p *GoldmarkParser) ParseWithOptions(markdown []byte, opts interfaces.ParseOptions) ([]byte, error) {
	return convert(newGoldmarkEngine(opts), markdown)
}

func convert(engine goldmark.Markdown, markdown []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := engine.Convert(markdown, &buf); err != nil {
		return nil, fmt.Errorf("markdown parse: %w", err)
	}
	return buf.Bytes(), nil
}

// newGoldmarkEngine builds a goldmark.Markdown for opts. Unknown extension
// names are ignored.
func newGoldmarkEngine(opts interfaces.ParseOptions) goldmark.Markdown {
	exts := collectExtensions(opts.Extensions)
	if opts.Highlight.Enabled {
		exts = append(exts, highlightExtension(opts.Highlight))
	}

	parserOptions := []parser.Option{}
	if opts.HeadingIDs {
		parserOptions = append(parserOptions, parser.WithAutoHeadingID())
	}

	rendererOptions := []renderer.Option{}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	// SafeMode and Sanitize both drop raw HTML from the output.
	if !opts.SafeMode && !opts.Sanitize {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	engineOptions := []goldmark.Option{
		goldmark.WithExtensions(exts...),
	}
	if len(parserOptions) > 0 {
		engineOptions = append(engineOptions, goldmark.WithParserOptions(parserOptions...))
	}
	if len(rendererOptions) > 0 {
		engineOptions = append(engineOptions, goldmark.WithRendererOptions(rendererOptions...))
	}

	return goldmark.New(engineOptions...)
}

func highlightExtension(opts interfaces.HighlightOptions) goldmark.Extender {
	style := strings.TrimSpace(opts.Style)
	if style == "" {
		style = defaultHighlightStyle
	}

	formatOptions := []chromahtml.Option{
		chromahtml.WithClasses(opts.Classes),
	}
	if opts.LineNumbers {
		formatOptions = append(formatOptions, chromahtml.WithLineNumbers(true))
	}

	return highlighting.NewHighlighting(
		highlighting.WithStyle(style),
		highlighting.WithFormatOptions(formatOptions...),
	)
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
	"typographer":   extension.Typographer,
}

func collectExtensions(names []string) []goldmark.Extender {
	if len(names) == 0 {
		return []goldmark.Extender{
			extension.GFM,
			extension.Footnote,
		}
	}

	var extenders []goldmark.Extender
	seen := map[string]struct{}{}

	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		ext, ok := extensionRegistry[key]
		if !ok {
			continue
		}
		extenders = append(extenders, ext)
		seen[key] = struct{}{}
	}

	return extenders
}
