// Package markdown renders post bodies to HTML fragments with goldmark.
// Fenced code blocks can be passed through a chroma-based highlighting
// stage. Parsers and renderers are stateless and safe for concurrent use.
package markdown
