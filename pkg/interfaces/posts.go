package interfaces

import (
	"context"
	"time"
)

// Post is a single blog entry loaded from a Markdown file. Scalar fields are
// copied verbatim from the frontmatter block; Content holds the raw Markdown
// body until a renderer replaces it with HTML.
type Post struct {
	Slug          string    `json:"slug"`
	Title         string    `json:"title"`
	Excerpt       string    `json:"excerpt"`
	Date          string    `json:"date"`
	Author        Author    `json:"author"`
	CoverImage    string    `json:"coverImage"`
	CoverImageAlt string    `json:"coverImageAlt"`
	Content       string    `json:"content"`
	PublishedAt   time.Time `json:"-"`
	SourcePath    string    `json:"-"`
}

// WithContent returns a copy of the post with Content replaced.
func (p *Post) WithContent(content string) *Post {
	if p == nil {
		return nil
	}
	clone := *p
	clone.Content = content
	return &clone
}

// Author is embedded in a Post and has no identity of its own.
type Author struct {
	Name    string `json:"name" yaml:"name"`
	Picture string `json:"picture" yaml:"picture"`
}

// PostSource exposes the read side of the content loader.
type PostSource interface {
	ListIdentifiers(ctx context.Context) ([]string, error)
	LoadBySlug(ctx context.Context, slug string) (*Post, error)
	ListAll(ctx context.Context) ([]*Post, error)
}
