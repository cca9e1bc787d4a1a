package generator

import (
	"html/template"
	"time"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

// TemplateContext captures the data contract passed to TemplateRenderer implementations.
type TemplateContext struct {
	Site  SiteMetadata
	Page  PageMetadata
	Post  *PostView
	Hero  *PostView
	More  []*PostView
	Build BuildMetadata
}

// SiteMetadata exposes site wide settings to templates.
type SiteMetadata struct {
	BaseURL       string
	Name          string
	Description   string
	TwitterHandle string
	PostsRoute    string

	// Feeds reports whether feed.xml and feed.atom.xml are generated.
	Feeds bool
}

// PageMetadata describes the page being rendered.
type PageMetadata struct {
	Template string
	Route    string
	URL      string
}

// BuildMetadata surfaces high level build information to templates.
type BuildMetadata struct {
	GeneratedAt time.Time
	Options     BuildOptions
}

// PostView wraps a post with the values templates need. HTML is only set on
// detail pages.
type PostView struct {
	*interfaces.Post
	URL            string
	HTML           template.HTML
	ReadingMinutes int
}

func newPostView(site SiteMetadata, post *interfaces.Post) *PostView {
	return &PostView{
		Post: post,
		URL:  postRoute(site.PostsRoute, post.Slug),
	}
}

// RenderedPage captures the rendered output for a page.
type RenderedPage struct {
	Slug         string
	Route        string
	Output       string
	Template     string
	HTML         string
	LastModified time.Time
	Duration     time.Duration
	Checksum     string
}
