package generator

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

const displayDateLayout = "January 2, 2006"

// templateHelpers backs the functions exposed to page templates.
type templateHelpers struct {
	site SiteMetadata
}

func newTemplateHelpers(site SiteMetadata) templateHelpers {
	return templateHelpers{site: site}
}

func (h templateHelpers) funcMap() template.FuncMap {
	return template.FuncMap{
		"coverImage": h.CoverImage,
		"formatDate": FormatDate,
		"avatar":     Avatar,
		"postURL":    h.PostURL,
		"absURL":     h.AbsURL,
	}
}

// CoverImage renders a post cover. When a slug is given the image links to
// the post detail page.
func (h templateHelpers) CoverImage(src, alt string, slug ...string) template.HTML {
	var target string
	if len(slug) > 0 {
		target = strings.TrimSpace(slug[0])
	}
	if target == "" {
		return RenderCoverImage(src, alt, "")
	}
	return RenderCoverImage(src, alt, h.PostURL(target))
}

// PostURL returns the site-relative route of the post detail page.
func (h templateHelpers) PostURL(slug string) string {
	return postRoute(h.site.PostsRoute, slug)
}

// AbsURL prefixes path with the configured base URL.
func (h templateHelpers) AbsURL(path string) string {
	return absoluteURL(h.site.BaseURL, path)
}

// RenderCoverImage renders an <img> for a cover image, wrapped in a link to
// href when href is not empty.
func RenderCoverImage(src, alt, href string) template.HTML {
	img := fmt.Sprintf(`<img src="%s" alt="%s" class="cover-image">`,
		template.HTMLEscapeString(src), template.HTMLEscapeString(alt))
	if href == "" {
		return template.HTML(img)
	}
	return template.HTML(fmt.Sprintf(`<a href="%s" aria-label="%s">%s</a>`,
		template.HTMLEscapeString(href), template.HTMLEscapeString(alt), img))
}

// FormatDate renders a <time> element with a machine readable datetime and
// a "January 2, 2006" label.
func FormatDate(t time.Time) template.HTML {
	if t.IsZero() {
		return ""
	}
	return template.HTML(fmt.Sprintf(`<time datetime="%s">%s</time>`,
		t.Format(time.RFC3339), t.Format(displayDateLayout)))
}

// Avatar renders the author picture and name.
func Avatar(author interfaces.Author) template.HTML {
	name := template.HTMLEscapeString(author.Name)
	return template.HTML(fmt.Sprintf(
		`<div class="avatar"><img src="%s" alt="%s" class="avatar-image"><span class="avatar-name">%s</span></div>`,
		template.HTMLEscapeString(author.Picture), name, name))
}
