package generator

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

const maxFeedItems = 100

type feedItem struct {
	Title       string
	Summary     string
	Link        string
	GUID        string
	PublishedAt time.Time
}

// buildFeedItems expects posts newest first, as returned by ListAll.
func buildFeedItems(site SiteMetadata, posts []*interfaces.Post) []feedItem {
	items := make([]feedItem, 0, min(len(posts), maxFeedItems))
	for _, post := range posts {
		if post == nil {
			continue
		}
		if len(items) == maxFeedItems {
			break
		}
		link := absoluteURL(site.BaseURL, postRoute(site.PostsRoute, post.Slug))
		items = append(items, feedItem{
			Title:       strings.TrimSpace(post.Title),
			Summary:     normalizeWhitespace(post.Excerpt),
			Link:        link,
			GUID:        link,
			PublishedAt: post.PublishedAt,
		})
	}
	return items
}

func buildRSSFeed(site SiteMetadata, items []feedItem, generatedAt time.Time) string {
	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(`<rss version="2.0">` + "\n")
	builder.WriteString("  <channel>\n")
	builder.WriteString(fmt.Sprintf("    <title>%s</title>\n", escapeXML(siteTitle(site))))
	builder.WriteString(fmt.Sprintf("    <link>%s</link>\n", escapeXML(baseURLWithFallback(site.BaseURL))))
	builder.WriteString(fmt.Sprintf("    <description>%s</description>\n", escapeXML(siteDescription(site))))
	builder.WriteString(fmt.Sprintf("    <lastBuildDate>%s</lastBuildDate>\n", generatedAt.UTC().Format(time.RFC1123Z)))
	for _, item := range items {
		pub := item.PublishedAt
		if pub.IsZero() {
			pub = generatedAt
		}
		builder.WriteString("    <item>\n")
		builder.WriteString(fmt.Sprintf("      <title>%s</title>\n", escapeXML(item.Title)))
		builder.WriteString(fmt.Sprintf("      <link>%s</link>\n", escapeXML(item.Link)))
		builder.WriteString(fmt.Sprintf("      <guid>%s</guid>\n", escapeXML(item.GUID)))
		builder.WriteString(fmt.Sprintf("      <pubDate>%s</pubDate>\n", pub.UTC().Format(time.RFC1123Z)))
		if item.Summary != "" {
			builder.WriteString(fmt.Sprintf("      <description>%s</description>\n", escapeXML(item.Summary)))
		}
		builder.WriteString("    </item>\n")
	}
	builder.WriteString("  </channel>\n")
	builder.WriteString(`</rss>` + "\n")
	return builder.String()
}

func buildAtomFeed(site SiteMetadata, items []feedItem, generatedAt time.Time) string {
	baseLink := baseURLWithFallback(site.BaseURL)
	feedID := baseLink + "/feed.atom.xml"

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(`<feed xmlns="http://www.w3.org/2005/Atom">` + "\n")
	builder.WriteString(fmt.Sprintf("  <id>%s</id>\n", escapeXML(feedID)))
	builder.WriteString(fmt.Sprintf("  <title>%s</title>\n", escapeXML(siteTitle(site))))
	builder.WriteString(fmt.Sprintf("  <updated>%s</updated>\n", generatedAt.UTC().Format(time.RFC3339)))
	builder.WriteString(fmt.Sprintf(`  <link rel="alternate" href="%s" />`+"\n", escapeXML(baseLink)))
	builder.WriteString(fmt.Sprintf(`  <link rel="self" href="%s" />`+"\n", escapeXML(feedID)))
	for _, item := range items {
		updated := item.PublishedAt
		if updated.IsZero() {
			updated = generatedAt
		}
		builder.WriteString("  <entry>\n")
		builder.WriteString(fmt.Sprintf("    <id>%s</id>\n", escapeXML(item.GUID)))
		builder.WriteString(fmt.Sprintf("    <title>%s</title>\n", escapeXML(item.Title)))
		builder.WriteString(fmt.Sprintf(`    <link href="%s" />`+"\n", escapeXML(item.Link)))
		builder.WriteString(fmt.Sprintf("    <updated>%s</updated>\n", updated.UTC().Format(time.RFC3339)))
		if !item.PublishedAt.IsZero() {
			builder.WriteString(fmt.Sprintf("    <published>%s</published>\n", item.PublishedAt.UTC().Format(time.RFC3339)))
		}
		if item.Summary != "" {
			builder.WriteString(fmt.Sprintf("    <summary>%s</summary>\n", escapeXML(item.Summary)))
		}
		builder.WriteString("  </entry>\n")
	}
	builder.WriteString(`</feed>` + "\n")
	return builder.String()
}

func siteTitle(site SiteMetadata) string {
	if title := strings.TrimSpace(site.Name); title != "" {
		return title
	}
	return baseURLWithFallback(site.BaseURL)
}

func siteDescription(site SiteMetadata) string {
	if desc := strings.TrimSpace(site.Description); desc != "" {
		return desc
	}
	return "Latest posts"
}

func normalizeWhitespace(input string) string {
	return strings.Join(strings.Fields(input), " ")
}

func escapeXML(value string) string {
	return html.EscapeString(value)
}
