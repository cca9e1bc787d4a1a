package generator

import (
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

func TestBuildFeeds(t *testing.T) {
	site := SiteMetadata{BaseURL: "https://example.com", Name: "Example & Co", PostsRoute: "posts"}
	published := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	items := buildFeedItems(site, []*interfaces.Post{
		{Slug: "beta", Title: "Beta", Excerpt: "  Second\n post ", PublishedAt: published},
		nil,
		{Slug: "alpha", Title: "Alpha", PublishedAt: published.AddDate(-1, 0, 0)},
	})
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Link != "https://example.com/posts/beta" || items[0].Summary != "Second post" {
		t.Fatalf("unexpected first item: %+v", items[0])
	}

	generated := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	rss := buildRSSFeed(site, items, generated)
	for _, want := range []string{
		"<title>Example &amp; Co</title>",
		"<link>https://example.com/posts/beta</link>",
		"<pubDate>Sat, 15 Jun 2024 00:00:00 +0000</pubDate>",
		"<description>Latest posts</description>",
	} {
		if !strings.Contains(rss, want) {
			t.Fatalf("rss missing %s:\n%s", want, rss)
		}
	}
	if strings.Index(rss, "posts/beta") > strings.Index(rss, "posts/alpha") {
		t.Fatal("expected feed items to keep newest-first order")
	}

	atom := buildAtomFeed(site, items, generated)
	for _, want := range []string{
		"<id>https://example.com/feed.atom.xml</id>",
		"<published>2024-06-15T00:00:00Z</published>",
		"<summary>Second post</summary>",
	} {
		if !strings.Contains(atom, want) {
			t.Fatalf("atom missing %s:\n%s", want, atom)
		}
	}
}

func TestBuildFeedItemsCapsLength(t *testing.T) {
	all := make([]*interfaces.Post, maxFeedItems+5)
	for i := range all {
		all[i] = &interfaces.Post{Slug: "p", Title: "P"}
	}
	if got := len(buildFeedItems(SiteMetadata{}, all)); got != maxFeedItems {
		t.Fatalf("expected %d items, got %d", maxFeedItems, got)
	}
}
