package posts

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"testing/fstest"
	"time"
)

const validPost = `---
title: %s
date: %s
author:
  name: Jane Doe
  picture: /authors/jane.png
coverImage: /covers/%s.jpg
coverImageAlt: cover
excerpt: excerpt
---
Body of %s.
`

func postFile(title, date string) *fstest.MapFile {
	slug := strings.ToLower(strings.ReplaceAll(title, " ", "-"))
	return &fstest.MapFile{Data: []byte(fmt.Sprintf(validPost, title, date, slug, slug))}
}

type brokenFS struct{}

func (brokenFS) Open(string) (fs.File, error) { return nil, fs.ErrPermission }

func newFixtureLoader(tb testing.TB) *Loader {
	tb.Helper()
	loader, err := NewDirLoader(filepath.Join("testdata", "blog"), Config{})
	if err != nil {
		tb.Fatalf("NewDirLoader: %v", err)
	}
	return loader
}

func TestListIdentifiers(t *testing.T) {
	loader := newFixtureLoader(t)

	slugs, err := loader.ListIdentifiers(context.Background())
	if err != nil {
		t.Fatalf("ListIdentifiers: %v", err)
	}

	want := []string{"hello-world", "midyear", "summer-update"}
	if !slices.Equal(slugs, want) {
		t.Fatalf("expected %v, got %v", want, slugs)
	}
}

func TestListIdentifiersSkipsHiddenAndForeignFiles(t *testing.T) {
	loader := NewLoader(fstest.MapFS{
		"a.md":          postFile("A", "2023-01-01"),
		".hidden.md":    postFile("Hidden", "2023-01-01"),
		"readme.txt":    &fstest.MapFile{Data: []byte("x")},
		"nested/b.md":   postFile("B", "2023-01-01"),
		".md":           &fstest.MapFile{Data: []byte("x")},
		"c.markdown.md": postFile("C", "2023-01-01"),
	}, Config{})

	slugs, err := loader.ListIdentifiers(context.Background())
	if err != nil {
		t.Fatalf("ListIdentifiers: %v", err)
	}
	if want := []string{"a", "c.markdown"}; !slices.Equal(slugs, want) {
		t.Fatalf("expected %v, got %v", want, slugs)
	}
}

func TestListIdentifiersCustomExtension(t *testing.T) {
	loader := NewLoader(fstest.MapFS{
		"a.md":  postFile("A", "2023-01-01"),
		"b.mdx": postFile("B", "2023-01-01"),
	}, Config{Extension: ".mdx"})

	slugs, err := loader.ListIdentifiers(context.Background())
	if err != nil {
		t.Fatalf("ListIdentifiers: %v", err)
	}
	if want := []string{"b"}; !slices.Equal(slugs, want) {
		t.Fatalf("expected %v, got %v", want, slugs)
	}
}

func TestNewDirLoaderMissingDirectory(t *testing.T) {
	_, err := NewDirLoader(filepath.Join(t.TempDir(), "missing"), Config{})
	if !IsStorageError(err) {
		t.Fatalf("expected StorageError, got %v", err)
	}
}

func TestListIdentifiersUnreadableDirectory(t *testing.T) {
	loader := NewLoader(brokenFS{}, Config{})

	if _, err := loader.ListIdentifiers(context.Background()); !IsStorageError(err) {
		t.Fatalf("expected StorageError, got %v", err)
	}
}

func TestLoadBySlugRoundTripsIdentifiers(t *testing.T) {
	loader := newFixtureLoader(t)
	ctx := context.Background()

	slugs, err := loader.ListIdentifiers(ctx)
	if err != nil {
		t.Fatalf("ListIdentifiers: %v", err)
	}
	for _, slug := range slugs {
		post, err := loader.LoadBySlug(ctx, slug)
		if err != nil {
			t.Fatalf("LoadBySlug(%s): %v", slug, err)
		}
		if post.Slug != slug {
			t.Fatalf("expected slug %s, got %s", slug, post.Slug)
		}
	}
}

func TestLoadBySlugPopulatesFields(t *testing.T) {
	loader := newFixtureLoader(t)

	post, err := loader.LoadBySlug(context.Background(), "hello-world.md")
	if err != nil {
		t.Fatalf("LoadBySlug: %v", err)
	}

	if post.Slug != "hello-world" {
		t.Fatalf("expected extension to be stripped, got %q", post.Slug)
	}
	if post.Title != "Hello World" {
		t.Fatalf("unexpected title %q", post.Title)
	}
	if post.Date != "2023-01-01" {
		t.Fatalf("expected verbatim date, got %q", post.Date)
	}
	if !post.PublishedAt.Equal(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected PublishedAt %v", post.PublishedAt)
	}
	if post.Author.Name != "Dylan Anthony" || post.Author.Picture != "/assets/blog/authors/dylan.png" {
		t.Fatalf("unexpected author %#v", post.Author)
	}
	if post.CoverImage != "/assets/blog/hello-world/cover.jpg" || post.CoverImageAlt == "" {
		t.Fatalf("unexpected cover image %q / %q", post.CoverImage, post.CoverImageAlt)
	}
	if post.Excerpt != "The first post on the new site." {
		t.Fatalf("unexpected excerpt %q", post.Excerpt)
	}
	if !strings.Contains(post.Content, "# Hello") || strings.Contains(post.Content, "coverImage") {
		t.Fatalf("expected raw markdown body only, got %q", post.Content)
	}
	if post.SourcePath != "hello-world.md" {
		t.Fatalf("unexpected source path %q", post.SourcePath)
	}
}

func TestLoadBySlugHiddenFilesAreNotFound(t *testing.T) {
	loader := NewLoader(fstest.MapFS{
		"a.md":       postFile("A", "2023-01-01"),
		".secret.md": postFile("Secret", "2023-01-01"),
	}, Config{})
	ctx := context.Background()

	all, err := loader.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 1 || all[0].Slug != "a" {
		t.Fatalf("expected only a, got %v", all)
	}

	for _, slug := range []string{".secret", ".secret.md"} {
		post, err := loader.LoadBySlug(ctx, slug)
		if post != nil || !IsNotFound(err) {
			t.Fatalf("%q: expected NotFoundError, got post=%v err=%v", slug, post, err)
		}
	}
}

func TestLoadBySlugNotFound(t *testing.T) {
	loader := newFixtureLoader(t)

	for _, slug := range []string{"does-not-exist", "", "../blog/hello-world", "drafts"} {
		post, err := loader.LoadBySlug(context.Background(), slug)
		if post != nil {
			t.Fatalf("%q: expected no post, got %#v", slug, post)
		}
		if !IsNotFound(err) {
			t.Fatalf("%q: expected NotFoundError, got %v", slug, err)
		}
	}
}

func TestLoadBySlugMalformed(t *testing.T) {
	missingTitle := `---
date: 2023-01-01
author:
  name: Jane
  picture: /jane.png
coverImage: /c.jpg
coverImageAlt: alt
excerpt: text
---
body`

	cases := map[string]struct {
		source string
		fields []string
	}{
		"missing-title": {source: missingTitle, fields: []string{"title"}},
		"no-frontmatter": {source: "# Just markdown\n"},
		"bad-yaml":       {source: "---\ntitle: [unterminated\n---\nbody"},
		"bad-date": {source: strings.Replace(missingTitle, "date: 2023-01-01", "title: T\ndate: yesterday", 1),
			fields: []string{"date"}},
		"missing-author": {source: "---\ntitle: T\ndate: 2023-01-01\ncoverImage: /c.jpg\ncoverImageAlt: alt\nexcerpt: e\n---\n",
			fields: []string{"author.name", "author.picture"}},
		"blank-fields": {source: "---\ntitle: \"  \"\ndate: 2023-01-01\nauthor: {name: J, picture: /j.png}\ncoverImage: /c.jpg\ncoverImageAlt: \"\"\nexcerpt: e\n---\n",
			fields: []string{"coverImageAlt", "title"}},
	}

	files := fstest.MapFS{}
	for slug, tc := range cases {
		files[slug+".md"] = &fstest.MapFile{Data: []byte(tc.source)}
	}
	loader := NewLoader(files, Config{})

	for slug, tc := range cases {
		t.Run(slug, func(t *testing.T) {
			post, err := loader.LoadBySlug(context.Background(), slug)
			if post != nil {
				t.Fatalf("expected no partial post, got %#v", post)
			}
			if !IsMalformed(err) {
				t.Fatalf("expected MalformedContentError, got %v", err)
			}
			if tc.fields != nil {
				if got := MissingFields(err); !slices.Equal(got, tc.fields) {
					t.Fatalf("expected fields %v, got %v", tc.fields, got)
				}
			}
		})
	}
}

func TestListAllOrdersNewestFirst(t *testing.T) {
	loader := newFixtureLoader(t)

	all, err := loader.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}

	var dates []string
	for _, post := range all {
		dates = append(dates, post.PublishedAt.Format("2006-01-02"))
	}
	if want := []string{"2024-06-15", "2023-06-01", "2023-01-01"}; !slices.Equal(dates, want) {
		t.Fatalf("expected %v, got %v", want, dates)
	}
}

func TestListAllKeepsListingOrderForEqualDates(t *testing.T) {
	loader := NewLoader(fstest.MapFS{
		"b.md": postFile("B", "2023-05-05"),
		"a.md": postFile("A", "2023-05-05"),
		"c.md": postFile("C", "2024-01-01"),
		"d.md": postFile("D", "2023-05-05T00:00:00Z"),
	}, Config{})

	all, err := loader.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}

	var slugs []string
	for _, post := range all {
		slugs = append(slugs, post.Slug)
	}
	if want := []string{"c", "a", "b", "d"}; !slices.Equal(slugs, want) {
		t.Fatalf("expected %v, got %v", want, slugs)
	}
}

func TestListAllFailsFast(t *testing.T) {
	loader := NewLoader(fstest.MapFS{
		"good.md":   postFile("Good", "2023-01-01"),
		"broken.md": &fstest.MapFile{Data: []byte("---\ndate: 2023-01-01\n---\n")},
	}, Config{})

	all, err := loader.ListAll(context.Background())
	if all != nil {
		t.Fatalf("expected no partial result, got %d posts", len(all))
	}
	if !IsMalformed(err) {
		t.Fatalf("expected MalformedContentError, got %v", err)
	}
}

func TestLoaderHonoursCancelledContext(t *testing.T) {
	loader := newFixtureLoader(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := loader.ListAll(ctx); err == nil {
		t.Fatal("expected context error")
	}
}

func TestParseDate(t *testing.T) {
	cases := map[string]time.Time{
		"2020-03-16T05:35:07.322Z":  time.Date(2020, 3, 16, 5, 35, 7, 322000000, time.UTC),
		"2024-06-15":                time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
		"2024-06-15 10:00:00":       time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC),
		" 2024-06-15T10:00:00 ":     time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC),
		"2024-06-15T10:00:00+02:00": time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC),
	}
	for input, want := range cases {
		got, err := ParseDate(input)
		if err != nil {
			t.Fatalf("ParseDate(%q): %v", input, err)
		}
		if !got.Equal(want) {
			t.Fatalf("ParseDate(%q) = %v, want %v", input, got, want)
		}
	}

	if _, err := ParseDate("June 15"); err == nil {
		t.Fatal("expected error for non ISO date")
	}
}
