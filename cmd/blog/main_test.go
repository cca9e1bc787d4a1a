package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	blog "github.com/goliatone/go-blog"
)

type stubModule struct {
	cfg       blog.Config
	posts     []*blog.Post
	lastBuild blog.BuildOptions
	rendered  string
}

func (s *stubModule) GetAllSlugs(context.Context) ([]string, error) {
	out := make([]string, 0, len(s.posts))
	for _, post := range s.posts {
		out = append(out, post.Slug)
	}
	return out, nil
}

func (s *stubModule) GetPostBySlug(_ context.Context, slug string) (*blog.Post, error) {
	for _, post := range s.posts {
		if post.Slug == slug {
			return post, nil
		}
	}
	return nil, errors.New("not found")
}

func (s *stubModule) GetAllPosts(context.Context) ([]*blog.Post, error) {
	return s.posts, nil
}

func (s *stubModule) Render(_ context.Context, markdown string) (string, error) {
	s.rendered = markdown
	return "<p>" + strings.TrimSpace(markdown) + "</p>\n", nil
}

func (s *stubModule) RenderPost(_ context.Context, post *blog.Post) (*blog.Post, error) {
	return post.WithContent("<p>rendered</p>"), nil
}

func (s *stubModule) Build(_ context.Context, opts blog.BuildOptions) (*blog.BuildResult, error) {
	s.lastBuild = opts
	return &blog.BuildResult{PagesBuilt: 2, Outputs: []string{"dist/index.html"}, DryRun: opts.DryRun}, nil
}

func withStubModule(t *testing.T) *stubModule {
	t.Helper()
	stub := &stubModule{
		posts: []*blog.Post{
			{Slug: "newer", Title: "Newer", Date: "2024-01-01", Content: "# Newer"},
			{Slug: "older", Title: "Older", Date: "2023-01-01", Content: "# Older"},
		},
	}
	original := moduleBuilder
	moduleBuilder = func(cfg blog.Config) (module, error) {
		stub.cfg = cfg
		return stub, nil
	}
	t.Cleanup(func() { moduleBuilder = original })
	return stub
}

func noEnv(string) (string, bool) { return "", false }

func runCLI(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	if err := run(context.Background(), args, strings.NewReader(stdin), &out, noEnv); err != nil {
		t.Fatalf("run %v: %v", args, err)
	}
	return out.String()
}

func TestRunBuildPassesOptions(t *testing.T) {
	stub := withStubModule(t)

	out := runCLI(t, "", "build", "--dry-run", "--slug", "newer", "--slug", "older")

	if !stub.lastBuild.DryRun {
		t.Fatal("expected dry run to propagate")
	}
	if !slices.Equal(stub.lastBuild.Slugs, []string{"newer", "older"}) {
		t.Fatalf("unexpected slugs %v", stub.lastBuild.Slugs)
	}
	if !strings.Contains(out, "built 2 pages") || !strings.Contains(out, "dist/index.html") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRunSlugs(t *testing.T) {
	withStubModule(t)

	out := runCLI(t, "", "slugs")
	if out != "newer\nolder\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRunPostsJSON(t *testing.T) {
	withStubModule(t)

	var posts []blog.Post
	if err := json.Unmarshal([]byte(runCLI(t, "", "posts", "--json")), &posts); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(posts) != 2 || posts[0].Slug != "newer" {
		t.Fatalf("unexpected posts %+v", posts)
	}
}

func TestRunShowRendersHTML(t *testing.T) {
	withStubModule(t)

	var post blog.Post
	if err := json.Unmarshal([]byte(runCLI(t, "", "show", "older", "--html")), &post); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if post.Content != "<p>rendered</p>" {
		t.Fatalf("unexpected content %q", post.Content)
	}
}

func TestRunShowUnknownSlugFails(t *testing.T) {
	withStubModule(t)

	var out bytes.Buffer
	if err := run(context.Background(), []string{"show", "missing"}, strings.NewReader(""), &out, noEnv); err == nil {
		t.Fatal("expected error for unknown slug")
	}
}

func TestRunRenderReadsStdinAndFiles(t *testing.T) {
	stub := withStubModule(t)

	if out := runCLI(t, "hello from stdin", "render"); out != "<p>hello from stdin</p>\n" {
		t.Fatalf("unexpected stdin output %q", out)
	}

	path := filepath.Join(t.TempDir(), "note.md")
	if err := os.WriteFile(path, []byte("from file"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	runCLI(t, "", "render", path)
	if stub.rendered != "from file" {
		t.Fatalf("expected file content to be rendered, got %q", stub.rendered)
	}
}

func TestRunFlagsAndEnvShapeConfig(t *testing.T) {
	stub := withStubModule(t)
	env := map[string]string{"BLOG_POSTS_DIR": "content", "BLOG_SITE_NAME": "From Env"}
	lookup := func(key string) (string, bool) {
		value, ok := env[key]
		return value, ok
	}

	var out bytes.Buffer
	args := []string{"slugs", "--site-name", "From Flag", "--workers", "3"}
	if err := run(context.Background(), args, strings.NewReader(""), &out, lookup); err != nil {
		t.Fatalf("run: %v", err)
	}

	if stub.cfg.Posts.Dir != "content" {
		t.Fatalf("expected env posts dir, got %q", stub.cfg.Posts.Dir)
	}
	if stub.cfg.Generator.SiteName != "From Flag" || stub.cfg.Generator.Workers != 3 {
		t.Fatalf("expected flags to win, got %+v", stub.cfg.Generator)
	}
}

func TestRunRejectsInvalidEnv(t *testing.T) {
	withStubModule(t)
	lookup := func(key string) (string, bool) {
		if key == "BLOG_WORKERS" {
			return "many", true
		}
		return "", false
	}

	var out bytes.Buffer
	if err := run(context.Background(), []string{"slugs"}, strings.NewReader(""), &out, lookup); err == nil {
		t.Fatal("expected invalid BLOG_WORKERS to fail")
	}
}

func TestRunMarkdownAndTimeoutFlags(t *testing.T) {
	stub := withStubModule(t)

	runCLI(t, "", "slugs",
		"--heading-ids", "--hard-wraps", "--line-numbers", "--highlight-classes", "--sanitize",
		"--extensions", "table,footnote",
		"--build-timeout", "2m",
	)

	parser := stub.cfg.Markdown.Parser
	if !parser.HeadingIDs || !parser.HardWraps || !parser.LineNumbers || !parser.HighlightClasses || !parser.Sanitize {
		t.Fatalf("expected markdown flags to be bound, got %+v", parser)
	}
	if !slices.Equal(parser.Extensions, []string{"table", "footnote"}) {
		t.Fatalf("unexpected extensions %v", parser.Extensions)
	}
	if stub.cfg.Generator.BuildTimeout != 2*time.Minute {
		t.Fatalf("unexpected build timeout %v", stub.cfg.Generator.BuildTimeout)
	}
}
