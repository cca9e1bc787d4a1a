package posts

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	goslug "github.com/goliatone/go-slug"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

const defaultExtension = ".md"

// Config tunes how post files are discovered.
type Config struct {
	// Extension selects post files; it is stripped to derive slugs. Defaults to ".md".
	Extension string
	Logger    interfaces.Logger
}

// Loader reads posts from the root of a filesystem. It never writes.
type Loader struct {
	fs     fs.FS
	ext    string
	logger interfaces.Logger
}

var _ interfaces.PostSource = (*Loader)(nil)

// NewLoader constructs a Loader over filesystem. The filesystem root is the
// posts directory.
func NewLoader(filesystem fs.FS, cfg Config) *Loader {
	ext := strings.TrimSpace(cfg.Extension)
	if ext == "" {
		ext = defaultExtension
	}
	return &Loader{
		fs:     filesystem,
		ext:    ext,
		logger: logging.OrNoOp(cfg.Logger),
	}
}

// NewDirLoader constructs a Loader rooted at dir on the local disk.
func NewDirLoader(dir string, cfg Config) (*Loader, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, StorageError(err, dir)
	}
	if !info.IsDir() {
		return nil, StorageError(fmt.Errorf("%s is not a directory", dir), dir)
	}
	return NewLoader(os.DirFS(dir), cfg), nil
}

// ListIdentifiers returns the slug of every post file in directory-listing
// order. Hidden files and sub-directories are skipped.
func (l *Loader) ListIdentifiers(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := fs.ReadDir(l.fs, ".")
	if err != nil {
		return nil, StorageError(err, ".")
	}

	slugs := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, l.ext) {
			continue
		}
		slug := strings.TrimSuffix(name, l.ext)
		if slug == "" {
			continue
		}
		slugs = append(slugs, slug)
	}
	return slugs, nil
}

// LoadBySlug reads and validates the post stored under slug. The slug may
// carry the file extension. Hidden files are NotFound, matching
// ListIdentifiers. Content holds the raw Markdown body.
func (l *Loader) LoadBySlug(ctx context.Context, slug string) (*interfaces.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slug = strings.TrimSuffix(strings.TrimSpace(slug), l.ext)
	name := slug + l.ext
	if slug == "" || strings.HasPrefix(slug, ".") || strings.ContainsAny(slug, `/\`) || !fs.ValidPath(name) {
		return nil, NotFoundError(slug, name, nil)
	}

	logger := logging.WithPostContext(l.logger, slug, name, "load")

	data, err := fs.ReadFile(l.fs, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NotFoundError(slug, name, err)
		}
		return nil, StorageError(err, name)
	}

	meta, body, err := parseFrontMatter(data)
	if err != nil {
		malformed := MalformedContentError(slug, name, err)
		logger.Debug("posts.load.malformed", "error", malformed)
		return nil, malformed
	}

	post, err := buildPost(slug, name, meta, body)
	if err != nil {
		return nil, MalformedContentError(slug, name, err)
	}

	if !goslug.IsValid(slug) {
		logger.Warn("posts.load.slug_not_url_safe")
	}
	logger.Debug("posts.load.completed", "date", post.Date)
	return post, nil
}

// ListAll loads every post and orders them newest first. Posts sharing a
// date keep their directory-listing order. The first failure aborts.
func (l *Loader) ListAll(ctx context.Context) ([]*interfaces.Post, error) {
	slugs, err := l.ListIdentifiers(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*interfaces.Post, 0, len(slugs))
	for _, slug := range slugs {
		post, err := l.LoadBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		out = append(out, post)
	}

	SortByDateDesc(out)
	l.logger.Info("posts.list.completed", "count", len(out))
	return out, nil
}

// SortByDateDesc orders posts newest first, keeping the relative order of
// posts with equal dates.
func SortByDateDesc(items []*interfaces.Post) {
	slices.SortStableFunc(items, func(a, b *interfaces.Post) int {
		return b.PublishedAt.Compare(a.PublishedAt)
	})
}
