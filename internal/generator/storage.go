package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/spf13/afero"
)

type writeCategory string

const (
	categoryPage    writeCategory = "page"
	categoryIndex   writeCategory = "index"
	categorySitemap writeCategory = "sitemap"
	categoryRobots  writeCategory = "robots"
	categoryFeed    writeCategory = "feed"
)

const outputFileMode os.FileMode = 0o644

// writeFileRequest describes a file write routed through the artifact writer.
type writeFileRequest struct {
	Path     string
	Content  io.Reader
	Category writeCategory
}

// artifactWriter abstracts the output filesystem for generator artifacts.
type artifactWriter interface {
	EnsureDir(ctx context.Context, path string) error
	WriteFile(ctx context.Context, req writeFileRequest) error
	Clean(ctx context.Context, path string) error
}

func newArtifactWriter(output afero.Fs, dryRun bool) artifactWriter {
	if output == nil || dryRun {
		return noopWriter{}
	}
	return &aferoWriter{fs: output}
}

type aferoWriter struct {
	fs afero.Fs
}

func (w *aferoWriter) EnsureDir(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(dir) == "" || dir == "." {
		return nil
	}
	if err := w.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("generator: ensure dir %s: %w", dir, err)
	}
	return nil
}

func (w *aferoWriter) WriteFile(ctx context.Context, req writeFileRequest) error {
	if req.Content == nil {
		return errors.New("generator: write requires content reader")
	}
	if strings.TrimSpace(req.Path) == "" {
		return errors.New("generator: write requires path")
	}
	if err := w.EnsureDir(ctx, path.Dir(req.Path)); err != nil {
		return err
	}

	file, err := w.fs.OpenFile(req.Path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, outputFileMode)
	if err != nil {
		return fmt.Errorf("generator: write %s %s: %w", req.Category, req.Path, err)
	}
	if _, err := io.Copy(file, req.Content); err != nil {
		file.Close()
		return fmt.Errorf("generator: write %s %s: %w", req.Category, req.Path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("generator: close %s: %w", req.Path, err)
	}
	return nil
}

// Clean removes the contents of dir, keeping the directory itself.
func (w *aferoWriter) Clean(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir = strings.TrimSpace(dir)
	if dir == "" || dir == "." || dir == "/" {
		return errors.New("generator: refusing to clean an empty or root output dir")
	}
	exists, err := afero.DirExists(w.fs, dir)
	if err != nil {
		return fmt.Errorf("generator: inspect %s: %w", dir, err)
	}
	if !exists {
		return nil
	}
	entries, err := afero.ReadDir(w.fs, dir)
	if err != nil {
		return fmt.Errorf("generator: list %s: %w", dir, err)
	}
	for _, entry := range entries {
		if err := w.fs.RemoveAll(path.Join(dir, entry.Name())); err != nil {
			return fmt.Errorf("generator: clean %s: %w", dir, err)
		}
	}
	return nil
}

type noopWriter struct{}

func (noopWriter) EnsureDir(context.Context, string) error { return nil }

func (noopWriter) WriteFile(context.Context, writeFileRequest) error { return nil }

func (noopWriter) Clean(context.Context, string) error { return nil }
