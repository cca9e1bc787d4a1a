// Command blog loads Markdown posts, renders them and builds the static site.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	blog "github.com/goliatone/go-blog"
)

var moduleBuilder = func(cfg blog.Config) (module, error) {
	return blog.New(cfg)
}

// module is the slice of *blog.Module the CLI drives.
type module interface {
	GetAllSlugs(ctx context.Context) ([]string, error)
	GetPostBySlug(ctx context.Context, slug string) (*blog.Post, error)
	GetAllPosts(ctx context.Context) ([]*blog.Post, error)
	Render(ctx context.Context, markdown string) (string, error)
	RenderPost(ctx context.Context, post *blog.Post) (*blog.Post, error)
	Build(ctx context.Context, opts blog.BuildOptions) (*blog.BuildResult, error)
}

func main() {
	_ = godotenv.Load()

	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.LookupEnv); err != nil {
		fmt.Fprintln(os.Stderr, "blog:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer, lookup func(string) (string, bool)) error {
	cfg, err := blog.ApplyEnv(blog.DefaultConfig(), lookup)
	if err != nil {
		return err
	}

	root := newRootCommand(&cfg, stdin)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stdout)
	return root.ExecuteContext(ctx)
}

func newRootCommand(cfg *blog.Config, stdin io.Reader) *cobra.Command {
	root := &cobra.Command{
		Use:           "blog",
		Short:         "Markdown blog content pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	bindConfigFlags(root.PersistentFlags(), cfg)

	root.AddCommand(
		newBuildCommand(cfg),
		newSlugsCommand(cfg),
		newPostsCommand(cfg),
		newShowCommand(cfg),
		newRenderCommand(cfg, stdin),
	)
	return root
}

func bindConfigFlags(flags *pflag.FlagSet, cfg *blog.Config) {
	flags.StringVar(&cfg.Posts.Dir, "posts-dir", cfg.Posts.Dir, "Directory holding the Markdown posts")
	flags.StringVar(&cfg.Posts.Extension, "posts-ext", cfg.Posts.Extension, "Post file extension")
	flags.StringVar(&cfg.Generator.OutputDir, "output-dir", cfg.Generator.OutputDir, "Directory the site is written to")
	flags.StringVar(&cfg.Generator.BaseURL, "base-url", cfg.Generator.BaseURL, "Absolute base URL used in sitemap, feeds and meta tags")
	flags.StringVar(&cfg.Generator.SiteName, "site-name", cfg.Generator.SiteName, "Site name shown in titles and feeds")
	flags.IntVar(&cfg.Generator.Workers, "workers", cfg.Generator.Workers, "Concurrent post renders (0 uses the CPU count)")
	flags.BoolVar(&cfg.Markdown.Parser.Highlight, "highlight", cfg.Markdown.Parser.Highlight, "Syntax highlight fenced code blocks")
	flags.BoolVar(&cfg.Markdown.Parser.SafeMode, "safe", cfg.Markdown.Parser.SafeMode, "Drop raw HTML embedded in Markdown")
	flags.BoolVar(&cfg.Markdown.Parser.Sanitize, "sanitize", cfg.Markdown.Parser.Sanitize, "Drop raw HTML embedded in Markdown (alias of --safe)")
	flags.BoolVar(&cfg.Markdown.Parser.HardWraps, "hard-wraps", cfg.Markdown.Parser.HardWraps, "Render soft line breaks as <br>")
	flags.BoolVar(&cfg.Markdown.Parser.HeadingIDs, "heading-ids", cfg.Markdown.Parser.HeadingIDs, "Add id attributes to headings")
	flags.BoolVar(&cfg.Markdown.Parser.LineNumbers, "line-numbers", cfg.Markdown.Parser.LineNumbers, "Number highlighted code lines")
	flags.BoolVar(&cfg.Markdown.Parser.HighlightClasses, "highlight-classes", cfg.Markdown.Parser.HighlightClasses, "Emit CSS classes instead of inline highlight styles")
	flags.StringVar(&cfg.Markdown.Parser.HighlightStyle, "highlight-style", cfg.Markdown.Parser.HighlightStyle, "Chroma style name")
	flags.StringSliceVar(&cfg.Markdown.Parser.Extensions, "extensions", cfg.Markdown.Parser.Extensions, "Markdown extensions to enable (defaults to gfm and footnote)")
	flags.DurationVar(&cfg.Generator.RenderTimeout, "render-timeout", cfg.Generator.RenderTimeout, "Per post render limit (0 disables)")
	flags.DurationVar(&cfg.Generator.BuildTimeout, "build-timeout", cfg.Generator.BuildTimeout, "Whole build limit (0 disables)")
	flags.StringVar(&cfg.Logging.Provider, "log-provider", cfg.Logging.Provider, "Logging provider (console or gologger)")
	flags.StringVar(&cfg.Logging.Level, "log-level", cfg.Logging.Level, "Minimum log level")
	flags.BoolVar(&cfg.Logging.Enabled, "log", cfg.Logging.Enabled, "Enable logging")
}

func newBuildCommand(cfg *blog.Config) *cobra.Command {
	var opts blog.BuildOptions
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Generate the static site",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mod, err := moduleBuilder(*cfg)
			if err != nil {
				return fmt.Errorf("bootstrap module: %w", err)
			}
			result, err := mod.Build(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if result == nil {
				return nil
			}
			out := cmd.OutOrStdout()
			for _, path := range result.Outputs {
				fmt.Fprintln(out, path)
			}
			fmt.Fprintf(out, "built %d pages in %s (dry_run=%t)\n", result.PagesBuilt, result.Duration, result.DryRun)
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Render without writing files")
	cmd.Flags().StringSliceVar(&opts.Slugs, "slug", nil, "Rebuild only these post pages")
	return cmd
}

func newSlugsCommand(cfg *blog.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "slugs",
		Short: "List post slugs in directory order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mod, err := moduleBuilder(*cfg)
			if err != nil {
				return fmt.Errorf("bootstrap module: %w", err)
			}
			slugs, err := mod.GetAllSlugs(cmd.Context())
			if err != nil {
				return err
			}
			for _, slug := range slugs {
				fmt.Fprintln(cmd.OutOrStdout(), slug)
			}
			return nil
		},
	}
}

func newPostsCommand(cfg *blog.Config) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "List posts newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mod, err := moduleBuilder(*cfg)
			if err != nil {
				return fmt.Errorf("bootstrap module: %w", err)
			}
			all, err := mod.GetAllPosts(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), all)
			}
			for _, post := range all {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", post.Date, post.Slug, post.Title)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print posts as JSON")
	return cmd
}

func newShowCommand(cfg *blog.Config) *cobra.Command {
	var rendered bool
	cmd := &cobra.Command{
		Use:   "show <slug>",
		Short: "Print a single post as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mod, err := moduleBuilder(*cfg)
			if err != nil {
				return fmt.Errorf("bootstrap module: %w", err)
			}
			post, err := mod.GetPostBySlug(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if rendered {
				if post, err = mod.RenderPost(cmd.Context(), post); err != nil {
					return err
				}
			}
			return writeJSON(cmd.OutOrStdout(), post)
		},
	}
	cmd.Flags().BoolVar(&rendered, "html", false, "Render the content to HTML")
	return cmd
}

func newRenderCommand(cfg *blog.Config, stdin io.Reader) *cobra.Command {
	return &cobra.Command{
		Use:   "render [file]",
		Short: "Render a Markdown file, or stdin, to HTML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(args, stdin)
			if err != nil {
				return err
			}
			mod, err := moduleBuilder(*cfg)
			if err != nil {
				return fmt.Errorf("bootstrap module: %w", err)
			}
			html, err := mod.Render(cmd.Context(), source)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), html)
			return nil
		},
	}
}

func readSource(args []string, stdin io.Reader) (string, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "-" {
		data, err := io.ReadAll(stdin)
		return string(data), err
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read %s: %w", args[0], err)
	}
	return string(data), nil
}

func writeJSON(out io.Writer, value any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
