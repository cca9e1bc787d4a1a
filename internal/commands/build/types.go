package buildcmd

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goslug "github.com/goliatone/go-slug"

	"github.com/goliatone/go-blog/internal/generator"
)

const (
	buildSiteMessageType = "blog.build.site"
	buildPostMessageType = "blog.build.post"
)

// ResultCallback receives build results produced by generator operations. The callback is optional
// and is invoked synchronously from the handler when a BuildResult is available.
type ResultCallback func(ResultEnvelope)

// ResultEnvelope captures the outcome of a build command.
type ResultEnvelope struct {
	Result   *generator.BuildResult
	Page     *generator.RenderedPage
	Metadata map[string]any
}

// BuildSiteCommand renders the whole site, or only the listed posts.
type BuildSiteCommand struct {
	Slugs          []string       `json:"slugs,omitempty"`
	DryRun         bool           `json:"dry_run,omitempty"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (BuildSiteCommand) Type() string { return buildSiteMessageType }

// Validate ensures every slug is a URL-safe identifier.
func (m BuildSiteCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Slugs, validation.Each(validation.Required, validation.By(urlSafeSlug))),
	)
}

// BuildPostCommand renders a single post detail page.
type BuildPostCommand struct {
	Slug           string         `json:"slug"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (BuildPostCommand) Type() string { return buildPostMessageType }

// Validate requires a URL-safe slug.
func (m BuildPostCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Slug, validation.Required, validation.By(urlSafeSlug)),
	)
}

func urlSafeSlug(value any) error {
	slug, _ := value.(string)
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil
	}
	if !goslug.IsValid(slug) {
		return validation.NewError("blog.build.slug_invalid", fmt.Sprintf("%q is not a valid slug", slug))
	}
	return nil
}

func normalizeSlugs(slugs []string) []string {
	if len(slugs) == 0 {
		return nil
	}
	out := make([]string, 0, len(slugs))
	seen := map[string]struct{}{}
	for _, slug := range slugs {
		trimmed := strings.TrimSpace(slug)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}

func invokeCallback(cb ResultCallback, env ResultEnvelope) {
	if cb == nil {
		return
	}
	cb(env)
}
