package buildcmd

import (
	"context"
	"errors"

	"github.com/goliatone/go-blog/internal/commands"
	"github.com/goliatone/go-blog/internal/generator"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// ErrGeneratorUnavailable is returned when a handler has no generator service.
var ErrGeneratorUnavailable = errors.New("build: generator service unavailable")

// BuildSiteHandler orchestrates generator builds using the shared command handler foundation.
type BuildSiteHandler struct {
	inner *commands.Handler[BuildSiteCommand]
}

// NewBuildSiteHandler constructs a handler wired to the provided generator service.
// Builds run without a command deadline unless opts include commands.WithTimeout.
func NewBuildSiteHandler(service generator.Service, logger interfaces.Logger, opts ...commands.HandlerOption[BuildSiteCommand]) *BuildSiteHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg BuildSiteCommand) error {
		if service == nil {
			return ErrGeneratorUnavailable
		}

		result, err := service.Build(ctx, generator.BuildOptions{
			Slugs:  normalizeSlugs(msg.Slugs),
			DryRun: msg.DryRun,
		})
		if err != nil {
			return err
		}
		invokeCallback(msg.ResultCallback, ResultEnvelope{
			Result: result,
			Metadata: map[string]any{
				"operation": "build",
			},
		})
		return nil
	}

	handlerOpts := []commands.HandlerOption[BuildSiteCommand]{
		commands.WithLogger[BuildSiteCommand](baseLogger),
		commands.WithTimeout[BuildSiteCommand](0),
		commands.WithOperation[BuildSiteCommand]("build.site"),
		commands.WithMessageFields(func(msg BuildSiteCommand) map[string]any {
			fields := map[string]any{}
			if len(msg.Slugs) > 0 {
				fields["slugs"] = len(msg.Slugs)
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[BuildSiteCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &BuildSiteHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[BuildSiteCommand].
func (h *BuildSiteHandler) Execute(ctx context.Context, msg BuildSiteCommand) error {
	return h.inner.Execute(ctx, msg)
}

// BuildPostHandler renders a single post page.
type BuildPostHandler struct {
	inner *commands.Handler[BuildPostCommand]
}

// NewBuildPostHandler constructs a handler that rebuilds one post. Like
// NewBuildSiteHandler it applies no command deadline by default.
func NewBuildPostHandler(service generator.Service, logger interfaces.Logger, opts ...commands.HandlerOption[BuildPostCommand]) *BuildPostHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg BuildPostCommand) error {
		if service == nil {
			return ErrGeneratorUnavailable
		}
		page, err := service.BuildPost(ctx, msg.Slug)
		if err != nil {
			return err
		}
		invokeCallback(msg.ResultCallback, ResultEnvelope{
			Page: page,
			Metadata: map[string]any{
				"operation": "build_post",
				"slug":      msg.Slug,
			},
		})
		return nil
	}

	handlerOpts := []commands.HandlerOption[BuildPostCommand]{
		commands.WithLogger[BuildPostCommand](baseLogger),
		commands.WithTimeout[BuildPostCommand](0),
		commands.WithOperation[BuildPostCommand]("build.post"),
		commands.WithMessageFields(func(msg BuildPostCommand) map[string]any {
			return map[string]any{"slug": msg.Slug}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[BuildPostCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &BuildPostHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[BuildPostCommand].
func (h *BuildPostHandler) Execute(ctx context.Context, msg BuildPostCommand) error {
	return h.inner.Execute(ctx, msg)
}
