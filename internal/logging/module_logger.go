package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

const (
	rootModule      = "blog"
	postsModule     = "blog.posts"
	markdownModule  = "blog.markdown"
	generatorModule = "blog.generator"
	commandsModule  = "blog.commands"
)

const (
	fieldPostSlug   = "slug"
	fieldPostPath   = "path"
	fieldBuildStage = "stage"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The module identifier is
// attached as a structured field on every entry.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// PostsLogger returns the logger namespace reserved for the content loader.
func PostsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, postsModule)
}

// MarkdownLogger returns the logger namespace reserved for rendering.
func MarkdownLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, markdownModule)
}

// GeneratorLogger returns the logger namespace reserved for site builds.
func GeneratorLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, generatorModule)
}

// CommandsLogger returns the logger namespace reserved for command handlers.
func CommandsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, commandsModule)
}

// WithPostContext enriches the logger with the post slug, source path and
// build stage. Empty values are ignored.
func WithPostContext(logger interfaces.Logger, slug, path, stage string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(slug); trimmed != "" {
		fields[fieldPostSlug] = trimmed
	}
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		fields[fieldPostPath] = trimmed
	}
	if trimmed := strings.TrimSpace(stage); trimmed != "" {
		fields[fieldBuildStage] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
