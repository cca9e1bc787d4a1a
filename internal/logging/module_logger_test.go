package logging

import (
	"context"
	"testing"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

type recordingLogger struct {
	fields   []map[string]any
	contexts []context.Context
}

func (r *recordingLogger) Trace(string, ...any) {}
func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(string, ...any)  {}
func (r *recordingLogger) Error(string, ...any) {}
func (r *recordingLogger) Fatal(string, ...any) {}

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	r.fields = append(r.fields, copied)
	return r
}

func (r *recordingLogger) WithContext(ctx context.Context) interfaces.Logger {
	r.contexts = append(r.contexts, ctx)
	return r
}

type stubProvider struct {
	requested []string
	logger    interfaces.Logger
}

func (s *stubProvider) GetLogger(name string) interfaces.Logger {
	s.requested = append(s.requested, name)
	return s.logger
}

func TestModuleLoggerFallsBackToNoOp(t *testing.T) {
	logger := ModuleLogger(nil, "blog.test")
	if _, ok := logger.(noopLogger); !ok {
		t.Fatalf("expected noopLogger fallback, got %T", logger)
	}
	logger = logger.WithContext(context.Background())
	logger.Debug("noop")
}

func TestModuleLoggerAttachesModuleField(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	_ = PostsLogger(provider)

	if len(provider.requested) != 1 || provider.requested[0] != postsModule {
		t.Fatalf("expected %s to be requested, got %v", postsModule, provider.requested)
	}
	if len(rec.fields) != 1 {
		t.Fatalf("expected module fields to be applied once, got %d", len(rec.fields))
	}
	if got := rec.fields[0]["module"]; got != postsModule {
		t.Fatalf("expected module field %s, got %v", postsModule, got)
	}
}

func TestModuleLoggerDefaultsToRootModule(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	_ = ModuleLogger(provider, "")

	if len(provider.requested) != 1 || provider.requested[0] != rootModule {
		t.Fatalf("expected default module %s, got %v", rootModule, provider.requested)
	}
	if rec.fields[0]["module"] != rootModule {
		t.Fatalf("expected module field %s, got %v", rootModule, rec.fields[0]["module"])
	}
}

func TestNamedModuleLoggers(t *testing.T) {
	cases := []struct {
		name   string
		build  func(interfaces.LoggerProvider) interfaces.Logger
		module string
	}{
		{"markdown", MarkdownLogger, markdownModule},
		{"generator", GeneratorLogger, generatorModule},
		{"commands", CommandsLogger, commandsModule},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			provider := &stubProvider{logger: &recordingLogger{}}
			_ = tc.build(provider)
			if len(provider.requested) == 0 || provider.requested[0] != tc.module {
				t.Fatalf("expected %s request, got %v", tc.module, provider.requested)
			}
		})
	}
}

func TestWithPostContextSkipsEmptyValues(t *testing.T) {
	rec := &recordingLogger{}

	_ = WithPostContext(rec, " hello-world ", "", "render")

	if len(rec.fields) != 1 {
		t.Fatalf("expected a single WithFields call, got %d", len(rec.fields))
	}
	fields := rec.fields[0]
	if fields[fieldPostSlug] != "hello-world" {
		t.Fatalf("expected trimmed slug, got %v", fields[fieldPostSlug])
	}
	if _, ok := fields[fieldPostPath]; ok {
		t.Fatalf("expected empty path to be skipped, got %v", fields)
	}
	if fields[fieldBuildStage] != "render" {
		t.Fatalf("expected stage field, got %v", fields[fieldBuildStage])
	}
}

func TestContextFieldsMerge(t *testing.T) {
	ctx := ContextWithFields(context.Background(), map[string]any{"build_id": "a", "slug": "one"})
	ctx = ContextWithFields(ctx, map[string]any{"slug": "two"})

	fields := ContextFields(ctx)
	if fields["build_id"] != "a" || fields["slug"] != "two" {
		t.Fatalf("unexpected merged fields: %#v", fields)
	}

	fields["slug"] = "mutated"
	if ContextFields(ctx)["slug"] != "two" {
		t.Fatalf("expected ContextFields to return a copy")
	}
}
