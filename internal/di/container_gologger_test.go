package di

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-blog/internal/logging/gologger"
	"github.com/goliatone/go-blog/internal/runtimeconfig"
)

func TestConfigureLoggerProviderUsesGoLoggerAdapter(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "json"

	container, err := NewContainer(cfg, WithPostsFS(fstest.MapFS{}))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	provider, ok := container.loggerProvider.(*gologger.Provider)
	if !ok {
		t.Fatalf("expected go-logger provider, got %T", container.loggerProvider)
	}

	logger := provider.GetLogger("blog.test")
	if logger == nil {
		t.Fatal("expected logger from go-logger provider, got nil")
	}
}

func TestConfigureLoggerProviderDefaultsToConsole(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Level = "debug"
	var buf bytes.Buffer

	if _, err := NewContainer(cfg, WithPostsFS(fstest.MapFS{}), WithLogWriter(&buf)); err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	if !strings.Contains(buf.String(), "container.configured") || !strings.Contains(buf.String(), "module=blog") {
		t.Fatalf("expected console debug entry, got %q", buf.String())
	}
}

func TestConfigureLoggerProviderDisabled(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Enabled = false

	container, err := NewContainer(cfg, WithPostsFS(fstest.MapFS{}))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if container.loggerProvider != nil {
		t.Fatalf("expected no provider, got %T", container.loggerProvider)
	}
}
