package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inspiration.md")
	if err := os.WriteFile(path, []byte("  - helpful onboarding bot\n  - cites sources\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := NewLoader().Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !strings.Contains(got, "helpful onboarding bot") {
		t.Errorf("loaded text = %q", got)
	}
	if strings.HasSuffix(got, "\n") {
		t.Error("loaded text should be trimmed")
	}
}

func TestLoadFromStdin(t *testing.T) {
	loader := NewLoaderWith(NewFetcher(), strings.NewReader("ideas from a pipe\n"))
	got, err := loader.Load(context.Background(), "-")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != "ideas from a pipe" {
		t.Errorf("loaded text = %q", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "absent.md"))
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadRejectsPlainHTTP(t *testing.T) {
	_, err := NewLoader().Load(context.Background(), "http://example.com/notes")
	if err == nil || !strings.Contains(err.Error(), "HTTPS") {
		t.Errorf("plain http must be rejected with an HTTPS error, got %v", err)
	}
}
