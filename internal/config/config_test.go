package config

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"blockrsa/internal/pipeline"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "decrypt.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
output: out.bin
logDir: log
logLevel: debug
history:
  file: data/history.db
  timeout: 5s
`)

	c, err := Load(context.Background(), path, true)
	if err != nil {
		t.Fatal(err)
	}
	if c.Output != "out.bin" || c.LogDir != "log" {
		t.Fatalf("unexpected config %+v", c)
	}
	if c.History.File != "data/history.db" || c.History.Timeout != 5*time.Second {
		t.Fatalf("unexpected history config %+v", c.History)
	}

	opts, err := c.Logging()
	if err != nil {
		t.Fatal(err)
	}
	if opts.Level != slog.LevelDebug || opts.Dir != "log" {
		t.Fatalf("unexpected logging options %+v", opts)
	}
}

func TestLoadDefaults(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yaml")

	c, err := Load(context.Background(), missing, false)
	if err != nil {
		t.Fatal(err)
	}
	if c.Output != pipeline.DefaultOutput || c.History.File != "" {
		t.Fatalf("unexpected defaults %+v", c)
	}

	_, err = Load(context.Background(), missing, true)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("error %v is not fs.ErrNotExist", err)
	}

	c, err = Load(context.Background(), writeConfig(t, ""), true)
	if err != nil {
		t.Fatal(err)
	}
	if c.Output != pipeline.DefaultOutput {
		t.Fatalf("empty file changed output to %q", c.Output)
	}
}

func TestLoadStrict(t *testing.T) {
	for _, content := range []string{
		"outptu: typo.bin\n",
		"logLevel: loud\n",
		"history: [1, 2]\n",
	} {
		if _, err := Load(context.Background(), writeConfig(t, content), true); err == nil {
			t.Errorf("expected error for %q", content)
		}
	}
}
