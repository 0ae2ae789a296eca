package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/gdcross/pkg/cache"
	"github.com/matzehuels/gdcross/pkg/config"
)

func TestCacheDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		name string
		xdg  string
		want string
	}{
		{"default", "", filepath.Join(home, ".cache", appName)},
		{"xdg", "/tmp/custom-cache", filepath.Join("/tmp/custom-cache", appName)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CACHE_HOME", tt.xdg)
			dir, err := cacheDir()
			if err != nil {
				t.Fatalf("cacheDir() error: %v", err)
			}
			if dir != tt.want {
				t.Errorf("cacheDir() = %q, want %q", dir, tt.want)
			}
		})
	}
}

func TestNewCache(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		name    string
		cfg     config.CacheConfig
		noCache bool
		want    string
	}{
		{"file", config.CacheConfig{Backend: "file", Dir: dir}, false, "*cache.FileCache"},
		{"none", config.CacheConfig{Backend: "none", Dir: dir}, false, "cache.NullCache"},
		{"no-cache flag", config.CacheConfig{Backend: "file", Dir: dir}, true, "cache.NullCache"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := newCache(ctx, tt.cfg, tt.noCache)
			if err != nil {
				t.Fatalf("newCache() error: %v", err)
			}
			defer c.Close()
			if got := typeName(c); got != tt.want {
				t.Errorf("newCache() = %s, want %s", got, tt.want)
			}
		})
	}
}

func typeName(c cache.Cache) string {
	switch c.(type) {
	case *cache.FileCache:
		return "*cache.FileCache"
	case cache.NullCache:
		return "cache.NullCache"
	}
	return "other"
}

func TestKeyer(t *testing.T) {
	if k := keyer(config.CacheConfig{}); k != nil {
		t.Errorf("keyer without prefix = %T, want nil", k)
	}

	opts := cache.CrossingsKeyOpts{Algorithm: "sweep"}
	k := keyer(config.CacheConfig{Prefix: "staging:"})
	if got := k.CrossingsKey("abc", opts); !strings.HasPrefix(got, "staging:") {
		t.Errorf("CrossingsKey() = %q, want staging: prefix", got)
	}
	plain := cache.NewDefaultKeyer().CrossingsKey("abc", opts)
	if got := k.CrossingsKey("abc", opts); got != "staging:"+plain {
		t.Errorf("CrossingsKey() = %q, want %q", got, "staging:"+plain)
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "square.svg")

	for _, data := range []string{"<svg>first</svg>", "<svg/>"} {
		if err := writeFile(path, []byte(data)); err != nil {
			t.Fatalf("writeFile() error: %v", err)
		}
		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != data {
			t.Errorf("file = %q, want %q", got, data)
		}
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("dir has %d entries, want only the output file", len(entries))
	}
}

func TestOpenOutputStdout(t *testing.T) {
	for _, path := range []string{"", "-"} {
		var buf bytes.Buffer
		out, err := openOutput(&buf, path)
		if err != nil {
			t.Fatalf("openOutput(%q) error: %v", path, err)
		}
		out.Write([]byte("table"))
		if err := out.Close(); err != nil {
			t.Errorf("Close() error: %v", err)
		}
		if buf.String() != "table" {
			t.Errorf("openOutput(%q) wrote %q to stdout", path, buf.String())
		}
	}
}
