package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Fatalf("NullCache.Get = %q %v %v, want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, hit, _ := c.Get(ctx, "missing"); hit {
		t.Fatalf("expected miss")
	}
	if err := c.Set(ctx, "k", []byte(`{"lines":[]}`), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != `{"lines":[]}` {
		t.Fatalf("Get = %q %v %v", data, hit, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Fatalf("expected miss after delete")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("deleting a missing key must succeed: %v", err)
	}
}

func TestFileCacheExpiryAndCorruption(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	if err := c.Set(ctx, "old", []byte("x"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "old"); hit {
		t.Fatalf("expired entry should miss")
	}

	fc := c.(*FileCache)
	path := fc.path("bad")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, hit, err := c.Get(ctx, "bad"); hit || err != nil {
		t.Fatalf("corrupt entry should miss without error, got %v %v", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("corrupt entry should be removed")
	}
}

func TestHashAndKey(t *testing.T) {
	h1, h2 := Hash([]byte("hello")), Hash([]byte("hello"))
	if h1 != h2 || len(h1) != 64 {
		t.Fatalf("Hash not deterministic or wrong length: %s", h1)
	}
	if Hash([]byte("world")) == h1 {
		t.Fatalf("different inputs should produce different hashes")
	}

	type opts struct {
		Width     float64
		Algorithm string
	}
	k1 := Key("layout", "text", opts{Width: 60, Algorithm: "knuth-plass"})
	k2 := Key("layout", "text", opts{Width: 60, Algorithm: "knuth-plass"})
	k3 := Key("layout", "text", opts{Width: 61, Algorithm: "knuth-plass"})
	if k1 != k2 || k1 == k3 {
		t.Fatalf("keys: %s %s %s", k1, k2, k3)
	}
	if !strings.HasPrefix(k1, "layout:") {
		t.Fatalf("key should carry prefix: %s", k1)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	c, err := Open(ctx, "")
	if err != nil {
		t.Fatalf("Open empty: %v", err)
	}
	if _, ok := c.(*NullCache); !ok {
		t.Fatalf("empty url should give NullCache, got %T", c)
	}

	dir := t.TempDir()
	c, err = Open(ctx, "file://"+dir)
	if err != nil {
		t.Fatalf("Open file: %v", err)
	}
	fc, ok := c.(*FileCache)
	if !ok || fc.dir != dir {
		t.Fatalf("file url should give FileCache in %s, got %T %+v", dir, c, c)
	}

	if _, err := Open(ctx, "ftp://example.com"); err == nil {
		t.Fatalf("expected error for unsupported scheme")
	}
}

func TestMongoDatabase(t *testing.T) {
	cases := map[string]string{
		"mongodb://localhost:27017":                DefaultMongoDatabase,
		"mongodb://localhost:27017/":               DefaultMongoDatabase,
		"mongodb://user:pw@db.example.com/typeset": "typeset",
	}
	for in, want := range cases {
		if got := mongoDatabase(in); got != want {
			t.Fatalf("mongoDatabase(%q) = %q, want %q", in, got, want)
		}
	}
}
