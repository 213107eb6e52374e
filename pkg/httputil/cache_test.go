package httputil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCacheMissing(t *testing.T) {
	c, err := NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	key := "central:org/example/a/1.0/a-1.0.jar"

	if c.Missing(key) {
		t.Fatal("Missing() = true before MarkMissing")
	}
	if err := c.MarkMissing(key); err != nil {
		t.Fatal(err)
	}
	if !c.Missing(key) {
		t.Fatal("Missing() = false after MarkMissing")
	}
	if c.Missing("central:other") {
		t.Error("unrelated key reported missing")
	}
	if err := c.Forget(key); err != nil {
		t.Fatal(err)
	}
	if c.Missing(key) {
		t.Error("Missing() = true after Forget")
	}
	if err := c.Forget(key); err != nil {
		t.Errorf("Forget of absent key: %v", err)
	}
}

func TestCacheExpiration(t *testing.T) {
	c, _ := NewCache(t.TempDir(), 10*time.Millisecond)
	_ = c.MarkMissing("k")
	time.Sleep(20 * time.Millisecond)
	if c.Missing("k") {
		t.Error("expired entry still reported missing")
	}
}

func TestCacheKeyStability(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)
	if c.keyPath("test") != c.keyPath("test") {
		t.Error("path should be deterministic")
	}
	if c.keyPath("test") == c.keyPath("other") {
		t.Error("different keys should produce different paths")
	}
}

func TestNewCacheDefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	c, err := NewCache("", time.Hour)
	if err != nil {
		t.Fatalf("NewCache() failed: %v", err)
	}
	want := filepath.Join(home, ".cache", "mvnkit", "missing")
	if c.Dir() != want {
		t.Errorf("Dir() = %s, want %s", c.Dir(), want)
	}
	if _, err := os.Stat(c.Dir()); err != nil {
		t.Errorf("directory not created: %v", err)
	}
}
