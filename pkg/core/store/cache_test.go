package store

import (
	"testing"
)

func TestCacheRoundTrip(t *testing.T) {
	cache, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	sha := "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

	if _, ok := cache.Get(sha); ok {
		t.Fatal("unexpected hit on an empty cache")
	}

	cache.Put(sha, "annual_report.pdf", "# annual_report\n\nconverted text")

	md, ok := cache.Get(sha)
	if !ok {
		t.Fatal("expected a hit after Put")
	}
	if md != "# annual_report\n\nconverted text" {
		t.Errorf("got %q", md)
	}

	// Upsert replaces the previous entry.
	cache.Put(sha, "annual_report.pdf", "updated markdown")
	md, ok = cache.Get(sha)
	if !ok || md != "updated markdown" {
		t.Errorf("upsert not applied: %q, %v", md, ok)
	}
}

func TestNilCacheIsDisabled(t *testing.T) {
	var cache *Cache

	if _, ok := cache.Get("anything"); ok {
		t.Error("nil cache must miss")
	}
	cache.Put("anything", "name", "md") // must not panic
	if err := cache.Close(); err != nil {
		t.Errorf("nil close: %v", err)
	}
}

func TestCachePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	cache, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	cache.Put("deadbeef", "doc.txt", "cached markdown")
	if err := cache.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	md, ok := reopened.Get("deadbeef")
	if !ok || md != "cached markdown" {
		t.Errorf("entry lost across reopen: %q, %v", md, ok)
	}
}
