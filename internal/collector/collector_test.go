package collector

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nsavage/dupfind/internal/cache"
	"github.com/nsavage/dupfind/internal/hasher"
	"github.com/nsavage/dupfind/internal/pool"
	"github.com/nsavage/dupfind/internal/types"
)

func writeFile(t *testing.T, dir, name, content string) types.FileEntry {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return types.FileEntry{Path: path, Size: int64(len(content))}
}

func TestCollectGroupsDuplicates(t *testing.T) {
	dir := t.TempDir()
	entries := []types.FileEntry{
		writeFile(t, dir, "a.txt", "same content"),
		writeFile(t, dir, "b.txt", "same content"),
		writeFile(t, dir, "c.txt", "different"),
	}

	var batch []*hasher.Hasher
	for _, e := range entries {
		batch = append(batch, hasher.New(e))
	}

	p := pool.New(2, 16)
	groups := Collect(p, batch, nil, nil)

	var dupCount, uniqueCount int
	for _, g := range groups {
		if g.Len() >= 2 {
			dupCount++
		} else {
			uniqueCount++
		}
	}
	if dupCount != 1 {
		t.Errorf("got %d duplicate groups, want 1", dupCount)
	}
	if uniqueCount != 1 {
		t.Errorf("got %d unique groups, want 1", uniqueCount)
	}
}

func TestCollectWritesToCache(t *testing.T) {
	dir := t.TempDir()
	e := writeFile(t, dir, "a.txt", "cache me")

	c, err := cache.Open(filepath.Join(dir, "cache.db"))
	if err != nil {
		t.Fatalf("cache.Open: %v", err)
	}
	defer c.Close()

	info, err := os.Stat(e.Path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	e.ModTime = info.ModTime()

	p := pool.New(1, 16)
	Collect(p, []*hasher.Hasher{hasher.New(e)}, c, nil)

	got, err := c.Get(e.Path, info.ModTime().Unix())
	if err != nil {
		t.Fatalf("cache.Get: %v", err)
	}
	if got == nil {
		t.Fatal("expected cache entry after Collect, got none")
	}
}

func TestCollectReportsErrors(t *testing.T) {
	missing := types.FileEntry{Path: filepath.Join(t.TempDir(), "missing.txt"), Size: 10}
	p := pool.New(1, 16)

	var errs []string
	onError := func(path string, _ error) { errs = append(errs, path) }

	groups := Collect(p, []*hasher.Hasher{hasher.New(missing)}, nil, onError)

	if len(groups) != 0 {
		t.Errorf("got %d groups for a file that errored, want 0", len(groups))
	}
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1", len(errs))
	}
}

func TestCollectEmptyBatch(t *testing.T) {
	p := pool.New(1, 16)
	groups := Collect(p, nil, nil, nil)
	if len(groups) != 0 {
		t.Errorf("got %d groups for empty batch, want 0", len(groups))
	}
}
