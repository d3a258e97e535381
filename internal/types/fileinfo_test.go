package types

import (
	"testing"
	"time"
)

func TestHashGroupPaths(t *testing.T) {
	g := HashGroup{
		Size: 100,
		Files: []FileEntry{
			{Path: "/z/file.txt", Size: 100},
			{Path: "/a/file.txt", Size: 100},
		},
	}

	paths := g.Paths()
	want := []string{"/z/file.txt", "/a/file.txt"}
	if len(paths) != len(want) {
		t.Fatalf("Paths() len = %d, want %d", len(paths), len(want))
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("Paths()[%d] = %q, want %q", i, paths[i], want[i])
		}
	}
	if g.Len() != 2 {
		t.Errorf("Len() = %d, want 2", g.Len())
	}
}

func TestFileEntryFields(t *testing.T) {
	now := time.Now()
	fe := FileEntry{Path: "/test/file.txt", Size: 1024, ModTime: now}

	if fe.Path != "/test/file.txt" {
		t.Errorf("Path = %q, want %q", fe.Path, "/test/file.txt")
	}
	if fe.Size != 1024 {
		t.Errorf("Size = %d, want 1024", fe.Size)
	}
	if !fe.ModTime.Equal(now) {
		t.Errorf("ModTime = %v, want %v", fe.ModTime, now)
	}
}

func TestDiscoveryResultGroupsAndDuplicates(t *testing.T) {
	var h1, h2 [32]byte
	h1[0] = 1
	h2[0] = 2

	dup := HashGroup{Hash: h1, Size: 10, Files: []FileEntry{{Path: "a"}, {Path: "b"}}}
	unique := HashGroup{Hash: h2, Size: 20, Files: []FileEntry{{Path: "c"}}}

	r := NewDiscoveryResult([]HashGroup{dup, unique}, true, nil)

	if !r.IsPartial {
		t.Error("IsPartial = false, want true")
	}
	if len(r.Groups()) != 2 {
		t.Errorf("len(Groups()) = %d, want 2", len(r.Groups()))
	}
	dups := r.Duplicates()
	if len(dups) != 1 {
		t.Fatalf("len(Duplicates()) = %d, want 1", len(dups))
	}
	for _, g := range dups {
		if g.Len() != 2 {
			t.Errorf("duplicate group len = %d, want 2", g.Len())
		}
	}
}
