package testfs

import (
	"testing"
)

// -----------------------------------------------------------------------------
// Harness - Test Fixture API
// -----------------------------------------------------------------------------

// Harness provides discovery/removal test fixtures rooted at t.TempDir().
//
// Usage:
//
//	given := testfs.FileTree{
//	    Files: []testfs.File{
//	        {Path: "a.txt", Chunks: []testfs.Chunk{{Pattern: 'A', Size: "1MiB"}}},
//	        {Path: "b.txt", Chunks: []testfs.Chunk{{Pattern: 'A', Size: "1MiB"}}},
//	    },
//	}
//	h := testfs.New(t, given)
//	result, _ := eng.Discover(ctx, nil, nil)
//	removal.Paranoid(result, nil)
//	h.AssertRemaining("a.txt")
type Harness struct {
	t    *testing.T
	root string
}

// New creates a Harness and populates it with the given FileTree.
func New(t *testing.T, given FileTree) *Harness {
	t.Helper()

	root := t.TempDir()
	if err := SowFileTree(root, given); err != nil {
		t.Fatalf("failed to setup files: %v", err)
	}

	return &Harness{t: t, root: root}
}

// Root returns the temporary directory root path.
func (h *Harness) Root() string {
	return h.root
}

// AssertRemaining verifies that exactly the given paths (relative to Root)
// still exist as regular files.
func (h *Harness) AssertRemaining(want ...string) {
	h.t.Helper()
	AssertRemaining(h.t, h.root, want)
}
