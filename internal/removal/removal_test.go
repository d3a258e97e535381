package removal

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nsavage/dupfind/internal/types"
)

type fakeDeleter struct {
	deleted []string
}

func (f *fakeDeleter) Delete(path string) error {
	f.deleted = append(f.deleted, path)
	return nil
}

func writeFile(t *testing.T, dir, name, content string) types.FileEntry {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return types.FileEntry{Path: path, Size: int64(len(content))}
}

func resultOf(groups ...types.HashGroup) *types.DiscoveryResult {
	r := types.NewDiscoveryResult(groups, false, nil)
	return &r
}

func TestInteractiveKeepFirst(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a", "x")
	b := writeFile(t, dir, "a2", "x")
	result := resultOf(types.HashGroup{Hash: [32]byte{1}, Size: 1, Files: []types.FileEntry{a, b}})

	d := &fakeDeleter{}
	var out bytes.Buffer
	if err := Interactive(result, strings.NewReader("1\n"), &out, d); err != nil {
		t.Fatalf("Interactive: %v", err)
	}

	if _, err := os.Stat(a.Path); !os.IsNotExist(err) {
		t.Errorf("expected %s removed", a.Path)
	}
	if _, err := os.Stat(b.Path); err != nil {
		t.Errorf("expected %s to survive: %v", b.Path, err)
	}
	if len(d.deleted) != 1 || d.deleted[0] != a.Path {
		t.Errorf("cache deletions = %v, want [%s]", d.deleted, a.Path)
	}
}

func TestInteractiveKeepSecond(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a", "x")
	b := writeFile(t, dir, "a2", "x")
	result := resultOf(types.HashGroup{Hash: [32]byte{1}, Size: 1, Files: []types.FileEntry{a, b}})

	var out bytes.Buffer
	if err := Interactive(result, strings.NewReader("2\n"), &out, nil); err != nil {
		t.Fatalf("Interactive: %v", err)
	}
	if _, err := os.Stat(a.Path); err != nil {
		t.Errorf("expected %s to survive: %v", a.Path, err)
	}
	if _, err := os.Stat(b.Path); !os.IsNotExist(err) {
		t.Errorf("expected %s removed", b.Path)
	}
}

func TestInteractiveSkip(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a", "x")
	b := writeFile(t, dir, "a2", "x")
	result := resultOf(types.HashGroup{Hash: [32]byte{1}, Size: 1, Files: []types.FileEntry{a, b}})

	var out bytes.Buffer
	if err := Interactive(result, strings.NewReader("s\n"), &out, nil); err != nil {
		t.Fatalf("Interactive: %v", err)
	}
	if _, err := os.Stat(a.Path); err != nil {
		t.Errorf("expected %s to survive: %v", a.Path, err)
	}
	if _, err := os.Stat(b.Path); err != nil {
		t.Errorf("expected %s to survive: %v", b.Path, err)
	}
}

func TestSameFilenameRemovesMatchingBasenames(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	a1 := writeFile(t, dirA, "a1", "x")
	b := writeFile(t, dirA, "b", "y")
	a2 := writeFile(t, dirB, "a2", "x")
	b2 := writeFile(t, dirB, "b", "y")

	result := resultOf(
		types.HashGroup{Hash: [32]byte{1}, Size: 1, Files: []types.FileEntry{a1, a2}},
		types.HashGroup{Hash: [32]byte{2}, Size: 1, Files: []types.FileEntry{b, b2}},
	)

	d := &fakeDeleter{}
	removals := SameFilename(result, d)

	if len(removals) != 1 {
		t.Fatalf("got %d removals, want 1 (only the matching-basename pair)", len(removals))
	}
	if _, err := os.Stat(a1.Path); err != nil {
		t.Errorf("a1 should survive (different basename than a2): %v", err)
	}
	if _, err := os.Stat(a2.Path); err != nil {
		t.Errorf("a2 should survive (different basename than a1): %v", err)
	}
}

func TestParanoidRemovesOnlyContentMatches(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a", "content")
	b := writeFile(t, dir, "b", "content")
	result := resultOf(types.HashGroup{Hash: [32]byte{1}, Size: 7, Files: []types.FileEntry{a, b}})

	removals := Paranoid(result, nil)
	if len(removals) != 1 {
		t.Fatalf("got %d removals, want 1", len(removals))
	}
	if removals[0].Err != nil {
		t.Errorf("unexpected error: %v", removals[0].Err)
	}
}

func TestSameContent(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	a2 := filepath.Join(dir, "a2")
	a3 := filepath.Join(dir, "a3")
	os.WriteFile(a, []byte("x"), 0o644)
	os.WriteFile(a2, []byte("x"), 0o644)
	os.WriteFile(a3, []byte("y"), 0o644)

	if eq, err := SameContent(a, a2); err != nil || !eq {
		t.Errorf("SameContent(a, a2) = %v, %v; want true, nil", eq, err)
	}
	if eq, err := SameContent(a, a3); err != nil || eq {
		t.Errorf("SameContent(a, a3) = %v, %v; want false, nil", eq, err)
	}
	if eq, err := SameContent(a3, a3); err != nil || !eq {
		t.Errorf("SameContent(a3, a3) = %v, %v; want true, nil", eq, err)
	}
}

func TestSameContentDifferentLengths(t *testing.T) {
	dir := t.TempDir()
	short := filepath.Join(dir, "short")
	long := filepath.Join(dir, "long")
	os.WriteFile(short, []byte("x"), 0o644)
	os.WriteFile(long, []byte("xx"), 0o644)

	if eq, err := SameContent(short, long); err != nil || eq {
		t.Errorf("SameContent(short, long) = %v, %v; want false, nil", eq, err)
	}
}
