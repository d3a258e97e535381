// Package testfs builds throwaway file trees for exercising discovery and
// removal against a real filesystem, and asserts what's left afterward.
//
// Unlike the teacher's Docker/tmpfs-volume harness (built to provoke EXDEV
// hardlink fallback across devices), this spec never links or crosses
// devices, so a tree is just a flat set of relative paths under one root.
//
//	given := testfs.FileTree{
//	    Files: []testfs.File{
//	        {Path: "a.txt", Chunks: []testfs.Chunk{{Pattern: 'A', Size: "1MiB"}}},
//	        {Path: "sub/b.txt", Chunks: []testfs.Chunk{{Pattern: 'A', Size: "1MiB"}}},
//	    },
//	}
//	h := testfs.New(t, given)
//	// ... run discovery/removal against h.Root()
//	h.AssertRemaining("a.txt")
package testfs

import "github.com/dustin/go-humanize"

// FileTree describes a set of files to create under a root directory.
type FileTree struct {
	Files []File
}

// File defines a regular file and its content.
//
// Content is specified via Chunks rather than a literal byte string so
// tests can build multi-megabyte files (to cross hash chunk boundaries)
// without embedding the bytes in source.
type File struct {
	// Path is relative to the tree root. Parent directories are created
	// automatically.
	Path string

	// Chunks specifies content as a sequence of filled regions. Two files
	// with identical chunk sequences have identical content, and are thus
	// expected duplicates.
	Chunks []Chunk
}

// Chunk defines a region of file content filled with a single byte.
type Chunk struct {
	// Pattern is the fill byte for this region, e.g. 'A' fills with 0x41.
	Pattern rune

	// Size in IEC units ("1KiB", "16MiB"), parsed via go-humanize so tests
	// can align content with the hasher's chunk boundary precisely.
	Size string
}

// TotalSize returns the sum of all chunk sizes in bytes.
func (f *File) TotalSize() int64 {
	var total int64
	for _, c := range f.Chunks {
		size, _ := humanize.ParseBytes(c.Size)
		total += int64(size)
	}
	return total
}

// RunResult captures the outcome of running the dupfind binary under test.
type RunResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}
