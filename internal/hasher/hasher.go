// Package hasher implements progressive, chunked content hashing: a file's
// digest is built up a fixed-size read at a time, so a caller can inspect
// an in-progress hash and abandon files that have already diverged from
// every other candidate without reading them to completion.
package hasher

import (
	"crypto/sha256"
	"fmt"
	"hash"
	"io"
	"os"

	"github.com/nsavage/dupfind/internal/types"
)

// ChunkSize is the number of bytes read per Advance call. 16 MiB amortizes
// the per-call open/seek cost while still letting large files diverge
// early instead of being hashed in one pass.
const ChunkSize = 16 * 1024 * 1024

// Hasher holds the in-progress content hash of one file.
//
// A Hasher is created once the Walker has captured a file's metadata, and
// is exclusively owned by whichever worker currently holds it. It is
// destroyed once the file is finalized or dropped on error.
type Hasher struct {
	entry       types.FileEntry
	chunkSize   int64
	state       hash.Hash
	bytesHashed int64
}

// New creates a Hasher for the given file entry.
func New(entry types.FileEntry) *Hasher {
	return &Hasher{entry: entry, chunkSize: ChunkSize, state: sha256.New()}
}

// withChunkSize overrides the chunk size; only used by this package's own
// tests to exercise multi-round behavior without writing huge fixtures.
func withChunkSize(entry types.FileEntry, size int64) *Hasher {
	h := New(entry)
	h.chunkSize = size
	return h
}

// Entry returns the file entry this Hasher is working on.
func (h *Hasher) Entry() types.FileEntry { return h.entry }

// Advance opens the file, seeks to the current position, reads up to
// ChunkSize bytes, folds them into the running hash state, and advances
// the position by the number of bytes read. It is the caller's
// responsibility to serialize calls to Advance on a single Hasher — it is
// not safe for concurrent use.
func (h *Hasher) Advance() error {
	remaining := h.entry.Size - h.bytesHashed
	if remaining <= 0 {
		return nil
	}
	toRead := remaining
	if toRead > h.chunkSize {
		toRead = h.chunkSize
	}

	f, err := os.Open(h.entry.Path)
	if err != nil {
		return fmt.Errorf("open %s: %w", h.entry.Path, err)
	}
	defer f.Close()

	if _, err := f.Seek(h.bytesHashed, 0); err != nil {
		return fmt.Errorf("seek %s: %w", h.entry.Path, err)
	}

	n, err := io.CopyN(h.state, f, toRead)
	h.bytesHashed += n
	if err != nil {
		return fmt.Errorf("read %s: %w", h.entry.Path, err)
	}
	return nil
}

// Snapshot finalizes the current hash state into a digest without
// consuming it, and reports whether the whole file has been hashed. The
// returned digest equals the final content hash iff done is true.
func (h *Hasher) Snapshot() (digest [32]byte, done bool) {
	sum := h.state.Sum(nil)
	copy(digest[:], sum)
	return digest, h.bytesHashed == h.entry.Size
}

// Done reports whether the file has been fully hashed.
func (h *Hasher) Done() bool {
	return h.bytesHashed == h.entry.Size
}
