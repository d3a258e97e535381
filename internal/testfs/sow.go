package testfs

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
)

// -----------------------------------------------------------------------------
// Sow Operations - Create filesystem from spec
// -----------------------------------------------------------------------------

// SowFileTree creates the files described by spec under root.
func SowFileTree(root string, spec FileTree) error {
	for _, f := range spec.Files {
		if err := sowFile(root, f); err != nil {
			return fmt.Errorf("sow %s: %w", f.Path, err)
		}
	}
	return nil
}

// sowFile creates a single file with its chunked content.
func sowFile(root string, f File) (err error) {
	path := filepath.Join(root, f.Path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := fh.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	for _, c := range f.Chunks {
		if err := writeChunk(fh, c); err != nil {
			return err
		}
	}
	return nil
}

// writeChunk streams a single chunk's worth of pattern-filled bytes to f.
// Handles both tiny (100B) and huge (1GiB) chunks without over-allocating.
func writeChunk(f *os.File, c Chunk) error {
	const maxBufSize = 1 << 20 // 1MiB max buffer

	size, err := humanize.ParseBytes(c.Size)
	if err != nil {
		return fmt.Errorf("parse chunk size %q: %w", c.Size, err)
	}

	bufSize := int(size)
	if bufSize > maxBufSize {
		bufSize = maxBufSize
	}
	buf := bytes.Repeat([]byte{byte(c.Pattern)}, bufSize)

	remaining := int64(size)
	for remaining > 0 {
		toWrite := int64(len(buf))
		if remaining < toWrite {
			toWrite = remaining
		}
		if _, err := f.Write(buf[:toWrite]); err != nil {
			return err
		}
		remaining -= toWrite
	}
	return nil
}
