// Package removal implements the three duplicate-removal workflows:
// interactive (prompt per pair), same-filename, and paranoid (byte
// comparison before removing). All three are grounded on
// original_source/duped-cli/src/main.rs.
package removal

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nsavage/dupfind/internal/types"
)

// Removal records one file removed by a non-interactive workflow, and
// which surviving path it was judged a duplicate of.
type Removal struct {
	Path        string
	DuplicateOf string
	Err         error
}

// Deleter deletes a removed path's cache entry. *cache.Cache satisfies
// this; pass nil to skip cache bookkeeping.
type Deleter interface {
	Delete(path string) error
}

func sortedPaths(g types.HashGroup) []string {
	paths := g.Paths()
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)
	return sorted
}

func removeFile(path string, c Deleter) error {
	if err := os.Remove(path); err != nil {
		return err
	}
	if c != nil {
		return c.Delete(path)
	}
	return nil
}

// Interactive prompts, for each duplicate group, over consecutive pairs
// of sorted paths: "1" removes the left path and continues from the
// right; "2" removes the right path and advances; "s" skips the pair
// entirely. Mirrors interactive_removal's index walk exactly.
func Interactive(result *types.DiscoveryResult, in io.Reader, out io.Writer, c Deleter) error {
	reader := bufio.NewReader(in)

	for hash, group := range result.Duplicates() {
		entries := sortedPaths(group)
		fmt.Fprintf(out, "Hash: %s\n", hash)

		i, j := 0, 1
		for i < j && j < len(entries) {
			path1, path2 := entries[i], entries[j]
			for {
				fmt.Fprintf(out, "(1) %s\n(2) %s\nRemove (s to skip): ", path1, path2)
				line, err := reader.ReadString('\n')
				if err != nil && line == "" {
					return err
				}
				choice := strings.TrimSpace(line)
				fmt.Fprintln(out)

				switch choice {
				case "s":
					i = j + 1
					j += 2
				case "1":
					if err := removeFile(path1, c); err != nil {
						fmt.Fprintf(out, "failed to remove %q: %v\n", path1, err)
					}
					i = j
					j++
				case "2":
					if err := removeFile(path2, c); err != nil {
						fmt.Fprintf(out, "failed to remove %q: %v\n", path2, err)
					}
					j++
				default:
					continue
				}
				break
			}
		}
	}
	return nil
}

// SameFilename removes every entry after the first in each duplicate
// group whose base name matches the first entry's base name.
func SameFilename(result *types.DiscoveryResult, c Deleter) []Removal {
	var removals []Removal
	for _, group := range result.Duplicates() {
		entries := sortedPaths(group)
		keep := entries[0]
		for _, dup := range entries[1:] {
			if filepath.Base(dup) != filepath.Base(keep) {
				continue
			}
			err := removeFile(dup, c)
			removals = append(removals, Removal{Path: dup, DuplicateOf: keep, Err: err})
		}
	}
	return removals
}

// Paranoid byte-compares every entry after the first in each duplicate
// group against the first via SameContent, removing it only when the
// comparison confirms equality.
func Paranoid(result *types.DiscoveryResult, c Deleter) []Removal {
	var removals []Removal
	for _, group := range result.Duplicates() {
		entries := sortedPaths(group)
		keep := entries[0]
		for _, dup := range entries[1:] {
			equal, err := SameContent(keep, dup)
			if err != nil {
				removals = append(removals, Removal{Path: dup, DuplicateOf: keep, Err: err})
				continue
			}
			if !equal {
				continue
			}
			err = removeFile(dup, c)
			removals = append(removals, Removal{Path: dup, DuplicateOf: keep, Err: err})
		}
	}
	return removals
}

const sameContentBufSize = 64 * 1024

// SameContent lockstep-compares a and b a buffer at a time, returning
// true only if every byte matches and both reach EOF together.
func SameContent(a, b string) (bool, error) {
	fa, err := os.Open(a)
	if err != nil {
		return false, err
	}
	defer fa.Close()

	fb, err := os.Open(b)
	if err != nil {
		return false, err
	}
	defer fb.Close()

	bufA := make([]byte, sameContentBufSize)
	bufB := make([]byte, sameContentBufSize)

	for {
		na, erra := fa.Read(bufA)
		nb, errb := fb.Read(bufB)
		if na != nb || string(bufA[:na]) != string(bufB[:nb]) {
			return false, nil
		}
		if na == 0 {
			return true, nil
		}
		if erra != nil && erra != io.EOF {
			return false, erra
		}
		if errb != nil && errb != io.EOF {
			return false, errb
		}
		if erra == io.EOF || errb == io.EOF {
			return erra == errb, nil
		}
	}
}
