// Package filter decides which files discovery considers, using metadata
// only — never file contents.
package filter

import (
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// Verdict is the three-valued outcome of evaluating a file against a
// Filter: keep it, skip it, or abandon the walk entirely.
type Verdict int

const (
	// Include means the file should be hashed.
	Include Verdict = iota
	// Exclude means the file should be skipped, walk continues.
	Exclude
	// Stop means the walk should halt immediately; the file itself is
	// also excluded. The resulting DiscoveryResult is marked partial.
	Stop
)

func (v Verdict) String() string {
	switch v {
	case Include:
		return "include"
	case Exclude:
		return "exclude"
	case Stop:
		return "stop"
	default:
		return "unknown"
	}
}

// Filter evaluates a file by path, size, and modification time.
type Filter interface {
	Evaluate(path string, size int64, modTime time.Time) Verdict
}

// FilterFunc adapts a function to a Filter.
type FilterFunc func(path string, size int64, modTime time.Time) Verdict

// Evaluate calls f.
func (f FilterFunc) Evaluate(path string, size int64, modTime time.Time) Verdict {
	return f(path, size, modTime)
}

// SizeWindow excludes files outside [Lower, Upper]. A zero bound is
// unbounded on that side: Lower == 0 means no minimum, Upper == 0 means no
// maximum.
type SizeWindow struct {
	Lower int64
	Upper int64
}

// Evaluate implements Filter.
func (w SizeWindow) Evaluate(_ string, size int64, _ time.Time) Verdict {
	if w.Lower > 0 && size < w.Lower {
		return Exclude
	}
	if w.Upper > 0 && size > w.Upper {
		return Exclude
	}
	return Include
}

// GlobExclude excludes any path matching one of a set of doublestar glob
// patterns (e.g. "vendor/**", "*.tmp"), matched against the path as given
// to the walker (root-relative or absolute, whichever the caller passes).
// Unlike the teacher's filepath.Match-based basename matching, ** lets a
// single pattern exclude an entire subtree.
type GlobExclude struct {
	Patterns []string
}

// Evaluate implements Filter.
func (g GlobExclude) Evaluate(path string, _ int64, _ time.Time) Verdict {
	for _, pattern := range g.Patterns {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return Exclude
		}
	}
	return Include
}

// Chain composes filters in order, short-circuiting on the first
// non-Include verdict.
type Chain []Filter

// Evaluate implements Filter.
func (c Chain) Evaluate(path string, size int64, modTime time.Time) Verdict {
	for _, f := range c {
		if v := f.Evaluate(path, size, modTime); v != Include {
			return v
		}
	}
	return Include
}
