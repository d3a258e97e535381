// Package pool runs a fixed-size worker pool that advances progressive
// hashers one chunk at a time under a file-descriptor budget, round by
// round, handing results back to the collector for regrouping.
//
// Grounded in the teacher's internal/verifier: N workers draining a job
// channel, a semaphore bounding concurrent file reads, a WaitGroup gating
// channel close. The unit of work here is "one chunk of one file" rather
// than verifier's "one byte range of one sibling-group representative",
// since this spec has no hardlink short-circuit.
package pool

import (
	"runtime"

	"github.com/nsavage/dupfind/internal/hasher"
	"golang.org/x/sys/unix"
)

// defaultWorkers is the fallback worker count on a platform where
// runtime.NumCPU can't be trusted to reflect usable parallelism; in
// practice runtime.NumCPU always returns >=1, so this is unreachable, but
// mirrors the teacher's defensive clamp pattern.
const defaultWorkers = 4

// maxWorkers caps the pool regardless of CPU count — hashing is I/O bound
// past a point and more goroutines just contend for disk.
const maxWorkers = 16

// fallbackFDBudget is used on platforms where RLIMIT_NOFILE can't be read.
const fallbackFDBudget = 256

// Workers returns the worker count for a pool: min(NumCPU, maxWorkers),
// overridden by want if want > 0.
func Workers(want int) int {
	if want > 0 {
		return want
	}
	n := runtime.NumCPU()
	if n < 1 {
		n = defaultWorkers
	}
	if n > maxWorkers {
		n = maxWorkers
	}
	return n
}

// FDBudget returns the number of hashers allowed in flight at once across
// the whole pool: rlimit_nofile - 4*workers, leaving headroom for the
// process's other file descriptors (stdio, the cache's bbolt handle, log
// output). Falls back to a conservative constant if the limit can't be
// read.
func FDBudget(workers int) int {
	var rlim unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rlim); err != nil {
		return fallbackFDBudget
	}
	budget := int(rlim.Cur) - 4*workers
	if budget < 1 {
		budget = 1
	}
	return budget
}

// Result is one hasher's outcome after a single Advance call.
type Result struct {
	Hasher *hasher.Hasher
	Err    error
}

// Pool dispatches a round's hashers across a fixed worker set, advancing
// each by one chunk under the FD budget semaphore, and returns their
// results on a channel sized to the round.
type Pool struct {
	workers int
	sem     chan struct{}
}

// New creates a Pool with the given worker count and FD budget.
func New(workers, fdBudget int) *Pool {
	return &Pool{workers: workers, sem: make(chan struct{}, fdBudget)}
}

// RunRound advances every hasher in the batch by one chunk, fanning the
// batch out across the pool's fixed worker count (chunked fan-out: each
// worker is handed a contiguous slice of the batch up front, rather than
// workers pulling one-at-a-time off a shared channel) and returns exactly
// len(batch) results, in no particular order.
func (p *Pool) RunRound(batch []*hasher.Hasher) []Result {
	results := make(chan Result, len(batch))
	chunks := partition(batch, p.workers)

	for _, chunk := range chunks {
		go func(chunk []*hasher.Hasher) {
			for _, h := range chunk {
				p.sem <- struct{}{}
				err := h.Advance()
				<-p.sem
				results <- Result{Hasher: h, Err: err}
			}
		}(chunk)
	}

	out := make([]Result, 0, len(batch))
	for i := 0; i < len(batch); i++ {
		out = append(out, <-results)
	}
	return out
}

// partition splits items into at most n roughly-equal, contiguous chunks.
func partition[T any](items []T, n int) [][]T {
	if n <= 0 || n > len(items) {
		n = len(items)
	}
	if n == 0 {
		return nil
	}

	chunks := make([][]T, 0, n)
	base := len(items) / n
	extra := len(items) % n

	idx := 0
	for i := 0; i < n; i++ {
		size := base
		if i < extra {
			size++
		}
		if size == 0 {
			continue
		}
		chunks = append(chunks, items[idx:idx+size])
		idx += size
	}
	return chunks
}
