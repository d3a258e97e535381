// Package engine wires the walker, worker pool, collector, and optional
// hash cache into a single Discover call.
package engine

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/nsavage/dupfind/internal/cache"
	"github.com/nsavage/dupfind/internal/collector"
	"github.com/nsavage/dupfind/internal/filter"
	"github.com/nsavage/dupfind/internal/hasher"
	"github.com/nsavage/dupfind/internal/pool"
	"github.com/nsavage/dupfind/internal/types"
	"github.com/nsavage/dupfind/internal/walker"
)

// ProgressHook receives discovery progress notifications. Both methods
// must be safe to call concurrently. Discover calls OnFilesSelected once,
// after the walk completes, and then OnEntryFinalized once per file after
// hashing completes, both from the goroutine that called Discover.
type ProgressHook interface {
	OnFilesSelected(count int)
	OnEntryFinalized(hash string, entry types.FileEntry)
}

// NoopHook implements ProgressHook with no-op bodies.
type NoopHook struct{}

// OnFilesSelected implements ProgressHook.
func (NoopHook) OnFilesSelected(int) {}

// OnEntryFinalized implements ProgressHook.
func (NoopHook) OnEntryFinalized(string, types.FileEntry) {}

// Builder configures an Engine.
type Builder struct {
	roots      []string
	lowerLimit int64
	upperLimit int64
	excludes   []string
	cachePath  string
	workers    int
}

// NewBuilder starts building an Engine over the given root paths.
func NewBuilder(roots []string) *Builder {
	return &Builder{roots: roots}
}

// LowerLimit sets the minimum file size considered.
func (b *Builder) LowerLimit(n int64) *Builder { b.lowerLimit = n; return b }

// UpperLimit sets the maximum file size considered (0 = unbounded).
func (b *Builder) UpperLimit(n int64) *Builder { b.upperLimit = n; return b }

// Excludes appends glob patterns to skip.
func (b *Builder) Excludes(patterns ...string) *Builder {
	b.excludes = append(b.excludes, patterns...)
	return b
}

// CachePath sets the hash cache file; empty disables caching.
func (b *Builder) CachePath(path string) *Builder { b.cachePath = path; return b }

// Workers overrides the hashing worker count (0 = auto).
func (b *Builder) Workers(n int) *Builder { b.workers = n; return b }

// Build finalizes the Engine, opening the cache if configured.
func (b *Builder) Build() (*Engine, error) {
	c, err := cache.Open(b.cachePath)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}

	workers := pool.Workers(b.workers)
	return &Engine{
		roots:      b.roots,
		lowerLimit: b.lowerLimit,
		upperLimit: b.upperLimit,
		excludes:   b.excludes,
		cache:      c,
		pool:       pool.New(workers, pool.FDBudget(workers)),
	}, nil
}

// Engine runs discovery over a fixed set of roots and options.
type Engine struct {
	roots      []string
	lowerLimit int64
	upperLimit int64
	excludes   []string
	cache      *cache.Cache
	pool       *pool.Pool
}

// Close releases the engine's cache handle.
func (e *Engine) Close() error {
	return e.cache.Close()
}

// Delete removes path's hash cache entry, if any. Lets Engine satisfy
// removal.Deleter so removal workflows keep the cache consistent with
// the filesystem without importing internal/cache themselves.
func (e *Engine) Delete(path string) error {
	return e.cache.Delete(path)
}

// Discover walks e.roots, hashes every file passing f, and returns the
// grouped result. hook receives progress notifications; pass nil or
// NoopHook{} if unneeded. Cancelling ctx behaves exactly like f returning
// filter.Stop: the walk halts and the result is marked partial, without
// interrupting hashing already in flight.
func (e *Engine) Discover(ctx context.Context, f filter.Filter, hook ProgressHook) (*types.DiscoveryResult, error) {
	if hook == nil {
		hook = NoopHook{}
	}

	chain := filter.Chain{
		filter.SizeWindow{Lower: e.lowerLimit, Upper: e.upperLimit},
	}
	if len(e.excludes) > 0 {
		chain = append(chain, filter.GlobExclude{Patterns: e.excludes})
	}
	if f != nil {
		chain = append(chain, f)
	}

	fileCh := make(chan types.FileEntry, 1000)
	var walkErrors []error
	onWalkError := func(path string, err error) {
		walkErrors = append(walkErrors, fmt.Errorf("%s: %w", path, err))
	}

	var stopped bool
	done := make(chan struct{})
	go func() {
		stopped = walker.Walk(ctx, e.roots, chain, onWalkError, fileCh)
		close(fileCh)
		close(done)
	}()

	// merged accumulates both cache hits and freshly hashed groups, keyed
	// by digest, so a cache hit and a freshly hashed file that happen to
	// share content end up in the same group.
	merged := make(map[[32]byte]*types.HashGroup)
	var toHash []*hasher.Hasher
	// cacheErrors is owned solely by this goroutine, kept separate from
	// walkErrors (which onWalkError appends to from the walker goroutine)
	// so the two never race on the same slice; merged together below.
	var cacheErrors []error

	for entry := range fileCh {
		hit, err := e.cache.Get(entry.Path, entry.ModTime.Unix())
		if err != nil {
			cacheErrors = append(cacheErrors, fmt.Errorf("cache lookup %s: %w", entry.Path, err))
		}
		if hit != nil {
			addToGroup(merged, hit.Hash, entry)
			continue
		}
		toHash = append(toHash, hasher.New(entry))
	}
	<-done
	walkErrors = append(walkErrors, cacheErrors...)
	hook.OnFilesSelected(len(toHash))

	var collectErrors []error
	onCollectError := func(path string, err error) {
		collectErrors = append(collectErrors, fmt.Errorf("%s: %w", path, err))
	}

	hashed := collector.Collect(e.pool, toHash, e.cache, onCollectError)
	for _, g := range hashed {
		for _, entry := range g.Files {
			addToGroup(merged, g.Hash, entry)
		}
	}

	groups := make([]types.HashGroup, 0, len(merged))
	for _, g := range merged {
		groups = append(groups, *g)
		for _, entry := range g.Files {
			hook.OnEntryFinalized(hex.EncodeToString(g.Hash[:]), entry)
		}
	}

	errs := append(append([]error(nil), walkErrors...), collectErrors...)
	result := types.NewDiscoveryResult(groups, stopped || ctx.Err() != nil, errs)
	return &result, nil
}

func addToGroup(groups map[[32]byte]*types.HashGroup, hash [32]byte, entry types.FileEntry) {
	g, ok := groups[hash]
	if !ok {
		g = &types.HashGroup{Hash: hash, Size: entry.Size}
		groups[hash] = g
	}
	g.Files = append(g.Files, entry)
}
