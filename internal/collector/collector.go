// Package collector drives the round-based refinement loop: each round it
// buckets hashers by their current (partial) digest, finalizes any bucket
// that turns out to hold a single hasher (its content has provably
// diverged from every other file still in play), and sends every other
// bucket back for another round of hashing.
package collector

import (
	"github.com/nsavage/dupfind/internal/cache"
	"github.com/nsavage/dupfind/internal/hasher"
	"github.com/nsavage/dupfind/internal/pool"
	"github.com/nsavage/dupfind/internal/types"
)

// Round advances every hasher in batch by one chunk via p, then partitions
// the results: hashers whose file is fully hashed are finalized into
// groups (merged by final digest); hashers that diverged from every peer
// this round (singleton bucket by current digest) are also finalized, at
// their current digest, since no remaining peer can still match them;
// everything else is returned for another Round call.
//
// onError receives any per-file error from Advance (the file vanished, lost
// a race with a concurrent writer, etc) — that hasher is dropped, not
// retried.
func Round(p *pool.Pool, batch []*hasher.Hasher, onError func(path string, err error)) (finalized []*hasher.Hasher, pending []*hasher.Hasher) {
	results := p.RunRound(batch)

	buckets := make(map[[32]byte][]*hasher.Hasher)
	for _, r := range results {
		if r.Err != nil {
			if onError != nil {
				onError(r.Hasher.Entry().Path, r.Err)
			}
			continue
		}

		digest, done := r.Hasher.Snapshot()
		if done {
			finalized = append(finalized, r.Hasher)
			continue
		}
		buckets[digest] = append(buckets[digest], r.Hasher)
	}

	for _, bucket := range buckets {
		if len(bucket) == 1 {
			finalized = append(finalized, bucket[0])
			continue
		}
		pending = append(pending, bucket...)
	}

	return finalized, pending
}

// Collect runs Round repeatedly until no hashers remain pending, merging
// every finalized hasher into HashGroup buckets keyed by final digest
// (singleton-finalized hashers are still merged by digest, since two
// different-sized-bucket rounds can independently finalize files that
// turn out to share a digest — two files can diverge from every *other*
// peer in a round yet still match each other if they were never compared
// directly; merging by digest at the end is what makes that safe).
//
// When c is non-nil (caching enabled), every fully-hashed entry is written
// back with cache.Put; an error there is reported via onError but does not
// drop the entry from the result.
func Collect(p *pool.Pool, initial []*hasher.Hasher, c *cache.Cache, onError func(path string, err error)) []types.HashGroup {
	groups := make(map[[32]byte]*types.HashGroup)
	batch := initial

	for len(batch) > 0 {
		finalized, pending := Round(p, batch, onError)

		for _, h := range finalized {
			digest, done := h.Snapshot()
			entry := h.Entry()

			g, ok := groups[digest]
			if !ok {
				g = &types.HashGroup{Hash: digest, Size: entry.Size}
				groups[digest] = g
			}
			g.Files = append(g.Files, entry)

			// Only a fully-hashed digest is the file's content hash; a
			// singleton-finalized hasher's digest is just the prefix it
			// diverged at, and caching that would let an unrelated file
			// sharing the same prefix false-match it on a later run.
			if c != nil && done {
				err := c.Put(cache.Entry{
					Path:  entry.Path,
					Mtime: entry.ModTime.Unix(),
					Size:  entry.Size,
					Hash:  digest,
				})
				if err != nil && onError != nil {
					onError(entry.Path, err)
				}
			}
		}

		batch = pending
	}

	out := make([]types.HashGroup, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	return out
}
