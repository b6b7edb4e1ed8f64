package solver

import (
	"math"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"

	"github.com/pzielasko/taquin/puzzle"
)

// rough per-entry footprint: map overhead, bucket slice header, grid
// pointer and depth. Only used for the preallocation hint.
const visitCost = 96

const (
	minSizePowerOf2 = 10
	maxSizePowerOf2 = 21
)

// DefaultMemFraction is the share of system memory the registry sizes its
// preallocation hint from.
const DefaultMemFraction = 0.05

type visit struct {
	grid  *puzzle.Puzzle
	depth int
}

// Registry records every grid the search has reached, keeping per grid the
// depth of the shortest path found so far. Buckets are keyed by zobrist
// hash; entries inside a bucket are told apart by exact grid comparison,
// so a hash collision can never merge two distinct grids.
type Registry struct {
	buckets map[uint64][]visit

	visited    uint64
	lookups    uint64
	hits       uint64
	replaced   uint64
	collisions uint64
}

// NewRegistry returns a registry sized for the given grid dimensions.
func NewRegistry(width, height int) *Registry {
	r := &Registry{}
	r.Reset(DefaultMemFraction, width, height)
	return r
}

// Reset clears the registry and re-derives its preallocation hint from a
// fraction of total system memory and the per-grid payload size.
func (r *Registry) Reset(fractionOfMemory float64, width, height int) {
	totalMem := memory.TotalMemory()
	desiredNElems := fractionOfMemory * float64(totalMem) / float64(visitCost+width*height)
	sizePowerOf2 := int(math.Log2(desiredNElems))
	if sizePowerOf2 < minSizePowerOf2 {
		sizePowerOf2 = minSizePowerOf2
	}
	if sizePowerOf2 > maxSizePowerOf2 {
		sizePowerOf2 = maxSizePowerOf2
	}
	numElems := 1 << sizePowerOf2

	r.buckets = make(map[uint64][]visit, numElems)
	r.visited = 0
	r.lookups = 0
	r.hits = 0
	r.replaced = 0
	r.collisions = 0

	log.Debug().Int("num-elems", numElems).
		Float64("desired-num-elems", desiredNElems).
		Uint64("total-system-memory-bytes", totalMem).
		Msg("registry-size")
}

// Upsert records a grid reached at the given depth and reports whether the
// caller should enqueue this instance: true for a first visit or for a
// strictly shorter rediscovery (which replaces the stored entry), false
// when an equal-or-shorter path to the same grid is already known.
func (r *Registry) Upsert(grid *puzzle.Puzzle, key uint64, depth int) bool {
	r.lookups++
	bucket := r.buckets[key]
	for i := range bucket {
		if bucket[i].grid.Equal(grid) {
			r.hits++
			if depth < bucket[i].depth {
				bucket[i].grid = grid
				bucket[i].depth = depth
				r.replaced++
				return true
			}
			return false
		}
	}
	if len(bucket) > 0 {
		r.collisions++
	}
	r.buckets[key] = append(bucket, visit{grid: grid, depth: depth})
	r.visited++
	return true
}

// DepthOf returns the best known depth for a grid, if it has been visited.
func (r *Registry) DepthOf(grid *puzzle.Puzzle, key uint64) (int, bool) {
	for _, v := range r.buckets[key] {
		if v.grid.Equal(grid) {
			return v.depth, true
		}
	}
	return 0, false
}

// Visited returns the number of distinct grids ever inserted. It never
// decreases; replacement rewrites an entry without changing the count.
func (r *Registry) Visited() uint64 { return r.visited }

// Lookups returns the number of Upsert calls.
func (r *Registry) Lookups() uint64 { return r.lookups }

// Hits returns how many Upserts found their grid already present.
func (r *Registry) Hits() uint64 { return r.hits }

// Replaced returns how many Upserts rewrote an entry with a shorter path.
func (r *Registry) Replaced() uint64 { return r.replaced }

// Collisions returns how many distinct grids shared a zobrist key.
func (r *Registry) Collisions() uint64 { return r.collisions }
