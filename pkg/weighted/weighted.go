// Package weighted implements proportional random selection over an ordered pool
// of keys. It is shared by mob, rock, floor, room-type and item-quality selection.
package weighted

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/jwebster45206/dungeon-engine/pkg/rng"
)

// ErrNoCandidates is returned when a pool has no positive weight to select from.
var ErrNoCandidates = errors.New("no candidates with positive weight")

// ErrNegativeWeight is returned when a negative weight is set on a pool.
var ErrNegativeWeight = errors.New("weight must be non-negative")

// ErrWeightOverflow is returned when a weight would push the pool total past math.MaxInt.
var ErrWeightOverflow = errors.New("pool total weight overflows")

type entry[K comparable] struct {
	key    K
	weight int
}

// Pool is an ordered mapping from key to non-negative weight.
// Iteration order is insertion order, which keeps selection deterministic for a given draw.
type Pool[K comparable] struct {
	entries []entry[K]
	index   map[K]int
}

// NewPool returns an empty pool.
func NewPool[K comparable]() *Pool[K] {
	return &Pool[K]{index: make(map[K]int)}
}

// FromMap builds a pool from a map, inserting keys in the order defined by less.
func FromMap[K comparable](weights map[K]int, less func(a, b K) int) (*Pool[K], error) {
	keys := make([]K, 0, len(weights))
	for k := range weights {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, less)

	p := NewPool[K]()
	for _, k := range keys {
		if err := p.Set(k, weights[k]); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// FromOrderedMap builds a pool from a map whose keys have a natural order.
func FromOrderedMap[K cmp.Ordered](weights map[K]int) (*Pool[K], error) {
	return FromMap(weights, cmp.Compare[K])
}

// Set assigns a weight to key. Updating an existing key keeps its position.
func (p *Pool[K]) Set(key K, weight int) error {
	if weight < 0 {
		return fmt.Errorf("%w: %v=%d", ErrNegativeWeight, key, weight)
	}
	if p.index == nil {
		p.index = make(map[K]int)
	}
	if weight > math.MaxInt-(p.Total()-p.Weight(key)) {
		return fmt.Errorf("%w: %v=%d", ErrWeightOverflow, key, weight)
	}
	if i, ok := p.index[key]; ok {
		p.entries[i].weight = weight
		return nil
	}
	p.index[key] = len(p.entries)
	p.entries = append(p.entries, entry[K]{key: key, weight: weight})
	return nil
}

// Weight returns the weight for key, or 0 when absent.
func (p *Pool[K]) Weight(key K) int {
	if p == nil {
		return 0
	}
	if i, ok := p.index[key]; ok {
		return p.entries[i].weight
	}
	return 0
}

// Total returns the sum of all weights.
func (p *Pool[K]) Total() int {
	if p == nil {
		return 0
	}
	total := 0
	for _, e := range p.entries {
		total += e.weight
	}
	return total
}

// Len returns the number of keys in the pool, including zero-weight keys.
func (p *Pool[K]) Len() int {
	if p == nil {
		return 0
	}
	return len(p.entries)
}

// Keys returns the keys in insertion order.
func (p *Pool[K]) Keys() []K {
	if p == nil {
		return nil
	}
	keys := make([]K, len(p.entries))
	for i, e := range p.entries {
		keys[i] = e.key
	}
	return keys
}

// Select draws a key with probability proportional to its weight.
// A roll r is drawn in [0, total); entries are walked in order, zero-weight
// entries are skipped, and each weight is subtracted until r goes negative.
func Select[K comparable](src rng.Source, p *Pool[K]) (K, error) {
	var zero K
	total := p.Total()
	if total <= 0 {
		return zero, ErrNoCandidates
	}

	roll := src.Intn(total)
	for _, e := range p.entries {
		if e.weight == 0 {
			continue
		}
		roll -= e.weight
		if roll < 0 {
			return e.key, nil
		}
	}
	// Unreachable while roll < total.
	return zero, ErrNoCandidates
}
