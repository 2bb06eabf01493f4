package strdict

import "hash/maphash"

// Option configures a Table at construction time, in the style of the
// teacher's own functional options (cockroachdb/swiss's WithHash,
// WithAllocator).
type Option[V any] func(t *Table[V])

// WithHashSeed fixes the maphash.Seed a Table uses to hash key bytes,
// instead of drawing a fresh random one. Mainly useful for reproducing a
// specific probe sequence in tests.
func WithHashSeed[V any](seed maphash.Seed) Option[V] {
	return func(t *Table[V]) {
		t.seed = seed
	}
}

// WithValueEqual overrides the comparator Table.Equal and Table.EqualMap use
// to compare stored values, instead of the default (V's Equatable
// implementation if present, else reflect.DeepEqual).
func WithValueEqual[V any](eq func(a, b V) bool) Option[V] {
	return func(t *Table[V]) {
		t.valueEqual = eq
	}
}

// WithCapacity pre-sizes a Table so that n entries can be inserted without
// triggering a rehash, mirroring the teacher's own capacity-hinting options.
func WithCapacity[V any](n int) Option[V] {
	return func(t *Table[V]) {
		t.initialCapacity = n
	}
}
