// Copyright 2024 The Cockroach Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package strdict

import (
	"fmt"
	"hash/maphash"
	"unsafe"
)

const (
	debug           = false
	debugInvariants = false

	minOffsets = 8

	// loadFactorNum/loadFactorDen bound occupied/len(offsets) strictly below
	// 2/3 after every mutation, per the load-factor invariant.
	loadFactorNum = 2
	loadFactorDen = 3
)

// Table is a hash table mapping byte-string and text-string keys to values
// of type V. See the package doc for the two-level indirection (offsets
// into a dense entries vector) that backs it. The zero Table is not usable;
// construct one with New (optionally passing WithCapacity).
//
// A Table is not safe for concurrent use.
type Table[V any] struct {
	entries  []*entry[V]
	offsets  []int32
	mask     uint64
	occupied int

	seed            maphash.Seed
	valueEqual      func(a, b V) bool
	initialCapacity int

	inRepr bool
}

// Item is one key/value pair, as returned by Items and accepted by Update.
type Item[V any] struct {
	Key   Key
	Value V
}

// New constructs an empty Table. Use WithCapacity to pre-size it.
func New[V any](opts ...Option[V]) *Table[V] {
	t := &Table[V]{
		seed: maphash.MakeSeed(),
	}
	for _, opt := range opts {
		opt(t)
	}
	size, _ := offsetsFor(t.initialCapacity)
	t.offsets = newOffsets(size)
	t.mask = uint64(len(t.offsets) - 1)
	return t
}

// maxOffsets bounds how large the offsets vector is ever allowed to grow.
// It exists purely to keep offsetsFor's doubling loop terminating: without
// it, a caller-supplied n large enough that size*2 overflows int would wrap
// size to 0, making the loop's exit condition vacuously true forever.
const maxOffsets = 1 << 30

// offsetsFor returns the smallest power of two, at least minOffsets and at
// most maxOffsets, such that n < loadFactorNum/loadFactorDen * offsetsLen.
// ok is false if n is negative, in which case size is minOffsets, or if n
// cannot be satisfied without exceeding maxOffsets, in which case size is the
// largest offsets length this function will ever produce (maxOffsets). Either
// size is suitable as a best-effort size for callers with no error return.
func offsetsFor(n int) (size int, ok bool) {
	if n < 0 {
		return minOffsets, false
	}
	size = minOffsets
	for loadFactorDen*n >= loadFactorNum*size {
		if size >= maxOffsets {
			return maxOffsets, false
		}
		size *= 2
	}
	return size, true
}

func newOffsets(size int) []int32 {
	o := make([]int32, size)
	for i := range o {
		o[i] = -1
	}
	return o
}

// Len returns the number of entries currently stored.
func (t *Table[V]) Len() int { return t.occupied }

// probeStart returns the initial probe position and perturbation register
// for hash h, per §4.2. The position is returned unmasked; callers apply
// i0 = h & mask themselves.
func probeStart(h uint64) (idx, perturb uint64) {
	return h, h
}

// nextProbe advances the probe sequence: p >>= 5; i = (i*5 + 5 + p) & mask.
// This is the classic CPython dict scramble, guaranteed to visit every
// index of a power-of-two table.
func nextProbe(idx, perturb, mask uint64) (uint64, uint64) {
	perturb >>= 5
	idx = (idx*5 + 5 + perturb) & mask
	return idx, perturb
}

// hashKey computes the stable hash of a key's kind and raw bytes. The kind
// is mixed in so that, while not required for correctness (matches always
// re-checks kind), Bytes and Text1 keys sharing the same bytes don't also
// share a probe sequence.
func (t *Table[V]) hashKey(kind KeyKind, data []byte) uint64 {
	h := maphash.Bytes(t.seed, data)
	return h*31 + uint64(kind)
}

// findExisting walks the probe sequence for view's key, returning the probe
// index and the matching entry if present, or (probeIndex, nil) at the
// first free offsets slot if absent.
func (t *Table[V]) findExisting(view Key) (uint64, *entry[V]) {
	h := t.hashKey(view.kind, view.data)
	idx, perturb := probeStart(h)
	idx &= t.mask
	for {
		off := t.offsets[idx]
		if off == -1 {
			return idx, nil
		}
		e := t.entries[off]
		if e != nil && e.matches(view) {
			return idx, e
		}
		idx, perturb = nextProbe(idx, perturb, t.mask)
	}
}

// insertionPoint is the result of findInsertion: either existing is
// non-nil (the key is already present at probeIdx), or reuseEntriesIdx is
// >= 0 (a tombstone at entries[reuseEntriesIdx] can be reoccupied, with
// offsets[probeIdx] left unchanged), or reuseEntriesIdx is -1 (offsets[probeIdx]
// is free and must be published to a freshly appended entry).
type insertionPoint[V any] struct {
	probeIdx        uint64
	reuseEntriesIdx int32
	existing        *entry[V]
}

// findInsertion walks the probe sequence for view's key, remembering the
// first tombstone it passes over so that a fresh insert can reuse it rather
// than appending to entries, per §4.2.
func (t *Table[V]) findInsertion(view Key) insertionPoint[V] {
	h := t.hashKey(view.kind, view.data)
	idx, perturb := probeStart(h)
	idx &= t.mask

	haveTombstone := false
	var tombstoneProbeIdx uint64
	var tombstoneEntriesIdx int32

	for {
		off := t.offsets[idx]
		if off == -1 {
			if haveTombstone {
				return insertionPoint[V]{probeIdx: tombstoneProbeIdx, reuseEntriesIdx: tombstoneEntriesIdx}
			}
			return insertionPoint[V]{probeIdx: idx, reuseEntriesIdx: -1}
		}
		e := t.entries[off]
		if e == nil {
			if !haveTombstone {
				haveTombstone = true
				tombstoneProbeIdx = idx
				tombstoneEntriesIdx = off
			}
		} else if e.matches(view) {
			return insertionPoint[V]{probeIdx: idx, existing: e}
		}
		idx, perturb = nextProbe(idx, perturb, t.mask)
	}
}

// Contains reports whether key is present.
func (t *Table[V]) Contains(key any) (bool, error) {
	k, err := keyFromAny(key)
	if err != nil {
		return false, err
	}
	_, e := t.findExisting(k)
	return e != nil, nil
}

// Get returns the value stored for key, and whether it was present.
func (t *Table[V]) Get(key any) (V, bool, error) {
	var zero V
	k, err := keyFromAny(key)
	if err != nil {
		return zero, false, err
	}
	_, e := t.findExisting(k)
	if e == nil {
		return zero, false, nil
	}
	return e.value, true, nil
}

// GetOrDefault returns the value stored for key, or def if key is absent.
func (t *Table[V]) GetOrDefault(key any, def V) (V, error) {
	v, ok, err := t.Get(key)
	if err != nil {
		return def, err
	}
	if !ok {
		return def, nil
	}
	return v, nil
}

// Set stores value for key, overwriting any existing value, and grows the
// table if the load factor threshold is now exceeded.
func (t *Table[V]) Set(key any, value V) error {
	k, err := keyFromAny(key)
	if err != nil {
		return err
	}
	t.set(k, value)
	return nil
}

func (t *Table[V]) set(k Key, value V) {
	ip := t.findInsertion(k)
	retainValue(value)

	if ip.existing != nil {
		old := ip.existing.exchangeValue(value)
		releaseValue(old)
		return
	}

	e := newEntry(k, value)
	if ip.reuseEntriesIdx >= 0 {
		t.entries[ip.reuseEntriesIdx] = e
	} else {
		t.entries = append(t.entries, e)
		t.offsets[ip.probeIdx] = int32(len(t.entries) - 1)
	}
	t.occupied++
	t.maybeGrow()
	t.checkInvariants()
}

// SetDefault returns the current value for key if present; otherwise it
// stores def for key and returns def.
func (t *Table[V]) SetDefault(key any, def V) (V, error) {
	k, err := keyFromAny(key)
	if err != nil {
		return def, err
	}

	ip := t.findInsertion(k)
	if ip.existing != nil {
		return ip.existing.value, nil
	}

	retainValue(def)
	e := newEntry(k, def)
	if ip.reuseEntriesIdx >= 0 {
		t.entries[ip.reuseEntriesIdx] = e
	} else {
		t.entries = append(t.entries, e)
		t.offsets[ip.probeIdx] = int32(len(t.entries) - 1)
	}
	t.occupied++
	t.maybeGrow()
	t.checkInvariants()
	return def, nil
}

// Remove deletes key if present, returning its value and true, or the zero
// value and false if key was absent.
func (t *Table[V]) Remove(key any) (V, bool, error) {
	var zero V
	k, err := keyFromAny(key)
	if err != nil {
		return zero, false, err
	}
	probeIdx, e := t.findExisting(k)
	if e == nil {
		return zero, false, nil
	}
	entriesIdx := t.offsets[probeIdx]
	v := e.value
	releaseValue(v)
	releaseValue(e.cachedKey)
	t.entries[entriesIdx] = nil
	t.occupied--
	t.checkInvariants()
	return v, true, nil
}

// Pop deletes key and returns its value. If key is absent and a default was
// supplied, the default is returned instead; otherwise ErrKeyNotFound is
// returned.
func (t *Table[V]) Pop(key any, def ...V) (V, error) {
	v, ok, err := t.Remove(key)
	if err != nil {
		var zero V
		return zero, err
	}
	if ok {
		return v, nil
	}
	if len(def) > 0 {
		return def[0], nil
	}
	var zero V
	return zero, ErrKeyNotFound
}

// PopAny removes and returns the first occupied slot of the entries vector
// (the entry that Keys would list first), or ok=false if the table is empty.
func (t *Table[V]) PopAny() (Key, V, bool) {
	for i, e := range t.entries {
		if e != nil {
			k := e.key()
			v := e.value
			releaseValue(v)
			releaseValue(e.cachedKey)
			t.entries[i] = nil
			t.occupied--
			t.checkInvariants()
			return k, v, true
		}
	}
	var zero V
	return Key{}, zero, false
}

// Clear removes all entries. It moves the entries vector out of the table
// before releasing them, so a Releasable hook that re-enters the table (e.g.
// to read some other key) never observes a half-cleared Table.
func (t *Table[V]) Clear() {
	old := t.entries
	t.entries = nil
	t.offsets = newOffsets(minOffsets)
	t.mask = uint64(minOffsets - 1)
	t.occupied = 0
	for _, e := range old {
		if e != nil {
			releaseValue(e.value)
			releaseValue(e.cachedKey)
		}
	}
}

// Reserve pre-grows the table so that n entries can be inserted without a
// further rehash.
func (t *Table[V]) Reserve(n int) error {
	size, ok := offsetsFor(n)
	if !ok {
		return ErrOverflow
	}
	if size <= len(t.offsets) {
		return nil
	}
	t.growTo(size)
	return nil
}

// maybeGrow doubles the offsets vector once the load factor threshold is
// reached.
func (t *Table[V]) maybeGrow() {
	if loadFactorDen*t.occupied < loadFactorNum*len(t.offsets) {
		return
	}
	t.growTo(len(t.offsets) * 2)
}

// growTo resizes offsets to newSize, compacts entries to drop tombstones
// (a stable partition that preserves insertion order), and reprobes every
// surviving entry into the new offsets vector.
func (t *Table[V]) growTo(newSize int) {
	if debug {
		fmt.Printf("strdict: growing offsets %d -> %d (occupied=%d)\n", len(t.offsets), newSize, t.occupied)
	}

	compacted := t.entries[:0]
	for _, e := range t.entries {
		if e != nil {
			compacted = append(compacted, e)
		}
	}
	t.entries = compacted

	t.offsets = newOffsets(newSize)
	t.mask = uint64(newSize - 1)

	for i, e := range t.entries {
		_, data := e.keyBytes()
		h := t.hashKey(e.kind, data)
		idx, perturb := probeStart(h)
		idx &= t.mask
		for t.offsets[idx] != -1 {
			idx, perturb = nextProbe(idx, perturb, t.mask)
		}
		t.offsets[idx] = int32(i)
	}
	t.checkInvariants()
}

// SizeOf returns an approximation of the Table's heap footprint in bytes:
// the Table struct itself, the offsets vector, the entries vector's
// backing array, and every live entry's struct and inline blob.
func (t *Table[V]) SizeOf() uintptr {
	var e entry[V]
	size := unsafe.Sizeof(*t)
	size += uintptr(len(t.offsets)) * unsafe.Sizeof(int32(0))
	size += uintptr(cap(t.entries)) * unsafe.Sizeof((*entry[V])(nil))
	for _, ent := range t.entries {
		if ent != nil {
			size += unsafe.Sizeof(e) + uintptr(len(ent.blob))
		}
	}
	return size
}

// checkInvariants asserts the table's structural invariants: offsets length
// is a power of two >= minOffsets matching mask, the load factor bound holds,
// offsets entries are unique and in range, and occupied matches the count of
// non-nil entries. It does not check probe-sequence reachability. It is a
// no-op unless debugInvariants is set, exactly like the teacher's own
// checkInvariants.
func (t *Table[V]) checkInvariants() {
	if !debugInvariants {
		return
	}
	if len(t.offsets) < minOffsets || len(t.offsets)&(len(t.offsets)-1) != 0 {
		panic(fmt.Sprintf("strdict: offsets length %d is not a power of two >= %d", len(t.offsets), minOffsets))
	}
	if uint64(len(t.offsets)-1) != t.mask {
		panic("strdict: mask does not match offsets length")
	}
	if loadFactorDen*t.occupied >= loadFactorNum*len(t.offsets) {
		panic("strdict: load factor invariant violated")
	}
	occ := 0
	seen := make(map[int32]bool)
	for _, off := range t.offsets {
		if off == -1 {
			continue
		}
		if seen[off] {
			panic("strdict: duplicate offsets entry")
		}
		seen[off] = true
		if off < 0 || int(off) >= len(t.entries) {
			panic("strdict: offsets entry out of range")
		}
	}
	for _, e := range t.entries {
		if e != nil {
			occ++
		}
	}
	if occ != t.occupied {
		panic(fmt.Sprintf("strdict: occupied=%d but counted %d occupied entries", t.occupied, occ))
	}
}
