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

// Package strdict implements a hash table specialized for byte-string and
// text-string keys, modeled on CPython's compact dict representation:
// https://www.python.org/dev/peps/pep-0412/ and the combined-table design
// described in Objects/dictobject.c. See also:
// https://github.com/python/cpython/blob/main/Objects/dictobject.c.
//
// # Two-level indirection
//
// Unlike a textbook open-addressed hash table, a strdict.Table does not
// store entries directly in its probe array. Instead it keeps two separate
// vectors:
//
//   - entries: a dense vector of *entry[V], in insertion order. A nil
//     element is a tombstone left behind by Remove or PopAny; a later insert
//     whose probe sequence passes over it reoccupies that slot instead of
//     appending.
//   - offsets: a power-of-two vector of int32 indices into entries, or -1
//     for an unused probe position.
//
// Lookups probe offsets the usual open-addressing way, but what they find at
// each step is an index into entries rather than the entry itself. The
// payoff is that iterating a Table never has to walk the (sparser, larger)
// probe array: Keys, Values, Items, Traverse and String all walk entries
// directly, so iteration order is insertion order and is unaffected by the
// probe array's size or load factor. The one exception is a key inserted
// into a reoccupied tombstone: it iterates at the removed key's position.
//
// # Inline entries
//
// Each entry packs its key's length (LEB128-encoded) and raw bytes into a
// single []byte blob alongside the value, rather than storing a separate
// string/[]byte key field next to a length field. This keeps a key's bytes
// and its size prefix in one allocation, avoiding an extra pointer chase on
// every comparison — the technique this package is modeled on (CPython's
// str-keyed dict variant) goes further and buries the entry's kind tag in
// spare low bits of its object-header pointers, a trick that does not
// translate to a garbage-collected language; here the kind tag is an
// explicit field instead. See entry.go.
//
// # Keys
//
// A Table accepts four kinds of key: arbitrary bytes, and text keys
// addressed in 1, 2 or 4-byte code units (UTF-8/ASCII, UTF-16, UTF-32/runes
// respectively). A bytes key and a text key with the same underlying bytes
// are always distinct entries — Bytes([]byte("k")) and Text("k") coexist in
// the same Table. Build keys with Bytes, Text, Text2 and Text4, or simply
// pass a string or []byte to any Table method and it will be normalized for
// you.
//
// # Concurrency
//
// A Table is not safe for concurrent use; the caller must serialize access,
// exactly as for Go's builtin map.
package strdict
