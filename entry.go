package strdict

import (
	"bytes"
	"fmt"
	"unsafe"
)

// entry is one occupied record in a Table's dense entries vector: a packed
// inline blob holding the key's LEB128 length prefix, its raw code units,
// and a trailing null byte, plus the stored value and a lazily-cached
// native key object.
//
// The inline blob is kept as a single []byte allocation rather than split
// into a separate length field and key field, so that hashing or comparing
// a key never chases more than one pointer — the point of the design this
// package is modeled on.
type entry[V any] struct {
	blob      []byte
	value     V
	kind      KeyKind
	cachedKey any
	origin    unsafe.Pointer
}

// newEntry allocates a new entry holding a copy of k's key bytes and the
// given value. The caller is responsible for any Retain bookkeeping on
// value before calling newEntry; newEntry only lays out memory.
func newEntry[V any](k Key, value V) *entry[V] {
	blob := make([]byte, 0, leb128Len(uint64(k.codeLen))+len(k.data)+1)
	blob = appendLEB128(blob, uint64(k.codeLen))
	blob = append(blob, k.data...)
	blob = append(blob, 0)

	e := &entry[V]{
		blob:   blob,
		value:  value,
		kind:   k.kind,
		origin: k.origin,
	}
	if k.native != nil {
		e.cachedKey = k.native
	}
	return e
}

// keyBytes decodes the entry's LEB128 header and returns the code-unit
// count and the raw key bytes that follow it (excluding the trailing null).
func (e *entry[V]) keyBytes() (codeLen int, data []byte) {
	n, width := takeLEB128(e.blob)
	start := width
	end := start + int(n)*e.kind.CodeUnitSize()
	return int(n), e.blob[start:end]
}

// matches reports whether e holds the key described by view. The identity
// fast path mirrors the original's pointer-equality shortcut against a
// cached host key object: if view and e were built from the same backing
// array and describe the same number of code units, there is no need to
// compare bytes at all. Only Text, Text2 and Text4 views ever carry a
// non-nil origin — Bytes keys are always backed by a mutable []byte, so
// Bytes leaves origin nil and always falls through to the bytewise
// comparison below.
//
// The length check alongside the pointer comparison matters because Go
// string slicing shares the backing array of the original string for any
// substring starting at offset 0: s[:5] has the same data pointer as s
// itself. Comparing origin alone would report a match between an entry for
// a short prefix and a lookup for the longer string it was sliced from, even
// though their contents differ.
func (e *entry[V]) matches(view Key) bool {
	if view.origin != nil && view.origin == e.origin && view.codeLen == e.codeLen() {
		return true
	}
	if e.kind != view.kind {
		return false
	}
	n, data := e.keyBytes()
	if n != view.codeLen {
		return false
	}
	return bytes.Equal(data, view.data)
}

// codeLen returns the entry's code-unit count without decoding its key
// bytes, by reading only the LEB128 header.
func (e *entry[V]) codeLen() int {
	n, _ := takeLEB128(e.blob)
	return int(n)
}

// keyObject returns the entry's cached native key object, materializing one
// from the inline bytes if none is cached yet. Per the occupied-entry
// invariant, an entry only reaches this fallback when it is a Bytes entry:
// Text/Text2/Text4 entries always arrive from newEntry with a native object
// already cached.
func (e *entry[V]) keyObject() any {
	if e.cachedKey != nil {
		return e.cachedKey
	}
	_, data := e.keyBytes()
	obj := append([]byte(nil), data...)
	e.cachedKey = obj
	return obj
}

// key reconstructs a Key describing this entry, suitable for re-lookup or
// for handing back to a caller from Keys/Items/PopAny. It goes through
// keyObject so that an uncached Bytes entry's native object is materialized
// and cached once rather than re-copied on every call.
func (e *entry[V]) key() Key {
	n, data := e.keyBytes()
	return Key{kind: e.kind, data: data, codeLen: n, origin: e.origin, native: e.keyObject()}
}

// exchangeValue installs newValue and returns the value that was previously
// stored. Retain/Release bookkeeping for the two values is the caller's
// responsibility, exactly as entry.exchange_value delegates it in the
// original design.
func (e *entry[V]) exchangeValue(newValue V) V {
	old := e.value
	e.value = newValue
	return old
}

// writeRepr writes "key: value" to w, formatting the key according to its
// kind and using valueFmt to format the value. Returns any write error unchanged so callers can
// propagate it.
func (e *entry[V]) writeRepr(w *bytes.Buffer, valueFmt func(V) string) error {
	n, data := e.keyBytes()
	var keyRepr string
	switch e.kind {
	case KindBytes:
		keyRepr = fmt.Sprintf("b%q", string(data))
	case KindText1:
		keyRepr = fmt.Sprintf("%q", string(data))
	case KindText2:
		keyRepr = fmt.Sprintf("text2%v", decodeUint16s(data, n))
	case KindText4:
		keyRepr = fmt.Sprintf("text4%v", decodeUint32s(data, n))
	default:
		keyRepr = fmt.Sprintf("<invalid kind %d>", e.kind)
	}
	_, err := fmt.Fprintf(w, "%s: %s", keyRepr, valueFmt(e.value))
	return err
}

// decodeUint16s reinterprets data as n uint16 code units in host byte order,
// the layout Text2 stores them in.
func decodeUint16s(data []byte, n int) []uint16 {
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*uint16)(unsafe.Pointer(&data[0])), n)
}

// decodeUint32s reinterprets data as n uint32 code units in host byte order,
// the layout Text4 stores them in.
func decodeUint32s(data []byte, n int) []uint32 {
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*uint32)(unsafe.Pointer(&data[0])), n)
}
