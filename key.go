package strdict

import "unsafe"

// ByteViewer is implemented by types that can lend their bytes to a Table
// without the Table knowing their concrete type, the Go analogue of the
// original "any object exposing a contiguous-bytes borrow" key contract.
// A type implementing ByteViewer is treated as a Bytes key.
type ByteViewer interface {
	Bytes() []byte
}

// Key is a normalized, immutable description of a candidate key: which of
// the four KeyKinds it is, its raw code units, and (when available) an
// identity pointer and an already-materialized native Go object that an
// entry can cache instead of re-decoding its inline bytes later.
//
// Key values are cheap to build and are typically constructed implicitly by
// passing a string or []byte to a Table method; Bytes, Text, Text2 and
// Text4 exist for callers who need to be explicit about which kind they
// mean, or who have text in a non-UTF-8 code-unit width.
type Key struct {
	kind    KeyKind
	data    []byte
	codeLen int
	origin  unsafe.Pointer
	native  any
}

// Kind reports which of the four KeyKinds k is.
func (k Key) Kind() KeyKind { return k.kind }

// Bytes builds an opaque byte-string key. The returned Key borrows b; the
// Table copies b's contents into its own storage on insertion, so b may be
// reused by the caller immediately afterward. origin is always left nil: a
// Go []byte is always mutable (there is no immutable-bytes-object
// counterpart the way there is for a Go string), so the identity fast path
// in entry.matches must never fire for it — a caller that reuses the same
// backing array for two different keys (e.g. a scratch parse buffer) must
// always fall through to a real bytewise comparison. Bytes keys also never
// populate Key.native, matching the entry invariant that a Bytes entry's
// cached_key may be absent.
func Bytes(b []byte) Key {
	return Key{kind: KindBytes, data: b, codeLen: len(b)}
}

// Text builds a text key addressed in 1-byte (UTF-8/ASCII) code units from a
// Go string. Go strings are immutable, so the string itself is safe to cache
// as the entry's materialized key object with no copy.
func Text(s string) Key {
	var origin unsafe.Pointer
	if len(s) > 0 {
		origin = unsafe.Pointer(unsafe.StringData(s))
	}
	return Key{kind: KindText1, data: unsafe.Slice((*byte)(origin), len(s)), codeLen: len(s), origin: origin, native: s}
}

// Text2 builds a text key addressed in 2-byte code units, e.g. UTF-16. The
// code units are copied, since a caller-owned []uint16 is not guaranteed
// immutable the way a Go string is.
func Text2(units []uint16) Key {
	cp := make([]uint16, len(units))
	copy(cp, units)
	data := unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(cp))), len(cp)*2)
	var origin unsafe.Pointer
	if len(cp) > 0 {
		origin = unsafe.Pointer(unsafe.SliceData(cp))
	}
	return Key{kind: KindText2, data: data, codeLen: len(cp), origin: origin, native: cp}
}

// Text4 builds a text key addressed in 4-byte code units, e.g. UTF-32 or
// decoded runes. The code units are copied for the same reason as Text2.
func Text4(units []uint32) Key {
	cp := make([]uint32, len(units))
	copy(cp, units)
	data := unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(cp))), len(cp)*4)
	var origin unsafe.Pointer
	if len(cp) > 0 {
		origin = unsafe.Pointer(unsafe.SliceData(cp))
	}
	return Key{kind: KindText4, data: data, codeLen: len(cp), origin: origin, native: cp}
}

// keyFromAny normalizes a user-supplied key argument into a Key, rejecting
// anything that isn't a Key, string, []byte, or ByteViewer.
func keyFromAny(x any) (Key, error) {
	switch v := x.(type) {
	case Key:
		return v, nil
	case string:
		return Text(v), nil
	case []byte:
		return Bytes(v), nil
	case ByteViewer:
		return Bytes(v.Bytes()), nil
	default:
		return Key{}, ErrInvalidKey
	}
}
