package strdict

import "encoding/binary"

// LEB128 is an unsigned little-endian base-128 varint: 7 data bits per byte,
// high bit set on every byte but the last. encoding/binary's Uvarint and
// PutUvarint implement exactly this encoding (see the package doc); no
// third-party varint codec in the retrieval pack does anything but this, so
// reaching past the standard library here would buy nothing.

// appendLEB128 appends the LEB128 encoding of n to dst and returns the
// extended slice.
func appendLEB128(dst []byte, n uint64) []byte {
	var buf [binary.MaxVarintLen64]byte
	w := binary.PutUvarint(buf[:], n)
	return append(dst, buf[:w]...)
}

// leb128Len returns the number of bytes appendLEB128 would use to encode n.
func leb128Len(n uint64) int {
	w := 0
	for {
		w++
		n >>= 7
		if n == 0 {
			return w
		}
	}
}

// takeLEB128 decodes a LEB128 value from the front of b, returning the
// decoded value and the number of bytes consumed. It returns (0, 0) if b
// does not contain a complete, valid encoding.
func takeLEB128(b []byte) (n uint64, width int) {
	n, w := binary.Uvarint(b)
	if w <= 0 {
		return 0, 0
	}
	return n, w
}
