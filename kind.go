package strdict

// KeyKind distinguishes the four shapes of key a Table can store. The
// numeric value of a Text kind equals its code-unit width in bytes; Bytes is
// the odd one out at width 1 despite its zero value, so CodeUnitSize exists
// rather than relying on the raw value.
type KeyKind uint8

const (
	// KindBytes is an opaque byte string. Lookups compare raw bytes only.
	KindBytes KeyKind = 0
	// KindText1 is text addressed in 1-byte code units (ASCII/UTF-8 Go
	// strings).
	KindText1 KeyKind = 1
	// KindText2 is text addressed in 2-byte code units (e.g. UTF-16).
	KindText2 KeyKind = 2
	// KindText4 is text addressed in 4-byte code units (e.g. UTF-32/runes).
	KindText4 KeyKind = 4
)

// CodeUnitSize returns the width in bytes of one code unit of kind k.
func (k KeyKind) CodeUnitSize() int {
	if k == KindBytes {
		return 1
	}
	return int(k)
}

func (k KeyKind) String() string {
	switch k {
	case KindBytes:
		return "bytes"
	case KindText1:
		return "text1"
	case KindText2:
		return "text2"
	case KindText4:
		return "text4"
	default:
		return "invalid"
	}
}
