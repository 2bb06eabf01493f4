package strdict

// Retainable and Releasable are optional hooks a value type V can implement
// to participate in the reference-counted handle discipline the original
// design assumes of its host's Value handles. Ordinary Go values need not
// implement either — Retain/Release are no-ops for them, since Go's
// garbage collector already manages their lifetime.
//
// Table calls Retain when a value is newly stored (on Set, Copy, and
// Update) and Release when a value is overwritten, removed, or dropped by
// Clear — mirroring Entry::new's "incremented references" and
// Entry::~Entry's "decrementing reference counts".
type Retainable interface {
	Retain()
}

// Releasable is the Retainable counterpart invoked when a stored value
// stops being referenced by the Table.
type Releasable interface {
	Release()
}

// Equatable lets a value type override the default reflect.DeepEqual used
// by Table.Equal and Table.EqualMap, mirroring the host's overridable value
// equality.
type Equatable[V any] interface {
	Equal(other V) bool
}

func retainValue(v any) {
	if r, ok := v.(Retainable); ok {
		r.Retain()
	}
}

func releaseValue(v any) {
	if r, ok := v.(Releasable); ok {
		r.Release()
	}
}
