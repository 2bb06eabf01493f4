package strdict

import "errors"

// ErrKeyNotFound is returned by Pop when the requested key is absent and no
// default was supplied. Get and Remove report an absent key through their
// bool result instead.
var ErrKeyNotFound = errors.New("strdict: key not found")

// ErrInvalidKey is returned when a value passed as a key is not a string,
// []byte, Key, or ByteViewer.
var ErrInvalidKey = errors.New("strdict: key is not representable as bytes or text")

// ErrOverflow is returned by Reserve when the requested capacity would
// require more probe slots than fit in the offsets index type.
var ErrOverflow = errors.New("strdict: requested capacity overflows the offsets index")

// ErrInvalidUpdateSource is returned by Update when given a source whose
// shape is not one of *Table[V], map[string]V, or []Item[V].
var ErrInvalidUpdateSource = errors.New("strdict: update source is not a table, map, or item slice")
