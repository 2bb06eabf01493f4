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
	"math/rand"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

// toBuiltinMap returns t's entries as a map[string]V, for comparison against
// a reference implementation in tests.
func (t *Table[V]) toBuiltinMap() map[string]V {
	r := make(map[string]V)
	for _, it := range t.Items() {
		s, _ := it.Key.native.(string)
		r[s] = it.Value
	}
	return r
}

func TestTableBasic(t *testing.T) {
	const count = 100

	tbl := New[int]()
	e := make(map[string]int)
	require.EqualValues(t, 0, tbl.Len())

	for i := 0; i < count; i++ {
		k := strconv.Itoa(i)
		_, ok, err := tbl.Get(k)
		require.NoError(t, err)
		require.False(t, ok)
	}

	for i := 0; i < count; i++ {
		k := strconv.Itoa(i)
		require.NoError(t, tbl.Set(k, i+count))
		e[k] = i + count
		v, ok, err := tbl.Get(k)
		require.NoError(t, err)
		require.True(t, ok)
		require.EqualValues(t, i+count, v)
		require.EqualValues(t, i+1, tbl.Len())
		require.Equal(t, e, tbl.toBuiltinMap())
	}

	for i := 0; i < count; i++ {
		k := strconv.Itoa(i)
		require.NoError(t, tbl.Set(k, i+2*count))
		e[k] = i + 2*count
		v, ok, err := tbl.Get(k)
		require.NoError(t, err)
		require.True(t, ok)
		require.EqualValues(t, i+2*count, v)
		require.EqualValues(t, count, tbl.Len())
	}

	for i := 0; i < count; i++ {
		k := strconv.Itoa(i)
		_, ok, err := tbl.Remove(k)
		require.NoError(t, err)
		require.True(t, ok)
		delete(e, k)
		require.EqualValues(t, count-i-1, tbl.Len())
		_, ok, err = tbl.Get(k)
		require.NoError(t, err)
		require.False(t, ok)
		require.Equal(t, e, tbl.toBuiltinMap())
	}
}

func TestTableRandom(t *testing.T) {
	tbl := New[int]()
	e := make(map[string]int)

	randKey := func() (string, bool) {
		for k := range e {
			return k, true
		}
		return "", false
	}

	for i := 0; i < 10000; i++ {
		switch r := rand.Float64(); {
		case r < 0.5: // inserts
			k, v := strconv.Itoa(rand.Intn(5000)), rand.Int()
			require.NoError(t, tbl.Set(k, v))
			e[k] = v
		case r < 0.65: // updates
			if k, ok := randKey(); ok {
				v := rand.Int()
				require.NoError(t, tbl.Set(k, v))
				e[k] = v
			}
		case r < 0.80: // deletes
			if k, ok := randKey(); ok {
				_, _, err := tbl.Remove(k)
				require.NoError(t, err)
				delete(e, k)
			}
		default: // lookups
			if k, ok := randKey(); ok {
				v, found, err := tbl.Get(k)
				require.NoError(t, err)
				require.True(t, found)
				require.Equal(t, e[k], v)
			}
		}
		require.EqualValues(t, len(e), tbl.Len())
	}
	require.Equal(t, e, tbl.toBuiltinMap())
}

func TestTableInsertionOrder(t *testing.T) {
	tbl := New[int]()
	want := []string{"z", "a", "m", "b"}
	for i, k := range want {
		require.NoError(t, tbl.Set(k, i))
	}
	var got []string
	for _, k := range tbl.Keys() {
		s, _ := k.native.(string)
		got = append(got, s)
	}
	require.Equal(t, want, got)

	// Overwriting an existing key does not move it.
	require.NoError(t, tbl.Set("a", 99))
	got = nil
	for _, k := range tbl.Keys() {
		s, _ := k.native.(string)
		got = append(got, s)
	}
	require.Equal(t, want, got)
}

func TestTableTombstoneReuse(t *testing.T) {
	tbl := New[int]()
	require.NoError(t, tbl.Set("a", 1))
	require.NoError(t, tbl.Set("b", 2))
	before := len(tbl.entries)

	_, ok, err := tbl.Remove("a")
	require.NoError(t, err)
	require.True(t, ok)

	// Re-inserting "a" walks the same probe sequence, which passes over the
	// tombstone "a" left behind before it reaches any free offsets slot.
	require.NoError(t, tbl.Set("a", 3))
	require.Equal(t, before, len(tbl.entries), "inserting after a delete should reuse the tombstone slot on the key's probe sequence")
}

func TestTableSetDefault(t *testing.T) {
	tbl := New[int]()
	v, err := tbl.SetDefault("a", 7)
	require.NoError(t, err)
	require.Equal(t, 7, v)

	v, err = tbl.SetDefault("a", 99)
	require.NoError(t, err)
	require.Equal(t, 7, v, "SetDefault must not overwrite an existing value")
}

func TestTablePop(t *testing.T) {
	tbl := New[int]()
	require.NoError(t, tbl.Set("a", 1))

	v, err := tbl.Pop("a")
	require.NoError(t, err)
	require.Equal(t, 1, v)

	_, err = tbl.Pop("a")
	require.ErrorIs(t, err, ErrKeyNotFound)

	v, err = tbl.Pop("a", 42)
	require.NoError(t, err)
	require.Equal(t, 42, v)
}

func TestTablePopAny(t *testing.T) {
	tbl := New[int]()
	_, _, ok := tbl.PopAny()
	require.False(t, ok)

	require.NoError(t, tbl.Set("a", 1))
	require.NoError(t, tbl.Set("b", 2))

	k, v, ok := tbl.PopAny()
	require.True(t, ok)
	require.Equal(t, "a", k.native)
	require.Equal(t, 1, v)
	require.Equal(t, 1, tbl.Len())
}

func TestTableClear(t *testing.T) {
	tbl := New[int]()
	for i := 0; i < 50; i++ {
		require.NoError(t, tbl.Set(strconv.Itoa(i), i))
	}
	tbl.Clear()
	require.EqualValues(t, 0, tbl.Len())
	_, ok, err := tbl.Get("0")
	require.NoError(t, err)
	require.False(t, ok)

	// The table remains usable after Clear.
	require.NoError(t, tbl.Set("x", 1))
	v, ok, err := tbl.Get("x")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, v)
}

func TestTableReserve(t *testing.T) {
	tbl := New[int]()
	require.NoError(t, tbl.Reserve(1000))
	before := len(tbl.offsets)
	for i := 0; i < 600; i++ {
		require.NoError(t, tbl.Set(strconv.Itoa(i), i))
	}
	require.Equal(t, before, len(tbl.offsets), "inserting within the reserved capacity must not rehash")
}

func TestTableReserveOverflow(t *testing.T) {
	tbl := New[int]()
	err := tbl.Reserve(1 << 61)
	require.ErrorIs(t, err, ErrOverflow)

	err = tbl.Reserve(-1)
	require.ErrorIs(t, err, ErrOverflow)
}

func TestTableLoadFactorInvariant(t *testing.T) {
	tbl := New[int]()
	for i := 0; i < 2000; i++ {
		require.NoError(t, tbl.Set(strconv.Itoa(i), i))
		require.Less(t, loadFactorDen*tbl.occupied, loadFactorNum*len(tbl.offsets))
	}
}

func TestTableKeyKinds(t *testing.T) {
	tbl := New[string]()
	require.NoError(t, tbl.Set(Bytes([]byte("raw")), "bytes-value"))
	require.NoError(t, tbl.Set(Text("raw"), "text-value"))
	require.NoError(t, tbl.Set(Text2([]uint16{'r', 'a', 'w'}), "text2-value"))
	require.NoError(t, tbl.Set(Text4([]uint32{'r', 'a', 'w'}), "text4-value"))
	require.EqualValues(t, 4, tbl.Len())

	v, ok, err := tbl.Get(Bytes([]byte("raw")))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "bytes-value", v)

	v, ok, err = tbl.Get("raw")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "text-value", v)
}

func TestTableEmptyKeys(t *testing.T) {
	tbl := New[int]()
	require.NoError(t, tbl.Set("", 1))
	require.NoError(t, tbl.Set(Bytes(nil), 2))
	require.NoError(t, tbl.Set(Text2(nil), 3))
	require.EqualValues(t, 3, tbl.Len())

	v, ok, err := tbl.Get("")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, v)
}

func TestTableInvalidKey(t *testing.T) {
	tbl := New[int]()
	err := tbl.Set(42, 1)
	require.ErrorIs(t, err, ErrInvalidKey)
}

func TestTableEqual(t *testing.T) {
	a := New[int]()
	b := New[int]()
	require.NoError(t, a.Set("x", 1))
	require.NoError(t, a.Set("y", 2))
	require.NoError(t, b.Set("y", 2))
	require.NoError(t, b.Set("x", 1))

	eq, err := a.Equal(b)
	require.NoError(t, err)
	require.True(t, eq, "key order must not affect equality")

	require.NoError(t, b.Set("x", 99))
	eq, err = a.Equal(b)
	require.NoError(t, err)
	require.False(t, eq)
}

func TestTableEqualMap(t *testing.T) {
	a := New[int]()
	require.NoError(t, a.Set("x", 1))
	require.NoError(t, a.Set("y", 2))

	eq, err := a.EqualMap(map[string]int{"x": 1, "y": 2})
	require.NoError(t, err)
	require.True(t, eq)

	eq, err = a.EqualMap(map[string]int{"x": 1})
	require.NoError(t, err)
	require.False(t, eq)
}

func TestTableCopy(t *testing.T) {
	a := New[int]()
	require.NoError(t, a.Set("x", 1))
	require.NoError(t, a.Set("y", 2))

	b := a.Copy()
	require.NoError(t, a.Set("z", 3))

	require.EqualValues(t, 2, b.Len())
	eq, err := a.Equal(b)
	require.NoError(t, err)
	require.False(t, eq)
}

func TestTableUpdate(t *testing.T) {
	a := New[int]()
	require.NoError(t, a.Set("x", 1))

	require.NoError(t, a.Update(map[string]int{"y": 2}))
	require.NoError(t, a.Update([]Item[int]{{Key: Text("z"), Value: 3}}))

	b := New[int]()
	require.NoError(t, b.Set("w", 4))
	require.NoError(t, a.Update(b))

	require.EqualValues(t, 4, a.Len())
	require.ErrorIs(t, a.Update(42), ErrInvalidUpdateSource)
}

func TestTableString(t *testing.T) {
	tbl := New[int]()
	require.Equal(t, "strdict({})", tbl.String())

	require.NoError(t, tbl.Set("a", 1))
	require.Equal(t, fmt.Sprintf(`strdict({%q: 1})`, "a"), tbl.String())
}

func TestTableSizeOf(t *testing.T) {
	tbl := New[int]()
	empty := tbl.SizeOf()
	require.NoError(t, tbl.Set("hello", 1))
	require.Greater(t, uint64(tbl.SizeOf()), uint64(empty))
}
