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

import "reflect"

// Equal reports whether t and other hold the same set of keys, each mapped
// to an equal value. Key order does not matter. Values are compared with
// the Table's valueEqual option if one was supplied via WithValueEqual,
// else with V's Equatable implementation if it has one, else with
// reflect.DeepEqual.
func (t *Table[V]) Equal(other *Table[V]) (bool, error) {
	if t.occupied != other.occupied {
		return false, nil
	}
	for _, e := range t.entries {
		if e == nil {
			continue
		}
		_, oe := other.findExisting(e.key())
		if oe == nil {
			return false, nil
		}
		if !t.valuesEqual(e.value, oe.value) {
			return false, nil
		}
	}
	return true, nil
}

// EqualMap reports whether t holds exactly the keys of m, mapped to string
// keys via Text, each with an equal value.
func (t *Table[V]) EqualMap(m map[string]V) (bool, error) {
	if t.occupied != len(m) {
		return false, nil
	}
	for s, v := range m {
		_, e := t.findExisting(Text(s))
		if e == nil {
			return false, nil
		}
		if !t.valuesEqual(e.value, v) {
			return false, nil
		}
	}
	return true, nil
}

// valuesEqual compares a and b using, in priority order: the Table's
// configured valueEqual, V's Equatable implementation, or reflect.DeepEqual.
func (t *Table[V]) valuesEqual(a, b V) bool {
	if t.valueEqual != nil {
		return t.valueEqual(a, b)
	}
	if eq, ok := any(a).(Equatable[V]); ok {
		return eq.Equal(b)
	}
	return reflect.DeepEqual(a, b)
}

// Copy returns a new Table holding the same keys and values as t, in the
// same insertion order, with values Retained as they would be by
// individually Setting each one.
func (t *Table[V]) Copy() *Table[V] {
	out := New[V](WithCapacity[V](t.occupied))
	out.seed = t.seed
	out.valueEqual = t.valueEqual
	for _, e := range t.entries {
		if e != nil {
			out.set(e.key(), e.value)
		}
	}
	return out
}
