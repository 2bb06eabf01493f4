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

// Update merges source into t, overwriting any key already present exactly
// as a sequence of individual Sets would. source must be one of *Table[V],
// map[string]V, or []Item[V]; anything else returns ErrInvalidUpdateSource.
//
// The Python original also accepts an update(**kwargs) keyword-argument
// form; Go has no equivalent calling convention, so that shape is dropped
// rather than translated (see the Design Notes).
func (t *Table[V]) Update(source any) error {
	switch src := source.(type) {
	case *Table[V]:
		for _, e := range src.entries {
			if e != nil {
				t.set(e.key(), e.value)
			}
		}
		return nil
	case map[string]V:
		for k, v := range src {
			t.set(Text(k), v)
		}
		return nil
	case []Item[V]:
		for _, it := range src {
			t.set(it.Key, it.Value)
		}
		return nil
	default:
		return ErrInvalidUpdateSource
	}
}
