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
	"bytes"
	"fmt"
)

// String renders t as "strdict({key: value, ...})", keys in insertion
// order. A value that is itself (transitively) t is rendered as "{...}"
// rather than recursing forever, mirroring the original repr's cycle guard.
func (t *Table[V]) String() string {
	if t.inRepr {
		return "{...}"
	}
	t.inRepr = true
	defer func() { t.inRepr = false }()

	var buf bytes.Buffer
	buf.WriteString("strdict({")
	first := true
	for _, e := range t.entries {
		if e == nil {
			continue
		}
		if !first {
			buf.WriteString(", ")
		}
		first = false
		if err := e.writeRepr(&buf, formatValue[V]); err != nil {
			return fmt.Sprintf("strdict(<repr error: %v>)", err)
		}
	}
	buf.WriteString("})")
	return buf.String()
}

// formatValue renders a stored value for String, preferring fmt.Stringer
// when V implements it and falling back to %v otherwise.
func formatValue[V any](v V) string {
	if s, ok := any(v).(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", v)
}
