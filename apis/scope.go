/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package apis

import (
	"strings"
)

// Scope is a binding-scope filter for member lookups. A member matches a
// scope when the scope admits its visibility, its receiver set and (for
// fields) its origin.
type Scope uint16

const (
	// ScopeExported admits exported members.
	ScopeExported Scope = 1 << iota
	// ScopeUnexported admits unexported members. reflect does not expose
	// unexported methods, so this only ever matches fields.
	ScopeUnexported
	// ScopeValue admits fields and value-receiver methods: the members
	// reachable from a T value.
	ScopeValue
	// ScopePointer admits pointer-receiver methods, which are only in the
	// method set of *T.
	ScopePointer
	// ScopeDeclared admits fields declared directly on the type.
	ScopeDeclared
	// ScopePromoted admits fields promoted from embedded structs.
	ScopePromoted
)

const (
	// ScopeDefault admits every exported member.
	ScopeDefault = ScopeExported | ScopeValue | ScopePointer | ScopeDeclared | ScopePromoted
	// ScopeAll admits every member reflect can see.
	ScopeAll = ScopeDefault | ScopeUnexported
)

// Has reports whether s admits any of the bits in f.
func (s Scope) Has(f Scope) bool {
	return s&f != 0
}

var scopeNames = []struct {
	bit  Scope
	name string
}{
	{ScopeExported, "exported"},
	{ScopeUnexported, "unexported"},
	{ScopeValue, "value"},
	{ScopePointer, "pointer"},
	{ScopeDeclared, "declared"},
	{ScopePromoted, "promoted"},
}

// String returns the admitted bits joined by "|", or "none".
func (s Scope) String() string {
	var parts []string
	for _, n := range scopeNames {
		if s.Has(n.bit) {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}
