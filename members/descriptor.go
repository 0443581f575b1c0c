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

package members

import (
	"reflect"
	"runtime"
	"sync"

	"dirpx.dev/membername/apis"
)

// Field describes a struct field.
type Field struct {
	reflect.StructField
	// Promoted is true for fields reached through an embedded struct.
	Promoted bool
}

func (f Field) in(s apis.Scope) bool {
	vis, origin := apis.ScopeExported, apis.ScopeDeclared
	if !f.IsExported() {
		vis = apis.ScopeUnexported
	}
	if f.Promoted {
		origin = apis.ScopePromoted
	}
	return s.Has(vis) && s.Has(apis.ScopeValue) && s.Has(origin)
}

// Method describes a method. For interface types Method.Type has no
// receiver parameter; otherwise the receiver is its first parameter.
type Method struct {
	reflect.Method
	// Pointer is true for methods only in the pointer type's method set.
	Pointer bool
	// Promoted is true for methods reached through an embedded field.
	Promoted bool

	iface bool
}

// getter reports whether the method takes no arguments and returns one value.
func (m Method) getter() bool {
	in := 1
	if m.iface {
		in = 0
	}
	return m.Type.NumIn() == in && m.Type.NumOut() == 1
}

// Methods from reflect are always exported.
func (m Method) in(s apis.Scope) bool {
	recv, origin := apis.ScopeValue, apis.ScopeDeclared
	if m.Pointer {
		recv = apis.ScopePointer
	}
	if m.Promoted {
		origin = apis.ScopePromoted
	}
	return s.Has(apis.ScopeExported) && s.Has(recv) && s.Has(origin)
}

// Property describes a getter: a method without arguments and a single result.
type Property struct {
	Method
	// Result is the getter's result type.
	Result reflect.Type
}

// table holds every member of one type by name.
type table struct {
	fields  map[string]Field
	methods map[string]Method
}

// tables memoizes member tables per type.
var tables sync.Map // map[reflect.Type]*table

func tableFor(t reflect.Type) *table {
	if v, ok := tables.Load(t); ok {
		return v.(*table)
	}
	v, _ := tables.LoadOrStore(t, buildTable(t))
	return v.(*table)
}

func buildTable(t reflect.Type) *table {
	tb := &table{
		fields:  make(map[string]Field),
		methods: make(map[string]Method),
	}

	if t.Kind() == reflect.Interface {
		for i := range t.NumMethod() {
			m := t.Method(i)
			tb.methods[m.Name] = Method{Method: m, iface: true}
		}
		return tb
	}

	var embedded []reflect.Type
	if t.Kind() == reflect.Struct {
		for _, sf := range reflect.VisibleFields(t) {
			if sf.Anonymous {
				embedded = append(embedded, sf.Type)
			}
			tb.fields[sf.Name] = Field{StructField: sf, Promoted: len(sf.Index) > 1}
		}
	}

	for i := range t.NumMethod() {
		m := t.Method(i)
		tb.methods[m.Name] = Method{Method: m, Promoted: promoted(m, embedded)}
	}
	pt := reflect.PointerTo(t)
	for i := range pt.NumMethod() {
		m := pt.Method(i)
		if _, ok := tb.methods[m.Name]; ok {
			continue
		}
		tb.methods[m.Name] = Method{Method: m, Pointer: true, Promoted: promoted(m, embedded)}
	}
	return tb
}

// promoted reports whether m comes from an embedded field. A method an
// embedded type also has is promoted unless the outer type declares it,
// which shows in m.Func being compiled code rather than a generated wrapper.
func promoted(m reflect.Method, embedded []reflect.Type) bool {
	found := false
	for _, e := range embedded {
		if hasMethod(e, m.Name) {
			found = true
			break
		}
	}
	if !found {
		return false
	}
	f := runtime.FuncForPC(m.Func.Pointer())
	if f == nil {
		return true
	}
	file, _ := f.FileLine(f.Entry())
	return file == "<autogenerated>"
}

func hasMethod(t reflect.Type, name string) bool {
	if _, ok := t.MethodByName(name); ok {
		return true
	}
	if t.Kind() != reflect.Pointer && t.Kind() != reflect.Interface {
		_, ok := reflect.PointerTo(t).MethodByName(name)
		return ok
	}
	return false
}
