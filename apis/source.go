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
	"reflect"

	"dirpx.dev/membername/expr"
)

// RefKind classifies a func selector by what the runtime knows about it.
type RefKind uint8

const (
	// RefFunc is a plain package-level function.
	RefFunc RefKind = iota
	// RefClosure is a function literal.
	RefClosure
	// RefMethod is a method expression or method value.
	RefMethod
)

// Ref describes a func selector located at runtime.
type Ref struct {
	// Kind is the selector's kind.
	Kind RefKind
	// Site is where the selector is written.
	Site Site
	// Symbol is the runtime symbol name, e.g. "example.com/app.TestX.func1".
	Symbol string
	// Path is the absolute source path recorded by the compiler.
	Path string
	// Type is the selector's func type.
	Type reflect.Type
}

// Source turns func selectors into expressions.
type Source interface {
	// Locate inspects fn without touching source files.
	Locate(fn any) (Ref, error)
	// Expression builds the selector expression for ref.
	Expression(ref Ref) (*expr.Expression, error)
}
