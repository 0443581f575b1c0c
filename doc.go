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

// Package membername turns compile-checked member references into member
// names.
//
// A selector is a small function literal that touches one member of its
// parameter:
//
//	name, err := membername.NameOf(func(u User) any { return u.Email })      // "Email"
//	name, err := membername.NameOfAction(func(u *User) { u.Touch() })        // "Touch"
//	name, err := membername.Func((*User).Touch)                              // "Touch"
//
// Renaming the member breaks the build instead of silently leaving a stale
// string behind, which is what change notifications, validation messages
// and column mappings want.
//
// # Resolution
//
// A selector's body is reduced to one of four shapes (see package expr): a
// member access, a method call, a conversion wrapped around one operand, or
// anything else. The resolver returns the name of a direct member access or
// method call, and of one directly wrapped in a single conversion (such as
// the implicit boxing to any in the first example above). Every other body,
// for example
//
//	func(u User) any { return u.First + u.Last }
//
// fails with an *apis.InvalidTargetMemberError that carries the whole
// selector, never one of its operands. errors.Is(err,
// apis.ErrInvalidTargetMember) matches it.
//
// # Where selectors come from
//
// A func value does not carry its syntax, so func selectors are found by
// site: the package, file and line the literal was compiled from.
//
//   - Sites registered by generated code (cmd/membergen writes init
//     functions calling MustRegister) resolve with a map lookup.
//   - Otherwise, when Config.SourceFallback is set, the source file at the
//     site is parsed once and the literal is rebuilt from it.
//   - Method expressions and method values resolve from their runtime symbol.
//
// Expressions built elsewhere (expr.Parse, expr.FromFuncLit) resolve with Of.
//
// # Member lookups
//
// For[T], FieldOf, PropertyOf and MethodOf pair a resolved name with a
// reflect lookup on T. A member that does not exist under the requested
// apis.Scope is reported as a nil descriptor, not an error.
//
// # Global state
//
// The package holds a read-mostly snapshot of Config, Registry, Resolver
// and Builder behind an atomic pointer. The first snapshot is built on
// first use. Reads are lock-free; writers (SetConfig, SetBuilder,
// SetRegistry, SetResolver, SetAll) take a short build lock, derive a new
// snapshot and publish it.
//
// SetRegistry and SetResolver pin the layer they set: later SetConfig or
// SetBuilder calls rebuild only unpinned layers. UnpinRegistry and
// UnpinResolver undo that. Rebuilt registries keep the entries of the
// registry they replace; a registry passed to SetRegistry starts with
// whatever it holds.
//
// Callers that prefer their own instance build one directly:
//
//	b := builder.New()
//	cfg := config.NewConfig(config.WithSourceFallback(false))
//	res := b.BuildResolver(cfg, b.BuildRegistry(cfg, nil), nil)
package membername
