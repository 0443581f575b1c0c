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

// Package members looks up struct fields, getters and methods on a
// statically known type by the name a selector resolves to.
//
// A lookup that finds nothing under the requested scope is reported as a
// nil descriptor and a nil error. Only resolution failures are errors.
package members

import (
	"errors"
	"reflect"

	"dirpx.dev/membername/apis"
	"dirpx.dev/membername/expr"
	uref "dirpx.dev/membername/utils/reflect"
)

var (
	// ErrNilResolver is returned by New when no resolver is given.
	ErrNilResolver = errors.New("membername(members): nil resolver")
)

// Members resolves selectors over T and looks up the members they name.
// Pointer types are normalized to their element type. A Members is
// immutable and safe for concurrent use.
type Members[T any] struct {
	res apis.Resolver
	cfg apis.Config
	typ reflect.Type
}

// New returns a Members for T that resolves names with res under cfg.
func New[T any](res apis.Resolver, cfg apis.Config) (*Members[T], error) {
	if res == nil {
		return nil, ErrNilResolver
	}
	t, err := uref.TypeFor[T](cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Scope == 0 {
		cfg.Scope = apis.ScopeDefault
	}
	return &Members[T]{res: res, cfg: cfg, typ: t}, nil
}

// Type returns the normalized type lookups run against.
func (m *Members[T]) Type() reflect.Type { return m.typ }

// Name resolves e to a member name.
func (m *Members[T]) Name(e *expr.Expression) (string, error) {
	return m.res.Resolve(e, m.cfg)
}

// NameFunc resolves a func selector such as func(u User) any { return u.Email }.
func (m *Members[T]) NameFunc(sel func(T) any) (string, error) {
	return m.res.ResolveFunc(sel, m.cfg)
}

// ActionNameFunc resolves a func selector such as func(u *User) { u.Touch() }.
func (m *Members[T]) ActionNameFunc(sel func(T)) (string, error) {
	return m.res.ResolveFunc(sel, m.cfg)
}

// Field returns the struct field e names, or nil if T has none under scope.
func (m *Members[T]) Field(e *expr.Expression, scope ...apis.Scope) (*Field, error) {
	name, err := m.Name(e)
	if err != nil {
		return nil, err
	}
	return m.FieldByName(name, scope...), nil
}

// FieldFunc is Field for a func selector.
func (m *Members[T]) FieldFunc(sel func(T) any, scope ...apis.Scope) (*Field, error) {
	return FieldOf(m, sel, scope...)
}

// Property returns the getter e names, or nil if T has none under scope.
func (m *Members[T]) Property(e *expr.Expression, scope ...apis.Scope) (*Property, error) {
	name, err := m.Name(e)
	if err != nil {
		return nil, err
	}
	return m.PropertyByName(name, scope...), nil
}

// PropertyFunc is Property for a func selector.
func (m *Members[T]) PropertyFunc(sel func(T) any, scope ...apis.Scope) (*Property, error) {
	return PropertyOf(m, sel, scope...)
}

// Method returns the method e names, or nil if T has none under scope.
func (m *Members[T]) Method(e *expr.Expression, scope ...apis.Scope) (*Method, error) {
	name, err := m.Name(e)
	if err != nil {
		return nil, err
	}
	return m.MethodByName(name, scope...), nil
}

// MethodFunc is Method for an action selector.
func (m *Members[T]) MethodFunc(sel func(T), scope ...apis.Scope) (*Method, error) {
	name, err := m.ActionNameFunc(sel)
	if err != nil {
		return nil, err
	}
	return m.MethodByName(name, scope...), nil
}

// FieldByName looks up a field without resolving a selector.
func (m *Members[T]) FieldByName(name string, scope ...apis.Scope) *Field {
	f, ok := tableFor(m.typ).fields[name]
	if !ok || !f.in(m.scope(scope)) {
		return nil
	}
	return &f
}

// PropertyByName looks up a getter without resolving a selector.
func (m *Members[T]) PropertyByName(name string, scope ...apis.Scope) *Property {
	md, ok := tableFor(m.typ).methods[name]
	if !ok || !md.getter() || !md.in(m.scope(scope)) {
		return nil
	}
	return &Property{Method: md, Result: md.Type.Out(0)}
}

// MethodByName looks up a method without resolving a selector.
func (m *Members[T]) MethodByName(name string, scope ...apis.Scope) *Method {
	md, ok := tableFor(m.typ).methods[name]
	if !ok || !md.in(m.scope(scope)) {
		return nil
	}
	return &md
}

// NameOf resolves a selector with any result type, such as
// func(u User) string { return u.Email }.
func NameOf[T, R any](m *Members[T], sel func(T) R) (string, error) {
	return m.res.ResolveFunc(sel, m.cfg)
}

// FieldOf is FieldFunc for a selector with any result type.
func FieldOf[T, R any](m *Members[T], sel func(T) R, scope ...apis.Scope) (*Field, error) {
	name, err := NameOf(m, sel)
	if err != nil {
		return nil, err
	}
	return m.FieldByName(name, scope...), nil
}

// PropertyOf is PropertyFunc for a selector with any result type.
func PropertyOf[T, R any](m *Members[T], sel func(T) R, scope ...apis.Scope) (*Property, error) {
	name, err := NameOf(m, sel)
	if err != nil {
		return nil, err
	}
	return m.PropertyByName(name, scope...), nil
}

// scope picks the first non-zero scope argument, else the configured one.
func (m *Members[T]) scope(s []apis.Scope) apis.Scope {
	for _, v := range s {
		if v != 0 {
			return v
		}
	}
	return m.cfg.Scope
}
