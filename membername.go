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

package membername

import (
	"errors"
	"sync"
	"sync/atomic"

	"dirpx.dev/membername/apis"
	"dirpx.dev/membername/builder"
	"dirpx.dev/membername/config"
	"dirpx.dev/membername/expr"
	"dirpx.dev/membername/members"
)

var (
	// ErrNilRegistry is returned when a builder returns a nil registry.
	ErrNilRegistry = errors.New("membername: builder returned nil registry")
	// ErrNilResolver is returned when a builder returns a nil resolver.
	ErrNilResolver = errors.New("membername: builder returned nil resolver")
)

// Of resolves the member name e refers to using the global resolver.
func Of(e *expr.Expression) (string, error) {
	s := load()
	return s.res.Resolve(e, s.cfg)
}

// Func resolves the member name a func selector refers to using the global
// resolver. fn is a function literal, a method expression or a method value.
func Func(fn any) (string, error) {
	s := load()
	return s.res.ResolveFunc(fn, s.cfg)
}

// NameOf resolves a selector such as func(u User) any { return u.Email }.
// The result type is free: func(u User) string { return u.Email } works too.
func NameOf[T, R any](sel func(T) R) (string, error) {
	return Func(sel)
}

// NameOfAction resolves a selector such as func(u *User) { u.Touch() }.
func NameOfAction[T any](sel func(T)) (string, error) {
	return Func(sel)
}

// For returns member lookups for T bound to the global resolver and
// configuration.
func For[T any]() (*members.Members[T], error) {
	s := load()
	return members.New[T](s.res, s.cfg)
}

// FieldOf returns the field sel refers to, or nil if T has none under scope.
func FieldOf[T, R any](sel func(T) R, scope ...apis.Scope) (*members.Field, error) {
	m, err := For[T]()
	if err != nil {
		return nil, err
	}
	return members.FieldOf(m, sel, scope...)
}

// PropertyOf returns the getter sel refers to, or nil if T has none under scope.
func PropertyOf[T, R any](sel func(T) R, scope ...apis.Scope) (*members.Property, error) {
	m, err := For[T]()
	if err != nil {
		return nil, err
	}
	return members.PropertyOf(m, sel, scope...)
}

// MethodOf returns the method sel calls, or nil if T has none under scope.
func MethodOf[T any](sel func(T), scope ...apis.Scope) (*members.Method, error) {
	m, err := For[T]()
	if err != nil {
		return nil, err
	}
	return m.MethodFunc(sel, scope...)
}

// Register adds a site-name mapping to the global registry.
func Register(site apis.Site, name string) error {
	return load().reg.Register(site, name)
}

// MustRegister is Register for generated code. It panics on error.
func MustRegister(pkg, file string, line int, name string) {
	if err := Register(apis.Site{Pkg: pkg, File: file, Line: line}, name); err != nil {
		panic(err)
	}
}

// Default returns the process-wide resolver, creating it on first use.
func Default() apis.Resolver {
	return load().res
}

// SetAll explicitly sets all global state components.
//
// Nil arguments leave the corresponding component unchanged, except that
// a nil reg or res is rebuilt with the resulting builder and unpinned.
// A non-nil reg or res is pinned.
func SetAll(cfg *apis.Config, reg apis.Registry, res apis.Resolver, bld apis.Builder) {
	update(func(old state) state {
		next := state{cfg: old.cfg, bld: old.bld, reg: reg, res: res}
		if cfg != nil {
			next.cfg = *cfg
		}
		if bld != nil {
			next.bld = bld
		}
		if next.reg == nil {
			next.reg = next.bld.BuildRegistry(next.cfg, old.reg)
		} else {
			next.preg = true
		}
		if next.res == nil {
			next.res = next.bld.BuildResolver(next.cfg, next.reg, old.res)
		} else {
			next.pres = true
		}
		return next
	})
}

// Config returns the global configuration.
func Config() apis.Config {
	return load().cfg
}

// SetConfig sets the global configuration to cfg.
// Unpinned layers are rebuilt with the new configuration.
func SetConfig(cfg apis.Config) {
	update(func(old state) state {
		next := old
		next.cfg = cfg
		return next.rebuild(old)
	})
}

// Registry returns the global registry.
func Registry() apis.Registry {
	return load().reg
}

// SetRegistry sets and pins the global registry.
// An unpinned resolver is rebuilt over the new registry.
func SetRegistry(reg apis.Registry) {
	if reg == nil {
		return
	}
	update(func(old state) state {
		next := old
		next.reg, next.preg = reg, true
		if !next.pres {
			next.res = next.bld.BuildResolver(next.cfg, reg, old.res)
		}
		return next
	})
}

// Resolver returns the global resolver.
func Resolver() apis.Resolver {
	return load().res
}

// SetResolver sets and pins the global resolver.
func SetResolver(res apis.Resolver) {
	if res == nil {
		return
	}
	update(func(old state) state {
		next := old
		next.res, next.pres = res, true
		return next
	})
}

// Builder returns the global builder.
func Builder() apis.Builder {
	return load().bld
}

// SetBuilder sets the global builder and rebuilds unpinned layers with it.
func SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}
	update(func(old state) state {
		next := old
		next.bld = b
		return next.rebuild(old)
	})
}

// IsRegistryPinned returns whether the global registry is pinned.
func IsRegistryPinned() bool {
	return load().preg
}

// PinRegistry stops the global registry from being rebuilt.
func PinRegistry() {
	update(func(old state) state {
		old.preg = true
		return old
	})
}

// UnpinRegistry lets the global registry be rebuilt again.
func UnpinRegistry() {
	update(func(old state) state {
		old.preg = false
		return old
	})
}

// IsResolverPinned returns whether the global resolver is pinned.
func IsResolverPinned() bool {
	return load().pres
}

// PinResolver stops the global resolver from being rebuilt.
func PinResolver() {
	update(func(old state) state {
		old.pres = true
		return old
	})
}

// UnpinResolver lets the global resolver be rebuilt again.
func UnpinResolver() {
	update(func(old state) state {
		old.pres = false
		return old
	})
}

var (
	// initOnce guards creation of the first snapshot.
	initOnce sync.Once
	// buildMu serializes writers so we never publish partially-built snapshots.
	buildMu sync.Mutex
	// st is the global state.
	st atomic.Pointer[state]
)

// state is the global state snapshot.
// Immutable once published via st.Store; writers create a new state and
// swap it atomically.
type state struct {
	// cfg is the global configuration.
	cfg apis.Config
	// reg is the global registry.
	reg apis.Registry
	// res is the global resolver.
	res apis.Resolver
	// bld is the global builder.
	bld apis.Builder
	// preg indicates whether reg is pinned.
	preg bool
	// pres indicates whether res is pinned.
	pres bool
}

// load returns the current snapshot, creating the default one on first use.
func load() *state {
	if s := st.Load(); s != nil {
		return s
	}
	initOnce.Do(func() {
		buildMu.Lock()
		defer buildMu.Unlock()
		if st.Load() != nil {
			return
		}
		s := &state{cfg: config.DefaultConfig(), bld: builder.New()}
		s.reg = s.bld.BuildRegistry(s.cfg, nil)
		s.res = s.bld.BuildResolver(s.cfg, s.reg, nil)
		st.Store(s)
	})
	return st.Load()
}

// update derives a new snapshot from the current one under buildMu and
// publishes it.
func update(fn func(old state) state) {
	load()

	buildMu.Lock()
	defer buildMu.Unlock()

	next := fn(*st.Load())

	// Ensure non-nil reg and res.
	if next.reg == nil {
		panic(ErrNilRegistry)
	}
	if next.res == nil {
		panic(ErrNilResolver)
	}
	st.Store(&next)
}

// rebuild rebuilds the layers of s that are not pinned, migrating from old.
func (s state) rebuild(old state) state {
	if !s.preg {
		s.reg = s.bld.BuildRegistry(s.cfg, old.reg)
	}
	if !s.pres {
		s.res = s.bld.BuildResolver(s.cfg, s.reg, old.res)
	}
	return s
}
