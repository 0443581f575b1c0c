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

package resolver

import (
	"errors"
	"fmt"

	"dirpx.dev/membername/apis"
	"dirpx.dev/membername/expr"
)

var (
	// ErrNoSource is returned by ResolveFunc when the resolver has no apis.Source.
	ErrNoSource = errors.New("membername(resolver): no selector source configured")
)

// New constructs an apis.Resolver that tries the given strategies in order.
// Nil strategies are ignored. reg and src serve func selectors and may be nil;
// a nil reg skips registry lookups, a nil src disables ResolveFunc.
// The returned resolver is safe for concurrent use provided its parts are.
func New(reg apis.Registry, src apis.Source, strategies ...apis.Strategy) apis.Resolver {
	// Filter out nils to avoid nil-interface panics on call sites.
	out := make([]apis.Strategy, 0, len(strategies))
	for _, s := range strategies {
		if s != nil {
			out = append(out, s)
		}
	}
	return &chain{reg: reg, src: src, strats: out}
}

// chain is an immutable, order-preserving resolver over a set of strategies.
type chain struct {
	reg    apis.Registry
	src    apis.Source
	strats []apis.Strategy
}

// Resolve runs strategies in order until one handles the body of e.
// A body no strategy handles, or one that yields an empty name, is an
// *apis.InvalidTargetMemberError carrying e itself.
func (r *chain) Resolve(e *expr.Expression, cfg apis.Config) (string, error) {
	if e == nil {
		return "", apis.ErrNilExpression
	}
	if e.Body == nil {
		return "", apis.NewInvalidTargetMember(e)
	}
	for _, s := range r.strats {
		if name, ok := s.TryResolve(e.Body, cfg); ok {
			if name == "" {
				break
			}
			return name, nil
		}
	}
	return "", apis.NewInvalidTargetMember(e)
}

// ResolveFunc resolves a func selector. Closures are looked up in the
// registry by site first and rebuilt from source only when
// cfg.SourceFallback allows it. Method expressions and method values
// resolve from their symbol.
func (r *chain) ResolveFunc(fn any, cfg apis.Config) (string, error) {
	if fn == nil {
		return "", apis.ErrNilSelector
	}
	if r.src == nil {
		return "", ErrNoSource
	}
	ref, err := r.src.Locate(fn)
	if err != nil {
		return "", err
	}

	if ref.Kind == apis.RefClosure {
		if r.reg != nil {
			if name, ok := r.reg.Lookup(ref.Site); ok {
				return name, nil
			}
		}
		if !cfg.SourceFallback {
			return "", fmt.Errorf("%w: %s", apis.ErrSiteNotRegistered, ref.Site)
		}
	}

	e, err := r.src.Expression(ref)
	if err != nil {
		return "", err
	}
	return r.Resolve(e, cfg)
}
