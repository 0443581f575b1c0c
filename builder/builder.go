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

package builder

import (
	"github.com/rs/zerolog"

	"dirpx.dev/membername/apis"
	"dirpx.dev/membername/registry"
	"dirpx.dev/membername/resolver"
	"dirpx.dev/membername/source"
	"dirpx.dev/membername/strategy"
)

// Option configures a builder.
type Option func(*builder)

// WithSource sets the selector source shared by every resolver the builder
// produces. By default a source.Locator is created.
func WithSource(src apis.Source) Option {
	return func(b *builder) {
		b.src = src
	}
}

// WithLogger sets the logger of the default source.Locator.
func WithLogger(l zerolog.Logger) Option {
	return func(b *builder) {
		b.log = l
	}
}

// New creates and returns a new instance of an apis.Builder.
func New(opts ...Option) apis.Builder {
	b := &builder{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(b)
	}
	if b.src == nil {
		b.src = source.New(source.WithLogger(b.log))
	}
	return b
}

// builder holds the selector source so parsed files survive resolver rebuilds.
type builder struct {
	log zerolog.Logger
	src apis.Source
}

// BuildRegistry builds and returns a new apis.Registry based on the provided configuration
// and pre-existing registry. If a pre-existing registry is provided, its entries are copied
// into the new registry.
func (b *builder) BuildRegistry(_ apis.Config, preg apis.Registry) apis.Registry {
	nreg := registry.New()
	if preg != nil {
		for _, e := range preg.Entries() {
			_ = nreg.Register(e.Site, e.Name)
		}
	}
	return nreg
}

// BuildResolver builds and returns a new apis.Resolver over reg. Bodies are
// tried as one unwrapped member or call first, then as a member or call.
func (b *builder) BuildResolver(_ apis.Config, reg apis.Registry, _ apis.Resolver) apis.Resolver {
	member, call := strategy.NewMemberStrategy(), strategy.NewCallStrategy()
	return resolver.New(
		reg,
		b.src,
		strategy.NewUnwrapStrategy(member, call),
		member,
		call,
	)
}
