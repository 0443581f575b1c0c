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

// Package config builds apis.Config values from functional options.
package config

import (
	"dirpx.dev/membername/apis"
)

const (
	// DefaultScope matches every exported field, getter and method, declared
	// or promoted, in both receiver sets.
	DefaultScope = apis.ScopeDefault
	// DefaultMaxDeref is how many pointer levels a lookup target may carry.
	DefaultMaxDeref = 4
	// DefaultSourceFallback lets unregistered func selectors be parsed from
	// their source file.
	DefaultSourceFallback = true
)

// Option mutates a Config under construction.
type Option func(*apis.Config)

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() apis.Config {
	return apis.Config{
		Scope:          DefaultScope,
		MaxDeref:       DefaultMaxDeref,
		SourceFallback: DefaultSourceFallback,
	}
}

// NewConfig applies opts over DefaultConfig in order, so later options win.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return sanitize(cfg)
}

// sanitize replaces out-of-range knobs with their defaults.
func sanitize(cfg apis.Config) apis.Config {
	if cfg.Scope == 0 {
		cfg.Scope = DefaultScope
	}
	if cfg.MaxDeref < 0 {
		cfg.MaxDeref = DefaultMaxDeref
	}
	return cfg
}

// WithScope sets the lookup scope used when callers pass none.
// Zero means DefaultScope.
func WithScope(s apis.Scope) Option {
	return func(c *apis.Config) { c.Scope = s }
}

// WithMaxDeref limits pointer stripping on lookup targets.
// Negative means DefaultMaxDeref. Zero is kept, and lookups treat it as
// DefaultMaxDeref too.
func WithMaxDeref(n int) Option {
	return func(c *apis.Config) { c.MaxDeref = n }
}

// WithSourceFallback toggles parsing source files for unregistered
// func selectors.
func WithSourceFallback(enabled bool) Option {
	return func(c *apis.Config) { c.SourceFallback = enabled }
}
