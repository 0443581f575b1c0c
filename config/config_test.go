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

package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dirpx.dev/membername/apis"
	"dirpx.dev/membername/config"
)

func TestDefaultConfig(t *testing.T) {
	got := config.DefaultConfig()
	assert.Equal(t, apis.Config{
		Scope:          apis.ScopeDefault,
		MaxDeref:       4,
		SourceFallback: true,
	}, got)
	assert.Equal(t, got, config.NewConfig(), "no options")
	assert.Equal(t, got, config.NewConfig(nil), "nil option is skipped")
}

func TestNewConfig_Options(t *testing.T) {
	def := config.DefaultConfig()
	with := func(f func(*apis.Config)) apis.Config {
		c := def
		f(&c)
		return c
	}

	cases := []struct {
		name string
		opts []config.Option
		want apis.Config
	}{
		{
			name: "scope",
			opts: []config.Option{config.WithScope(apis.ScopeExported | apis.ScopePointer)},
			want: with(func(c *apis.Config) { c.Scope = apis.ScopeExported | apis.ScopePointer }),
		},
		{
			name: "zero scope",
			opts: []config.Option{config.WithScope(0)},
			want: def,
		},
		{
			name: "max deref",
			opts: []config.Option{config.WithMaxDeref(3)},
			want: with(func(c *apis.Config) { c.MaxDeref = 3 }),
		},
		{
			name: "zero max deref is kept",
			opts: []config.Option{config.WithMaxDeref(0)},
			want: with(func(c *apis.Config) { c.MaxDeref = 0 }),
		},
		{
			name: "negative max deref",
			opts: []config.Option{config.WithMaxDeref(-1)},
			want: def,
		},
		{
			name: "source fallback off",
			opts: []config.Option{config.WithSourceFallback(false)},
			want: with(func(c *apis.Config) { c.SourceFallback = false }),
		},
		{
			name: "last option wins",
			opts: []config.Option{
				config.WithSourceFallback(false),
				config.WithSourceFallback(true),
				config.WithMaxDeref(2),
				config.WithMaxDeref(5),
				config.WithScope(apis.ScopeAll),
				config.WithScope(apis.ScopeExported | apis.ScopeValue),
			},
			want: apis.Config{Scope: apis.ScopeExported | apis.ScopeValue, MaxDeref: 5, SourceFallback: true},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, config.NewConfig(tc.opts...))
		})
	}
}
