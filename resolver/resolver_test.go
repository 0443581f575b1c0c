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

package resolver_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/membername/apis"
	"dirpx.dev/membername/config"
	"dirpx.dev/membername/expr"
	"dirpx.dev/membername/registry"
	"dirpx.dev/membername/resolver"
	"dirpx.dev/membername/source"
	"dirpx.dev/membername/strategy"
)

type Mock struct {
	BoolField   bool
	StringField string
}

func (m Mock) BoolProperty() bool { return m.BoolField }

func (m Mock) StringMethod() string { return m.StringField }

func (m Mock) String1ParamMethod(v any) string { return m.StringField }

func (m *Mock) VoidMethod() {}

func newChain(reg apis.Registry) apis.Resolver {
	member, call := strategy.NewMemberStrategy(), strategy.NewCallStrategy()
	return resolver.New(reg, source.New(), strategy.NewUnwrapStrategy(member, call), member, call)
}

func mustParse(t *testing.T, src string) *expr.Expression {
	t.Helper()
	e, err := expr.Parse(src)
	require.NoError(t, err)
	return e
}

func TestResolve_Names(t *testing.T) {
	r := newChain(nil)
	cfg := config.DefaultConfig()

	cases := []struct {
		src  string
		want string
	}{
		{`func(m Mock) any { return m.BoolField }`, "BoolField"},
		{`func(m Mock) bool { return m.BoolField }`, "BoolField"},
		{`func(m Mock) any { return m.BoolProperty() }`, "BoolProperty"},
		{`func(m *Mock) { m.VoidMethod() }`, "VoidMethod"},
		{`func(m Mock) string { return m.String1ParamMethod(123) }`, "String1ParamMethod"},
		{`func(m Mock) any { return any(m.StringField) }`, "StringField"},
		{`func(m Mock) any { return (m.StringMethod()) }`, "StringMethod"},
	}
	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			name, err := r.Resolve(mustParse(t, tc.src), cfg)
			require.NoError(t, err)
			assert.Equal(t, tc.want, name)
		})
	}
}

func TestResolve_Invalid(t *testing.T) {
	r := newChain(nil)
	cfg := config.DefaultConfig()

	cases := []string{
		`func(m Mock) any { return m.String1ParamMethod(123) + m.StringField }`,
		`func(m Mock) any { return 1 + 2 }`,
		`func(m Mock) any { return int64(len(m.StringField)) }`,
		`func(m Mock) any { return string(m.StringField) }`,
		`func(m Mock) {}`,
		`func(m Mock) int { n := len(m.StringField); return n }`,
	}
	for _, src := range cases {
		t.Run(src, func(t *testing.T) {
			e := mustParse(t, src)
			_, err := r.Resolve(e, cfg)
			require.ErrorIs(t, err, apis.ErrInvalidTargetMember)

			var ite *apis.InvalidTargetMemberError
			require.True(t, errors.As(err, &ite))
			assert.Same(t, e, ite.Expression)
			assert.Contains(t, err.Error(), src)
		})
	}
}

func TestResolve_NilExpression(t *testing.T) {
	_, err := newChain(nil).Resolve(nil, config.DefaultConfig())
	assert.ErrorIs(t, err, apis.ErrNilExpression)
	assert.NotErrorIs(t, err, apis.ErrInvalidTargetMember)
}

func TestResolve_NoStrategies(t *testing.T) {
	r := resolver.New(nil, nil, nil, nil)
	_, err := r.Resolve(mustParse(t, `func(m Mock) bool { return m.BoolField }`), config.DefaultConfig())
	assert.ErrorIs(t, err, apis.ErrInvalidTargetMember)
}

type emptyName struct{}

func (emptyName) TryResolve(expr.Node, apis.Config) (string, bool) { return "", true }

func TestResolve_EmptyNameIsInvalid(t *testing.T) {
	r := resolver.New(nil, nil, emptyName{})
	_, err := r.Resolve(mustParse(t, `func(m Mock) bool { return m.BoolField }`), config.DefaultConfig())
	assert.ErrorIs(t, err, apis.ErrInvalidTargetMember)
}

func TestResolveFunc_Source(t *testing.T) {
	r := newChain(registry.New())
	cfg := config.DefaultConfig()

	name, err := r.ResolveFunc(func(m Mock) any { return m.BoolField }, cfg)
	require.NoError(t, err)
	assert.Equal(t, "BoolField", name)

	name, err = r.ResolveFunc(func(m *Mock) { m.VoidMethod() }, cfg)
	require.NoError(t, err)
	assert.Equal(t, "VoidMethod", name)

	_, err = r.ResolveFunc(func(m Mock) any { return m.String1ParamMethod(123) + m.StringField }, cfg)
	assert.ErrorIs(t, err, apis.ErrInvalidTargetMember)
}

func TestResolveFunc_MethodRefs(t *testing.T) {
	r := newChain(nil)
	cfg := config.NewConfig(config.WithSourceFallback(false))
	m := &Mock{}

	name, err := r.ResolveFunc((*Mock).VoidMethod, cfg)
	require.NoError(t, err)
	assert.Equal(t, "VoidMethod", name)

	name, err = r.ResolveFunc(m.StringMethod, cfg)
	require.NoError(t, err)
	assert.Equal(t, "StringMethod", name)
}

func TestResolveFunc_PlainFuncIsInvalid(t *testing.T) {
	_, err := newChain(nil).ResolveFunc(mustParse, config.DefaultConfig())
	assert.ErrorIs(t, err, apis.ErrInvalidTargetMember)
}

func TestResolveFunc_RegistryFirst(t *testing.T) {
	reg := registry.New()
	r := newChain(reg)
	loc := source.New()

	sel := func(m Mock) any { return m.BoolField }
	ref, err := loc.Locate(sel)
	require.NoError(t, err)
	require.NoError(t, reg.Register(ref.Site, "Registered"))

	name, err := r.ResolveFunc(sel, config.NewConfig(config.WithSourceFallback(false)))
	require.NoError(t, err)
	assert.Equal(t, "Registered", name)
}

func TestResolveFunc_NoFallback(t *testing.T) {
	r := newChain(registry.New())
	cfg := config.NewConfig(config.WithSourceFallback(false))

	_, err := r.ResolveFunc(func(m Mock) any { return m.StringField }, cfg)
	assert.ErrorIs(t, err, apis.ErrSiteNotRegistered)
}

func TestResolveFunc_Errors(t *testing.T) {
	cfg := config.DefaultConfig()

	_, err := newChain(nil).ResolveFunc(nil, cfg)
	assert.ErrorIs(t, err, apis.ErrNilSelector)

	_, err = resolver.New(nil, nil).ResolveFunc(func() {}, cfg)
	assert.ErrorIs(t, err, resolver.ErrNoSource)

	_, err = newChain(nil).ResolveFunc("BoolField", cfg)
	assert.ErrorIs(t, err, source.ErrNotFunc)
}
