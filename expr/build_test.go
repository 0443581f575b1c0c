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

package expr_test

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/membername/expr"
)

func TestParse_Shapes(t *testing.T) {
	member := func(name string) expr.Node { return &expr.Member{Recv: "m", Name: name} }
	boxed := func(n expr.Node) expr.Node { return &expr.Convert{Type: "any", Implicit: true, Inner: n} }

	cases := []struct {
		name string
		src  string
		want expr.Node
	}{
		{"boxed field", `func(m Mock) any { return m.BoolField }`, boxed(member("BoolField"))},
		{"typed field", `func(m Mock) string { return m.Name }`, member("Name")},
		{"action call", `func(m *Mock) { m.VoidMethod() }`, &expr.Call{Recv: "m", Name: "VoidMethod"}},
		{"parenthesized call", `func(m Mock) any { return (m.IntMethod()) }`, boxed(&expr.Call{Recv: "m", Name: "IntMethod"})},
		{"call with args", `func(m Mock) string { return m.String1ParamMethod(123) }`, &expr.Call{Recv: "m", Name: "String1ParamMethod", NumArgs: 1}},
		{"constant", `func(m Mock) any { return 1 + 2 }`, boxed(&expr.Other{Text: "1 + 2"})},
		{"two conversions", `func(m Mock) any { return int64(m.IntField) }`, boxed(&expr.Convert{Type: "int64", Inner: member("IntField")})},
		{"explicit any", `func(m Mock) any { return any(m.IntField) }`, &expr.Convert{Type: "any", Inner: member("IntField")}},
		{"type assertion", `func(m Mock) any { return m.V.(int) }`, boxed(&expr.Convert{Type: "int", Inner: member("V")})},
		{"nested selector", `func(m Mock) string { return m.Inner.Name }`, &expr.Member{Recv: "m.Inner", Name: "Name"}},
		{"binary of members", `func(m Mock) any { return m.StringMethod() + m.StringField }`,
			boxed(&expr.Other{Text: "m.StringMethod() + m.StringField"})},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e, err := expr.Parse(tc.src)
			require.NoError(t, err)
			assert.Equal(t, tc.want, e.Body)
			assert.Equal(t, tc.src, e.Source)
		})
	}
}

func TestParse_Signature(t *testing.T) {
	e, err := expr.Parse(`func(m *Mock) (int, error) { return m.Pair() }`)
	require.NoError(t, err)
	assert.Equal(t, "m", e.Param)
	assert.Equal(t, "*Mock", e.ParamType)
	assert.Equal(t, "(int, error)", e.Result)
	assert.False(t, e.IsAction())

	e, err = expr.Parse(`func(m Mock) { m.VoidMethod() }`)
	require.NoError(t, err)
	assert.True(t, e.IsAction())
}

func TestParse_BodyLayouts(t *testing.T) {
	e, err := expr.Parse(`func(m Mock) {}`)
	require.NoError(t, err)
	assert.Nil(t, e.Body)

	e, err = expr.Parse(`func(m Mock) int { x := m.IntField; return x }`)
	require.NoError(t, err)
	require.NotNil(t, e.Body)
	assert.Equal(t, expr.KindOther, e.Body.Kind())
}

func TestParse_Errors(t *testing.T) {
	_, err := expr.Parse(`m.BoolField`)
	assert.ErrorIs(t, err, expr.ErrNotFuncLit)

	_, err = expr.Parse(`func(m Mock any { return m.X }`)
	assert.Error(t, err)
}

const typedSrc = `package sel

type Mock struct {
	BoolField bool
	IntField  int
	Fn        func() int
	Any       any
}

func (Mock) IntMethod() int { return 0 }
func (*Mock) VoidMethod()   {}

type Celsius float64

var selectors = []any{
	func(m Mock) any { return m.BoolField },
	func(m Mock) bool { return m.BoolField },
	func(m Mock) any { return int64(m.IntField) },
	func(m Mock) any { return any(m.IntField) },
	func(m Mock) any { return m.Fn() },
	func(m *Mock) { m.VoidMethod() },
	func(m Mock) any { return m.Any },
	func(m Mock) Celsius { return Celsius(m.IntField) },
}
`

// typedLits type-checks typedSrc and returns its function literals in order.
func typedLits(t *testing.T) (*token.FileSet, *types.Info, []*ast.FuncLit) {
	t.Helper()
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "sel.go", typedSrc, 0)
	require.NoError(t, err)

	info := &types.Info{
		Types:      map[ast.Expr]types.TypeAndValue{},
		Uses:       map[*ast.Ident]types.Object{},
		Defs:       map[*ast.Ident]types.Object{},
		Selections: map[*ast.SelectorExpr]*types.Selection{},
	}
	_, err = (&types.Config{}).Check("example.com/sel", fset, []*ast.File{f}, info)
	require.NoError(t, err)

	var lits []*ast.FuncLit
	ast.Inspect(f, func(n ast.Node) bool {
		if lit, ok := n.(*ast.FuncLit); ok {
			lits = append(lits, lit)
			return false
		}
		return true
	})
	return fset, info, lits
}

func TestFromFuncLit_Typed(t *testing.T) {
	fset, info, lits := typedLits(t)
	require.Len(t, lits, 8)

	member := func(name string) expr.Node { return &expr.Member{Recv: "m", Name: name} }
	boxed := func(n expr.Node) expr.Node { return &expr.Convert{Type: "any", Implicit: true, Inner: n} }

	want := []expr.Node{
		boxed(member("BoolField")),
		member("BoolField"),
		boxed(&expr.Convert{Type: "int64", Inner: member("IntField")}),
		&expr.Convert{Type: "any", Inner: member("IntField")},
		boxed(&expr.Call{Recv: "m", Name: "Fn"}),
		&expr.Call{Recv: "m", Name: "VoidMethod"},
		member("Any"),
		&expr.Convert{Type: "Celsius", Inner: member("IntField")},
	}

	for i, lit := range lits {
		e := expr.FromFuncLit(fset, lit, info)
		assert.Equal(t, want[i], e.Body, "selector %d: %s", i, e.Source)
		assert.Equal(t, "sel.go", e.Position.Filename)
		assert.Equal(t, 16+i, e.Position.Line)
	}
}

func TestFromFuncLit_Nil(t *testing.T) {
	assert.Nil(t, expr.FromFuncLit(nil, nil, nil))
}

func TestNode_String(t *testing.T) {
	assert.Equal(t, "m.X", (&expr.Member{Recv: "m", Name: "X"}).String())
	assert.Equal(t, "m.F()", (&expr.Call{Recv: "m", Name: "F"}).String())
	assert.Equal(t, "m.F(...)", (&expr.Call{Recv: "m", Name: "F", NumArgs: 2}).String())
	assert.Equal(t, "int64(m.X)", (&expr.Convert{Type: "int64", Inner: &expr.Member{Recv: "m", Name: "X"}}).String())
	assert.Equal(t, "m.X", (&expr.Convert{Type: "any", Implicit: true, Inner: &expr.Member{Recv: "m", Name: "X"}}).String())
	assert.Equal(t, "convert", expr.KindConvert.String())
	assert.Equal(t, "<nil>", (*expr.Expression)(nil).String())
}

const paritySrc = `package sel

import "strings"

type Mock struct {
	S   string
	N   int
	Fn  func() int
	Sub struct{ Name string }
}

func (Mock) IntMethod() int     { return 0 }
func (*Mock) VoidMethod()       {}
func (m Mock) Echo(s string) string { return s }

var selectors = []any{
	func(m Mock) any { return strings.ToUpper(m.S) },
	func(m Mock) any { return m.Fn() },
	func(m Mock) int { return m.Fn() },
	func(m Mock) any { return m.IntMethod() },
	func(m *Mock) { m.VoidMethod() },
	func(m Mock) string { return m.Echo(m.S) },
	func(m Mock) any { return m.Sub.Name },
	func(m Mock) any { return int64(m.N) },
	func(m Mock) any { return any(m.N) },
	func(m Mock) string { return string(m.S) },
	func(m Mock) any { return m.S + "x" },
}
`

// The runtime source fallback builds expressions without type information and
// the generator builds them with it; both must agree on every selector shape.
func TestFromFuncLit_MatchesParse(t *testing.T) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "parity.go", paritySrc, 0)
	require.NoError(t, err)
	info := &types.Info{
		Types:      map[ast.Expr]types.TypeAndValue{},
		Uses:       map[*ast.Ident]types.Object{},
		Defs:       map[*ast.Ident]types.Object{},
		Selections: map[*ast.SelectorExpr]*types.Selection{},
	}
	conf := types.Config{Importer: importer.Default()}
	_, err = conf.Check("example.com/sel", fset, []*ast.File{f}, info)
	require.NoError(t, err)

	var lits []*ast.FuncLit
	ast.Inspect(f, func(n ast.Node) bool {
		if lit, ok := n.(*ast.FuncLit); ok {
			lits = append(lits, lit)
			return false
		}
		return true
	})
	require.Len(t, lits, 11)

	for _, lit := range lits {
		typed := expr.FromFuncLit(fset, lit, info)
		parsed, err := expr.Parse(typed.Source)
		require.NoError(t, err)
		assert.Equal(t, parsed.Body, typed.Body, typed.Source)
	}

	qualified := expr.FromFuncLit(fset, lits[0], info)
	assert.Equal(t, &expr.Convert{Type: "any", Implicit: true,
		Inner: &expr.Call{Recv: "strings", Name: "ToUpper", NumArgs: 1}}, qualified.Body)
}
