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

package expr

import (
	"bytes"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"go/types"
	"strings"
)

var (
	// ErrNotFuncLit is returned when parsed source is not a function literal.
	ErrNotFuncLit = errors.New("membername(expr): source is not a function literal")
)

// predeclared lists the universe-scope type names.
var predeclared = map[string]bool{
	"any": true, "bool": true, "byte": true, "comparable": true,
	"complex64": true, "complex128": true, "error": true,
	"float32": true, "float64": true,
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"rune": true, "string": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true, "uintptr": true,
}

// Parse parses src as a single Go function literal and builds its Expression
// without type information.
func Parse(src string) (*Expression, error) {
	fset := token.NewFileSet()
	x, err := parser.ParseExprFrom(fset, "", src, 0)
	if err != nil {
		return nil, fmt.Errorf("membername(expr): parse %q: %w", src, err)
	}
	lit, ok := ast.Unparen(x).(*ast.FuncLit)
	if !ok {
		return nil, ErrNotFuncLit
	}
	e := FromFuncLit(fset, lit, nil)
	e.Source = strings.TrimSpace(src)
	e.Position = token.Position{}
	return e, nil
}

// FromFuncLit builds an Expression from lit. info is optional: with it,
// conversions and interface boxing are detected from type information,
// without it from syntax alone.
func FromFuncLit(fset *token.FileSet, lit *ast.FuncLit, info *types.Info) *Expression {
	if lit == nil {
		return nil
	}
	b := classifier{info: info}
	e := &Expression{Source: sourceText(fset, lit)}
	if fset != nil {
		e.Position = fset.Position(lit.Pos())
	}

	if ps := lit.Type.Params; ps != nil && len(ps.List) > 0 {
		f := ps.List[0]
		if len(f.Names) > 0 {
			e.Param = f.Names[0].Name
		}
		e.ParamType = types.ExprString(f.Type)
	}

	var result ast.Expr
	if rs := lit.Type.Results; rs != nil && rs.NumFields() > 0 {
		e.Result = fieldListText(rs)
		if rs.NumFields() == 1 {
			result = rs.List[0].Type
		}
	}

	body, ok := bodyExpr(lit.Body)
	switch {
	case !ok:
		e.Body = &Other{Text: sourceText(fset, lit.Body)}
	case body == nil:
		// No statements: Body stays nil.
	default:
		n := b.classify(body)
		if result != nil && b.boxes(result, body) {
			n = &Convert{Type: e.Result, Implicit: true, Inner: n}
		}
		e.Body = n
	}
	return e
}

// bodyExpr extracts the single expression a selector body consists of.
// It returns (nil, true) for an empty body and (nil, false) when the body
// has any other statement layout.
func bodyExpr(block *ast.BlockStmt) (ast.Expr, bool) {
	if block == nil || len(block.List) == 0 {
		return nil, true
	}
	if len(block.List) != 1 {
		return nil, false
	}
	switch s := block.List[0].(type) {
	case *ast.ReturnStmt:
		if len(s.Results) == 1 {
			return s.Results[0], true
		}
	case *ast.ExprStmt:
		return s.X, true
	}
	return nil, false
}

// classifier maps ast expressions to Nodes.
type classifier struct {
	info *types.Info
}

// classify reduces x to a Node. Parentheses are not nodes.
func (b classifier) classify(x ast.Expr) Node {
	x = ast.Unparen(x)
	switch n := x.(type) {
	case *ast.SelectorExpr:
		return &Member{Recv: types.ExprString(n.X), Name: n.Sel.Name}

	case *ast.CallExpr:
		if b.isConversion(n) {
			return &Convert{Type: types.ExprString(n.Fun), Inner: b.classify(n.Args[0])}
		}
		// Any call through a selector names its callee: methods, qualified
		// functions (strings.ToUpper) and func-typed fields alike.
		if sel, ok := ast.Unparen(n.Fun).(*ast.SelectorExpr); ok {
			return &Call{Recv: types.ExprString(sel.X), Name: sel.Sel.Name, NumArgs: len(n.Args)}
		}

	case *ast.TypeAssertExpr:
		if n.Type != nil {
			return &Convert{Type: types.ExprString(n.Type), Inner: b.classify(n.X)}
		}
	}
	return &Other{Text: types.ExprString(x)}
}

// isConversion reports whether call is a conversion T(x).
func (b classifier) isConversion(call *ast.CallExpr) bool {
	if len(call.Args) != 1 || call.Ellipsis.IsValid() {
		return false
	}
	if b.info != nil {
		if tv, ok := b.info.Types[call.Fun]; ok {
			return tv.IsType()
		}
	}
	return isTypeSyntax(ast.Unparen(call.Fun))
}

// boxes reports whether returning body from a func with the given result type
// performs an implicit interface conversion.
func (b classifier) boxes(result, body ast.Expr) bool {
	if b.info != nil {
		rt, bt := b.info.TypeOf(result), b.info.TypeOf(body)
		if rt != nil && bt != nil {
			return types.IsInterface(rt) && !types.Identical(rt, bt)
		}
	}
	if !isInterfaceSyntax(result) {
		return false
	}
	if call, ok := ast.Unparen(body).(*ast.CallExpr); ok && b.isConversion(call) {
		return !isInterfaceSyntax(ast.Unparen(call.Fun))
	}
	return true
}

// isTypeSyntax reports whether x can only denote a type.
func isTypeSyntax(x ast.Expr) bool {
	switch t := x.(type) {
	case *ast.ArrayType, *ast.MapType, *ast.ChanType, *ast.FuncType,
		*ast.InterfaceType, *ast.StructType, *ast.StarExpr:
		return true
	case *ast.Ident:
		//nolint:staticcheck // file-local resolution is all we have without go/types
		if t.Obj != nil {
			return t.Obj.Kind == ast.Typ
		}
		return predeclared[t.Name]
	case *ast.IndexExpr:
		return isTypeSyntax(t.X)
	case *ast.IndexListExpr:
		return isTypeSyntax(t.X)
	}
	return false
}

// isInterfaceSyntax reports whether x spells an empty or literal interface.
func isInterfaceSyntax(x ast.Expr) bool {
	switch t := x.(type) {
	case *ast.InterfaceType:
		return true
	case *ast.Ident:
		//nolint:staticcheck
		return t.Name == "any" && t.Obj == nil
	}
	return false
}

// fieldListText renders a result list: "int" or "(int, error)".
func fieldListText(fl *ast.FieldList) string {
	var parts []string
	for _, f := range fl.List {
		t := types.ExprString(f.Type)
		n := len(f.Names)
		if n == 0 {
			n = 1
		}
		for i := 0; i < n; i++ {
			parts = append(parts, t)
		}
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// sourceText prints node for diagnostics.
func sourceText(fset *token.FileSet, node ast.Node) string {
	if fset == nil {
		fset = token.NewFileSet()
	}
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, fset, node); err != nil {
		if x, ok := node.(ast.Expr); ok {
			return types.ExprString(x)
		}
		return ""
	}
	return buf.String()
}
