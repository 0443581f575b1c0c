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

// Package source locates func selectors at runtime and rebuilds their
// expressions from the Go source they were compiled from.
//
// A func literal's symbol carries its package, and its entry PC maps to the
// file and line of its func keyword. That site is enough to find the literal
// again in the parsed file. Files are parsed once per Locator; concurrent
// first requests for the same file share one parse.
package source

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"path/filepath"
	"reflect"
	"regexp"
	"runtime"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"dirpx.dev/membername/apis"
	"dirpx.dev/membername/expr"
)

var (
	// ErrNotFunc is returned when a selector is not a func value.
	ErrNotFunc = errors.New("membername(source): selector is not a func")
	// ErrUnknownSymbol is returned when the runtime has no symbol for a func.
	ErrUnknownSymbol = errors.New("membername(source): no runtime symbol for selector")
	// ErrSourceUnavailable is returned when a selector's file cannot be read or parsed.
	ErrSourceUnavailable = errors.New("membername(source): source file unavailable")
	// ErrNoLiteral is returned when no matching literal starts at a site.
	ErrNoLiteral = errors.New("membername(source): no function literal at site")
	// ErrAmbiguousSite is returned when several matching literals start at a site.
	ErrAmbiguousSite = errors.New("membername(source): more than one function literal at site")
)

// closureRe matches compiler-generated closure symbols: F.func1, F.func1.2, glob..func3.
var closureRe = regexp.MustCompile(`\.func\d+(\.\d+)*$`)

// Option configures a Locator.
type Option func(*Locator)

// WithLogger sets the logger used for debug output.
func WithLogger(l zerolog.Logger) Option {
	return func(loc *Locator) {
		loc.log = l
	}
}

// Locator implements apis.Source. It is safe for concurrent use.
type Locator struct {
	log   zerolog.Logger
	files sync.Map // map[string]*file
	group singleflight.Group
}

// Ensure Locator implements apis.Source.
var _ apis.Source = (*Locator)(nil)

// file is a parsed source file with its literals indexed by starting line.
type file struct {
	fset *token.FileSet
	lits map[int][]*ast.FuncLit
}

// New creates a Locator with an empty file cache.
func New(opts ...Option) *Locator {
	l := &Locator{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Locate classifies fn from its runtime symbol.
func (l *Locator) Locate(fn any) (apis.Ref, error) {
	if fn == nil {
		return apis.Ref{}, apis.ErrNilSelector
	}
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return apis.Ref{}, fmt.Errorf("%w: %T", ErrNotFunc, fn)
	}
	if v.IsNil() {
		return apis.Ref{}, apis.ErrNilSelector
	}

	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return apis.Ref{}, ErrUnknownSymbol
	}
	path, line := f.FileLine(f.Entry())
	sym := f.Name()
	pkg, rest := SplitSymbol(sym)

	ref := apis.Ref{
		Symbol: sym,
		Path:   path,
		Type:   v.Type(),
		Site:   apis.Site{Pkg: pkg, File: filepath.Base(path), Line: line},
	}
	switch {
	case closureRe.MatchString(rest):
		ref.Kind = apis.RefClosure
	case strings.Contains(rest, "."):
		ref.Kind = apis.RefMethod
	default:
		ref.Kind = apis.RefFunc
	}
	return ref, nil
}

// Expression builds the expression for ref. Method references become a
// call of the method; plain functions become an unrecognized body; closures
// are rebuilt from source.
func (l *Locator) Expression(ref apis.Ref) (*expr.Expression, error) {
	switch ref.Kind {
	case apis.RefMethod:
		_, rest := SplitSymbol(ref.Symbol)
		recv, name := SplitMethod(rest)
		return &expr.Expression{
			Body:   &expr.Call{Recv: recv, Name: name},
			Source: ref.Symbol,
		}, nil
	case apis.RefFunc:
		return &expr.Expression{
			Body:   &expr.Other{Text: ref.Symbol},
			Source: ref.Symbol,
		}, nil
	}

	f, err := l.file(ref.Path)
	if err != nil {
		return nil, err
	}

	var match []*ast.FuncLit
	for _, lit := range f.lits[ref.Site.Line] {
		if sameShape(lit, ref.Type) {
			match = append(match, lit)
		}
	}
	switch len(match) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNoLiteral, ref.Site)
	case 1:
		return expr.FromFuncLit(f.fset, match[0], nil), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousSite, ref.Site)
	}
}

// Reset drops every cached file, e.g. after sources changed on disk.
func (l *Locator) Reset() {
	l.files.Clear()
}

// file returns the parsed file at path, parsing it at most once.
func (l *Locator) file(path string) (*file, error) {
	if v, ok := l.files.Load(path); ok {
		return v.(*file), nil
	}
	v, err, shared := l.group.Do(path, func() (any, error) {
		if v, ok := l.files.Load(path); ok {
			return v, nil
		}
		fset := token.NewFileSet()
		af, err := parser.ParseFile(fset, path, nil, 0)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
		}
		f := index(fset, af)
		l.files.Store(path, f)
		l.log.Debug().Str("path", path).Int("lines", len(f.lits)).Msg("indexed selector source")
		return f, nil
	})
	if err != nil {
		l.log.Debug().Err(err).Str("path", path).Msg("selector source unavailable")
		return nil, err
	}
	if shared {
		l.log.Debug().Str("path", path).Msg("shared selector source parse")
	}
	return v.(*file), nil
}

// index collects every function literal in af by the line its func keyword is on.
func index(fset *token.FileSet, af *ast.File) *file {
	f := &file{fset: fset, lits: make(map[int][]*ast.FuncLit)}
	ast.Inspect(af, func(n ast.Node) bool {
		if lit, ok := n.(*ast.FuncLit); ok {
			line := fset.Position(lit.Pos()).Line
			f.lits[line] = append(f.lits[line], lit)
		}
		return true
	})
	return f
}

// sameShape reports whether lit has as many parameters and results as t.
// A nil t matches any literal.
func sameShape(lit *ast.FuncLit, t reflect.Type) bool {
	if t == nil {
		return true
	}
	return countFields(lit.Type.Params) == t.NumIn() &&
		countFields(lit.Type.Results) == t.NumOut()
}

func countFields(fl *ast.FieldList) int {
	if fl == nil {
		return 0
	}
	return fl.NumFields()
}

// SplitSymbol splits a runtime symbol into its import path and the rest:
// "example.com/app.(*User).Email-fm" -> ("example.com/app", "(*User).Email-fm").
func SplitSymbol(sym string) (pkg, rest string) {
	slash := strings.LastIndexByte(sym, '/')
	dot := strings.IndexByte(sym[slash+1:], '.')
	if dot < 0 {
		return sym, ""
	}
	pkg = sym[:slash+1+dot]
	rest = sym[slash+1+dot+1:]
	// The runtime escapes dots in the last path element.
	return strings.ReplaceAll(pkg, "%2e", "."), rest
}

// SplitMethod splits "(*User).Email-fm" into ("(*User)", "Email").
func SplitMethod(rest string) (recv, name string) {
	rest = strings.TrimSuffix(rest, "-fm")
	i := strings.LastIndexByte(rest, '.')
	if i < 0 {
		return "", rest
	}
	return rest[:i], rest[i+1:]
}
