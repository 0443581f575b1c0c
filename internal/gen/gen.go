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

// Package gen finds selector literals in Go packages, resolves them with
// type information and renders init functions that register their names
// by site.
package gen

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/ast/inspector"
	"golang.org/x/tools/go/packages"

	"dirpx.dev/membername/apis"
	"dirpx.dev/membername/builder"
	"dirpx.dev/membername/config"
	"dirpx.dev/membername/expr"
)

// RootPkg is the import path of the package generated code registers with.
const RootPkg = "dirpx.dev/membername"

// DefaultOutput is the name of the generated file in each directory.
const DefaultOutput = "membername_gen.go"

var (
	// ErrLoad is returned when packages fail to load or type-check.
	ErrLoad = errors.New("membername(gen): package load failed")
	// ErrNoPackages is returned when the patterns match nothing.
	ErrNoPackages = errors.New("membername(gen): no packages matched")
)

// Target names a function whose first argument is a selector.
type Target struct {
	Pkg  string `yaml:"pkg"`
	Name string `yaml:"name"`
}

// DefaultTargets are the selector helpers of the root package.
var DefaultTargets = []Target{
	{Pkg: RootPkg, Name: "NameOf"},
	{Pkg: RootPkg, Name: "NameOfAction"},
	{Pkg: RootPkg, Name: "FieldOf"},
	{Pkg: RootPkg, Name: "PropertyOf"},
	{Pkg: RootPkg, Name: "MethodOf"},
	{Pkg: RootPkg, Name: "Func"},
}

// Config controls a generator run.
type Config struct {
	// Dir is the directory packages are loaded from.
	Dir string `yaml:"dir"`
	// Patterns are go/packages patterns; "./..." if empty.
	Patterns []string `yaml:"patterns"`
	// Tests includes test files.
	Tests bool `yaml:"tests"`
	// Output is the generated file name; DefaultOutput if empty.
	Output string `yaml:"output"`
	// Targets are the selector helpers to look for; DefaultTargets if empty.
	Targets []Target `yaml:"targets"`
	// Concurrency bounds parallel package scans; GOMAXPROCS if <= 0.
	Concurrency int `yaml:"concurrency"`
}

// Entry is one resolved selector.
type Entry struct {
	Site       apis.Site
	Name       string
	Expression *expr.Expression
}

// Diagnostic is a selector that could not be resolved.
type Diagnostic struct {
	Position token.Position
	Err      error
}

// String formats d as file:line:col: message.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %v", d.Position, d.Err)
}

// File is the generated registration file of one directory.
type File struct {
	// Path is where the file is written.
	Path string
	// Package is the package clause of the file.
	Package string
	// Entries are sorted by site.
	Entries []Entry
}

// Result is the outcome of a scan.
type Result struct {
	Files       []*File
	Diagnostics []Diagnostic
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the generator's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(g *Generator) {
		g.log = l
	}
}

// WithResolver sets the resolver selectors are resolved with.
func WithResolver(res apis.Resolver, cfg apis.Config) Option {
	return func(g *Generator) {
		g.res, g.rcfg = res, cfg
	}
}

// Generator scans packages for selectors.
type Generator struct {
	cfg  Config
	log  zerolog.Logger
	res  apis.Resolver
	rcfg apis.Config
}

// New creates a Generator for cfg.
func New(cfg Config, opts ...Option) *Generator {
	if cfg.Dir == "" {
		cfg.Dir = "."
	}
	if len(cfg.Patterns) == 0 {
		cfg.Patterns = []string{"./..."}
	}
	if cfg.Output == "" {
		cfg.Output = DefaultOutput
	}
	if len(cfg.Targets) == 0 {
		cfg.Targets = DefaultTargets
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = runtime.GOMAXPROCS(0)
	}
	g := &Generator{cfg: cfg, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(g)
	}
	if g.res == nil {
		g.rcfg = config.DefaultConfig()
		g.res = builder.New(builder.WithLogger(g.log)).BuildResolver(g.rcfg, nil, nil)
	}
	return g
}

// Config returns the effective configuration.
func (g *Generator) Config() Config { return g.cfg }

// Run loads and scans the configured packages.
func (g *Generator) Run(ctx context.Context) (*Result, error) {
	pkgs, err := g.Load(ctx)
	if err != nil {
		return nil, err
	}
	return g.Scan(ctx, pkgs)
}

// Load loads the configured packages with syntax and type information.
func (g *Generator) Load(ctx context.Context) ([]*packages.Package, error) {
	cfg := &packages.Config{
		Context: ctx,
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedCompiledGoFiles |
			packages.NeedSyntax |
			packages.NeedTypes |
			packages.NeedTypesInfo,
		Dir:   g.cfg.Dir,
		Tests: g.cfg.Tests,
	}
	pkgs, err := packages.Load(cfg, g.cfg.Patterns...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	if len(pkgs) == 0 {
		return nil, ErrNoPackages
	}
	var errs []error
	packages.Visit(pkgs, nil, func(p *packages.Package) {
		for _, e := range p.Errors {
			errs = append(errs, e)
		}
	})
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrLoad, errors.Join(errs...))
	}
	g.log.Debug().Int("packages", len(pkgs)).Strs("patterns", g.cfg.Patterns).Msg("loaded packages")
	return pkgs, nil
}

// Scan finds and resolves selectors in pkgs concurrently. Packages without
// type information, and RootPkg itself, are skipped.
func (g *Generator) Scan(ctx context.Context, pkgs []*packages.Package) (*Result, error) {
	var (
		mu    sync.Mutex
		found []found
	)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.cfg.Concurrency)
	for _, p := range pkgs {
		if p == nil || p.TypesInfo == nil {
			continue
		}
		// Generated code imports RootPkg, so it cannot register there.
		if p.PkgPath == RootPkg {
			g.log.Debug().Str("pkg", p.PkgPath).Msg("skipped root package")
			continue
		}
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fs := g.scanPackage(p)
			g.log.Debug().Str("pkg", p.PkgPath).Int("selectors", len(fs)).Msg("scanned package")
			mu.Lock()
			found = append(found, fs...)
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return g.collect(found), nil
}

// found is one selector literal found in a package.
type found struct {
	dir   string
	pkg   string
	pos   token.Position
	entry Entry
	err   error
}

func (g *Generator) scanPackage(p *packages.Package) []found {
	var out []found
	sitePkgs := sitePkgs(p)
	insp := inspector.New(p.Syntax)
	insp.Preorder([]ast.Node{(*ast.CallExpr)(nil)}, func(n ast.Node) {
		call := n.(*ast.CallExpr)
		if len(call.Args) == 0 || !g.isTarget(p.TypesInfo, call.Fun) {
			return
		}
		lit, ok := ast.Unparen(call.Args[0]).(*ast.FuncLit)
		if !ok {
			// Method expressions and values resolve from their symbol.
			return
		}
		pos := p.Fset.Position(lit.Pos())
		e := expr.FromFuncLit(p.Fset, lit, p.TypesInfo)
		name, err := g.res.Resolve(e, g.rcfg)
		for _, pkg := range sitePkgs {
			out = append(out, found{
				dir: filepath.Dir(pos.Filename),
				pkg: p.Name,
				pos: pos,
				entry: Entry{
					Site:       apis.Site{Pkg: pkg, File: filepath.Base(pos.Filename), Line: pos.Line},
					Name:       name,
					Expression: e,
				},
				err: err,
			})
		}
	})
	return out
}

// sitePkgs returns the package names closures of p carry at run time. A
// command's symbols are named "main.*" in its binary, but its test binary
// compiles it under the import path.
func sitePkgs(p *packages.Package) []string {
	if p.Name == "main" {
		return []string{"main", p.PkgPath}
	}
	return []string{p.PkgPath}
}

// isTarget reports whether fun refers to one of the configured helpers.
func (g *Generator) isTarget(info *types.Info, fun ast.Expr) bool {
	fun = ast.Unparen(fun)
	switch x := fun.(type) {
	case *ast.IndexExpr:
		fun = x.X
	case *ast.IndexListExpr:
		fun = x.X
	}
	var id *ast.Ident
	switch x := fun.(type) {
	case *ast.Ident:
		id = x
	case *ast.SelectorExpr:
		id = x.Sel
	default:
		return false
	}
	fn, ok := info.Uses[id].(*types.Func)
	if !ok || fn.Pkg() == nil {
		return false
	}
	fn = fn.Origin()
	for _, t := range g.cfg.Targets {
		if fn.Pkg().Path() == t.Pkg && fn.Name() == t.Name {
			return true
		}
	}
	return false
}

// collect merges per-package findings into one file per directory. Test
// variants of a package report the same literals again; equal sites are
// kept once. Two selectors on one line with different names cannot be
// told apart at run time and are reported. Each diagnostic is reported once
// per position.
func (g *Generator) collect(fs []found) *Result {
	res := &Result{}
	files := make(map[string]*File)
	seen := make(map[apis.Site]string)
	reported := make(map[string]bool)
	report := func(pos token.Position, err error) {
		key := pos.String() + "\x00" + err.Error()
		if !reported[key] {
			reported[key] = true
			res.Diagnostics = append(res.Diagnostics, Diagnostic{Position: pos, Err: err})
		}
	}

	sort.Slice(fs, func(i, j int) bool {
		a, b := fs[i].pos, fs[j].pos
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return fs[i].entry.Site.Pkg < fs[j].entry.Site.Pkg
	})

	for _, f := range fs {
		if f.err != nil {
			report(f.pos, f.err)
			continue
		}
		if name, dup := seen[f.entry.Site]; dup {
			if name != f.entry.Name {
				report(f.pos, fmt.Errorf("selectors %q and %q share line %d", name, f.entry.Name, f.pos.Line))
			}
			continue
		}
		seen[f.entry.Site] = f.entry.Name

		file, ok := files[f.dir]
		if !ok {
			file = &File{Path: filepath.Join(f.dir, g.cfg.Output)}
			files[f.dir] = file
			res.Files = append(res.Files, file)
		}
		// Prefer the package clause of the non-test package.
		if file.Package == "" || (isTestPkg(file.Package) && !isTestPkg(f.pkg)) {
			file.Package = f.pkg
		}
		file.Entries = append(file.Entries, f.entry)
	}

	for _, file := range res.Files {
		if isTestPkg(file.Package) {
			file.Path = testPath(file.Path)
		}
	}
	sort.Slice(res.Files, func(i, j int) bool { return res.Files[i].Path < res.Files[j].Path })
	return res
}
