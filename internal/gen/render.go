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

package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"strings"
	"text/template"
)

var fileTmpl = template.Must(template.New("file").Parse(`// Code generated by membergen. DO NOT EDIT.

package {{.Package}}

import "{{.Root}}"

func init() {
{{- range .Entries}}
	membername.MustRegister({{printf "%q" .Site.Pkg}}, {{printf "%q" .Site.File}}, {{.Site.Line}}, {{printf "%q" .Name}})
{{- end}}
}
`))

// Render returns the formatted source of f.
func Render(f *File) ([]byte, error) {
	var buf bytes.Buffer
	err := fileTmpl.Execute(&buf, struct {
		*File
		Root string
	}{f, RootPkg})
	if err != nil {
		return nil, fmt.Errorf("membername(gen): render %s: %w", f.Path, err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("membername(gen): format %s: %w", f.Path, err)
	}
	return src, nil
}

// Write renders every file of res and writes those whose content changed.
// It returns the paths written.
func (g *Generator) Write(res *Result) ([]string, error) {
	var written []string
	for _, f := range res.Files {
		src, err := Render(f)
		if err != nil {
			return written, err
		}
		if old, err := os.ReadFile(f.Path); err == nil && bytes.Equal(old, src) {
			g.log.Debug().Str("path", f.Path).Msg("unchanged")
			continue
		}
		if err := os.WriteFile(f.Path, src, 0o644); err != nil {
			return written, fmt.Errorf("membername(gen): write %s: %w", f.Path, err)
		}
		g.log.Debug().Str("path", f.Path).Int("entries", len(f.Entries)).Msg("written")
		written = append(written, f.Path)
	}
	return written, nil
}

// Check returns the paths of files in res that are missing or differ from
// what Write would produce.
func (g *Generator) Check(res *Result) ([]string, error) {
	var stale []string
	for _, f := range res.Files {
		src, err := Render(f)
		if err != nil {
			return nil, err
		}
		old, err := os.ReadFile(f.Path)
		if err != nil || !bytes.Equal(old, src) {
			stale = append(stale, f.Path)
		}
	}
	return stale, nil
}

func isTestPkg(name string) bool {
	return strings.HasSuffix(name, "_test")
}

// testPath turns x.go into x_test.go.
func testPath(path string) string {
	return strings.TrimSuffix(path, ".go") + "_test.go"
}
