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

package apis

import (
	"strconv"
)

// Site identifies where a func selector literal is written.
type Site struct {
	// Pkg is the import path of the package the literal belongs to
	// (external test packages carry their "_test" suffix).
	Pkg string
	// File is the base name of the source file.
	File string
	// Line is the line the literal's func keyword is on.
	Line int
}

// String returns "pkg/file.go:line".
func (s Site) String() string {
	return s.Pkg + "/" + s.File + ":" + strconv.Itoa(s.Line)
}

// Registry maps selector sites to member names computed ahead of time,
// typically by generated code.
// Keep it minimal so implementations can be lock-free or sync.Map-backed.
type Registry interface {
	// Register associates a site with a member name.
	// Implementations should be idempotent; conflicting re-registrations fail.
	Register(s Site, name string) error
	// Lookup returns the name registered for a site if present.
	Lookup(s Site) (name string, ok bool)
	// Entries returns a snapshot for diagnostics, ordered by site.
	Entries() []Entry
	// Count returns the number of registered entries.
	Count() int
	// Reset clears all registered entries.
	Reset()
}

// Entry is a single (site, name) association in a Registry snapshot.
type Entry struct {
	// Site is the registered site.
	Site Site
	// Name is the associated member name.
	Name string
}
