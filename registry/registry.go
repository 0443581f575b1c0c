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

package registry

import (
	"cmp"
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"
	"sync"

	"dirpx.dev/membername/apis"
)

var (
	// ErrInvalidSite is returned when a site has no package, file or line.
	ErrInvalidSite = errors.New("membername(registry): invalid site")
	// ErrEmptyName is returned when a site is registered without a name.
	ErrEmptyName = errors.New("membername(registry): empty name provided")
	// ErrConflictingRegistration is wrapped when a site is registered under
	// a second name.
	ErrConflictingRegistration = errors.New("membername(registry): conflicting site registration")
)

// New constructs an empty Registry.
func New() apis.Registry {
	return &registry{}
}

// registry keeps sites in a sync.Map so lookups never lock.
type registry struct {
	// mu serializes writers and guards count.
	mu sync.Mutex
	// m maps apis.Site to registered name.
	m sync.Map // map[apis.Site]string
	count int
}

// Normalize reduces s.File to its base name so sites compare equal whether
// they come from generated code or from the runtime's absolute paths.
func Normalize(s apis.Site) apis.Site {
	s.File = path.Base(strings.ReplaceAll(s.File, "\\", "/"))
	return s
}

// Register associates a site with the given name.
// It is idempotent for the same (site,name) pair.
func (r *registry) Register(s apis.Site, name string) error {
	// Validate inputs early.
	if s.Pkg == "" || s.File == "" || s.Line <= 0 {
		return ErrInvalidSite
	}
	if name == "" {
		return ErrEmptyName
	}
	s = Normalize(s)

	// Generated init functions re-register the same sites when a package
	// is linked into several binaries; check without locking first.
	if v, ok := r.m.Load(s); ok {
		return same(s, v.(string), name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another goroutine may have stored s meanwhile.
	if v, ok := r.m.Load(s); ok {
		return same(s, v.(string), name)
	}

	r.m.Store(s, name)
	r.count++
	return nil
}

// Lookup returns the name registered for a site if present.
func (r *registry) Lookup(s apis.Site) (name string, ok bool) {
	if s.Pkg == "" || s.File == "" || s.Line <= 0 {
		return "", false
	}
	if v, ok := r.m.Load(Normalize(s)); ok {
		return v.(string), true
	}
	return "", false
}

// Entries returns a snapshot sorted by package, file and line.
func (r *registry) Entries() []apis.Entry {
	entries := make([]apis.Entry, 0, r.Count())
	r.m.Range(func(key, value any) bool {
		entries = append(entries, apis.Entry{
			Site: key.(apis.Site),
			Name: value.(string),
		})
		return true
	})
	slices.SortFunc(entries, func(a, b apis.Entry) int {
		return cmp.Or(
			cmp.Compare(a.Site.Pkg, b.Site.Pkg),
			cmp.Compare(a.Site.File, b.Site.File),
			cmp.Compare(a.Site.Line, b.Site.Line),
		)
	})
	return entries
}

// Count returns how many sites are registered.
func (r *registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Reset forgets every site.
func (r *registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m.Clear()
	r.count = 0
}

// same reports a conflict when a site is registered under a second name.
func same(s apis.Site, old, name string) error {
	if old == name {
		return nil
	}
	return fmt.Errorf("%w: %s is %q, not %q", ErrConflictingRegistration, s, old, name)
}
