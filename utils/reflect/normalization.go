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

package reflect

import (
	"errors"
	"reflect"

	"dirpx.dev/membername/apis"
	"dirpx.dev/membername/config"
)

var (
	// ErrReflectNilType is returned when a nil reflect.Type is provided.
	ErrReflectNilType = errors.New("membername(reflect): nil reflect.Type provided")
	// ErrReflectTooDeep indicates that the provided type is still a pointer
	// after MaxDeref levels were stripped.
	ErrReflectTooDeep = errors.New("membername(reflect): pointer depth exceeds MaxDeref")
)

// Normalize strips pointer levels from t and returns the type whose members
// a selector refers to, along with the number of levels stripped.
//
// Only pointers are unwrapped: a selector on []T or map[K]V does not reach
// the members of T. If MaxDeref <= 0, DefaultMaxDeref is used.
func Normalize(t reflect.Type, cfg apis.Config) (reflect.Type, int, error) {
	if t == nil {
		return nil, 0, ErrReflectNilType
	}
	maxDeref := cfg.MaxDeref
	if maxDeref <= 0 {
		maxDeref = config.DefaultMaxDeref
	}

	depth := 0
	for t.Kind() == reflect.Pointer {
		if depth == maxDeref {
			return nil, depth, ErrReflectTooDeep
		}
		t = t.Elem()
		depth++
	}
	return t, depth, nil
}

// TypeFor is Normalize over the static type T, which works for interface
// types as well.
func TypeFor[T any](cfg apis.Config) (reflect.Type, error) {
	t, _, err := Normalize(reflect.TypeFor[T](), cfg)
	return t, err
}
