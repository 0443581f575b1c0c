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

package strategy

import (
	"dirpx.dev/membername/apis"
	"dirpx.dev/membername/expr"
)

// NewUnwrapStrategy creates an apis.Strategy that looks through exactly one
// conversion and offers its operand to inner, in order. Nil inner strategies
// are ignored.
//
// Only one level is unwrapped: int64(x.F) boxed into any is two conversions
// deep and is not handled.
func NewUnwrapStrategy(inner ...apis.Strategy) apis.Strategy {
	out := make([]apis.Strategy, 0, len(inner))
	for _, s := range inner {
		if s != nil {
			out = append(out, s)
		}
	}
	return unwrapStrategy{inner: out}
}

// unwrapStrategy is immutable after construction.
type unwrapStrategy struct {
	inner []apis.Strategy
}

// Ensure unwrapStrategy implements apis.Strategy.
var _ apis.Strategy = unwrapStrategy{}

// TryResolve handles n if it is a conversion whose operand an inner strategy handles.
func (s unwrapStrategy) TryResolve(n expr.Node, cfg apis.Config) (string, bool) {
	c, ok := n.(*expr.Convert)
	if !ok || c == nil || c.Inner == nil {
		return "", false
	}
	for _, in := range s.inner {
		if name, ok := in.TryResolve(c.Inner, cfg); ok {
			return name, true
		}
	}
	return "", false
}
