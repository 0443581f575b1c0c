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

// NewMemberStrategy creates an apis.Strategy that handles direct selectors.
func NewMemberStrategy() apis.Strategy {
	return memberStrategy{}
}

// memberStrategy returns the selected name of an *expr.Member body.
type memberStrategy struct{}

// Ensure memberStrategy implements apis.Strategy.
var _ apis.Strategy = memberStrategy{}

// TryResolve handles n if it is a selector.
func (memberStrategy) TryResolve(n expr.Node, _ apis.Config) (string, bool) {
	if m, ok := n.(*expr.Member); ok && m != nil {
		return m.Name, true
	}
	return "", false
}
