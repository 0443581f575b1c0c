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

// NewCallStrategy creates an apis.Strategy that handles method calls.
func NewCallStrategy() apis.Strategy {
	return callStrategy{}
}

// callStrategy returns the method name of an *expr.Call body.
type callStrategy struct{}

// Ensure callStrategy implements apis.Strategy.
var _ apis.Strategy = callStrategy{}

// TryResolve handles n if it is a method call.
func (callStrategy) TryResolve(n expr.Node, _ apis.Config) (string, bool) {
	if c, ok := n.(*expr.Call); ok && c != nil {
		return c.Name, true
	}
	return "", false
}
