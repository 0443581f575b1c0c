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
	"dirpx.dev/membername/expr"
)

// Resolver resolves member names from selectors.
// Typical chain: UnwrapStrategy -> MemberStrategy -> CallStrategy.
type Resolver interface {
	// Resolve returns the name of the member referenced by e.
	// A nil e yields ErrNilExpression; an unrecognized body yields
	// *InvalidTargetMemberError.
	Resolve(e *expr.Expression, cfg Config) (string, error)

	// ResolveFunc returns the name of the member referenced by the func
	// selector fn (a func literal, method expression or method value).
	ResolveFunc(fn any, cfg Config) (string, error)
}
