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
	"errors"

	"dirpx.dev/membername/expr"
)

var (
	// ErrNilExpression is returned when a nil expression is resolved.
	ErrNilExpression = errors.New("membername: nil expression")
	// ErrNilSelector is returned when a nil func selector is resolved.
	ErrNilSelector = errors.New("membername: nil selector")
	// ErrSiteNotRegistered is returned when a func selector's site has no
	// registered name and source fallback is disabled.
	ErrSiteNotRegistered = errors.New("membername: selector site not registered")
	// ErrInvalidTargetMember matches every *InvalidTargetMemberError via errors.Is.
	ErrInvalidTargetMember = errors.New("membername: a member name cannot be resolved from the given expression")
)

// InvalidTargetMemberError reports an expression whose body is not one of
// the recognized member shapes.
type InvalidTargetMemberError struct {
	// Expression is the expression that failed to resolve (the original
	// one, not a sub-expression of it).
	Expression *expr.Expression
}

// NewInvalidTargetMember returns an *InvalidTargetMemberError for e.
func NewInvalidTargetMember(e *expr.Expression) error {
	return &InvalidTargetMemberError{Expression: e}
}

// Error implements error.
func (e *InvalidTargetMemberError) Error() string {
	if e.Expression == nil || e.Expression.Source == "" {
		return ErrInvalidTargetMember.Error()
	}
	return ErrInvalidTargetMember.Error() + ": " + e.Expression.Source
}

// Is makes errors.Is(err, ErrInvalidTargetMember) hold.
func (e *InvalidTargetMemberError) Is(target error) bool {
	return target == ErrInvalidTargetMember
}
