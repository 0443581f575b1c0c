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

// Package expr models selector expressions: small Go function literals such
// as
//
//	func(m User) any { return m.Email }
//	func(m *User) { m.Touch() }
//
// reduced to the shapes member-name resolution cares about. An Expression is
// built from go/ast (and, when available, go/types) and is immutable once
// built.
package expr

import (
	"go/token"
)

// Kind tags the shape of a Node.
type Kind uint8

const (
	// KindOther is any shape that does not reference a member directly.
	KindOther Kind = iota
	// KindConvert is a conversion wrapper (explicit T(x), x.(T), or implicit
	// interface boxing) around a single operand.
	KindConvert
	// KindMember is a selector x.Name.
	KindMember
	// KindCall is a method call x.Name(args...).
	KindCall
)

// String returns a lower-case name for k.
func (k Kind) String() string {
	switch k {
	case KindConvert:
		return "convert"
	case KindMember:
		return "member"
	case KindCall:
		return "call"
	default:
		return "other"
	}
}

// Node is a classified expression node.
type Node interface {
	// Kind reports the node's shape.
	Kind() Kind
	// String returns the node's source text.
	String() string
}

// Convert wraps exactly one operand in a type conversion.
type Convert struct {
	// Type is the source text of the target type ("any", "int64", ...).
	Type string
	// Implicit is true for interface boxing that has no syntax of its own.
	Implicit bool
	// Inner is the converted operand.
	Inner Node
}

// Kind implements Node.
func (*Convert) Kind() Kind { return KindConvert }

// String implements Node.
func (c *Convert) String() string {
	inner := "<nil>"
	if c.Inner != nil {
		inner = c.Inner.String()
	}
	if c.Implicit {
		return inner
	}
	return c.Type + "(" + inner + ")"
}

// Member is a field selector (or a method value without a call).
type Member struct {
	// Recv is the source text of the selected-from operand.
	Recv string
	// Name is the selected member.
	Name string
}

// Kind implements Node.
func (*Member) Kind() Kind { return KindMember }

// String implements Node.
func (m *Member) String() string {
	if m.Recv == "" {
		return m.Name
	}
	return m.Recv + "." + m.Name
}

// Call is a method call.
type Call struct {
	// Recv is the source text of the receiver operand.
	Recv string
	// Name is the called method.
	Name string
	// NumArgs is the number of call arguments.
	NumArgs int
}

// Kind implements Node.
func (*Call) Kind() Kind { return KindCall }

// String implements Node.
func (c *Call) String() string {
	s := c.Name + "(...)"
	if c.NumArgs == 0 {
		s = c.Name + "()"
	}
	if c.Recv == "" {
		return s
	}
	return c.Recv + "." + s
}

// Other is any expression shape without a direct member reference.
type Other struct {
	// Text is the source text of the expression.
	Text string
}

// Kind implements Node.
func (*Other) Kind() Kind { return KindOther }

// String implements Node.
func (o *Other) String() string { return o.Text }

// Expression is a typed selector: a reference to a member of Param's type.
type Expression struct {
	// Param is the selector's parameter name, "" if it has none.
	Param string
	// ParamType is the source text of the parameter type.
	ParamType string
	// Result is the source text of the result type, "" for actions.
	Result string
	// Body is the classified body, nil when the literal has no statements.
	Body Node
	// Source is the selector's source text, used in diagnostics.
	Source string
	// Position is where the selector was found; zero for parsed strings.
	Position token.Position
}

// String returns the selector's source text.
func (e *Expression) String() string {
	if e == nil {
		return "<nil>"
	}
	return e.Source
}

// IsAction reports whether the selector returns nothing.
func (e *Expression) IsAction() bool {
	return e != nil && e.Result == ""
}
