// Copyright 2026 monkeyc authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ast

import (
	"github.com/tomyk9991/monkeyc/internal/token"
	"github.com/tomyk9991/monkeyc/internal/types"
)

// Assignable is any expression value legal on the right of `=`
// (spec §3 / GLOSSARY).
type Assignable interface {
	Pos() token.Position
	assignable()
}

type IntegerLit struct {
	Value    int64
	Width    types.IntWidth
	HasWidth bool // true when a literal suffix fixed the width explicitly
	Position token.Position
}

func (l *IntegerLit) Pos() token.Position { return l.Position }
func (*IntegerLit) assignable()           {}

type FloatLit struct {
	Value    float64
	Width    types.FloatWidth
	HasWidth bool
	Position token.Position
}

func (l *FloatLit) Pos() token.Position { return l.Position }
func (*FloatLit) assignable()           {}

type BoolLit struct {
	Value    bool
	Position token.Position
}

func (l *BoolLit) Pos() token.Position { return l.Position }
func (*BoolLit) assignable()           {}

// StaticString is a `"..."` literal; Label is filled in by the code
// generator when the literal is interned into the constant pool.
type StaticString struct {
	Value    string
	Label    string
	Position token.Position
}

func (l *StaticString) Pos() token.Position { return l.Position }
func (*StaticString) assignable()           {}

type Identifier struct {
	Name         string
	ResolvedType *types.Type // filled by type inference
	Position     token.Position
}

func (i *Identifier) Pos() token.Position { return i.Position }
func (*Identifier) assignable()           {}

type MethodCall struct {
	Name         string
	Args         []Assignable
	ResolvedType *types.Type
	Position     token.Position
}

func (m *MethodCall) Pos() token.Position { return m.Position }
func (*MethodCall) assignable()           {}

type FieldInit struct {
	Name  string
	Value Assignable
}

type ObjectLiteral struct {
	TypeName     string
	Fields       []FieldInit
	ResolvedType *types.Type
	Position     token.Position
}

func (o *ObjectLiteral) Pos() token.Position { return o.Position }
func (*ObjectLiteral) assignable()           {}

type ArrayLiteral struct {
	Elements     []Assignable
	ResolvedType *types.Type
	Position     token.Position
}

func (a *ArrayLiteral) Pos() token.Position { return a.Position }
func (*ArrayLiteral) assignable()           {}

// PrefixKind is one of the unary modifiers a factor may carry,
// applied left-to-right (spec §3).
type PrefixKind int

const (
	PrefixAddr PrefixKind = iota
	PrefixDeref
	PrefixCast
	PrefixNeg
	PrefixNot
	PrefixBitNot
)

type Prefix struct {
	Kind     PrefixKind
	CastType types.Type // only meaningful when Kind == PrefixCast
}

// Expression is a binary-operator tree with optional unary prefixes
// and an optional trailing index suffix (spec §3). A leaf node has
// Operator == token.EOF and a non-nil Leaf; an internal node has
// Operator set and both Lhs and Rhs non-nil.
type Expression struct {
	Lhs *Expression
	Rhs *Expression

	Operator token.Kind
	Leaf     Assignable

	Prefix []Prefix
	Index  Assignable // non-nil for a trailing `[idx]`

	Positive bool // false once a unary '-' has been applied

	ResolvedType *types.Type
	Position     token.Position
}

func (e *Expression) Pos() token.Position { return e.Position }
func (*Expression) assignable()           {}

// IsLeaf reports whether e is a leaf (holds a Leaf Assignable) rather
// than a binary-operator internal node.
func (e *Expression) IsLeaf() bool { return e.Operator == token.EOF }

// Leaf1 wraps a bare Assignable into a leaf Expression with no
// prefixes, index, or sign flip — the common case when an operand
// needs to be lifted into Expression form.
func Leaf1(a Assignable, positive bool) *Expression {
	return &Expression{Leaf: a, Positive: positive, Position: a.Pos()}
}
