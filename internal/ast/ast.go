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

// Package ast defines the tagged-variant AST built by the parser
// (spec §3) and mutated in place by type inference (filling in
// optional Type slots) and the optimizer (folding constant subtrees).
// Code generation consumes the tree read-only.
package ast

import (
	"github.com/tomyk9991/monkeyc/internal/token"
	"github.com/tomyk9991/monkeyc/internal/types"
)

// Node is any top-level declaration or statement.
type Node interface {
	Pos() token.Position
	node()
}

// Program is the root of a compilation unit: the ordered sequence of
// top-level declarations parsed from one source file.
type Program struct {
	Declarations []Node
}

// ScriptStatements returns the program's top-level non-declaration
// statements, in source order. A source file may be a bare script with
// no `fn main` at all; those statements become main's body.
func ScriptStatements(prog *Program) []Node {
	var out []Node
	for _, d := range prog.Declarations {
		switch d.(type) {
		case *MethodDefinition, *RecordDecl, *Import:
		default:
			out = append(out, d)
		}
	}
	return out
}

// ImplicitMain wraps the top-level script in a synthetic `main(): i32`
// definition, the one signature main is allowed to have. Inference,
// checking, folding, and codegen all agree on this wrapper.
func ImplicitMain(prog *Program) *MethodDefinition {
	return &MethodDefinition{
		Name:       "main",
		ReturnType: types.Integer(types.I32, types.Immutable),
		Body:       ScriptStatements(prog),
	}
}

// LValue is an expression form legal on the left of `=` (spec §3).
type LValue interface {
	Pos() token.Position
	lvalue()
}

type IdentLValue struct {
	Name     string
	Position token.Position
}

func (l *IdentLValue) Pos() token.Position { return l.Position }
func (*IdentLValue) lvalue()               {}

type IndexLValue struct {
	Inner    LValue
	Index    Assignable
	Position token.Position
}

func (l *IndexLValue) Pos() token.Position { return l.Position }
func (*IndexLValue) lvalue()               {}

type DerefLValue struct {
	Inner    LValue
	Position token.Position
}

func (l *DerefLValue) Pos() token.Position { return l.Position }
func (*DerefLValue) lvalue()               {}

// Variable is both a `let` binding (Define=true) and a plain
// reassignment (Define=false), per spec §3.
type Variable struct {
	LValue     LValue
	Mutability types.Mutability
	Type       *types.Type // explicit annotation; nil until inference fills it
	Define     bool
	Assignable Assignable
	Position   token.Position
}

func (v *Variable) Pos() token.Position { return v.Position }
func (*Variable) node()                 {}

// Param is a function parameter or record field: a name paired with a
// declared type.
type Param struct {
	Name string
	Type types.Type
}

// MethodDefinition is a function definition or extern declaration.
type MethodDefinition struct {
	Name       string
	ReturnType types.Type
	Arguments  []Param
	Body       []Node
	IsExtern   bool
	ConstPure  bool // true when Body is a straight-line run of pure `let`s ending in a return (set by the optimizer's const-pure analysis)
	Position   token.Position
}

func (m *MethodDefinition) Pos() token.Position { return m.Position }
func (*MethodDefinition) node()                 {}

// RecordDecl declares a named record type's fields (supplemental to
// spec.md, see SPEC_FULL.md §4.3).
type RecordDecl struct {
	Name     string
	Fields   []Param
	Position token.Position
}

func (r *RecordDecl) Pos() token.Position { return r.Position }
func (*RecordDecl) node()                 {}

type If struct {
	Condition Assignable
	Then      []Node
	Else      []Node // nil when there is no else branch
	Position  token.Position
}

func (i *If) Pos() token.Position { return i.Position }
func (*If) node()                 {}

type While struct {
	Condition Assignable
	Body      []Node
	Position  token.Position
}

func (w *While) Pos() token.Position { return w.Position }
func (*While) node()                 {}

type For struct {
	Init      *Variable
	Condition Assignable
	Update    *Variable
	Body      []Node
	Position  token.Position
}

func (f *For) Pos() token.Position { return f.Position }
func (*For) node()                 {}

type Return struct {
	Value    Assignable // nil for a bare `return;`
	Position token.Position
}

func (r *Return) Pos() token.Position { return r.Position }
func (*Return) node()                 {}

type Import struct {
	Path     string
	Position token.Position
}

func (i *Import) Pos() token.Position { return i.Position }
func (*Import) node()                 {}

// ExprStatement wraps a MethodCall used as a bare statement
// (`IDENT(ARGS);`), per spec §4.3.
type ExprStatement struct {
	Call     *MethodCall
	Position token.Position
}

func (e *ExprStatement) Pos() token.Position { return e.Position }
func (*ExprStatement) node()                 {}
