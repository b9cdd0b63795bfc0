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

// Package typeinfer implements the forward type-inference pass of
// spec §4.4: it fills in every optional Type slot the parser left
// nil, running to a fixed point (a single pass suffices — the rules
// are monotone).
package typeinfer

import (
	"github.com/samber/lo"

	"github.com/tomyk9991/monkeyc/internal/ast"
	"github.com/tomyk9991/monkeyc/internal/symtab"
	"github.com/tomyk9991/monkeyc/internal/token"
	"github.com/tomyk9991/monkeyc/internal/types"
)

// Infer runs type inference over every declaration in prog, using
// table both to register top-level function/record/extern signatures
// (so forward references resolve) and to look up bindings while
// walking each function body.
func Infer(prog *ast.Program, table *symtab.Table) error {
	for _, decl := range prog.Declarations {
		if rec, ok := decl.(*ast.RecordDecl); ok {
			registerRecord(rec, table)
		}
	}
	for _, decl := range prog.Declarations {
		if fn, ok := decl.(*ast.MethodDefinition); ok {
			if err := registerFunction(fn, table); err != nil {
				return err
			}
		}
	}
	for _, decl := range prog.Declarations {
		if fn, ok := decl.(*ast.MethodDefinition); ok && !fn.IsExtern {
			if err := inferFunctionBody(fn, table); err != nil {
				return err
			}
		}
	}

	// top-level statements form the implicit main script (spec §8
	// S1/S2: a bare `let` at file scope compiles into main's body)
	if script := ast.ScriptStatements(prog); len(script) > 0 {
		table.PushScope()
		defer table.PopScope()
		return inferBlock(script, ast.ImplicitMain(prog), table)
	}
	return nil
}

func registerRecord(rec *ast.RecordDecl, table *symtab.Table) {
	table.Records[rec.Name] = lo.Map(rec.Fields, func(p ast.Param, _ int) symtab.Field {
		return symtab.Field{Name: p.Name, Type: p.Type}
	})
}

func registerFunction(fn *ast.MethodDefinition, table *symtab.Table) error {
	kind := symtab.KindFunction
	if fn.IsExtern {
		kind = symtab.KindExtern
	}
	argTypes := lo.Map(fn.Arguments, func(p ast.Param, _ int) types.Type { return p.Type })
	return table.Define(&symtab.Symbol{
		Name:         fn.Name,
		Type:         fn.ReturnType,
		Kind:         kind,
		DefiningSite: fn.Position,
		ArgTypes:     argTypes,
		ReturnType:   fn.ReturnType,
	})
}

func inferFunctionBody(fn *ast.MethodDefinition, table *symtab.Table) error {
	table.PushScope()
	defer table.PopScope()

	for _, arg := range fn.Arguments {
		if err := table.Define(&symtab.Symbol{
			Name:         arg.Name,
			Type:         arg.Type,
			Mutability:   arg.Type.Mutability,
			Kind:         symtab.KindParameter,
			DefiningSite: fn.Position,
		}); err != nil {
			return err
		}
	}

	return inferBlock(fn.Body, fn, table)
}

func inferBlock(body []ast.Node, fn *ast.MethodDefinition, table *symtab.Table) error {
	for _, stmt := range body {
		if err := inferStatement(stmt, fn, table); err != nil {
			return err
		}
	}
	return nil
}

func inferStatement(node ast.Node, fn *ast.MethodDefinition, table *symtab.Table) error {
	switch n := node.(type) {
	case *ast.Variable:
		return inferVariable(n, table)
	case *ast.If:
		if _, err := inferAssignable(n.Condition, table); err != nil {
			return err
		}
		table.PushScope()
		err := inferBlock(n.Then, fn, table)
		table.PopScope()
		if err != nil {
			return err
		}
		table.PushScope()
		err = inferBlock(n.Else, fn, table)
		table.PopScope()
		return err
	case *ast.While:
		if _, err := inferAssignable(n.Condition, table); err != nil {
			return err
		}
		table.PushScope()
		err := inferBlock(n.Body, fn, table)
		table.PopScope()
		return err
	case *ast.For:
		table.PushScope()
		defer table.PopScope()
		if err := inferVariable(n.Init, table); err != nil {
			return err
		}
		if _, err := inferAssignable(n.Condition, table); err != nil {
			return err
		}
		if err := inferVariable(n.Update, table); err != nil {
			return err
		}
		return inferBlock(n.Body, fn, table)
	case *ast.Return:
		if n.Value != nil {
			propagateExpected(n.Value, fn.ReturnType)
			_, err := inferAssignable(n.Value, table)
			return err
		}
		return nil
	case *ast.ExprStatement:
		_, err := inferAssignable(n.Call, table)
		return err
	case *ast.Import, *ast.RecordDecl, *ast.MethodDefinition:
		return nil
	}
	return &Error{Message: "unhandled statement in type inference", Pos: node.Pos()}
}

// inferVariable fills in the Variable's explicit-or-inferred Type and
// registers it in the innermost scope (define=true) or re-resolves
// its existing binding (define=false; legality checked by typecheck).
func inferVariable(v *ast.Variable, table *symtab.Table) error {
	if v.Type != nil {
		propagateExpected(v.Assignable, *v.Type)
	} else if !v.Define {
		if id, ok := v.LValue.(*ast.IdentLValue); ok {
			if sym, found := table.Lookup(id.Name); found {
				propagateExpected(v.Assignable, sym.Type)
			}
		}
	}
	rhsType, err := inferAssignable(v.Assignable, table)
	if err != nil {
		return err
	}

	if v.Type == nil {
		t := rhsType
		t.Mutability = v.Mutability
		v.Type = &t
	}

	if v.Define {
		name := v.LValue.(*ast.IdentLValue).Name
		return table.Define(&symtab.Symbol{
			Name:         name,
			Type:         *v.Type,
			Mutability:   v.Mutability,
			Kind:         symtab.KindVariable,
			DefiningSite: v.Position,
		})
	}
	return nil
}

// inferAssignable computes (and memoizes into the AST node's
// ResolvedType slot, where one exists) the type of any Assignable.
func inferAssignable(a ast.Assignable, table *symtab.Table) (types.Type, error) {
	switch v := a.(type) {
	case *ast.IntegerLit:
		if !v.HasWidth {
			v.Width = types.I32
		}
		return types.Integer(v.Width, types.Immutable), nil

	case *ast.FloatLit:
		if !v.HasWidth {
			v.Width = types.F32
		}
		return types.Float(v.Width, types.Immutable), nil

	case *ast.BoolLit:
		return types.Bool(types.Immutable), nil

	case *ast.StaticString:
		return types.StringType(), nil

	case *ast.Identifier:
		sym, ok := table.Lookup(v.Name)
		if !ok {
			return types.Type{}, &Error{Message: "undefined identifier " + v.Name, Pos: v.Position}
		}
		v.ResolvedType = &sym.Type
		return sym.Type, nil

	case *ast.MethodCall:
		sym, ok := table.Lookup(v.Name)
		if !ok {
			return types.Type{}, &Error{Message: "call to undefined function " + v.Name, Pos: v.Position}
		}
		for i, arg := range v.Args {
			if i < len(sym.ArgTypes) {
				propagateExpected(arg, sym.ArgTypes[i])
			}
			if _, err := inferAssignable(arg, table); err != nil {
				return types.Type{}, err
			}
		}
		v.ResolvedType = &sym.ReturnType
		return sym.ReturnType, nil

	case *ast.ObjectLiteral:
		declared := table.Records[v.TypeName]
		for i := range v.Fields {
			if i < len(declared) && v.Fields[i].Name == declared[i].Name {
				propagateExpected(v.Fields[i].Value, declared[i].Type)
			}
			if _, err := inferAssignable(v.Fields[i].Value, table); err != nil {
				return types.Type{}, err
			}
		}
		t := types.Custom(v.TypeName, types.Immutable)
		v.ResolvedType = &t
		return t, nil

	case *ast.ArrayLiteral:
		// every element must carry exactly the first element's type: no
		// implicit widening anywhere in this language
		elem := types.Void()
		for i, el := range v.Elements {
			t, err := inferAssignable(el, table)
			if err != nil {
				return types.Type{}, err
			}
			if i == 0 {
				elem = t
				continue
			}
			if !t.Equal(elem) {
				return types.Type{}, &Error{
					Message: "array element type " + t.String() + " does not match element type " + elem.String(),
					Pos:     el.Pos(),
				}
			}
		}
		t := types.Array(elem, len(v.Elements))
		v.ResolvedType = &t
		return t, nil

	case *ast.Expression:
		return inferExpression(v, table)
	}

	return types.Type{}, &Error{Message: "unhandled assignable in type inference", Pos: a.Pos()}
}

func inferExpression(e *ast.Expression, table *symtab.Table) (types.Type, error) {
	var base types.Type
	var err error

	if e.IsLeaf() {
		base, err = inferAssignable(e.Leaf, table)
		if err != nil {
			return types.Type{}, err
		}
		if e.Index != nil {
			if _, err := inferAssignable(e.Index, table); err != nil {
				return types.Type{}, err
			}
			if !base.IsArray() && !base.IsPointer() {
				return types.Type{}, &Error{Message: "cannot index non-array, non-pointer type " + base.String(), Pos: e.Position}
			}
			base = *base.Elem
		}
		base, err = applyPrefixes(base, e.Prefix, e.Position)
		if err != nil {
			return types.Type{}, err
		}
	} else {
		lhsType, err := inferExpression(e.Lhs, table)
		if err != nil {
			return types.Type{}, err
		}
		rhsType, err := inferExpression(e.Rhs, table)
		if err != nil {
			return types.Type{}, err
		}
		base, err = unify(e.Operator, lhsType, rhsType, e.Position)
		if err != nil {
			return types.Type{}, err
		}
	}

	e.ResolvedType = &base
	return base, nil
}

func applyPrefixes(t types.Type, prefixes []ast.Prefix, pos token.Position) (types.Type, error) {
	for _, p := range prefixes {
		switch p.Kind {
		case ast.PrefixAddr:
			t = types.Pointer(t, types.Immutable)
		case ast.PrefixDeref:
			if !t.IsPointer() {
				return types.Type{}, &Error{Message: "cannot dereference non-pointer type " + t.String(), Pos: pos}
			}
			t = *t.Elem
		case ast.PrefixCast:
			t = p.CastType
		case ast.PrefixNeg, ast.PrefixNot, ast.PrefixBitNot:
			// type-preserving
		}
	}
	return t, nil
}

// propagateExpected pushes a context-demanded type down onto
// suffix-free numeric literals before inference runs (spec §3
// invariants: "default to i32/f32 unless suffixed or demanded by
// context"). Only literals are touched — identifiers and calls already
// have a type of their own — and only where the context type survives
// unchanged: a cast, an index suffix, or a comparison operator all cut
// the propagation off.
func propagateExpected(a ast.Assignable, want types.Type) {
	switch v := a.(type) {
	case *ast.IntegerLit:
		if !v.HasWidth && want.IsInteger() {
			v.Width = want.IntWidth
			v.HasWidth = true
		}
	case *ast.FloatLit:
		if !v.HasWidth && want.IsFloat() {
			v.Width = want.FloatWidth
			v.HasWidth = true
		}
	case *ast.ArrayLiteral:
		if want.IsArray() {
			for _, el := range v.Elements {
				propagateExpected(el, *want.Elem)
			}
		}
	case *ast.Expression:
		if len(v.Prefix) != 0 || v.Index != nil {
			return
		}
		if v.IsLeaf() {
			propagateExpected(v.Leaf, want)
			return
		}
		switch v.Operator {
		case token.EQ, token.NE, token.LT, token.GT, token.LE, token.GE, token.LOGAND, token.LOGOR:
			return
		}
		propagateExpected(v.Lhs, want)
		propagateExpected(v.Rhs, want)
	}
}

func unify(op token.Kind, lhs, rhs types.Type, pos token.Position) (types.Type, error) {
	switch op {
	case token.EQ, token.NE, token.LT, token.GT, token.LE, token.GE, token.LOGAND, token.LOGOR:
		return types.Bool(types.Immutable), nil
	}

	if lhs.IsInteger() && rhs.IsInteger() {
		if lhs.Lattice() >= rhs.Lattice() {
			return types.Integer(lhs.IntWidth, types.Immutable), nil
		}
		return types.Integer(rhs.IntWidth, types.Immutable), nil
	}
	if lhs.IsFloat() && rhs.IsFloat() {
		if lhs.Lattice() >= rhs.Lattice() {
			return types.Float(lhs.FloatWidth, types.Immutable), nil
		}
		return types.Float(rhs.FloatWidth, types.Immutable), nil
	}
	if lhs.IsBool() && rhs.IsBool() {
		return types.Bool(types.Immutable), nil
	}

	return types.Type{}, &Error{
		Message: "cannot unify operand types " + lhs.String() + " and " + rhs.String(),
		Pos:     pos,
	}
}
