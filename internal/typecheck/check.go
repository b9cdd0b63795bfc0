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

// Package typecheck implements the static type checker of spec §4.5:
// assignment legality, call arity/argument types, return-path
// completeness, mutability of for-loop updates, and index operand
// legality (dereference of a non-pointer is rejected by
// internal/typeinfer, not here). It runs after internal/typeinfer has filled in
// every Type slot and assumes those types are already populated.
package typecheck

import (
	"errors"

	"github.com/tomyk9991/monkeyc/internal/ast"
	"github.com/tomyk9991/monkeyc/internal/symtab"
	"github.com/tomyk9991/monkeyc/internal/types"
)

// Check validates a fully type-inferred program. table must be the
// same table typeinfer.Infer was run against (top-level function and
// record signatures still registered in its outermost frame).
func Check(prog *ast.Program, table *symtab.Table) error {
	for _, decl := range prog.Declarations {
		fn, ok := decl.(*ast.MethodDefinition)
		if !ok || fn.IsExtern {
			continue
		}
		if err := checkFunction(fn, table); err != nil {
			return err
		}
	}
	// the top-level script is checked as main's body (it carries main's
	// implicit-return-0 allowance, so no terminal-return check applies)
	if script := ast.ScriptStatements(prog); len(script) > 0 {
		implicit := ast.ImplicitMain(prog)
		table.PushScope()
		defer table.PopScope()
		return checkBlock(script, implicit, table)
	}
	return nil
}

func checkFunction(fn *ast.MethodDefinition, table *symtab.Table) error {
	if fn.Name == "main" {
		if len(fn.Arguments) != 0 || !fn.ReturnType.Equal(types.Integer(types.I32, types.Immutable)) {
			return &TypeMismatchError{Expected: "main(): i32", Actual: fn.ReturnType.String(), Pos: fn.Position}
		}
	}

	table.PushScope()
	defer table.PopScope()

	for _, arg := range fn.Arguments {
		_ = table.Define(&symtab.Symbol{
			Name:         arg.Name,
			Type:         arg.Type,
			Mutability:   arg.Type.Mutability,
			Kind:         symtab.KindParameter,
			DefiningSite: fn.Position,
		})
	}

	if err := checkBlock(fn.Body, fn, table); err != nil {
		return err
	}

	if !fn.ReturnType.IsVoid() && !alwaysReturns(fn.Body) {
		if fn.Name == "main" {
			return nil // the generator supplies `return 0` (spec §4.5, §4.7)
		}
		return &MissingReturnError{Function: fn.Name, Pos: fn.Position}
	}
	return nil
}

// alwaysReturns reports whether every control path through body ends
// in a Return (spec §4.5's terminal-branch check).
func alwaysReturns(body []ast.Node) bool {
	if len(body) == 0 {
		return false
	}
	switch n := body[len(body)-1].(type) {
	case *ast.Return:
		return true
	case *ast.If:
		return n.Else != nil && alwaysReturns(n.Then) && alwaysReturns(n.Else)
	default:
		return false
	}
}

func checkBlock(body []ast.Node, fn *ast.MethodDefinition, table *symtab.Table) error {
	for _, stmt := range body {
		if err := checkStatement(stmt, fn, table); err != nil {
			return err
		}
	}
	return nil
}

func checkStatement(node ast.Node, fn *ast.MethodDefinition, table *symtab.Table) error {
	switch n := node.(type) {
	case *ast.Variable:
		return checkVariable(n, table)

	case *ast.If:
		if err := checkExpr(n.Condition, table); err != nil {
			return err
		}
		table.PushScope()
		err := checkBlock(n.Then, fn, table)
		table.PopScope()
		if err != nil {
			return err
		}
		table.PushScope()
		err = checkBlock(n.Else, fn, table)
		table.PopScope()
		return err

	case *ast.While:
		if err := checkExpr(n.Condition, table); err != nil {
			return err
		}
		table.PushScope()
		err := checkBlock(n.Body, fn, table)
		table.PopScope()
		return err

	case *ast.For:
		table.PushScope()
		defer table.PopScope()
		if err := checkVariable(n.Init, table); err != nil {
			return err
		}
		if err := checkExpr(n.Condition, table); err != nil {
			return err
		}
		name := updateTargetName(n.Update)
		if sym, ok := table.Lookup(name); ok && sym.Mutability != types.Mutable {
			return &ImmutabilityViolatedError{Name: name, Pos: n.Update.Position}
		}
		if err := checkVariable(n.Update, table); err != nil {
			return err
		}
		return checkBlock(n.Body, fn, table)

	case *ast.Return:
		if n.Value == nil {
			return nil
		}
		if err := checkExpr(n.Value, table); err != nil {
			return err
		}
		got := resolvedType(n.Value)
		if got == nil {
			return &InferredError{Underlying: errors.New("no type resolved for return value"), Pos: n.Value.Pos()}
		}
		if !got.Equal(fn.ReturnType) {
			return &TypeMismatchError{Expected: fn.ReturnType.String(), Actual: got.String(), Pos: n.Position}
		}
		return nil

	case *ast.ExprStatement:
		return checkCall(n.Call, table)

	case *ast.Import, *ast.RecordDecl, *ast.MethodDefinition:
		return nil
	}
	return nil
}

func updateTargetName(v *ast.Variable) string {
	if id, ok := v.LValue.(*ast.IdentLValue); ok {
		return id.Name
	}
	return ""
}

func checkVariable(v *ast.Variable, table *symtab.Table) error {
	if err := checkExpr(v.Assignable, table); err != nil {
		return err
	}

	rhsType := resolvedType(v.Assignable)
	if v.Define {
		if rhsType == nil {
			// inference claims success yet left the slot unresolved
			return &InferredError{Underlying: errors.New("no type resolved for initializer"), Pos: v.Assignable.Pos()}
		}
		if !rhsType.Equal(*v.Type) {
			return &TypeMismatchError{Expected: v.Type.String(), Actual: rhsType.String(), Pos: v.Position}
		}
		if v.Type.Kind == types.KCustom {
			if err := checkRecordLiteral(v, table); err != nil {
				return err
			}
		}
		name := v.LValue.(*ast.IdentLValue).Name
		return table.Define(&symtab.Symbol{
			Name:         name,
			Type:         *v.Type,
			Mutability:   v.Mutability,
			Kind:         symtab.KindVariable,
			DefiningSite: v.Position,
		})
	}

	name := updateTargetName(v)
	sym, ok := table.Lookup(name)
	if !ok {
		return nil // undefined-identifier already reported by typeinfer
	}
	if sym.Mutability != types.Mutable {
		return &ImmutabilityViolatedError{Name: name, Pos: v.Position}
	}
	if rhsType != nil && !rhsType.Equal(sym.Type) {
		return &TypeMismatchError{Expected: sym.Type.String(), Actual: rhsType.String(), Pos: v.Position}
	}
	return nil
}

// checkRecordLiteral validates an object-literal initializer against
// its declared record type: the record must exist, and the literal's
// field names must match the declaration in both order and spelling,
// with per-field type equality (SPEC_FULL.md §4.3).
func checkRecordLiteral(v *ast.Variable, table *symtab.Table) error {
	expr, ok := v.Assignable.(*ast.Expression)
	if !ok || !expr.IsLeaf() {
		return nil
	}
	lit, ok := expr.Leaf.(*ast.ObjectLiteral)
	if !ok {
		return nil
	}
	fields, known := table.Records[lit.TypeName]
	if !known {
		return &TypeMismatchError{Expected: "a declared record type", Actual: lit.TypeName, Pos: lit.Position}
	}
	if len(lit.Fields) != len(fields) {
		return &ArityMismatchError{Name: lit.TypeName, Expected: len(fields), Got: len(lit.Fields), Pos: lit.Position}
	}
	for i, f := range fields {
		if lit.Fields[i].Name != f.Name {
			return &TypeMismatchError{Expected: "field " + f.Name, Actual: "field " + lit.Fields[i].Name, Pos: lit.Position}
		}
		got := resolvedType(lit.Fields[i].Value)
		if got != nil && !got.Equal(f.Type) {
			return &TypeMismatchError{Expected: f.Type.String(), Actual: got.String(), Pos: lit.Fields[i].Value.Pos()}
		}
	}
	return nil
}

func checkCall(call *ast.MethodCall, table *symtab.Table) error {
	for _, arg := range call.Args {
		if err := checkExpr(arg, table); err != nil {
			return err
		}
	}
	sym, ok := table.Lookup(call.Name)
	if !ok {
		return nil // undefined-function already reported by typeinfer
	}
	if len(call.Args) != len(sym.ArgTypes) {
		return &ArityMismatchError{Name: call.Name, Expected: len(sym.ArgTypes), Got: len(call.Args), Pos: call.Position}
	}
	for i, arg := range call.Args {
		argType := resolvedType(arg)
		if argType != nil && !argType.Equal(sym.ArgTypes[i]) {
			return &TypeMismatchError{Expected: sym.ArgTypes[i].String(), Actual: argType.String(), Pos: arg.Pos()}
		}
	}
	return nil
}

// checkExpr walks an Assignable, validating index-operand legality
// (spec §4.5: the index must be integer-typed; base legality is
// already guaranteed by typeinfer) wherever an Expression carries a
// trailing `[idx]`.
func checkExpr(a ast.Assignable, table *symtab.Table) error {
	switch v := a.(type) {
	case *ast.Expression:
		if v.Index != nil {
			if err := checkExpr(v.Index, table); err != nil {
				return err
			}
			idxType := resolvedType(v.Index)
			if idxType != nil && !idxType.IsInteger() {
				return &IllegalIndexOperationError{Message: "index must be an integer, got " + idxType.String(), Pos: v.Position}
			}
		}
		if v.IsLeaf() {
			return checkExpr(v.Leaf, table)
		}
		if err := checkExpr(v.Lhs, table); err != nil {
			return err
		}
		return checkExpr(v.Rhs, table)

	case *ast.MethodCall:
		return checkCall(v, table)

	case *ast.ObjectLiteral:
		for _, f := range v.Fields {
			if err := checkExpr(f.Value, table); err != nil {
				return err
			}
		}
		return nil

	case *ast.ArrayLiteral:
		for _, el := range v.Elements {
			if err := checkExpr(el, table); err != nil {
				return err
			}
		}
		return nil
	}
	return nil
}

// resolvedType extracts the ResolvedType/Type slot typeinfer filled
// in, where the Assignable kind carries one.
func resolvedType(a ast.Assignable) *types.Type {
	switch v := a.(type) {
	case *ast.Expression:
		return v.ResolvedType
	case *ast.Identifier:
		return v.ResolvedType
	case *ast.MethodCall:
		return v.ResolvedType
	case *ast.ObjectLiteral:
		return v.ResolvedType
	case *ast.ArrayLiteral:
		return v.ResolvedType
	}
	return nil
}
