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

package codegen

import (
	"fmt"
	"strings"

	"github.com/tomyk9991/monkeyc/internal/ast"
	"github.com/tomyk9991/monkeyc/internal/types"
)

// genBlock lowers a sequence of statements under a fresh lexical
// scope, mirroring internal/symtab's PushScope/PopScope discipline so
// identifier lookups inside nested blocks shadow correctly (spec §3).
func (g *Generator) genBlock(w *strings.Builder, body []ast.Node) error {
	g.pushScope()
	defer g.popScope()
	for _, n := range body {
		if err := g.genStatement(w, n); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) genStatement(w *strings.Builder, n ast.Node) error {
	switch s := n.(type) {
	case *ast.Variable:
		return g.genVariableStmt(w, s)
	case *ast.If:
		return g.genIf(w, s)
	case *ast.While:
		return g.genWhile(w, s)
	case *ast.For:
		return g.genFor(w, s)
	case *ast.Return:
		return g.genReturn(w, s)
	case *ast.ExprStatement:
		return g.genCall(w, s.Call)
	case *ast.Import, *ast.RecordDecl, *ast.MethodDefinition:
		// Declarations carry no executable code of their own at the
		// statement level; imports are surfaced as comments once per
		// program (codegen.go), records and nested functions have no
		// block-scoped meaning here.
		return nil
	default:
		return &InternalError{Message: "unsupported statement", Pos: n.Pos()}
	}
}

// genVariableStmt lowers both a defining `let`/param-style binding and
// a plain reassignment through the same Variable node (spec §4).
func (g *Generator) genVariableStmt(w *strings.Builder, v *ast.Variable) error {
	rhs, ok := v.Assignable.(*ast.Expression)
	if !ok {
		return &InternalError{Message: "variable initializer must be an expression", Pos: v.Position}
	}

	if v.Define {
		off := g.defineLocal(v)
		t := *v.Type
		switch {
		case t.IsArray():
			return g.storeArrayLiteral(w, off, t, rhs)
		case t.Kind == types.KCustom:
			return g.storeObjectLiteral(w, off, t, rhs)
		case t.IsFloat():
			width := t.FloatWidth.Bytes()
			if err := g.genFloatExpr(w, rhs, width); err != nil {
				return err
			}
			fmt.Fprintf(w, "  %s %s, xmm0\n", movInstr(width), memOperand(off))
			return nil
		default:
			size := t.Size()
			if err := g.genIntExpr(w, rhs, size); err != nil {
				return err
			}
			fmt.Fprintf(w, "  mov %s %s, %s\n", SizeDirective(size), memOperand(off), RAX.Name(size))
			return nil
		}
	}

	return g.genReassign(w, v.LValue, rhs)
}

// genReassign stores rhs's value into an already-defined l-value:
// a bare identifier, an indexed slot, or a dereferenced pointer.
func (g *Generator) genReassign(w *strings.Builder, lv ast.LValue, rhs *ast.Expression) error {
	rhsType := typeOf(rhs)

	if id, ok := lv.(*ast.IdentLValue); ok {
		sym, ok := g.lookupLocal(id.Name)
		if !ok {
			return &InternalError{Message: "undefined local " + id.Name, Pos: lv.Pos()}
		}
		if rhsType.IsFloat() {
			width := rhsType.FloatWidth.Bytes()
			if err := g.genFloatExpr(w, rhs, width); err != nil {
				return err
			}
			fmt.Fprintf(w, "  %s %s, xmm0\n", movInstr(width), memOperand(sym.offset))
			return nil
		}
		size := rhsType.Size()
		if size == 0 {
			size = sym.typ.Size()
		}
		if err := g.genIntExpr(w, rhs, size); err != nil {
			return err
		}
		fmt.Fprintf(w, "  mov %s %s, %s\n", SizeDirective(size), memOperand(sym.offset), RAX.Name(size))
		return nil
	}

	elem, err := g.lvalueElemAddress(w, lv)
	if err != nil {
		return err
	}
	w.WriteString("  push rax\n")
	if elem.IsFloat() {
		width := elem.FloatWidth.Bytes()
		if err := g.genFloatExpr(w, rhs, width); err != nil {
			return err
		}
		w.WriteString("  pop rdi\n")
		fmt.Fprintf(w, "  %s [rdi], xmm0\n", movInstr(width))
		return nil
	}
	size := elem.Size()
	if err := g.genIntExpr(w, rhs, size); err != nil {
		return err
	}
	w.WriteString("  mov rdi, rax\n")
	w.WriteString("  pop rax\n")
	fmt.Fprintf(w, "  mov %s [rax], %s\n", SizeDirective(size), RDI.Name(size))
	return nil
}

// genIf lowers an if/else: a single conditional jump over the `then`
// arm when there is no `else`, otherwise the usual jump-over-then,
// jump-past-else pair.
func (g *Generator) genIf(w *strings.Builder, s *ast.If) error {
	cond, ok := s.Condition.(*ast.Expression)
	if !ok {
		return &InternalError{Message: "if condition must be an expression", Pos: s.Position}
	}
	if err := g.genIntExpr(w, cond, 1); err != nil {
		return err
	}
	fmt.Fprintf(w, "  test al, al\n")

	if len(s.Else) == 0 {
		end := g.nextLabel()
		fmt.Fprintf(w, "  jz %s\n", end)
		if err := g.genBlock(w, s.Then); err != nil {
			return err
		}
		fmt.Fprintf(w, "%s:\n", end)
		return nil
	}

	elseLabel := g.nextLabel()
	end := g.nextLabel()
	fmt.Fprintf(w, "  jz %s\n", elseLabel)
	if err := g.genBlock(w, s.Then); err != nil {
		return err
	}
	fmt.Fprintf(w, "  jmp %s\n", end)
	fmt.Fprintf(w, "%s:\n", elseLabel)
	if err := g.genBlock(w, s.Else); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s:\n", end)
	return nil
}

// genWhile lowers a while loop as a condition-check-first loop with
// two labels, the same template genFor's condition/body/update skeleton
// builds on.
func (g *Generator) genWhile(w *strings.Builder, s *ast.While) error {
	cond, ok := s.Condition.(*ast.Expression)
	if !ok {
		return &InternalError{Message: "while condition must be an expression", Pos: s.Position}
	}
	top := g.nextLabel()
	end := g.nextLabel()
	fmt.Fprintf(w, "%s:\n", top)
	if err := g.genIntExpr(w, cond, 1); err != nil {
		return err
	}
	fmt.Fprintf(w, "  test al, al\n")
	fmt.Fprintf(w, "  jz %s\n", end)
	if err := g.genBlock(w, s.Body); err != nil {
		return err
	}
	fmt.Fprintf(w, "  jmp %s\n", top)
	fmt.Fprintf(w, "%s:\n", end)
	return nil
}

// genFor lowers `for init; cond; update { body }` (spec §8 S5): init
// runs once outside the loop, cond gates each iteration, and update
// runs at the end of every iteration before the condition re-checks.
func (g *Generator) genFor(w *strings.Builder, s *ast.For) error {
	g.pushScope()
	defer g.popScope()

	if s.Init != nil {
		if err := g.genVariableStmt(w, s.Init); err != nil {
			return err
		}
	}

	top := g.nextLabel()
	end := g.nextLabel()
	fmt.Fprintf(w, "%s:\n", top)
	if cond, ok := s.Condition.(*ast.Expression); ok {
		if err := g.genIntExpr(w, cond, 1); err != nil {
			return err
		}
		fmt.Fprintf(w, "  test al, al\n")
		fmt.Fprintf(w, "  jz %s\n", end)
	}
	if err := g.genBlock(w, s.Body); err != nil {
		return err
	}
	if s.Update != nil {
		if err := g.genVariableStmt(w, s.Update); err != nil {
			return err
		}
	}
	fmt.Fprintf(w, "  jmp %s\n", top)
	fmt.Fprintf(w, "%s:\n", end)
	return nil
}

// genReturn lowers `return expr;` / bare `return;`: the result lands
// in rax (sized to the function's declared return type) or xmm0 for a
// float return, followed by its own leave/ret pair.
func (g *Generator) genReturn(w *strings.Builder, s *ast.Return) error {
	if s.Value == nil {
		w.WriteString("  leave\n")
		w.WriteString("  ret\n")
		return nil
	}
	expr, ok := s.Value.(*ast.Expression)
	if !ok {
		return &InternalError{Message: "return value must be an expression", Pos: s.Position}
	}
	if g.returnType.IsFloat() {
		if err := g.genFloatExpr(w, expr, g.returnType.FloatWidth.Bytes()); err != nil {
			return err
		}
	} else {
		size := g.returnType.Size()
		if size == 0 {
			size = 8
		}
		if err := g.genIntExpr(w, expr, size); err != nil {
			return err
		}
	}
	w.WriteString("  leave\n")
	w.WriteString("  ret\n")
	return nil
}

func literalArray(rhs *ast.Expression) (*ast.ArrayLiteral, bool) {
	if !rhs.IsLeaf() {
		return nil, false
	}
	lit, ok := rhs.Leaf.(*ast.ArrayLiteral)
	return lit, ok
}

func literalObject(rhs *ast.Expression) (*ast.ObjectLiteral, bool) {
	if !rhs.IsLeaf() {
		return nil, false
	}
	lit, ok := rhs.Leaf.(*ast.ObjectLiteral)
	return lit, ok
}

// storeArrayLiteral lowers a `let a: [T, N] = [e0, e1, ...]`
// initializer element by element. Element i lives at off-i*elemSize:
// index 0 sits at the array's lowest (base) address, and the frame
// offset convention (frame.go) puts that base at the variable's own
// offset (spec §4.3/SPEC_FULL.md §4.4-4.5).
func (g *Generator) storeArrayLiteral(w *strings.Builder, off int, t types.Type, rhs *ast.Expression) error {
	lit, ok := literalArray(rhs)
	if !ok {
		return &InternalError{Message: "array initializer must be a literal", Pos: rhs.Position}
	}
	elem := *t.Elem
	elemSize := elem.Size()
	for i, el := range lit.Elements {
		elExpr, ok := el.(*ast.Expression)
		if !ok {
			return &InternalError{Message: "array element must be an expression", Pos: rhs.Position}
		}
		elemOff := off - i*elemSize
		if elem.IsFloat() {
			width := elem.FloatWidth.Bytes()
			if err := g.genFloatExpr(w, elExpr, width); err != nil {
				return err
			}
			fmt.Fprintf(w, "  %s %s, xmm0\n", movInstr(width), memOperand(elemOff))
		} else {
			if err := g.genIntExpr(w, elExpr, elemSize); err != nil {
				return err
			}
			fmt.Fprintf(w, "  mov %s %s, %s\n", SizeDirective(elemSize), memOperand(elemOff), RAX.Name(elemSize))
		}
	}
	return nil
}

// storeObjectLiteral lowers a `let r: Name = Name { field: expr, ... }`
// record initializer field by field, in declaration order (field-order
// matching is enforced earlier by internal/typecheck). Each record is
// laid out contiguously starting at the variable's own frame offset,
// mirroring the array convention above.
func (g *Generator) storeObjectLiteral(w *strings.Builder, off int, t types.Type, rhs *ast.Expression) error {
	lit, ok := literalObject(rhs)
	if !ok {
		return &InternalError{Message: "record initializer must be a literal", Pos: rhs.Position}
	}
	fields := g.records.Records[t.CustomName]
	cur := 0
	for i, f := range fields {
		if i >= len(lit.Fields) {
			break
		}
		fieldOff := off - cur
		valExpr, ok := lit.Fields[i].Value.(*ast.Expression)
		if !ok {
			return &InternalError{Message: "record field initializer must be an expression", Pos: rhs.Position}
		}
		if f.Type.IsFloat() {
			width := f.Type.FloatWidth.Bytes()
			if err := g.genFloatExpr(w, valExpr, width); err != nil {
				return err
			}
			fmt.Fprintf(w, "  %s %s, xmm0\n", movInstr(width), memOperand(fieldOff))
		} else {
			size := f.Type.Size()
			if err := g.genIntExpr(w, valExpr, size); err != nil {
				return err
			}
			fmt.Fprintf(w, "  mov %s %s, %s\n", SizeDirective(size), memOperand(fieldOff), RAX.Name(size))
		}
		cur += f.Type.Size()
	}
	return nil
}
