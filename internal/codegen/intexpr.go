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
	"github.com/tomyk9991/monkeyc/internal/token"
	"github.com/tomyk9991/monkeyc/internal/types"
)

// genIntExpr evaluates e into rax sized to size bytes: any integer,
// boolean, or pointer expression (spec §4.7's two-accumulator
// template). Float subexpressions of a comparison are routed to
// genFloatComparison instead.
func (g *Generator) genIntExpr(w *strings.Builder, e *ast.Expression, size int) error {
	if e.Operator == token.LOGAND || e.Operator == token.LOGOR {
		return g.genShortCircuit(w, e)
	}
	if e.IsLeaf() {
		return g.genLeafInto(w, e, size)
	}
	if isComparison(e.Operator) {
		if typeOf(e.Lhs).IsFloat() {
			return g.genFloatComparison(w, e)
		}
		return g.genComparison(w, e)
	}
	switch e.Operator {
	case token.SLASH, token.PERCENT:
		return g.genDivMod(w, e, size)
	case token.SHL, token.SHR:
		return g.genShift(w, e, size)
	default:
		return g.genArithmetic(w, e, size)
	}
}

func isComparison(op token.Kind) bool {
	switch op {
	case token.EQ, token.NE, token.LT, token.GT, token.LE, token.GE:
		return true
	}
	return false
}

// literalImmediate reports whether e is a bare literal leaf (no
// prefixes, no index) that can be folded into an instruction's
// immediate operand instead of a register (spec §8 S4/S5's `and al,
// 1` / `cmp eax, 5` style).
func literalImmediate(e *ast.Expression) (int64, bool) {
	if !e.IsLeaf() || e.Index != nil || len(e.Prefix) != 0 {
		return 0, false
	}
	switch v := e.Leaf.(type) {
	case *ast.IntegerLit:
		val := v.Value
		if !e.Positive {
			val = -val
		}
		return val, true
	case *ast.BoolLit:
		if v.Value {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func instrFor(op token.Kind) string {
	switch op {
	case token.PLUS:
		return "add"
	case token.MINUS:
		return "sub"
	case token.STAR:
		return "imul"
	case token.AMP:
		return "and"
	case token.PIPE:
		return "or"
	case token.CARET:
		return "xor"
	}
	return "?"
}

// genArithmetic handles +, -, *, &, |, ^: a literal RHS folds straight
// into the instruction's immediate operand; otherwise LHS is saved
// across RHS evaluation and restored into rax (spec §4.7).
func (g *Generator) genArithmetic(w *strings.Builder, e *ast.Expression, size int) error {
	reg := RAX.Name(size)
	if imm, ok := literalImmediate(e.Rhs); ok {
		if err := g.genIntExpr(w, e.Lhs, size); err != nil {
			return err
		}
		fmt.Fprintf(w, "  %s %s, %d\n", instrFor(e.Operator), reg, imm)
		return nil
	}

	if err := g.genIntExpr(w, e.Lhs, size); err != nil {
		return err
	}
	w.WriteString("  push rax\n")
	if err := g.genIntExpr(w, e.Rhs, size); err != nil {
		return err
	}
	fmt.Fprintf(w, "  mov %s, %s\n", RDI.Name(size), reg)
	w.WriteString("  pop rax\n")
	fmt.Fprintf(w, "  %s %s, %s\n", instrFor(e.Operator), reg, RDI.Name(size))
	return nil
}

// genDivMod lowers / and %. idiv/div clobber edx, so the generator
// spills it around the division the way spec §4.7 prescribes.
func (g *Generator) genDivMod(w *strings.Builder, e *ast.Expression, size int) error {
	if err := g.genIntExpr(w, e.Lhs, size); err != nil {
		return err
	}
	w.WriteString("  push rax\n")
	if err := g.genIntExpr(w, e.Rhs, size); err != nil {
		return err
	}
	fmt.Fprintf(w, "  mov %s, %s\n", RCX.Name(size), RAX.Name(size))
	w.WriteString("  pop rax\n")
	w.WriteString("  push rdx\n")

	signed := typeOf(e).IsInteger() && typeOf(e).IntWidth.Signed()
	if signed {
		w.WriteString("  " + signExtendInstr(size) + "\n")
		fmt.Fprintf(w, "  idiv %s\n", RCX.Name(size))
	} else {
		fmt.Fprintf(w, "  xor %s, %s\n", RDX.Name(size), RDX.Name(size))
		fmt.Fprintf(w, "  div %s\n", RCX.Name(size))
	}
	if e.Operator == token.PERCENT {
		fmt.Fprintf(w, "  mov %s, %s\n", RAX.Name(size), RDX.Name(size))
	}
	w.WriteString("  pop rdx\n")
	return nil
}

func signExtendInstr(size int) string {
	switch {
	case size >= 8:
		return "cqo"
	case size >= 4:
		return "cdq"
	default:
		return "cwd"
	}
}

// genShift lowers << and >>: the shift count always travels in cl,
// per the x86 shift-by-register encoding.
func (g *Generator) genShift(w *strings.Builder, e *ast.Expression, size int) error {
	if err := g.genIntExpr(w, e.Lhs, size); err != nil {
		return err
	}
	w.WriteString("  push rax\n")
	if err := g.genIntExpr(w, e.Rhs, size); err != nil {
		return err
	}
	fmt.Fprintf(w, "  mov %s, %s\n", RCX.Name(1), RAX.Name(1))
	w.WriteString("  pop rax\n")

	instr := "shl"
	if e.Operator == token.SHR {
		instr = "shr"
		if typeOf(e.Lhs).IsInteger() && typeOf(e.Lhs).IntWidth.Signed() {
			instr = "sar"
		}
	}
	fmt.Fprintf(w, "  %s %s, cl\n", instr, RAX.Name(size))
	return nil
}

func setccFor(op token.Kind, signed bool) string {
	switch op {
	case token.EQ:
		return "sete"
	case token.NE:
		return "setne"
	case token.LT:
		if signed {
			return "setl"
		}
		return "setb"
	case token.GT:
		if signed {
			return "setg"
		}
		return "seta"
	case token.LE:
		if signed {
			return "setle"
		}
		return "setbe"
	case token.GE:
		if signed {
			return "setge"
		}
		return "setae"
	}
	return "sete"
}

// genComparison lowers the six relational/equality operators over
// integer, pointer, or boolean operands into a cmp + setcc pair (spec
// §8 S5).
func (g *Generator) genComparison(w *strings.Builder, e *ast.Expression) error {
	opSize := typeOf(e.Lhs).Size()
	if opSize == 0 {
		opSize = 4
	}
	signed := typeOf(e.Lhs).IsInteger() && typeOf(e.Lhs).IntWidth.Signed()

	if imm, ok := literalImmediate(e.Rhs); ok {
		if err := g.genIntExpr(w, e.Lhs, opSize); err != nil {
			return err
		}
		fmt.Fprintf(w, "  cmp %s, %d\n", RAX.Name(opSize), imm)
	} else {
		if err := g.genIntExpr(w, e.Lhs, opSize); err != nil {
			return err
		}
		w.WriteString("  push rax\n")
		if err := g.genIntExpr(w, e.Rhs, opSize); err != nil {
			return err
		}
		fmt.Fprintf(w, "  mov %s, %s\n", RDI.Name(opSize), RAX.Name(opSize))
		w.WriteString("  pop rax\n")
		fmt.Fprintf(w, "  cmp %s, %s\n", RAX.Name(opSize), RDI.Name(opSize))
	}
	fmt.Fprintf(w, "  %s al\n", setccFor(e.Operator, signed))
	return nil
}

// genLeafInto lowers a leaf Expression: its prefix chain (address-of,
// dereference(s), cast, logical/bitwise not), its optional index
// suffix, and its unary sign.
func (g *Generator) genLeafInto(w *strings.Builder, e *ast.Expression, size int) error {
	if src, ok := floatToIntSource(e); ok {
		cp := *e
		cp.Prefix = cp.Prefix[:len(cp.Prefix)-1]
		cp.ResolvedType = nil
		cp.Positive = true
		if err := g.genFloatExpr(w, &cp, src); err != nil {
			return err
		}
		instr := "cvtss2si"
		if src == 8 {
			instr = "cvtsd2si"
		}
		dst := RAX.Name(4)
		if size >= 8 {
			dst = RAX.Name(8)
		}
		fmt.Fprintf(w, "  %s %s, xmm0\n", instr, dst)
		if !e.Positive {
			fmt.Fprintf(w, "  neg %s\n", RAX.Name(size))
		}
		return nil
	}

	prefixes := e.Prefix
	hasAddr := len(prefixes) > 0 && prefixes[0].Kind == ast.PrefixAddr
	rest := prefixes
	if hasAddr {
		rest = prefixes[1:]
	}

	if hasAddr {
		if err := g.genAddress(w, e); err != nil {
			return err
		}
		for _, p := range rest {
			if p.Kind == ast.PrefixDeref {
				fmt.Fprintf(w, "  mov %s, [rax]\n", RAX.Name(size))
			}
		}
	} else {
		derefCount := 0
		for _, p := range rest {
			if p.Kind == ast.PrefixDeref {
				derefCount++
			}
		}
		if err := g.loadLeafValue(w, e, size, derefCount); err != nil {
			return err
		}
	}

	for _, p := range rest {
		switch p.Kind {
		case ast.PrefixNot:
			fmt.Fprintf(w, "  xor %s, 1\n", RAX.Name(size))
		case ast.PrefixBitNot:
			fmt.Fprintf(w, "  not %s\n", RAX.Name(size))
		}
	}
	if !e.Positive {
		fmt.Fprintf(w, "  neg %s\n", RAX.Name(size))
	}
	return nil
}

// floatToIntSource reports whether e is a float-typed leaf wearing a
// trailing cast to an integer type — the cvtss2si/cvtsd2si handoff
// point out of the float pipeline — and, if so, the float's byte width.
func floatToIntSource(e *ast.Expression) (int, bool) {
	if len(e.Prefix) == 0 || e.Index != nil {
		return 0, false
	}
	last := e.Prefix[len(e.Prefix)-1]
	if last.Kind != ast.PrefixCast || !last.CastType.IsInteger() {
		return 0, false
	}
	src := typeOf(e.Leaf)
	if !src.IsFloat() {
		return 0, false
	}
	return src.FloatWidth.Bytes(), true
}

// loadLeafValue loads e's base Leaf (applying an Index suffix, if
// any) into rax. derefCount pointer indirections are chased first at
// pointer width, with only the final indirection sized to the
// caller's requested width.
func (g *Generator) loadLeafValue(w *strings.Builder, e *ast.Expression, size, derefCount int) error {
	if derefCount == 0 {
		return g.loadBase(w, e, size)
	}
	if err := g.loadBase(w, e, 8); err != nil {
		return err
	}
	for i := 0; i < derefCount-1; i++ {
		w.WriteString("  mov rax, [rax]\n")
	}
	fmt.Fprintf(w, "  mov %s, [rax]\n", RAX.Name(size))
	return nil
}

func (g *Generator) loadBase(w *strings.Builder, e *ast.Expression, size int) error {
	if e.Index != nil {
		if err := g.genIndexAddress(w, e); err != nil {
			return err
		}
		fmt.Fprintf(w, "  mov %s, [rax]\n", RAX.Name(size))
		return nil
	}

	switch v := e.Leaf.(type) {
	case *ast.IntegerLit:
		fmt.Fprintf(w, "  mov %s, %d\n", RAX.Name(size), v.Value)
	case *ast.BoolLit:
		val := 0
		if v.Value {
			val = 1
		}
		fmt.Fprintf(w, "  mov al, %d\n", val)
	case *ast.StaticString:
		label := g.internString(v.Value)
		fmt.Fprintf(w, "  mov rax, %s\n", label)
	case *ast.Identifier:
		sym, ok := g.lookupLocal(v.Name)
		if !ok {
			return &InternalError{Message: "undefined local " + v.Name, Pos: e.Position}
		}
		g.loadWidened(w, sym, size)
	case *ast.MethodCall:
		if err := g.genCall(w, v); err != nil {
			return err
		}
	default:
		return &InternalError{Message: "unsupported leaf in integer expression", Pos: e.Position}
	}
	return nil
}

// loadWidened loads an integer local into rax at the requested width.
// A load wider than the local's declared storage goes through
// movzx/movsx (movsxd for the signed dword-to-qword form, a plain
// dword mov for the unsigned one, which zero-extends on its own); any
// other load reads the slot at the requested width directly (spec
// §4.7's cast rules: narrowing just uses the low bits).
func (g *Generator) loadWidened(w *strings.Builder, sym localSym, size int) {
	declared := sym.typ.Size()
	if !sym.typ.IsInteger() || declared == 0 || declared >= size {
		fmt.Fprintf(w, "  mov %s, %s\n", RAX.Name(size), memOperand(sym.offset))
		return
	}
	signed := sym.typ.IntWidth.Signed()
	switch {
	case declared == 4 && signed:
		fmt.Fprintf(w, "  movsxd rax, %s %s\n", SizeDirective(4), memOperand(sym.offset))
	case declared == 4:
		fmt.Fprintf(w, "  mov eax, %s %s\n", SizeDirective(4), memOperand(sym.offset))
	case signed:
		fmt.Fprintf(w, "  movsx %s, %s %s\n", RAX.Name(size), SizeDirective(declared), memOperand(sym.offset))
	default:
		fmt.Fprintf(w, "  movzx %s, %s %s\n", RAX.Name(size), SizeDirective(declared), memOperand(sym.offset))
	}
}

// genAddress computes the address of e's leaf (+ index), used for the
// `&` prefix (spec §8 S6). Only identifiers (optionally indexed) have
// an address; taking the address of any other leaf kind is an
// internal error, caught earlier by the type checker.
func (g *Generator) genAddress(w *strings.Builder, e *ast.Expression) error {
	if e.Index != nil {
		return g.genIndexAddress(w, e)
	}
	id, ok := e.Leaf.(*ast.Identifier)
	if !ok {
		return &InternalError{Message: "cannot take the address of a non-identifier expression", Pos: e.Position}
	}
	sym, ok := g.lookupLocal(id.Name)
	if !ok {
		return &InternalError{Message: "undefined local " + id.Name, Pos: e.Position}
	}
	fmt.Fprintf(w, "  lea rax, %s\n", memOperand(sym.offset))
	return nil
}

// genIndexAddress computes the effective address of e.Leaf[e.Index]
// into rax: the array/pointer base, plus the (possibly non-constant)
// index scaled by the element size.
func (g *Generator) genIndexAddress(w *strings.Builder, e *ast.Expression) error {
	id, ok := e.Leaf.(*ast.Identifier)
	if !ok {
		return &InternalError{Message: "index base must be an identifier", Pos: e.Position}
	}
	sym, ok := g.lookupLocal(id.Name)
	if !ok {
		return &InternalError{Message: "undefined local " + id.Name, Pos: e.Position}
	}
	if sym.typ.Elem == nil {
		return &InternalError{Message: id.Name + " is not indexable", Pos: e.Position}
	}
	elem := *sym.typ.Elem

	if sym.typ.IsArray() {
		fmt.Fprintf(w, "  lea rax, %s\n", memOperand(sym.offset))
	} else {
		fmt.Fprintf(w, "  mov rax, %s\n", memOperand(sym.offset))
	}

	if idx, ok := literalIndex(e.Index); ok {
		fmt.Fprintf(w, "  add rax, %d\n", idx*int64(elem.Size()))
		return nil
	}

	idxExpr, ok := e.Index.(*ast.Expression)
	if !ok {
		return &InternalError{Message: "index must be an expression", Pos: e.Position}
	}
	w.WriteString("  push rax\n")
	if err := g.genIntExpr(w, idxExpr, 8); err != nil {
		return err
	}
	fmt.Fprintf(w, "  imul rax, %d\n", elem.Size())
	w.WriteString("  mov rdi, rax\n")
	w.WriteString("  pop rax\n")
	w.WriteString("  add rax, rdi\n")
	return nil
}

func literalIndex(a ast.Assignable) (int64, bool) {
	e, ok := a.(*ast.Expression)
	if !ok {
		return 0, false
	}
	return literalImmediate(e)
}

// lvalueElemAddress computes the storage address of an IndexLValue or
// DerefLValue into rax for an assignment's target side (spec §4), and
// reports the element type stored there. Only a directly-named
// identifier as the inner l-value is supported; deeper nesting (an
// index of an index, say) is rare enough in practice that supporting
// it is left for a future pass.
func (g *Generator) lvalueElemAddress(w *strings.Builder, lv ast.LValue) (types.Type, error) {
	switch v := lv.(type) {
	case *ast.IndexLValue:
		id, ok := v.Inner.(*ast.IdentLValue)
		if !ok {
			return types.Type{}, &InternalError{Message: "unsupported nested index assignment target", Pos: v.Position}
		}
		sym, ok := g.lookupLocal(id.Name)
		if !ok {
			return types.Type{}, &InternalError{Message: "undefined local " + id.Name, Pos: v.Position}
		}
		if sym.typ.Elem == nil {
			return types.Type{}, &InternalError{Message: id.Name + " is not indexable", Pos: v.Position}
		}
		elem := *sym.typ.Elem
		if sym.typ.IsArray() {
			fmt.Fprintf(w, "  lea rax, %s\n", memOperand(sym.offset))
		} else {
			fmt.Fprintf(w, "  mov rax, %s\n", memOperand(sym.offset))
		}
		if idx, ok := literalIndex(v.Index); ok {
			fmt.Fprintf(w, "  add rax, %d\n", idx*int64(elem.Size()))
			return elem, nil
		}
		idxExpr, ok := v.Index.(*ast.Expression)
		if !ok {
			return types.Type{}, &InternalError{Message: "index must be an expression", Pos: v.Position}
		}
		w.WriteString("  push rax\n")
		if err := g.genIntExpr(w, idxExpr, 8); err != nil {
			return types.Type{}, err
		}
		fmt.Fprintf(w, "  imul rax, %d\n", elem.Size())
		w.WriteString("  mov rdi, rax\n")
		w.WriteString("  pop rax\n")
		w.WriteString("  add rax, rdi\n")
		return elem, nil

	case *ast.DerefLValue:
		id, ok := v.Inner.(*ast.IdentLValue)
		if !ok {
			return types.Type{}, &InternalError{Message: "unsupported nested deref assignment target", Pos: v.Position}
		}
		sym, ok := g.lookupLocal(id.Name)
		if !ok {
			return types.Type{}, &InternalError{Message: "undefined local " + id.Name, Pos: v.Position}
		}
		if sym.typ.Elem == nil {
			return types.Type{}, &InternalError{Message: id.Name + " is not a pointer", Pos: v.Position}
		}
		fmt.Fprintf(w, "  mov rax, %s\n", memOperand(sym.offset))
		return *sym.typ.Elem, nil
	}
	return types.Type{}, &InternalError{Message: "not an addressable assignment target", Pos: lv.Pos()}
}

// memOperand spells an `[rbp-N]` operand for a frame offset.
//
// An int-to-int PrefixCast needs no dedicated lowering here: the
// entire leaf-load path always loads at the caller-requested final
// width, so narrowing is just "use the narrower register alias", and
// widening a local goes through loadWidened's movzx/movsx/movsxd.
func memOperand(offset int) string {
	return fmt.Sprintf("[rbp-%d]", offset)
}
