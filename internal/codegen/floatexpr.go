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
)

func movInstr(width int) string {
	if width == 8 {
		return "movsd"
	}
	return "movss"
}

func arithSuffix(width int) string {
	if width == 8 {
		return "sd"
	}
	return "ss"
}

// signMaskLabel interns the single-bit sign mask used to flip a
// float's sign via xorps/xorpd, since there is no xmm negate
// instruction.
func (g *Generator) signMaskLabel(width int) string {
	if width == 8 {
		return g.internFloatBits(1<<63, 8)
	}
	return g.internFloatBits(1<<31, 4)
}

// genFloatExpr evaluates a float-typed expression into xmm0 at the
// given width (4 or 8 bytes), mirroring genIntExpr's structure but
// over the xmm bank (spec §4.7). The running value is spilled to the
// stack (rather than a second fixed xmm register) while the other
// operand evaluates, since operand subexpressions can themselves
// contain nested calls that clobber xmm0-xmm3.
func (g *Generator) genFloatExpr(w *strings.Builder, e *ast.Expression, width int) error {
	if e.IsLeaf() {
		return g.genFloatLeaf(w, e, width)
	}

	if err := g.genFloatExpr(w, e.Lhs, width); err != nil {
		return err
	}
	w.WriteString("  sub rsp, 8\n")
	fmt.Fprintf(w, "  %s [rsp], xmm0\n", movInstr(width))
	if err := g.genFloatExpr(w, e.Rhs, width); err != nil {
		return err
	}
	fmt.Fprintf(w, "  %s xmm1, xmm0\n", movInstr(width))
	fmt.Fprintf(w, "  %s xmm0, [rsp]\n", movInstr(width))
	w.WriteString("  add rsp, 8\n")

	op := arithSuffix(width)
	switch e.Operator {
	case token.PLUS:
		fmt.Fprintf(w, "  add%s xmm0, xmm1\n", op)
	case token.MINUS:
		fmt.Fprintf(w, "  sub%s xmm0, xmm1\n", op)
	case token.STAR:
		fmt.Fprintf(w, "  mul%s xmm0, xmm1\n", op)
	case token.SLASH:
		fmt.Fprintf(w, "  div%s xmm0, xmm1\n", op)
	default:
		return &InternalError{Message: "unsupported float operator", Pos: e.Position}
	}
	return nil
}

// genFloatLeaf lowers a leaf float expression: a float literal
// (interned into the constant pool), an identifier/index/call
// producing a float, or an int-to-float cast -- the one point where
// the integer and float pipelines hand off a value to each other.
func (g *Generator) genFloatLeaf(w *strings.Builder, e *ast.Expression, width int) error {
	if lit, ok := e.Leaf.(*ast.FloatLit); ok {
		v := lit.Value
		if !e.Positive {
			v = -v
		}
		label := g.internFloatOfWidth(v, width)
		fmt.Fprintf(w, "  %s xmm0, [%s]\n", movInstr(width), label)
		return nil
	}

	if needsIntToFloat(e) {
		if err := g.genIntExpr(w, stripFloatCast(e), 8); err != nil {
			return err
		}
		instr := "cvtsi2ss"
		if width == 8 {
			instr = "cvtsi2sd"
		}
		fmt.Fprintf(w, "  %s xmm0, rax\n", instr)
		return nil
	}

	if e.Index != nil {
		if err := g.genIndexAddress(w, e); err != nil {
			return err
		}
		fmt.Fprintf(w, "  %s xmm0, [rax]\n", movInstr(width))
	} else {
		switch v := e.Leaf.(type) {
		case *ast.Identifier:
			sym, ok := g.lookupLocal(v.Name)
			if !ok {
				return &InternalError{Message: "undefined local " + v.Name, Pos: e.Position}
			}
			derefs := 0
			for _, p := range e.Prefix {
				if p.Kind == ast.PrefixDeref {
					derefs++
				}
			}
			if derefs > 0 && sym.typ.IsPointer() {
				pointee := sym.typ
				for i := 0; i < derefs && pointee.IsPointer(); i++ {
					pointee = *pointee.Elem
				}
				src := width
				if pointee.IsFloat() {
					src = pointee.FloatWidth.Bytes()
				}
				fmt.Fprintf(w, "  mov rax, %s\n", memOperand(sym.offset))
				for i := 0; i < derefs-1; i++ {
					w.WriteString("  mov rax, [rax]\n")
				}
				fmt.Fprintf(w, "  %s xmm0, [rax]\n", movInstr(src))
				emitFloatWidthConvert(w, src, width)
				break
			}
			src := width
			if sym.typ.IsFloat() {
				src = sym.typ.FloatWidth.Bytes()
			}
			fmt.Fprintf(w, "  %s xmm0, %s\n", movInstr(src), memOperand(sym.offset))
			emitFloatWidthConvert(w, src, width)
		case *ast.MethodCall:
			if err := g.genCall(w, v); err != nil {
				return err
			}
			src := width
			if rt := typeOf(v); rt.IsFloat() {
				src = rt.FloatWidth.Bytes()
			}
			emitFloatWidthConvert(w, src, width)
		default:
			return &InternalError{Message: "unsupported leaf in float expression", Pos: e.Position}
		}
	}

	if !e.Positive {
		label := g.signMaskLabel(width)
		instr := "xorps"
		if width == 8 {
			instr = "xorpd"
		}
		fmt.Fprintf(w, "  %s xmm0, [%s]\n", instr, label)
	}
	return nil
}

// emitFloatWidthConvert bridges a value sitting in xmm0 at src bytes
// to the requested width via cvtss2sd/cvtsd2ss (spec §4.7's
// float-to-float cast rule). Equal widths emit nothing.
func emitFloatWidthConvert(w *strings.Builder, src, width int) {
	switch {
	case src == width:
	case src == 4:
		w.WriteString("  cvtss2sd xmm0, xmm0\n")
	default:
		w.WriteString("  cvtsd2ss xmm0, xmm0\n")
	}
}

// internFloatOfWidth interns v at the requested width, reusing the
// narrower float32 path when width is 4.
func (g *Generator) internFloatOfWidth(v float64, width int) string {
	if width == 4 {
		return g.internFloat32(v)
	}
	return g.internFloat64(v)
}

// needsIntToFloat reports whether e's leaf is an integer-typed value
// wearing a trailing cast to a float type, requiring a handoff from
// the integer pipeline via cvtsi2ss/cvtsi2sd.
func needsIntToFloat(e *ast.Expression) bool {
	if len(e.Prefix) == 0 {
		return false
	}
	last := e.Prefix[len(e.Prefix)-1]
	if last.Kind != ast.PrefixCast || !last.CastType.IsFloat() {
		return false
	}
	// a float value wearing a float cast stays in the xmm pipeline;
	// only a genuinely integer-typed source needs the cvtsi2 handoff
	return !typeOf(e.Leaf).IsFloat()
}

// stripFloatCast builds a shallow copy of e with its trailing
// float-cast prefix removed, so the integer pipeline can evaluate the
// underlying int-typed value before conversion.
func stripFloatCast(e *ast.Expression) *ast.Expression {
	cp := *e
	cp.Prefix = cp.Prefix[:len(cp.Prefix)-1]
	cp.ResolvedType = nil
	return &cp
}

// genFloatComparison lowers a relational/equality operator over two
// float operands via ucomiss/ucomisd (spec §4.7), using the setcc
// mnemonics it shares with the integer path. An unordered result (a
// NaN operand) sets ZF, PF and CF together; PF is not checked, so
// ==, <, and <= report true and !=, >, and >= report false for it.
func (g *Generator) genFloatComparison(w *strings.Builder, e *ast.Expression) error {
	width := typeOf(e.Lhs).FloatWidth.Bytes()
	op := "ucomiss"
	if width == 8 {
		op = "ucomisd"
	}
	if err := g.genFloatExpr(w, e.Lhs, width); err != nil {
		return err
	}
	w.WriteString("  sub rsp, 8\n")
	fmt.Fprintf(w, "  %s [rsp], xmm0\n", movInstr(width))
	if err := g.genFloatExpr(w, e.Rhs, width); err != nil {
		return err
	}
	fmt.Fprintf(w, "  %s xmm1, xmm0\n", movInstr(width))
	fmt.Fprintf(w, "  %s xmm0, [rsp]\n", movInstr(width))
	w.WriteString("  add rsp, 8\n")
	fmt.Fprintf(w, "  %s xmm0, xmm1\n", op)
	// ucomiss/ucomisd set CF/ZF/PF like an unsigned integer compare, so
	// the unsigned setcc spellings (setb/seta/...) are the correct ones
	// here even though the operands are signed floats.
	fmt.Fprintf(w, "  %s al\n", setccFor(e.Operator, false))
	return nil
}
