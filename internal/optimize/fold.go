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

package optimize

import (
	"github.com/tomyk9991/monkeyc/internal/ast"
	"github.com/tomyk9991/monkeyc/internal/token"
	"github.com/tomyk9991/monkeyc/internal/types"
)

// FoldProgram runs constant folding in place over every non-extern
// function body in prog (spec §4.6). It is idempotent: running it
// again on an already-folded tree is a no-op.
func FoldProgram(prog *ast.Program) {
	funcs := map[string]*ast.MethodDefinition{}
	var ordered []*ast.MethodDefinition
	for _, d := range prog.Declarations {
		if fn, ok := d.(*ast.MethodDefinition); ok {
			funcs[fn.Name] = fn
			ordered = append(ordered, fn)
		}
	}
	markPurity(ordered, funcs)
	for _, d := range prog.Declarations {
		if fn, ok := d.(*ast.MethodDefinition); ok && !fn.IsExtern {
			foldBlock(fn.Body, funcs)
		}
	}
	foldBlock(ast.ScriptStatements(prog), funcs)
}

func foldBlock(body []ast.Node, funcs map[string]*ast.MethodDefinition) {
	for _, stmt := range body {
		switch n := stmt.(type) {
		case *ast.Variable:
			foldInPlace(&n.Assignable, funcs)
		case *ast.If:
			foldInPlace(&n.Condition, funcs)
			foldBlock(n.Then, funcs)
			foldBlock(n.Else, funcs)
		case *ast.While:
			foldInPlace(&n.Condition, funcs)
			foldBlock(n.Body, funcs)
		case *ast.For:
			foldInPlace(&n.Init.Assignable, funcs)
			foldInPlace(&n.Condition, funcs)
			foldInPlace(&n.Update.Assignable, funcs)
			foldBlock(n.Body, funcs)
		case *ast.Return:
			if n.Value != nil {
				foldInPlace(&n.Value, funcs)
			}
		case *ast.ExprStatement:
			for i := range n.Call.Args {
				foldInPlace(&n.Call.Args[i], funcs)
			}
		}
	}
}

// foldInPlace folds the Assignable in slot. An Expression tree is
// collapsed in place (codegen requires statement operands to stay
// Expression-shaped); anything else is swapped for its literal when
// one exists.
func foldInPlace(slot *ast.Assignable, funcs map[string]*ast.MethodDefinition) {
	a := *slot
	if a == nil {
		return
	}
	if expr, ok := a.(*ast.Expression); ok {
		foldExpression(expr, nil, funcs)
		return
	}
	if lit, ok := foldAssignable(a, nil, funcs); ok {
		*slot = lit
	}
}

// literalLeaf unwraps a collapsed leaf Expression down to its literal,
// passing a bare literal straight through.
func literalLeaf(a ast.Assignable) (ast.Assignable, bool) {
	switch v := a.(type) {
	case *ast.IntegerLit, *ast.FloatLit, *ast.BoolLit:
		return v, true
	case *ast.Expression:
		if v.IsLeaf() && len(v.Prefix) == 0 && v.Index == nil && v.Positive {
			return literalLeaf(v.Leaf)
		}
	}
	return nil, false
}

// copyAssignable deep-copies an expression tree. Const-pure function
// evaluation folds a fresh copy of the callee's body per call site, so
// a second call with different arguments never sees the collapsed
// residue of the first.
func copyAssignable(a ast.Assignable) ast.Assignable {
	switch v := a.(type) {
	case *ast.Expression:
		cp := *v
		if v.Lhs != nil {
			cp.Lhs = copyAssignable(v.Lhs).(*ast.Expression)
		}
		if v.Rhs != nil {
			cp.Rhs = copyAssignable(v.Rhs).(*ast.Expression)
		}
		if v.Leaf != nil {
			cp.Leaf = copyAssignable(v.Leaf)
		}
		if v.Index != nil {
			cp.Index = copyAssignable(v.Index)
		}
		cp.Prefix = append([]ast.Prefix(nil), v.Prefix...)
		return &cp
	case *ast.MethodCall:
		cp := *v
		cp.Args = make([]ast.Assignable, len(v.Args))
		for i, arg := range v.Args {
			cp.Args[i] = copyAssignable(arg)
		}
		return &cp
	case *ast.IntegerLit:
		cp := *v
		return &cp
	case *ast.FloatLit:
		cp := *v
		return &cp
	case *ast.BoolLit:
		cp := *v
		return &cp
	default:
		return a
	}
}

// env substitutes literal values for identifiers during const-pure
// function evaluation; it is nil everywhere else in the program (an
// ordinary Identifier never folds — it names a runtime binding).
type env map[string]ast.Assignable

func foldAssignable(a ast.Assignable, e env, funcs map[string]*ast.MethodDefinition) (ast.Assignable, bool) {
	switch v := a.(type) {
	case *ast.IntegerLit, *ast.FloatLit, *ast.BoolLit:
		return v, true
	case *ast.Identifier:
		if e != nil {
			if val, ok := e[v.Name]; ok {
				return val, true
			}
		}
		return nil, false
	case *ast.MethodCall:
		return foldCall(v, e, funcs)
	case *ast.Expression:
		return foldExpression(v, e, funcs)
	}
	return nil, false
}

func foldCall(call *ast.MethodCall, e env, funcs map[string]*ast.MethodDefinition) (ast.Assignable, bool) {
	lits := make([]ast.Assignable, len(call.Args))
	allLiteral := true
	for i, arg := range call.Args {
		if expr, ok := arg.(*ast.Expression); ok {
			foldExpression(expr, e, funcs)
		}
		lit, ok := literalLeaf(call.Args[i])
		if !ok {
			allLiteral = false
			continue
		}
		lits[i] = lit
	}
	fn, known := funcs[call.Name]
	if !known || !fn.ConstPure || !allLiteral {
		return nil, false
	}
	return evalConstFunction(fn, lits, funcs)
}

func evalConstFunction(fn *ast.MethodDefinition, args []ast.Assignable, funcs map[string]*ast.MethodDefinition) (ast.Assignable, bool) {
	local := env{}
	for i, p := range fn.Arguments {
		if i < len(args) {
			local[p.Name] = args[i]
		}
	}
	for _, stmt := range fn.Body {
		switch n := stmt.(type) {
		case *ast.Variable:
			val, ok := foldAssignable(copyAssignable(n.Assignable), local, funcs)
			if !ok {
				return nil, false
			}
			lit, ok := literalLeaf(val)
			if !ok {
				return nil, false
			}
			local[n.LValue.(*ast.IdentLValue).Name] = lit
		case *ast.Return:
			if n.Value == nil {
				return nil, false
			}
			val, ok := foldAssignable(copyAssignable(n.Value), local, funcs)
			if !ok {
				return nil, false
			}
			return literalLeaf(val)
		}
	}
	return nil, false
}

func foldExpression(e *ast.Expression, en env, funcs map[string]*ast.MethodDefinition) (ast.Assignable, bool) {
	if e.IsLeaf() {
		lit, ok := foldAssignable(e.Leaf, en, funcs)
		if ok {
			e.Leaf = lit
		}
		if e.Index != nil || !ok {
			return nil, false
		}
		result, applied := applyPrefixes(lit, e.Prefix)
		if !applied {
			return nil, false
		}
		result = applySign(result, e.Positive)
		result = reconcileWidth(result, e.ResolvedType)
		collapseToLeaf(e, result)
		return result, true
	}

	lhs, lok := foldExpression(e.Lhs, en, funcs)
	rhs, rok := foldExpression(e.Rhs, en, funcs)
	if !lok || !rok {
		return nil, false
	}
	result, ok := applyBinOp(e.Operator, lhs, rhs)
	if !ok {
		return nil, false
	}
	result = reconcileWidth(result, e.ResolvedType)
	collapseToLeaf(e, result)
	return result, true
}

func collapseToLeaf(e *ast.Expression, lit ast.Assignable) {
	e.Operator = token.EOF
	e.Lhs = nil
	e.Rhs = nil
	e.Leaf = lit
	e.Prefix = nil
	e.Index = nil
	e.Positive = true
}

// reconcileWidth pins a folded literal to the width inference resolved
// for the surrounding expression. It never mutates its input: the
// literal may be shared with a call site's argument list.
func reconcileWidth(lit ast.Assignable, t *types.Type) ast.Assignable {
	if t == nil {
		return lit
	}
	switch v := lit.(type) {
	case *ast.IntegerLit:
		if t.IsInteger() {
			return &ast.IntegerLit{Value: maskWrap(v.Value, t.IntWidth), Width: t.IntWidth, HasWidth: true, Position: v.Position}
		}
	case *ast.FloatLit:
		if t.IsFloat() {
			return &ast.FloatLit{Value: v.Value, Width: t.FloatWidth, HasWidth: true, Position: v.Position}
		}
	}
	return lit
}

func applyPrefixes(lit ast.Assignable, prefixes []ast.Prefix) (ast.Assignable, bool) {
	for _, p := range prefixes {
		switch p.Kind {
		case ast.PrefixNot:
			b, ok := lit.(*ast.BoolLit)
			if !ok {
				return nil, false
			}
			lit = &ast.BoolLit{Value: !b.Value, Position: b.Position}
		case ast.PrefixBitNot:
			i, ok := lit.(*ast.IntegerLit)
			if !ok {
				return nil, false
			}
			lit = &ast.IntegerLit{Value: maskWrap(^i.Value, i.Width), Width: i.Width, HasWidth: true, Position: i.Position}
		case ast.PrefixCast:
			casted, ok := castLiteral(lit, p.CastType)
			if !ok {
				return nil, false
			}
			lit = casted
		case ast.PrefixAddr, ast.PrefixDeref:
			return nil, false
		}
	}
	return lit, true
}

func applySign(lit ast.Assignable, positive bool) ast.Assignable {
	if positive {
		return lit
	}
	switch v := lit.(type) {
	case *ast.IntegerLit:
		return &ast.IntegerLit{Value: maskWrap(-v.Value, v.Width), Width: v.Width, HasWidth: v.HasWidth, Position: v.Position}
	case *ast.FloatLit:
		return &ast.FloatLit{Value: -v.Value, Width: v.Width, HasWidth: v.HasWidth, Position: v.Position}
	}
	return lit
}

func castLiteral(lit ast.Assignable, target types.Type) (ast.Assignable, bool) {
	switch v := lit.(type) {
	case *ast.IntegerLit:
		if target.IsInteger() {
			return &ast.IntegerLit{Value: maskWrap(v.Value, target.IntWidth), Width: target.IntWidth, HasWidth: true, Position: v.Position}, true
		}
		if target.IsFloat() {
			return &ast.FloatLit{Value: float64(v.Value), Width: target.FloatWidth, HasWidth: true, Position: v.Position}, true
		}
	case *ast.FloatLit:
		if target.IsFloat() {
			return &ast.FloatLit{Value: v.Value, Width: target.FloatWidth, HasWidth: true, Position: v.Position}, true
		}
		if target.IsInteger() {
			return &ast.IntegerLit{Value: maskWrap(int64(v.Value), target.IntWidth), Width: target.IntWidth, HasWidth: true, Position: v.Position}, true
		}
	}
	return nil, false
}

// maskWrap truncates v to w's bit width, sign-extending for signed
// widths (two's-complement) and zero-extending for unsigned ones,
// matching spec §4.6's overflow semantics.
func maskWrap(v int64, w types.IntWidth) int64 {
	bits := w.Bytes() * 8
	if bits >= 64 {
		return v
	}
	mask := int64(1)<<uint(bits) - 1
	v &= mask
	if w.Signed() && v&(int64(1)<<uint(bits-1)) != 0 {
		v -= int64(1) << uint(bits)
	}
	return v
}

func applyBinOp(op token.Kind, lhs, rhs ast.Assignable) (ast.Assignable, bool) {
	if li, ok := lhs.(*ast.IntegerLit); ok {
		ri, ok := rhs.(*ast.IntegerLit)
		if !ok {
			return nil, false
		}
		return applyIntOp(op, li, ri)
	}
	if lf, ok := lhs.(*ast.FloatLit); ok {
		rf, ok := rhs.(*ast.FloatLit)
		if !ok {
			return nil, false
		}
		return applyFloatOp(op, lf, rf)
	}
	if lb, ok := lhs.(*ast.BoolLit); ok {
		rb, ok := rhs.(*ast.BoolLit)
		if !ok {
			return nil, false
		}
		return applyBoolOp(op, lb, rb)
	}
	return nil, false
}

func widerIntWidth(a, b types.IntWidth) types.IntWidth {
	if a.Bytes() >= b.Bytes() {
		return a
	}
	return b
}

func applyIntOp(op token.Kind, l, r *ast.IntegerLit) (ast.Assignable, bool) {
	width := widerIntWidth(l.Width, r.Width)
	intResult := func(v int64) (ast.Assignable, bool) {
		return &ast.IntegerLit{Value: maskWrap(v, width), Width: width, HasWidth: true}, true
	}
	switch op {
	case token.PLUS:
		return intResult(l.Value + r.Value)
	case token.MINUS:
		return intResult(l.Value - r.Value)
	case token.STAR:
		return intResult(l.Value * r.Value)
	case token.SLASH:
		if r.Value == 0 {
			return nil, false // spec §9(ii): division by zero is never folded, left for the runtime trap
		}
		return intResult(l.Value / r.Value)
	case token.PERCENT:
		if r.Value == 0 {
			return nil, false
		}
		return intResult(l.Value % r.Value)
	case token.AMP:
		return intResult(l.Value & r.Value)
	case token.PIPE:
		return intResult(l.Value | r.Value)
	case token.CARET:
		return intResult(l.Value ^ r.Value)
	case token.SHL:
		return intResult(l.Value << uint(r.Value))
	case token.SHR:
		return intResult(l.Value >> uint(r.Value))
	case token.EQ:
		return &ast.BoolLit{Value: l.Value == r.Value}, true
	case token.NE:
		return &ast.BoolLit{Value: l.Value != r.Value}, true
	case token.LT:
		return &ast.BoolLit{Value: l.Value < r.Value}, true
	case token.GT:
		return &ast.BoolLit{Value: l.Value > r.Value}, true
	case token.LE:
		return &ast.BoolLit{Value: l.Value <= r.Value}, true
	case token.GE:
		return &ast.BoolLit{Value: l.Value >= r.Value}, true
	}
	return nil, false
}

func applyFloatOp(op token.Kind, l, r *ast.FloatLit) (ast.Assignable, bool) {
	width := l.Width
	if r.Width.Bytes() > width.Bytes() {
		width = r.Width
	}
	floatResult := func(v float64) (ast.Assignable, bool) {
		return &ast.FloatLit{Value: v, Width: width, HasWidth: true}, true
	}
	switch op {
	case token.PLUS:
		return floatResult(l.Value + r.Value)
	case token.MINUS:
		return floatResult(l.Value - r.Value)
	case token.STAR:
		return floatResult(l.Value * r.Value)
	case token.SLASH:
		return floatResult(l.Value / r.Value) // IEEE-754: division by zero yields Inf/NaN, not an error
	case token.EQ:
		return &ast.BoolLit{Value: l.Value == r.Value}, true
	case token.NE:
		return &ast.BoolLit{Value: l.Value != r.Value}, true
	case token.LT:
		return &ast.BoolLit{Value: l.Value < r.Value}, true
	case token.GT:
		return &ast.BoolLit{Value: l.Value > r.Value}, true
	case token.LE:
		return &ast.BoolLit{Value: l.Value <= r.Value}, true
	case token.GE:
		return &ast.BoolLit{Value: l.Value >= r.Value}, true
	}
	return nil, false
}

func applyBoolOp(op token.Kind, l, r *ast.BoolLit) (ast.Assignable, bool) {
	switch op {
	case token.AMP, token.LOGAND:
		return &ast.BoolLit{Value: l.Value && r.Value}, true
	case token.PIPE, token.LOGOR:
		return &ast.BoolLit{Value: l.Value || r.Value}, true
	case token.CARET:
		return &ast.BoolLit{Value: l.Value != r.Value}, true
	case token.EQ:
		return &ast.BoolLit{Value: l.Value == r.Value}, true
	case token.NE:
		return &ast.BoolLit{Value: l.Value != r.Value}, true
	}
	return nil, false
}
