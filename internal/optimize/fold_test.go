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

package optimize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomyk9991/monkeyc/internal/ast"
	"github.com/tomyk9991/monkeyc/internal/lexer"
	"github.com/tomyk9991/monkeyc/internal/optimize"
	"github.com/tomyk9991/monkeyc/internal/parser"
	"github.com/tomyk9991/monkeyc/internal/source"
	"github.com/tomyk9991/monkeyc/internal/symtab"
	"github.com/tomyk9991/monkeyc/internal/typeinfer"
)

func foldSrc(t *testing.T, src string) *ast.Program {
	t.Helper()
	toks, err := lexer.Lex(source.Intake(src))
	require.NoError(t, err)
	prog, err := parser.Parse(toks)
	require.NoError(t, err)
	require.NoError(t, typeinfer.Infer(prog, symtab.New()))
	optimize.FoldProgram(prog)
	return prog
}

// letLeaf digs the folded literal out of the i-th statement of main's
// body, which the folder leaves collapsed inside its Expression shell.
func letLeaf(t *testing.T, prog *ast.Program, i int) ast.Assignable {
	t.Helper()
	fn := prog.Declarations[len(prog.Declarations)-1].(*ast.MethodDefinition)
	v, ok := fn.Body[i].(*ast.Variable)
	require.True(t, ok)
	expr, ok := v.Assignable.(*ast.Expression)
	require.True(t, ok)
	require.True(t, expr.IsLeaf())
	return expr.Leaf
}

func TestFoldArithmeticChain(t *testing.T) {
	prog := foldSrc(t, `
		fn main(): i32 {
			let a = 1 + 2 + 5*8 - 9/3;
			return 0;
		}
	`)
	lit, ok := letLeaf(t, prog, 0).(*ast.IntegerLit)
	require.True(t, ok)
	assert.Equal(t, int64(40), lit.Value)
}

func TestFoldComparisonToBool(t *testing.T) {
	prog := foldSrc(t, `
		fn main(): i32 {
			let a = 2 < 3;
			return 0;
		}
	`)
	lit, ok := letLeaf(t, prog, 0).(*ast.BoolLit)
	require.True(t, ok)
	assert.True(t, lit.Value)
}

func TestFoldFloatArithmetic(t *testing.T) {
	prog := foldSrc(t, `
		fn main(): i32 {
			let a = 1.5 + 2.5;
			return 0;
		}
	`)
	lit, ok := letLeaf(t, prog, 0).(*ast.FloatLit)
	require.True(t, ok)
	assert.Equal(t, 4.0, lit.Value)
}

func TestFoldWrapsOnOverflow(t *testing.T) {
	prog := foldSrc(t, `
		fn main(): i32 {
			let a: i8 = 127 + 1;
			return 0;
		}
	`)
	lit, ok := letLeaf(t, prog, 0).(*ast.IntegerLit)
	require.True(t, ok)
	assert.Equal(t, int64(-128), lit.Value)
}

func TestFoldLeavesDivisionByZero(t *testing.T) {
	prog := foldSrc(t, `
		fn main(): i32 {
			let a = 1 / 0;
			return 0;
		}
	`)
	fn := prog.Declarations[0].(*ast.MethodDefinition)
	expr := fn.Body[0].(*ast.Variable).Assignable.(*ast.Expression)
	assert.False(t, expr.IsLeaf())
}

func TestFoldConstPureCall(t *testing.T) {
	prog := foldSrc(t, `
		fn double(x: i32): i32 {
			return x * 2;
		}
		fn main(): i32 {
			let a = double(21);
			let b = double(10);
			return 0;
		}
	`)
	a, ok := letLeaf(t, prog, 0).(*ast.IntegerLit)
	require.True(t, ok)
	assert.Equal(t, int64(42), a.Value)

	// a second call with different arguments must re-evaluate the
	// callee's body, not replay the first fold
	b, ok := letLeaf(t, prog, 1).(*ast.IntegerLit)
	require.True(t, ok)
	assert.Equal(t, int64(20), b.Value)
}

func TestImpureCallNotFolded(t *testing.T) {
	prog := foldSrc(t, `
		fn bump(x: mut *i32): i32 {
			*x = *x + 1;
			return 0;
		}
		fn main(): i32 {
			let mut v: i32 = 0;
			let a = bump(&v);
			return 0;
		}
	`)
	fn := prog.Declarations[1].(*ast.MethodDefinition)
	expr := fn.Body[1].(*ast.Variable).Assignable.(*ast.Expression)
	require.True(t, expr.IsLeaf())
	_, stillCall := expr.Leaf.(*ast.MethodCall)
	assert.True(t, stillCall)
}

func TestFoldIsIdempotent(t *testing.T) {
	prog := foldSrc(t, `
		fn main(): i32 {
			let a = 6 * 7;
			return 0;
		}
	`)
	optimize.FoldProgram(prog)
	lit, ok := letLeaf(t, prog, 0).(*ast.IntegerLit)
	require.True(t, ok)
	assert.Equal(t, int64(42), lit.Value)
}
