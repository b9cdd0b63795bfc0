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

package typeinfer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomyk9991/monkeyc/internal/ast"
	"github.com/tomyk9991/monkeyc/internal/lexer"
	"github.com/tomyk9991/monkeyc/internal/parser"
	"github.com/tomyk9991/monkeyc/internal/source"
	"github.com/tomyk9991/monkeyc/internal/symtab"
	"github.com/tomyk9991/monkeyc/internal/typeinfer"
	"github.com/tomyk9991/monkeyc/internal/types"
)

func TestAnnotationWidensIntegerLiteral(t *testing.T) {
	prog, _ := mustInfer(t, `
		fn main(): i32 {
			let a: i64 = 5;
			return 0;
		}
	`)
	fn := prog.Declarations[0].(*ast.MethodDefinition)
	v := fn.Body[0].(*ast.Variable)
	expr := v.Assignable.(*ast.Expression)
	lit := expr.Leaf.(*ast.IntegerLit)
	assert.Equal(t, types.I64, lit.Width)
}

func TestSuffixBeatsAnnotationContext(t *testing.T) {
	prog, _ := mustInfer(t, `
		fn main(): i32 {
			let a = 5_i16;
			let b: i64 = 7_i16;
			return 0;
		}
	`)
	fn := prog.Declarations[0].(*ast.MethodDefinition)
	v := fn.Body[0].(*ast.Variable)
	assert.Equal(t, "i16", v.Type.String())

	annotated := fn.Body[1].(*ast.Variable)
	lit := annotated.Assignable.(*ast.Expression).Leaf.(*ast.IntegerLit)
	assert.Equal(t, types.I16, lit.Width)
}

func TestReturnContextWidensLiteral(t *testing.T) {
	prog, _ := mustInfer(t, `
		fn wide(): i64 {
			return 5;
		}
	`)
	fn := prog.Declarations[0].(*ast.MethodDefinition)
	ret := fn.Body[0].(*ast.Return)
	expr := ret.Value.(*ast.Expression)
	lit := expr.Leaf.(*ast.IntegerLit)
	assert.Equal(t, types.I64, lit.Width)
}

func TestCallArgumentContextWidensLiteral(t *testing.T) {
	prog, _ := mustInfer(t, `
		fn take(x: u16): void {
		}
		fn main(): i32 {
			take(9);
			return 0;
		}
	`)
	fn := prog.Declarations[1].(*ast.MethodDefinition)
	call := fn.Body[0].(*ast.ExprStatement).Call
	arg := call.Args[0].(*ast.Expression)
	lit := arg.Leaf.(*ast.IntegerLit)
	assert.Equal(t, types.U16, lit.Width)
}

func TestCastIsOutermostType(t *testing.T) {
	prog, _ := mustInfer(t, `
		fn main(): i32 {
			let a = (f64) 1;
			return 0;
		}
	`)
	fn := prog.Declarations[0].(*ast.MethodDefinition)
	v := fn.Body[0].(*ast.Variable)
	assert.Equal(t, "f64", v.Type.String())
}

func TestDereferenceYieldsPointee(t *testing.T) {
	prog, _ := mustInfer(t, `
		fn deref(p: *i32): i32 {
			return *p;
		}
	`)
	fn := prog.Declarations[0].(*ast.MethodDefinition)
	ret := fn.Body[0].(*ast.Return)
	expr := ret.Value.(*ast.Expression)
	require.NotNil(t, expr.ResolvedType)
	assert.Equal(t, "i32", expr.ResolvedType.String())
}

func TestMixedArrayElementTypesRejected(t *testing.T) {
	toks, err := lexer.Lex(source.Intake(`
		fn main(): i32 {
			let a: [i32, 3] = [1, true, 3];
			return 0;
		}
	`))
	require.NoError(t, err)
	prog, err := parser.Parse(toks)
	require.NoError(t, err)
	err = typeinfer.Infer(prog, symtab.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match element type")
}

func TestMixedWidthArrayElementsRejected(t *testing.T) {
	toks, err := lexer.Lex(source.Intake(`
		fn main(): i32 {
			let a = [1, 2_i64];
			return 0;
		}
	`))
	require.NoError(t, err)
	prog, err := parser.Parse(toks)
	require.NoError(t, err)
	err = typeinfer.Infer(prog, symtab.New())
	require.Error(t, err)
}

func TestAddressOfYieldsPointer(t *testing.T) {
	prog, _ := mustInfer(t, `
		fn main(): i32 {
			let a: i32 = 1;
			let p = &a;
			return 0;
		}
	`)
	fn := prog.Declarations[0].(*ast.MethodDefinition)
	v := fn.Body[1].(*ast.Variable)
	assert.Equal(t, "*i32", v.Type.String())
}
