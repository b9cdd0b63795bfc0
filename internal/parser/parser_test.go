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

package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomyk9991/monkeyc/internal/ast"
	"github.com/tomyk9991/monkeyc/internal/lexer"
	"github.com/tomyk9991/monkeyc/internal/parser"
	"github.com/tomyk9991/monkeyc/internal/source"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	toks, err := lexer.Lex(source.Intake(src))
	require.NoError(t, err)
	prog, err := parser.Parse(toks)
	require.NoError(t, err)
	return prog
}

func TestParseLetDeclaration(t *testing.T) {
	prog := mustParse(t, `let mut x: i32 = 5;`)
	require.Len(t, prog.Declarations, 1)
	v, ok := prog.Declarations[0].(*ast.Variable)
	require.True(t, ok)
	assert.True(t, v.Define)
	assert.Equal(t, "x", v.LValue.(*ast.IdentLValue).Name)
	require.NotNil(t, v.Type)
	assert.Equal(t, "i32", v.Type.String())
}

func TestParseFunctionDefinition(t *testing.T) {
	prog := mustParse(t, `
		fn add(a: i32, b: i32): i32 {
			return a + b;
		}
	`)
	require.Len(t, prog.Declarations, 1)
	fn, ok := prog.Declarations[0].(*ast.MethodDefinition)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name)
	assert.Len(t, fn.Arguments, 2)
	require.Len(t, fn.Body, 1)
	ret, ok := fn.Body[0].(*ast.Return)
	require.True(t, ok)
	expr, ok := ret.Value.(*ast.Expression)
	require.True(t, ok)
	assert.False(t, expr.IsLeaf())
}

func TestParseExternPrototype(t *testing.T) {
	prog := mustParse(t, `fn extern ExitProcess(code: i32): void;`)
	require.Len(t, prog.Declarations, 1)
	fn := prog.Declarations[0].(*ast.MethodDefinition)
	assert.True(t, fn.IsExtern)
	assert.Nil(t, fn.Body)
}

func TestParseIfElse(t *testing.T) {
	prog := mustParse(t, `
		fn main(): i32 {
			if (1 < 2) {
				return 1;
			} else {
				return 0;
			}
		}
	`)
	fn := prog.Declarations[0].(*ast.MethodDefinition)
	stmt, ok := fn.Body[0].(*ast.If)
	require.True(t, ok)
	assert.Len(t, stmt.Then, 1)
	assert.Len(t, stmt.Else, 1)
}

func TestParseWhileAndCallStatement(t *testing.T) {
	prog := mustParse(t, `
		fn run(): void {
			while (true) {
				print(1);
			}
		}
	`)
	fn := prog.Declarations[0].(*ast.MethodDefinition)
	w, ok := fn.Body[0].(*ast.While)
	require.True(t, ok)
	require.Len(t, w.Body, 1)
	call, ok := w.Body[0].(*ast.ExprStatement)
	require.True(t, ok)
	assert.Equal(t, "print", call.Call.Name)
}

func TestParseForLoop(t *testing.T) {
	prog := mustParse(t, `
		fn run(): void {
			for (let mut i: i32 = 0; i < 10; i = i + 1) {
				print(i);
			}
		}
	`)
	fn := prog.Declarations[0].(*ast.MethodDefinition)
	f, ok := fn.Body[0].(*ast.For)
	require.True(t, ok)
	assert.Equal(t, "i", f.Init.LValue.(*ast.IdentLValue).Name)
	assert.False(t, f.Update.Define)
}

func TestParseRecordDeclAndObjectLiteral(t *testing.T) {
	prog := mustParse(t, `
		record Point {
			x: i32,
			y: i32
		}
		fn main(): i32 {
			let p: Point = Point { x: 1, y: 2 };
			return 0;
		}
	`)
	require.Len(t, prog.Declarations, 2)
	rec, ok := prog.Declarations[0].(*ast.RecordDecl)
	require.True(t, ok)
	assert.Equal(t, "Point", rec.Name)
	assert.Len(t, rec.Fields, 2)

	fn := prog.Declarations[1].(*ast.MethodDefinition)
	let := fn.Body[0].(*ast.Variable)
	expr, ok := let.Assignable.(*ast.Expression)
	require.True(t, ok)
	lit, ok := expr.Leaf.(*ast.ObjectLiteral)
	require.True(t, ok)
	assert.Equal(t, "Point", lit.TypeName)
	assert.Len(t, lit.Fields, 2)
}

func TestParseArrayLiteralAndIndex(t *testing.T) {
	prog := mustParse(t, `
		fn main(): i32 {
			let a: [i32, 3] = [1, 2, 3];
			return a[0];
		}
	`)
	fn := prog.Declarations[0].(*ast.MethodDefinition)
	let := fn.Body[0].(*ast.Variable)
	init, ok := let.Assignable.(*ast.Expression)
	require.True(t, ok)
	lit, ok := init.Leaf.(*ast.ArrayLiteral)
	require.True(t, ok)
	assert.Len(t, lit.Elements, 3)

	ret := fn.Body[1].(*ast.Return)
	expr := ret.Value.(*ast.Expression)
	assert.NotNil(t, expr.Index)
}

func TestParseImport(t *testing.T) {
	prog := mustParse(t, `import std.io;`)
	imp, ok := prog.Declarations[0].(*ast.Import)
	require.True(t, ok)
	assert.Equal(t, "std.io", imp.Path)
}

func TestParseUnaryAndPrecedence(t *testing.T) {
	prog := mustParse(t, `
		fn main(): i32 {
			return -1 + 2 * 3;
		}
	`)
	fn := prog.Declarations[0].(*ast.MethodDefinition)
	ret := fn.Body[0].(*ast.Return)
	top := ret.Value.(*ast.Expression)
	require.False(t, top.IsLeaf())
	assert.False(t, top.Lhs.Positive)
}

func TestParseUndefinedSequenceInExpression(t *testing.T) {
	toks, err := lexer.Lex(source.Intake(`let a = ;`))
	require.NoError(t, err)
	_, err = parser.Parse(toks)
	require.Error(t, err)
	var seqErr *parser.UndefinedSequenceError
	assert.ErrorAs(t, err, &seqErr)
}

func TestParseDanglingCallIsDyckImbalance(t *testing.T) {
	toks, err := lexer.Lex(source.Intake(`fn main(): i32 { return foo(1, 2;`))
	require.NoError(t, err)
	_, err = parser.Parse(toks)
	require.Error(t, err)
	var dyckErr *parser.DyckImbalanceError
	assert.ErrorAs(t, err, &dyckErr)
}
