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
	"github.com/tomyk9991/monkeyc/internal/token"
)

func TestParseCastPrefix(t *testing.T) {
	prog := mustParse(t, `
		fn main(): i32 {
			let a: f32 = (f32) 1;
			return 0;
		}
	`)
	fn := prog.Declarations[0].(*ast.MethodDefinition)
	v := fn.Body[0].(*ast.Variable)
	expr := v.Assignable.(*ast.Expression)
	require.Len(t, expr.Prefix, 1)
	assert.Equal(t, ast.PrefixCast, expr.Prefix[0].Kind)
	assert.Equal(t, "f32", expr.Prefix[0].CastType.String())
	_, isInt := expr.Leaf.(*ast.IntegerLit)
	assert.True(t, isInt)
}

func TestParenthesizedExpressionIsNotACast(t *testing.T) {
	prog := mustParse(t, `
		fn main(): i32 {
			let a = (1 + 2) * 3;
			return 0;
		}
	`)
	fn := prog.Declarations[0].(*ast.MethodDefinition)
	expr := fn.Body[0].(*ast.Variable).Assignable.(*ast.Expression)
	require.False(t, expr.IsLeaf())
	assert.Equal(t, token.STAR, expr.Operator)
	assert.Empty(t, expr.Prefix)
}

func TestCastAppliesAfterDereference(t *testing.T) {
	prog := mustParse(t, `
		fn widen(p: *i32): i64 {
			return (i64) *p;
		}
	`)
	fn := prog.Declarations[0].(*ast.MethodDefinition)
	ret := fn.Body[0].(*ast.Return)
	expr := ret.Value.(*ast.Expression)
	require.Len(t, expr.Prefix, 2)
	assert.Equal(t, ast.PrefixDeref, expr.Prefix[0].Kind)
	assert.Equal(t, ast.PrefixCast, expr.Prefix[1].Kind)
	assert.Equal(t, "i64", expr.Prefix[1].CastType.String())
}

func TestUnaryMinusBeforeCast(t *testing.T) {
	prog := mustParse(t, `
		fn main(): i32 {
			let a = -(i32) 5;
			return 0;
		}
	`)
	fn := prog.Declarations[0].(*ast.MethodDefinition)
	expr := fn.Body[0].(*ast.Variable).Assignable.(*ast.Expression)
	assert.False(t, expr.Positive)
	require.Len(t, expr.Prefix, 1)
	assert.Equal(t, ast.PrefixCast, expr.Prefix[0].Kind)
}
