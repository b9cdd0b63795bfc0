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

package typecheck_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tomyk9991/monkeyc/internal/lexer"
	"github.com/tomyk9991/monkeyc/internal/parser"
	"github.com/tomyk9991/monkeyc/internal/source"
	"github.com/tomyk9991/monkeyc/internal/symtab"
	"github.com/tomyk9991/monkeyc/internal/typecheck"
	"github.com/tomyk9991/monkeyc/internal/typeinfer"
)

func checkSrc(t *testing.T, src string) error {
	t.Helper()
	toks, err := lexer.Lex(source.Intake(src))
	require.NoError(t, err)
	prog, err := parser.Parse(toks)
	require.NoError(t, err)
	table := symtab.New()
	require.NoError(t, typeinfer.Infer(prog, table))
	return typecheck.Check(prog, table)
}

func TestCheckValidProgram(t *testing.T) {
	err := checkSrc(t, `
		fn add(a: i32, b: i32): i32 {
			return a + b;
		}
		fn main(): i32 {
			let c: i32 = add(1, 2);
			return c;
		}
	`)
	require.NoError(t, err)
}

func TestCheckImmutableForUpdateRejected(t *testing.T) {
	err := checkSrc(t, `
		fn main(): i32 {
			for (let i: i32 = 0; i < 5; i = i + 1) {
			}
			return 0;
		}
	`)
	require.Error(t, err)
	var immErr *typecheck.ImmutabilityViolatedError
	require.ErrorAs(t, err, &immErr)
}

func TestCheckArityMismatchRejected(t *testing.T) {
	err := checkSrc(t, `
		fn add(a: i32, b: i32): i32 {
			return a + b;
		}
		fn main(): i32 {
			let c: i32 = add(1);
			return c;
		}
	`)
	require.Error(t, err)
	var arityErr *typecheck.ArityMismatchError
	require.ErrorAs(t, err, &arityErr)
}

func TestCheckIllegalIndexRejected(t *testing.T) {
	err := checkSrc(t, `
		fn main(): i32 {
			let a: [i32, 5] = [1, 2, 3, 4, 5];
			return a["0"];
		}
	`)
	require.Error(t, err)
	var idxErr *typecheck.IllegalIndexOperationError
	require.ErrorAs(t, err, &idxErr)
}

func TestCheckMissingReturnRejected(t *testing.T) {
	err := checkSrc(t, `
		fn add(a: i32, b: i32): i32 {
			let c: i32 = a + b;
		}
	`)
	require.Error(t, err)
	var missingErr *typecheck.MissingReturnError
	require.ErrorAs(t, err, &missingErr)
}

func TestCheckMainMissingReturnIsAllowed(t *testing.T) {
	err := checkSrc(t, `
		fn main(): i32 {
			let a: i32 = 1;
		}
	`)
	require.NoError(t, err)
}
