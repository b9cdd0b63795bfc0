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

	"github.com/tomyk9991/monkeyc/internal/typecheck"
)

func TestCheckAnnotationMismatchRejected(t *testing.T) {
	err := checkSrc(t, `
		fn main(): i32 {
			let a: i32 = 1.5;
			return 0;
		}
	`)
	require.Error(t, err)
	var mismatch *typecheck.TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
}

func TestCheckReassignmentTypeMismatchRejected(t *testing.T) {
	err := checkSrc(t, `
		fn main(): i32 {
			let mut a: i32 = 1;
			a = true;
			return 0;
		}
	`)
	require.Error(t, err)
	var mismatch *typecheck.TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
}

func TestCheckImmutableReassignmentRejected(t *testing.T) {
	err := checkSrc(t, `
		fn main(): i32 {
			let a: i32 = 1;
			a = 2;
			return 0;
		}
	`)
	require.Error(t, err)
	var imm *typecheck.ImmutabilityViolatedError
	require.ErrorAs(t, err, &imm)
}

func TestCheckRecordLiteralFieldOrderEnforced(t *testing.T) {
	err := checkSrc(t, `
		record Point {
			x: i32,
			y: i32
		}
		fn main(): i32 {
			let p: Point = Point { y: 2, x: 1 };
			return 0;
		}
	`)
	require.Error(t, err)
	var mismatch *typecheck.TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
}

func TestCheckRecordLiteralMissingFieldRejected(t *testing.T) {
	err := checkSrc(t, `
		record Point {
			x: i32,
			y: i32
		}
		fn main(): i32 {
			let p: Point = Point { x: 1 };
			return 0;
		}
	`)
	require.Error(t, err)
	var arity *typecheck.ArityMismatchError
	require.ErrorAs(t, err, &arity)
}

func TestCheckWellFormedRecordLiteral(t *testing.T) {
	err := checkSrc(t, `
		record Point {
			x: i32,
			y: i32
		}
		fn main(): i32 {
			let p: Point = Point { x: 1, y: 2 };
			return 0;
		}
	`)
	require.NoError(t, err)
}

func TestCheckArrayLengthMismatchRejected(t *testing.T) {
	err := checkSrc(t, `
		fn main(): i32 {
			let a: [i32, 5] = [1, 2, 3];
			return 0;
		}
	`)
	require.Error(t, err)
	var mismatch *typecheck.TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
}

func TestCheckMainSignatureEnforced(t *testing.T) {
	err := checkSrc(t, `
		fn main(): void {
		}
	`)
	require.Error(t, err)
	var mismatch *typecheck.TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
}

func TestCheckReturnTypeMismatchRejected(t *testing.T) {
	err := checkSrc(t, `
		fn f(): i32 {
			return true;
		}
	`)
	require.Error(t, err)
	var mismatch *typecheck.TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
}
