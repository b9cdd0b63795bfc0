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

package codegen_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStraightLineBitwiseBool(t *testing.T) {
	asm := gen(t, `
		fn main(): i32 {
			let a: bool = true & true | false;
			return 0;
		}
	`)
	assert.Contains(t, asm, "  mov al, 1\n  and al, 1\n  or al, 0\n  mov BYTE [rbp-1], al\n")
	// straight-line bitwise ops never branch
	assert.NotContains(t, asm, "jz .label")
	assert.NotContains(t, asm, "jnz .label")
}

func TestLogicalAndShortCircuits(t *testing.T) {
	asm := gen(t, `
		fn main(): i32 {
			let b: bool = true;
			let c: bool = false;
			let a: bool = b && c;
			return 0;
		}
	`)
	assert.Equal(t, 1, strings.Count(asm, "  jz .label"))
	assert.Equal(t, 0, strings.Count(asm, "  jnz .label"))
}

func TestLogicalOrShortCircuits(t *testing.T) {
	asm := gen(t, `
		fn main(): i32 {
			let b: bool = true;
			let c: bool = false;
			let a: bool = b || c;
			return 0;
		}
	`)
	assert.Equal(t, 1, strings.Count(asm, "  jnz .label"))
	assert.Equal(t, 0, strings.Count(asm, "  jz .label"))
}

func TestShortCircuitSkipsRhsEvaluation(t *testing.T) {
	asm := gen(t, `
		fn main(): i32 {
			let b: bool = true;
			let c: bool = false;
			let a: bool = b && c;
			return 0;
		}
	`)
	// the jump lands after the RHS load, sharing one join label
	assert.Contains(t, asm, "  test al, al\n  jz .label0\n  mov al, [rbp-2]\n.label0:\n")
}
