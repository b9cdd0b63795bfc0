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
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringBinding(t *testing.T) {
	asm := gen(t, `
		fn main(): i32 {
			let a: *string = "Hallo";
			return 0;
		}
	`)
	assert.Contains(t, asm, `.label0: db "Hallo", 0`)
	assert.Contains(t, asm, "  mov rax, .label0\n")
	assert.Contains(t, asm, "  mov QWORD [rbp-8], rax\n")
}

func TestIntegerBindingWidths(t *testing.T) {
	cases := []struct {
		typeName  string
		directive string
		reg       string
		size      int
	}{
		{"i8", "BYTE", "al", 1},
		{"u8", "BYTE", "al", 1},
		{"i16", "WORD", "ax", 2},
		{"u16", "WORD", "ax", 2},
		{"i32", "DWORD", "eax", 4},
		{"u32", "DWORD", "eax", 4},
		{"i64", "QWORD", "rax", 8},
		{"u64", "QWORD", "rax", 8},
	}
	for _, tc := range cases {
		t.Run(tc.typeName, func(t *testing.T) {
			asm := gen(t, fmt.Sprintf(`
				fn main(): i32 {
					let a: %s = 42;
					return 0;
				}
			`, tc.typeName))
			assert.Contains(t, asm, fmt.Sprintf("  mov %s, 42\n", tc.reg))
			assert.Contains(t, asm, fmt.Sprintf("  mov %s [rbp-%d], %s\n", tc.directive, tc.size, tc.reg))
		})
	}
}

func TestIntegerBindingValue(t *testing.T) {
	asm := gen(t, `
		fn main(): i32 {
			let a: i32 = 512;
			return 0;
		}
	`)
	assert.Contains(t, asm, "  mov eax, 512\n")
	assert.Contains(t, asm, "  mov DWORD [rbp-4], eax\n")
}

func TestFloatBinding(t *testing.T) {
	asm := gen(t, `
		fn main(): i32 {
			let a: f32 = 2.5;
			return 0;
		}
	`)
	assert.Contains(t, asm, ".label0: dd 0x40200000\n")
	assert.Contains(t, asm, "  movss xmm0, [.label0]\n")
	assert.Contains(t, asm, "  movss [rbp-4], xmm0\n")
}

func TestDoubleBindingUsesSdForms(t *testing.T) {
	asm := gen(t, `
		fn main(): i32 {
			let a: f64 = 1.5;
			let b: f64 = a * 2.0;
			return 0;
		}
	`)
	assert.Contains(t, asm, ": dq 0x3ff8000000000000\n")
	assert.Contains(t, asm, "  mulsd xmm0, xmm1\n")
	assert.Contains(t, asm, "  movsd [rbp-16], xmm0\n")
}

func TestIfElseBranches(t *testing.T) {
	asm := gen(t, `
		fn main(): i32 {
			let mut a: i32 = 0;
			if (a < 1) {
				a = 1;
			} else {
				a = 2;
			}
			return a;
		}
	`)
	assert.Contains(t, asm, "  test al, al\n  jz .label0\n")
	assert.Contains(t, asm, "  jmp .label1\n.label0:\n")
	assert.Contains(t, asm, ".label1:\n")
}

func TestWhileLoopShape(t *testing.T) {
	asm := gen(t, `
		fn main(): i32 {
			let mut a: i32 = 0;
			while (a < 3) {
				a = a + 1;
			}
			return a;
		}
	`)
	assert.Contains(t, asm, ".label0:\n")
	assert.Contains(t, asm, "  jz .label1\n")
	assert.Contains(t, asm, "  jmp .label0\n.label1:\n")
}

func TestForLoop(t *testing.T) {
	asm := gen(t, `
		fn main(): i32 {
			let mut a: i32 = 0;
			for (let mut i: i32 = 0; i < 5; i = i + 1) {
				a = a + i;
			}
			return 0;
		}
	`)
	assert.Contains(t, asm, "  cmp eax, 5\n  setl al\n")
	assert.Contains(t, asm, "  test al, al\n  jz .label1\n")
	assert.Contains(t, asm, "  add eax, 1\n")
	assert.Contains(t, asm, "  jmp .label0\n.label1:\n")
}

func TestUnsignedComparisonUsesBelowAbove(t *testing.T) {
	asm := gen(t, `
		fn main(): i32 {
			let a: u32 = 1;
			let b: bool = a < 2;
			return 0;
		}
	`)
	assert.Contains(t, asm, "  setb al\n")
}

func TestArrayLiteralAndIndexedAssignment(t *testing.T) {
	asm := gen(t, `
		fn main(): i32 {
			let mut a: [i32, 3] = [1, 2, 3];
			a[1] = 9;
			return a[0];
		}
	`)
	// element stores: index 0 at the base (lowest) address
	assert.Contains(t, asm, "  mov DWORD [rbp-12], eax\n")
	assert.Contains(t, asm, "  mov DWORD [rbp-8], eax\n")
	assert.Contains(t, asm, "  mov DWORD [rbp-4], eax\n")
	// constant-index element address: base plus literal offset
	assert.Contains(t, asm, "  lea rax, [rbp-12]\n  add rax, 4\n")
	assert.Contains(t, asm, "  mov DWORD [rax], edi\n")
}

func TestVariableIndexScalesByElementSize(t *testing.T) {
	asm := gen(t, `
		fn main(): i32 {
			let a: [i64, 2] = [1, 2];
			let i: i32 = 1;
			return (i32) a[i];
		}
	`)
	assert.Contains(t, asm, "  imul rax, 8\n")
}

func TestDivisionSpillsRdx(t *testing.T) {
	asm := gen(t, `
		fn main(): i32 {
			let a: i32 = 7;
			let b: i32 = 2;
			return a / b;
		}
	`)
	assert.Contains(t, asm, "  push rdx\n")
	assert.Contains(t, asm, "  cdq\n  idiv ecx\n")
	assert.Contains(t, asm, "  pop rdx\n")
}

func TestUnsignedDivisionZeroesRdx(t *testing.T) {
	asm := gen(t, `
		fn main(): i32 {
			let a: u32 = 7;
			let b: u32 = 2;
			let c: u32 = a / b;
			return 0;
		}
	`)
	assert.Contains(t, asm, "  xor edx, edx\n  div ecx\n")
}

func TestShiftCountTravelsInCl(t *testing.T) {
	asm := gen(t, `
		fn main(): i32 {
			let a: i32 = 1;
			let b: i32 = 3;
			return a << b;
		}
	`)
	assert.Contains(t, asm, "  shl eax, cl\n")
}

func TestSignedRightShiftUsesSar(t *testing.T) {
	asm := gen(t, `
		fn main(): i32 {
			let a: i32 = 8;
			let b: i32 = 2;
			return a >> b;
		}
	`)
	assert.Contains(t, asm, "  sar eax, cl\n")
}

func TestIntToFloatCast(t *testing.T) {
	asm := gen(t, `
		fn main(): i32 {
			let a: i32 = 3;
			let b: f32 = (f32) a;
			return 0;
		}
	`)
	assert.Contains(t, asm, "  cvtsi2ss xmm0, rax\n")
}

func TestFloatToIntCast(t *testing.T) {
	asm := gen(t, `
		fn main(): i32 {
			let a: f32 = 2.5;
			let b: i32 = (i32) a;
			return 0;
		}
	`)
	assert.Contains(t, asm, "  cvtss2si eax, xmm0\n")
}

func TestFloatWidthCast(t *testing.T) {
	asm := gen(t, `
		fn main(): i32 {
			let a: f32 = 2.5;
			let b: f64 = (f64) a;
			return 0;
		}
	`)
	assert.Contains(t, asm, "  cvtss2sd xmm0, xmm0\n")
}

func TestWideningLoadSignExtends(t *testing.T) {
	asm := gen(t, `
		fn main(): i32 {
			let a: i32 = 5;
			let b: i64 = (i64) a;
			return 0;
		}
	`)
	assert.Contains(t, asm, "  movsxd rax, DWORD [rbp-4]\n")
	assert.Contains(t, asm, "  mov QWORD [rbp-12], rax\n")
}

func TestWideningLoadZeroExtends(t *testing.T) {
	asm := gen(t, `
		fn main(): i32 {
			let a: u8 = 5;
			let b: u32 = (u32) a;
			return 0;
		}
	`)
	assert.Contains(t, asm, "  movzx eax, BYTE [rbp-1]\n")
}

func TestFloatPointerDereference(t *testing.T) {
	asm := gen(t, `
		fn scale(x: mut *f32): void {
			*x = *x * 2.0;
		}
		fn main(): i32 {
			let mut a: f32 = 1.5;
			scale(&a);
			return 0;
		}
	`)
	assert.Contains(t, asm, "  movss xmm0, [rax]\n")
	assert.Contains(t, asm, "  movss [rdi], xmm0\n")
	assert.Contains(t, asm, "  call .scale_ptrf32~void\n")
}

func TestRecordLiteralFieldStores(t *testing.T) {
	asm := gen(t, `
		record Point {
			x: i32,
			y: i32
		}
		fn main(): i32 {
			let p: Point = Point { x: 1, y: 2 };
			return 0;
		}
	`)
	assert.Contains(t, asm, "  mov DWORD [rbp-8], eax\n")
	assert.Contains(t, asm, "  mov DWORD [rbp-4], eax\n")
}
