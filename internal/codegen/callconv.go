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
)

// argSlot records how one evaluated call argument was spilled to the
// stack, so the second pass can pop it into its positional register.
type argSlot struct {
	float bool
	width int
}

// genCall marshals call's arguments and emits the call itself (spec
// §8 S6). Each argument is evaluated and pushed in left-to-right
// order first (so nested calls inside later arguments never clobber
// an earlier argument sitting in a register), then popped into its
// positional register in reverse.
//
// Windows x64 reserves exactly four register slots; call sites with
// more arguments than that would need the stack-argument area this
// generator doesn't lay out, so genCall rejects them rather than
// silently miscompiling.
func (g *Generator) genCall(w *strings.Builder, call *ast.MethodCall) error {
	fn, ok := g.funcs[call.Name]
	if !ok {
		return &InternalError{Message: "undefined function " + call.Name, Pos: call.Position}
	}
	if len(call.Args) > len(intArgRegs) {
		return &InternalError{Message: "calls with more than four arguments are not supported", Pos: call.Position}
	}

	slots := make([]argSlot, len(call.Args))
	for i, a := range call.Args {
		argExpr, ok := a.(*ast.Expression)
		if !ok {
			return &InternalError{Message: "call argument must be an expression", Pos: call.Position}
		}
		t := fn.Arguments[i].Type
		if t.IsFloat() {
			width := t.FloatWidth.Bytes()
			if err := g.genFloatExpr(w, argExpr, width); err != nil {
				return err
			}
			w.WriteString("  sub rsp, 8\n")
			fmt.Fprintf(w, "  %s [rsp], xmm0\n", movInstr(width))
			slots[i] = argSlot{float: true, width: width}
		} else {
			size := t.Size()
			if size == 0 {
				size = 8
			}
			if err := g.genIntExpr(w, argExpr, size); err != nil {
				return err
			}
			w.WriteString("  push rax\n")
			slots[i] = argSlot{}
		}
	}

	for i := len(slots) - 1; i >= 0; i-- {
		s := slots[i]
		if s.float {
			fmt.Fprintf(w, "  %s %s, [rsp]\n", movInstr(s.width), xmmRegisters[i])
			// Windows x64 varargs/mixed-position rule: the float's bits
			// also travel in the slot's GP register.
			fmt.Fprintf(w, "  mov %s, [rsp]\n", intArgRegs[i])
			w.WriteString("  add rsp, 8\n")
		} else {
			fmt.Fprintf(w, "  pop %s\n", intArgRegs[i])
		}
	}

	w.WriteString("  sub rsp, 32\n")
	fmt.Fprintf(w, "  call %s\n", mangledName(fn))
	w.WriteString("  add rsp, 32\n")
	return nil
}
