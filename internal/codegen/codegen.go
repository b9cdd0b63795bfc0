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

// Package codegen lowers a type-checked (and optionally folded) AST
// into NASM assembly text for the Windows x64 ABI (spec §4.7). It
// mirrors the teacher's (gorse-io/goat) posture of building output
// with a strings.Builder and plain string-keyed lookup tables rather
// than a heavier IR. github.com/samber/lo appears where goat would
// reach for it: mangle.go maps a function's argument list into label
// fragments with lo.Map, an analogous role to the lo.Tuple2
// parameter/offset pairing in goat's parser_amd64.go.
package codegen

import (
	"fmt"
	"strings"

	"github.com/tomyk9991/monkeyc/internal/ast"
	"github.com/tomyk9991/monkeyc/internal/symtab"
	"github.com/tomyk9991/monkeyc/internal/types"
)

// localSym is one entry of a lexical codegen scope: the frame offset a
// defined name lives at, plus its static type (needed to tell an array
// base from a pointer base when an Index suffix is lowered).
type localSym struct {
	offset int
	typ    types.Type
}

// Generator holds all process-wide-within-one-compilation state (spec
// §5): the label counter, the append-only constant pools, the current
// function's frame layout and return type, and the table of mangled
// call targets. A fresh Generator must be constructed per compilation
// unit; none of its state is safe to share across compilations.
type Generator struct {
	labelCounter int
	strings      []stringConst
	floats       []floatConst

	funcs   map[string]*ast.MethodDefinition
	records *symtab.Table

	frame      *frameLayout
	scopes     []map[string]localSym // lexical scopes, mirrors internal/symtab's frame stack
	returnType types.Type
	funcName   string
}

// Generate lowers a whole program into one NASM source string. prog
// must already be type-inferred and type-checked; it may additionally
// have been constant-folded by internal/optimize. table is the same
// symbol table typeinfer/typecheck ran against, consulted here only
// for record field layout.
func Generate(prog *ast.Program, table *symtab.Table) (string, error) {
	g := &Generator{funcs: map[string]*ast.MethodDefinition{}, records: table}
	for _, d := range prog.Declarations {
		if fn, ok := d.(*ast.MethodDefinition); ok {
			g.funcs[fn.Name] = fn
		}
	}

	var externs []string
	var bodies []string
	var mainBody string
	var sawMain bool

	for _, d := range prog.Declarations {
		fn, ok := d.(*ast.MethodDefinition)
		if !ok {
			continue
		}
		if fn.IsExtern {
			externs = append(externs, fn.Name)
			continue
		}
		text, err := g.genFunction(fn)
		if err != nil {
			return "", err
		}
		if fn.Name == "main" {
			mainBody = text
			sawMain = true
			continue
		}
		bodies = append(bodies, text)
	}

	// a bare script (top-level statements, no fn main) becomes main's
	// body; mixing both forms has no defined entry-point order
	if script := ast.ScriptStatements(prog); len(script) > 0 {
		if sawMain {
			return "", &InternalError{Message: "top-level statements conflict with an explicit main", Pos: script[0].Pos()}
		}
		text, err := g.genFunction(ast.ImplicitMain(prog))
		if err != nil {
			return "", err
		}
		mainBody = text
		sawMain = true
	}

	var out strings.Builder
	out.WriteString("; generated by the monkeyc compiler; NASM, Windows x64\n")
	out.WriteString("segment .text\n")
	out.WriteString("global main\n")
	for _, name := range externs {
		out.WriteString(fmt.Sprintf("extern %s\n", name))
	}
	for _, imp := range importComments(prog) {
		out.WriteString(imp)
	}
	for _, s := range g.strings {
		out.WriteString(fmt.Sprintf("%s: db %s, 0\n", s.Label, nasmStringLiteral(s.Value)))
	}
	for _, f := range g.floats {
		out.WriteString(floatConstLine(f))
	}
	for _, b := range bodies {
		out.WriteString(b)
	}
	if sawMain {
		out.WriteString(mainBody)
	}
	return out.String(), nil
}

// importComments emits the one-line unresolved-import notice
// SPEC_FULL.md §4.7 prescribes: `import` is parsed and type-surfaced
// but never inlined (no separate-compilation pass exists), so codegen
// only records it.
func importComments(prog *ast.Program) []string {
	var out []string
	for _, d := range prog.Declarations {
		if imp, ok := d.(*ast.Import); ok {
			out = append(out, fmt.Sprintf("; unresolved import: %s\n", imp.Path))
		}
	}
	return out
}

func nasmStringLiteral(s string) string {
	return "\"" + strings.ReplaceAll(s, "\"", "\"\"") + "\""
}

func floatConstLine(f floatConst) string {
	if f.Width == 4 {
		return fmt.Sprintf("%s: dd 0x%08x\n", f.Label, uint32(f.Bits))
	}
	return fmt.Sprintf("%s: dq 0x%016x\n", f.Label, f.Bits)
}

// genFunction lays out fn's stack frame, emits its prologue/epilogue,
// and lowers its body. extern declarations never reach this (the
// caller filters them out), matching spec §4.7's "no body" rule.
func (g *Generator) genFunction(fn *ast.MethodDefinition) (string, error) {
	layout := layoutFunction(fn, g.records.Records)
	g.frame = layout
	g.returnType = fn.ReturnType
	g.funcName = fn.Name
	g.scopes = []map[string]localSym{{}}

	var b strings.Builder
	b.WriteString(mangledName(fn) + ":\n")
	b.WriteString("  push rbp\n")
	b.WriteString("  mov rbp, rsp\n")
	b.WriteString(fmt.Sprintf("  sub rsp, %d\n", layout.size))

	if err := g.spillParams(&b, fn, layout); err != nil {
		return "", err
	}

	if err := g.genBlock(&b, fn.Body); err != nil {
		return "", err
	}

	if fn.Name == "main" && !bodyEndsInReturn(fn.Body) {
		b.WriteString("  mov eax, 0\n")
	}
	b.WriteString("  leave\n")
	b.WriteString("  ret\n")
	return b.String(), nil
}

// spillParams stores each incoming argument into its stack slot: the
// first four integer args arrive in rcx/rdx/r8/r9, the first four
// float args in xmm0-xmm3, and anything beyond that was pushed by the
// caller above the 32-byte shadow space (spec §4.7).
func (g *Generator) spillParams(b *strings.Builder, fn *ast.MethodDefinition, layout *frameLayout) error {
	for i, arg := range fn.Arguments {
		off := layout.paramOffsets[i]
		size := arg.Type.Size()
		g.scopes[0][arg.Name] = localSym{offset: off, typ: arg.Type}

		// Windows x64 argument slots are positional, not grouped by
		// kind: the i-th argument always occupies the i-th slot
		// (rcx/xmm0, rdx/xmm1, r8/xmm2, r9/xmm3), whichever register
		// of the pair matches its type.
		if arg.Type.IsFloat() {
			if i < len(floatArgRegs) {
				instr := "movss"
				if arg.Type.FloatWidth == types.F64 {
					instr = "movsd"
				}
				b.WriteString(fmt.Sprintf("  %s %s [rbp-%d], %s\n", instr, SizeDirective(size), off, floatArgRegs[i]))
			} else {
				g.loadStackArg(b, i, off, size, true)
			}
			continue
		}

		if i < len(intArgRegs) {
			reg := sizedArgReg(intArgRegs[i], size)
			b.WriteString(fmt.Sprintf("  mov %s [rbp-%d], %s\n", SizeDirective(size), off, reg))
		} else {
			g.loadStackArg(b, i, off, size, false)
		}
	}
	return nil
}

// loadStackArg reads the i-th argument (already known to lie beyond
// the register-passed prefix) from the caller's stack area above the
// shadow space, and stores it into its local slot.
func (g *Generator) loadStackArg(b *strings.Builder, i, off, size int, isFloat bool) {
	srcOff := 16 + 32 + 8*(i-4)
	if isFloat {
		instr, reg := "movss", "xmm0"
		if size == 8 {
			instr = "movsd"
		}
		b.WriteString(fmt.Sprintf("  %s %s, %s [rbp+%d]\n", instr, reg, SizeDirective(size), srcOff))
		b.WriteString(fmt.Sprintf("  %s %s [rbp-%d], %s\n", instr, SizeDirective(size), off, reg))
		return
	}
	b.WriteString(fmt.Sprintf("  mov rax, QWORD [rbp+%d]\n", srcOff))
	b.WriteString(fmt.Sprintf("  mov %s [rbp-%d], %s\n", SizeDirective(size), off, RAX.Name(size)))
}

// sizedArgReg spells an rcx/rdx/r8/r9-family register at the given
// byte width.
func sizedArgReg(reg64 string, size int) string {
	table := map[string][4]string{
		"rcx": {"rcx", "ecx", "cx", "cl"},
		"rdx": {"rdx", "edx", "dx", "dl"},
		"r8":  {"r8", "r8d", "r8w", "r8b"},
		"r9":  {"r9", "r9d", "r9w", "r9b"},
	}
	return table[reg64][widthIndex(size)]
}

// bodyEndsInReturn reports whether body's last top-level statement is
// a Return, used only to decide whether `main` needs the generator's
// implicit `return 0` (spec §4.5/§4.7).
func bodyEndsInReturn(body []ast.Node) bool {
	if len(body) == 0 {
		return false
	}
	_, ok := body[len(body)-1].(*ast.Return)
	return ok
}

func (g *Generator) pushScope() { g.scopes = append(g.scopes, map[string]localSym{}) }
func (g *Generator) popScope()  { g.scopes = g.scopes[:len(g.scopes)-1] }

// defineLocal assigns v its precomputed frame offset and binds it in
// the innermost lexical scope for later Identifier lookups.
func (g *Generator) defineLocal(v *ast.Variable) int {
	off := g.frame.offsets[v]
	name := v.LValue.(*ast.IdentLValue).Name
	g.scopes[len(g.scopes)-1][name] = localSym{offset: off, typ: *v.Type}
	return off
}

// lookupLocal searches innermost-to-outer, matching internal/symtab's
// scoping discipline (spec §3).
func (g *Generator) lookupLocal(name string) (localSym, bool) {
	for i := len(g.scopes) - 1; i >= 0; i-- {
		if sym, ok := g.scopes[i][name]; ok {
			return sym, true
		}
	}
	return localSym{}, false
}
