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
	"github.com/tomyk9991/monkeyc/internal/token"
)

// genShortCircuit lowers && and || so the right-hand side is skipped
// entirely once the left-hand side already decides the result (spec
// §8 property 2: "short-circuit boolean expressions emit exactly one
// conditional jump per && or ||"). `&` and `|` are deliberately not
// routed here -- those are straight-line bitwise ops handled by
// genArithmetic, matching S4.
func (g *Generator) genShortCircuit(w *strings.Builder, e *ast.Expression) error {
	end := g.nextLabel()
	if err := g.genIntExpr(w, e.Lhs, 1); err != nil {
		return err
	}
	fmt.Fprintf(w, "  test al, al\n")
	if e.Operator == token.LOGAND {
		fmt.Fprintf(w, "  jz %s\n", end)
	} else {
		fmt.Fprintf(w, "  jnz %s\n", end)
	}
	if err := g.genIntExpr(w, e.Rhs, 1); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s:\n", end)
	return nil
}
