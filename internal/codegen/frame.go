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
	"github.com/tomyk9991/monkeyc/internal/ast"
	"github.com/tomyk9991/monkeyc/internal/symtab"
	"github.com/tomyk9991/monkeyc/internal/types"
)

// frameLayout is the compile-time-constant stack-frame plan for one
// function (spec §4.7): every Variable definition gets a distinct
// offset assigned once, in the order a single depth-first walk of the
// body encounters it -- there is no slot reuse across branches, so two
// runs of the same input always produce the same layout (spec §8
// property 3/4).
type frameLayout struct {
	offsets      map[*ast.Variable]int
	paramOffsets []int
	records      map[string][]symtab.Field
	size         int // sub rsp N: >=32, 16-byte aligned
}

// sizeOf is Type.Size plus record flattening: a Custom local occupies
// the sum of its declared fields, not the type system's opaque blob
// size, so adjacent locals never overlap a wide record.
func (l *frameLayout) sizeOf(t types.Type) int {
	switch t.Kind {
	case types.KCustom:
		total := 0
		for _, f := range l.records[t.CustomName] {
			total += l.sizeOf(f.Type)
		}
		if total == 0 {
			return t.Size()
		}
		return total
	case types.KArray:
		return l.sizeOf(*t.Elem) * t.Length
	default:
		return t.Size()
	}
}

// layoutFunction walks fn's parameters (in declaration order) and then
// its body (in the exact order genBlock will later traverse it),
// assigning each a contiguous, growing offset below rbp. records is
// consulted for the flattened size of Custom-typed locals.
func layoutFunction(fn *ast.MethodDefinition, records map[string][]symtab.Field) *frameLayout {
	l := &frameLayout{offsets: map[*ast.Variable]int{}, records: records}
	cur := 0

	for _, arg := range fn.Arguments {
		cur += l.sizeOf(arg.Type)
		l.paramOffsets = append(l.paramOffsets, cur)
	}

	walkLayout(fn.Body, l, &cur)

	reserve := cur
	if reserve%16 != 0 {
		reserve += 16 - reserve%16
	}
	if reserve < 32 {
		reserve = 32
	}
	l.size = reserve
	return l
}

func walkLayout(body []ast.Node, l *frameLayout, cur *int) {
	for _, stmt := range body {
		switch n := stmt.(type) {
		case *ast.Variable:
			if n.Define {
				*cur += l.sizeOf(*n.Type)
				l.offsets[n] = *cur
			}
		case *ast.If:
			walkLayout(n.Then, l, cur)
			walkLayout(n.Else, l, cur)
		case *ast.While:
			walkLayout(n.Body, l, cur)
		case *ast.For:
			if n.Init.Define {
				*cur += l.sizeOf(*n.Init.Type)
				l.offsets[n.Init] = *cur
			}
			walkLayout(n.Body, l, cur)
		}
	}
}
