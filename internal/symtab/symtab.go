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

// Package symtab implements the lexically-scoped symbol table
// described in spec §3: a stack of frames, inner-to-outer lookup, and
// shadowing allowed across frames but forbidden within one.
package symtab

import (
	"fmt"

	"github.com/tomyk9991/monkeyc/internal/token"
	"github.com/tomyk9991/monkeyc/internal/types"
)

type Kind int

const (
	KindVariable Kind = iota
	KindParameter
	KindFunction
	KindExtern
)

// Symbol is one entry: a binding's type, mutability, and defining
// site. Function/extern entries additionally carry the declared
// argument and return types.
type Symbol struct {
	Name         string
	Type         types.Type
	Mutability   types.Mutability
	Kind         Kind
	DefiningSite token.Position

	ArgTypes   []types.Type // KindFunction / KindExtern only
	ReturnType types.Type   // KindFunction / KindExtern only
	ConstPure  bool         // KindFunction only; no pass sets it (the optimizer records purity on ast.MethodDefinition.ConstPure)
}

type frame map[string]*Symbol

// Table is the stack of frames. Record type declarations live in a
// separate, unscoped namespace since spec §3 describes them as
// top-level declarations, not identifiers.
type Table struct {
	frames  []frame
	Records map[string][]Field
}

type Field struct {
	Name string
	Type types.Type
}

func New() *Table {
	t := &Table{Records: map[string][]Field{}}
	t.PushScope()
	return t
}

// PushScope opens a new innermost frame.
func (t *Table) PushScope() {
	t.frames = append(t.frames, frame{})
}

// PopScope releases the innermost frame. Callers must guarantee this
// runs on every exit path, including error returns (spec §5).
func (t *Table) PopScope() {
	if len(t.frames) == 0 {
		return
	}
	t.frames = t.frames[:len(t.frames)-1]
}

// Define inserts sym into the innermost frame. Shadowing an outer
// frame's binding is allowed; redefining a name already present in
// the innermost frame is an error (spec §3 invariants).
func (t *Table) Define(sym *Symbol) error {
	innermost := t.frames[len(t.frames)-1]
	if _, exists := innermost[sym.Name]; exists {
		return fmt.Errorf("%s: %q is already defined in this scope", sym.DefiningSite, sym.Name)
	}
	innermost[sym.Name] = sym
	return nil
}

// Lookup searches frames from innermost to outermost.
func (t *Table) Lookup(name string) (*Symbol, bool) {
	for i := len(t.frames) - 1; i >= 0; i-- {
		if sym, ok := t.frames[i][name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// RecordField looks up a field of a declared record type by name.
func (t *Table) RecordField(recordName, fieldName string) (Field, bool) {
	for _, f := range t.Records[recordName] {
		if f.Name == fieldName {
			return f, true
		}
	}
	return Field{}, false
}

// Depth reports the current scope nesting depth, exposed mainly for
// tests that assert push/pop balance.
func (t *Table) Depth() int { return len(t.frames) }
