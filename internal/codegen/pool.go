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
	"math"
)

// stringConst is one entry of the append-only string constant pool
// (spec §4.7 / GLOSSARY). Entries are deduplicated by value so two
// identical literals share one label.
type stringConst struct {
	Label string
	Value string
}

// floatConst is one entry of the float immediate pool: `movss`/`movsd`
// cannot take a float literal operand directly, so every float leaf is
// interned and loaded from memory (spec §4.7's `__?float32?__(v)`
// convention).
type floatConst struct {
	Label string
	Bits  uint64 // raw IEEE-754 bit pattern, width-sized by the caller
	Width int    // 4 or 8
}

// nextLabel mints the next `.labelN` name from the generator's
// process-wide (per-instance) monotonic counter (spec §4.7, §5).
func (g *Generator) nextLabel() string {
	name := fmt.Sprintf(".label%d", g.labelCounter)
	g.labelCounter++
	return name
}

// internString returns the label for value, creating a new constant
// pool entry on first use.
func (g *Generator) internString(value string) string {
	for _, s := range g.strings {
		if s.Value == value {
			return s.Label
		}
	}
	label := g.nextLabel()
	g.strings = append(g.strings, stringConst{Label: label, Value: value})
	return label
}

// internFloat32/64 intern an IEEE-754 immediate into the float pool,
// returning its label.
func (g *Generator) internFloat32(v float64) string {
	bits := uint64(math.Float32bits(float32(v)))
	return g.internFloatBits(bits, 4)
}

func (g *Generator) internFloat64(v float64) string {
	bits := math.Float64bits(v)
	return g.internFloatBits(bits, 8)
}

func (g *Generator) internFloatBits(bits uint64, width int) string {
	for _, f := range g.floats {
		if f.Bits == bits && f.Width == width {
			return f.Label
		}
	}
	label := g.nextLabel()
	g.floats = append(g.floats, floatConst{Label: label, Bits: bits, Width: width})
	return label
}
