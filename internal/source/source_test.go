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

package source_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomyk9991/monkeyc/internal/source"
)

func TestIntakeNormalizesPunctuation(t *testing.T) {
	lines := source.Intake("if(x){")
	require.Len(t, lines, 1)
	assert.Equal(t, "if ( x ) {", lines[0].Text)
}

func TestIntakeSplitsMultiStatementLines(t *testing.T) {
	lines := source.Intake("let a = 1; let b = 2;")
	require.Len(t, lines, 2)
	assert.Equal(t, "let a = 1 ;", lines[0].Text)
	assert.Equal(t, "let b = 2 ;", lines[1].Text)
	// both statements keep the physical line they came from
	assert.Equal(t, 1, lines[0].ActualLines.Start)
	assert.Equal(t, 1, lines[1].ActualLines.Start)
	// while the virtual counter keeps advancing
	assert.Equal(t, 1, lines[0].Virtual)
	assert.Equal(t, 2, lines[1].Virtual)
}

func TestIntakeDropsCommentsAndBlankLines(t *testing.T) {
	lines := source.Intake("// banner\n\nlet a = 1; // trailing\n")
	require.Len(t, lines, 1)
	assert.Equal(t, "let a = 1 ;", lines[0].Text)
	assert.Equal(t, 3, lines[0].ActualLines.Start)
	assert.Equal(t, 1, lines[0].Virtual)
}

func TestIntakeKeepsSlashesInsideStrings(t *testing.T) {
	lines := source.Intake(`let s = "http://x";`)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0].Text, `"http://x"`)
}

func TestIntakeCollapsesInteriorWhitespace(t *testing.T) {
	lines := source.Intake("let    a\t=  1;")
	require.Len(t, lines, 1)
	assert.Equal(t, "let a = 1 ;", lines[0].Text)
}

func TestIntakeLoneClosingBrace(t *testing.T) {
	lines := source.Intake("while (x) {\nx = x - 1;\n}")
	require.Len(t, lines, 3)
	assert.Equal(t, "while ( x ) {", lines[0].Text)
	assert.Equal(t, "}", lines[2].Text)
}
