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

package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomyk9991/monkeyc/internal/lexer"
	"github.com/tomyk9991/monkeyc/internal/source"
	"github.com/tomyk9991/monkeyc/internal/token"
)

func lexSrc(t *testing.T, src string) []token.Token {
	t.Helper()
	toks, err := lexer.Lex(source.Intake(src))
	require.NoError(t, err)
	return toks
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(toks))
	for _, tok := range toks {
		out = append(out, tok.Kind)
	}
	return out
}

func TestGreedyLongestMatch(t *testing.T) {
	cases := []struct {
		src  string
		want []token.Kind
	}{
		{"a <= b ;", []token.Kind{token.IDENT, token.LE, token.IDENT, token.SEMI, token.EOF}},
		{"a < b ;", []token.Kind{token.IDENT, token.LT, token.IDENT, token.SEMI, token.EOF}},
		{"a << 2 ;", []token.Kind{token.IDENT, token.SHL, token.INT, token.SEMI, token.EOF}},
		{"a && b ;", []token.Kind{token.IDENT, token.LOGAND, token.IDENT, token.SEMI, token.EOF}},
		{"a & b ;", []token.Kind{token.IDENT, token.AMP, token.IDENT, token.SEMI, token.EOF}},
		{"a != b ;", []token.Kind{token.IDENT, token.NE, token.IDENT, token.SEMI, token.EOF}},
	}
	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			assert.Equal(t, tc.want, kinds(lexSrc(t, tc.src)))
		})
	}
}

func TestNumericLiteralSuffix(t *testing.T) {
	toks := lexSrc(t, "let a = 5_i64 ;")
	require.Equal(t, token.INT, toks[3].Kind)
	assert.Equal(t, "5_i64", toks[3].Text)

	toks = lexSrc(t, "let b = 2.5_f64 ;")
	require.Equal(t, token.FLOAT, toks[3].Kind)
	assert.Equal(t, "2.5_f64", toks[3].Text)
}

func TestStringLiteralKeepsInnerText(t *testing.T) {
	toks := lexSrc(t, `let s = "Hallo Welt" ;`)
	require.Equal(t, token.STRING, toks[3].Kind)
	assert.Equal(t, "Hallo Welt", toks[3].Text)
}

func TestUnterminatedStringFails(t *testing.T) {
	_, err := lexer.Lex(source.Intake(`let s = "oops;`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unterminated")
}

func TestKeywordsBeatIdentifiers(t *testing.T) {
	toks := lexSrc(t, "while whiley ;")
	assert.Equal(t, token.WHILE, toks[0].Kind)
	assert.Equal(t, token.IDENT, toks[1].Kind)
	assert.Equal(t, "whiley", toks[1].Text)
}

func TestImportPathMerged(t *testing.T) {
	toks := lexSrc(t, "import monkey-language/std.monkey;")
	require.Equal(t, token.IMPORT, toks[0].Kind)
	require.Equal(t, token.STRING, toks[1].Kind)
	assert.Equal(t, "monkey-language/std.monkey", toks[1].Text)
	assert.Equal(t, token.SEMI, toks[2].Kind)
}

func TestTokenPositionsTrackLineAndColumn(t *testing.T) {
	toks := lexSrc(t, "let a = 1;\nlet b = 2;")
	require.Equal(t, token.LET, toks[0].Kind)
	assert.Equal(t, 1, toks[0].Pos.Line.Start)
	var second token.Token
	for _, tok := range toks {
		if tok.Kind == token.LET && tok.Pos.Line.Start == 2 {
			second = tok
		}
	}
	assert.Equal(t, token.LET, second.Kind)
}
