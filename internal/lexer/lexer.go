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

// Package lexer turns normalized source.Line values into a semantic
// token stream: a greedy raw tokenizer (spec §4.2) followed by a
// merge pass that collapses import-path segments into one token.
package lexer

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/tomyk9991/monkeyc/internal/source"
	"github.com/tomyk9991/monkeyc/internal/token"
)

// Error reports a lexing failure at a source position.
type Error struct {
	Pos     token.Position
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// Lex tokenizes every normalized line and merges import-path segments,
// returning a single semantic token stream terminated by an EOF token.
func Lex(lines []source.Line) ([]token.Token, error) {
	var toks []token.Token

	for _, ln := range lines {
		lineToks, err := lexLine(ln)
		if err != nil {
			return nil, err
		}
		toks = append(toks, lineToks...)
	}

	lastLine := token.Point(1)
	if len(lines) > 0 {
		lastLine = lines[len(lines)-1].ActualLines
	}
	toks = append(toks, token.Token{Kind: token.EOF, Pos: token.Position{Line: lastLine}})

	return mergeImportPaths(toks), nil
}

// lexLine greedily consumes the longest matching token at each
// position: string literal, numeric literal (+ optional type suffix),
// keyword, multi-char operator, single-char punctuation, identifier.
func lexLine(ln source.Line) ([]token.Token, error) {
	runes := []rune(ln.Text)
	var toks []token.Token
	i := 0

	posAt := func(start, end int) token.Position {
		return token.Position{Line: ln.ActualLines, Column: token.NewRange(start, end)}
	}

	for i < len(runes) {
		r := runes[i]
		if unicode.IsSpace(r) {
			i++
			continue
		}

		start := i

		switch {
		case r == '"':
			j := i + 1
			for j < len(runes) && runes[j] != '"' {
				j++
			}
			if j >= len(runes) {
				return nil, &Error{Pos: posAt(start, start + 1), Message: "unterminated string literal"}
			}
			text := string(runes[i+1 : j])
			toks = append(toks, token.Token{Kind: token.STRING, Text: text, Pos: posAt(start, j+1)})
			i = j + 1

		case unicode.IsDigit(r):
			j := i
			isFloat := false
			for j < len(runes) && unicode.IsDigit(runes[j]) {
				j++
			}
			if j < len(runes) && runes[j] == '.' {
				isFloat = true
				j++
				for j < len(runes) && unicode.IsDigit(runes[j]) {
					j++
				}
			}
			// optional type suffix: `_` followed by an identifier, e.g. `_i64`
			if j < len(runes) && runes[j] == '_' {
				k := j + 1
				for k < len(runes) && (unicode.IsLetter(runes[k]) || unicode.IsDigit(runes[k])) {
					k++
				}
				if k > j+1 {
					j = k
				}
			}
			kind := token.INT
			if isFloat {
				kind = token.FLOAT
			}
			toks = append(toks, token.Token{Kind: kind, Text: string(runes[start:j]), Pos: posAt(start, j)})
			i = j

		case unicode.IsLetter(r) || r == '_' || r == '$':
			j := i
			for j < len(runes) && (unicode.IsLetter(runes[j]) || unicode.IsDigit(runes[j]) || runes[j] == '_' || runes[j] == '$') {
				j++
			}
			text := string(runes[start:j])
			if kw, ok := token.Keywords[text]; ok {
				toks = append(toks, token.Token{Kind: kw, Text: text, Pos: posAt(start, j)})
			} else {
				toks = append(toks, token.Token{Kind: token.IDENT, Text: text, Pos: posAt(start, j)})
			}
			i = j

		default:
			matched := false
			for _, p := range token.Punctuation {
				n := len(p.Text)
				if i+n <= len(runes) && string(runes[i:i+n]) == p.Text {
					toks = append(toks, token.Token{Kind: p.Kind, Text: p.Text, Pos: posAt(start, start+n)})
					i += n
					matched = true
					break
				}
			}
			if !matched {
				return nil, &Error{Pos: posAt(start, start + 1), Message: fmt.Sprintf("unexpected character %q", r)}
			}
		}
	}

	return toks, nil
}

// mergeImportPaths collapses `ident ('-'|'/'|'.') ident ...` runs that
// follow an `import` keyword into a single STRING token naming the
// module path, per spec §4.2.
func mergeImportPaths(toks []token.Token) []token.Token {
	var out []token.Token
	i := 0
	for i < len(toks) {
		out = append(out, toks[i])
		if toks[i].Kind != token.IMPORT {
			i++
			continue
		}
		i++
		if i >= len(toks) || toks[i].Kind != token.IDENT {
			continue
		}
		start := i
		var b strings.Builder
		b.WriteString(toks[i].Text)
		i++
		for i+1 < len(toks) && isPathSeparator(toks[i].Kind) && toks[i+1].Kind == token.IDENT {
			b.WriteString(separatorText(toks[i].Kind))
			b.WriteString(toks[i+1].Text)
			i += 2
		}
		pos := toks[start].Pos.Merge(toks[i-1].Pos)
		out = append(out, token.Token{Kind: token.STRING, Text: b.String(), Pos: pos})
	}
	return out
}

func isPathSeparator(k token.Kind) bool {
	return k == token.MINUS || k == token.SLASH || k == token.DOT
}

func separatorText(k token.Kind) string {
	switch k {
	case token.MINUS:
		return "-"
	case token.SLASH:
		return "/"
	case token.DOT:
		return "."
	default:
		return ""
	}
}
