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

// Package source turns raw program text into the line-annotated
// stream the lexer consumes (spec §4.1). It is grounded on
// original_source/src/interpreter/io/code_line.rs's CodeLine /
// Normalizable, adapted from a per-physical-line regex pass into a
// small hand-written scanner.
package source

import (
	"strings"

	"github.com/tomyk9991/monkeyc/internal/token"
)

// insertSpaceBefore is the punctuation set that always gets a
// surrounding space during normalization, per spec §4.1.
var insertSpaceBefore = map[rune]bool{
	';': true, '(': true, ')': true, ':': true, ',': true, '{': true, '}': true,
}

// Line is one normalized statement (or a lone brace) together with
// the physical source line it was built from (a token.Range, end
// exclusive; Intake never merges lines, so it always spans one) and
// a monotonic virtual line number used for diagnostics grouping.
type Line struct {
	Text        string
	ActualLines token.Range
	Virtual     int
}

// Intake reads source text into normalized Lines: comments and blank
// lines are dropped, punctuation is space-separated, and each
// semicolon-terminated statement (or standalone brace) becomes its
// own virtual line while remembering which physical lines it came
// from.
func Intake(text string) []Line {
	var out []Line
	virtual := 1

	for i, raw := range strings.Split(text, "\n") {
		physical := i + 1
		stripped := stripComment(raw)
		normalized := normalizeSpacing(stripped)
		if strings.TrimSpace(normalized) == "" {
			continue
		}

		for _, stmt := range splitStatements(normalized) {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" {
				continue
			}
			out = append(out, Line{
				Text:        stmt,
				ActualLines: token.Point(physical),
				Virtual:     virtual,
			})
			virtual++
		}
	}

	return out
}

// stripComment removes a `//` end-of-line comment, respecting string
// literals so a `//` inside a quoted string is not treated as one.
func stripComment(line string) string {
	inString := false
	for i := 0; i < len(line)-1; i++ {
		switch line[i] {
		case '"':
			inString = !inString
		case '/':
			if !inString && line[i+1] == '/' {
				return line[:i]
			}
		}
	}
	return line
}

// normalizeSpacing surrounds the fixed punctuation set with spaces and
// collapses runs of interior whitespace to a single space, without
// touching whitespace inside string literals.
func normalizeSpacing(line string) string {
	var b strings.Builder
	inString := false
	lastWasSpace := false

	runes := []rune(line)
	for i, r := range runes {
		if r == '"' {
			inString = !inString
		}
		if !inString {
			if insertSpaceBefore[r] {
				if !lastWasSpace && b.Len() > 0 {
					b.WriteRune(' ')
				}
				b.WriteRune(r)
				lastWasSpace = true
				if i+1 < len(runes) && runes[i+1] != ' ' {
					b.WriteRune(' ')
				} else if i+1 < len(runes) {
					// the following space supplies the separator
					lastWasSpace = false
				}
				continue
			}
			if r == ' ' || r == '\t' {
				if lastWasSpace {
					continue
				}
				b.WriteRune(' ')
				lastWasSpace = true
				continue
			}
		}
		b.WriteRune(r)
		lastWasSpace = false
	}

	return strings.TrimSpace(b.String())
}

// splitStatements breaks a normalized line into standalone statements:
// a run of text up to and including a top-level `;`, or a lone `}`.
// `{` never starts a split — an opening brace stays attached to the
// header that introduced it (e.g. `if ( cond ) {`), matching the
// original normalizer's treatment of scope-opening headers.
func splitStatements(line string) []string {
	fields := strings.Fields(line)
	var stmts []string
	var cur []string

	for _, f := range fields {
		if f == "}" && len(cur) == 0 {
			stmts = append(stmts, "}")
			continue
		}
		cur = append(cur, f)
		if f == ";" || strings.HasSuffix(f, ";") {
			stmts = append(stmts, strings.Join(cur, " "))
			cur = nil
		}
	}
	if len(cur) > 0 {
		stmts = append(stmts, strings.Join(cur, " "))
	}
	return stmts
}
