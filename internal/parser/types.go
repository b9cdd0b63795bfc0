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

package parser

import (
	"github.com/tomyk9991/monkeyc/internal/token"
	"github.com/tomyk9991/monkeyc/internal/types"
)

// parseType parses a type annotation: an optional `mut` qualifier,
// then either a primitive name, a custom/record name, a `*T` pointer,
// or a `[T, N]` fixed-size array (spec §3, supplemented in
// SPEC_FULL.md §4.3 for record names).
func (p *Parser) parseType() (types.Type, error) {
	mut := types.Immutable
	if p.at(token.MUT) {
		p.advance()
		mut = types.Mutable
	}

	switch {
	case p.at(token.STAR):
		p.advance()
		inner, err := p.parseType()
		if err != nil {
			return types.Type{}, err
		}
		return types.Pointer(inner, mut), nil

	case p.at(token.LBRACKET):
		p.advance()
		elem, err := p.parseType()
		if err != nil {
			return types.Type{}, err
		}
		if _, err := p.expect(token.COMMA); err != nil {
			return types.Type{}, err
		}
		lenTok := p.cur()
		if lenTok.Kind != token.INT {
			return types.Type{}, &PatternNotMatchedError{Value: lenTok.Text, Pos: lenTok.Pos}
		}
		p.advance()
		n, err := parseIntLiteralText(lenTok.Text)
		if err != nil {
			return types.Type{}, &NumberParseError{Text: lenTok.Text, Pos: lenTok.Pos, Err: err}
		}
		if _, err := p.expect(token.RBRACKET); err != nil {
			return types.Type{}, err
		}
		return types.Array(elem, int(n)), nil

	case p.at(token.IDENT):
		name := p.cur().Text
		p.advance()
		if name == "void" {
			return types.Void(), nil
		}
		if w, ok := types.IntWidthFromName(name); ok {
			return types.Integer(w, mut), nil
		}
		if w, ok := types.FloatWidthFromName(name); ok {
			return types.Float(w, mut), nil
		}
		if name == "bool" {
			return types.Bool(mut), nil
		}
		if name == "string" {
			// `*string` in an annotation must equal the type of a string
			// literal (spec §3), so the bare name maps to the pointee and
			// the surrounding `*` supplies the pointer.
			return types.Custom("string", mut), nil
		}
		return types.Custom(name, mut), nil
	}

	return types.Type{}, &PatternNotMatchedError{Value: p.cur().Text, Pos: p.cur().Pos}
}
