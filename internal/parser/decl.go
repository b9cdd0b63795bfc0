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
	"github.com/tomyk9991/monkeyc/internal/ast"
	"github.com/tomyk9991/monkeyc/internal/token"
)

// parseImport parses `import a.b.c;`. The lexer's merge pass has
// already folded the dotted path into a single STRING token
// immediately following IMPORT (internal/lexer mergeImportPaths).
func (p *Parser) parseImport() (ast.Node, error) {
	pos := p.cur().Pos
	p.advance() // import
	pathTok, err := p.expect(token.STRING)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return &ast.Import{Path: pathTok.Text, Position: pos}, nil
}

// parseRecordDecl parses the supplemental `record Name { field: Type,
// ... }` form (SPEC_FULL.md §4.3).
func (p *Parser) parseRecordDecl() (ast.Node, error) {
	pos := p.cur().Pos
	p.advance() // record
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if token.IsReserved(nameTok.Text) {
		return nil, &NameReservedError{Name: nameTok.Text, Pos: nameTok.Pos}
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	var fields []ast.Param
	for !p.at(token.RBRACE) {
		fnameTok, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		ftype, err := p.parseType()
		if err != nil {
			return nil, err
		}
		fields = append(fields, ast.Param{Name: fnameTok.Text, Type: ftype})
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return &ast.RecordDecl{Name: nameTok.Text, Fields: fields, Position: pos}, nil
}

// parseMethodDefinition parses `fn [extern] name(arg: Type, ...): Ret
// { ... }`, or, for externs, the semicolon-terminated prototype form
// with no body (spec §4.3 / §4.7's extern name-mangling exception).
func (p *Parser) parseMethodDefinition() (ast.Node, error) {
	pos := p.cur().Pos
	p.advance() // fn
	isExtern := false
	if p.at(token.EXTERN) {
		isExtern = true
		p.advance()
	}
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if token.IsReserved(nameTok.Text) {
		return nil, &NameReservedError{Name: nameTok.Text, Pos: nameTok.Pos}
	}

	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var args []ast.Param
	for !p.at(token.RPAREN) {
		pnameTok, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		ptype, err := p.parseType()
		if err != nil {
			return nil, err
		}
		args = append(args, ast.Param{Name: pnameTok.Text, Type: ptype})
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COLON); err != nil {
		return nil, err
	}
	retType, err := p.parseType()
	if err != nil {
		return nil, err
	}

	if isExtern {
		if _, err := p.expect(token.SEMI); err != nil {
			return nil, err
		}
		return &ast.MethodDefinition{Name: nameTok.Text, ReturnType: retType, Arguments: args, IsExtern: true, Position: pos}, nil
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.MethodDefinition{Name: nameTok.Text, ReturnType: retType, Arguments: args, Body: body, Position: pos}, nil
}
