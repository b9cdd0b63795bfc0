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
	"github.com/tomyk9991/monkeyc/internal/types"
)

// parseStatement dispatches on the current token's kind; it is used
// both for top-level declarations and for statements inside a block,
// since Monkey-Language uses one grammar for both (spec §3).
func (p *Parser) parseStatement() (ast.Node, error) {
	switch p.cur().Kind {
	case token.IMPORT:
		return p.parseImport()
	case token.RECORD:
		return p.parseRecordDecl()
	case token.FN:
		return p.parseMethodDefinition()
	case token.LET:
		return p.parseLet()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseFor()
	case token.RETURN:
		return p.parseReturn()
	case token.IDENT, token.STAR:
		return p.parseAssignOrCallStatement()
	case token.EOF:
		return nil, &EmptyIteratorError{Pos: p.cur().Pos}
	default:
		return nil, p.ambiguousStatementError()
	}
}

// parseLet parses `let [mut] name [: Type] = expr;`.
func (p *Parser) parseLet() (ast.Node, error) {
	pos := p.cur().Pos
	p.advance() // let
	mut := types.Immutable
	if p.at(token.MUT) {
		mut = types.Mutable
		p.advance()
	}
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if token.IsReserved(nameTok.Text) {
		return nil, &NameReservedError{Name: nameTok.Text, Pos: nameTok.Pos}
	}

	var explicit *types.Type
	if p.at(token.COLON) {
		p.advance()
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		explicit = &t
	}

	if _, err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}
	rhs, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}

	return &ast.Variable{
		LValue:     &ast.IdentLValue{Name: nameTok.Text, Position: nameTok.Pos},
		Mutability: mut,
		Type:       explicit,
		Define:     true,
		Assignable: rhs,
		Position:   pos,
	}, nil
}

// parseLValue parses an identifier, optionally wrapped in leading
// `*` dereferences and/or trailing `[idx]` indices (spec §3's
// LValue sum type).
func (p *Parser) parseLValue() (ast.LValue, error) {
	if p.at(token.STAR) {
		pos := p.cur().Pos
		p.advance()
		inner, err := p.parseLValue()
		if err != nil {
			return nil, err
		}
		return &ast.DerefLValue{Inner: inner, Position: pos}, nil
	}

	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	var lv ast.LValue = &ast.IdentLValue{Name: nameTok.Text, Position: nameTok.Pos}
	for p.at(token.LBRACKET) {
		p.advance()
		idx, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RBRACKET); err != nil {
			return nil, err
		}
		lv = &ast.IndexLValue{Inner: lv, Index: idx, Position: nameTok.Pos}
	}
	return lv, nil
}

// parseAssignStatement parses `lvalue = expr`, optionally consuming a
// trailing `;`. The for-loop update clause reuses this with
// requireSemi=false since `)` terminates it instead.
func (p *Parser) parseAssignStatement(requireSemi bool) (*ast.Variable, error) {
	pos := p.cur().Pos
	lv, err := p.parseLValue()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}
	rhs, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if requireSemi {
		if _, err := p.expect(token.SEMI); err != nil {
			return nil, err
		}
	}
	return &ast.Variable{LValue: lv, Define: false, Assignable: rhs, Position: pos}, nil
}

// parseAssignOrCallStatement disambiguates a bare `name(args);` call
// statement from an assignment by looking one token ahead: only a
// plain identifier directly followed by `(` is a call.
func (p *Parser) parseAssignOrCallStatement() (ast.Node, error) {
	if p.at(token.IDENT) && p.peekN(1).Kind == token.LPAREN {
		pos := p.cur().Pos
		leaf, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		call, ok := leaf.(*ast.MethodCall)
		if !ok {
			return nil, &PatternNotMatchedError{Value: pos.String(), Pos: pos}
		}
		if _, err := p.expect(token.SEMI); err != nil {
			return nil, err
		}
		return &ast.ExprStatement{Call: call, Position: pos}, nil
	}
	return p.parseAssignStatement(true)
}

func (p *Parser) parseIf() (ast.Node, error) {
	pos := p.cur().Pos
	p.advance() // if
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	thenBody, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	var elseBody []ast.Node
	if p.at(token.ELSE) {
		p.advance()
		if p.at(token.IF) {
			elseIf, err := p.parseIf()
			if err != nil {
				return nil, err
			}
			elseBody = []ast.Node{elseIf}
		} else {
			elseBody, err = p.parseBlock()
			if err != nil {
				return nil, err
			}
		}
	}

	return &ast.If{Condition: cond, Then: thenBody, Else: elseBody, Position: pos}, nil
}

func (p *Parser) parseWhile() (ast.Node, error) {
	pos := p.cur().Pos
	p.advance() // while
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.While{Condition: cond, Body: body, Position: pos}, nil
}

// parseFor parses `for (let i: T = init; cond; i = update) { body }`.
func (p *Parser) parseFor() (ast.Node, error) {
	pos := p.cur().Pos
	p.advance() // for
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}

	initNode, err := p.parseLet()
	if err != nil {
		return nil, err
	}
	init := initNode.(*ast.Variable)

	cond, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}

	update, err := p.parseAssignStatement(false)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &ast.For{Init: init, Condition: cond, Update: update, Body: body, Position: pos}, nil
}

func (p *Parser) parseReturn() (ast.Node, error) {
	pos := p.cur().Pos
	p.advance() // return
	if p.at(token.SEMI) {
		p.advance()
		return &ast.Return{Position: pos}, nil
	}
	val, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return &ast.Return{Value: val, Position: pos}, nil
}

// ambiguousStatementError ranks the fixed set of statement grammars
// against the leading token-kind run by patterned Levenshtein
// distance, and reports the closest candidate's error (spec §4.3).
func (p *Parser) ambiguousStatementError() error {
	pos := p.cur().Pos
	candidates := []candidate{
		{pattern: []token.Kind{token.LET, token.IDENT, token.ASSIGN}, err: &PatternNotMatchedError{Value: "let <name> = <expr>;", Pos: pos}},
		{pattern: []token.Kind{token.IDENT, token.ASSIGN}, err: &PatternNotMatchedError{Value: "<name> = <expr>;", Pos: pos}},
		{pattern: []token.Kind{token.IDENT, token.LPAREN}, err: &PatternNotMatchedError{Value: "<name>(<args>);", Pos: pos}},
		{pattern: []token.Kind{token.IF, token.LPAREN}, err: &PatternNotMatchedError{Value: "if (<cond>) { ... }", Pos: pos}},
		{pattern: []token.Kind{token.WHILE, token.LPAREN}, err: &PatternNotMatchedError{Value: "while (<cond>) { ... }", Pos: pos}},
		{pattern: []token.Kind{token.FOR, token.LPAREN}, err: &PatternNotMatchedError{Value: "for (<init>; <cond>; <update>) { ... }", Pos: pos}},
		{pattern: []token.Kind{token.RETURN, Wildcard}, err: &PatternNotMatchedError{Value: "return [<expr>];", Pos: pos}},
		{pattern: []token.Kind{token.FN, token.IDENT}, err: &PatternNotMatchedError{Value: "fn <name>(...): <type> { ... }", Pos: pos}},
		{pattern: []token.Kind{token.IMPORT, token.STRING}, err: &PatternNotMatchedError{Value: "import <path>;", Pos: pos}},
		{pattern: []token.Kind{token.RECORD, token.IDENT}, err: &PatternNotMatchedError{Value: "record <name> { ... }", Pos: pos}},
	}
	return rankCandidates(p.leadingKinds(3), candidates)
}
