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

// Package parser builds the AST (internal/ast) from a semantic token
// stream (internal/token), by recursive descent with precedence
// climbing for expressions (spec §4.3). Unlike the legacy
// per-CodeLine pattern match of original_source's scope.rs, this
// parser walks the flat token stream directly: a statement may span
// any number of source lines, and the grammar is driven by token kind
// rather than by a regex over one physical line.
package parser

import (
	"github.com/tomyk9991/monkeyc/internal/ast"
	"github.com/tomyk9991/monkeyc/internal/token"
)

// Parser holds the cursor over a fixed token slice. It is not
// reentrant across goroutines.
type Parser struct {
	toks []token.Token
	pos  int
}

// Parse turns a complete token stream (including its trailing EOF
// token, as produced by internal/lexer.Lex) into a Program.
func Parse(toks []token.Token) (*ast.Program, error) {
	p := &Parser{toks: toks}
	prog := &ast.Program{}
	for !p.at(token.EOF) {
		decl, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.Declarations = append(prog.Declarations, decl)
	}
	return prog, nil
}

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF sentinel
	}
	return p.toks[p.pos]
}

func (p *Parser) peekN(n int) token.Token {
	i := p.pos + n
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[i]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) at(k token.Kind) bool { return p.cur().Kind == k }

func (p *Parser) expect(k token.Kind) (token.Token, error) {
	if p.at(k) {
		return p.advance(), nil
	}
	if k == token.RPAREN {
		return token.Token{}, &ParenExpectedError{Pos: p.cur().Pos}
	}
	return token.Token{}, &PatternNotMatchedError{Value: p.cur().Text, Pos: p.cur().Pos}
}

// leadingKinds collects up to n token kinds starting at the parser's
// current position, used to feed the Levenshtein candidate ranker
// when a statement's dispatch token doesn't resolve unambiguously.
func (p *Parser) leadingKinds(n int) []token.Kind {
	kinds := make([]token.Kind, 0, n)
	for i := 0; i < n; i++ {
		t := p.peekN(i)
		kinds = append(kinds, t.Kind)
		if t.Kind == token.EOF || t.Kind == token.SEMI {
			break
		}
	}
	return kinds
}

// parseBlock expects and consumes a `{ ... }` sequence of statements.
func (p *Parser) parseBlock() ([]ast.Node, error) {
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	var body []ast.Node
	for !p.at(token.RBRACE) {
		if p.at(token.EOF) {
			return nil, &EmptyIteratorError{Pos: p.cur().Pos}
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	p.advance() // consume '}'
	return body, nil
}
