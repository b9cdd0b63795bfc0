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

// parseExpr is the precedence-climbing driver over the ten binary
// levels of token.BinaryPrecedence (spec §4.3).
func (p *Parser) parseExpr(minPrec int) (*ast.Expression, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		opKind := p.cur().Kind
		if !token.IsBinaryOperator(opKind) {
			break
		}
		prec := token.BinaryPrecedence(opKind)
		if prec < minPrec {
			break
		}
		p.advance()
		rhs, err := p.parseExpr(prec + 1)
		if err != nil {
			return nil, err
		}
		lhs = &ast.Expression{Lhs: lhs, Rhs: rhs, Operator: opKind, Position: lhs.Position.Merge(rhs.Position)}
	}
	return lhs, nil
}

// parseUnary collects any run of prefix modifiers (&, *, !, ~, unary
// -/+) ahead of a postfixed primary (spec §3: postfix binds tighter
// than prefix, so `*a[0]` derefs the result of indexing `a`, not `a`
// itself).
func (p *Parser) parseUnary() (*ast.Expression, error) {
	var prefixes []ast.Prefix
	positive := true

loop:
	for {
		switch p.cur().Kind {
		case token.LPAREN:
			castType, ok := p.castPrefix()
			if !ok {
				break loop
			}
			prefixes = append(prefixes, ast.Prefix{Kind: ast.PrefixCast, CastType: castType})
		case token.AMP:
			prefixes = append(prefixes, ast.Prefix{Kind: ast.PrefixAddr})
			p.advance()
		case token.STAR:
			prefixes = append(prefixes, ast.Prefix{Kind: ast.PrefixDeref})
			p.advance()
		case token.BANG:
			prefixes = append(prefixes, ast.Prefix{Kind: ast.PrefixNot})
			p.advance()
		case token.TILDE:
			prefixes = append(prefixes, ast.Prefix{Kind: ast.PrefixBitNot})
			p.advance()
		case token.MINUS:
			positive = !positive
			p.advance()
		case token.PLUS:
			p.advance()
		default:
			break loop
		}
	}

	startPos := p.cur().Pos
	leaf, idx, err := p.parsePrimaryPostfix()
	if err != nil {
		return nil, err
	}
	return &ast.Expression{Leaf: leaf, Index: idx, Prefix: normalizeCasts(prefixes), Positive: positive, Position: startPos}, nil
}

// castPrefix recognizes the `(T)` cast form at the current `(`: only a
// bare numeric type name between the parentheses counts, so an ordinary
// parenthesized subexpression like `( x )` is never misread as a cast.
// ok=false leaves the cursor untouched.
func (p *Parser) castPrefix() (types.Type, bool) {
	name := p.peekN(1)
	if name.Kind != token.IDENT || p.peekN(2).Kind != token.RPAREN {
		return types.Type{}, false
	}
	var t types.Type
	if w, ok := types.IntWidthFromName(name.Text); ok {
		t = types.Integer(w, types.Immutable)
	} else if w, ok := types.FloatWidthFromName(name.Text); ok {
		t = types.Float(w, types.Immutable)
	} else {
		return types.Type{}, false
	}
	p.advance() // (
	p.advance() // type name
	p.advance() // )
	return t, true
}

// normalizeCasts moves every cast prefix to the tail of the list, in
// innermost-to-outermost order: a cast names the value's final type
// (spec §4.4, "the cast is always the outermost effective type"), so
// the value-shaping prefixes (& * ! ~) must run first when the list is
// applied left-to-right.
func normalizeCasts(prefixes []ast.Prefix) []ast.Prefix {
	var rest, casts []ast.Prefix
	for _, p := range prefixes {
		if p.Kind == ast.PrefixCast {
			casts = append(casts, p)
		} else {
			rest = append(rest, p)
		}
	}
	if len(casts) == 0 {
		return prefixes
	}
	for i := len(casts) - 1; i >= 0; i-- {
		rest = append(rest, casts[i])
	}
	return rest
}

func (p *Parser) parsePrimaryPostfix() (ast.Assignable, ast.Assignable, error) {
	leaf, err := p.parsePrimary()
	if err != nil {
		return nil, nil, err
	}
	var idx ast.Assignable
	if p.at(token.LBRACKET) {
		p.advance()
		idxExpr, err := p.parseExpr(0)
		if err != nil {
			return nil, nil, err
		}
		if _, err := p.expect(token.RBRACKET); err != nil {
			return nil, nil, err
		}
		idx = idxExpr
	}
	return leaf, idx, nil
}

func (p *Parser) parsePrimary() (ast.Assignable, error) {
	t := p.cur()
	switch t.Kind {
	case token.INT:
		p.advance()
		v, err := parseIntLiteralText(t.Text)
		if err != nil {
			return nil, &NumberParseError{Text: t.Text, Pos: t.Pos, Err: err}
		}
		_, suffix := splitSuffix(t.Text)
		w, has := intWidthSuffix(suffix)
		return &ast.IntegerLit{Value: v, Width: w, HasWidth: has, Position: t.Pos}, nil

	case token.FLOAT:
		p.advance()
		v, err := parseFloatLiteralText(t.Text)
		if err != nil {
			return nil, &NumberParseError{Text: t.Text, Pos: t.Pos, Err: err}
		}
		_, suffix := splitSuffix(t.Text)
		w, has := floatWidthSuffix(suffix)
		return &ast.FloatLit{Value: v, Width: w, HasWidth: has, Position: t.Pos}, nil

	case token.BOOL:
		p.advance()
		return &ast.BoolLit{Value: t.Text == "true", Position: t.Pos}, nil

	case token.STRING:
		p.advance()
		return &ast.StaticString{Value: t.Text, Position: t.Pos}, nil

	case token.LPAREN:
		p.advance()
		inner, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return inner, nil

	case token.LBRACKET:
		p.advance()
		elems, err := p.parseBracketedList(token.RBRACKET, "[")
		if err != nil {
			return nil, err
		}
		return &ast.ArrayLiteral{Elements: elems, Position: t.Pos}, nil

	case token.IDENT:
		name := t.Text
		p.advance()
		switch {
		case p.at(token.LPAREN):
			p.advance()
			args, err := p.parseBracketedList(token.RPAREN, "(")
			if err != nil {
				return nil, err
			}
			return &ast.MethodCall{Name: name, Args: args, Position: t.Pos}, nil
		case p.at(token.LBRACE):
			return p.parseObjectLiteral(name, t.Pos)
		default:
			return &ast.Identifier{Name: name, Position: t.Pos}, nil
		}

	case token.EOF:
		return nil, &EmptyIteratorError{Pos: t.Pos}

	default:
		// a token no factor production can start with, e.g. `let a = ;`
		return nil, &UndefinedSequenceError{Found: t.Text, Pos: t.Pos}
	}
}

// parseBracketedList parses a comma-separated, possibly empty list of
// expressions, reporting a Dyck imbalance when the stream runs out
// before the closing bracket is found (spec §4.3).
func (p *Parser) parseBracketedList(closing token.Kind, bracketText string) ([]ast.Assignable, error) {
	var items []ast.Assignable
	if p.at(closing) {
		p.advance()
		return items, nil
	}
	for {
		if p.at(token.EOF) || p.at(token.SEMI) {
			return nil, &DyckImbalanceError{Bracket: bracketText, Expected: "close", Pos: p.cur().Pos}
		}
		e, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if !p.at(closing) {
		return nil, &DyckImbalanceError{Bracket: bracketText, Expected: "close", Pos: p.cur().Pos}
	}
	p.advance()
	return items, nil
}

// parseObjectLiteral parses the supplemental `Name { field: expr, ... }`
// construction syntax (SPEC_FULL.md §4.3).
func (p *Parser) parseObjectLiteral(typeName string, pos token.Position) (*ast.ObjectLiteral, error) {
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	var fields []ast.FieldInit
	for !p.at(token.RBRACE) {
		if p.at(token.EOF) {
			return nil, &DyckImbalanceError{Bracket: "{", Expected: "close", Pos: p.cur().Pos}
		}
		nameTok, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		value, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		fields = append(fields, ast.FieldInit{Name: nameTok.Text, Value: value})
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return &ast.ObjectLiteral{TypeName: typeName, Fields: fields, Position: pos}, nil
}
