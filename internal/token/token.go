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

package token

import "github.com/samber/lo"

// Kind is the closed enumeration of raw token categories, per spec §3.
type Kind int

const (
	EOF Kind = iota
	IDENT
	INT
	FLOAT
	STRING
	BOOL

	// keywords
	LET
	MUT
	FN
	RETURN
	IF
	ELSE
	WHILE
	FOR
	EXTERN
	IMPORT
	RECORD

	// punctuation / operators
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	COMMA
	SEMI
	COLON
	DOT
	ASSIGN

	PLUS
	MINUS
	STAR
	SLASH
	PERCENT

	AMP
	PIPE
	CARET
	BANG
	TILDE
	SHL
	SHR

	LOGAND
	LOGOR

	LT
	GT
	LE
	GE
	EQ
	NE
)

var names = map[Kind]string{
	EOF: "EOF", IDENT: "identifier", INT: "integer literal", FLOAT: "float literal",
	STRING: "string literal", BOOL: "boolean literal",
	LET: "let", MUT: "mut", FN: "fn", RETURN: "return", IF: "if", ELSE: "else",
	WHILE: "while", FOR: "for", EXTERN: "extern", IMPORT: "import", RECORD: "record",
	LPAREN: "(", RPAREN: ")", LBRACE: "{", RBRACE: "}", LBRACKET: "[", RBRACKET: "]",
	COMMA: ",", SEMI: ";", COLON: ":", DOT: ".", ASSIGN: "=",
	PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", PERCENT: "%",
	AMP: "&", PIPE: "|", CARET: "^", BANG: "!", TILDE: "~", SHL: "<<", SHR: ">>",
	LOGAND: "&&", LOGOR: "||",
	LT: "<", GT: ">", LE: "<=", GE: ">=", EQ: "==", NE: "!=",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return "unknown"
}

// Keywords maps source spelling to keyword Kind. Populated once at
// package init and treated as immutable process-wide state (spec §5).
var Keywords = map[string]Kind{
	"let": LET, "mut": MUT, "fn": FN, "return": RETURN,
	"if": IF, "else": ELSE, "while": WHILE, "for": FOR,
	"extern": EXTERN, "import": IMPORT, "record": RECORD,
	"true": BOOL, "false": BOOL,
}

// PrimitiveTypeNames is the reserved set of built-in type spellings.
// Reserved names (§6) are the keyword set plus this set.
var PrimitiveTypeNames = map[string]bool{
	"void": true, "bool": true,
	"i8": true, "u8": true, "i16": true, "u16": true,
	"i32": true, "u32": true, "i64": true, "u64": true,
	"f32": true, "f64": true,
}

// IsReserved reports whether name may not be used as an identifier.
func IsReserved(name string) bool {
	if _, ok := Keywords[name]; ok {
		return true
	}
	return PrimitiveTypeNames[name]
}

// Punctuation lists multi-char operators before their single-char
// prefixes so the greedy tokenizer in lexer.Lex always matches the
// longest operator first (spec §4.2).
var Punctuation = []struct {
	Text string
	Kind Kind
}{
	{"<<", SHL}, {">>", SHR},
	{"&&", LOGAND}, {"||", LOGOR},
	{"<=", LE}, {">=", GE}, {"==", EQ}, {"!=", NE},
	{"(", LPAREN}, {")", RPAREN}, {"{", LBRACE}, {"}", RBRACE},
	{"[", LBRACKET}, {"]", RBRACKET},
	{",", COMMA}, {";", SEMI}, {":", COLON}, {".", DOT}, {"=", ASSIGN},
	{"+", PLUS}, {"-", MINUS}, {"*", STAR}, {"/", SLASH}, {"%", PERCENT},
	{"&", AMP}, {"|", PIPE}, {"^", CARET}, {"!", BANG}, {"~", TILDE},
	{"<", LT}, {">", GT},
}

// Token is a single raw or semantically-merged lexeme together with
// its source position.
type Token struct {
	Kind Kind
	Text string
	Pos  Position
}

// IsAssignmentOperator reports whether kind may appear on the left of
// a compound-free `=` statement dispatch (spec §4.3 statement forms).
func IsAssignmentOperator(k Kind) bool { return k == ASSIGN }

// BinaryPrecedence returns the binding power of a binary operator kind,
// low to high per spec §4.3; 0 means "not a binary operator".
func BinaryPrecedence(k Kind) int {
	switch k {
	case LOGOR:
		return 1
	case LOGAND:
		return 2
	case PIPE:
		return 3
	case CARET:
		return 4
	case AMP:
		return 5
	case EQ, NE:
		return 6
	case LT, GT, LE, GE:
		return 7
	case SHL, SHR:
		return 8
	case PLUS, MINUS:
		return 9
	case STAR, SLASH, PERCENT:
		return 10
	default:
		return 0
	}
}

// IsBinaryOperator reports whether k can start a binary operator.
func IsBinaryOperator(k Kind) bool { return BinaryPrecedence(k) > 0 }

// Kinds returns the Kind of every token, used by the parser's
// patterned-Levenshtein ranking to collapse a line to its shape.
func Kinds(toks []Token) []Kind {
	return lo.Map(toks, func(t Token, _ int) Kind { return t.Kind })
}
