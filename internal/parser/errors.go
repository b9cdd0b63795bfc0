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
	"fmt"

	"github.com/tomyk9991/monkeyc/internal/token"
)

// The parser error taxonomy of spec §4.3 / §7. Every variant carries
// the source position it was raised at.

type PatternNotMatchedError struct {
	Value string
	Pos   token.Position
}

func (e *PatternNotMatchedError) Error() string {
	return fmt.Sprintf("%s: pattern not matched for %q", e.Pos, e.Value)
}

type ParenExpectedError struct {
	Pos token.Position
}

func (e *ParenExpectedError) Error() string {
	return fmt.Sprintf("%s: expected \")\"", e.Pos)
}

// UndefinedSequenceError reports a token no factor production can
// start with, raised by parsePrimary when an expression position holds
// something that is neither a literal, identifier, call, nor bracket.
type UndefinedSequenceError struct {
	Found string
	Pos   token.Position
}

func (e *UndefinedSequenceError) Error() string {
	return fmt.Sprintf("%s: undefined sequence %q", e.Pos, e.Found)
}

// DyckImbalanceError reports an unbalanced bracket nest in a call's
// argument list, naming the bracket and the direction of imbalance
// (spec §4.3).
type DyckImbalanceError struct {
	Bracket  string // "(", "{", or "["
	Expected string // "open", "close", or "expression between ,"
	Pos      token.Position
}

func (e *DyckImbalanceError) Error() string {
	return fmt.Sprintf("%s: unbalanced %q, expected %s", e.Pos, e.Bracket, e.Expected)
}

type NameReservedError struct {
	Name string
	Pos  token.Position
}

func (e *NameReservedError) Error() string {
	return fmt.Sprintf("%s: %q is a reserved name", e.Pos, e.Name)
}

type NumberParseError struct {
	Text string
	Pos  token.Position
	Err  error
}

func (e *NumberParseError) Error() string {
	return fmt.Sprintf("%s: cannot parse number %q: %v", e.Pos, e.Text, e.Err)
}

func (e *NumberParseError) Unwrap() error { return e.Err }

type EmptyIteratorError struct {
	Pos token.Position
}

func (e *EmptyIteratorError) Error() string {
	return fmt.Sprintf("%s: unexpected end of input", e.Pos)
}
