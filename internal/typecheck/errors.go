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

package typecheck

import (
	"fmt"

	"github.com/tomyk9991/monkeyc/internal/token"
)

// The static checker's error taxonomy (spec §4.5).

type TypeMismatchError struct {
	Expected, Actual string
	Pos              token.Position
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s: expected type %s, got %s", e.Pos, e.Expected, e.Actual)
}

type ImmutabilityViolatedError struct {
	Name string
	Pos  token.Position
}

func (e *ImmutabilityViolatedError) Error() string {
	return fmt.Sprintf("%s: %q is not mutable", e.Pos, e.Name)
}

type ArityMismatchError struct {
	Name          string
	Expected, Got int
	Pos           token.Position
}

func (e *ArityMismatchError) Error() string {
	return fmt.Sprintf("%s: %q expects %d argument(s), got %d", e.Pos, e.Name, e.Expected, e.Got)
}

type IllegalIndexOperationError struct {
	Message string
	Pos     token.Position
}

func (e *IllegalIndexOperationError) Error() string {
	return fmt.Sprintf("%s: illegal index operation: %s", e.Pos, e.Message)
}

// InferredError surfaces a latent inference failure the checker trips
// over: a node whose resolved-type slot is still empty even though the
// inference pass reported success (spec §4.4's "any remaining
// unresolved node" rule, enforced at the point of use).
type InferredError struct {
	Underlying error
	Pos        token.Position
}

func (e *InferredError) Error() string {
	return fmt.Sprintf("%s: %v", e.Pos, e.Underlying)
}

func (e *InferredError) Unwrap() error { return e.Underlying }

type MissingReturnError struct {
	Function string
	Pos      token.Position
}

func (e *MissingReturnError) Error() string {
	return fmt.Sprintf("%s: function %q does not return on every path", e.Pos, e.Function)
}
