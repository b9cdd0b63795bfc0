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

package codegen

import (
	"fmt"

	"github.com/tomyk9991/monkeyc/internal/token"
)

// InternalError reports a codegen-internal invariant violation (spec
// §4.7/§7): an AST shape the earlier stages should never let through,
// e.g. an unresolved type slot or an unknown variant. These are fatal
// bugs, not user-facing diagnostics.
type InternalError struct {
	Message string
	Pos     token.Position
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s: codegen: %s", e.Pos, e.Message)
}
