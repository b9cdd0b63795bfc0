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
	"github.com/tomyk9991/monkeyc/internal/ast"
	"github.com/tomyk9991/monkeyc/internal/types"
)

// typeOf extracts the static type of an Assignable that internal/
// typeinfer has already resolved. Every node reachable here carries
// either a literal width or a ResolvedType slot the inference pass
// filled in; codegen runs strictly after that pass and never needs to
// compute a type itself.
func typeOf(a ast.Assignable) types.Type {
	switch v := a.(type) {
	case *ast.IntegerLit:
		return types.Integer(v.Width, types.Immutable)
	case *ast.FloatLit:
		return types.Float(v.Width, types.Immutable)
	case *ast.BoolLit:
		return types.Bool(types.Immutable)
	case *ast.StaticString:
		return types.StringType()
	case *ast.Identifier:
		if v.ResolvedType != nil {
			return *v.ResolvedType
		}
	case *ast.MethodCall:
		if v.ResolvedType != nil {
			return *v.ResolvedType
		}
	case *ast.ObjectLiteral:
		if v.ResolvedType != nil {
			return *v.ResolvedType
		}
	case *ast.ArrayLiteral:
		if v.ResolvedType != nil {
			return *v.ResolvedType
		}
	case *ast.Expression:
		if v.ResolvedType != nil {
			return *v.ResolvedType
		}
	}
	return types.Void()
}
