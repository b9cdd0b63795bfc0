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
	"strings"

	"github.com/samber/lo"

	"github.com/tomyk9991/monkeyc/internal/ast"
	"github.com/tomyk9991/monkeyc/internal/types"
)

// mangledName builds the `.name_argTy1argTy2...~retTy` label spec
// §4.7 prescribes. `main` and every `extern` declaration are exempt:
// `main` is the program entry point and must keep its bare NASM
// global label, and externs are assumed pre-mangled foreign symbols
// (SPEC_FULL.md §4.7).
func mangledName(fn *ast.MethodDefinition) string {
	if fn.Name == "main" || fn.IsExtern {
		return fn.Name
	}
	argNames := lo.Map(fn.Arguments, func(arg ast.Param, _ int) string {
		return mangleType(arg.Type)
	})

	var b strings.Builder
	b.WriteByte('.')
	b.WriteString(fn.Name)
	b.WriteByte('_')
	b.WriteString(strings.Join(argNames, ""))
	b.WriteByte('~')
	b.WriteString(mangleType(fn.ReturnType))
	return b.String()
}

// mangleType spells a Type for use inside a mangled label: pointer
// types spell `ptr<inner>` (spec GLOSSARY), everything else uses its
// bare type-name spelling with mutability and array brackets dropped.
func mangleType(t types.Type) string {
	switch t.Kind {
	case types.KPointer:
		return "ptr" + mangleType(*t.Elem)
	case types.KArray:
		return mangleType(*t.Elem)
	case types.KVoid:
		return "void"
	case types.KBool:
		return "bool"
	case types.KInteger:
		return t.IntWidth.String()
	case types.KFloat:
		return t.FloatWidth.String()
	case types.KCustom:
		return t.CustomName
	default:
		return "?"
	}
}
