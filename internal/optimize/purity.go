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

// Package optimize implements the O1 constant folder of spec §4.6: a
// bottom-up walk over Expression trees that evaluates any
// all-literal subtree in place, plus calls to functions whose bodies
// are themselves straight-line literal arithmetic.
package optimize

import "github.com/tomyk9991/monkeyc/internal/ast"

// markPurity runs a fixed-point pass setting MethodDefinition.ConstPure
// on every function whose body is "straight-line": a run of `let`
// definitions followed by a single terminal return, with no
// address-of/dereference, no indexing, and no call to a function not
// itself already known const-pure. The walk follows declaration order
// (never map order) so two runs mark the same set; purity only ever
// flips upward, so the loop terminates. Functions in a dependency
// cycle are conservatively left impure.
func markPurity(ordered []*ast.MethodDefinition, funcs map[string]*ast.MethodDefinition) {
	for changed := true; changed; {
		changed = false
		for _, fn := range ordered {
			if fn.IsExtern || fn.ConstPure {
				continue
			}
			if isPureBody(fn.Body, funcs) {
				fn.ConstPure = true
				changed = true
			}
		}
	}
}

func isPureBody(body []ast.Node, funcs map[string]*ast.MethodDefinition) bool {
	for i, stmt := range body {
		switch n := stmt.(type) {
		case *ast.Variable:
			if !n.Define || !isPureAssignable(n.Assignable, funcs) {
				return false
			}
		case *ast.Return:
			if i != len(body)-1 {
				return false
			}
			if n.Value != nil && !isPureAssignable(n.Value, funcs) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func isPureAssignable(a ast.Assignable, funcs map[string]*ast.MethodDefinition) bool {
	switch v := a.(type) {
	case *ast.IntegerLit, *ast.FloatLit, *ast.BoolLit, *ast.Identifier:
		return true
	case *ast.MethodCall:
		callee, ok := funcs[v.Name]
		if !ok || !callee.ConstPure {
			return false
		}
		for _, arg := range v.Args {
			if !isPureAssignable(arg, funcs) {
				return false
			}
		}
		return true
	case *ast.Expression:
		if v.Index != nil {
			return false
		}
		for _, p := range v.Prefix {
			if p.Kind == ast.PrefixAddr || p.Kind == ast.PrefixDeref {
				return false
			}
		}
		if v.IsLeaf() {
			return isPureAssignable(v.Leaf, funcs)
		}
		return isPureAssignable(v.Lhs, funcs) && isPureAssignable(v.Rhs, funcs)
	}
	return false
}
