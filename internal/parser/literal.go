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
	"strconv"
	"strings"

	"github.com/tomyk9991/monkeyc/internal/types"
)

// splitSuffix separates a numeric literal's digits from an optional
// `_<width>` suffix folded in by the lexer (e.g. "5_i32", "2.5_f64").
func splitSuffix(text string) (digits, suffix string) {
	if i := strings.IndexByte(text, '_'); i >= 0 {
		return text[:i], text[i+1:]
	}
	return text, ""
}

func parseIntLiteralText(text string) (int64, error) {
	digits, _ := splitSuffix(text)
	return strconv.ParseInt(digits, 10, 64)
}

func parseFloatLiteralText(text string) (float64, error) {
	digits, _ := splitSuffix(text)
	return strconv.ParseFloat(digits, 64)
}

// intWidthSuffix and floatWidthSuffix resolve a literal's suffix
// against the known width names, defaulting per spec §4.4 when absent
// (i32 for integers, f32 for floats).
func intWidthSuffix(suffix string) (types.IntWidth, bool) {
	if suffix == "" {
		return types.I32, false
	}
	w, ok := types.IntWidthFromName(suffix)
	if !ok {
		return types.I32, false
	}
	return w, true
}

func floatWidthSuffix(suffix string) (types.FloatWidth, bool) {
	if suffix == "" {
		return types.F32, false
	}
	w, ok := types.FloatWidthFromName(suffix)
	if !ok {
		return types.F32, false
	}
	return w, true
}
