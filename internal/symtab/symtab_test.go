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

package symtab_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomyk9991/monkeyc/internal/symtab"
	"github.com/tomyk9991/monkeyc/internal/types"
)

func TestShadowingAcrossFramesAllowed(t *testing.T) {
	tab := symtab.New()
	require.NoError(t, tab.Define(&symtab.Symbol{Name: "x", Type: types.Integer(types.I32, types.Immutable)}))

	tab.PushScope()
	require.NoError(t, tab.Define(&symtab.Symbol{Name: "x", Type: types.Bool(types.Immutable)}))

	sym, ok := tab.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, "bool", sym.Type.String())

	tab.PopScope()
	sym, ok = tab.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, "i32", sym.Type.String())
}

func TestRedefinitionWithinFrameRejected(t *testing.T) {
	tab := symtab.New()
	require.NoError(t, tab.Define(&symtab.Symbol{Name: "x"}))
	assert.Error(t, tab.Define(&symtab.Symbol{Name: "x"}))
}

func TestLookupMissReportsFalse(t *testing.T) {
	tab := symtab.New()
	_, ok := tab.Lookup("nope")
	assert.False(t, ok)
}

func TestDepthTracksPushPop(t *testing.T) {
	tab := symtab.New()
	assert.Equal(t, 1, tab.Depth())
	tab.PushScope()
	tab.PushScope()
	assert.Equal(t, 3, tab.Depth())
	tab.PopScope()
	tab.PopScope()
	assert.Equal(t, 1, tab.Depth())
}

func TestRecordFieldLookup(t *testing.T) {
	tab := symtab.New()
	tab.Records["Point"] = []symtab.Field{
		{Name: "x", Type: types.Integer(types.I32, types.Immutable)},
		{Name: "y", Type: types.Integer(types.I32, types.Immutable)},
	}
	f, ok := tab.RecordField("Point", "y")
	require.True(t, ok)
	assert.Equal(t, "y", f.Name)
	_, ok = tab.RecordField("Point", "z")
	assert.False(t, ok)
}
