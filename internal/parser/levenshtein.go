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

import "github.com/tomyk9991/monkeyc/internal/token"

// Ported from original_source's levenshtein_distance.rs: a single-row
// Wagner-Fischer edit distance, generalized here from byte strings to
// token.Kind sequences so the parser can rank candidate statement
// grammars against the token run it actually found, rather than
// against raw source text.

// Wildcard is a pattern-only sentinel kind meaning "matches any single
// token here" — used for the condition/argument-list positions of a
// candidate pattern, where the actual token run is open-ended.
const Wildcard token.Kind = -1

// distance computes the Levenshtein edit distance between a token run
// and a candidate pattern. A Wildcard entry in pattern matches any
// kind in a at the same edit position at zero cost.
func distance(a, pattern []token.Kind) int {
	la, lb := len(a), len(pattern)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if pattern[j-1] == Wildcard || a[i-1] == pattern[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			curr[j] = min3(del, ins, sub)
		}
		prev, curr = curr, prev
	}
	return prev[lb]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// candidate is one grammar production the parser considered and
// rejected, paired with the error it would report if chosen.
type candidate struct {
	pattern []token.Kind
	err     error
}

// rankCandidates picks the lowest-distance candidate's error against
// the actual leading token-kind run of a failed statement (spec §4.3:
// "the lowest-distance candidate's error is reported").
func rankCandidates(actual []token.Kind, candidates []candidate) error {
	best := -1
	var bestErr error
	for _, c := range candidates {
		d := distance(actual, c.pattern)
		if best == -1 || d < best {
			best = d
			bestErr = c.err
		}
	}
	return bestErr
}
