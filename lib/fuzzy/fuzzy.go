// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package fuzzy scores text against interactive filter input using
// fzf's matcher. Filterable widgets call Match per row as the user
// types and use the returned positions to highlight matched runes.
package fuzzy

import (
	"sort"
	"strings"
	"unicode"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// Slab sizes from fzf's own matcher core.
const (
	slab16Size = 100 * 1024
	slab32Size = 2048
)

// Result is one scored match. Score is zero when the pattern does not
// match; Positions are ascending rune indices into the matched text.
type Result struct {
	Score     int
	Positions []int
}

// NewSlab allocates a scratch slab sized the way fzf sizes its own.
// Reusing one slab across the rows of a filter pass avoids
// re-allocating the matcher's working memory per row.
func NewSlab() *util.Slab {
	return util.MakeSlab(slab16Size, slab32Size)
}

// Match scores text against pattern, case-insensitively: both sides
// are lowercased before matching. An empty pattern matches nothing.
// slab may be nil; the matcher then allocates per call.
func Match(text string, pattern []rune, slab *util.Slab) Result {
	if len(pattern) == 0 {
		return Result{}
	}

	lowered := make([]rune, len(pattern))
	for i, r := range pattern {
		lowered[i] = unicode.ToLower(r)
	}
	chars := util.ToChars([]byte(strings.ToLower(text)))

	match, positions := algo.FuzzyMatchV2(false, true, true, &chars, lowered, true, slab)
	if match.Score <= 0 {
		return Result{}
	}

	result := Result{Score: match.Score}
	if positions != nil {
		result.Positions = append(result.Positions, *positions...)
		sort.Ints(result.Positions)
	}
	return result
}

// Ranked pairs a Result with the index of the item it scored.
type Ranked struct {
	Index int
	Result
}

// Rank scores every item against pattern and returns matches ordered
// best first, with the input order breaking score ties. An empty
// pattern returns every item unscored in input order, so a filter
// field that is cleared shows the unfiltered list.
func Rank(items []string, pattern string) []Ranked {
	if pattern == "" {
		out := make([]Ranked, len(items))
		for i := range items {
			out[i] = Ranked{Index: i}
		}
		return out
	}

	runes := []rune(pattern)
	slab := NewSlab()
	out := make([]Ranked, 0, len(items))
	for i, item := range items {
		result := Match(item, runes, slab)
		if result.Score <= 0 {
			continue
		}
		out = append(out, Ranked{Index: i, Result: result})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}
