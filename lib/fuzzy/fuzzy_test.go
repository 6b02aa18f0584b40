// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fuzzy

import (
	"sort"
	"testing"
)

func TestMatchSubstring(t *testing.T) {
	result := Match("fix connection pooling leak", []rune("pooling"), nil)
	if result.Score <= 0 {
		t.Fatal("expected positive score for substring match")
	}
	if len(result.Positions) == 0 {
		t.Fatal("expected non-empty match positions")
	}
}

func TestMatchNonContiguous(t *testing.T) {
	// "plk" matches "pooling leak": p from pooling, l from either
	// word, k from leak.
	result := Match("pooling leak", []rune("plk"), nil)
	if result.Score <= 0 {
		t.Fatal("expected positive score for non-contiguous match")
	}
}

func TestMatchMiss(t *testing.T) {
	result := Match("fix connection pooling leak", []rune("xyz"), nil)
	if result.Score != 0 {
		t.Errorf("Score = %d, want 0", result.Score)
	}
	if len(result.Positions) != 0 {
		t.Errorf("Positions = %v, want none", result.Positions)
	}
}

func TestMatchCaseInsensitive(t *testing.T) {
	if result := Match("Fix Connection Pooling", []rune("pooling"), nil); result.Score <= 0 {
		t.Errorf("mixed-case text: score = %d", result.Score)
	}
	if result := Match("API SERVER CONFIG", []rune("api"), nil); result.Score <= 0 {
		t.Errorf("all-caps text: score = %d", result.Score)
	}
	if result := Match("api server config", []rune("API"), nil); result.Score <= 0 {
		t.Errorf("upper-case pattern: score = %d", result.Score)
	}
}

func TestMatchEmptyPattern(t *testing.T) {
	result := Match("anything", nil, nil)
	if result.Score != 0 || result.Positions != nil {
		t.Errorf("empty pattern matched: %+v", result)
	}
}

func TestMatchPositionsAscendingAndInBounds(t *testing.T) {
	text := "hello world"
	result := Match(text, []rune("hw"), nil)
	if len(result.Positions) == 0 {
		t.Fatal("expected match positions")
	}
	if !sort.IntsAreSorted(result.Positions) {
		t.Errorf("positions not ascending: %v", result.Positions)
	}
	for _, position := range result.Positions {
		if position < 0 || position >= len([]rune(text)) {
			t.Errorf("position %d out of bounds for %q", position, text)
		}
	}
}

func TestMatchReusesSlab(t *testing.T) {
	slab := NewSlab()
	first := Match("deploy gateway", []rune("gate"), slab)
	second := Match("deploy gateway", []rune("gate"), slab)
	if first.Score != second.Score {
		t.Errorf("scores differ across slab reuse: %d vs %d", first.Score, second.Score)
	}
}

func TestRankEmptyPatternKeepsOrder(t *testing.T) {
	items := []string{"alpha", "beta", "gamma"}
	ranked := Rank(items, "")
	if len(ranked) != len(items) {
		t.Fatalf("len = %d, want %d", len(ranked), len(items))
	}
	for i, entry := range ranked {
		if entry.Index != i || entry.Score != 0 || entry.Positions != nil {
			t.Errorf("entry %d = %+v, want unscored index %d", i, entry, i)
		}
	}
}

func TestRankOrdersBestFirst(t *testing.T) {
	items := []string{
		"p-something o-other l-long i-inner n-nope g-gone",
		"pooling is great",
		"unrelated entry",
	}
	ranked := Rank(items, "pooling")
	if len(ranked) < 1 {
		t.Fatal("expected at least one match")
	}
	// The contiguous match outranks the scattered one, and the
	// unrelated entry is filtered out entirely.
	if ranked[0].Index != 1 {
		t.Errorf("best match index = %d, want 1", ranked[0].Index)
	}
	for _, entry := range ranked {
		if entry.Index == 2 {
			t.Error("non-matching item survived the filter")
		}
	}
}
