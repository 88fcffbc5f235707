// Copyright 2024 The brkv Authors.
//
// Use of this software is governed by the Apache License, Version 2.0
// included in the LICENSE file.

package backup

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sp(start, end string) Span {
	return Span{Start: []byte(start), End: []byte(end)}
}

func TestCoverageGaps(t *testing.T) {
	t.Run("full coverage out of order", func(t *testing.T) {
		c := newCoverage(sp("a", "z"))
		c.add(sp("m", "z"))
		c.add(sp("a", "f"))
		c.add(sp("f", "m"))
		require.Empty(t, c.gaps())
	})
	t.Run("middle gap", func(t *testing.T) {
		c := newCoverage(sp("a", "z"))
		c.add(sp("a", "f"))
		c.add(sp("m", "z"))
		require.Equal(t, []Span{sp("f", "m")}, c.gaps())
	})
	t.Run("leading and trailing gaps", func(t *testing.T) {
		c := newCoverage(sp("a", "z"))
		c.add(sp("c", "f"))
		require.Equal(t, []Span{sp("a", "c"), sp("f", "z")}, c.gaps())
	})
	t.Run("nothing covered", func(t *testing.T) {
		c := newCoverage(sp("a", "z"))
		require.Equal(t, []Span{sp("a", "z")}, c.gaps())
	})
	t.Run("overlapping responses", func(t *testing.T) {
		c := newCoverage(sp("a", "z"))
		c.add(sp("a", "m"))
		c.add(sp("f", "z"))
		require.Empty(t, c.gaps())
	})
	t.Run("unbounded request covered to infinity", func(t *testing.T) {
		c := newCoverage(sp("a", ""))
		c.add(sp("a", "m"))
		c.add(sp("m", ""))
		require.Empty(t, c.gaps())
	})
	t.Run("unbounded request with finite coverage", func(t *testing.T) {
		c := newCoverage(sp("a", ""))
		c.add(sp("a", "m"))
		require.Equal(t, []Span{sp("m", "")}, c.gaps())
	})
}

func TestSpanContains(t *testing.T) {
	require.True(t, sp("a", "z").Contains(sp("b", "c")))
	require.True(t, sp("a", "").Contains(sp("zzz", "")))
	require.False(t, sp("a", "m").Contains(sp("b", "z")))
	require.False(t, sp("a", "m").Contains(sp("b", "")))
}
