// Copyright 2024 The brkv Authors.
//
// Use of this software is governed by the Apache License, Version 2.0
// included in the LICENSE file.

package backup

import (
	"bytes"
	"sort"
)

// coverage tracks which parts of a requested span the responses have
// reported so far. Sub-ranges arrive in any order.
type coverage struct {
	want Span
	got  []Span
}

func newCoverage(want Span) *coverage {
	return &coverage{want: want}
}

func (c *coverage) add(s Span) {
	c.got = append(c.got, s)
}

// gaps returns the parts of the wanted span no added sub-range covers,
// in key order. An empty result means full coverage.
func (c *coverage) gaps() []Span {
	got := make([]Span, len(c.got))
	copy(got, c.got)
	sort.Slice(got, func(i, j int) bool {
		return bytes.Compare(got[i].Start, got[j].Start) < 0
	})

	var gaps []Span
	cur := c.want.Start
	covered := false // covered-to-infinity
	for _, s := range got {
		if covered {
			break
		}
		if bytes.Compare(s.Start, cur) > 0 {
			gaps = append(gaps, Span{Start: cur, End: s.Start})
			cur = s.Start
		}
		if len(s.End) == 0 {
			covered = true
			continue
		}
		if bytes.Compare(s.End, cur) > 0 {
			cur = s.End
		}
	}
	if covered {
		return gaps
	}
	if len(c.want.End) == 0 || bytes.Compare(cur, c.want.End) < 0 {
		gaps = append(gaps, Span{Start: cur, End: c.want.End})
	}
	return gaps
}
