// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package editor

import (
	"math"
	"slices"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// similarity computes the Levenshtein-based similarity ratio between two
// strings using the go-diff library. Returns a value between 0.0 and 1.0.
func similarity(dmp *diffmatchpatch.DiffMatchPatch, a, b string) float64 {
	dist, maxLen := distance(dmp, a, b)
	return ratio(dist, maxLen)
}

// distance returns the rune-level Levenshtein distance of a and b and the
// rune length of the longer one.
func distance(dmp *diffmatchpatch.DiffMatchPatch, a, b string) (int, int) {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	maxLen := max(la, lb)
	switch {
	case a == b:
		return 0, maxLen
	case la == 0 || lb == 0:
		return maxLen, maxLen
	}
	diffs := dmp.DiffMain(a, b, false)
	return dmp.DiffLevenshtein(diffs), maxLen
}

// ratio turns a distance into a similarity in [0, 1]. go-diff's Levenshtein
// can exceed the longer length on reordered text, hence the clamp.
func ratio(dist, maxLen int) float64 {
	if maxLen == 0 {
		return 1.0
	}
	return max(0, 1.0-float64(dist)/float64(maxLen))
}

// fuzzyScorer scores line windows of a document against the search lines.
// A window's score is the length-weighted mean of its per-line
// similarities, 1 - sum(distance)/sum(maxLen), so long lines weigh more
// than short ones and blank lines weigh nothing.
//
// Windows that cannot reach a cutoff are dropped with a banded edit
// distance before go-diff runs. go-diff's distance is never below the
// true edit distance, so nothing above the cutoff is lost. A scorer is
// not safe for concurrent use.
type fuzzyScorer struct {
	dmp    *diffmatchpatch.DiffMatchPatch
	doc    []string
	search []string
	docR   [][]rune
	searR  [][]rune
	memo   map[pairKey]int
	prev   []int
	curr   []int
}

// pairKey identifies a document line's text compared with search line j.
// Repeated lines share their distance.
type pairKey struct {
	line string
	j    int
}

func newFuzzyScorer(doc, search []string) *fuzzyScorer {
	s := &fuzzyScorer{
		dmp:    diffmatchpatch.New(),
		doc:    doc,
		search: search,
		docR:   make([][]rune, len(doc)),
		searR:  make([][]rune, len(search)),
		memo:   make(map[pairKey]int),
	}
	for i, l := range doc {
		s.docR[i] = []rune(l)
	}
	for j, l := range search {
		s.searR[j] = []rune(l)
	}
	return s
}

// score returns the score of the window starting at document line first.
// When cutoff is positive, ok is false for windows scoring below it.
func (s *fuzzyScorer) score(first int, cutoff float64) (float64, bool) {
	total, lower := 0, 0
	for j, b := range s.searR {
		a := s.docR[first+j]
		total += max(len(a), len(b))
		lower += absInt(len(a) - len(b))
	}
	if total == 0 {
		return 1.0, true
	}

	if cutoff > 0 {
		allowed := int(math.Floor((1-cutoff)*float64(total) + scoreEpsilon))
		if lower > allowed {
			return 0, false
		}
		// lower tracks the length gaps of the lines not yet measured.
		acc := 0
		for j, b := range s.searR {
			a := s.docR[first+j]
			lower -= absInt(len(a) - len(b))
			d, ok := s.bounded(a, b, allowed-acc-lower)
			if !ok {
				return 0, false
			}
			acc += d
		}
	}

	dist := 0
	for j := range s.search {
		dist += s.distance(first+j, j)
	}
	return ratio(dist, total), true
}

// distance is the go-diff distance of document line k and search line j.
func (s *fuzzyScorer) distance(k, j int) int {
	key := pairKey{line: s.doc[k], j: j}
	if d, ok := s.memo[key]; ok {
		return d
	}
	d, _ := distance(s.dmp, s.doc[k], s.search[j])
	s.memo[key] = d
	return d
}

// bounded returns the edit distance of a and b when it is at most limit.
// Only the diagonal band of width 2*limit+1 is filled, and the scan stops
// as soon as a whole row exceeds limit.
func (s *fuzzyScorer) bounded(a, b []rune, limit int) (int, bool) {
	if len(a) < len(b) {
		a, b = b, a
	}
	if limit < 0 || len(a)-len(b) > limit {
		return 0, false
	}
	if len(b) == 0 {
		return len(a), true
	}
	if slices.Equal(a, b) {
		return 0, true
	}

	inf := limit + 1
	if cap(s.prev) < len(b)+1 {
		s.prev = make([]int, len(b)+1)
		s.curr = make([]int, len(b)+1)
	}
	prev, curr := s.prev[:len(b)+1], s.curr[:len(b)+1]
	for j := range prev {
		prev[j] = min(j, inf)
	}

	for i := 1; i <= len(a); i++ {
		lo, hi := max(1, i-limit), min(len(b), i+limit)
		if lo == 1 {
			curr[0] = min(i, inf)
		} else {
			curr[lo-1] = inf
		}
		rowMin := curr[lo-1]
		for j := lo; j <= hi; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			v := min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost, inf)
			curr[j] = v
			rowMin = min(rowMin, v)
		}
		if hi < len(b) {
			curr[hi+1] = inf
		}
		if rowMin > limit {
			return 0, false
		}
		prev, curr = curr, prev
	}

	d := prev[len(b)]
	return d, d <= limit
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
