// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package editor

import "strings"

// normalizedText is a whitespace-normalized copy of a string together with
// a parallel index array back into the original. For every normalized byte
// i, the original bytes it stands for are s[starts[i]:ends[i]]. A collapsed
// whitespace run maps its single space to the whole run.
type normalizedText struct {
	text   string
	starts []int
	ends   []int
}

// span maps the normalized range [from, to) back to original offsets.
// to must be greater than from.
func (n *normalizedText) span(from, to int) (int, int) {
	return n.starts[from], n.ends[to-1]
}

// normalizeMapped collapses every run of horizontal whitespace to a single
// space and drops runs that end a line, recording where each normalized
// byte came from. Whitespace is ASCII, so multi-byte runes pass through
// byte by byte and offsets stay on rune boundaries.
func normalizeMapped(s string) *normalizedText {
	var b strings.Builder
	b.Grow(len(s))
	starts := make([]int, 0, len(s))
	ends := make([]int, 0, len(s))

	for i := 0; i < len(s); {
		if !isHorizontalSpace(s[i]) {
			b.WriteByte(s[i])
			starts = append(starts, i)
			ends = append(ends, i+1)
			i++
			continue
		}

		j := i
		for j < len(s) && isHorizontalSpace(s[j]) {
			j++
		}
		if j < len(s) && s[j] != '\n' {
			b.WriteByte(' ')
			starts = append(starts, i)
			ends = append(ends, j)
		}
		i = j
	}

	return &normalizedText{text: b.String(), starts: starts, ends: ends}
}

// normalizeWhitespace is normalizeMapped without the index array.
func normalizeWhitespace(s string) string {
	return normalizeMapped(s).text
}

// isHorizontalSpace reports whether c is whitespace that does not end a
// line. CR counts, so CRLF and LF documents normalize alike.
func isHorizontalSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\v', '\f':
		return true
	}
	return false
}
