// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package editor

import (
	"sort"
	"strings"
)

// lineIndex records where each line of a document starts so offsets can be
// turned into 1-based line numbers and line ranges back into offsets.
type lineIndex struct {
	doc    string
	starts []int
}

func newLineIndex(doc string) *lineIndex {
	starts := []int{0}
	for i := 0; i < len(doc); i++ {
		if doc[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{doc: doc, starts: starts}
}

// count returns the number of lines. A document ending in a newline has a
// final empty line.
func (x *lineIndex) count() int {
	return len(x.starts)
}

// lineAt returns the 1-based line containing offset.
func (x *lineIndex) lineAt(offset int) int {
	return sort.Search(len(x.starts), func(i int) bool { return x.starts[i] > offset })
}

// text returns line k (0-based) without its newline.
func (x *lineIndex) text(k int) string {
	return x.doc[x.starts[k]:x.end(k)]
}

// end returns the offset of line k's newline, or len(doc) for the last line.
func (x *lineIndex) end(k int) int {
	if k+1 < len(x.starts) {
		return x.starts[k+1] - 1
	}
	return len(x.doc)
}

// lines returns the first and last 1-based line touched by [start, end).
func (x *lineIndex) lines(start, end int) (int, int) {
	first := x.lineAt(start)
	if end <= start {
		return first, first
	}
	return first, x.lineAt(end - 1)
}

// lineSpan returns the byte range covering lines first..last (0-based,
// inclusive). The range stops before the last line's line terminator
// (including a CR) unless withNewline is set and a newline follows.
func (x *lineIndex) lineSpan(first, last int, withNewline bool) (int, int) {
	start := x.starts[first]
	end := x.end(last)
	if withNewline && end < len(x.doc) {
		return start, end + 1
	}
	if end > start && x.doc[end-1] == '\r' {
		end--
	}
	return start, end
}

// trimmedLines returns every line of x trimmed of surrounding whitespace.
func (x *lineIndex) trimmedLines() []string {
	out := make([]string, x.count())
	for k := range out {
		out[k] = strings.TrimSpace(x.text(k))
	}
	return out
}

// searchLines splits search text into trimmed lines for line-oriented
// strategies. A terminal newline does not produce a trailing empty line;
// the second result reports whether one was present.
func searchLines(search string) ([]string, bool) {
	lines := strings.Split(search, "\n")
	trailing := false
	if len(lines) > 1 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
		trailing = true
	}
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return lines, trailing
}

// allBlank reports whether every line is empty.
func allBlank(lines []string) bool {
	for _, l := range lines {
		if l != "" {
			return false
		}
	}
	return true
}
