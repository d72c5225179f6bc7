// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package textutil holds display helpers for feedback text: width-aware,
// grapheme-safe truncation and line clipping.
package textutil

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Width returns the terminal display width of s, counted per grapheme
// cluster.
func Width(s string) int {
	width := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		width += runewidth.StringWidth(g.Str())
	}
	return width
}

// Truncate shortens s to at most width display columns, never splitting a
// grapheme cluster (and so never splitting a UTF-8 sequence). When s is cut
// and ellipsis fits, ellipsis is appended within the width budget.
func Truncate(s string, width int, ellipsis string) string {
	if width <= 0 {
		return ""
	}
	if Width(s) <= width {
		return s
	}

	budget := width - runewidth.StringWidth(ellipsis)
	if budget < 0 {
		budget = width
		ellipsis = ""
	}

	var b strings.Builder
	used := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		w := runewidth.StringWidth(g.Str())
		if used+w > budget {
			break
		}
		b.WriteString(g.Str())
		used += w
	}
	b.WriteString(ellipsis)
	return b.String()
}

// ClipLines keeps at most maxLines lines of s. The second result reports
// how many lines were dropped.
func ClipLines(s string, maxLines int) (string, int) {
	if maxLines <= 0 {
		return s, 0
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= maxLines {
		return s, 0
	}
	return strings.Join(lines[:maxLines], "\n"), len(lines) - maxLines
}
