// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package textutil

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestWidth(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"empty", "", 0},
		{"ascii", "abc", 3},
		{"combining mark", "é", 1},
		{"wide", "日本", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Width(tt.in))
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		width    int
		ellipsis string
		want     string
	}{
		{"fits", "hello", 10, "...", "hello"},
		{"cut with ellipsis", "hello world", 8, "...", "hello..."},
		{"cut without ellipsis", "hello world", 5, "", "hello"},
		{"ellipsis wider than width", "hello world", 2, "...", "he"},
		{"zero width", "hello", 0, "...", ""},
		{"keeps combining marks whole", "ééé", 2, "", "éé"},
		{"wide runes", "日本語テキスト", 7, "...", "日本..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.in, tt.width, tt.ellipsis)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
			assert.LessOrEqual(t, Width(got), tt.width)
		})
	}
}

func TestClipLines(t *testing.T) {
	got, dropped := ClipLines("a\nb\nc\nd", 2)
	assert.Equal(t, "a\nb", got)
	assert.Equal(t, 2, dropped)

	got, dropped = ClipLines("a\nb", 5)
	assert.Equal(t, "a\nb", got)
	assert.Zero(t, dropped)

	got, dropped = ClipLines("a\nb", 0)
	assert.Equal(t, "a\nb", got)
	assert.Zero(t, dropped)
}
