// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package git

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateMessage(t *testing.T) {
	tests := []struct {
		name        string
		subject     string
		changes     []FileChange
		wantSubject string
	}{
		{"fix keyword", "Fix nil check in handler.", nil, "fix: fix nil check in handler"},
		{"feature keyword", "Add retry to client", nil, "feat: add retry to client"},
		{"multi-word keyword", "Clean up imports", nil, "refactor: clean up imports"},
		{"no keyword", "Bump timeout", nil, "chore: bump timeout"},
		{"empty subject", "", []FileChange{{Path: "a"}, {Path: "b"}}, "chore: apply search/replace edits to 2 file(s)"},
		{"keyword inside a word does not count", "Prefixed names", nil, "chore: prefixed names"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := GenerateMessage(tt.subject, tt.changes)
			first, _, _ := strings.Cut(msg, "\n")
			assert.Equal(t, tt.wantSubject, first)
			assert.True(t, strings.HasSuffix(msg, patchedTrailer+"\n"))
		})
	}
}

func TestGenerateMessage_LongSubjectTruncated(t *testing.T) {
	msg := GenerateMessage(strings.Repeat("word ", 40), nil)
	first, _, _ := strings.Cut(msg, "\n")
	assert.LessOrEqual(t, len(first), maxSubjectWidth)
	assert.True(t, strings.HasSuffix(first, "..."))
}

func TestGenerateMessage_ListsFiles(t *testing.T) {
	msg := GenerateMessage("Update config", []FileChange{
		{Path: "config.yaml", Summary: "2/2 blocks applied"},
		{Path: "main.go"},
	})
	assert.Contains(t, msg, "Patched files:\n- config.yaml (2/2 blocks applied)\n- main.go\n\n")
}

func TestContainsWord(t *testing.T) {
	assert.True(t, containsWord("fix the bug", "bug"))
	assert.True(t, containsWord("bug", "bug"))
	assert.True(t, containsWord("a (bug)", "bug"))
	assert.False(t, containsWord("debugging", "bug"))
	assert.False(t, containsWord("", "bug"))
}
