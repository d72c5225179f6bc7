// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package git

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/petar-djukic/go-patcher/internal/textutil"
)

const (
	maxSubjectWidth = 72
	patchedTrailer  = "Patched-By: go-patcher"
)

// FileChange is one committed file and what was done to it.
type FileChange struct {
	Path    string
	Summary string // e.g. "3/3 blocks applied"
}

// commitTypes maps subject keywords to conventional commit types.
var commitTypes = []struct {
	keywords []string
	prefix   string
}{
	{[]string{"fix", "bug", "repair", "correct"}, "fix"},
	{[]string{"refactor", "rename", "simplify", "clean up"}, "refactor"},
	{[]string{"test", "coverage"}, "test"},
	{[]string{"doc", "docs", "comment", "readme"}, "docs"},
	{[]string{"format", "lint", "whitespace"}, "style"},
	{[]string{"add", "implement", "introduce", "feature"}, "feat"},
}

// GenerateMessage builds a conventional commit message. An empty subject
// becomes a generic description of the change set.
func GenerateMessage(subject string, changes []FileChange) string {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		subject = fmt.Sprintf("apply search/replace edits to %d file(s)", len(changes))
	}

	msg := buildSubject(inferCommitType(subject), subject)
	if body := buildBody(changes); body != "" {
		msg += "\n\n" + body
	}
	return msg + "\n\n" + patchedTrailer + "\n"
}

// inferCommitType picks the conventional commit type from subject keywords,
// defaulting to "chore".
func inferCommitType(subject string) string {
	lower := strings.ToLower(subject)
	for _, ct := range commitTypes {
		for _, kw := range ct.keywords {
			if containsWord(lower, kw) {
				return ct.prefix
			}
		}
	}
	return "chore"
}

// containsWord checks whether text contains keyword bounded by non-letters.
// Multi-word keywords match as substrings.
func containsWord(text, keyword string) bool {
	if strings.Contains(keyword, " ") {
		return strings.Contains(text, keyword)
	}
	for idx := 0; idx < len(text); {
		i := strings.Index(text[idx:], keyword)
		if i < 0 {
			return false
		}
		start, end := idx+i, idx+i+len(keyword)
		before, _ := utf8.DecodeLastRuneInString(text[:start])
		after, _ := utf8.DecodeRuneInString(text[end:])
		if (start == 0 || !unicode.IsLetter(before)) && (end == len(text) || !unicode.IsLetter(after)) {
			return true
		}
		idx = start + 1
	}
	return false
}

// buildSubject formats "type: summary", capped at maxSubjectWidth columns.
func buildSubject(commitType, summary string) string {
	first, size := utf8.DecodeRuneInString(summary)
	summary = string(unicode.ToLower(first)) + summary[size:]
	summary = strings.TrimRight(summary, ".")

	return textutil.Truncate(fmt.Sprintf("%s: %s", commitType, summary), maxSubjectWidth, "...")
}

// buildBody lists the patched files.
func buildBody(changes []FileChange) string {
	if len(changes) == 0 {
		return ""
	}

	var buf strings.Builder
	buf.WriteString("Patched files:\n")
	for _, c := range changes {
		if c.Summary != "" {
			fmt.Fprintf(&buf, "- %s (%s)\n", c.Path, c.Summary)
		} else {
			fmt.Fprintf(&buf, "- %s\n", c.Path)
		}
	}
	return strings.TrimRight(buf.String(), "\n")
}
