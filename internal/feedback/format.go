// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package feedback renders match failures as text an LLM can act on: the
// search text it sent, the regions that nearly matched or tied, and a hint
// about what to change before retrying.
package feedback

import (
	"fmt"
	"strings"

	"github.com/petar-djukic/go-patcher/internal/textutil"
	"github.com/petar-djukic/go-patcher/pkg/types"
)

const (
	defaultMaxSearchWidth  = 600
	defaultMaxSearchLines  = 20
	defaultMaxExcerptLines = 8
	defaultMaxLineWidth    = 160
	ellipsis               = "..."
)

// FormatConfig configures failure rendering.
type FormatConfig struct {
	MaxSearchWidth  int // Display columns of search text to echo (default 600)
	MaxSearchLines  int // Lines of search text to echo (default 20)
	MaxExcerptLines int // Lines shown per candidate region (default 8)
	MaxLineWidth    int // Display columns per excerpt line (default 160)
}

func (c FormatConfig) withDefaults() FormatConfig {
	if c.MaxSearchWidth == 0 {
		c.MaxSearchWidth = defaultMaxSearchWidth
	}
	if c.MaxSearchLines == 0 {
		c.MaxSearchLines = defaultMaxSearchLines
	}
	if c.MaxExcerptLines == 0 {
		c.MaxExcerptLines = defaultMaxExcerptLines
	}
	if c.MaxLineWidth == 0 {
		c.MaxLineWidth = defaultMaxLineWidth
	}
	return c
}

// StageNote records why one strategy of the cascade gave up.
type StageNote struct {
	Strategy types.MatchStrategy
	Note     string
}

// Failure is everything the matcher learned while failing to place one
// search text.
type Failure struct {
	SearchText string
	Notes      []StageNote
	Ambiguous  bool              // Some strategy found several equally good regions
	Candidates []types.Candidate // Regions worth showing, best first
}

// FormatMatchFailure renders a failed match.
func FormatMatchFailure(f Failure, cfg FormatConfig) string {
	cfg = cfg.withDefaults()
	var buf strings.Builder

	if f.Ambiguous {
		buf.WriteString("The search text matches more than one region; no edit was made.\n\n")
	} else {
		buf.WriteString("The search text was not found; no edit was made.\n\n")
	}

	buf.WriteString("## Search Text\n\n```\n")
	buf.WriteString(clipSearch(f.SearchText, cfg))
	buf.WriteString("\n```\n\n")

	if len(f.Notes) > 0 {
		buf.WriteString("## Attempts\n\n")
		for _, n := range f.Notes {
			fmt.Fprintf(&buf, "- %s: %s\n", n.Strategy, n.Note)
		}
		buf.WriteString("\n")
	}

	if len(f.Candidates) > 0 {
		buf.WriteString("## Candidate Regions\n\n")
		for _, c := range f.Candidates {
			fmt.Fprintf(&buf, "### lines %d-%d (%s, score %.2f)\n\n```\n", c.StartLine, c.EndLine, c.Strategy, c.Score)
			buf.WriteString(numberLines(c.Excerpt, c.StartLine, cfg))
			buf.WriteString("```\n\n")
		}
	}

	switch {
	case f.Ambiguous:
		buf.WriteString("Add surrounding lines to the search text so it matches exactly one region.\n")
	case len(f.Candidates) > 0:
		buf.WriteString("Copy the target lines verbatim from the file; the closest regions are listed above.\n")
	default:
		buf.WriteString("Re-read the file and copy the target lines verbatim into the search text.\n")
	}

	return buf.String()
}

// FormatApplyFailures produces a follow-up prompt for an apply call that
// did not fully succeed. path names the target and may be empty.
func FormatApplyFailures(path string, result *types.ApplyResult) string {
	if result.AllSuccessful() {
		return ""
	}

	var buf strings.Builder
	target := "the file"
	if path != "" {
		target = path
	}
	fmt.Fprintf(&buf, "%s to %s; nothing was written. ", result.Summary(), target)
	buf.WriteString("Fix the failing blocks and resend every block using the same SEARCH/REPLACE format.\n\n")
	buf.WriteString(result.FailureFeedback())
	return buf.String()
}

// clipSearch bounds the echoed search text by lines and display width.
func clipSearch(s string, cfg FormatConfig) string {
	clipped, dropped := textutil.ClipLines(s, cfg.MaxSearchLines)
	clipped = textutil.Truncate(clipped, cfg.MaxSearchWidth, ellipsis)
	if dropped > 0 {
		clipped += fmt.Sprintf("\n... (%d more lines)", dropped)
	}
	return clipped
}

// numberLines prefixes each excerpt line with its 1-based line number.
func numberLines(excerpt string, firstLine int, cfg FormatConfig) string {
	clipped, dropped := textutil.ClipLines(excerpt, cfg.MaxExcerptLines)

	var buf strings.Builder
	for i, line := range strings.Split(clipped, "\n") {
		line = textutil.Truncate(strings.TrimRight(line, "\r"), cfg.MaxLineWidth, ellipsis)
		fmt.Fprintf(&buf, "%4d │ %s\n", firstLine+i, line)
	}
	if dropped > 0 {
		fmt.Fprintf(&buf, "     │ ... (%d more lines)\n", dropped)
	}
	return buf.String()
}
