// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package types defines the value types shared by the go-patcher packages:
// edit blocks, match outcomes, and apply reports.
package types

import (
	"fmt"
	"strings"
)

// EditBlock is one search/replace instruction extracted from a patch payload.
type EditBlock struct {
	SearchText  string // Text to locate in the document
	ReplaceText string // Text to splice in place of the located region
	Index       int    // 0-based position in the payload
}

// MatchStrategy identifies which matching technique located a block.
type MatchStrategy int

const (
	StrategyNone                 MatchStrategy = iota // No strategy succeeded
	StrategyExact                                     // Byte-for-byte substring
	StrategyWhitespaceNormalized                      // Horizontal whitespace collapsed
	StrategyLineTrimmed                               // Per-line trimmed equality
	StrategyFuzzySimilarity                           // Similarity above threshold with margin
)

// Strategies lists the matching strategies in cascade order.
var Strategies = []MatchStrategy{
	StrategyExact,
	StrategyWhitespaceNormalized,
	StrategyLineTrimmed,
	StrategyFuzzySimilarity,
}

func (s MatchStrategy) String() string {
	switch s {
	case StrategyNone:
		return "none"
	case StrategyExact:
		return "exact"
	case StrategyWhitespaceNormalized:
		return "whitespace-normalized"
	case StrategyLineTrimmed:
		return "line-trimmed"
	case StrategyFuzzySimilarity:
		return "fuzzy-similarity"
	default:
		return "unknown"
	}
}

// MarshalText renders the strategy label so JSON reports stay readable.
func (s MatchStrategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// MatchLocation is a matched region of the buffer as it was at match time.
// Offsets are byte offsets; lines are 1-based and inclusive.
type MatchLocation struct {
	StartOffset int
	EndOffset   int
	StartLine   int
	EndLine     int
}

// Candidate is a region a strategy considered but could not accept, either
// because it tied with another region or because it scored below the bar.
type Candidate struct {
	Strategy  MatchStrategy
	StartLine int     // 1-based
	EndLine   int     // 1-based, inclusive
	Score     float64 // 1.0 for exact-equality strategies
	Excerpt   string  // Original text of the region
}

// MatchResult describes one match attempt. Location is non-nil exactly
// when Success is true. Feedback is empty on success.
type MatchResult struct {
	Success    bool
	Strategy   MatchStrategy
	Location   *MatchLocation
	Score      float64
	Candidates []Candidate `json:",omitempty"`
	Feedback   string
}

// StrategyName returns the stable label of the strategy that matched,
// or "none" for a failed attempt.
func (r MatchResult) StrategyName() string {
	return r.Strategy.String()
}

// ApplyResult holds the outcome of applying an ordered list of blocks.
// AfterContent reflects every block that matched, applied in input order.
// Only trust AfterContent when AllSuccessful reports true.
type ApplyResult struct {
	AfterContent string
	PerBlock     []MatchResult
}

// AllSuccessful reports whether every block matched.
func (r *ApplyResult) AllSuccessful() bool {
	for _, m := range r.PerBlock {
		if !m.Success {
			return false
		}
	}
	return true
}

// Applied returns the number of blocks that matched.
func (r *ApplyResult) Applied() int {
	n := 0
	for _, m := range r.PerBlock {
		if m.Success {
			n++
		}
	}
	return n
}

// Summary renders a one-line count such as "3/4 blocks applied".
func (r *ApplyResult) Summary() string {
	return fmt.Sprintf("%d/%d blocks applied", r.Applied(), len(r.PerBlock))
}

// FailureFeedback concatenates the feedback of every failed block, each
// prefixed with its 1-based block number. Returns "" when nothing failed.
func (r *ApplyResult) FailureFeedback() string {
	var buf strings.Builder
	for i, m := range r.PerBlock {
		if m.Success {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		fmt.Fprintf(&buf, "Block %d: %s\n", i+1, strings.TrimRight(m.Feedback, "\n"))
	}
	return buf.String()
}
