// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package feedback

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/petar-djukic/go-patcher/pkg/types"
)

func TestFormatMatchFailure_NotFound(t *testing.T) {
	f := Failure{
		SearchText: "return a + b",
		Notes: []StageNote{
			{Strategy: types.StrategyExact, Note: "no verbatim occurrence"},
			{Strategy: types.StrategyFuzzySimilarity, Note: "best score 0.41 at lines 3-3 is not above the 0.80 threshold"},
		},
	}

	out := FormatMatchFailure(f, FormatConfig{})

	assert.True(t, strings.HasPrefix(out, "The search text was not found; no edit was made.\n"))
	assert.Contains(t, out, "## Search Text\n\n```\nreturn a + b\n```")
	assert.Contains(t, out, "- exact: no verbatim occurrence\n")
	assert.Contains(t, out, "- fuzzy-similarity: best score 0.41")
	assert.NotContains(t, out, "## Candidate Regions")
	assert.Contains(t, out, "Re-read the file")
}

func TestFormatMatchFailure_Ambiguous(t *testing.T) {
	f := Failure{
		SearchText: "foo",
		Ambiguous:  true,
		Notes:      []StageNote{{Strategy: types.StrategyExact, Note: "2 matches at lines 1, 2"}},
		Candidates: []types.Candidate{
			{Strategy: types.StrategyExact, StartLine: 1, EndLine: 1, Score: 1, Excerpt: "foo"},
			{Strategy: types.StrategyExact, StartLine: 2, EndLine: 2, Score: 1, Excerpt: "foo"},
		},
	}

	out := FormatMatchFailure(f, FormatConfig{})

	assert.True(t, strings.HasPrefix(out, "The search text matches more than one region"))
	assert.Contains(t, out, "### lines 1-1 (exact, score 1.00)")
	assert.Contains(t, out, "### lines 2-2 (exact, score 1.00)")
	assert.Contains(t, out, "   1 │ foo\n")
	assert.Contains(t, out, "   2 │ foo\n")
	assert.Contains(t, out, "Add surrounding lines")
}

func TestFormatMatchFailure_NearMissHint(t *testing.T) {
	f := Failure{
		SearchText: "x := compute(a)",
		Candidates: []types.Candidate{
			{Strategy: types.StrategyFuzzySimilarity, StartLine: 7, EndLine: 8, Score: 0.72, Excerpt: "x := compute(b)\r\ny := 2"},
		},
	}

	out := FormatMatchFailure(f, FormatConfig{})

	assert.Contains(t, out, "### lines 7-8 (fuzzy-similarity, score 0.72)")
	assert.Contains(t, out, "   7 │ x := compute(b)\n")
	assert.Contains(t, out, "   8 │ y := 2\n")
	assert.Contains(t, out, "Copy the target lines verbatim")
}

func TestFormatMatchFailure_Bounds(t *testing.T) {
	long := strings.Repeat("abcdefghij", 30)
	var lines []string
	for range 30 {
		lines = append(lines, "line")
	}

	f := Failure{
		SearchText: strings.Join(lines, "\n"),
		Candidates: []types.Candidate{
			{Strategy: types.StrategyFuzzySimilarity, StartLine: 1, EndLine: 12, Score: 0.6,
				Excerpt: long + strings.Repeat("\nmore", 11)},
		},
	}

	out := FormatMatchFailure(f, FormatConfig{MaxSearchLines: 5, MaxExcerptLines: 4, MaxLineWidth: 40})

	assert.Contains(t, out, "... (25 more lines)")
	assert.Contains(t, out, "     │ ... (8 more lines)\n")
	assert.NotContains(t, out, long)
	assert.Contains(t, out, "   1 │ "+long[:37]+"...\n")
}

func TestFormatConfig_Defaults(t *testing.T) {
	cfg := FormatConfig{MaxLineWidth: 10}.withDefaults()
	assert.Equal(t, defaultMaxSearchWidth, cfg.MaxSearchWidth)
	assert.Equal(t, defaultMaxSearchLines, cfg.MaxSearchLines)
	assert.Equal(t, defaultMaxExcerptLines, cfg.MaxExcerptLines)
	assert.Equal(t, 10, cfg.MaxLineWidth)
}

func TestFormatApplyFailures(t *testing.T) {
	res := &types.ApplyResult{PerBlock: []types.MatchResult{
		{Success: true, Strategy: types.StrategyExact},
		{Feedback: "The search text was not found; no edit was made.\n"},
	}}

	out := FormatApplyFailures("src/main.go", res)
	assert.True(t, strings.HasPrefix(out, "1/2 blocks applied to src/main.go; nothing was written."))
	assert.Contains(t, out, "Block 2: The search text was not found")

	assert.Contains(t, FormatApplyFailures("", res), "to the file;")

	ok := &types.ApplyResult{PerBlock: []types.MatchResult{{Success: true}}}
	assert.Empty(t, FormatApplyFailures("x", ok))
}
