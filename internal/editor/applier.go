// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package editor

import (
	"strings"

	"go.uber.org/zap"

	"github.com/petar-djukic/go-patcher/pkg/types"
)

// Applier applies ordered edit blocks to an in-memory buffer. Each block is
// matched against the buffer as left by the blocks before it, so later
// blocks may depend on text that earlier blocks introduced.
type Applier struct {
	matcher *Matcher
	log     *zap.Logger
}

// NewApplier creates an Applier that locates blocks with matcher. A nil
// logger disables logging.
func NewApplier(matcher *Matcher, logger *zap.Logger) *Applier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Applier{matcher: matcher, log: logger}
}

// Apply runs every block against a working copy of content, in input order.
// A block that fails to match leaves the buffer untouched and processing
// moves on, so one call reports on every block. The result always carries
// the best-effort buffer; callers must only persist it when
// AllSuccessful reports true.
func (a *Applier) Apply(content string, blocks []types.EditBlock) *types.ApplyResult {
	buf := content
	result := &types.ApplyResult{PerBlock: make([]types.MatchResult, 0, len(blocks))}

	for i, b := range blocks {
		m := a.matcher.FindMatch(b.SearchText, buf)
		result.PerBlock = append(result.PerBlock, m)
		if !m.Success {
			a.log.Debug("block not applied", zap.Int("block", i+1))
			continue
		}

		loc := m.Location
		text := b.ReplaceText
		if m.Strategy == types.StrategyLineTrimmed || m.Strategy == types.StrategyFuzzySimilarity {
			text = reindent(text, b.SearchText, buf[loc.StartOffset:loc.EndOffset])
		}
		buf = splice(buf, loc.StartOffset, loc.EndOffset, text)
		a.log.Debug("block applied",
			zap.Int("block", i+1),
			zap.String("strategy", m.StrategyName()),
			zap.Int("start_line", loc.StartLine),
			zap.Int("end_line", loc.EndLine))
	}

	result.AfterContent = buf
	a.log.Debug("apply finished", zap.String("summary", result.Summary()))
	return result
}

// splice returns s with s[start:end] replaced by text. It builds a new
// string; s is never modified.
func splice(s string, start, end int, text string) string {
	return s[:start] + text + s[end:]
}

// reindent shifts the replacement by the indentation the matched lines
// have over the search text. The shift is measured on the first non-blank
// line of each. Replacement lines that do not carry the search indentation
// are left alone.
func reindent(replace, search, matched string) string {
	from, to := leadingIndent(search), leadingIndent(matched)
	if from == to || replace == "" {
		return replace
	}

	lines := strings.Split(replace, "\n")
	for i, l := range lines {
		if strings.TrimSpace(l) == "" || !strings.HasPrefix(l, from) {
			continue
		}
		lines[i] = to + l[len(from):]
	}
	return strings.Join(lines, "\n")
}

// leadingIndent returns the leading whitespace of the first non-blank line.
func leadingIndent(s string) string {
	for _, l := range strings.Split(s, "\n") {
		trimmed := strings.TrimLeft(l, " \t")
		if strings.TrimSpace(trimmed) != "" {
			return l[:len(l)-len(trimmed)]
		}
	}
	return ""
}
