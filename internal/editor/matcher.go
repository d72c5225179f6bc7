// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package editor locates search text in a document through a cascade of
// increasingly tolerant strategies and applies ordered edit blocks to an
// in-memory buffer. It performs no I/O.
package editor

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/petar-djukic/go-patcher/internal/feedback"
	"github.com/petar-djukic/go-patcher/pkg/types"
)

// Tunable defaults for the fuzzy-similarity strategy and failure reports.
const (
	DefaultSimilarityThreshold = 0.80
	DefaultMinMargin           = 0.05
	DefaultMaxCandidates       = 3
	DefaultCandidateFloor      = 0.5

	scoreEpsilon  = 1e-9
	maxListedHits = 10
)

// MatcherConfig tunes the matcher. Zero fields take their defaults.
type MatcherConfig struct {
	// SimilarityThreshold is the score a fuzzy window must exceed.
	SimilarityThreshold float64
	// MinMargin is the lead the best fuzzy window needs over the runner-up.
	MinMargin float64
	// MaxCandidates caps the regions echoed in failure feedback.
	MaxCandidates int
	// CandidateFloor is the lowest fuzzy score still worth echoing.
	CandidateFloor float64
	// Feedback bounds the size of rendered failure text.
	Feedback feedback.FormatConfig
}

// DefaultMatcherConfig returns the configuration used when none is given.
func DefaultMatcherConfig() MatcherConfig {
	return MatcherConfig{
		SimilarityThreshold: DefaultSimilarityThreshold,
		MinMargin:           DefaultMinMargin,
		MaxCandidates:       DefaultMaxCandidates,
		CandidateFloor:      DefaultCandidateFloor,
	}
}

func (c MatcherConfig) withDefaults() MatcherConfig {
	d := DefaultMatcherConfig()
	if c.SimilarityThreshold == 0 {
		c.SimilarityThreshold = d.SimilarityThreshold
	}
	if c.MinMargin == 0 {
		c.MinMargin = d.MinMargin
	}
	if c.MaxCandidates == 0 {
		c.MaxCandidates = d.MaxCandidates
	}
	if c.CandidateFloor == 0 {
		c.CandidateFloor = d.CandidateFloor
	}
	return c
}

// Matcher finds the unique region of a document that a search text refers
// to. It holds only configuration, so one Matcher may serve concurrent
// callers.
type Matcher struct {
	cfg MatcherConfig
	log *zap.Logger
}

// NewMatcher creates a Matcher. A nil logger disables logging.
func NewMatcher(cfg MatcherConfig, logger *zap.Logger) *Matcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{cfg: cfg.withDefaults(), log: logger}
}

// Config returns the effective configuration.
func (m *Matcher) Config() MatcherConfig {
	return m.cfg
}

// target is a document prepared once for every strategy.
type target struct {
	doc     string
	idx     *lineIndex
	trimmed []string
}

// outcome is what one strategy concluded. loc is set only for a unique
// match.
type outcome struct {
	loc        *types.MatchLocation
	score      float64
	note       string
	ambiguous  []types.Candidate
	nearMisses []types.Candidate
}

// FindMatch runs the strategies in cascade order against document and
// returns the first unique match. Several equally good regions are never
// resolved by picking one; when every strategy fails the result carries
// feedback naming the tied or closest regions.
func (m *Matcher) FindMatch(search, document string) types.MatchResult {
	if search == "" {
		return types.MatchResult{Feedback: "The search text is empty; there is nothing to locate.\n"}
	}

	t := &target{doc: document, idx: newLineIndex(document)}
	t.trimmed = t.idx.trimmedLines()

	f := feedback.Failure{SearchText: search}
	var nearMisses []types.Candidate
	bestScore := 0.0

	for _, s := range types.Strategies {
		var out outcome
		switch s {
		case types.StrategyExact:
			out = m.matchExact(search, t)
		case types.StrategyWhitespaceNormalized:
			out = m.matchWhitespaceNormalized(search, t)
		case types.StrategyLineTrimmed:
			out = m.matchLineTrimmed(search, t)
		case types.StrategyFuzzySimilarity:
			out = m.matchFuzzy(search, t)
		}

		if out.loc != nil {
			m.log.Debug("search text matched",
				zap.Stringer("strategy", s),
				zap.Int("start_line", out.loc.StartLine),
				zap.Int("end_line", out.loc.EndLine),
				zap.Float64("score", out.score))
			return types.MatchResult{
				Success:  true,
				Strategy: s,
				Location: out.loc,
				Score:    out.score,
			}
		}

		m.log.Debug("strategy gave up", zap.Stringer("strategy", s), zap.String("note", out.note))
		if out.note != "" {
			f.Notes = append(f.Notes, feedback.StageNote{Strategy: s, Note: out.note})
		}
		nearMisses = append(nearMisses, out.nearMisses...)
		for _, c := range out.nearMisses {
			bestScore = max(bestScore, c.Score)
		}
		// Several regions fit; no later strategy may pick one of them.
		if len(out.ambiguous) > 0 {
			f.Ambiguous = true
			f.Candidates = capCandidates(out.ambiguous, m.cfg.MaxCandidates)
			break
		}
	}

	if !f.Ambiguous {
		f.Candidates = capCandidates(nearMisses, m.cfg.MaxCandidates)
	}

	return types.MatchResult{
		Score:      bestScore,
		Candidates: f.Candidates,
		Feedback:   feedback.FormatMatchFailure(f, m.cfg.Feedback),
	}
}

// matchExact looks for search verbatim.
func (m *Matcher) matchExact(search string, t *target) outcome {
	hits := indexAll(t.doc, search)
	switch len(hits) {
	case 0:
		return outcome{note: "no verbatim occurrence"}
	case 1:
		return outcome{loc: t.location(hits[0], hits[0]+len(search)), score: 1.0}
	}

	cands := make([]types.Candidate, len(hits))
	for i, h := range hits {
		cands[i] = t.candidate(types.StrategyExact, h, h+len(search), 1.0)
	}
	return outcome{ambiguous: cands, note: ambiguityNote(cands)}
}

// matchWhitespaceNormalized compares whitespace-normalized forms and maps
// the hit back through the document's index array.
func (m *Matcher) matchWhitespaceNormalized(search string, t *target) outcome {
	norm := normalizeWhitespace(search)
	if strings.TrimSpace(norm) == "" {
		return outcome{note: "search text is only whitespace"}
	}

	nd := normalizeMapped(t.doc)
	hits := indexAll(nd.text, norm)
	switch len(hits) {
	case 0:
		return outcome{note: "no occurrence after collapsing whitespace"}
	case 1:
		start, end := nd.span(hits[0], hits[0]+len(norm))
		return outcome{loc: t.location(start, end), score: 1.0}
	}

	cands := make([]types.Candidate, len(hits))
	for i, h := range hits {
		start, end := nd.span(h, h+len(norm))
		cands[i] = t.candidate(types.StrategyWhitespaceNormalized, start, end, 1.0)
	}
	return outcome{ambiguous: cands, note: ambiguityNote(cands)}
}

// matchLineTrimmed compares line windows after trimming every line.
func (m *Matcher) matchLineTrimmed(search string, t *target) outcome {
	sl, trailing := searchLines(search)
	if allBlank(sl) {
		return outcome{note: "search text has no non-blank lines"}
	}

	n := len(sl)
	var hits []int
	for i := 0; i+n <= len(t.trimmed); i++ {
		if equalLines(t.trimmed[i:i+n], sl) {
			hits = append(hits, i)
		}
	}

	switch len(hits) {
	case 0:
		return outcome{note: "no run of lines matches after trimming indentation"}
	case 1:
		start, end := t.idx.lineSpan(hits[0], hits[0]+n-1, trailing)
		return outcome{loc: t.location(start, end), score: 1.0}
	}

	cands := make([]types.Candidate, len(hits))
	for i, h := range hits {
		start, end := t.idx.lineSpan(h, h+n-1, false)
		cands[i] = t.candidate(types.StrategyLineTrimmed, start, end, 1.0)
	}
	return outcome{ambiguous: cands, note: ambiguityNote(cands)}
}

// window is one scored line window of the fuzzy strategy.
type window struct {
	first int // 0-based first line
	score float64
}

// matchFuzzy scores every window with as many lines as search and accepts
// the best one only when it clears the threshold and leads the runner-up
// by the configured margin.
func (m *Matcher) matchFuzzy(search string, t *target) outcome {
	sl, trailing := searchLines(search)
	if allBlank(sl) {
		return outcome{note: "search text has no non-blank lines"}
	}
	n := len(sl)
	if n > len(t.trimmed) {
		return outcome{note: fmt.Sprintf("search text has %d lines, the document only %d", n, len(t.trimmed))}
	}

	threshold, margin := m.cfg.SimilarityThreshold, m.cfg.MinMargin
	// Windows below cutoff can neither match, block a match through the
	// margin, nor be shown as candidates.
	cutoff := min(m.cfg.CandidateFloor, threshold-margin)

	sc := newFuzzyScorer(t.trimmed, sl)
	var windows []window
	for i := 0; i+n <= len(t.trimmed); i++ {
		if score, ok := sc.score(i, cutoff); ok {
			windows = append(windows, window{first: i, score: score})
		}
	}
	if len(windows) == 0 {
		return outcome{note: fmt.Sprintf("no %d-line region scores %.2f or more, short of the %.2f threshold", n, cutoff, threshold)}
	}
	sort.SliceStable(windows, func(i, j int) bool { return windows[i].score > windows[j].score })

	best := windows[0]
	runnerUp := 0.0
	if len(windows) > 1 {
		runnerUp = windows[1].score
	}

	if best.score > threshold && best.score-runnerUp+scoreEpsilon >= margin {
		start, end := t.idx.lineSpan(best.first, best.first+n-1, trailing)
		return outcome{loc: t.location(start, end), score: best.score}
	}

	out := outcome{nearMisses: m.nearMisses(windows, n, t)}
	if best.score <= threshold {
		out.note = fmt.Sprintf("best score %.2f at lines %d-%d is not above the %.2f threshold",
			best.score, best.first+1, best.first+n, threshold)
		return out
	}

	// The best window clears the bar but others are too close to it.
	var tied []types.Candidate
	for _, w := range windows {
		if best.score-w.score+scoreEpsilon >= margin {
			break
		}
		start, end := t.idx.lineSpan(w.first, w.first+n-1, false)
		tied = append(tied, t.candidate(types.StrategyFuzzySimilarity, start, end, w.score))
	}
	out.ambiguous = tied
	if len(windows) == 1 {
		out.note = fmt.Sprintf("best score %.2f at lines %d-%d is below the %.2f margin",
			best.score, best.first+1, best.first+n, margin)
		return out
	}
	out.note = fmt.Sprintf("best score %.2f at lines %d-%d leads %.2f at lines %d-%d by less than %.2f",
		best.score, best.first+1, best.first+n,
		windows[1].score, windows[1].first+1, windows[1].first+n, margin)
	return out
}

// nearMisses picks the best non-overlapping windows scoring at least the
// candidate floor. windows must be sorted by descending score.
func (m *Matcher) nearMisses(windows []window, n int, t *target) []types.Candidate {
	var picked []window
	for _, w := range windows {
		if w.score < m.cfg.CandidateFloor || len(picked) == m.cfg.MaxCandidates {
			break
		}
		overlaps := false
		for _, p := range picked {
			if w.first < p.first+n && p.first < w.first+n {
				overlaps = true
				break
			}
		}
		if !overlaps {
			picked = append(picked, w)
		}
	}

	cands := make([]types.Candidate, len(picked))
	for i, w := range picked {
		start, end := t.idx.lineSpan(w.first, w.first+n-1, false)
		cands[i] = t.candidate(types.StrategyFuzzySimilarity, start, end, w.score)
	}
	return cands
}

// location converts a byte range into a MatchLocation.
func (t *target) location(start, end int) *types.MatchLocation {
	first, last := t.idx.lines(start, end)
	return &types.MatchLocation{
		StartOffset: start,
		EndOffset:   end,
		StartLine:   first,
		EndLine:     last,
	}
}

// candidate describes the byte range [start, end) with the full lines it
// touches as the excerpt.
func (t *target) candidate(s types.MatchStrategy, start, end int, score float64) types.Candidate {
	first, last := t.idx.lines(start, end)
	from, to := t.idx.lineSpan(first-1, last-1, false)
	return types.Candidate{
		Strategy:  s,
		StartLine: first,
		EndLine:   last,
		Score:     score,
		Excerpt:   t.doc[from:to],
	}
}

// indexAll returns the offset of every occurrence of sub in s, overlapping
// occurrences included.
func indexAll(s, sub string) []int {
	var hits []int
	for i := 0; i+len(sub) <= len(s); {
		j := strings.Index(s[i:], sub)
		if j < 0 {
			break
		}
		hits = append(hits, i+j)
		i += j + 1
	}
	return hits
}

func equalLines(a, b []string) bool {
	for i := range b {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ambiguityNote summarizes tied regions, e.g. "2 matches at lines 1, 2".
func ambiguityNote(cands []types.Candidate) string {
	lines := make([]string, 0, min(len(cands), maxListedHits))
	for i, c := range cands {
		if i == maxListedHits {
			lines = append(lines, "...")
			break
		}
		lines = append(lines, fmt.Sprint(c.StartLine))
	}
	return fmt.Sprintf("%d matches at lines %s", len(cands), strings.Join(lines, ", "))
}

func capCandidates(cands []types.Candidate, n int) []types.Candidate {
	if len(cands) > n {
		return cands[:n]
	}
	return cands
}
