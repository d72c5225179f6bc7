// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package patch is the public interface of go-patcher: it turns an LLM's
// SEARCH/REPLACE payload into edits on a text buffer, locating each search
// text through a cascade of tolerant strategies and refusing to guess when
// a search text is ambiguous.
//
// The engine does no I/O. Callers read the file, call ApplyPayload, and
// persist AfterContent only when AllSuccessful reports true; otherwise they
// return FailureFeedback to the model and ask it to retry.
package patch

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/petar-djukic/go-patcher/pkg/types"
)

// Errors returned by the Engine.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrNoValidBlocks = errors.New("no valid edit blocks found")
)

// ValidationError lists every invalid block of a payload.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "invalid edit blocks: " + strings.Join(e.Messages, "; ")
}

// Config tunes an Engine. Zero fields take their defaults.
type Config struct {
	SimilarityThreshold float64     // Score a fuzzy region must exceed (default 0.80)
	MinMargin           float64     // Lead the best fuzzy region needs over the next (default 0.05)
	MaxCandidates       int         // Regions echoed in failure feedback (default 3)
	CandidateFloor      float64     // Lowest fuzzy score worth echoing (default 0.5)
	FeedbackWidth       int         // Display columns of search text echoed in feedback (default 600)
	Logger              *zap.Logger // Debug logging per strategy and block; nil disables it
}

// DescribeMatch renders a one-line account of a match attempt, such as
// "replaced lines 4-7 (strategy: line-trimmed)".
func DescribeMatch(m types.MatchResult) string {
	if !m.Success || m.Location == nil {
		return "not applied"
	}
	return fmt.Sprintf("replaced lines %d-%d (strategy: %s)", m.Location.StartLine, m.Location.EndLine, m.StrategyName())
}
