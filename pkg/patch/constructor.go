// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package patch

import (
	"fmt"

	"github.com/petar-djukic/go-patcher/internal/editor"
	"github.com/petar-djukic/go-patcher/internal/feedback"
	"github.com/petar-djukic/go-patcher/internal/log"
)

// New validates the config and returns a ready-to-use Engine.
func New(cfg Config) (*Engine, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	logger := log.OrNop(cfg.Logger)
	matcher := editor.NewMatcher(editor.MatcherConfig{
		SimilarityThreshold: cfg.SimilarityThreshold,
		MinMargin:           cfg.MinMargin,
		MaxCandidates:       cfg.MaxCandidates,
		CandidateFloor:      cfg.CandidateFloor,
		Feedback:            feedback.FormatConfig{MaxSearchWidth: cfg.FeedbackWidth},
	}, logger.Named("matcher"))

	return &Engine{
		matcher: matcher,
		applier: editor.NewApplier(matcher, logger.Named("applier")),
		log:     logger,
	}, nil
}

// validateConfig checks that tunables are in range. Zero means default.
func validateConfig(cfg Config) error {
	if cfg.SimilarityThreshold < 0 || cfg.SimilarityThreshold >= 1 {
		return fmt.Errorf("SimilarityThreshold %v must be in [0, 1)", cfg.SimilarityThreshold)
	}
	if cfg.MinMargin < 0 || cfg.MinMargin >= 1 {
		return fmt.Errorf("MinMargin %v must be in [0, 1)", cfg.MinMargin)
	}
	if cfg.MaxCandidates < 0 {
		return fmt.Errorf("MaxCandidates %d must not be negative", cfg.MaxCandidates)
	}
	if cfg.CandidateFloor < 0 || cfg.CandidateFloor > 1 {
		return fmt.Errorf("CandidateFloor %v must be in [0, 1]", cfg.CandidateFloor)
	}
	if cfg.FeedbackWidth < 0 {
		return fmt.Errorf("FeedbackWidth %d must not be negative", cfg.FeedbackWidth)
	}
	return nil
}
