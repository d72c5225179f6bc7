// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package patch

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/petar-djukic/go-patcher/internal/editformat"
	"github.com/petar-djukic/go-patcher/internal/editor"
	"github.com/petar-djukic/go-patcher/pkg/types"
)

// Engine parses, validates, locates and applies edit blocks. It holds only
// configuration, so one Engine may serve concurrent callers.
type Engine struct {
	matcher *editor.Matcher
	applier *editor.Applier
	log     *zap.Logger
}

// Parse extracts the well-formed blocks of payload, dropping malformed
// ones. It never fails; a payload without blocks yields an empty slice.
func (e *Engine) Parse(payload string) []types.EditBlock {
	return editformat.Parse(payload)
}

// Validate returns one message per invalid block, or nil.
func (e *Engine) Validate(blocks []types.EditBlock) []string {
	return editformat.Validate(blocks)
}

// Apply runs blocks against content in order. See types.ApplyResult for
// how to interpret the outcome.
func (e *Engine) Apply(content string, blocks []types.EditBlock) *types.ApplyResult {
	return e.applier.Apply(content, blocks)
}

// FindMatch locates search in document without editing anything.
func (e *Engine) FindMatch(search, document string) types.MatchResult {
	return e.matcher.FindMatch(search, document)
}

// ApplyPayload parses payload, validates the blocks and applies them to
// content. It returns ErrNoValidBlocks when the payload holds no
// well-formed block and a *ValidationError when any block is invalid;
// in both cases nothing is applied.
func (e *Engine) ApplyPayload(content, payload string) (*types.ApplyResult, error) {
	parsed := editformat.ParseDetailed(payload)
	for _, pe := range parsed.ParseErrors {
		e.log.Debug("dropped malformed block", zap.Int("line", pe.Line), zap.String("reason", pe.Message))
	}

	if len(parsed.Blocks) == 0 {
		if n := len(parsed.ParseErrors); n > 0 {
			return nil, fmt.Errorf("%w (%d malformed)", ErrNoValidBlocks, n)
		}
		return nil, ErrNoValidBlocks
	}

	if msgs := editformat.Validate(parsed.Blocks); len(msgs) > 0 {
		return nil, &ValidationError{Messages: msgs}
	}

	return e.applier.Apply(content, parsed.Blocks), nil
}

// Replace applies a single old/new edit to content, using the same
// matching cascade as a one-block payload. On failure the returned
// content is unchanged and the MatchResult carries feedback.
func (e *Engine) Replace(content, oldText, newText string) (string, types.MatchResult) {
	res := e.applier.Apply(content, []types.EditBlock{{SearchText: oldText, ReplaceText: newText}})
	return res.AfterContent, res.PerBlock[0]
}
