// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package editformat parses SEARCH/REPLACE patch payloads into edit blocks
// and validates them before they reach the applier.
package editformat

import (
	"fmt"
	"strings"

	"github.com/petar-djukic/go-patcher/pkg/types"
)

const (
	MarkerSearch  = "<<<<<<< SEARCH"
	MarkerDivider = "======="
	MarkerReplace = ">>>>>>> REPLACE"
)

// ParseError describes a malformed block that was dropped from the payload.
type ParseError struct {
	Line    int    // Line number of the block's SEARCH marker (1-based)
	RawText string // The raw text of the malformed block
	Message string // What went wrong
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d: %s", e.Line, e.Message)
}

// NoEditsFoundError reports a payload that contained no well-formed blocks.
type NoEditsFoundError struct {
	Dropped int // Malformed blocks that were skipped
}

func (e *NoEditsFoundError) Error() string {
	if e.Dropped > 0 {
		return fmt.Sprintf("no valid blocks found (%d malformed)", e.Dropped)
	}
	return "no valid blocks found"
}

// ParseResult holds the outcome of parsing a payload.
type ParseResult struct {
	Blocks      []types.EditBlock // Well-formed blocks in payload order
	ParseErrors []*ParseError     // One entry per dropped block
	BlocksFound int               // SEARCH markers seen
}

// Parse extracts the well-formed blocks of payload. Malformed blocks are
// dropped; an empty or block-free payload yields an empty slice.
func Parse(payload string) []types.EditBlock {
	return ParseDetailed(payload).Blocks
}

// ParseDetailed is Parse with a record of every dropped block.
func ParseDetailed(payload string) *ParseResult {
	result := &ParseResult{Blocks: []types.EditBlock{}}
	if payload == "" {
		return result
	}

	lines := strings.Split(strings.ReplaceAll(payload, "\r\n", "\n"), "\n")
	i := 0

	for i < len(lines) {
		if !isMarker(lines[i], MarkerSearch) {
			i++
			continue
		}

		start := i
		result.BlocksFound++
		i++

		search, next, ok := collectUntil(lines, i, MarkerDivider)
		if !ok {
			result.ParseErrors = append(result.ParseErrors, &ParseError{
				Line:    start + 1,
				RawText: reconstructBlock(lines, start, next),
				Message: "missing " + MarkerDivider + " divider",
			})
			i = next
			continue
		}
		i = next

		replace, next, ok := collectUntil(lines, i, MarkerReplace)
		if !ok {
			result.ParseErrors = append(result.ParseErrors, &ParseError{
				Line:    start + 1,
				RawText: reconstructBlock(lines, start, next),
				Message: "missing " + MarkerReplace + " marker",
			})
			i = next
			continue
		}
		i = next

		result.Blocks = append(result.Blocks, types.EditBlock{
			SearchText:  search,
			ReplaceText: replace,
			Index:       len(result.Blocks),
		})
	}

	return result
}

// collectUntil gathers body lines from lines[from:] up to the terminator
// marker. It returns the joined body, the index just past the terminator,
// and true on success. A SEARCH marker or the end of input before the
// terminator fails the block; the returned index then points at the
// offending SEARCH line (so it can start the next block) or at len(lines).
func collectUntil(lines []string, from int, terminator string) (string, int, bool) {
	var body []string
	for i := from; i < len(lines); i++ {
		switch {
		case isMarker(lines[i], terminator):
			return strings.Join(body, "\n"), i + 1, true
		case isMarker(lines[i], MarkerSearch):
			return "", i, false
		}
		body = append(body, lines[i])
	}
	return "", len(lines), false
}

// isMarker reports whether line is marker at column 0, ignoring trailing
// whitespace.
func isMarker(line, marker string) bool {
	return strings.TrimRight(line, " \t\r") == marker
}

// reconstructBlock joins lines from start to end for error reporting.
func reconstructBlock(lines []string, start, end int) string {
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[start:end], "\n")
}
