// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package workspace

import (
	"context"
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"go.uber.org/zap"

	"github.com/petar-djukic/go-patcher/internal/feedback"
	"github.com/petar-djukic/go-patcher/internal/log"
	"github.com/petar-djukic/go-patcher/pkg/patch"
	"github.com/petar-djukic/go-patcher/pkg/types"
)

const diffContext = 3

// Options controls a single apply.
type Options struct {
	DryRun bool // Never write, even when every block applied
	Diff   bool // Attach a unified diff of the resulting content
}

// BlockReport is the per-block line of a Report.
type BlockReport struct {
	Block     int     `json:"block"` // 1-based
	Success   bool    `json:"success"`
	Strategy  string  `json:"strategy"`
	Message   string  `json:"message"`
	StartLine int     `json:"start_line,omitempty"`
	EndLine   int     `json:"end_line,omitempty"`
	Score     float64 `json:"score"`
	Feedback  string  `json:"feedback,omitempty"`
}

// Report is the outcome of applying edits to one file.
type Report struct {
	Path     string             `json:"path"`
	Success  bool               `json:"success"`
	Summary  string             `json:"summary"`
	Written  bool               `json:"written"`
	Blocks   []BlockReport      `json:"blocks"`
	Diff     string             `json:"diff,omitempty"`
	Feedback string             `json:"feedback,omitempty"`
	Result   *types.ApplyResult `json:"-"`
}

// Editor applies patch payloads to files of a Store.
type Editor struct {
	store  *Store
	engine *patch.Engine
	log    *zap.Logger
}

// NewEditor creates an Editor. A nil logger disables logging.
func NewEditor(store *Store, engine *patch.Engine, logger *zap.Logger) *Editor {
	return &Editor{store: store, engine: engine, log: log.OrNop(logger)}
}

// ApplyFile applies payload to path. The file is written only when every
// block applied and opts.DryRun is false. Parse and validation failures
// are returned as errors; match failures are reported in the Report.
func (e *Editor) ApplyFile(ctx context.Context, path, payload string, opts Options) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := e.store.Read(path)
	if err != nil {
		return nil, err
	}

	res, err := e.engine.ApplyPayload(doc.Content, payload)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", doc.Path, err)
	}

	return e.finish(doc, res, opts)
}

// ReplaceFile replaces the unique region of path matching oldText with
// newText.
func (e *Editor) ReplaceFile(ctx context.Context, path, oldText, newText string, opts Options) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := e.store.Read(path)
	if err != nil {
		return nil, err
	}

	after, m := e.engine.Replace(doc.Content, normalizeNewlines(oldText), normalizeNewlines(newText))
	res := &types.ApplyResult{AfterContent: after, PerBlock: []types.MatchResult{m}}
	return e.finish(doc, res, opts)
}

// WriteFile replaces the whole content of an existing file. The file's BOM
// and line endings are kept; missing files are not created.
func (e *Editor) WriteFile(ctx context.Context, path, content string, opts Options) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := e.store.Read(path)
	if err != nil {
		return nil, err
	}

	after := normalizeNewlines(content)
	report := &Report{
		Path:    doc.Path,
		Success: true,
		Summary: fmt.Sprintf("replaced whole file (%d bytes)", len(after)),
		Blocks:  []BlockReport{},
		Result:  &types.ApplyResult{AfterContent: after, PerBlock: []types.MatchResult{}},
	}
	if opts.Diff {
		diff, err := unifiedDiff(doc.Path, doc.Content, after)
		if err != nil {
			return nil, fmt.Errorf("diffing %s: %w", doc.Path, err)
		}
		report.Diff = diff
	}
	if opts.DryRun || after == doc.Content {
		return report, nil
	}

	if err := e.store.Write(doc, after); err != nil {
		return nil, err
	}
	report.Written = true
	e.log.Info("file replaced", zap.String("path", doc.Path), zap.Int("bytes", len(after)))
	return report, nil
}

// finish builds the report and writes the file when allowed.
func (e *Editor) finish(doc *Document, res *types.ApplyResult, opts Options) (*Report, error) {
	report := newReport(doc.Path, res)

	if opts.Diff {
		diff, err := unifiedDiff(doc.Path, doc.Content, res.AfterContent)
		if err != nil {
			return nil, fmt.Errorf("diffing %s: %w", doc.Path, err)
		}
		report.Diff = diff
	}

	if !report.Success {
		e.log.Info("edits not applied", zap.String("path", doc.Path), zap.String("summary", report.Summary))
		return report, nil
	}
	if opts.DryRun || res.AfterContent == doc.Content {
		return report, nil
	}

	if err := e.store.Write(doc, res.AfterContent); err != nil {
		return nil, err
	}
	report.Written = true
	e.log.Info("edits applied", zap.String("path", doc.Path), zap.String("summary", report.Summary))
	return report, nil
}

func newReport(path string, res *types.ApplyResult) *Report {
	r := &Report{
		Path:    path,
		Success: res.AllSuccessful(),
		Summary: res.Summary(),
		Blocks:  make([]BlockReport, len(res.PerBlock)),
		Result:  res,
	}
	for i, m := range res.PerBlock {
		b := BlockReport{
			Block:    i + 1,
			Success:  m.Success,
			Strategy: m.StrategyName(),
			Message:  patch.DescribeMatch(m),
			Score:    m.Score,
			Feedback: m.Feedback,
		}
		if m.Location != nil {
			b.StartLine = m.Location.StartLine
			b.EndLine = m.Location.EndLine
		}
		r.Blocks[i] = b
	}
	if !r.Success {
		r.Feedback = feedback.FormatApplyFailures(path, res)
	}
	return r
}

// unifiedDiff renders the change from before to after. Identical inputs
// give an empty diff.
func unifiedDiff(path, before, after string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  diffContext,
	})
}

// normalizeNewlines converts CRLF to LF to match Document content.
func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
