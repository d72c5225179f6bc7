// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package workspace

import (
	"context"
	"fmt"
	"runtime"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// FileEdit pairs a file with the patch payload meant for it.
type FileEdit struct {
	Path  string `yaml:"path" json:"path"`
	Edits string `yaml:"edits" json:"edits"`
}

// Manifest is the YAML document accepted by batch apply:
//
//	files:
//	  - path: main.go
//	    edits: |
//	      <<<<<<< SEARCH
//	      ...
type Manifest struct {
	Files []FileEdit `yaml:"files"`
}

// ParseManifest decodes a YAML batch manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	for i, f := range m.Files {
		if f.Path == "" {
			return nil, fmt.Errorf("parsing manifest: file %d has no path", i+1)
		}
	}
	return &m, nil
}

// BatchItem is the outcome of one FileEdit. Exactly one of Report and Err
// is set.
type BatchItem struct {
	Path   string  `json:"path"`
	Report *Report `json:"report,omitempty"`
	Err    error   `json:"-"`
	Error  string  `json:"error,omitempty"`
}

// BatchOptions controls ApplyBatch.
type BatchOptions struct {
	Options
	Concurrency int // Files processed at once (default GOMAXPROCS)
}

// ApplyBatch applies every FileEdit and returns one item per edit, in
// input order. Different files run concurrently; edits naming the same
// file run one after another in input order, each against the file as the
// previous one left it.
func (e *Editor) ApplyBatch(ctx context.Context, edits []FileEdit, opts BatchOptions) []BatchItem {
	items := make([]BatchItem, len(edits))

	workers := opts.Concurrency
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	p := pool.New().WithMaxGoroutines(workers)
	for _, group := range e.groupByFile(edits) {
		p.Go(func() {
			for _, i := range group {
				items[i] = e.applyItem(ctx, edits[i], opts.Options)
			}
		})
	}
	p.Wait()

	return items
}

func (e *Editor) applyItem(ctx context.Context, fe FileEdit, opts Options) BatchItem {
	item := BatchItem{Path: fe.Path}
	report, err := e.ApplyFile(ctx, fe.Path, fe.Edits, opts)
	if err != nil {
		e.log.Warn("batch item failed", zap.String("path", fe.Path), zap.Error(err))
		item.Err = err
		item.Error = err.Error()
		return item
	}
	item.Report = report
	return item
}

// groupByFile returns edit indices grouped by target file, groups ordered
// by first appearance. Paths that do not resolve get a group of their own
// so the error surfaces from ApplyFile.
func (e *Editor) groupByFile(edits []FileEdit) [][]int {
	var groups [][]int
	byPath := make(map[string]int)
	for i, fe := range edits {
		key, err := e.store.Resolve(fe.Path)
		if err != nil {
			groups = append(groups, []int{i})
			continue
		}
		g, ok := byPath[key]
		if !ok {
			g = len(groups)
			byPath[key] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], i)
	}
	return groups
}

// BatchErr combines the failures of a batch: I/O, parse and validation
// errors, and files whose blocks did not all apply. It returns nil when
// every item succeeded.
func BatchErr(items []BatchItem) error {
	var err error
	for _, it := range items {
		switch {
		case it.Err != nil:
			err = multierr.Append(err, it.Err)
		case it.Report != nil && !it.Report.Success:
			err = multierr.Append(err, fmt.Errorf("%s: %s", it.Path, it.Report.Summary))
		}
	}
	return err
}
