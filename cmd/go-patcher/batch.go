// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	gitpkg "github.com/petar-djukic/go-patcher/internal/git"
	"github.com/petar-djukic/go-patcher/internal/workspace"
)

// batchOutput is the JSON printed by batch.
type batchOutput struct {
	Files  []workspace.BatchItem `json:"files"`
	Commit string                `json:"commit,omitempty"`
}

// newBatchCmd creates the "batch" command.
func newBatchCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch MANIFEST",
		Short: "Apply a YAML manifest of payloads to many files",
		Long:  "Batch patches the files of a manifest concurrently. Entries naming the same file are applied in manifest order.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading manifest: %w", err)
			}
			manifest, err := workspace.ParseManifest(data)
			if err != nil {
				return err
			}

			ed, logger, err := newEditor(v)
			if err != nil {
				return err
			}
			defer logger.Sync()

			var paths []string
			for _, f := range manifest.Files {
				paths = append(paths, f.Path)
			}
			repo, err := prepareGit(cmd, v, paths)
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()

			items := ed.ApplyBatch(ctx, manifest.Files, workspace.BatchOptions{
				Options:     fileOptions(cmd),
				Concurrency: v.GetInt("concurrency"),
			})
			out := batchOutput{Files: items}

			if repo != nil {
				if changes := writtenChanges(items); len(changes) > 0 {
					subject, _ := cmd.Flags().GetString("message")
					hash, err := repo.Commit(subject, changes)
					if err != nil {
						return fmt.Errorf("commit failed: %w", err)
					}
					out.Commit = hash
					logger.Info("committed", zap.String("hash", hash), zap.Int("files", len(changes)))
				}
			}

			if err := printJSON(cmd, out); err != nil {
				return err
			}
			if err := workspace.BatchErr(items); err != nil {
				logger.Warn("batch incomplete", zap.Error(err))
				return errNotApplied
			}
			return nil
		},
	}

	addWriteFlags(cmd)

	return cmd
}

// writtenChanges lists each written file once, with its last summary.
func writtenChanges(items []workspace.BatchItem) []gitpkg.FileChange {
	var changes []gitpkg.FileChange
	seen := make(map[string]int)
	for _, it := range items {
		if it.Report == nil || !it.Report.Written {
			continue
		}
		if i, ok := seen[it.Report.Path]; ok {
			changes[i].Summary = it.Report.Summary
			continue
		}
		seen[it.Report.Path] = len(changes)
		changes = append(changes, gitpkg.FileChange{Path: it.Report.Path, Summary: it.Report.Summary})
	}
	return changes
}
