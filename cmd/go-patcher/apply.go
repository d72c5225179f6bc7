// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	gitpkg "github.com/petar-djukic/go-patcher/internal/git"
	"github.com/petar-djukic/go-patcher/internal/workspace"
)

// fileResult is the JSON printed by apply and replace.
type fileResult struct {
	*workspace.Report
	Commit string `json:"commit,omitempty"`
}

// newApplyCmd creates the "apply" command.
func newApplyCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply a SEARCH/REPLACE payload to a file",
		Long:  "Apply reads edit blocks from --edits or stdin, applies them in order, and writes the file only if every block matched.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			editsPath, _ := cmd.Flags().GetString("edits")

			payload, err := readInput(cmd, editsPath)
			if err != nil {
				return err
			}

			ed, logger, err := newEditor(v)
			if err != nil {
				return err
			}
			defer logger.Sync()

			repo, err := prepareGit(cmd, v, []string{file})
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()

			report, err := ed.ApplyFile(ctx, file, payload, fileOptions(cmd))
			if err != nil {
				return err
			}
			return finishFile(cmd, repo, report, logger)
		},
	}

	cmd.Flags().StringP("file", "f", "", "File to edit (required)")
	cmd.Flags().StringP("edits", "e", "", "File holding the payload (default stdin)")
	addWriteFlags(cmd)
	cmd.MarkFlagRequired("file")

	return cmd
}

// newReplaceCmd creates the "replace" command.
func newReplaceCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replace",
		Short: "Replace one region of a file",
		Long:  "Replace locates --old with the same matching cascade as apply and substitutes --new.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			oldText, _ := cmd.Flags().GetString("old")
			newText, _ := cmd.Flags().GetString("new")

			ed, logger, err := newEditor(v)
			if err != nil {
				return err
			}
			defer logger.Sync()

			repo, err := prepareGit(cmd, v, []string{file})
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()

			report, err := ed.ReplaceFile(ctx, file, oldText, newText, fileOptions(cmd))
			if err != nil {
				return err
			}
			return finishFile(cmd, repo, report, logger)
		},
	}

	cmd.Flags().StringP("file", "f", "", "File to edit (required)")
	cmd.Flags().String("old", "", "Text to find (required)")
	cmd.Flags().String("new", "", "Replacement text")
	addWriteFlags(cmd)
	cmd.MarkFlagRequired("file")
	cmd.MarkFlagRequired("old")

	return cmd
}

// newWriteCmd creates the "write" command.
func newWriteCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "write",
		Short: "Replace the whole content of an existing file",
		Long:  "Write replaces the content of --file with --content or stdin, keeping the file's BOM and line endings. Missing files are not created.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			content, _ := cmd.Flags().GetString("content")
			if !cmd.Flags().Changed("content") {
				var err error
				if content, err = readInput(cmd, ""); err != nil {
					return err
				}
			}

			ed, logger, err := newEditor(v)
			if err != nil {
				return err
			}
			defer logger.Sync()

			repo, err := prepareGit(cmd, v, []string{file})
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()

			report, err := ed.WriteFile(ctx, file, content, fileOptions(cmd))
			if err != nil {
				return err
			}
			return finishFile(cmd, repo, report, logger)
		},
	}

	cmd.Flags().StringP("file", "f", "", "File to overwrite (required)")
	cmd.Flags().StringP("content", "c", "", "New file content (default stdin)")
	addWriteFlags(cmd)
	cmd.MarkFlagRequired("file")

	return cmd
}

func addWriteFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("dry-run", false, "Report without writing")
	cmd.Flags().Bool("diff", false, "Include a unified diff in the report")
	cmd.Flags().Bool("commit", false, "Commit the patched file")
	cmd.Flags().StringP("message", "m", "", "Commit subject (default describes the edit)")
	cmd.Flags().Bool("require-clean", false, "Refuse to edit files with uncommitted changes")
	cmd.Flags().Bool("require-clean-tree", false, "Refuse to edit when the worktree has any uncommitted changes")
}

func fileOptions(cmd *cobra.Command) workspace.Options {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	diff, _ := cmd.Flags().GetBool("diff")
	return workspace.Options{DryRun: dryRun, Diff: diff}
}

// prepareGit opens the repository when --commit or a --require-clean
// flag asks for it and enforces the clean checks. It returns nil when git
// is unused.
func prepareGit(cmd *cobra.Command, v *viper.Viper, files []string) (*gitpkg.Repo, error) {
	commit, _ := cmd.Flags().GetBool("commit")
	requireClean, _ := cmd.Flags().GetBool("require-clean")
	requireCleanTree, _ := cmd.Flags().GetBool("require-clean-tree")
	if !commit && !requireClean && !requireCleanTree {
		return nil, nil
	}

	repo, err := gitpkg.Open(gitpkg.Config{WorkDir: v.GetString("workdir")})
	if err != nil {
		return nil, fmt.Errorf("opening repository: %w", err)
	}
	if requireCleanTree {
		dirty, err := repo.IsDirty()
		if err != nil {
			return nil, err
		}
		if dirty {
			return nil, fmt.Errorf("%w: the worktree is not clean", gitpkg.ErrDirtyFiles)
		}
	}
	if requireClean {
		if err := repo.RequireClean(files); err != nil {
			return nil, err
		}
	}
	if !commit {
		return nil, nil
	}
	return repo, nil
}

// finishFile commits a written file when asked, prints the report and
// turns a failed apply into a non-zero exit.
func finishFile(cmd *cobra.Command, repo *gitpkg.Repo, report *workspace.Report, logger *zap.Logger) error {
	out := fileResult{Report: report}

	if repo != nil && report.Written {
		subject, _ := cmd.Flags().GetString("message")
		hash, err := repo.Commit(subject, []gitpkg.FileChange{{Path: report.Path, Summary: report.Summary}})
		if err != nil {
			return fmt.Errorf("commit failed: %w", err)
		}
		out.Commit = hash
		logger.Info("committed", zap.String("hash", hash))
	}

	if err := printJSON(cmd, out); err != nil {
		return err
	}
	if !report.Success {
		return errNotApplied
	}
	return nil
}
