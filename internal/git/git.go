// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package git checks and commits the files go-patcher edits.
package git

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
)

const (
	defaultAuthorName  = "go-patcher"
	defaultAuthorEmail = "noreply@go-patcher"
)

// ErrNoGit is returned when the working directory is not in a git repository.
var ErrNoGit = errors.New("not a git repository")

// ErrDirtyFiles is returned by RequireClean when a file has uncommitted changes.
var ErrDirtyFiles = errors.New("files have uncommitted changes")

// Config configures git integration.
type Config struct {
	WorkDir     string // Directory patched paths are relative to
	AuthorName  string // Commit author (default "go-patcher")
	AuthorEmail string // Commit author email (default "noreply@go-patcher")
}

// Repo wraps the go-git repository that contains WorkDir.
type Repo struct {
	repo    *gogit.Repository
	cfg     Config
	workDir string // Absolute WorkDir
	root    string // Absolute worktree root
}

// Open opens the repository containing cfg.WorkDir, searching parent
// directories for .git. Returns ErrNoGit if there is none.
func Open(cfg Config) (*Repo, error) {
	if cfg.AuthorName == "" {
		cfg.AuthorName = defaultAuthorName
	}
	if cfg.AuthorEmail == "" {
		cfg.AuthorEmail = defaultAuthorEmail
	}

	workDir, err := filepath.Abs(cfg.WorkDir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", cfg.WorkDir, err)
	}

	r, err := gogit.PlainOpenWithOptions(workDir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoGit, err)
	}

	wt, err := r.Worktree()
	if err != nil {
		return nil, fmt.Errorf("getting worktree: %w", err)
	}

	return &Repo{repo: r, cfg: cfg, workDir: workDir, root: wt.Filesystem.Root()}, nil
}

// IsDirty returns true if the working tree has uncommitted changes
// (staged, unstaged or untracked).
func (r *Repo) IsDirty() (bool, error) {
	status, err := r.status()
	if err != nil {
		return false, err
	}
	return !status.IsClean(), nil
}

// IsFileDirty reports whether path, relative to WorkDir, differs from HEAD
// or is untracked.
func (r *Repo) IsFileDirty(path string) (bool, error) {
	status, err := r.status()
	if err != nil {
		return false, err
	}
	rel, err := r.repoPath(path)
	if err != nil {
		return false, err
	}

	// Status.File would insert an untracked entry for clean files.
	fs, ok := status[rel]
	if !ok {
		return false, nil
	}
	return fs.Staging != gogit.Unmodified || fs.Worktree != gogit.Unmodified, nil
}

// RequireClean returns ErrDirtyFiles naming every path with uncommitted
// changes.
func (r *Repo) RequireClean(paths []string) error {
	var dirty []string
	for _, p := range paths {
		d, err := r.IsFileDirty(p)
		if err != nil {
			return err
		}
		if d {
			dirty = append(dirty, p)
		}
	}
	if len(dirty) > 0 {
		return fmt.Errorf("%w: %s", ErrDirtyFiles, strings.Join(dirty, ", "))
	}
	return nil
}

func (r *Repo) status() (gogit.Status, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("getting worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("getting status: %w", err)
	}
	return status, nil
}

// repoPath converts a WorkDir-relative or absolute path into the
// slash-separated worktree path go-git uses.
func (r *Repo) repoPath(path string) (string, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.workDir, path)
	}
	rel, err := filepath.Rel(r.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside the repository", path)
	}
	return filepath.ToSlash(rel), nil
}
