// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package git

import (
	"fmt"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Commit stages the changed files and records them in one commit. Only the
// listed files are staged; other changes in the worktree stay uncommitted.
// It returns the new commit hash.
func (r *Repo) Commit(subject string, changes []FileChange) (string, error) {
	if len(changes) == 0 {
		return "", fmt.Errorf("nothing to commit")
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}

	for _, c := range changes {
		rel, err := r.repoPath(c.Path)
		if err != nil {
			return "", err
		}
		if _, err := wt.Add(rel); err != nil {
			return "", fmt.Errorf("staging %s: %w", c.Path, err)
		}
	}

	hash, err := wt.Commit(GenerateMessage(subject, changes), &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  r.cfg.AuthorName,
			Email: r.cfg.AuthorEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return "", fmt.Errorf("committing: %w", err)
	}

	return hash.String(), nil
}
