// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package workspace applies patch payloads to files under a root directory.
// It owns all file I/O: reading with BOM and line-ending detection, atomic
// writes, and concurrent batches over many files.
package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/petar-djukic/go-patcher/internal/log"
)

const utf8BOM = "\ufeff"

// Store errors.
var (
	ErrOutsideRoot = errors.New("path is outside the workspace root")
	ErrNotFound    = errors.New("file not found")
)

// Document is a file as the engine sees it: no BOM and LF line endings.
// BOM and CRLF remember what Write has to restore.
type Document struct {
	Path    string // Path relative to the store root
	Content string
	BOM     bool
	CRLF    bool
}

// Store reads and writes files confined to a root directory.
type Store struct {
	fs   afero.Fs
	root string
	log  *zap.Logger
}

// NewStore creates a Store over fsys rooted at root. A nil fsys uses the
// operating system's file system.
func NewStore(fsys afero.Fs, root string, logger *zap.Logger) (*Store, error) {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root %s: %w", root, err)
	}
	return &Store{fs: fsys, root: abs, log: log.OrNop(logger)}, nil
}

// Root returns the absolute root directory.
func (s *Store) Root() string {
	return s.root
}

// Resolve returns path relative to the root, rejecting paths that escape
// it. path may be absolute or relative to the root.
func (s *Store) Resolve(path string) (string, error) {
	rel := filepath.Clean(path)
	if filepath.IsAbs(path) {
		r, err := filepath.Rel(s.root, path)
		if err != nil {
			return "", fmt.Errorf("%w: %s", ErrOutsideRoot, path)
		}
		rel = r
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	}
	return rel, nil
}

func (s *Store) abs(rel string) string {
	return filepath.Join(s.root, rel)
}

// Glob returns the files under the root matching pattern, a
// slash-separated doublestar pattern such as "**/*.go". Results are
// relative to the root and sorted. Files ignored by the root .gitignore,
// and anything under .git, are left out.
func (s *Store) Glob(pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid glob pattern %q", pattern)
	}
	fsys := afero.NewIOFS(afero.NewBasePathFs(s.fs, s.root))
	matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("globbing %s: %w", pattern, err)
	}
	skip := s.ignoreRules()
	files := make([]string, 0, len(matches))
	for _, m := range matches {
		if skip.MatchesPath(m) {
			continue
		}
		files = append(files, filepath.FromSlash(m))
	}
	sort.Strings(files)
	return files, nil
}

// ignoreRules compiles the root .gitignore. A missing file leaves only the
// .git rule.
func (s *Store) ignoreRules() *ignore.GitIgnore {
	lines := []string{".git"}
	data, err := afero.ReadFile(s.fs, s.abs(".gitignore"))
	if err != nil {
		s.log.Debug("no .gitignore found", zap.Error(err))
	} else {
		lines = append(lines, strings.Split(string(data), "\n")...)
	}
	return ignore.CompileIgnoreLines(lines...)
}

// Read loads path and normalizes it for matching. Missing files yield
// ErrNotFound.
func (s *Store) Read(path string) (*Document, error) {
	rel, err := s.Resolve(path)
	if err != nil {
		return nil, err
	}

	full := s.abs(rel)
	info, err := s.fs.Stat(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, rel)
	}
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", rel, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", rel)
	}

	data, err := afero.ReadFile(s.fs, full)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rel, err)
	}

	doc := &Document{Path: rel, Content: string(data)}
	if strings.HasPrefix(doc.Content, utf8BOM) {
		doc.BOM = true
		doc.Content = strings.TrimPrefix(doc.Content, utf8BOM)
	}
	if strings.Contains(doc.Content, "\r\n") {
		doc.CRLF = true
		doc.Content = strings.ReplaceAll(doc.Content, "\r\n", "\n")
	}

	s.log.Debug("read file", zap.String("path", rel), zap.Bool("bom", doc.BOM), zap.Bool("crlf", doc.CRLF))
	return doc, nil
}

// Write replaces doc's file with content, restoring the BOM and CRLF line
// endings the file was read with.
func (s *Store) Write(doc *Document, content string) error {
	rel, err := s.Resolve(doc.Path)
	if err != nil {
		return err
	}

	if doc.CRLF {
		content = strings.ReplaceAll(content, "\r\n", "\n")
		content = strings.ReplaceAll(content, "\n", "\r\n")
	}
	if doc.BOM {
		content = utf8BOM + content
	}

	if err := s.atomicWrite(s.abs(rel), []byte(content)); err != nil {
		return fmt.Errorf("writing %s: %w", rel, err)
	}
	s.log.Debug("wrote file", zap.String("path", rel), zap.Int("bytes", len(content)))
	return nil
}

// atomicWrite writes data to a temp file in the same directory, then renames
// it over path, keeping the original permissions.
func (s *Store) atomicWrite(path string, data []byte) error {
	perm := os.FileMode(0o644)
	if info, err := s.fs.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	f, err := afero.TempFile(s.fs, filepath.Dir(path), ".go-patcher-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		s.fs.Remove(tmpPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		s.fs.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := s.fs.Chmod(tmpPath, perm); err != nil {
		s.fs.Remove(tmpPath)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := s.fs.Rename(tmpPath, path); err != nil {
		s.fs.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
