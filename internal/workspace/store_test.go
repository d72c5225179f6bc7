// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package workspace

import (
	"os"
	"path"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRoot = "/ws"

func newTestStore(t *testing.T, files map[string]string) (*Store, afero.Fs) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll(testRoot, 0o755))
	for name, content := range files {
		require.NoError(t, fsys.MkdirAll(path.Dir(testRoot+"/"+name), 0o755))
		require.NoError(t, afero.WriteFile(fsys, testRoot+"/"+name, []byte(content), 0o644))
	}
	s, err := NewStore(fsys, testRoot, nil)
	require.NoError(t, err)
	return s, fsys
}

func readFile(t *testing.T, fsys afero.Fs, name string) string {
	t.Helper()
	data, err := afero.ReadFile(fsys, testRoot+"/"+name)
	require.NoError(t, err)
	return string(data)
}

func TestStore_Resolve(t *testing.T) {
	s, _ := newTestStore(t, nil)

	tests := []struct {
		name    string
		path    string
		want    string
		outside bool
	}{
		{"relative", "main.go", "main.go", false},
		{"nested", "pkg/a/b.go", "pkg/a/b.go", false},
		{"dot segments stay inside", "pkg/../main.go", "main.go", false},
		{"absolute inside", "/ws/main.go", "main.go", false},
		{"parent escape", "../etc/passwd", "", true},
		{"absolute outside", "/etc/passwd", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Resolve(tt.path)
			if tt.outside {
				assert.ErrorIs(t, err, ErrOutsideRoot)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStore_ReadNormalizes(t *testing.T) {
	s, _ := newTestStore(t, map[string]string{
		"plain.txt": "a\nb\n",
		"win.txt":   "a\r\nb\r\n",
		"bom.txt":   "\ufeffa\r\nb\r\n",
	})

	doc, err := s.Read("plain.txt")
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", doc.Content)
	assert.False(t, doc.BOM)
	assert.False(t, doc.CRLF)

	doc, err = s.Read("win.txt")
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", doc.Content)
	assert.True(t, doc.CRLF)

	doc, err = s.Read("bom.txt")
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", doc.Content)
	assert.True(t, doc.BOM)
	assert.True(t, doc.CRLF)
}

func TestStore_WriteRestoresBOMAndCRLF(t *testing.T) {
	s, fsys := newTestStore(t, map[string]string{"bom.txt": "\ufeffold\r\nline\r\n"})

	doc, err := s.Read("bom.txt")
	require.NoError(t, err)
	require.NoError(t, s.Write(doc, "new\nline\n"))

	assert.Equal(t, "\ufeffnew\r\nline\r\n", readFile(t, fsys, "bom.txt"))
}

func TestStore_ReadMissing(t *testing.T) {
	s, _ := newTestStore(t, nil)

	_, err := s.Read("nope.go")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Read("../outside.go")
	assert.ErrorIs(t, err, ErrOutsideRoot)
}

func TestStore_ReadDirectory(t *testing.T) {
	s, fsys := newTestStore(t, nil)
	require.NoError(t, fsys.MkdirAll(testRoot+"/pkg", 0o755))

	_, err := s.Read("pkg")
	assert.ErrorContains(t, err, "is a directory")
}

func TestStore_AtomicWritePreservesPermissions(t *testing.T) {
	s, fsys := newTestStore(t, nil)
	require.NoError(t, afero.WriteFile(fsys, testRoot+"/run.sh", []byte("old"), 0o755))

	doc, err := s.Read("run.sh")
	require.NoError(t, err)
	require.NoError(t, s.Write(doc, "new"))

	info, err := fsys.Stat(testRoot + "/run.sh")
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
	assert.Equal(t, "new", readFile(t, fsys, "run.sh"))

	entries, err := afero.ReadDir(fsys, testRoot)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
	assert.Equal(t, "run.sh", entries[0].Name())
}

func TestStore_Glob(t *testing.T) {
	s, _ := newTestStore(t, map[string]string{
		"main.go":         "package main\n",
		"README.md":       "# readme\n",
		"pkg/a/a.go":      "package a\n",
		"pkg/a/a_test.go": "package a\n",
		".git/hooks/x.go": "package hooks\n",
		"gen/z.go":        "package gen\n",
		".gitignore":      "gen/\n",
	})

	got, err := s.Glob("**/*.go")
	require.NoError(t, err)
	assert.Equal(t, []string{"main.go", "pkg/a/a.go", "pkg/a/a_test.go"}, got)

	got, err = s.Glob("*.md")
	require.NoError(t, err)
	assert.Equal(t, []string{"README.md"}, got)

	_, err = s.Glob("[unclosed")
	assert.ErrorContains(t, err, "invalid glob pattern")
}
