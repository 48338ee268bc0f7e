//go:build unix

package engine

import (
	"context"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_MoveKeepsSpecialFiles(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.MkdirAll(dst, 0o755))
	tree := filepath.Join(dir, "tree")
	writeFile(t, filepath.Join(tree, "a.txt"), []byte("a"))
	pipe := filepath.Join(tree, "pipe")
	require.NoError(t, syscall.Mkfifo(pipe, 0o644))

	rec := &recorder{}
	out := newTestEngine().Run(context.Background(), Request{
		Kind: Move, Sources: []string{tree}, DstDir: dst,
	}, rec)

	assert.False(t, out.Success)
	require.Len(t, out.Errors, 1)
	assert.Contains(t, out.Errors[0], filepath.Join("tree", "pipe"))
	assert.Contains(t, out.Errors[0], ErrSpecialFile.Error())
	assert.Equal(t, "move incomplete: 1 errors, sources kept", out.Message)

	fi, err := os.Lstat(pipe)
	require.NoError(t, err, "a move must not delete what it could not carry")
	assert.Equal(t, os.ModeNamedPipe, fi.Mode().Type())
	assert.FileExists(t, filepath.Join(tree, "a.txt"))
	assert.FileExists(t, filepath.Join(dst, "tree", "a.txt"))
	rec.requireWellFormed(t)
}

func TestRun_CopySkipsSpecialFiles(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.MkdirAll(dst, 0o755))
	tree := filepath.Join(dir, "tree")
	writeFile(t, filepath.Join(tree, "a.txt"), []byte("a"))
	require.NoError(t, syscall.Mkfifo(filepath.Join(tree, "pipe"), 0o644))

	out := newTestEngine().Run(context.Background(), Request{
		Kind: Copy, Sources: []string{tree}, DstDir: dst,
	}, nil)

	assert.True(t, out.Success, out.Message)
	assert.FileExists(t, filepath.Join(dst, "tree", "a.txt"))
	_, err := os.Lstat(filepath.Join(dst, "tree", "pipe"))
	assert.True(t, os.IsNotExist(err))
}
