// pkg/testutil/memoryfs_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Verify the in-memory filesystem honors the types.FS contract

package testutil

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryFSReadWrite(t *testing.T) {
	m := NewMemoryFS()

	err := m.WriteFile("/project/.canon/standards/style.md", []byte("content"), 0644)
	require.NoError(t, err)

	data, err := m.ReadFile("/project/.canon/standards/style.md")
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))

	// Parent directories are created implicitly
	info, err := m.Stat("/project/.canon/standards")
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestMemoryFSMissingFile(t *testing.T) {
	m := NewMemoryFS()

	_, err := m.ReadFile("/nope")
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestMemoryFSRename(t *testing.T) {
	m := NewMemoryFS()

	require.NoError(t, m.WriteFile("/a/file.canon-tmp", []byte("new"), 0644))
	require.NoError(t, m.WriteFile("/a/file", []byte("old"), 0644))

	require.NoError(t, m.Rename("/a/file.canon-tmp", "/a/file"))

	data, err := m.ReadFile("/a/file")
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))

	_, err = m.Stat("/a/file.canon-tmp")
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestMemoryFSReadDirSorted(t *testing.T) {
	m := NewMemoryFS()

	require.NoError(t, m.WriteFile("/tree/b.md", nil, 0644))
	require.NoError(t, m.WriteFile("/tree/a.md", nil, 0644))
	require.NoError(t, m.MkdirAll("/tree/c", 0755))

	entries, err := m.ReadDir("/tree")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "a.md", entries[0].Name())
	assert.Equal(t, "b.md", entries[1].Name())
	assert.Equal(t, "c", entries[2].Name())
	assert.True(t, entries[2].IsDir())
}

func TestMemoryFSErrorInjection(t *testing.T) {
	m := NewMemoryFS()
	require.NoError(t, m.WriteFile("/tree/locked.md", []byte("x"), 0644))

	injected := errors.New("injected failure")
	m.WithError("/tree/locked.md", injected)

	_, err := m.ReadFile("/tree/locked.md")
	assert.Equal(t, injected, err)

	err = m.WriteFile("/tree/locked.md", []byte("y"), 0644)
	assert.Equal(t, injected, err)

	m.ClearError("/tree/locked.md")
	_, err = m.ReadFile("/tree/locked.md")
	assert.NoError(t, err)
}

func TestMemoryFSRemoveAll(t *testing.T) {
	m := NewMemoryFS()
	require.NoError(t, m.WriteFile("/tree/sub/one.md", []byte("1"), 0644))
	require.NoError(t, m.WriteFile("/tree/sub/two.md", []byte("2"), 0644))
	require.NoError(t, m.WriteFile("/tree/keep.md", []byte("k"), 0644))

	require.NoError(t, m.RemoveAll("/tree/sub"))

	_, err := m.Stat("/tree/sub")
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	_, err = m.Stat("/tree/keep.md")
	assert.NoError(t, err)
}
