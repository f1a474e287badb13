package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conradkoh/raggrep/internal/model"
)

func TestWriteReadJSONRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/nested/value.json"

	type payload struct{ A int }
	require.NoError(t, WriteJSON(path, payload{A: 7}))

	var out payload
	require.NoError(t, ReadJSON(path, &out))
	assert.Equal(t, 7, out.A)
}

func TestGlobalManifestMissingReturnsNil(t *testing.T) {
	dir := t.TempDir()
	m, err := ReadGlobalManifest(dir)
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestGlobalManifestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	m := model.NewGlobalManifest([]string{"core"})
	require.NoError(t, WriteGlobalManifest(dir, m))

	reloaded, err := ReadGlobalManifest(dir)
	require.NoError(t, err)
	require.NotNil(t, reloaded)
	assert.Equal(t, []string{"core"}, reloaded.ActiveModules)
}

func TestModuleManifestMissingReturnsEmpty(t *testing.T) {
	dir := t.TempDir()
	m, err := ReadModuleManifest(dir, "core")
	require.NoError(t, err)
	assert.Empty(t, m.Files)
}

func TestFileIndexRoundTrip(t *testing.T) {
	dir := t.TempDir()
	fi := &model.FileIndex{
		FilePath:     "a.go",
		LastModified: time.Now().Truncate(time.Second),
		Chunks:       []model.Chunk{{ID: "a.go:1:2", StartLine: 1, EndLine: 2, Kind: model.KindFile}},
	}
	require.NoError(t, WriteFileIndex(dir, "core", fi))

	reloaded, err := ReadFileIndex(dir, "core", "a.go")
	require.NoError(t, err)
	require.NotNil(t, reloaded)
	assert.Equal(t, fi.FilePath, reloaded.FilePath)

	require.NoError(t, RemoveFileIndex(dir, "core", "a.go"))
	reloaded, err = ReadFileIndex(dir, "core", "a.go")
	require.NoError(t, err)
	assert.Nil(t, reloaded)
}

func TestFileIndexRejectsInvalidInvariant(t *testing.T) {
	dir := t.TempDir()
	fi := &model.FileIndex{
		FilePath: "bad.go",
		Chunks:   []model.Chunk{{ID: "x", StartLine: 5, EndLine: 2}},
	}
	err := WriteFileIndex(dir, "core", fi)
	assert.Error(t, err)
}

func TestBM25SidecarRoundTrip(t *testing.T) {
	dir := t.TempDir()
	idx, err := ReadBM25Index(dir, "core")
	require.NoError(t, err)
	idx.AddDocument("chunk1", "hello world")
	require.NoError(t, WriteBM25Index(dir, "core", idx))

	reloaded, err := ReadBM25Index(dir, "core")
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.DocCount())
}

func TestLockTryLockExclusive(t *testing.T) {
	dir := t.TempDir()
	l1 := NewLock(dir)
	ok, err := l1.TryLock()
	require.NoError(t, err)
	require.True(t, ok)
	defer l1.Unlock()

	l2 := NewLock(dir)
	ok2, err := l2.TryLock()
	require.NoError(t, err)
	assert.False(t, ok2)
}
