package mmapfile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wxstat/aggregator/internal/mmapfile"
)

func TestOpenMapsFileContents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "measurements.txt")
	want := []byte("Hamburg;12.0\nBulawayo;8.9\n")
	require.NoError(t, os.WriteFile(path, want, 0o644))

	m, err := mmapfile.Open(path)
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, want, m.Bytes())
}

func TestOpenMissingFileFails(t *testing.T) {
	_, err := mmapfile.Open(filepath.Join(t.TempDir(), "does-not-exist.txt"))
	assert.Error(t, err)
}

func TestCloseIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "m.txt")
	require.NoError(t, os.WriteFile(path, []byte("a;1.0\n"), 0o644))

	m, err := mmapfile.Open(path)
	require.NoError(t, err)
	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
}

func TestEmptyFileYieldsEmptyMapping(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	m, err := mmapfile.Open(path)
	require.NoError(t, err)
	defer m.Close()
	assert.Empty(t, m.Bytes())
}
