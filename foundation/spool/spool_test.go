package spool_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superfeelapi/goVeritas/foundation/spool"
)

func TestWriteAndCleanup(t *testing.T) {
	s, err := spool.New(filepath.Join(t.TempDir(), "temp_audio"))
	require.NoError(t, err)

	path, cleanup, err := s.Write([]byte("payload"), ".mp3")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, ".mp3"))
	assert.Equal(t, s.Dir(), filepath.Dir(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(b))

	require.NoError(t, cleanup())
	require.NoError(t, cleanup())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestWithRemovesFileOnFailure(t *testing.T) {
	s, err := spool.New(t.TempDir())
	require.NoError(t, err)

	var seen string
	boom := errors.New("boom")
	err = s.With([]byte("x"), ".mp3", func(path string) error {
		seen = path
		_, statErr := os.Stat(path)
		require.NoError(t, statErr)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = os.Stat(seen)
	assert.True(t, os.IsNotExist(err))
}

func TestWriteNamesAreUnique(t *testing.T) {
	s, err := spool.New(t.TempDir())
	require.NoError(t, err)

	a, cleanA, err := s.Write(nil, ".mp3")
	require.NoError(t, err)
	defer cleanA()
	b, cleanB, err := s.Write(nil, ".mp3")
	require.NoError(t, err)
	defer cleanB()

	assert.NotEqual(t, a, b)
}
