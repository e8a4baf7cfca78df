package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	key, err := s.Upload(ctx, strings.NewReader("%PDF-1.7 body"), "incidencias/3/justificante.pdf", "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "incidencias/3/justificante.pdf", key)

	exists, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	rc, err := s.Download(ctx, key)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 body", string(data))

	require.NoError(t, s.Delete(ctx, key))
	require.NoError(t, s.Delete(ctx, key), "deleting twice is a no-op")

	exists, err = s.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = s.Download(ctx, key)
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = s.Upload(ctx, strings.NewReader("x"), "../../etc/passwd", "text/plain")
	assert.ErrorIs(t, err, ErrInvalidPath)

	_, err = s.Download(ctx, "../secret")
	assert.ErrorIs(t, err, ErrInvalidPath)

	_, err = s.Exists(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidPath)
}
