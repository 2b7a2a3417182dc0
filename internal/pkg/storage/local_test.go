package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_Upload(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir)
	require.NoError(t, err)
	ctx := context.Background()

	key, err := s.Upload(ctx, strings.NewReader("payload"), "biometric/2025-01-10/export.xlsx", "application/octet-stream")
	require.NoError(t, err)
	assert.Equal(t, "biometric/2025-01-10/export.xlsx", key)

	data, err := os.ReadFile(filepath.Join(dir, "biometric", "2025-01-10", "export.xlsx"))
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	ok, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Exists(ctx, "biometric/missing.xlsx")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = s.Upload(context.Background(), strings.NewReader("x"), "../escape.xlsx", "")
	assert.Error(t, err)

	_, err = s.Exists(context.Background(), "../../etc/passwd")
	assert.Error(t, err)
}
