package filestore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jrsteele09/go-flight-admin/storage/filestore"
	"github.com/stretchr/testify/require"
)

func TestStore_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	first := filestore.New(path)
	require.NoError(t, first.Set(ctx, map[string]string{"token": "abc", "userRole": "ROLE_ADMIN"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	second := filestore.New(path)
	v, ok, err := second.Get(ctx, "userRole")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "ROLE_ADMIN", v)
}

func TestStore_SetWithRemove(t *testing.T) {
	ctx := context.Background()
	s := filestore.New(filepath.Join(t.TempDir(), "session.json"))

	require.NoError(t, s.Set(ctx, map[string]string{"token": "a", "userEmail": "a@example.com"}))
	require.NoError(t, s.Set(ctx, map[string]string{"token": "b"}, "userEmail"))

	v, ok, err := s.Get(ctx, "token")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "b", v)

	_, ok, err = s.Get(ctx, "userEmail")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestStore_RemoveLastKeyDeletesFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	s := filestore.New(path)

	require.NoError(t, s.Remove(ctx, "token"))
	require.NoError(t, s.Set(ctx, map[string]string{"token": "abc"}))
	require.NoError(t, s.Remove(ctx, "token", "userRole"))

	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))
}

func TestStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, _, err := filestore.New(path).Get(context.Background(), "token")
	require.Error(t, err)
}

func TestStore_WritesReplaceCorruptFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	s := filestore.New(path)

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	require.NoError(t, s.Remove(ctx, "token", "userRole"))
	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	require.NoError(t, s.Set(ctx, map[string]string{"token": "abc"}))
	v, ok, err := s.Get(ctx, "token")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "abc", v)
}
