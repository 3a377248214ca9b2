package storage

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bychung/snusv-angel-club-sub003/internal/domain"
)

func newLocal(t *testing.T) *LocalStore {
	t.Helper()
	s, err := NewLocalStore(t.TempDir(), "http://localhost:8080/", "secret")
	require.NoError(t, err)
	return s
}

func TestLocalStore_UploadDownloadRemove(t *testing.T) {
	s := newLocal(t)
	ctx := context.Background()
	key := "documents/f1/lpa/v1-abc.pdf"

	require.NoError(t, s.Upload(ctx, key, []byte("%PDF-1.4"), "application/pdf"))
	data, err := s.Download(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	_, err = os.Stat(filepath.Join(s.root, "documents", "f1", "lpa", "v1-abc.pdf.tmp"))
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, s.Remove(ctx, key))
	require.NoError(t, s.Remove(ctx, key), "removing a missing object is not an error")
	_, err = s.Download(ctx, key)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLocalStore_RejectsEscapingKeys(t *testing.T) {
	s := newLocal(t)
	ctx := context.Background()

	_, err := s.resolve("")
	assert.Error(t, err)
	full, err := s.resolve("../../etc/passwd")
	require.NoError(t, err, "dot segments are cleaned inside the root")
	assert.Equal(t, filepath.Join(s.root, "etc", "passwd"), full)
	assert.Error(t, s.Upload(ctx, "/", []byte("x"), ""))
}

func TestLocalStore_SignedURLRoundTrip(t *testing.T) {
	s := newLocal(t)
	ctx := context.Background()
	key := "documents/f1/member_list/v2-def.pdf"
	require.NoError(t, s.Upload(ctx, key, []byte("pdf"), "application/pdf"))

	raw, err := s.SignedURL(ctx, key, time.Minute)
	require.NoError(t, err)
	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/files", u.Path)
	assert.Equal(t, "localhost:8080", u.Host)

	gotKey, data, err := s.Open(ctx, u.Query().Get("token"))
	require.NoError(t, err)
	assert.Equal(t, key, gotKey)
	assert.Equal(t, "pdf", string(data))
}

func TestLocalStore_ExpiredOrForeignTokenRejected(t *testing.T) {
	s := newLocal(t)
	ctx := context.Background()
	require.NoError(t, s.Upload(ctx, "a.pdf", []byte("pdf"), ""))

	raw, err := s.SignedURL(ctx, "a.pdf", -time.Minute)
	require.NoError(t, err)
	u, _ := url.Parse(raw)
	_, _, err = s.Open(ctx, u.Query().Get("token"))
	assert.Equal(t, domain.KindAuthentication, domain.KindOf(err))

	other, err := NewLocalStore(t.TempDir(), "http://x", "other-secret")
	require.NoError(t, err)
	raw, err = other.SignedURL(ctx, "a.pdf", time.Minute)
	require.NoError(t, err)
	u, _ = url.Parse(raw)
	_, _, err = s.Open(ctx, u.Query().Get("token"))
	assert.Error(t, err)
}
