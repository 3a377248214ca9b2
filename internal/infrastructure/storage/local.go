// Package storage implements ports.Storage on Google Cloud Storage and on a local directory.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bychung/snusv-angel-club-sub003/internal/application/ports"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain"
)

var _ ports.Storage = (*LocalStore)(nil)

const fileAudience = "local-files"

// LocalStore keeps objects under a directory. Signed URLs point at the API's /files route
// and carry a short-lived HS256 token naming the object.
type LocalStore struct {
	root    string
	baseURL string
	secret  []byte
}

// NewLocalStore creates root when missing. baseURL is the public API origin.
func NewLocalStore(root, baseURL, secret string) (*LocalStore, error) {
	if secret == "" {
		return nil, errors.New("local storage: empty signing secret")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("local storage: resolve %s: %w", root, err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("local storage: create %s: %w", abs, err)
	}
	return &LocalStore{root: abs, baseURL: strings.TrimRight(baseURL, "/"), secret: []byte(secret)}, nil
}

// resolve maps a key into root and rejects keys escaping it.
func (s *LocalStore) resolve(key string) (string, error) {
	clean := filepath.Clean("/" + filepath.FromSlash(key))
	full := filepath.Join(s.root, clean)
	if full == s.root || !strings.HasPrefix(full, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("local storage: invalid key %q", key)
	}
	return full, nil
}

func (s *LocalStore) Upload(_ context.Context, key string, data []byte, _ string) error {
	full, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		return fmt.Errorf("local storage: mkdir: %w", err)
	}
	tmp := full + ".tmp"
	if err := os.WriteFile(tmp, data, 0o640); err != nil {
		return fmt.Errorf("local storage: write %s: %w", key, err)
	}
	if err := os.Rename(tmp, full); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("local storage: commit %s: %w", key, err)
	}
	return nil
}

func (s *LocalStore) Download(_ context.Context, key string) ([]byte, error) {
	full, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.Wrap(domain.KindNotFound, err, "stored file not found")
	}
	if err != nil {
		return nil, fmt.Errorf("local storage: read %s: %w", key, err)
	}
	return data, nil
}

func (s *LocalStore) Remove(_ context.Context, key string) error {
	full, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("local storage: remove %s: %w", key, err)
	}
	return nil
}

func (s *LocalStore) SignedURL(_ context.Context, key string, ttl time.Duration) (string, error) {
	if _, err := s.resolve(key); err != nil {
		return "", err
	}
	now := time.Now()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   key,
		Audience:  jwt.ClaimStrings{fileAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("local storage: sign %s: %w", key, err)
	}
	return s.baseURL + "/files?token=" + url.QueryEscape(token), nil
}

// Open validates a token issued by SignedURL and returns the object it names.
func (s *LocalStore) Open(ctx context.Context, token string) (key string, data []byte, err error) {
	claims := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithAudience(fileAudience), jwt.WithExpirationRequired())
	if err != nil {
		return "", nil, domain.Wrap(domain.KindAuthentication, err, "download link is invalid or expired")
	}
	data, err = s.Download(ctx, claims.Subject)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil, domain.NotFound("file no longer exists")
	}
	if err != nil {
		return "", nil, err
	}
	return claims.Subject, data, nil
}
