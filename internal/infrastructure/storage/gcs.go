package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/bychung/snusv-angel-club-sub003/internal/application/ports"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain"
	"github.com/bychung/snusv-angel-club-sub003/pkg/logger"
)

var _ ports.Storage = (*GCSStore)(nil)

// GCSStore keeps rendered PDFs in a Google Cloud Storage bucket.
type GCSStore struct {
	client *storage.Client
	bucket string
	log    *logger.Logger
}

// NewGCSStore opens a client with the given service account file, or application default
// credentials when credentialsFile is empty.
func NewGCSStore(ctx context.Context, bucket, credentialsFile string, log *logger.Logger) (*GCSStore, error) {
	opts := []option.ClientOption{option.WithScopes(storage.ScopeReadWrite)}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs: create client: %w", err)
	}
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("gcs")
	log.Info().Str("bucket", bucket).Msg("object storage initialized")
	return &GCSStore{client: client, bucket: bucket, log: log}, nil
}

func (s *GCSStore) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(path).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("gcs: write %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("gcs: close writer %s: %w", path, err)
	}
	return nil
}

func (s *GCSStore) Download(ctx context.Context, path string) ([]byte, error) {
	r, err := s.client.Bucket(s.bucket).Object(path).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, domain.Wrap(domain.KindNotFound, err, "stored file not found")
	}
	if err != nil {
		return nil, fmt.Errorf("gcs: open %s: %w", path, err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("gcs: read %s: %w", path, err)
	}
	return data, nil
}

func (s *GCSStore) Remove(ctx context.Context, path string) error {
	err := s.client.Bucket(s.bucket).Object(path).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("gcs: delete %s: %w", path, err)
	}
	return nil
}

// SignedURL issues a V4 GET URL. The signing identity comes from the client credentials.
func (s *GCSStore) SignedURL(_ context.Context, path string, ttl time.Duration) (string, error) {
	u, err := s.client.Bucket(s.bucket).SignedURL(path, &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  "GET",
		Expires: time.Now().Add(ttl),
	})
	if err != nil {
		return "", fmt.Errorf("gcs: sign %s: %w", path, err)
	}
	return u, nil
}

// Close releases the client.
func (s *GCSStore) Close() error {
	return s.client.Close()
}
