package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bychung/snusv-angel-club-sub003/internal/application/ports"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain"
)

// ObjectStore in-memory ports.Storage.
type ObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	// UploadErr and RemoveErr, when set, are returned by Upload and Remove.
	UploadErr error
	RemoveErr error
}

var _ ports.Storage = (*ObjectStore)(nil)

// NewObjectStore returns an empty object store.
func NewObjectStore() *ObjectStore {
	return &ObjectStore{objects: map[string][]byte{}}
}

func (o *ObjectStore) Upload(_ context.Context, path string, data []byte, _ string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.UploadErr != nil {
		return o.UploadErr
	}
	o.objects[path] = append([]byte(nil), data...)
	return nil
}

func (o *ObjectStore) Download(_ context.Context, path string) ([]byte, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	data, ok := o.objects[path]
	if !ok {
		return nil, domain.NotFound("memory: object %s not found", path)
	}
	return append([]byte(nil), data...), nil
}

func (o *ObjectStore) Remove(_ context.Context, path string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.RemoveErr != nil {
		return o.RemoveErr
	}
	delete(o.objects, path)
	return nil
}

func (o *ObjectStore) SignedURL(_ context.Context, path string, ttl time.Duration) (string, error) {
	return fmt.Sprintf("memory://%s?ttl=%d", path, int(ttl.Seconds())), nil
}

// Has reports whether an object exists.
func (o *ObjectStore) Has(path string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.objects[path]
	return ok
}

// Len number of stored objects.
func (o *ObjectStore) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.objects)
}
