// Package memory provides in-process implementations of the repository ports. They back the
// use case and handler tests and the "memory" database driver used in local development.
package memory

import (
	"context"
	"sync"

	"github.com/bychung/snusv-angel-club-sub003/internal/domain/entity"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/repository"
)

// Store holds every table in memory behind one lock.
type Store struct {
	mu        sync.RWMutex
	txMu      sync.Mutex
	funds     map[string]*entity.Fund
	profiles  map[string]*entity.Profile
	members   map[string]*entity.FundMember
	templates map[string]*entity.Template
	documents map[string]*entity.GeneratedDocument

	Funds     *FundRepository
	Profiles  *ProfileRepository
	Members   *FundMemberRepository
	Templates *TemplateRepository
	Documents *DocumentRepository
}

// NewStore returns an empty store.
func NewStore() *Store {
	s := &Store{
		funds:     map[string]*entity.Fund{},
		profiles:  map[string]*entity.Profile{},
		members:   map[string]*entity.FundMember{},
		templates: map[string]*entity.Template{},
		documents: map[string]*entity.GeneratedDocument{},
	}
	s.Funds = &FundRepository{s: s}
	s.Profiles = &ProfileRepository{s: s}
	s.Members = &FundMemberRepository{s: s}
	s.Templates = &TemplateRepository{s: s}
	s.Documents = &DocumentRepository{s: s}
	return s
}

// RunDocuments runs fn while holding the store-wide transaction lock, which gives the same
// per-scope serialisation as the advisory lock of the Postgres runner.
func (s *Store) RunDocuments(ctx context.Context, fn func(docs repository.DocumentRepository) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(s.Documents)
}
