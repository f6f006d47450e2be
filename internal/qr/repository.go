package qr

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/permaqr/pkg/slug"
)

// Repository persists records. Insert must return an error wrapping
// slug.ErrTaken when the slug is already in use and ErrDuplicateID when the
// id is. Lookups return ErrNotFound. Update only succeeds when rec.Version
// matches the stored version, returns ErrConflict otherwise and increments
// rec.Version on success.
type Repository interface {
	Insert(ctx context.Context, rec *Record) error
	GetBySlug(ctx context.Context, slug string) (*Record, error)
	Update(ctx context.Context, rec *Record) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// MemoryRepository is a Repository backed by a map. Used in tests and for
// running without a database.
type MemoryRepository struct {
	mu     sync.RWMutex
	bySlug map[string]*Record
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{bySlug: make(map[string]*Record)}
}

func (m *MemoryRepository) Insert(ctx context.Context, rec *Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bySlug[rec.Slug]; ok {
		return slug.ErrTaken
	}
	for _, r := range m.bySlug {
		if r.ID == rec.ID {
			return ErrDuplicateID
		}
	}
	m.bySlug[rec.Slug] = cloneRecord(rec)
	return nil
}

func (m *MemoryRepository) GetBySlug(ctx context.Context, s string) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.bySlug[s]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneRecord(rec), nil
}

func (m *MemoryRepository) Update(ctx context.Context, rec *Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.bySlug[rec.Slug]
	if !ok || cur.ID != rec.ID {
		return ErrNotFound
	}
	if cur.Version != rec.Version {
		return ErrConflict
	}
	rec.Version++
	m.bySlug[rec.Slug] = cloneRecord(rec)
	return nil
}

func (m *MemoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for s, r := range m.bySlug {
		if r.ID == id {
			delete(m.bySlug, s)
			return nil
		}
	}
	return ErrNotFound
}

// Len returns the number of stored records.
func (m *MemoryRepository) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.bySlug)
}

func cloneRecord(r *Record) *Record {
	c := *r
	if r.Options.Gradient != nil {
		g := *r.Options.Gradient
		c.Options.Gradient = &g
	}
	return &c
}
