// Package catalog keeps the registry of known books and their metadata.
// The registry is the source of truth for which document identities the
// RAG pipeline may build indexes for.
package catalog

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"book-rag/internal/apperr"
	"book-rag/internal/helper"
	"book-rag/internal/models"
)

// Registry is an in-memory book registry with optional persistence. When a
// Store is attached, registrations are written through and LoadPersisted
// restores rows at startup.
type Registry struct {
	mu    sync.RWMutex
	books map[string]models.BookMetadata
	store *Store
}

func NewRegistry(store *Store) *Registry {
	return &Registry{books: make(map[string]models.BookMetadata), store: store}
}

// Register adds or replaces a book entry.
func (r *Registry) Register(ctx context.Context, meta models.BookMetadata) error {
	if meta.ID == "" {
		return fmt.Errorf("register book: %w", apperr.ErrInvalidRequest)
	}
	if r.store != nil {
		if err := r.store.Save(ctx, meta); err != nil {
			return fmt.Errorf("persisting book %s: %w", meta.ID, err)
		}
	}
	r.mu.Lock()
	r.books[meta.ID] = meta
	r.mu.Unlock()
	return nil
}

// Get resolves a document identity to its metadata.
func (r *Registry) Get(id string) (models.BookMetadata, error) {
	r.mu.RLock()
	meta, ok := r.books[id]
	r.mu.RUnlock()
	if !ok {
		return models.BookMetadata{}, fmt.Errorf("book %s: %w", id, apperr.ErrNotFound)
	}
	return meta, nil
}

// List returns all known books sorted by title.
func (r *Registry) List() []models.BookMetadata {
	r.mu.RLock()
	out := make([]models.BookMetadata, 0, len(r.books))
	for _, meta := range r.books {
		out = append(out, meta)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out
}

// LoadPersisted restores previously saved catalog rows into memory.
func (r *Registry) LoadPersisted(ctx context.Context) error {
	if r.store == nil {
		return nil
	}
	books, err := r.store.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("loading persisted catalog: %w", err)
	}
	r.mu.Lock()
	for _, meta := range books {
		r.books[meta.ID] = meta
	}
	r.mu.Unlock()
	return nil
}

// NewUploadID assigns a fresh document identity for an uploaded file.
func NewUploadID() (string, error) {
	return helper.GenerateUUID()
}
