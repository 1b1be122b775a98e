// Package store persists generated commentary keyed by bucketed profile hash.
// The engine treats entries as opaque: it computes the hash, reads content
// back, and upserts on regeneration. There is no TTL and no invalidation;
// the bucketing layer is deliberately coarse enough to tolerate staleness.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Entry is one cached commentary record. Provider and Model record where the
// content came from; they are provenance, not lookup keys.
type Entry struct {
	ID        string    `json:"id"`
	Hash      string    `json:"hash"`
	Content   string    `json:"content"`
	Provider  string    `json:"provider"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewEntry stamps a fresh entry with id and timestamps.
func NewEntry(hash, content, provider, model string) *Entry {
	now := time.Now().UTC()
	return &Entry{
		ID:        uuid.NewString(),
		Hash:      hash,
		Content:   content,
		Provider:  provider,
		Model:     model,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CommentaryStore is the external key-value boundary. Implementations must
// treat Put as an idempotent upsert; last-write-wins between concurrent
// writers for the same hash is acceptable because bucketed content for the
// same hash is semantically equivalent.
type CommentaryStore interface {
	// Get returns the entry for hash, or found=false on a miss.
	Get(ctx context.Context, hash string) (entry *Entry, found bool, err error)
	// Put upserts the entry under its hash.
	Put(ctx context.Context, entry *Entry) error
}
