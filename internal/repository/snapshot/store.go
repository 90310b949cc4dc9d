// Package snapshot holds the process-wide, load-once dataset the query engine
// reads from. The store has a two-phase lifecycle: it starts empty and not
// ready, is populated exactly once by the ingestion step, and is read-only
// thereafter. Concurrent readers need no coordination beyond the readiness
// check because the published slice is never mutated.
package snapshot

import (
	"fmt"
	"sync"
	"time"

	"github.com/truestate/salesdex/internal/domain/sale"
)

// Store is the immutable in-memory record snapshot.
type Store struct {
	mu          sync.RWMutex
	records     []sale.Sale
	ready       bool
	loadedAt    time.Time
	fingerprint string
}

// New creates an empty, not-yet-ready store.
func New() *Store {
	return &Store{}
}

// Load publishes the record collection and flips the store to ready.
// The caller must not retain or mutate the slice afterwards. Calling Load a
// second time is a programming error and panics.
func (s *Store) Load(records []sale.Sale) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready {
		panic("snapshot: Load called twice")
	}
	s.records = records
	s.loadedAt = time.Now().UTC()
	s.fingerprint = fmt.Sprintf("%d-%d", len(records), s.loadedAt.UnixMilli())
	s.ready = true
}

// Records returns the published record collection and whether the store is
// ready. Callers must treat the slice as read-only.
func (s *Store) Records() ([]sale.Sale, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records, s.ready
}

// Ready reports whether the snapshot has been loaded.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Fingerprint identifies the loaded dataset (row count + load instant).
// Empty until ready. Used to namespace cache keys so a restart with fresh
// data never serves pages cached from a previous snapshot.
func (s *Store) Fingerprint() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fingerprint
}
