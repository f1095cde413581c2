package ledger

import (
	"fmt"
	"sync"
)

// Store persists share supply, balances, holder counts, metadata records
// and an append-only journal. Missing counters read as zero.
type Store interface {
	// Supply returns the total shares outstanding for subject.
	Supply(subject Address) (uint64, error)

	// Balance returns the shares of subject held by holder.
	Balance(holder, subject Address) (uint64, error)

	// Holders returns the number of distinct non-zero holders of subject.
	Holders(subject Address) (uint64, error)

	// Meta returns the metadata record stored under key.
	Meta(key string) ([]byte, error)

	// Commit applies every staged write in b, or none of them.
	Commit(b *Batch) error

	// Journal calls fn for each journal entry in append order.
	Journal(fn func(seq uint64, entry []byte) error) error
}

// MemStore is an in-memory implementation of Store.
type MemStore struct {
	mu       sync.RWMutex
	supply   map[Address]uint64
	balances map[Holding]uint64
	holders  map[Address]uint64
	meta     map[string][]byte
	journal  [][]byte
}

// Compile-time interface check.
var _ Store = (*MemStore)(nil)

// NewMemStore creates a new in-memory ledger store.
func NewMemStore() *MemStore {
	return &MemStore{
		supply:   make(map[Address]uint64),
		balances: make(map[Holding]uint64),
		holders:  make(map[Address]uint64),
		meta:     make(map[string][]byte),
	}
}

// Supply returns the total shares outstanding for subject.
func (s *MemStore) Supply(subject Address) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.supply[subject], nil
}

// Balance returns the shares of subject held by holder.
func (s *MemStore) Balance(holder, subject Address) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balances[Holding{Holder: holder, Subject: subject}], nil
}

// Holders returns the number of distinct non-zero holders of subject.
func (s *MemStore) Holders(subject Address) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.holders[subject], nil
}

// Meta returns a copy of the metadata record stored under key.
func (s *MemStore) Meta(key string) ([]byte, error) {
	if key == "" {
		return nil, ErrEmptyMetaKey
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.meta[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMetaNotFound, key)
	}
	return append([]byte(nil), v...), nil
}

// Commit applies the batch under a single write lock.
func (s *MemStore) Commit(b *Batch) error {
	if b == nil {
		return fmt.Errorf("%w: batch", ErrNilParam)
	}
	if err := b.validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, v := range b.supply {
		setOrDelete(s.supply, k, v)
	}
	for k, v := range b.balances {
		setOrDelete(s.balances, k, v)
	}
	for k, v := range b.holders {
		setOrDelete(s.holders, k, v)
	}
	for k, v := range b.meta {
		s.meta[k] = append([]byte(nil), v...)
	}
	for _, e := range b.journal {
		s.journal = append(s.journal, append([]byte(nil), e...))
	}
	return nil
}

// Journal calls fn for each entry; sequence numbers start at 1.
func (s *MemStore) Journal(fn func(seq uint64, entry []byte) error) error {
	if fn == nil {
		return fmt.Errorf("%w: journal callback", ErrNilParam)
	}

	s.mu.RLock()
	entries := make([][]byte, len(s.journal))
	copy(entries, s.journal)
	s.mu.RUnlock()

	for i, e := range entries {
		if err := fn(uint64(i)+1, e); err != nil {
			return err
		}
	}
	return nil
}

func setOrDelete[K comparable](m map[K]uint64, k K, v uint64) {
	if v == 0 {
		delete(m, k)
		return
	}
	m[k] = v
}
