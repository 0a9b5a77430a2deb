package persistence

import (
	"context"
	"sync"
)

// MemoryBackend keeps the snapshot document in process memory. It backs tests
// and development without a storage service, the same escape hatch the
// config's "memory" backend selection exposes.
type MemoryBackend struct {
	mu   sync.Mutex
	doc  []byte
	some bool
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

// Load implements Backend.
func (b *MemoryBackend) Load(ctx context.Context) (*RawSnapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.some {
		return nil, ErrNoSnapshot
	}
	data := make([]byte, len(b.doc))
	copy(data, b.doc)
	return &RawSnapshot{Data: data}, nil
}

// Save implements Backend.
func (b *MemoryBackend) Save(ctx context.Context, doc *RawSnapshot) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.doc = make([]byte, len(doc.Data))
	copy(b.doc, doc.Data)
	b.some = true
	return nil
}

// Close implements Backend.
func (b *MemoryBackend) Close() error { return nil }
