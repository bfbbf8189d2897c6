package cloudsync

import (
	"context"
	"encoding/json"
	"maps"
	"sync"
)

// Document is the remote mirror of one identity: logical key -> encoded value.
type Document map[string]json.RawMessage

// Remote is a per-identity document store. Write with merge=true only sets
// the given keys and never removes the others.
type Remote interface {
	Read(ctx context.Context, identity string) (Document, bool, error)
	Write(ctx context.Context, identity string, doc Document, merge bool) error
}

// MemoryRemote keeps documents in process memory.
type MemoryRemote struct {
	mu     sync.Mutex
	docs   map[string]Document
	writes int
}

func NewMemoryRemote() *MemoryRemote {
	return &MemoryRemote{docs: make(map[string]Document)}
}

func (r *MemoryRemote) Read(_ context.Context, identity string) (Document, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.docs[identity]
	if !ok {
		return nil, false, nil
	}
	return maps.Clone(doc), true, nil
}

func (r *MemoryRemote) Write(_ context.Context, identity string, doc Document, merge bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.writes++

	current, ok := r.docs[identity]
	if !ok || !merge {
		current = make(Document, len(doc))
	}
	for k, v := range doc {
		current[k] = append(json.RawMessage(nil), v...)
	}
	r.docs[identity] = current
	return nil
}

// Writes returns the number of Write calls served so far.
func (r *MemoryRemote) Writes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes
}
