package provider

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// memoryStore round-trips through JSON so tests observe exactly what a file
// backed store would persist.
type memoryStore struct {
	mu       sync.Mutex
	data     []byte
	writes   int
	readErr  error
	writeErr error
}

func (m *memoryStore) EnsureInitialized(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		data, _ := json.Marshal(NewStoreFile())
		m.data = data
	}
	return nil
}

func (m *memoryStore) Read(ctx context.Context) (*StoreFile, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	if err := m.EnsureInitialized(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	doc := &StoreFile{}
	if err := json.Unmarshal(m.data, doc); err != nil {
		return nil, errors.Join(ErrStorageCorrupt, err)
	}
	doc.Normalize()
	return doc, nil
}

func (m *memoryStore) Write(ctx context.Context, doc *StoreFile) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
	m.writes++
	return nil
}

func (m *memoryStore) persisted() map[string]json.RawMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	var raw map[string]json.RawMessage
	_ = json.Unmarshal(m.data, &raw)
	return raw
}
