package storage

import (
	"bytes"
	"context"
	"io"
	"sync"
)

// Memory keeps blobs in a map. Used by tests and STORAGE_BACKEND=memory.
type Memory struct {
	mu        sync.RWMutex
	objects   map[string][]byte
	types     map[string]string
	urlPrefix string

	// FailPut, when set, is returned by Put instead of storing anything.
	FailPut error
}

func NewMemory(urlPrefix string) *Memory {
	return &Memory{
		objects:   make(map[string][]byte),
		types:     make(map[string]string),
		urlPrefix: urlPrefix,
	}
}

func (m *Memory) Put(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	if m.FailPut != nil {
		return "", m.FailPut
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, readerWithContext(ctx, r)); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = buf.Bytes()
	m.types[key] = contentType
	return joinURL(m.urlPrefix, key), nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[key]; !ok {
		return ErrObjectNotFound
	}
	delete(m.objects, key)
	delete(m.types, key)
	return nil
}

// Get returns a copy of the stored bytes and content type.
func (m *Memory) Get(key string) ([]byte, string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, "", false
	}
	return bytes.Clone(data), m.types[key], true
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
