// Package store provides the key-value backends that hold reminder records
// between the daemon writing them and the popup consuming them.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/atomicstack/tmux-reminder-popup/internal/logging/events"
	"github.com/atomicstack/tmux-reminder-popup/internal/reminder"
)

// Store reads, writes and deletes reminder records by key.
type Store interface {
	Get(ctx context.Context, key string) (reminder.Record, bool, error)
	Put(ctx context.Context, key string, rec reminder.Record) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Memory keeps records in process. Useful for tests and for seeding a popup
// launched from the same process.
type Memory struct {
	mu      sync.Mutex
	records map[string][]byte
}

// NewMemory returns an empty in-process store.
func NewMemory() *Memory {
	return &Memory{records: make(map[string][]byte)}
}

func (m *Memory) Get(ctx context.Context, key string) (reminder.Record, bool, error) {
	m.mu.Lock()
	data, ok := m.records[key]
	m.mu.Unlock()
	events.Store.Get("memory", key, ok)
	if !ok {
		return reminder.Record{}, false, nil
	}
	rec, err := reminder.Decode(data)
	if err != nil {
		return reminder.Record{}, false, fmt.Errorf("memory store %s: %w", key, err)
	}
	return rec, true, nil
}

func (m *Memory) Put(ctx context.Context, key string, rec reminder.Record) error {
	data, err := reminder.Encode(rec)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.records[key] = data
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.records, key)
	m.mu.Unlock()
	events.Store.Delete("memory", key)
	return nil
}

// Len reports how many records are held.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

func (m *Memory) Close() error {
	return nil
}
