// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/faddix/aninote/internal/services"
)

// SaveCall records a single SaveOne invocation.
type SaveCall struct {
	ID   int
	Text string
}

// MockGateway is a test double for [services.NoteService].
type MockGateway struct {
	mu sync.Mutex

	Notes       map[int]string // remote state; nil means "no entries"
	FetchOneErr error
	SaveErr     error
	FetchAllErr error

	SaveCalls     []SaveCall
	FetchOneCalls int
	FetchAllCalls int
}

var _ services.NoteService = (*MockGateway)(nil)

func (m *MockGateway) Name() string { return "mock" }

func (m *MockGateway) FetchOne(ctx context.Context, id int) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchOneCalls++
	if m.FetchOneErr != nil {
		return "", false, m.FetchOneErr
	}
	text, ok := m.Notes[id]
	return text, ok, nil
}

func (m *MockGateway) SaveOne(ctx context.Context, id int, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls = append(m.SaveCalls, SaveCall{ID: id, Text: text})
	if m.SaveErr != nil {
		return m.SaveErr
	}
	if m.Notes == nil {
		m.Notes = make(map[int]string)
	}
	m.Notes[id] = text
	return nil
}

func (m *MockGateway) DeleteOne(ctx context.Context, id int) error {
	return m.SaveOne(ctx, id, "")
}

func (m *MockGateway) FetchAll(ctx context.Context) (map[int]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchAllCalls++
	notes := make(map[int]string, len(m.Notes))
	for id, text := range m.Notes {
		if text != "" {
			notes[id] = text
		}
	}
	if m.FetchAllErr != nil {
		return notes, m.FetchAllErr
	}
	return notes, nil
}

// MockLookup is a test double for [services.LookupService].
type MockLookup struct {
	Entries map[int]*services.MediaEntry
	Err     error
	Calls   int
}

var _ services.LookupService = (*MockLookup)(nil)

func (m *MockLookup) GetEntry(ctx context.Context, id int) (*services.MediaEntry, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if entry, ok := m.Entries[id]; ok {
		return entry, nil
	}
	return nil, fmt.Errorf("media %d not found", id)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (w *FWriter) Write(p []byte) (int, error) {
	return 0, errors.New("write failed")
}
