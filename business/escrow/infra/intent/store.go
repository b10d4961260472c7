// Package intent provides deposit intent persistence: an in-memory
// store for ephemeral sessions and a JSON file store that survives a
// restart mid-saga.
package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fd1az/escrow-desk/business/escrow/app"
)

// MemoryStore keeps intents in memory. Suitable for tests and for
// sessions where crash recovery is not required.
type MemoryStore struct {
	mu      sync.RWMutex
	intents map[uint64]app.DepositIntent
}

// NewMemoryStore creates an empty in-memory intent store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{intents: make(map[uint64]app.DepositIntent)}
}

func (s *MemoryStore) Save(_ context.Context, intent app.DepositIntent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.intents[intent.EscrowID] = intent
	return nil
}

func (s *MemoryStore) Get(_ context.Context, escrowID uint64) (app.DepositIntent, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	intent, ok := s.intents[escrowID]
	return intent, ok, nil
}

func (s *MemoryStore) Delete(_ context.Context, escrowID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.intents, escrowID)
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]app.DepositIntent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]app.DepositIntent, 0, len(s.intents))
	for _, intent := range s.intents {
		out = append(out, intent)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EscrowID < out[j].EscrowID })
	return out, nil
}

// FileStore persists intents as a JSON file so a crash between supply
// and verification is recoverable on the next run.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a file-backed intent store at path, creating
// parent directories as needed.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create intent dir: %w", err)
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Save(_ context.Context, intent app.DepositIntent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	intents, err := s.load()
	if err != nil {
		return err
	}
	intents[intent.EscrowID] = intent
	return s.flush(intents)
}

func (s *FileStore) Get(_ context.Context, escrowID uint64) (app.DepositIntent, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	intents, err := s.load()
	if err != nil {
		return app.DepositIntent{}, false, err
	}
	intent, ok := intents[escrowID]
	return intent, ok, nil
}

func (s *FileStore) Delete(_ context.Context, escrowID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	intents, err := s.load()
	if err != nil {
		return err
	}
	delete(intents, escrowID)
	return s.flush(intents)
}

func (s *FileStore) List(_ context.Context) ([]app.DepositIntent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	intents, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]app.DepositIntent, 0, len(intents))
	for _, intent := range intents {
		out = append(out, intent)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EscrowID < out[j].EscrowID })
	return out, nil
}

func (s *FileStore) load() (map[uint64]app.DepositIntent, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[uint64]app.DepositIntent), nil
		}
		return nil, fmt.Errorf("failed to read intent file: %w", err)
	}

	var intents map[uint64]app.DepositIntent
	if err := json.Unmarshal(data, &intents); err != nil {
		return nil, fmt.Errorf("failed to parse intent file: %w", err)
	}
	if intents == nil {
		intents = make(map[uint64]app.DepositIntent)
	}
	return intents, nil
}

func (s *FileStore) flush(intents map[uint64]app.DepositIntent) error {
	data, err := json.MarshalIndent(intents, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode intents: %w", err)
	}

	// Write-then-rename keeps the file readable if we crash mid-write.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write intent file: %w", err)
	}
	return os.Rename(tmp, s.path)
}
