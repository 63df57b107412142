package store

import (
	"sync"

	"personachat/core"
)

// MemoryStore is an in-process Store used by tests and by the CLI's
// ephemeral mode. Contents are lost when the process exits.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]core.Message
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]core.Message)}
}

func (s *MemoryStore) Load(personaID string) ([]core.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.CloneMessages(s.records[recordKey(personaID)]), nil
}

func (s *MemoryStore) Save(personaID string, msgs []core.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[recordKey(personaID)] = core.CloneMessages(msgs)
	return nil
}

func (s *MemoryStore) Clear(personaID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, recordKey(personaID))
	return nil
}
