package state

import (
	"context"
	"sync"

	contractx "github.com/tanpawarit/promo-agent/agent/contract"
)

var _ contractx.TranscriptStore = (*MemoryStore)(nil)

// MemoryStore keeps transcripts in process memory. Intended for local runs.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]contractx.Transcript
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]contractx.Transcript)}
}

func (s *MemoryStore) Load(_ context.Context, sessionID string) (contractx.Transcript, error) {
	if _, err := sessionKey("", sessionID); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.items[sessionID]
	if !ok {
		return nil, contractx.ErrTranscriptNotFound
	}
	return t.Clone(), nil
}

func (s *MemoryStore) Save(_ context.Context, sessionID string, transcript contractx.Transcript) error {
	if _, err := sessionKey("", sessionID); err != nil {
		return err
	}
	if err := validate(transcript); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[sessionID] = transcript.Clone()
	return nil
}
