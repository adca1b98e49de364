package server

import (
	"context"
	"sync"
)

// sessionLocks serializes requests that share a session id.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	sem  chan struct{}
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sessionLock)}
}

// acquire waits until the session is free or ctx is done. On success it
// returns the release func.
func (s *sessionLocks) acquire(ctx context.Context, sessionID string) (func(), error) {
	s.mu.Lock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sessionLock{sem: make(chan struct{}, 1)}
		s.locks[sessionID] = l
	}
	l.refs++
	s.mu.Unlock()

	select {
	case l.sem <- struct{}{}:
		return func() {
			<-l.sem
			s.unref(sessionID, l)
		}, nil
	case <-ctx.Done():
		s.unref(sessionID, l)
		return nil, ctx.Err()
	}
}

func (s *sessionLocks) unref(sessionID string, l *sessionLock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(s.locks, sessionID)
	}
}

func (s *sessionLocks) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.locks)
}
