package wizard

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store keeps live wizard sessions in memory. Sessions mirror client-held
// checkout state and die with the process; orders are the only durable
// record.
type Store struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*Session
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:      ttl,
		sessions: make(map[string]*Session),
	}
}

func (st *Store) Create() *Session {
	session := NewSession(uuid.NewString())

	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[session.ID] = session
	return session
}

func (st *Store) Get(id string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	session, ok := st.sessions[id]
	return session, ok
}

func (st *Store) Delete(id string) {
	st.mu.Lock()
	session, ok := st.sessions[id]
	if ok {
		delete(st.sessions, id)
	}
	st.mu.Unlock()

	if ok {
		session.releaseAll()
	}
}

// Sweep drops sessions idle longer than the store TTL and releases their
// file resources. Returns the number of sessions removed.
func (st *Store) Sweep() int {
	cutoff := time.Now().Add(-st.ttl)

	st.mu.Lock()
	var expired []*Session
	for id, session := range st.sessions {
		session.mu.Lock()
		stale := session.UpdatedAt.Before(cutoff)
		session.mu.Unlock()
		if stale {
			delete(st.sessions, id)
			expired = append(expired, session)
		}
	}
	st.mu.Unlock()

	for _, session := range expired {
		session.releaseAll()
	}
	return len(expired)
}

func (st *Store) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := st.Sweep(); n > 0 {
					log.Printf("wizard: swept %d expired sessions", n)
				}
			}
		}
	}()
}

func (s *Session) releaseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.release != nil {
			item.release()
			item.release = nil
		}
	}
	s.items = nil
}
