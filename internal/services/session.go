package services

import (
	"log"
	"sync"
	"time"

	"github.com/kalagato/valuebot-backend/internal/models"
)

// DefaultSessionTTL is how long a session may sit idle before the next
// contact restarts the conversation at consent.
const DefaultSessionTTL = 30 * time.Minute

// SessionManager owns the in-memory session map, one entry per phone
// number. Expiry is lazy: an expired session is dropped when that user next
// writes in; the periodic sweeper in internal/jobs only reclaims memory and
// never changes observable behavior.
type SessionManager struct {
	sessions map[string]*models.Session
	locks    map[string]*sync.Mutex // per-identifier event serialization
	mu       sync.RWMutex
	ttl      time.Duration
}

// NewSessionManager creates a session manager with the given idle timeout.
func NewSessionManager(ttl time.Duration) *SessionManager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionManager{
		sessions: make(map[string]*models.Session),
		locks:    make(map[string]*sync.Mutex),
		ttl:      ttl,
	}
}

// LockIdentifier serializes event handling for one identifier. Concurrent
// webhook deliveries for the same sender must not both read and advance the
// same question index. Returns the unlock func.
func (sm *SessionManager) LockIdentifier(identifier string) func() {
	sm.mu.Lock()
	lock, exists := sm.locks[identifier]
	if !exists {
		lock = &sync.Mutex{}
		sm.locks[identifier] = lock
	}
	sm.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// Get returns the live session for an identifier. A session idle past the
// TTL is evicted here and reported as absent, so the caller treats the user
// as brand new.
func (sm *SessionManager) Get(identifier string) (*models.Session, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	session, exists := sm.sessions[identifier]
	if !exists {
		return nil, false
	}
	if time.Since(session.LastActive) > sm.ttl {
		delete(sm.sessions, identifier)
		log.Printf("Session expired for %s - discarding partial answers", identifier)
		return nil, false
	}
	return session, true
}

// Create starts a fresh session at the consent phase.
func (sm *SessionManager) Create(identifier string) *models.Session {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	now := time.Now()
	session := &models.Session{
		Identifier: identifier,
		Phase:      models.PhaseAwaitingConsent,
		Answers:    make(map[string]string),
		CreatedAt:  now,
		LastActive: now,
	}
	sm.sessions[identifier] = session
	log.Printf("Session created for %s", identifier)
	return session
}

// Touch refreshes the session's activity timestamp.
func (sm *SessionManager) Touch(session *models.Session) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	session.LastActive = time.Now()
}

// Delete removes a session. Called on decline, completion, or a broken
// internal state; sessions are never reused afterwards.
func (sm *SessionManager) Delete(identifier string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.sessions, identifier)
}

// SweepExpired drops every session idle past the TTL and returns how many
// were removed.
func (sm *SessionManager) SweepExpired() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	removed := 0
	for identifier, session := range sm.sessions {
		if time.Since(session.LastActive) > sm.ttl {
			delete(sm.sessions, identifier)
			removed++
		}
	}
	return removed
}

// ActiveCount returns the number of live sessions (for monitoring).
func (sm *SessionManager) ActiveCount() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	count := 0
	for _, session := range sm.sessions {
		if time.Since(session.LastActive) <= sm.ttl {
			count++
		}
	}
	return count
}
