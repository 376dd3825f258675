package jobs

import (
	"log"
	"time"

	"github.com/kalagato/valuebot-backend/internal/services"
)

// SweepInterval is how often the expired-session sweep runs.
const SweepInterval = 5 * time.Minute

// SessionSweeper periodically reclaims memory from expired sessions.
// Expiry itself is already enforced lazily on the next inbound message;
// this job only keeps the map from accumulating abandoned conversations.
type SessionSweeper struct {
	sessions *services.SessionManager
	stop     chan struct{}
}

// NewSessionSweeper creates a sweeper over the given session manager.
func NewSessionSweeper(sessions *services.SessionManager) *SessionSweeper {
	return &SessionSweeper{
		sessions: sessions,
		stop:     make(chan struct{}),
	}
}

// Start begins the background sweep loop.
func (s *SessionSweeper) Start() {
	log.Println("Starting session sweeper...")
	go s.run()
}

// Stop halts the sweep loop.
func (s *SessionSweeper) Stop() {
	close(s.stop)
	log.Println("Stopping session sweeper...")
}

func (s *SessionSweeper) run() {
	ticker := time.NewTicker(SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := s.sessions.SweepExpired(); removed > 0 {
				log.Printf("Cleaned up %d expired session(s)", removed)
			}
		case <-s.stop:
			return
		}
	}
}
