// Package registry maps game names to their running session, creating a
// session (and its driver goroutine) the first time a name is used
// (spec.md §1: "first to use a game-name creates it"). Grounded on
// Seednode-partybox/celebrity.go's GameManager (getHub, reaperLoop),
// generalized to take a caller-supplied name instead of minting a random
// one.
package registry

import (
	"context"
	"sync"
	"time"

	"github.com/anlumo/tttod/internal/session"
)

type entry struct {
	session    *session.Session
	cancel     context.CancelFunc
	lastActive time.Time
}

// Manager owns the set of live sessions for a server process.
type Manager struct {
	mu          sync.Mutex
	sessions    map[string]*entry
	idleTimeout time.Duration
}

// NewManager returns a Manager that reaps sessions idle for longer than
// idleTimeout. A zero idleTimeout disables reaping.
func NewManager(idleTimeout time.Duration) *Manager {
	m := &Manager{
		sessions:    make(map[string]*entry),
		idleTimeout: idleTimeout,
	}
	if idleTimeout > 0 {
		go m.reaperLoop()
	}
	return m
}

// GetOrCreate returns gameName's session, starting a fresh driver
// goroutine the first time this name is seen.
func (m *Manager) GetOrCreate(gameName string, rng session.Randomizer, logf func(format string, args ...any)) *session.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.sessions[gameName]; ok {
		e.lastActive = time.Now()
		return e.session
	}

	sess := session.New(gameName, rng)
	sess.SetLogger(logf)

	ctx, cancel := context.WithCancel(context.Background())
	m.sessions[gameName] = &entry{session: sess, cancel: cancel, lastActive: time.Now()}
	go sess.Run(ctx)

	return sess
}

// Touch records activity for gameName's idle timer. The core session
// itself tracks no wall-clock state (spec.md §5); idle reaping is a
// transport/registry-level courtesy layered on top.
func (m *Manager) Touch(gameName string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.sessions[gameName]; ok {
		e.lastActive = time.Now()
	}
}

func (m *Manager) reaperLoop() {
	ticker := time.NewTicker(m.idleTimeout / 2)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-m.idleTimeout)

		m.mu.Lock()
		for name, e := range m.sessions {
			if e.lastActive.Before(cutoff) {
				delete(m.sessions, name)
				e.cancel()
			}
		}
		m.mu.Unlock()
	}
}
