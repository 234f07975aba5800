package session

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// fakeSink is an in-memory Sink double: it records every message sent to
// it so tests can assert on what a client would have received, mirroring
// the role Seednode-partybox's tests would give a mock Client.
type fakeSink struct {
	mu       sync.Mutex
	messages []any
	closed   bool
}

var errFakeSinkClosed = errors.New("fakeSink: closed")

func (f *fakeSink) Send(msg any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return errFakeSinkClosed
	}
	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakeSink) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *fakeSink) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakeSink) last() any {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.messages) == 0 {
		return nil
	}
	return f.messages[len(f.messages)-1]
}

func (f *fakeSink) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages)
}

// lastPushState returns the most recently received PushStateMessage, or
// false if none has arrived yet.
func (f *fakeSink) lastPushState() (PushStateMessage, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.messages) - 1; i >= 0; i-- {
		if ps, ok := f.messages[i].(PushStateMessage); ok {
			return ps, true
		}
	}
	return PushStateMessage{}, false
}

// lastChallengeResult returns the most recently received
// ChallengeResultMessage, or false if none has arrived yet. The
// ChallengeResult sent for challenge_accepted or use_artifact is
// immediately followed by a fresh snapshot broadcast, so scanning back past
// any trailing PushStateMessage is required rather than asserting on the
// sink's literal last message.
func (f *fakeSink) lastChallengeResult() (ChallengeResultMessage, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.messages) - 1; i >= 0; i-- {
		if cr, ok := f.messages[i].(ChallengeResultMessage); ok {
			return cr, true
		}
	}
	return ChallengeResultMessage{}, false
}

// newSeatedSession builds a Session with n players already registered
// (bypassing Lobby), each with a fresh fakeSink and default ready-to-play
// stats, so phase handlers below Lobby can be exercised directly.
func newSeatedSession(rng Randomizer, n int) (*Session, []PlayerID, []*fakeSink) {
	s := New("test-game", rng)
	ids := make([]PlayerID, n)
	sinks := make([]*fakeSink, n)
	for i := 0; i < n; i++ {
		stats := DefaultPlayerStats()
		stats.Name = "player"
		stats.ArtifactName = "artifact"
		stats.ArtifactOrigin = "origin"

		sink := &fakeSink{}
		id := uuid.New()
		s.reg.addSink(id, sink, Player{
			Name:            "player",
			Ready:           true,
			Stats:           &stats,
			Condition:       ConditionHale,
			MentalCondition: MentalHale,
		})
		ids[i] = id
		sinks[i] = sink
	}
	return s, ids, sinks
}
