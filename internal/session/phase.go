package session

import "context"

// Outcome is what a phase handler returns to the session driver (spec.md
// §9: "returning either ok, victory, or defeat").
type Outcome int

const (
	// OutcomeOK means the phase's termination predicate fired normally;
	// the driver advances to the next phase.
	OutcomeOK Outcome = iota
	// OutcomeVictory means the game was won (FinalBattle only).
	OutcomeVictory
	// OutcomeDefeat means the session should end in failure immediately.
	OutcomeDefeat
	// outcomeClosed is internal: the inbound event stream closed, which is
	// fatal (spec.md §4.1 "Failure model") — the driver exits without
	// running End, since no further broadcasts are possible.
	outcomeClosed
)

// Phase tag strings embedded in every push_state's game_state.phase field
// (spec.md §3, §6).
const (
	PhaseLobby                 = "lobby"
	PhaseDefineEvil            = "define_evil"
	PhaseCharacterCreation     = "character_creation"
	PhaseCharacterIntroduction = "character_introduction"
	PhaseRoom                  = "room"
	PhaseFinalBattle           = "final_battle"
	PhaseVictory               = "victory"
	PhaseFailure               = "failure"
)

// nextEvent blocks for the next inbound event, or reports ok=false once
// the inbound channel closes or ctx is cancelled (spec.md §5 "the only
// suspension is await next event from inbound queue").
func (s *Session) nextEvent(ctx context.Context) (InboundEvent, bool) {
	select {
	case ev, ok := <-s.inbound:
		return ev, ok
	case <-ctx.Done():
		return InboundEvent{}, false
	}
}

// allReady reports whether every current player's Ready flag is set.
func (s *Session) allReady() bool {
	for _, id := range s.reg.ids() {
		p, _ := s.reg.get(id)
		if !p.Ready {
			return false
		}
	}
	return true
}

// resetReady clears every player's Ready flag, used on entry to
// DefineEvil, CharacterCreation and CharacterIntroduction (spec.md
// §4.3-§4.5).
func (s *Session) resetReady() {
	for _, id := range s.reg.ids() {
		s.reg.mutate(id, func(p *Player) { p.Ready = false })
	}
}

// liveActivePlayers returns ids of players who are neither Dead nor
// Possessed, in join order.
func (s *Session) liveActivePlayers() []PlayerID {
	var out []PlayerID
	for _, id := range s.reg.ids() {
		p, _ := s.reg.get(id)
		if p.IsActive() {
			out = append(out, id)
		}
	}
	return out
}

// handleJoinPostLobby processes a ClientJoin event outside Lobby: an
// existing player may add another sink (extra tab, reconnect); an unknown
// id is rejected with game_is_ongoing and its sink closed (spec.md §4.11,
// §7). It returns whether the id was already a known player, i.e. whether
// the caller should proceed to send phase-specific reconnect snapshots.
func (s *Session) handleJoinPostLobby(id PlayerID, sink Sink) bool {
	if !s.reg.has(id) {
		_ = sink.Send(NewGameIsOngoingMessage())
		sink.Close()
		return false
	}
	s.reg.addSink(id, sink, Player{})
	return true
}
