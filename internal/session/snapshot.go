package session

// buildSnapshot assembles a push_state message reflecting the session's
// current player map, kick votes, and clue list (spec.md §4.11), grounded
// on original_source/tttod_server/src/game.rs's push_state_all (clone the
// player map on every mutation).
func (s *Session) buildSnapshot(gs GameStateView) PushStateMessage {
	return PushStateMessage{
		Cmd:             "push_state",
		Players:         s.reg.playersClone(),
		GameState:       gs,
		PlayerKickVotes: s.kickVotesView(),
		KnownClues:      s.cluesView(s.clues),
	}
}

// buildSnapshotClues is buildSnapshot with an explicit clue list override.
// FinalBattle uses it to expose its shrinking remaining_clues working copy
// (the clues a GM can actually still choose from) instead of the full
// master clue list every other phase shows (see DESIGN.md Open Questions).
func (s *Session) buildSnapshotClues(gs GameStateView, clues []Clue) PushStateMessage {
	msg := s.buildSnapshot(gs)
	msg.KnownClues = s.cluesView(clues)
	return msg
}

func (s *Session) cluesView(clues []Clue) []ClueView {
	views := make([]ClueView, len(clues))
	for i, c := range clues {
		views[i] = c.View()
	}
	return views
}

// broadcastSnapshot pushes the same snapshot to every connected sink.
func (s *Session) broadcastSnapshot(gs GameStateView) {
	s.reg.broadcast(s.buildSnapshot(gs))
}

// broadcastPerPlayer sends each player their own snapshot built by build,
// for phases whose game_state hides details (e.g. an active challenge)
// from non-participants (spec.md §4.7, §4.8, §4.11).
func (s *Session) broadcastPerPlayer(build func(id PlayerID) PushStateMessage) {
	for _, id := range s.reg.ids() {
		s.reg.unicast(id, build(id))
	}
}
