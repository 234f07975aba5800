package session

import "context"

// runEnd implements spec.md §4.10: broadcast the terminal snapshot plus
// end_game, then drain any late joiners with that same pair of messages
// before closing their sinks. It returns once the inbound stream closes.
func (s *Session) runEnd(ctx context.Context, outcome Outcome) {
	phase := PhaseVictory
	if outcome == OutcomeDefeat {
		phase = PhaseFailure
	}

	final := s.buildSnapshot(GameStateView{Phase: phase})
	s.reg.broadcast(final)
	s.reg.broadcast(NewEndGameMessage())

	for {
		ev, ok := s.nextEvent(ctx)
		if !ok {
			return
		}
		switch ev.Kind {
		case EventClientJoin:
			s.reg.addSink(ev.PlayerID, ev.Sink, Player{})
			_ = ev.Sink.Send(final)
			_ = ev.Sink.Send(NewEndGameMessage())
			ev.Sink.Close()
		case EventClientLeave:
			s.reg.pruneClosed(ev.PlayerID)
		}
	}
}
