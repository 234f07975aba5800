package session

import "context"

// runCharacterIntroduction implements spec.md §4.5: the only meaningful
// message is ReadyForGame; it terminates once everyone has sent it.
func (s *Session) runCharacterIntroduction(ctx context.Context) Outcome {
	s.resetReady()
	s.broadcastSnapshot(GameStateView{Phase: PhaseCharacterIntroduction})

	for {
		if s.allReady() {
			return OutcomeOK
		}

		ev, ok := s.nextEvent(ctx)
		if !ok {
			return outcomeClosed
		}

		switch ev.Kind {
		case EventClientJoin:
			if s.handleJoinPostLobby(ev.PlayerID, ev.Sink) {
				_ = ev.Sink.Send(s.buildSnapshot(GameStateView{Phase: PhaseCharacterIntroduction}))
			}

		case EventClientLeave:
			s.reg.pruneClosed(ev.PlayerID)

		case EventClientMessage:
			if ev.Message.Cmd == CmdReadyForGame {
				s.reg.mutate(ev.PlayerID, func(p *Player) { p.Ready = true })
				s.broadcastSnapshot(GameStateView{Phase: PhaseCharacterIntroduction})
			}
		}
	}
}
